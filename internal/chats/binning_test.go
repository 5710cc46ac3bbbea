package chats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelf-cli/internal/model"
)

var binNow = time.Date(2026, time.August, 30, 15, 0, 0, 0, time.UTC)

func at(t time.Time) model.ChatItem {
	return model.ChatItem{InitialID: t.Format(time.RFC3339Nano), CreatedAt: t}
}

func TestBinByDate_Categories(t *testing.T) {
	items := []model.ChatItem{
		at(binNow.Add(-2 * time.Hour)),           // Today
		at(binNow.AddDate(0, 0, -1)),             // Yesterday
		at(binNow.AddDate(0, 0, -4)),             // Last 7 Days
		at(binNow.AddDate(0, 0, -8)),             // Last 30 Days
		at(time.Date(2026, time.May, 2, 9, 0, 0, 0, time.UTC)),     // May
		at(time.Date(2025, time.December, 24, 9, 0, 0, 0, time.UTC)), // December 2025
	}

	bins := BinByDate(items, binNow)
	require.Len(t, bins, 6)
	cats := make([]string, len(bins))
	for i, b := range bins {
		cats[i] = b.Category
	}
	assert.Equal(t, []string{"Today", "Yesterday", "Last 7 Days", "Last 30 Days", "May", "December 2025"}, cats)
}

func TestBinByDate_ExactPartition(t *testing.T) {
	items := []model.ChatItem{
		at(binNow), at(binNow.AddDate(0, 0, -3)), at(binNow.AddDate(0, 0, -40)),
		{InitialID: "no-ts"},
	}

	bins := BinByDate(items, binNow)
	seen := map[string]int{}
	total := 0
	for _, b := range bins {
		for _, it := range b.Items {
			seen[it.InitialID]++
			total++
		}
	}
	assert.Equal(t, len(items), total)
	for _, it := range items {
		assert.Equal(t, 1, seen[it.InitialID], "item %s must land in exactly one bin", it.InitialID)
	}
}

func TestBinByDate_NewestFirstWithinBin(t *testing.T) {
	older := binNow.Add(-5 * time.Hour)
	newer := binNow.Add(-1 * time.Hour)
	bins := BinByDate([]model.ChatItem{at(older), at(newer)}, binNow)

	require.Len(t, bins, 1)
	require.Len(t, bins[0].Items, 2)
	assert.Equal(t, newer, bins[0].Items[0].CreatedAt)
	assert.Equal(t, older, bins[0].Items[1].CreatedAt)
}

func TestBinByDate_UnknownBucketIsLast(t *testing.T) {
	bins := BinByDate([]model.ChatItem{
		{InitialID: "no-ts"},
		at(binNow),
	}, binNow)

	require.Len(t, bins, 2)
	assert.Equal(t, "Today", bins[0].Category)
	assert.Equal(t, "Unknown", bins[1].Category)
	require.Len(t, bins[1].Items, 1)
	assert.Equal(t, "no-ts", bins[1].Items[0].InitialID)
}

func TestBinByDate_EightDaysAgoFallsInLast30Days(t *testing.T) {
	item := model.ChatItem{InitialID: "2", CreatedAt: binNow.AddDate(0, 0, -8)}
	bins := BinByDate([]model.ChatItem{item}, binNow)

	require.Len(t, bins, 1)
	assert.Equal(t, "Last 30 Days", bins[0].Category)
	assert.Equal(t, []model.ChatItem{item}, bins[0].Items)
}

func TestBinByDate_Empty(t *testing.T) {
	assert.Empty(t, BinByDate(nil, binNow))
}
