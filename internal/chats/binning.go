package chats

import (
	"sort"
	"time"

	"shelf-cli/internal/model"
)

// Bin is one labeled chronological bucket of chats.
type Bin struct {
	Category string
	Items    []model.ChatItem
}

// binUnknown is the fallback bucket for chats with no resolvable timestamp.
const binUnknown = "Unknown"

// BinByDate partitions items into display buckets relative to now:
// Today, Yesterday, Last 7 Days, Last 30 Days, then one bucket per month.
// Buckets come out newest-category-first and items newest-first within
// each bucket. Every input item lands in exactly one bucket; items with a
// zero timestamp go to "Unknown" (always last) instead of being dropped.
func BinByDate(items []model.ChatItem, now time.Time) []Bin {
	sorted := make([]model.ChatItem, len(items))
	copy(sorted, items)
	// Zero timestamps sort to the end, which also places the Unknown
	// bucket after every dated one.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var bins []Bin
	idx := map[string]int{}
	for _, it := range sorted {
		cat := dateCategory(it.CreatedAt, now)
		i, ok := idx[cat]
		if !ok {
			i = len(bins)
			idx[cat] = i
			bins = append(bins, Bin{Category: cat})
		}
		bins[i].Items = append(bins[i].Items, it)
	}
	return bins
}

func dateCategory(ts, now time.Time) string {
	if ts.IsZero() {
		return binUnknown
	}
	ts = ts.In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case !ts.Before(today):
		return "Today"
	case !ts.Before(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case !ts.Before(today.AddDate(0, 0, -6)):
		return "Last 7 Days"
	case !ts.Before(today.AddDate(0, 0, -29)):
		return "Last 30 Days"
	case ts.Year() == now.Year():
		return ts.Month().String()
	default:
		return ts.Month().String() + " " + ts.Format("2006")
	}
}
