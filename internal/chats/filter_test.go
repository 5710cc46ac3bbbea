package chats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelf-cli/internal/model"
)

func chat(initialID, description string) model.ChatItem {
	return model.ChatItem{InitialID: initialID, Description: description}
}

func TestFilter_EmptyQueryReturnsInputUnchanged(t *testing.T) {
	items := []model.ChatItem{chat("a", "Todo App"), chat("b", "Notes")}

	got := Filter(items, "", DescriptionField)
	assert.Equal(t, items, got)

	got = Filter(items, "   ", DescriptionField)
	assert.Equal(t, items, got)
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	items := []model.ChatItem{
		chat("a", "Todo App"),
		chat("b", "Weather dashboard"),
		chat("c", "TODO list rewrite"),
	}

	got := Filter(items, "todo", DescriptionField)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].InitialID)
	assert.Equal(t, "c", got[1].InitialID)
}

func TestFilter_PreservesRelativeOrder(t *testing.T) {
	items := []model.ChatItem{
		chat("1", "x alpha"), chat("2", "beta"), chat("3", "alpha y"),
		chat("4", "gamma"), chat("5", "ALPHA"),
	}

	got := Filter(items, "alpha", DescriptionField)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"1", "3", "5"}, []string{got[0].InitialID, got[1].InitialID, got[2].InitialID})
}

func TestFilter_MatchesAnyConfiguredField(t *testing.T) {
	items := []model.ChatItem{
		{InitialID: "a", Description: "nothing", URLID: "todo-app"},
		{InitialID: "b", Description: "also nothing", URLID: "misc"},
	}

	got := Filter(items, "todo", DescriptionField, URLIDField)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].InitialID)

	// Without the URLID field configured, nothing matches.
	got = Filter(items, "todo", DescriptionField)
	assert.Empty(t, got)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	items := []model.ChatItem{chat("a", "Todo App"), chat("b", "Notes")}
	before := make([]model.ChatItem, len(items))
	copy(before, items)

	_ = Filter(items, "todo", DescriptionField)
	assert.Equal(t, before, items)
}

func TestFilter_DropsNonMatchingUntitledChat(t *testing.T) {
	now := time.Now()
	items := []model.ChatItem{
		{InitialID: "1", Description: "Todo App", CreatedAt: now},
		{InitialID: "2", Description: "", CreatedAt: now.AddDate(0, 0, -8)},
	}

	got := Filter(items, "todo", DescriptionField)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].InitialID)
}
