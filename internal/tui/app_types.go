package tui

import (
	"shelf-cli/internal/model"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
	confirmFocusCheckbox
)

// row is one rendered line of the grouped list: either a date-category
// header or a chat.
type row struct {
	header string
	count  int
	item   *model.ChatItem
}

func (r row) isHeader() bool { return r.item == nil }

type chatsLoadedMsg struct {
	items []model.ChatItem
	err   error
}

type linkResolvedMsg struct {
	chatKey string
	link    model.LinkedProject
	err     error
}

type deleteSettledMsg struct {
	result model.DeleteResult
}
