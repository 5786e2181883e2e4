package core

import "time"

// Color is a terminal color name used when an item is displayed.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// State is the lifecycle of a record: either active or removed at a given time.
// The zero value is active.
type State struct {
	removed bool
	at      time.Time
}

// Active returns the state of a live record.
func Active() State {
	return State{}
}

// RemovedAt returns the state of a record soft-deleted at t.
func RemovedAt(t time.Time) State {
	return State{removed: true, at: t}
}

// IsRemoved reports whether the record has been soft-deleted.
func (s State) IsRemoved() bool {
	return s.removed
}

// RemovedAt returns the removal time and true when the record is removed.
func (s State) RemovedAt() (time.Time, bool) {
	return s.at, s.removed
}

func (s State) String() string {
	if !s.removed {
		return "active"
	}
	return "removed at " + s.at.Format(time.RFC3339)
}

// ListItem holds the descriptive fields shared by every record.
type ListItem struct {
	Name        string
	ShortName   string
	Description string
	CreatedAt   time.Time
	State       State
	Foreground  Color
	Background  Color
}

// Listable is implemented by every record that embeds a ListItem.
type Listable interface {
	Item() ListItem
}

// NewListItem returns an active item created at now with the default colors.
func NewListItem(name, shortName, description string, now time.Time) ListItem {
	return ListItem{
		Name:        name,
		ShortName:   shortName,
		Description: description,
		CreatedAt:   now,
		State:       Active(),
		Foreground:  ColorWhite,
		Background:  ColorBlack,
	}
}

// Item returns the descriptive fields. Promoted to every embedding record.
func (i ListItem) Item() ListItem {
	return i
}

// IsActive reports whether the item has not been soft-deleted.
func (i ListItem) IsActive() bool {
	return !i.State.IsRemoved()
}

// Remove marks the item as soft-deleted at t. Removing twice keeps the first time.
func (i *ListItem) Remove(t time.Time) {
	if i.State.IsRemoved() {
		return
	}
	i.State = RemovedAt(t)
}
