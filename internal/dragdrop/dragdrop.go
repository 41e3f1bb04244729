// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dragdrop resolves a drop gesture into a single move intent
// (task, destination column, destination index). All geometry reading
// sits behind the Geometry interface so the resolution math is testable
// without a rendering layer, and every geometry source is optional:
// drag toolkits report slightly different rectangles depending on
// animation timing, so the resolver degrades through fallbacks instead
// of failing. The worst outcome is the naive overlap index or the
// original index, never a crash.
package dragdrop

import "taskboard/internal/boardstate"

// Rect is an axis-aligned bounding box in viewport coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// CenterY returns the vertical midpoint of the box.
func (r Rect) CenterY() float64 {
	return r.Top + r.Height/2
}

// Point is a 2D offset or translation.
type Point struct {
	X float64
	Y float64
}

// DropEvent carries everything known about the gesture at drop time.
// Geometry fields are pointers because drag toolkits do not always
// supply them.
type DropEvent struct {
	// ActiveID is the dragged task's id.
	ActiveID string

	// OverID is the id of the element under the pointer at drop time,
	// either a column id or another card's task id.
	OverID string

	// InitialRect is the dragged card's bounding box at drag start.
	InitialRect *Rect

	// PointerOffset is where inside InitialRect the pointer grabbed the
	// card at drag start.
	PointerOffset *Point

	// Delta is the cumulative pointer translation since drag start.
	Delta Point

	// TranslatedRect is the toolkit's final rect for the dragged card,
	// already shifted by Delta.
	TranslatedRect *Rect
}

// Geometry looks up live card rectangles. Implementations read from the
// rendering layer; tests supply fixed boxes. Either method may report
// that it has nothing.
type Geometry interface {
	// TaskRect returns the current on-screen box of a card.
	TaskRect(taskID string) (Rect, bool)

	// SiblingRects returns the on-screen boxes of a column's cards in
	// board order. Missing cards are simply absent from the result.
	SiblingRects(categoryID string) map[string]Rect
}

// Intent is the resolved move: place TaskID into CategoryID at Index.
type Intent struct {
	TaskID     string
	CategoryID string
	Index      int
}

// Resolve converts a drop event into a move intent against the given
// board snapshot. ok is false when the dragged task or the drop target
// cannot be found in the snapshot, in which case the gesture should be
// discarded. geo may be nil.
func Resolve(ev DropEvent, board []boardstate.Category, geo Geometry) (intent Intent, ok bool) {
	source, sourceIndex := locateTask(board, ev.ActiveID)
	if source == nil {
		return Intent{}, false
	}

	target, overColumn := locateTarget(board, ev.OverID)
	if target == nil {
		return Intent{}, false
	}

	intent = Intent{TaskID: ev.ActiveID, CategoryID: target.ID}

	switch {
	case source.ID != target.ID && overColumn:
		// Dropping onto a foreign column body always lands on top.
		intent.Index = 0

	case source.ID == target.ID && (overColumn || ev.OverID == ev.ActiveID):
		// The pointer tells us more than the target here: reconstruct
		// its vertical position and count siblings above it.
		index, resolved := pointerIndex(ev, target, geo)
		if !resolved {
			// No usable geometry. Keep the card where it is.
			index = sourceIndex
		}
		intent.Index = index

	default:
		// Dropped on a specific other card: take its slot.
		intent.Index = taskIndex(target, ev.OverID)
	}

	intent.Index = clampIndex(intent.Index, source, target)
	return intent, true
}

// pointerIndex reconstructs the pointer's vertical center and counts
// how many sibling cards sit above it. The reconstruction degrades:
// recorded grab offset, then the live rect, then the toolkit's
// translated rect, then the initial rect shifted by the delta.
func pointerIndex(ev DropEvent, target *boardstate.Category, geo Geometry) (int, bool) {
	y, ok := pointerCenterY(ev, geo)
	if !ok {
		return 0, false
	}

	var rects map[string]Rect
	if geo != nil {
		rects = geo.SiblingRects(target.ID)
	}
	if len(rects) == 0 {
		return 0, false
	}

	index := 0
	for _, task := range target.Tasks {
		if task.ID == ev.ActiveID {
			continue
		}
		if r, found := rects[task.ID]; found && r.CenterY() < y {
			index++
		}
	}
	return index, true
}

func pointerCenterY(ev DropEvent, geo Geometry) (float64, bool) {
	if ev.InitialRect != nil && ev.PointerOffset != nil {
		return ev.InitialRect.Top + ev.PointerOffset.Y + ev.Delta.Y, true
	}
	if geo != nil {
		if r, found := geo.TaskRect(ev.ActiveID); found {
			return r.CenterY(), true
		}
	}
	if ev.TranslatedRect != nil {
		return ev.TranslatedRect.CenterY(), true
	}
	if ev.InitialRect != nil {
		return ev.InitialRect.CenterY() + ev.Delta.Y, true
	}
	return 0, false
}

// locateTask finds the column holding a task and the task's index in it.
func locateTask(board []boardstate.Category, taskID string) (*boardstate.Category, int) {
	for i := range board {
		for j := range board[i].Tasks {
			if board[i].Tasks[j].ID == taskID {
				return &board[i], j
			}
		}
	}
	return nil, 0
}

// locateTarget resolves overID to a column, either directly or through
// the card it names. overColumn reports which of the two it was.
func locateTarget(board []boardstate.Category, overID string) (target *boardstate.Category, overColumn bool) {
	for i := range board {
		if board[i].ID == overID {
			return &board[i], true
		}
	}
	if c, _ := locateTask(board, overID); c != nil {
		return c, false
	}
	return nil, false
}

func taskIndex(c *boardstate.Category, taskID string) int {
	for i := range c.Tasks {
		if c.Tasks[i].ID == taskID {
			return i
		}
	}
	return 0
}

// clampIndex bounds the index to what the destination can hold. A move
// within the same column cannot exceed the last slot; a move into a
// foreign column may append one past the end.
func clampIndex(index int, source, target *boardstate.Category) int {
	max := len(target.Tasks)
	if source.ID == target.ID {
		max--
	}
	if max < 0 {
		max = 0
	}
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}
