// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package boardstate holds an optimistic in-memory mirror of a user's
// board, the model a client renders from while mutations are in flight.
//
// Creates follow a pending/confirmed/rejected lifecycle: the entity is
// inserted immediately under a temporary id, replaced by the server's
// entity on success, and rolled back to the pre-mutation snapshot on
// failure. Moves are spliced in place and corrected by a full refetch.
// When a background refetch races a pending create, server data wins for
// every real id and temporary entries survive only until their server
// counterpart arrives.
package boardstate

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrUnknownCategory is returned when an operation names a column
	// that is not in the mirror.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownTask is returned when an operation names a card that is
	// not in the mirror.
	ErrUnknownTask = errors.New("unknown task")
)

// tempPrefix marks locally-synthesized ids so they can never collide
// with server ids.
const tempPrefix = "temp-"

// Category mirrors one board column. IDs are strings so optimistic
// entries can carry temporary ids.
type Category struct {
	ID    string
	Title string
	Color string
	Order int
	Tasks []Task
}

// Task mirrors one card.
type Task struct {
	ID         string
	CategoryID string
	Title      string
	Completed  bool
	Order      int
}

// Remote is the transport boundary. Implementations call the HTTP API.
type Remote interface {
	FetchBoard(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, title string) (*Category, error)
	CreateTask(ctx context.Context, categoryID, title string) (*Task, error)
	MoveTask(ctx context.Context, taskID, categoryID string, order int) error
}

// pendingKind distinguishes what a temporary id stands for.
type pendingKind int

const (
	pendingCategory pendingKind = iota
	pendingTask
)

type pendingOp struct {
	kind       pendingKind
	categoryID string // for tasks: the column the temp entry lives in
}

// Store is the observable board mirror. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	remote     Remote
	categories []Category
	selectedID string
	pending    map[string]pendingOp

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// New creates an empty store over the given transport.
func New(remote Remote) *Store {
	return &Store{
		remote:      remote,
		pending:     map[string]pendingOp{},
		subscribers: map[int]func(){},
	}
}

// IsTempID reports whether id was synthesized locally.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

func newTempID() string {
	return tempPrefix + uuid.New().String()
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// notify runs subscribers outside the state lock.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Board returns a deep copy of the current mirror.
func (s *Store) Board() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBoard(s.categories)
}

// Load fetches the full board and replaces the mirror.
func (s *Store) Load(ctx context.Context) error {
	board, err := s.remote.FetchBoard(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = s.mergeLocked(board)
	s.syncSelectedLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// CreateCategory appends a column optimistically, then reconciles with
// the server's answer.
func (s *Store) CreateCategory(ctx context.Context, title string) error {
	tempID := newTempID()

	s.mu.Lock()
	snapshot := cloneBoard(s.categories)
	s.categories = append(s.categories, Category{
		ID:    tempID,
		Title: title,
		Order: len(s.categories),
		Tasks: []Task{},
	})
	s.pending[tempID] = pendingOp{kind: pendingCategory}
	s.mu.Unlock()
	s.notify()

	created, err := s.remote.CreateCategory(ctx, title)

	s.mu.Lock()
	delete(s.pending, tempID)
	if err != nil {
		s.categories = snapshot
		s.syncSelectedLocked()
		s.mu.Unlock()
		s.notify()
		return err
	}
	// Replace by the recorded temp id, never by content.
	for i := range s.categories {
		if s.categories[i].ID == tempID {
			tasks := s.categories[i].Tasks
			s.categories[i] = *created
			if s.categories[i].Tasks == nil {
				s.categories[i].Tasks = tasks
			}
			break
		}
	}
	s.mu.Unlock()
	s.notify()

	return s.Load(ctx)
}

// CreateTask appends a card to a column optimistically, then reconciles
// with the server's answer.
func (s *Store) CreateTask(ctx context.Context, categoryID, title string) error {
	tempID := newTempID()

	s.mu.Lock()
	snapshot := cloneBoard(s.categories)
	ci := s.categoryIndexLocked(categoryID)
	if ci < 0 {
		s.mu.Unlock()
		return ErrUnknownCategory
	}
	s.categories[ci].Tasks = append(s.categories[ci].Tasks, Task{
		ID:         tempID,
		CategoryID: categoryID,
		Title:      title,
		Order:      len(s.categories[ci].Tasks),
	})
	s.pending[tempID] = pendingOp{kind: pendingTask, categoryID: categoryID}
	s.mu.Unlock()
	s.notify()

	created, err := s.remote.CreateTask(ctx, categoryID, title)

	s.mu.Lock()
	delete(s.pending, tempID)
	if err != nil {
		s.categories = snapshot
		s.syncSelectedLocked()
		s.mu.Unlock()
		s.notify()
		return err
	}
	for i := range s.categories {
		for j := range s.categories[i].Tasks {
			if s.categories[i].Tasks[j].ID == tempID {
				s.categories[i].Tasks[j] = *created
			}
		}
	}
	s.syncSelectedLocked()
	s.mu.Unlock()
	s.notify()

	return s.Load(ctx)
}

// MoveTask splices the card to its new slot immediately and fires the
// position update. Success and failure both resolve by refetch; the
// splice is not inverted by hand.
func (s *Store) MoveTask(ctx context.Context, taskID, categoryID string, index int) error {
	s.mu.Lock()
	moved := s.spliceLocked(taskID, categoryID, index)
	s.mu.Unlock()
	if !moved {
		return ErrUnknownTask
	}
	s.notify()

	if err := s.remote.MoveTask(ctx, taskID, categoryID, index); err != nil {
		// Rollback by refetch.
		if loadErr := s.Load(ctx); loadErr != nil {
			return loadErr
		}
		return err
	}
	return s.Load(ctx)
}

// Select marks a task as open in the detail view. An empty id clears it.
func (s *Store) Select(taskID string) {
	s.mu.Lock()
	s.selectedID = taskID
	s.syncSelectedLocked()
	s.mu.Unlock()
	s.notify()
}

// Selected returns the currently-open task, or nil when none is
// selected or the task no longer exists.
func (s *Store) Selected() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return nil
	}
	for i := range s.categories {
		for j := range s.categories[i].Tasks {
			if s.categories[i].Tasks[j].ID == s.selectedID {
				t := s.categories[i].Tasks[j]
				return &t
			}
		}
	}
	return nil
}

// categoryIndexLocked finds a column by id. Caller holds the lock.
func (s *Store) categoryIndexLocked(categoryID string) int {
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			return i
		}
	}
	return -1
}

// spliceLocked removes the task from its column and inserts it into the
// destination at index, renumbering both columns densely. Caller holds
// the lock.
func (s *Store) spliceLocked(taskID, categoryID string, index int) bool {
	if s.categoryIndexLocked(categoryID) < 0 {
		return false
	}

	var task Task
	found := false
	for i := range s.categories {
		tasks := s.categories[i].Tasks
		for j := range tasks {
			if tasks[j].ID == taskID {
				task = tasks[j]
				s.categories[i].Tasks = append(tasks[:j:j], tasks[j+1:]...)
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return false
	}

	ci := s.categoryIndexLocked(categoryID)
	dest := s.categories[ci].Tasks
	if index < 0 {
		index = 0
	}
	if index > len(dest) {
		index = len(dest)
	}
	task.CategoryID = categoryID
	dest = append(dest, Task{})
	copy(dest[index+1:], dest[index:])
	dest[index] = task
	s.categories[ci].Tasks = dest

	s.renumberLocked()
	return true
}

// renumberLocked rewrites every Order field to match slice positions.
func (s *Store) renumberLocked() {
	for i := range s.categories {
		s.categories[i].Order = i
		for j := range s.categories[i].Tasks {
			s.categories[i].Tasks[j].Order = j
			s.categories[i].Tasks[j].CategoryID = s.categories[i].ID
		}
	}
}

// mergeLocked reconciles a server board with pending temporary entries.
// Server data wins for every real id; a temp entry survives only while
// its create is still pending. Caller holds the lock.
func (s *Store) mergeLocked(server []Category) []Category {
	merged := cloneBoard(server)

	for tempID, op := range s.pending {
		switch op.kind {
		case pendingCategory:
			if existing := s.findCategoryLocked(tempID); existing != nil {
				c := *existing
				c.Order = len(merged)
				merged = append(merged, c)
			}
		case pendingTask:
			existing := s.findTaskLocked(tempID)
			if existing == nil {
				continue
			}
			// A temp task whose column is gone is dropped.
			for i := range merged {
				if merged[i].ID == op.categoryID {
					merged[i].Tasks = append(merged[i].Tasks, *existing)
					break
				}
			}
		}
	}

	// The server's Order fields may lag its array ordering; the mirror
	// treats array position as truth, so renumber everything.
	for i := range merged {
		merged[i].Order = i
		if merged[i].Tasks == nil {
			merged[i].Tasks = []Task{}
		}
		for j := range merged[i].Tasks {
			merged[i].Tasks[j].Order = j
			merged[i].Tasks[j].CategoryID = merged[i].ID
		}
	}
	return merged
}

func (s *Store) findCategoryLocked(id string) *Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i]
		}
	}
	return nil
}

func (s *Store) findTaskLocked(id string) *Task {
	for i := range s.categories {
		for j := range s.categories[i].Tasks {
			if s.categories[i].Tasks[j].ID == id {
				return &s.categories[i].Tasks[j]
			}
		}
	}
	return nil
}

// syncSelectedLocked clears the selection when the task disappeared.
// Caller holds the lock.
func (s *Store) syncSelectedLocked() {
	if s.selectedID == "" {
		return
	}
	for i := range s.categories {
		for j := range s.categories[i].Tasks {
			if s.categories[i].Tasks[j].ID == s.selectedID {
				return
			}
		}
	}
	s.selectedID = ""
}

// cloneBoard deep-copies the category tree.
func cloneBoard(board []Category) []Category {
	out := make([]Category, len(board))
	for i, c := range board {
		out[i] = c
		out[i].Tasks = append([]Task(nil), c.Tasks...)
	}
	return out
}
