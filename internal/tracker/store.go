// Package tracker owns the assignment list: validation, persistence after
// every mutation, snapshot undo/redo, JSON import/export and derived views.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageKey is the blob key holding the serialized list.
const StorageKey = "assignments"

// Blobs is the key-value store the list is persisted to. Get returns nil, nil
// for a missing key.
type Blobs interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Options tune a Store.
type Options struct {
	// Classes is the fixed class set in grouping priority order.
	Classes []string
	// UndoCapacity bounds the undo and redo stacks.
	UndoCapacity int
	// Seed is used when nothing has been persisted yet.
	Seed   []Assignment
	Logger *zap.Logger
	// NewID generates identifiers; defaults to random UUIDs.
	NewID func() string
}

// Store is the single owner of the assignment list and its history.
type Store struct {
	mu sync.Mutex

	blobs   Blobs
	classes []string
	logger  *zap.Logger
	newID   func() string

	list       []Assignment
	history    *history
	persistErr error
}

// Open loads the persisted list from blobs.
func Open(ctx context.Context, blobs Blobs, opts Options) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("tracker: nil blob store")
	}

	s := &Store{
		blobs:   blobs,
		classes: slices.Clone(opts.Classes),
		logger:  opts.Logger,
		newID:   opts.NewID,
		history: newHistory(opts.UndoCapacity),
	}
	if len(s.classes) == 0 {
		s.classes = slices.Clone(DefaultClasses)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	data, err := blobs.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	switch {
	case data == nil:
		s.list = s.assignIDs(cloneList(opts.Seed))
		if len(s.list) > 0 {
			s.logger.Info("seeded assignment list", zap.Int("count", len(s.list)))
		}
	default:
		var loaded []Assignment
		if err := json.Unmarshal(data, &loaded); err != nil {
			// Left in place until the next successful write.
			s.logger.Warn("stored assignments unreadable, starting empty", zap.Error(err))
			loaded = nil
		}
		s.list = s.assignIDs(loaded)
	}
	if s.list == nil {
		s.list = []Assignment{}
	}

	s.logger.Debug("assignment store opened", zap.Int("count", len(s.list)))
	return s, nil
}

// Classes returns the configured class priority.
func (s *Store) Classes() []string {
	return slices.Clone(s.classes)
}

// Assignments returns a copy of the list in canonical order.
func (s *Store) Assignments() []Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(s.list)
}

// Len reports the number of assignments.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history.undo) > 0
}

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history.redo) > 0
}

// PersistErr returns the last persistence failure, or nil once a write succeeds.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Add validates a and appends it with a fresh id.
func (s *Store) Add(ctx context.Context, a Assignment) (Assignment, error) {
	a, err := s.validate(a, "")
	if err != nil {
		return Assignment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.newID()
	s.history.record(s.list)
	s.list = append(s.list, a)
	s.persist(ctx)

	s.logger.Debug("assignment added", zap.String("id", a.ID), zap.String("class", a.Class))
	return a, nil
}

// Update replaces the fields of the assignment with the given id, keeping
// its id and position. An imported record may keep a class outside the
// configured set.
func (s *Store) Update(ctx context.Context, id string, a Assignment) (Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Assignment{}, ErrNotFound
	}

	a, err := s.validate(a, s.list[idx].Class)
	if err != nil {
		return Assignment{}, err
	}

	a.ID = s.list[idx].ID
	if a == s.list[idx] {
		return a, nil
	}

	s.history.record(s.list)
	s.list = slices.Clone(s.list)
	s.list[idx] = a
	s.persist(ctx)

	s.logger.Debug("assignment updated", zap.String("id", a.ID))
	return a, nil
}

// Delete removes the assignment with the given id.
func (s *Store) Delete(ctx context.Context, id string) (Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Assignment{}, ErrNotFound
	}

	removed := s.list[idx]
	s.history.record(s.list)
	s.list = slices.Delete(slices.Clone(s.list), idx, idx+1)
	s.persist(ctx)

	s.logger.Debug("assignment deleted", zap.String("id", removed.ID))
	return removed, nil
}

// Undo restores the list as it was before the most recent mutation. It
// returns false when there is nothing to undo.
func (s *Store) Undo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.history.back(s.list)
	if !ok {
		return false
	}
	s.list = prev
	s.persist(ctx)
	return true
}

// Redo reapplies the most recently undone change.
func (s *Store) Redo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.history.forward(s.list)
	if !ok {
		return false
	}
	s.list = next
	s.persist(ctx)
	return true
}

// Import replaces the whole list with the assignments in content and clears
// the history. It returns the number of imported assignments.
func (s *Store) Import(ctx context.Context, content []byte) (int, error) {
	list, err := DecodeList(content)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = s.assignIDs(list)
	s.history.clear()
	s.persist(ctx)

	s.logger.Info("assignments imported", zap.Int("count", len(s.list)))
	return len(s.list), nil
}

// Export renders the current list as pretty-printed JSON.
func (s *Store) Export() ([]byte, error) {
	return EncodeJSON(s.Assignments())
}

// Resolve finds an assignment by full id, unique id prefix, or 1-based
// position in the canonical list.
func (s *Store) Resolve(ref string) (Assignment, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Assignment{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(ref); idx >= 0 {
		return s.list[idx], nil
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.list) {
		return s.list[n-1], nil
	}

	var (
		found Assignment
		count int
	)
	for _, a := range s.list {
		if strings.HasPrefix(a.ID, ref) {
			found = a
			count++
		}
	}
	switch count {
	case 0:
		return Assignment{}, ErrNotFound
	case 1:
		return found, nil
	default:
		return Assignment{}, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
	}
}

// View derives the displayed groups from the current list.
func (s *Store) View(opts ViewOptions) []Group {
	return Partition(s.Assignments(), s.classes, opts)
}

// validate trims a and checks its fields. current is the class the record
// already has, which stays acceptable even when it is not configured.
func (s *Store) validate(a Assignment, current string) (Assignment, error) {
	a.Class = strings.TrimSpace(a.Class)
	a.Name = strings.TrimSpace(a.Name)
	a.DueDate = strings.TrimSpace(a.DueDate)
	a.Link = strings.TrimSpace(a.Link)

	if a.Name == "" {
		return Assignment{}, ErrNameRequired
	}
	if a.DueDate == "" {
		return Assignment{}, ErrDueDateRequired
	}
	if _, ok := a.Due(); !ok {
		return Assignment{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, a.DueDate)
	}
	if !slices.Contains(s.classes, a.Class) && (current == "" || a.Class != strings.TrimSpace(current)) {
		return Assignment{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownClass, a.Class, strings.Join(s.classes, ", "))
	}
	return a, nil
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.list, func(a Assignment) bool { return a.ID == id })
}

// assignIDs gives every record a unique id, replacing blanks and repeats.
func (s *Store) assignIDs(list []Assignment) []Assignment {
	seen := make(map[string]struct{}, len(list))
	for i := range list {
		id := strings.TrimSpace(list[i].ID)
		if _, dup := seen[id]; id == "" || dup {
			id = s.newID()
		}
		list[i].ID = id
		seen[id] = struct{}{}
	}
	return list
}

// persist writes the whole list. Failures are logged and remembered; the
// in-memory change stands either way.
func (s *Store) persist(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		s.persistErr = err
		s.logger.Warn("skipped persisting assignments", zap.Error(err))
		return
	}

	data, err := json.Marshal(s.list)
	if err == nil {
		err = s.blobs.Put(StorageKey, data)
	}
	if err != nil {
		s.persistErr = fmt.Errorf("persist assignments: %w", err)
		s.logger.Warn("failed to persist assignments", zap.Error(err), zap.Int("count", len(s.list)))
		return
	}
	s.persistErr = nil
}
