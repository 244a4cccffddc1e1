package tracker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/faizmokh/tugas/internal/storage"
)

type memBlobs struct {
	data    map[string][]byte
	failPut error
	puts    int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[string][]byte)}
}

func (m *memBlobs) Get(key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memBlobs) Put(key string, value []byte) error {
	m.puts++
	if m.failPut != nil {
		return m.failPut
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

func newTestStore(t *testing.T, blobs Blobs) *Store {
	t.Helper()
	s, err := Open(context.Background(), blobs, Options{NewID: sequentialIDs()})
	require.NoError(t, err)
	return s
}

func hw(class, name, due string) Assignment {
	return Assignment{Class: class, Name: name, DueDate: due}
}

func TestOpenEmptyStore(t *testing.T) {
	s := newTestStore(t, newMemBlobs())

	require.Equal(t, 0, s.Len())
	require.NotNil(t, s.Assignments())
	require.False(t, s.CanUndo())
	require.Equal(t, DefaultClasses, s.Classes())
}

func TestOpenSeedsOnlyWhenNothingPersisted(t *testing.T) {
	ctx := context.Background()
	blobs := newMemBlobs()

	s, err := Open(ctx, blobs, Options{Seed: SampleAssignments(), NewID: sequentialIDs()})
	require.NoError(t, err)
	require.Equal(t, len(SampleAssignments()), s.Len())
	for _, a := range s.Assignments() {
		require.NotEmpty(t, a.ID)
	}

	blobs.data[StorageKey] = []byte(`[]`)
	s, err = Open(ctx, blobs, Options{Seed: SampleAssignments()})
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestOpenToleratesCorruptBlob(t *testing.T) {
	blobs := newMemBlobs()
	blobs.data[StorageKey] = []byte(`{not json`)

	s := newTestStore(t, blobs)
	require.Equal(t, 0, s.Len())
	require.Equal(t, `{not json`, string(blobs.data[StorageKey]))
}

func TestAddAppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	blobs := newMemBlobs()
	s := newTestStore(t, blobs)

	in := Assignment{Class: "PHYS 2210", Name: "  Lab 2 ", DueDate: "2025-09-10", Link: "https://example.edu/lab2"}
	got, err := s.Add(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "id-01", got.ID)
	require.Equal(t, "Lab 2", got.Name)

	list := s.Assignments()
	require.Len(t, list, 1)
	require.Equal(t, Assignment{ID: "id-01", Class: "PHYS 2210", Name: "Lab 2", DueDate: "2025-09-10", Link: "https://example.edu/lab2"}, list[0])

	reopened := newTestStore(t, blobs)
	require.Equal(t, list, reopened.Assignments())
}

func TestAddRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		in   Assignment
		want error
	}{
		{name: "empty name", in: hw("MATH 1210", "   ", "2025-09-01"), want: ErrNameRequired},
		{name: "empty date", in: hw("MATH 1210", "HW", ""), want: ErrDueDateRequired},
		{name: "bad date", in: hw("MATH 1210", "HW", "09/01/2025"), want: ErrInvalidDueDate},
		{name: "impossible date", in: hw("MATH 1210", "HW", "2025-02-30"), want: ErrInvalidDueDate},
		{name: "unknown class", in: hw("CHEM 1010", "HW", "2025-09-01"), want: ErrUnknownClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := newMemBlobs()
			s := newTestStore(t, blobs)

			_, err := s.Add(context.Background(), tt.in)
			require.ErrorIs(t, err, tt.want)
			require.True(t, IsValidation(err))
			require.Equal(t, 0, s.Len())
			require.False(t, s.CanUndo())
			require.Zero(t, blobs.puts)
		})
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemBlobs())

	first, err := s.Add(ctx, hw("MATH 1210", "HW 1", "2025-09-01"))
	require.NoError(t, err)
	second, err := s.Add(ctx, hw("MATH 1210", "HW 1", "2025-09-01"))
	require.NoError(t, err)

	removed, err := s.Delete(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, second, removed)
	require.Equal(t, []Assignment{first}, s.Assignments())
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	blobs := newMemBlobs()
	s := newTestStore(t, blobs)
	_, err := s.Add(ctx, hw("MATH 1210", "HW 1", "2025-09-01"))
	require.NoError(t, err)
	before := s.Assignments()
	puts := blobs.puts

	_, err = s.Delete(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, before, s.Assignments())
	require.Equal(t, puts, blobs.puts)
}

func TestUpdateKeepsIDAndPosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemBlobs())
	a, err := s.Add(ctx, hw("MATH 1210", "HW 1", "2025-09-01"))
	require.NoError(t, err)
	_, err = s.Add(ctx, hw("ECE 1400", "Lab", "2025-09-02"))
	require.NoError(t, err)

	updated, err := s.Update(ctx, a.ID, hw("PHYS 2210", "HW 1 (revised)", "2025-09-04"))
	require.NoError(t, err)
	require.Equal(t, a.ID, updated.ID)

	list := s.Assignments()
	require.Equal(t, updated, list[0])

	_, err = s.Update(ctx, "missing", hw("PHYS 2210", "x", "2025-09-04"))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, a.ID, hw("PHYS 2210", "", "2025-09-04"))
	require.ErrorIs(t, err, ErrNameRequired)
	require.Equal(t, list, s.Assignments())
}

func TestUpdateKeepsImportedUnknownClass(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemBlobs())
	_, err := s.Import(ctx, []byte(`[{"id":"chem","class":"CHEM 1010","name":"Titration","dueDate":"2025-10-01"}]`))
	require.NoError(t, err)

	updated, err := s.Update(ctx, "chem", hw("CHEM 1010", "Titration report", "2025-10-02"))
	require.NoError(t, err)
	require.Equal(t, "CHEM 1010", updated.Class)
	require.Equal(t, "Titration report", s.Assignments()[0].Name)

	_, err = s.Update(ctx, "chem", hw("BIO 1000", "Titration report", "2025-10-02"))
	require.ErrorIs(t, err, ErrUnknownClass)

	_, err = s.Update(ctx, "chem", hw("MATH 1210", "Titration report", "2025-10-02"))
	require.NoError(t, err)

	_, err = s.Update(ctx, "chem", hw("CHEM 1010", "Titration report", "2025-10-02"))
	require.ErrorIs(t, err, ErrUnknownClass)

	_, err = s.Add(ctx, hw("CHEM 1010", "New", "2025-10-03"))
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestUndoRestoresEachDelete(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newMemBlobs(), Options{UndoCapacity: 3, NewID: sequentialIDs()})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.Add(ctx, hw("MATH 1210", fmt.Sprintf("HW %d", i), "2025-09-01"))
		require.NoError(t, err)
	}
	full := s.Assignments()

	for _, a := range full {
		_, err := s.Delete(ctx, a.ID)
		require.NoError(t, err)
	}
	require.Equal(t, 0, s.Len())

	for i := 0; i < 3; i++ {
		require.True(t, s.Undo(ctx))
	}
	require.Equal(t, full, s.Assignments())

	// History only held three snapshots; the adds are gone.
	require.False(t, s.Undo(ctx))
	require.Equal(t, full, s.Assignments())
}

func TestUndoOnEmptyHistoryIsNoOp(t *testing.T) {
	ctx := context.Background()
	blobs := newMemBlobs()
	s := newTestStore(t, blobs)

	require.False(t, s.Undo(ctx))
	require.False(t, s.Redo(ctx))
	require.Zero(t, blobs.puts)
}

func TestRedoReappliesAndMutationClearsIt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemBlobs())

	a, err := s.Add(ctx, hw("MATH 1210", "HW 1", "2025-09-01"))
	require.NoError(t, err)
	_, err = s.Delete(ctx, a.ID)
	require.NoError(t, err)

	require.True(t, s.Undo(ctx))
	require.Equal(t, []Assignment{a}, s.Assignments())
	require.True(t, s.CanRedo())

	require.True(t, s.Redo(ctx))
	require.Equal(t, 0, s.Len())

	require.True(t, s.Undo(ctx))
	_, err = s.Add(ctx, hw("ECE 1400", "Lab", "2025-09-02"))
	require.NoError(t, err)
	require.False(t, s.CanRedo())
	require.False(t, s.Redo(ctx))
}

func TestImportReplacesListAndClearsHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemBlobs())
	_, err := s.Add(ctx, hw("MATH 1210", "old", "2025-09-01"))
	require.NoError(t, err)

	n, err := s.Import(ctx, []byte(`[{"class":"CHEM 1010","name":"new","dueDate":"2025-10-01"}]`))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	list := s.Assignments()
	require.Len(t, list, 1)
	require.Equal(t, "CHEM 1010", list[0].Class)
	require.NotEmpty(t, list[0].ID)
	require.False(t, s.CanUndo())
	require.False(t, s.Undo(ctx))
}

func TestImportRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "object", payload: `{"class":"MATH 1210"}`, want: ErrInvalidFormat},
		{name: "null", payload: `null`, want: ErrInvalidFormat},
		{name: "array of numbers", payload: `[1, 2]`, want: ErrInvalidFormat},
		{name: "malformed", payload: `[{"class":`, want: ErrParse},
		{name: "empty", payload: ``, want: ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore(t, newMemBlobs())
			_, err := s.Add(ctx, hw("MATH 1210", "keep", "2025-09-01"))
			require.NoError(t, err)
			before := s.Assignments()

			_, err = s.Import(ctx, []byte(tt.payload))
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, before, s.Assignments())
			require.True(t, s.CanUndo())
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemBlobs())
	_, err := s.Add(ctx, hw("ECE 1400", "Lab", "2025-09-08"))
	require.NoError(t, err)
	_, err = s.Add(ctx, Assignment{Class: "MATH 1210", Name: "HW", DueDate: "2025-09-01", Link: "https://example.edu"})
	require.NoError(t, err)

	data, err := s.Export()
	require.NoError(t, err)

	other := newTestStore(t, newMemBlobs())
	n, err := other.Import(ctx, data)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, s.Assignments(), other.Assignments())
}

func TestPersistFailureKeepsInMemoryChange(t *testing.T) {
	ctx := context.Background()
	blobs := newMemBlobs()
	s := newTestStore(t, blobs)

	blobs.failPut = errors.New("quota exceeded")
	_, err := s.Add(ctx, hw("MATH 1210", "HW", "2025-09-01"))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	require.ErrorContains(t, s.PersistErr(), "quota exceeded")
	require.Nil(t, blobs.data[StorageKey])

	blobs.failPut = nil
	require.True(t, s.Undo(ctx))
	require.NoError(t, s.PersistErr())
	require.Equal(t, `[]`, string(blobs.data[StorageKey]))
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	ids := []string{"abc12345-0000", "abc99999-0000", "def00000-0000"}
	next := 0
	s, err := Open(ctx, newMemBlobs(), Options{NewID: func() string {
		id := ids[next]
		next++
		return id
	}})
	require.NoError(t, err)
	for i := range ids {
		_, err := s.Add(ctx, hw("MATH 1210", fmt.Sprintf("HW %d", i), "2025-09-01"))
		require.NoError(t, err)
	}

	got, err := s.Resolve("def")
	require.NoError(t, err)
	require.Equal(t, "def00000-0000", got.ID)

	got, err = s.Resolve("2")
	require.NoError(t, err)
	require.Equal(t, "abc99999-0000", got.ID)

	got, err = s.Resolve("abc12345-0000")
	require.NoError(t, err)
	require.Equal(t, "HW 0", got.Name)

	_, err = s.Resolve("abc")
	require.ErrorIs(t, err, ErrAmbiguousRef)

	_, err = s.Resolve("zzz")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve("")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorePersistsThroughBolt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tugas.db")

	db, err := storage.Open(path)
	require.NoError(t, err)
	s, err := Open(ctx, db.Bucket(storage.StateBucket), Options{})
	require.NoError(t, err)
	added, err := s.Add(ctx, hw("ECE 1400", "Lab 3", "2025-09-20"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = storage.Open(path)
	require.NoError(t, err)
	defer db.Close()
	s, err = Open(ctx, db.Bucket(storage.StateBucket), Options{})
	require.NoError(t, err)
	require.Equal(t, []Assignment{added}, s.Assignments())
}
