package tracker

// DefaultUndoCapacity bounds the number of snapshots kept per direction.
const DefaultUndoCapacity = 15

// history is a pair of bounded snapshot stacks. Each undo entry is the full
// list as it was before a mutation.
type history struct {
	capacity int
	undo     [][]Assignment
	redo     [][]Assignment
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &history{capacity: capacity}
}

// record pushes the pre-mutation snapshot and invalidates redo.
func (h *history) record(before []Assignment) {
	h.undo = push(h.undo, cloneList(before), h.capacity)
	h.redo = nil
}

// back returns the snapshot to restore, stashing current for redo.
func (h *history) back(current []Assignment) ([]Assignment, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = push(h.redo, cloneList(current), h.capacity)
	return prev, true
}

func (h *history) forward(current []Assignment) ([]Assignment, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = push(h.undo, cloneList(current), h.capacity)
	return next, true
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}

func push(stack [][]Assignment, snapshot []Assignment, capacity int) [][]Assignment {
	stack = append(stack, snapshot)
	if len(stack) > capacity {
		stack = stack[len(stack)-capacity:]
	}
	return stack
}
