package editor

import (
	"github.com/beatline/beatline"
)

// History holds bounded undo and redo stacks of whole project snapshots. It
// belongs to whoever creates the Model, so several documents can each have
// their own.
type History struct {
	limit     int
	undoStack []beatline.Project
	redoStack []beatline.Project
}

// DefaultUndoLimit is the undo depth used when no limit is given.
const DefaultUndoLimit = 50

// NewHistory returns an empty history keeping at most limit snapshots per
// stack. A limit below 1 means DefaultUndoLimit.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultUndoLimit
	}
	return &History{limit: limit}
}

// Save pushes a copy of the snapshot on the undo stack, dropping the oldest
// snapshot if the stack is full, and clears the redo stack.
func (h *History) Save(snapshot *beatline.Project) {
	h.undoStack = push(h.undoStack, snapshot.Copy(), h.limit)
	h.redoStack = h.redoStack[:0]
}

// Undo pops the latest snapshot and pushes a copy of current on the redo
// stack. ok is false if there is nothing to undo.
func (h *History) Undo(current *beatline.Project) (p beatline.Project, ok bool) {
	if len(h.undoStack) == 0 {
		return beatline.Project{}, false
	}
	h.redoStack = push(h.redoStack, current.Copy(), h.limit)
	p = h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	return p, true
}

// Redo is the mirror of Undo.
func (h *History) Redo(current *beatline.Project) (p beatline.Project, ok bool) {
	if len(h.redoStack) == 0 {
		return beatline.Project{}, false
	}
	h.undoStack = push(h.undoStack, current.Copy(), h.limit)
	p = h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	return p, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Depth returns the number of snapshots on the undo stack.
func (h *History) Depth() int { return len(h.undoStack) }

func (h *History) Limit() int { return h.limit }

// Clear empties both stacks, e.g. when a new project is loaded.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func push(stack []beatline.Project, p beatline.Project, limit int) []beatline.Project {
	if len(stack) >= limit {
		copy(stack, stack[len(stack)-limit+1:])
		stack = stack[:limit-1]
	}
	return append(stack, p)
}

// Undo returns an Action to undo the last change.
func (m *Model) Undo() Action { return MakeAction((*undoAction)(m)) }

type undoAction Model

func (m *undoAction) Enabled() bool { return m.history.CanUndo() }
func (m *undoAction) Do() {
	p, ok := m.history.Undo(&m.d.Project)
	if !ok {
		return
	}
	(*Model)(m).restore(p, "Undo")
}

// Redo returns an Action to redo the last undone change.
func (m *Model) Redo() Action { return MakeAction((*redoAction)(m)) }

type redoAction Model

func (m *redoAction) Enabled() bool { return m.history.CanRedo() }
func (m *redoAction) Do() {
	p, ok := m.history.Redo(&m.d.Project)
	if !ok {
		return
	}
	(*Model)(m).restore(p, "Redo")
}

func (m *Model) restore(p beatline.Project, kind string) {
	m.d.Project = p
	m.d.ChangedSinceSave = true
	m.pruneSelection()
	m.syncEngine()
	m.metrics.command(kind)
	m.metrics.setDepth(m.history.Depth())
}
