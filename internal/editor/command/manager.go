package command

import (
	"time"
)

// ============================================================
// Manager
// ============================================================

const (
	DefaultMaxSize     = 50
	DefaultMergeWindow = 1000 * time.Millisecond
)

type Options struct {
	// MaxSize caps the history; the oldest entries are dropped past it.
	MaxSize int
	// MergeWindow is the largest gap between two updates of the same entity
	// that still collapse into one history entry. Zero disables merging.
	MergeWindow time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxSize:     DefaultMaxSize,
		MergeWindow: DefaultMergeWindow,
	}
}

// Manager records executed commands and walks them back and forth. index
// points at the last applied command, -1 when nothing is applied.
//
// Manager is not safe for concurrent use.
type Manager struct {
	target  Target
	opts    Options
	history []Command
	index   int

	// OnTrim is called with the command dropped when the history overflows.
	OnTrim func(Command)
}

func NewManager(target Target, opts Options) *Manager {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	return &Manager{
		target: target,
		opts:   opts,
		index:  -1,
	}
}

// Execute applies cmd and records it. When cmd continues the current entry
// within the merge window the two collapse into a single entry.
// It reports whether a merge happened.
func (m *Manager) Execute(cmd Command) bool {
	if m.index >= 0 && canMerge(m.history[m.index], cmd, m.opts.MergeWindow) {
		merged := merge(m.history[m.index], cmd)
		m.history = m.history[:m.index+1]
		m.history[m.index] = merged
		apply(m.target, merged.Op)
		return true
	}

	m.history = append(m.history[:m.index+1], cmd)
	apply(m.target, cmd.Op)
	m.index++

	if len(m.history) > m.opts.MaxSize {
		dropped := m.history[0]
		m.history = append([]Command(nil), m.history[1:]...)
		m.index--
		if m.OnTrim != nil {
			m.OnTrim(dropped)
		}
	}
	return false
}

func (m *Manager) Undo() bool {
	if m.index < 0 {
		return false
	}
	revert(m.target, m.history[m.index].Op)
	m.index--
	return true
}

func (m *Manager) Redo() bool {
	if m.index >= len(m.history)-1 {
		return false
	}
	m.index++
	apply(m.target, m.history[m.index].Op)
	return true
}

func (m *Manager) CanUndo() bool { return m.index >= 0 }
func (m *Manager) CanRedo() bool { return m.index < len(m.history)-1 }

// UndoName is the name of the command Undo would revert, "" if none.
func (m *Manager) UndoName() string {
	if !m.CanUndo() {
		return ""
	}
	return m.history[m.index].Name
}

func (m *Manager) RedoName() string {
	if !m.CanRedo() {
		return ""
	}
	return m.history[m.index+1].Name
}

// Clear forgets the history without touching the target.
func (m *Manager) Clear() {
	m.history = nil
	m.index = -1
}

func (m *Manager) Len() int { return len(m.history) }

type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	Applied   bool      `json:"applied"`
}

// History lists the recorded commands oldest first.
func (m *Manager) History() []Entry {
	out := make([]Entry, len(m.history))
	for i, c := range m.history {
		out[i] = Entry{
			ID:        c.ID,
			Name:      c.Name,
			Kind:      c.Op.Kind(),
			CreatedAt: c.CreatedAt,
			Applied:   i <= m.index,
		}
	}
	return out
}
