// Package drill tracks the dashboard's drill-down navigation: a current
// frame plus a history stack. The machine has no side effects beyond
// its own state; breadcrumbs are a pure read.
package drill

import (
	"github.com/tmcke/portview/internal/domain"
)

// Level is the navigation depth.
type Level int

const (
	Portfolio Level = iota
	Program
	Project
	Detail
)

func (l Level) String() string {
	switch l {
	case Portfolio:
		return "Portfolio"
	case Program:
		return "Program"
	case Project:
		return "Project"
	case Detail:
		return "Detail"
	}
	return "Unknown"
}

// Focus identifies what the user drilled into. Record is set only when
// a single project row was selected.
type Focus struct {
	Portfolio string
	Program   string
	Project   string
	Record    *domain.ProjectRecord
}

// Frame is one navigation state: a level, the dataset visible at that
// level, and the focused item (nil at the top level).
type Frame struct {
	Level   Level
	Dataset []domain.ProjectRecord
	Focus   *Focus
}

// Machine is the drill-down state machine. The zero value is not
// usable; construct with New.
type Machine struct {
	current Frame
	stack   []Frame
}

// New starts at the Portfolio level with no dataset or focus.
func New() *Machine {
	return &Machine{current: Frame{Level: Portfolio}}
}

// Current returns the active frame.
func (m *Machine) Current() Frame { return m.current }

// Depth is the history stack size.
func (m *Machine) Depth() int { return len(m.stack) }

// CanDrillUp reports whether a back navigation is available.
func (m *Machine) CanDrillUp() bool { return len(m.stack) > 0 }

// DrillDown pushes the current frame and makes the given state current.
// The machine accepts any target level; callers are expected to only
// issue forward transitions.
func (m *Machine) DrillDown(level Level, dataset []domain.ProjectRecord, focus *Focus) {
	m.stack = append(m.stack, m.current)
	m.current = Frame{Level: level, Dataset: dataset, Focus: focus}
}

// DrillUp restores the most recent frame. Safe no-op on an empty stack;
// returns whether a frame was popped.
func (m *Machine) DrillUp() bool {
	if len(m.stack) == 0 {
		return false
	}
	m.current = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return true
}

// Reset clears the history and returns to the initial Portfolio frame.
func (m *Machine) Reset() {
	m.stack = nil
	m.current = Frame{Level: Portfolio}
}

// Breadcrumbs renders one human-readable label per frame, oldest first,
// ending with the current frame.
func (m *Machine) Breadcrumbs() []string {
	out := make([]string, 0, len(m.stack)+1)
	for _, f := range m.stack {
		out = append(out, frameLabel(f))
	}
	return append(out, frameLabel(m.current))
}

func frameLabel(f Frame) string {
	switch f.Level {
	case Portfolio:
		return "Portfolios"
	case Program:
		if f.Focus != nil && f.Focus.Program != "" {
			return f.Focus.Program
		}
		if f.Focus != nil && f.Focus.Portfolio != "" {
			return f.Focus.Portfolio
		}
	case Project:
		if f.Focus != nil && f.Focus.Project != "" {
			return f.Focus.Project
		}
		if f.Focus != nil && f.Focus.Program != "" {
			return f.Focus.Program
		}
	case Detail:
		if f.Focus != nil && f.Focus.Project != "" {
			return f.Focus.Project
		}
	}
	return "Unknown"
}
