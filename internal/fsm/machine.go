// Package fsm is a small generic finite state machine. States are values
// implementing State[T]; the machine owns no entity data, only references
// to the current, previous and global states of one owner.
package fsm

import "github.com/Garsondee/Soccer-Sense/internal/messaging"

// State is one node of a state graph for owners of type T.
type State[T any] interface {
	Name() string
	Enter(owner T)
	Execute(owner T)
	Exit(owner T)
	// OnMessage returns true when the telegram was consumed.
	OnMessage(owner T, msg messaging.Telegram) bool
}

// Machine drives one owner through its state graph.
type Machine[T any] struct {
	owner    T
	current  State[T]
	previous State[T]
	global   State[T]

	// OnChange, when set, is called on every transition once the new state
	// is current and before its Enter runs.
	OnChange func(from, to State[T])
}

// New returns a machine already sitting in initial. The initial state's Enter
// is not called; use ChangeState for that.
func New[T any](owner T, initial, global State[T]) *Machine[T] {
	if initial == nil {
		panic("fsm: machine needs an initial state")
	}
	return &Machine[T]{owner: owner, current: initial, previous: initial, global: global}
}

// Update executes the global state, then the current one.
func (m *Machine[T]) Update() {
	if m.global != nil {
		m.global.Execute(m.owner)
	}
	m.current.Execute(m.owner)
}

// HandleMessage offers msg to the current state, then to the global state.
func (m *Machine[T]) HandleMessage(msg messaging.Telegram) bool {
	if m.current.OnMessage(m.owner, msg) {
		return true
	}
	return m.global != nil && m.global.OnMessage(m.owner, msg)
}

// ChangeState exits the current state and enters next. A nil next is a
// wiring defect and panics.
func (m *Machine[T]) ChangeState(next State[T]) {
	if next == nil {
		panic("fsm: ChangeState to nil state")
	}
	from := m.current
	m.previous = from
	from.Exit(m.owner)
	m.current = next
	if m.OnChange != nil {
		m.OnChange(from, next)
	}
	next.Enter(m.owner)
}

// RevertToPreviousState changes back to the state before the last change.
func (m *Machine[T]) RevertToPreviousState() {
	m.ChangeState(m.previous)
}

// IsInState reports whether the current state is s.
func (m *Machine[T]) IsInState(s State[T]) bool {
	return m.current == s
}

func (m *Machine[T]) Current() State[T]  { return m.current }
func (m *Machine[T]) Previous() State[T] { return m.previous }
func (m *Machine[T]) Global() State[T]   { return m.global }

// CurrentName is the current state's name.
func (m *Machine[T]) CurrentName() string { return m.current.Name() }
