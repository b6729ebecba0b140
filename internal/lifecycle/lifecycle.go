// Package lifecycle holds the timestamped status machine shared by rooms,
// service requests and maintenance tasks.
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidTransition is returned when the table has no edge between two known states.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownState is returned for a status the machine does not define.
	ErrUnknownState = errors.New("unknown status")
)

// Machine is an allowed-transition table over a string-tagged enum.
type Machine[S ~string] struct {
	name  string
	edges map[S]map[S]struct{}
}

// New builds a machine from an adjacency list. Every state that appears as a
// key or as a target is a valid state.
func New[S ~string](name string, table map[S][]S) *Machine[S] {
	m := &Machine[S]{name: name, edges: make(map[S]map[S]struct{}, len(table))}
	for from, targets := range table {
		if _, ok := m.edges[from]; !ok {
			m.edges[from] = make(map[S]struct{})
		}
		for _, to := range targets {
			m.edges[from][to] = struct{}{}
			if _, ok := m.edges[to]; !ok {
				m.edges[to] = make(map[S]struct{})
			}
		}
	}
	return m
}

// Name identifies the entity kind in error messages.
func (m *Machine[S]) Name() string { return m.name }

// Valid reports whether s is a known state.
func (m *Machine[S]) Valid(s S) bool {
	_, ok := m.edges[s]
	return ok
}

// States returns the known states in lexical order.
func (m *Machine[S]) States() []S {
	out := make([]S, 0, len(m.edges))
	for s := range m.edges {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Terminal reports whether no transition leaves s.
func (m *Machine[S]) Terminal(s S) bool {
	return m.Valid(s) && len(m.edges[s]) == 0
}

// Can reports whether from -> to is allowed. Same-state moves are always allowed.
func (m *Machine[S]) Can(from, to S) bool {
	if !m.Valid(from) || !m.Valid(to) {
		return false
	}
	if from == to {
		return true
	}
	_, ok := m.edges[from][to]
	return ok
}

// Transition validates from -> to. A same-state move is an idempotent no-op
// and reports changed == false.
func (m *Machine[S]) Transition(from, to S) (changed bool, err error) {
	if !m.Valid(to) {
		return false, fmt.Errorf("%s: %q: %w", m.name, to, ErrUnknownState)
	}
	if !m.Valid(from) {
		return false, fmt.Errorf("%s: %q: %w", m.name, from, ErrUnknownState)
	}
	if from == to {
		return false, nil
	}
	if _, ok := m.edges[from][to]; !ok {
		return false, fmt.Errorf("%s: %s -> %s: %w", m.name, from, to, ErrInvalidTransition)
	}
	return true, nil
}

// Stamped is an entity whose status is driven by a Machine. SetStatus is
// responsible for the entity's own timestamps.
type Stamped[S ~string] interface {
	CurrentStatus() S
	SetStatus(to S, at time.Time)
}

// Advance moves e to the target status, stamping it with now. Nothing is
// written when the move is rejected or is a same-state no-op.
func Advance[S ~string](m *Machine[S], e Stamped[S], to S, now time.Time) (bool, error) {
	changed, err := m.Transition(e.CurrentStatus(), to)
	if err != nil || !changed {
		return false, err
	}
	e.SetStatus(to, now)
	return true, nil
}
