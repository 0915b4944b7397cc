// Package reconcile drives the fetch → edit → per-item-submit life cycle used
// by the console's grant editors (role→action-type and user→role).
package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// Session states. A session moves idle → loading → ready → submitting and
// back to ready after a save attempt; Close discards it.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSubmitting
)

var (
	// ErrNoSubject indicates Open was called without a subject identifier.
	ErrNoSubject = errors.New("reconcile: subject id required")
	// ErrNoToken indicates Open was called without an auth token.
	ErrNoToken = errors.New("reconcile: auth token required")
	// ErrNotReady indicates an edit or save was attempted outside StateReady.
	ErrNotReady = errors.New("reconcile: session not ready")
	// ErrUnknownItem indicates a toggle referenced an item not in the session.
	ErrUnknownItem = errors.New("reconcile: unknown item")
)

// Subject is the role or user whose assignments are being edited.
type Subject struct {
	ID   string
	Name string
}

// Item is one grantable unit with its current grant flag.
type Item struct {
	ID      string
	Name    string
	Granted bool
}

// Source fetches the subject plus every grantable item annotated with its
// current grant state.
type Source interface {
	Fetch(ctx context.Context, token, subjectID string) (Subject, []Item, error)
}

// Sink submits one item's grant state to the backend.
type Sink interface {
	Update(ctx context.Context, token, subjectID string, item Item) error
}

// Session is the transient editing aggregate. It owns a working copy of the
// item list; the flags diverge from backend truth until Save submits them.
// A session belongs to exactly one editor and is never shared.
type Session struct {
	source  Source
	sink    Sink
	state   State
	token   string
	subject Subject
	items   []Item
}

// NewSession constructs an idle session bound to a source and sink pair.
func NewSession(source Source, sink Sink) *Session {
	return &Session{source: source, sink: sink, state: StateIdle}
}

// State reports the current session state.
func (s *Session) State() State { return s.state }

// Subject returns the fetched subject. Zero value until Open succeeds.
func (s *Session) Subject() Subject { return s.subject }

// Items returns a copy of the working item list in fetched order.
func (s *Session) Items() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Empty reports whether the fetch returned no items. Callers render an
// explicit "no items" state instead of an empty table.
func (s *Session) Empty() bool { return s.state == StateReady && len(s.items) == 0 }

// Open fetches the subject and item list. Both the subject identifier and the
// token are preconditions: if either is missing the transition is refused and
// the session stays idle without any request being attempted. A fetch failure
// likewise leaves no partial session behind.
func (s *Session) Open(ctx context.Context, token, subjectID string) error {
	if s.state != StateIdle {
		return fmt.Errorf("reconcile: open from state %d", s.state)
	}
	if subjectID == "" {
		return ErrNoSubject
	}
	if token == "" {
		return ErrNoToken
	}

	s.state = StateLoading
	subject, items, err := s.source.Fetch(ctx, token, subjectID)
	if err != nil {
		s.state = StateIdle
		return fmt.Errorf("reconcile: fetch: %w", err)
	}

	s.token = token
	s.subject = subject
	s.items = items
	s.state = StateReady
	return nil
}

// Toggle flips the grant flag of exactly one item in memory. Every other item
// keeps its current value; nothing is sent to the network.
func (s *Session) Toggle(itemID string) error {
	if s.state != StateReady {
		return ErrNotReady
	}
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Granted = !s.items[i].Granted
			return nil
		}
	}
	return ErrUnknownItem
}

// Save submits every item in fetched order, one request at a time. Request
// N+1 is not sent until request N has resolved. Items with an empty
// identifier are skipped without aborting the loop. The first failing request
// halts the loop (fail-fast): items already submitted stay changed on the
// backend while the rest remain only changed locally, and the in-memory
// toggles are left untouched. There is no rollback and no retry.
func (s *Session) Save(ctx context.Context) error {
	if s.state != StateReady {
		return ErrNotReady
	}

	s.state = StateSubmitting
	defer func() { s.state = StateReady }()

	for _, item := range s.items {
		if item.ID == "" {
			continue
		}
		if err := s.sink.Update(ctx, s.token, s.subject.ID, item); err != nil {
			return fmt.Errorf("reconcile: update %s: %w", item.ID, err)
		}
	}
	return nil
}

// Close discards the session regardless of whether a save happened. No
// history or undo is retained.
func (s *Session) Close() {
	s.state = StateIdle
	s.token = ""
	s.subject = Subject{}
	s.items = nil
}
