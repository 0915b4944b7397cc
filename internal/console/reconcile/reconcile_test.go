package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epes-hq/epes/internal/console/reconcile"
	_ "github.com/epes-hq/epes/testing"
)

type stubSource struct {
	subject reconcile.Subject
	items   []reconcile.Item
	err     error
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context, token, subjectID string) (reconcile.Subject, []reconcile.Item, error) {
	s.calls++
	if s.err != nil {
		return reconcile.Subject{}, nil, s.err
	}
	items := make([]reconcile.Item, len(s.items))
	copy(items, s.items)
	return s.subject, items, nil
}

type recordedUpdate struct {
	SubjectID string
	Item      reconcile.Item
}

type stubSink struct {
	updates []recordedUpdate
	failOn  string
}

func (s *stubSink) Update(ctx context.Context, token, subjectID string, item reconcile.Item) error {
	if s.failOn != "" && item.ID == s.failOn {
		return errors.New("backend unavailable")
	}
	s.updates = append(s.updates, recordedUpdate{SubjectID: subjectID, Item: item})
	return nil
}

func newReadySession(t *testing.T, source *stubSource, sink *stubSink) *reconcile.Session {
	t.Helper()
	sess := reconcile.NewSession(source, sink)
	require.NoError(t, sess.Open(context.Background(), "token", source.subject.ID))
	require.Equal(t, reconcile.StateReady, sess.State())
	return sess
}

func TestOpenRefusedWithoutToken(t *testing.T) {
	source := &stubSource{subject: reconcile.Subject{ID: "r1"}}
	sess := reconcile.NewSession(source, &stubSink{})

	err := sess.Open(context.Background(), "", "r1")
	require.ErrorIs(t, err, reconcile.ErrNoToken)
	assert.Equal(t, reconcile.StateIdle, sess.State())
	assert.Zero(t, source.calls, "no network call may be attempted")
}

func TestOpenRefusedWithoutSubject(t *testing.T) {
	source := &stubSource{}
	sess := reconcile.NewSession(source, &stubSink{})

	err := sess.Open(context.Background(), "token", "")
	require.ErrorIs(t, err, reconcile.ErrNoSubject)
	assert.Equal(t, reconcile.StateIdle, sess.State())
	assert.Zero(t, source.calls)
}

func TestOpenFetchFailureLeavesNoSession(t *testing.T) {
	source := &stubSource{err: errors.New("boom")}
	sess := reconcile.NewSession(source, &stubSink{})

	err := sess.Open(context.Background(), "token", "r1")
	require.Error(t, err)
	assert.Equal(t, reconcile.StateIdle, sess.State())
	assert.Empty(t, sess.Items())
}

func TestOpenEmptyListIsExplicit(t *testing.T) {
	source := &stubSource{subject: reconcile.Subject{ID: "r1", Name: "Manager"}}
	sess := newReadySession(t, source, &stubSink{})

	assert.True(t, sess.Empty())
	assert.Equal(t, "Manager", sess.Subject().Name)
}

func TestToggleFlipsExactlyOneItem(t *testing.T) {
	source := &stubSource{
		subject: reconcile.Subject{ID: "r1"},
		items: []reconcile.Item{
			{ID: "a", Granted: false},
			{ID: "b", Granted: true},
			{ID: "c", Granted: false},
		},
	}
	sess := newReadySession(t, source, &stubSink{})

	require.NoError(t, sess.Toggle("b"))
	items := sess.Items()
	assert.False(t, items[0].Granted)
	assert.False(t, items[1].Granted)
	assert.False(t, items[2].Granted)

	// Toggling twice restores the original state.
	require.NoError(t, sess.Toggle("b"))
	items = sess.Items()
	assert.True(t, items[1].Granted)
}

func TestToggleUnknownItem(t *testing.T) {
	source := &stubSource{subject: reconcile.Subject{ID: "r1"}, items: []reconcile.Item{{ID: "a"}}}
	sess := newReadySession(t, source, &stubSink{})

	assert.ErrorIs(t, sess.Toggle("nope"), reconcile.ErrUnknownItem)
}

func TestSaveSubmitsEveryItemInOrder(t *testing.T) {
	source := &stubSource{
		subject: reconcile.Subject{ID: "r1"},
		items: []reconcile.Item{
			{ID: "1", Granted: true},
			{ID: "2", Granted: false},
			{ID: "3", Granted: true},
		},
	}
	sink := &stubSink{}
	sess := newReadySession(t, source, sink)

	// Only one item toggled, yet every item is submitted in list order.
	require.NoError(t, sess.Toggle("2"))
	require.NoError(t, sess.Save(context.Background()))

	require.Len(t, sink.updates, 3)
	assert.Equal(t, "1", sink.updates[0].Item.ID)
	assert.Equal(t, "2", sink.updates[1].Item.ID)
	assert.Equal(t, "3", sink.updates[2].Item.ID)
	assert.True(t, sink.updates[1].Item.Granted)
	assert.Equal(t, "r1", sink.updates[0].SubjectID)
	assert.Equal(t, reconcile.StateReady, sess.State())
}

func TestSaveSkipsItemsWithoutID(t *testing.T) {
	source := &stubSource{
		subject: reconcile.Subject{ID: "r1"},
		items: []reconcile.Item{
			{ID: "", Granted: true},
			{ID: "b", Granted: true},
		},
	}
	sink := &stubSink{}
	sess := newReadySession(t, source, sink)

	require.NoError(t, sess.Save(context.Background()))
	require.Len(t, sink.updates, 1)
	assert.Equal(t, "b", sink.updates[0].Item.ID)
}

func TestSaveFailFast(t *testing.T) {
	source := &stubSource{
		subject: reconcile.Subject{ID: "r1"},
		items: []reconcile.Item{
			{ID: "a", Granted: true},
			{ID: "b", Granted: false},
			{ID: "c", Granted: true},
		},
	}
	sink := &stubSink{failOn: "b"}
	sess := newReadySession(t, source, sink)
	require.NoError(t, sess.Toggle("c"))

	err := sess.Save(context.Background())
	require.Error(t, err)

	// a was submitted, b failed, c was never attempted.
	require.Len(t, sink.updates, 1)
	assert.Equal(t, "a", sink.updates[0].Item.ID)

	// Local toggles are left exactly as the operator set them.
	items := sess.Items()
	assert.False(t, items[2].Granted)
	assert.Equal(t, reconcile.StateReady, sess.State())
}

func TestSaveRequiresReady(t *testing.T) {
	sess := reconcile.NewSession(&stubSource{}, &stubSink{})
	assert.ErrorIs(t, sess.Save(context.Background()), reconcile.ErrNotReady)
	assert.ErrorIs(t, sess.Toggle("a"), reconcile.ErrNotReady)
}

func TestCloseDiscardsSession(t *testing.T) {
	source := &stubSource{subject: reconcile.Subject{ID: "r1"}, items: []reconcile.Item{{ID: "a"}}}
	sess := newReadySession(t, source, &stubSink{})

	sess.Close()
	assert.Equal(t, reconcile.StateIdle, sess.State())
	assert.Empty(t, sess.Items())

	// A closed session can be reopened to re-fetch current truth.
	require.NoError(t, sess.Open(context.Background(), "token", "r1"))
	assert.Equal(t, reconcile.StateReady, sess.State())
}
