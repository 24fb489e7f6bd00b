package toggles

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mutationCall is one remote call held open until the test resolves it.
type mutationCall struct {
	ctx     context.Context
	result  chan error
	item    Item
	upvoted bool
}

func (c *mutationCall) resolve(err error) {
	c.result <- err
}

// blockingMutator hands every call to the test through calls.
type blockingMutator struct {
	calls chan *mutationCall
}

func newBlockingMutator() *blockingMutator {
	return &blockingMutator{calls: make(chan *mutationCall, 16)}
}

func (m *blockingMutator) ToggleUpvote(ctx context.Context, item Item, upvoted bool) error {
	c := &mutationCall{ctx: ctx, item: item, upvoted: upvoted, result: make(chan error, 1)}
	m.calls <- c
	return <-c.result
}

func (m *blockingMutator) next(t *testing.T) *mutationCall {
	t.Helper()
	select {
	case c := <-m.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for remote call")
		return nil
	}
}

type recordingNotifier struct {
	items []Item
	errs  []error
	mu    sync.Mutex
}

func (n *recordingNotifier) notify(item Item, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
	n.errs = append(n.errs, err)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

type staticLister struct {
	err error
	ids []string
}

func (l staticLister) ListUpvoted(ctx context.Context) ([]string, error) {
	return l.ids, l.err
}

var testLog = Item{ID: "log-1", Type: ItemTypeLog, AuthorID: "author-1"}

func TestReconciler_ToggleOn_Success(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator)

	pending, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)

	// Visible before the remote call resolves
	assert.True(t, r.IsOn(testLog.ID))
	assert.Equal(t, PendingOffToOn, r.StateOf(testLog.ID))
	assert.True(t, pending.Upvoted())

	call := mutator.next(t)
	assert.Equal(t, testLog, call.item)
	assert.True(t, call.upvoted)
	call.resolve(nil)

	require.NoError(t, pending.Wait())
	assert.True(t, r.IsOn(testLog.ID))
	assert.Equal(t, On, r.StateOf(testLog.ID))
}

func TestReconciler_FailureRevertsCountAndNotifies(t *testing.T) {
	mutator := newBlockingMutator()
	notifier := &recordingNotifier{}
	r := NewReconciler(nil, mutator, WithNotifier(notifier.notify))

	const base = 7
	assert.Equal(t, 7, r.VisibleCount(testLog.ID, base))

	pending, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)
	assert.Equal(t, 8, r.VisibleCount(testLog.ID, base), "optimistic count shows immediately")

	mutator.next(t).resolve(errors.New("503 service unavailable"))

	err = pending.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteMutation)

	var mutErr *RemoteMutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, testLog, mutErr.Item)
	assert.True(t, mutErr.Upvoted)

	assert.Equal(t, 7, r.VisibleCount(testLog.ID, base), "count reverts after failure")
	assert.Equal(t, Off, r.StateOf(testLog.ID))
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, testLog, notifier.items[0])
}

func TestReconciler_ToggleOff_FailureRestoresOn(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(NewState(testLog.ID), mutator)

	pending, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)
	assert.False(t, r.IsOn(testLog.ID))
	assert.Equal(t, PendingOnToOff, r.StateOf(testLog.ID))

	call := mutator.next(t)
	assert.False(t, call.upvoted)
	call.resolve(errors.New("unauthorized"))

	assert.ErrorIs(t, pending.Wait(), ErrRemoteMutation)
	assert.True(t, r.IsOn(testLog.ID))
	assert.Equal(t, On, r.StateOf(testLog.ID))
}

func TestReconciler_InvalidItem(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator)

	tests := []struct {
		name string
		item Item
		want error
	}{
		{"missing id", Item{Type: ItemTypeLog, AuthorID: "a"}, ErrItemIDRequired},
		{"bad type", Item{ID: "x", Type: "post", AuthorID: "a"}, ErrInvalidItemType},
		{"missing author", Item{ID: "x", Type: ItemTypeComment}, ErrAuthorIDRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, err := r.Toggle(context.Background(), tt.item)
			assert.Nil(t, pending)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
	assert.Equal(t, 0, r.State().Len())
	assert.Empty(t, mutator.calls)
}

func TestReconciler_CallerCancellationDoesNotCancelRemoteCall(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator)

	ctx, cancel := context.WithCancel(context.Background())
	pending, err := r.Toggle(ctx, testLog)
	require.NoError(t, err)
	cancel()

	call := mutator.next(t)
	assert.NoError(t, call.ctx.Err())
	call.resolve(nil)
	assert.NoError(t, pending.Wait())
}

func TestReconciler_IndependentItemsDoNotInterfere(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator)
	other := Item{ID: "comment-9", Type: ItemTypeComment, AuthorID: "author-2"}

	p1, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)
	p2, err := r.Toggle(context.Background(), other)
	require.NoError(t, err)

	calls := map[string]*mutationCall{}
	for i := 0; i < 2; i++ {
		c := mutator.next(t)
		calls[c.item.ID] = c
	}
	calls[other.ID].resolve(errors.New("boom"))
	calls[testLog.ID].resolve(nil)

	assert.NoError(t, p1.Wait())
	assert.Error(t, p2.Wait())
	assert.True(t, r.IsOn(testLog.ID))
	assert.False(t, r.IsOn(other.ID))
}

func TestReconciler_RapidTogglesFireIndependently(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator)

	p1, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)
	p2, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)
	assert.False(t, r.IsOn(testLog.ID))

	// Both remote calls are in flight at the same time
	first := mutator.next(t)
	second := mutator.next(t)
	upvotes := map[bool]*mutationCall{first.upvoted: first, second.upvoted: second}
	require.Len(t, upvotes, 2)

	// The "off" call lands first, then the stale "on" call fails and rolls
	// back to its own pre-toggle value: last write wins on the local set.
	upvotes[false].resolve(nil)
	require.NoError(t, p2.Wait())
	upvotes[true].resolve(errors.New("timeout"))
	require.Error(t, p1.Wait())

	assert.False(t, r.IsOn(testLog.ID))
	assert.Equal(t, Off, r.StateOf(testLog.ID))
}

func TestReconciler_Serialized_SecondCallWaitsForFirst(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator, WithSerializedItems())

	p1, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)
	p2, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)

	first := mutator.next(t)
	assert.True(t, first.upvoted)
	assert.Never(t, func() bool { return len(mutator.calls) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"second call must not start before the first resolves")

	first.resolve(nil)
	second := mutator.next(t)
	assert.False(t, second.upvoted)
	second.resolve(nil)

	require.NoError(t, p1.Wait())
	require.NoError(t, p2.Wait())
	assert.False(t, r.IsOn(testLog.ID))
}

func TestReconciler_Serialized_StaleFailureKeepsNewerToggle(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator, WithSerializedItems())

	p1, err := r.Toggle(context.Background(), testLog) // off -> on
	require.NoError(t, err)
	p2, err := r.Toggle(context.Background(), testLog) // on -> off
	require.NoError(t, err)

	mutator.next(t).resolve(errors.New("boom"))
	require.Error(t, p1.Wait())
	assert.False(t, r.IsOn(testLog.ID), "newer toggle still owns the visible state")
	assert.Equal(t, PendingOnToOff, r.StateOf(testLog.ID))

	mutator.next(t).resolve(nil)
	require.NoError(t, p2.Wait())
	assert.Equal(t, Off, r.StateOf(testLog.ID))
}

func TestReconciler_Serialized_LatestFailureRestoresSettledValue(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator, WithSerializedItems())

	p1, err := r.Toggle(context.Background(), testLog) // off -> on
	require.NoError(t, err)
	p2, err := r.Toggle(context.Background(), testLog) // on -> off
	require.NoError(t, err)
	p3, err := r.Toggle(context.Background(), testLog) // off -> on
	require.NoError(t, err)

	// Server accepts "on", then rejects both later calls.
	mutator.next(t).resolve(nil)
	mutator.next(t).resolve(errors.New("flaky"))
	mutator.next(t).resolve(errors.New("offline"))

	require.NoError(t, p1.Wait())
	require.Error(t, p2.Wait())
	require.Error(t, p3.Wait())
	assert.True(t, r.IsOn(testLog.ID), "rolls back to what the server last accepted")
}

func TestReconciler_Refresh(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(NewState("stale"), mutator)

	pending, err := r.Toggle(context.Background(), testLog)
	require.NoError(t, err)

	require.NoError(t, r.Refresh(context.Background(), staticLister{ids: []string{"log-2", "comment-3"}}))
	assert.False(t, r.IsOn("stale"))
	assert.True(t, r.IsOn("log-2"))
	assert.True(t, r.IsOn(testLog.ID), "in-flight toggle keeps its optimistic value")

	mutator.next(t).resolve(nil)
	require.NoError(t, pending.Wait())
	assert.Equal(t, []string{"comment-3", "log-1", "log-2"}, r.State().Snapshot())
}

func TestReconciler_RefreshError(t *testing.T) {
	r := NewReconciler(NewState("keep"), newBlockingMutator())

	err := r.Refresh(context.Background(), staticLister{err: errors.New("down")})
	assert.Error(t, err)
	assert.True(t, r.IsOn("keep"))
}

func TestReconciler_WaitDrainsAllToggles(t *testing.T) {
	mutator := newBlockingMutator()
	r := NewReconciler(nil, mutator)

	for _, id := range []string{"a", "b", "c"} {
		_, err := r.Toggle(context.Background(), Item{ID: id, Type: ItemTypeLog, AuthorID: "x"})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		mutator.next(t).resolve(nil)
	}
	r.Wait()
	assert.Equal(t, 3, r.State().Len())
}

func TestVisibleCount(t *testing.T) {
	for _, base := range []int{0, 1, 7, 1000} {
		assert.Equal(t, base+1, VisibleCount(base, true))
		assert.Equal(t, base, VisibleCount(base, false))
	}
}

func TestItemState_String(t *testing.T) {
	assert.Equal(t, "off", Off.String())
	assert.Equal(t, "on", On.String())
	assert.Equal(t, "pending_off_to_on", PendingOffToOn.String())
	assert.Equal(t, "pending_on_to_off", PendingOnToOff.String())
}

func TestParseItemType(t *testing.T) {
	typ, err := ParseItemType(" Comment ")
	require.NoError(t, err)
	assert.Equal(t, ItemTypeComment, typ)

	_, err = ParseItemType("post")
	assert.ErrorIs(t, err, ErrInvalidItemType)
}
