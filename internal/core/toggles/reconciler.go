package toggles

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ItemState is the per-(viewer, item) toggle state.
type ItemState int

const (
	Off ItemState = iota
	On
	PendingOffToOn // optimistically on, remote call in flight
	PendingOnToOff // optimistically off, remote call in flight
)

func (s ItemState) String() string {
	switch s {
	case Off:
		return "off"
	case On:
		return "on"
	case PendingOffToOn:
		return "pending_off_to_on"
	case PendingOnToOff:
		return "pending_on_to_off"
	default:
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
}

// Mutator is the authoritative remote toggle. Implementations may block for
// an unbounded time; the reconciler never cancels them.
type Mutator interface {
	ToggleUpvote(ctx context.Context, item Item, upvoted bool) error
}

// Lister returns the ids the viewer has upvoted according to the server.
type Lister interface {
	ListUpvoted(ctx context.Context) ([]string, error)
}

// FailureNotifier surfaces a rolled-back toggle to the UI layer.
type FailureNotifier func(item Item, err error)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier registers the callback invoked after a rollback.
func WithNotifier(fn FailureNotifier) Option {
	return func(r *Reconciler) { r.notify = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSerializedItems chains remote calls for the same item so they reach the
// server in toggle order, and only lets a failure roll back the visible state
// when no newer toggle for that item has been issued.
//
// Without it every toggle fires independently and rollbacks are last-write-wins.
func WithSerializedItems() Option {
	return func(r *Reconciler) { r.serialize = true }
}

// flight tracks unresolved mutations for one item.
type flight struct {
	tail    chan struct{} // completion of the most recently queued mutation
	seq     uint64
	pending int
	target  bool
	settled bool // last value the server accepted, or the value before the first toggle
}

// Reconciler applies toggles optimistically to State and reconciles them with
// a Mutator, rolling back on failure. It never touches base counts; see VisibleCount.
type Reconciler struct {
	state    *State
	mutator  Mutator
	notify   FailureNotifier
	logger   *slog.Logger
	inflight map[string]*flight
	wg       sync.WaitGroup
	mu       sync.Mutex

	serialize bool
}

// NewReconciler creates a reconciler over state. A nil state starts empty.
func NewReconciler(state *State, mutator Mutator, opts ...Option) *Reconciler {
	if state == nil {
		state = NewState()
	}
	r := &Reconciler{
		state:    state,
		mutator:  mutator,
		logger:   slog.Default(),
		inflight: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pending is the handle for one in-flight toggle.
type Pending struct {
	err     error
	done    chan struct{}
	item    Item
	upvoted bool
}

// Item returns the toggled item.
func (p *Pending) Item() Item { return p.item }

// Upvoted returns the optimistic value that was applied.
func (p *Pending) Upvoted() bool { return p.upvoted }

// Done is closed once the remote call has resolved and any rollback applied.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the toggle resolves. The returned error is a
// *RemoteMutationError when the remote call failed.
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}

// Toggle flips the visible state of item immediately and reconciles it with
// the remote mutation in the background. It only fails for invalid items.
func (r *Reconciler) Toggle(ctx context.Context, item Item) (*Pending, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	prev := r.state.Has(item.ID)
	next := !prev
	r.state.Set(item.ID, next)

	f, ok := r.inflight[item.ID]
	if !ok {
		f = &flight{settled: prev}
		r.inflight[item.ID] = f
	}
	f.seq++
	f.pending++
	f.target = next
	seq := f.seq

	p := &Pending{item: item, upvoted: next, done: make(chan struct{})}

	var wait <-chan struct{}
	if r.serialize {
		wait = f.tail
		f.tail = p.done
	}
	r.mu.Unlock()

	r.logger.Debug("toggle applied optimistically",
		"item", item.ID,
		"type", item.Type,
		"upvoted", next)

	r.wg.Add(1)
	go r.reconcile(context.WithoutCancel(ctx), p, prev, seq, wait)

	return p, nil
}

func (r *Reconciler) reconcile(ctx context.Context, p *Pending, prev bool, seq uint64, wait <-chan struct{}) {
	defer r.wg.Done()

	if wait != nil {
		<-wait
	}

	err := r.mutator.ToggleUpvote(ctx, p.item, p.upvoted)

	r.mu.Lock()
	f := r.inflight[p.item.ID]
	switch {
	case err == nil:
		f.settled = p.upvoted
	case r.serialize:
		// Calls for this item reach the server in order, so settled mirrors
		// the server. Newer toggles own the visible state until they resolve.
		if f.seq == seq {
			r.state.Set(p.item.ID, f.settled)
			f.target = f.settled
		}
	default:
		r.state.Set(p.item.ID, prev)
		if f.seq == seq {
			f.target = prev
		}
	}
	if err != nil {
		p.err = &RemoteMutationError{Item: p.item, Upvoted: p.upvoted, Err: err}
	}
	f.pending--
	if f.pending == 0 {
		delete(r.inflight, p.item.ID)
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("toggle rolled back",
			"item", p.item.ID,
			"type", p.item.Type,
			"upvoted", p.upvoted,
			"error", err)
		if r.notify != nil {
			r.notify(p.item, p.err)
		}
	}

	close(p.done)
}

// IsOn reports the visible state of id.
func (r *Reconciler) IsOn(id string) bool {
	return r.state.Has(id)
}

// StateOf returns the full state of id including whether a call is in flight.
func (r *Reconciler) StateOf(id string) ItemState {
	r.mu.Lock()
	defer r.mu.Unlock()

	on := r.state.Has(id)
	if f, ok := r.inflight[id]; ok && f.pending > 0 {
		if on {
			return PendingOffToOn
		}
		return PendingOnToOff
	}
	if on {
		return On
	}
	return Off
}

// VisibleCount is the count to render for id given the server's base count.
func (r *Reconciler) VisibleCount(id string, base int) int {
	return VisibleCount(base, r.state.Has(id))
}

// VisibleCount returns base plus the viewer's local delta.
func VisibleCount(base int, on bool) int {
	if on {
		return base + 1
	}
	return base
}

// Refresh replaces the state with the server's view. Items with calls still
// in flight keep their optimistic value until those calls resolve.
func (r *Reconciler) Refresh(ctx context.Context, lister Lister) error {
	ids, err := lister.ListUpvoted(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh upvote state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Replace(ids)
	for id, f := range r.inflight {
		r.state.Set(id, f.target)
	}
	return nil
}

// State returns the underlying toggle set.
func (r *Reconciler) State() *State {
	return r.state
}

// Wait blocks until every toggle issued so far has resolved.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}
