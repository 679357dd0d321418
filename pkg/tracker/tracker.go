// Package tracker records in-flight package operations and drives their
// synthetic progress. The wrapped tools report nothing until they exit, so
// progress creeps toward a cap on every tick and jumps to 100 on completion.
package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"wingman/pkg/manager"
)

const (
	// DefaultInterval is the time between progress ticks.
	DefaultInterval = 500 * time.Millisecond
	// DefaultCap is the highest progress reached before the tool exits.
	DefaultCap = 90
)

// Kind is the action an operation performs.
type Kind string

const (
	KindInstall   Kind = "install"
	KindUpdate    Kind = "update"
	KindUninstall Kind = "uninstall"
)

// Status is the lifecycle state of an operation.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Operation is one tracked install, update or uninstall.
type Operation struct {
	ID          string         `json:"id" yaml:"id"`
	PackageID   string         `json:"packageId" yaml:"packageId"`
	PackageName string         `json:"packageName" yaml:"packageName"`
	Source      manager.Source `json:"source" yaml:"source"`
	Kind        Kind           `json:"kind" yaml:"kind"`
	Progress    int            `json:"progress" yaml:"progress"`
	Status      Status         `json:"status" yaml:"status"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   time.Time      `json:"startedAt" yaml:"startedAt"`
	FinishedAt  time.Time      `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// Done reports whether the operation reached a terminal state.
func (o Operation) Done() bool {
	return o.Status != StatusRunning
}

// Tracker holds operations keyed by id.
type Tracker struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	interval time.Duration
	cap      int
	ops      map[string]*Operation
	seq      map[string]int
	next     int
	onChange func(Operation)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock that drives ticks and timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithInterval sets the tick interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithCap sets the progress ceiling while running. Values outside 1..99
// are ignored.
func WithCap(n int) Option {
	return func(t *Tracker) {
		if n > 0 && n < 100 {
			t.cap = n
		}
	}
}

// OnChange registers fn to receive a copy of every operation update. fn is
// called without the tracker lock held.
func OnChange(fn func(Operation)) Option {
	return func(t *Tracker) { t.onChange = fn }
}

// New creates an empty Tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		cap:      DefaultCap,
		ops:      make(map[string]*Operation),
		seq:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start registers a running operation for pkg at zero progress.
func (t *Tracker) Start(pkg manager.Package, kind Kind) Operation {
	op := &Operation{
		ID:          uuid.NewString(),
		PackageID:   pkg.ID,
		PackageName: pkg.DisplayName(),
		Source:      pkg.Source,
		Kind:        kind,
		Status:      StatusRunning,
		StartedAt:   t.clock.Now(),
	}

	t.mu.Lock()
	t.ops[op.ID] = op
	t.seq[op.ID] = t.next
	t.next++
	snapshot := *op
	t.mu.Unlock()

	t.notify(snapshot)
	return snapshot
}

// Advance moves a running operation one step toward the cap. It reports
// false if the operation is unknown or already finished.
func (t *Tracker) Advance(id string) bool {
	t.mu.Lock()
	op, ok := t.ops[id]
	if !ok || op.Done() {
		t.mu.Unlock()
		return false
	}
	op.Progress = step(op.Progress, t.cap)
	snapshot := *op
	t.mu.Unlock()

	t.notify(snapshot)
	return true
}

// Complete moves an operation to its terminal state from res. Progress is
// set to 100 either way.
func (t *Tracker) Complete(id string, res manager.Result) (Operation, bool) {
	t.mu.Lock()
	op, ok := t.ops[id]
	if !ok {
		t.mu.Unlock()
		return Operation{}, false
	}
	op.Progress = 100
	op.FinishedAt = t.clock.Now()
	if res.Success {
		op.Status = StatusSuccess
		op.Error = ""
	} else {
		op.Status = StatusError
		op.Error = res.Error
		if op.Error == "" {
			op.Error = "operation failed"
		}
	}
	snapshot := *op
	t.mu.Unlock()

	t.notify(snapshot)
	return snapshot, true
}

// Run tracks fn as a kind operation on pkg. Progress ticks on the tracker's
// clock until fn returns. fn always runs to completion; ctx is only passed
// through.
func (t *Tracker) Run(ctx context.Context, pkg manager.Package, kind Kind, fn func(context.Context) manager.Result) manager.Result {
	op := t.Start(pkg, kind)

	ticker := t.clock.NewTicker(t.interval)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ticker.Chan():
				t.Advance(op.ID)
			case <-done:
				return
			}
		}
	}()

	res := fn(ctx)

	close(done)
	ticker.Stop()
	wg.Wait()

	t.Complete(op.ID, res)
	return res
}

// Get returns the operation with id.
func (t *Tracker) Get(id string) (Operation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	op, ok := t.ops[id]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}

// List returns every operation in start order.
func (t *Tracker) List() []Operation {
	return t.filter(func(Operation) bool { return true })
}

// Active returns the running operations in start order.
func (t *Tracker) Active() []Operation {
	return t.filter(func(o Operation) bool { return !o.Done() })
}

// ClearFinished forgets every terminal operation and returns how many were
// removed.
func (t *Tracker) ClearFinished() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, op := range t.ops {
		if op.Done() {
			delete(t.ops, id)
			delete(t.seq, id)
			n++
		}
	}
	return n
}

func (t *Tracker) filter(keep func(Operation) bool) []Operation {
	t.mu.RLock()
	out := make([]Operation, 0, len(t.ops))
	for _, op := range t.ops {
		if keep(*op) {
			out = append(out, *op)
		}
	}
	seq := make(map[string]int, len(out))
	for _, op := range out {
		seq[op.ID] = t.seq[op.ID]
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return seq[out[i].ID] < seq[out[j].ID]
	})
	return out
}

func (t *Tracker) notify(op Operation) {
	if t.onChange != nil {
		t.onChange(op)
	}
}

// step returns the progress after one tick. It closes a fifth of the
// remaining distance to limit, at least one point, and never passes limit.
func step(progress, limit int) int {
	if progress >= limit {
		return progress
	}
	inc := (limit - progress) / 5
	if inc < 1 {
		inc = 1
	}
	progress += inc
	if progress > limit {
		progress = limit
	}
	return progress
}
