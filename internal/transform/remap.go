// internal/transform/remap.go

// Package transform runs a compiled program over events as a named pipeline component.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solatis/remap/internal/compiler"
	"github.com/solatis/remap/internal/core/logging"
	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Remap component.
 *
 * One Program is shared by every worker. Each event gets its own
 * expr.Context, so workers share nothing mutable but the enrichment Store,
 * which is read once per event.
 *
 * Failure policy per event:
 *   - success: Result.Event is the transformed event
 *   - error, drop_on_error: Result.Dropped, Result.Event is nil
 *   - error, otherwise: Result.Event is the original, untouched event
 * Result.Err is set in both error cases. A failing event never affects the
 * other events of its batch.
 *
 * ProcessBatch writes results by index, so output order is input order
 * regardless of which worker finished first. Cancellation is observed
 * between events; a resolution in progress always runs to completion.
 */

// ComponentName is the stable name of the remap component.
const ComponentName = "remap"

// DefaultMaxBatchSize bounds ProcessBatch input when no option overrides it.
const DefaultMaxBatchSize = 10000

var (
	// ErrBatchTooLarge indicates a batch exceeding the configured maximum.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrNotObject indicates the program left a non-object at the event root.
	ErrNotObject = errors.New("event root is not an object")
)

var _ types.NamedComponent = (*Remap)(nil)

// Result is the outcome for one event.
type Result struct {
	Event   value.Object
	Dropped bool
	Err     error
}

// Remap applies a program to events.
type Remap struct {
	program      *compiler.Program
	tables       *enrichment.Store
	logger       *slog.Logger
	workers      int
	maxBatchSize int
	dropOnError  bool
}

// Option configures a Remap.
type Option func(*Remap)

// WithTables sets the store events read enrichment snapshots from.
func WithTables(store *enrichment.Store) Option {
	return func(r *Remap) {
		r.tables = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Remap) {
		r.logger = logger
	}
}

// WithWorkers bounds ProcessBatch concurrency. Values below 1 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Remap) {
		r.workers = n
	}
}

// WithMaxBatchSize bounds the number of events ProcessBatch accepts.
func WithMaxBatchSize(n int) Option {
	return func(r *Remap) {
		r.maxBatchSize = n
	}
}

// WithDropOnError drops failed events instead of passing them through.
func WithDropOnError(drop bool) Option {
	return func(r *Remap) {
		r.dropOnError = drop
	}
}

// New returns a Remap running program.
func New(program *compiler.Program, opts ...Option) *Remap {
	r := &Remap{
		program:      program,
		tables:       enrichment.NewStore(nil),
		logger:       logging.Discard(),
		maxBatchSize: DefaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	r.logger = logging.ForComponent(r.logger, r).With("program_id", program.ID)
	return r
}

// ComponentName implements types.NamedComponent.
func (r *Remap) ComponentName() string {
	return ComponentName
}

// Program returns the program being run.
func (r *Remap) Program() *compiler.Program {
	return r.program
}

// DropOnError reports whether failed events are dropped.
func (r *Remap) DropOnError() bool {
	return r.dropOnError
}

// Process transforms a single event. Only cancellation before the event
// starts is reported through Result.Err as ctx.Err().
func (r *Remap) Process(ctx context.Context, event value.Object) Result {
	if err := ctx.Err(); err != nil {
		return Result{Event: event, Err: err}
	}

	rctx := expr.NewContext(event, expr.WithTables(r.tables.Load()), expr.WithLogger(r.logger))
	if _, err := r.program.Resolve(rctx); err != nil {
		return r.fail(event, err)
	}

	out, ok := rctx.Target().(value.Object)
	if !ok {
		return r.fail(event, fmt.Errorf("%w: %s", ErrNotObject, value.KindOf(rctx.Target())))
	}
	return Result{Event: out}
}

func (r *Remap) fail(event value.Object, err error) Result {
	r.logger.Warn("event transformation failed",
		"error", err,
		"dropped", r.dropOnError,
	)
	if r.dropOnError {
		return Result{Dropped: true, Err: err}
	}
	return Result{Event: event, Err: err}
}

// ProcessBatch transforms events on the worker pool. Per-event failures are
// reported in the results; the returned error is only for an oversized batch
// or cancellation, in which case no results are returned.
func (r *Remap) ProcessBatch(ctx context.Context, events []value.Object) ([]Result, error) {
	if len(events) > r.maxBatchSize {
		return nil, fmt.Errorf("%w: %d events, limit %d", ErrBatchTooLarge, len(events), r.maxBatchSize)
	}

	start := time.Now()
	results := make([]Result, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, event := range events {
		if gctx.Err() != nil {
			break
		}
		i, event := i, event
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Process(gctx, event)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed, dropped := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		if res.Dropped {
			dropped++
		}
	}
	r.logger.Debug("processed batch",
		"events", len(events),
		"failed", failed,
		"dropped", dropped,
		"duration", time.Since(start),
	)
	return results, nil
}
