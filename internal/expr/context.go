// internal/expr/context.go
package expr

import (
	"io"
	"log/slog"

	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Execution context.
 *
 * A Context carries everything one resolution may read or write: the event
 * (target), local variables, the enrichment snapshot, and a logger for
 * diagnostics. It is created per event and passed by pointer down the tree.
 * Nodes never keep a reference to it, and it is never shared between
 * goroutines.
 */

// Context is the per-event runtime state.
type Context struct {
	target value.Value
	locals map[string]value.Value
	tables *enrichment.Tables
	logger *slog.Logger
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithTables attaches an enrichment snapshot.
func WithTables(tables *enrichment.Tables) ContextOption {
	return func(c *Context) {
		c.tables = tables
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *Context) {
		c.logger = logger
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewContext returns a Context over event. A nil event starts empty.
func NewContext(event value.Object, opts ...ContextOption) *Context {
	if event == nil {
		event = value.Object{}
	}
	c := &Context{
		target: event,
		locals: make(map[string]value.Value),
		logger: discardLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target returns the current event.
func (c *Context) Target() value.Value {
	return c.target
}

// Get reads an event path. Missing paths read as null.
func (c *Context) Get(path []types.PathSegment) value.Value {
	v, _ := value.Get(c.target, path)
	return v
}

// Set writes an event path.
func (c *Context) Set(path []types.PathSegment, v value.Value) error {
	next, err := value.Set(c.target, path, v)
	if err != nil {
		return err
	}
	c.target = next
	return nil
}

// Local reads a local variable. Unassigned locals read as null.
func (c *Context) Local(name string) value.Value {
	if v, ok := c.locals[name]; ok {
		return v
	}
	return value.Null{}
}

// SetLocal assigns a local variable.
func (c *Context) SetLocal(name string, v value.Value) {
	c.locals[name] = v
}

// Tables returns the enrichment snapshot, which may be nil.
func (c *Context) Tables() *enrichment.Tables {
	return c.tables
}

// Logger returns the diagnostics logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}
