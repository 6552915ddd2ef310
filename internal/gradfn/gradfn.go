// Package gradfn turns single-expression functions into gradient functions.
//
// A Func builds its computation graph once and replays it for every call:
// arguments are bound to the declared parameters by position, the graph
// runs forward then backward, and the result carries the output value and
// one partial derivative per parameter in declaration order.
//
// Func.Call is safe for concurrent use; calls on one Func are serialised.
// Func.Batch evaluates many points in parallel on per-worker graph clones.
package gradfn

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/revgrad/internal/expr"
	"github.com/born-ml/revgrad/internal/graph"
	"github.com/born-ml/revgrad/internal/ops"
)

// Errors returned by gradient functions.
var (
	ErrArityMismatch     = errors.New("argument count does not match parameter count")
	ErrUnboundIdentifier = errors.New("identifier is not a declared parameter")
)

// Result is the value of a function and its gradient at one point.
type Result struct {
	Value     float64   `json:"value"`
	Gradients []float64 `json:"gradients"`
}

// Option configures a Func.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry *ops.Registry
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegistry sets the operator registry used to build the graph.
func WithRegistry(r *ops.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// Func is a gradient function over a fixed, ordered parameter list.
type Func struct {
	id     uuid.UUID
	params []string
	logger *slog.Logger

	mu sync.Mutex
	g  *graph.Graph
}

// New builds the gradient function of fn.
//
// All structural errors surface here: an invalid function shape, an
// unsupported expression, an unknown operator or an identifier that is not
// one of fn's parameters.
func New(fn *expr.Func, opts ...Option) (*Func, error) {
	o := options{
		logger:   slog.New(slog.DiscardHandler),
		registry: ops.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := build(fn, o)
	if err != nil {
		graphBuilds.WithLabelValues("error").Inc()
		return nil, err
	}
	graphBuilds.WithLabelValues("ok").Inc()
	graphNodes.Observe(float64(f.g.Len()))

	f.logger.Debug("gradient function built",
		"id", f.id,
		"params", f.params,
		"nodes", f.g.Len())
	return f, nil
}

func build(fn *expr.Func, o options) (*Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", expr.ErrInvalidFunctionShape)
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}

	g, err := graph.Build(fn.Body, graph.WithRegistry(o.registry), graph.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	for _, name := range g.Inputs() {
		if !slices.Contains(fn.Params, name) {
			return nil, fmt.Errorf("%w: %q", ErrUnboundIdentifier, name)
		}
	}

	return &Func{
		id:     uuid.New(),
		params: slices.Clone(fn.Params),
		logger: o.logger,
		g:      g,
	}, nil
}

// Make parses src with p and builds its gradient function.
func Make(src string, p expr.Parser, opts ...Option) (*Func, error) {
	fn, err := p.Parse(src)
	if err != nil {
		graphBuilds.WithLabelValues("error").Inc()
		return nil, err
	}
	return New(fn, opts...)
}

// Call evaluates the function and its gradient at args.
//
// args must hold exactly one value per parameter, in declaration order.
// An arity mismatch is reported before the graph is touched.
func (f *Func) Call(args ...float64) (Result, error) {
	if err := f.checkArity(args); err != nil {
		callsTotal.WithLabelValues("arity").Inc()
		f.logger.Debug("call rejected", "id", f.id, "error", err)
		return Result{}, err
	}

	start := time.Now()
	f.mu.Lock()
	res, err := evaluate(f.g, f.params, args)
	f.mu.Unlock()
	callDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		callsTotal.WithLabelValues("error").Inc()
		f.logger.Debug("call failed", "id", f.id, "error", err)
		return Result{}, err
	}
	callsTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (f *Func) checkArity(args []float64) error {
	if len(args) != len(f.params) {
		return fmt.Errorf("%w: want %d, got %d", ErrArityMismatch, len(f.params), len(args))
	}
	return nil
}

// evaluate runs one forward and backward pass of g at args.
func evaluate(g *graph.Graph, params []string, args []float64) (Result, error) {
	bindings := make(map[string]float64, len(params))
	for i, name := range params {
		bindings[name] = args[i]
	}

	if err := g.Forward(bindings); err != nil {
		return Result{}, err
	}
	if err := g.Backward(); err != nil {
		return Result{}, err
	}

	grads := make([]float64, len(params))
	for i, name := range params {
		grads[i] = g.Gradient(name)
	}
	return Result{Value: g.Value(), Gradients: grads}, nil
}

// ID identifies this built graph in logs and traces.
func (f *Func) ID() uuid.UUID {
	return f.id
}

// Params returns the parameter names in declaration order.
func (f *Func) Params() []string {
	return slices.Clone(f.params)
}

// Arity returns the number of parameters.
func (f *Func) Arity() int {
	return len(f.params)
}

// Clone returns a Func with its own copy of the graph.
func (f *Func) Clone() *Func {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &Func{
		id:     f.id,
		params: f.params,
		logger: f.logger,
		g:      f.g.Clone(),
	}
}

// Dump writes the graph with the values of the last call.
func (f *Func) Dump(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.g.Dump(w)
}
