package gradfn

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/revgrad/internal/graph"
	"github.com/born-ml/revgrad/internal/parallel"
)

var tracer = otel.Tracer("revgrad.gradfn")

// PointError reports the batch point that failed.
type PointError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *PointError) Error() string {
	return fmt.Sprintf("point %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *PointError) Unwrap() error {
	return e.Err
}

// DefaultWorkers returns the default batch parallelism, one worker per CPU.
func DefaultWorkers() int {
	return parallel.DefaultConfig().NumWorkers
}

// Batch evaluates f at every point and returns the results in input order.
//
// Points are split into contiguous chunks, one per worker, and each worker
// runs on its own clone of the graph. workers < 1 means DefaultWorkers().
// Every point's arity is checked before evaluation starts. The first
// failing point cancels the rest and is returned as a *PointError;
// cancellation of ctx is returned as ctx.Err().
func (f *Func) Batch(ctx context.Context, points [][]float64, workers int) ([]Result, error) {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	for i, p := range points {
		if err := f.checkArity(p); err != nil {
			callsTotal.WithLabelValues("arity").Inc()
			return nil, &PointError{Index: i, Err: err}
		}
	}

	ctx, span := tracer.Start(ctx, "gradfn.Batch",
		trace.WithAttributes(
			attribute.String("func.id", f.id.String()),
			attribute.Int("points", len(points)),
			attribute.Int("workers", workers),
		),
	)
	defer span.End()

	results := make([]Result, len(points))
	if len(points) == 0 {
		return results, nil
	}

	f.mu.Lock()
	base := f.g.Clone()
	f.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, r := range parallel.Chunks(len(points), parallel.Config{NumWorkers: workers, MinChunkSize: 1}) {
		g := base.Clone()
		eg.Go(func() error {
			return f.runChunk(egCtx, g, points, results, r)
		})
	}

	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.logger.Debug("batch failed", "id", f.id, "error", err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return results, nil
}

// runChunk evaluates the points in r on g, writing into results.
func (f *Func) runChunk(ctx context.Context, g *graph.Graph, points [][]float64, results []Result, r parallel.Range) error {
	_, span := tracer.Start(ctx, "gradfn.chunk",
		trace.WithAttributes(
			attribute.Int("start", r.Start),
			attribute.Int("end", r.End),
		),
	)
	defer span.End()

	for i := r.Start; i < r.End; i++ {
		if err := ctx.Err(); err != nil {
			span.SetAttributes(attribute.Bool("context_cancelled", true))
			return err
		}

		t := time.Now()
		res, err := evaluate(g, f.params, points[i])
		callDuration.Observe(time.Since(t).Seconds())
		if err != nil {
			callsTotal.WithLabelValues("error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return &PointError{Index: i, Err: err}
		}
		callsTotal.WithLabelValues("ok").Inc()
		results[i] = res
	}
	return nil
}
