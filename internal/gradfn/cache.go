package gradfn

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/born-ml/revgrad/internal/expr"
)

// Cache memoises gradient functions by source text.
//
// Concurrent requests for the same uncached source share a single build.
// Failed builds are not cached.
type Cache struct {
	parser expr.Parser
	opts   []Option

	mu     sync.RWMutex
	funcs  map[string]*Func
	flight singleflight.Group
}

// NewCache creates a cache whose functions are parsed with p and built with opts.
func NewCache(p expr.Parser, opts ...Option) *Cache {
	return &Cache{
		parser: p,
		opts:   opts,
		funcs:  make(map[string]*Func),
	}
}

// GetOrMake returns the cached Func for src, building it on first use.
func (c *Cache) GetOrMake(ctx context.Context, src string) (*Func, error) {
	if f, ok := c.get(src); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return f, nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.flight.Do(src, func() (any, error) {
		if f, ok := c.get(src); ok {
			return f, nil
		}

		_, span := tracer.Start(ctx, "gradfn.Make",
			trace.WithAttributes(attribute.String("parser", c.parser.Name())),
		)
		defer span.End()

		f, err := Make(src, c.parser, c.opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.SetAttributes(attribute.String("func.id", f.id.String()))

		c.mu.Lock()
		c.funcs[src] = f
		c.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Func), nil
}

func (c *Cache) get(src string) (*Func, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.funcs[src]
	return f, ok
}

// Len returns the number of cached functions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.funcs)
}
