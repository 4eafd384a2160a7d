// pool.go implements ChunkPool, the bounded parallel executor behind every
// pairwise pass of the mapping engine.  A pass over `total` independent items
// is cut into contiguous chunks; at most `workers` chunks run at once.  The
// first worker failure (error or panic) cancels the remaining chunks and the
// pass returns no partial results.
package common

import (
	"context"
	stdliberrors "errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

// ---------------------------------------------------------------------------
// Sentinel Errors
// ---------------------------------------------------------------------------

var (
	// ErrWorkerPanic is the cause attached to a pass aborted by a panicking
	// item function.
	ErrWorkerPanic = stdliberrors.New("worker panicked")
)

// ---------------------------------------------------------------------------
// Generic types
// ---------------------------------------------------------------------------

// ItemFunc computes the result for the item at flat index i.  It must depend
// only on i and on read-only shared state.
type ItemFunc[R any] func(i int) (R, error)

// PassObserver receives one notification per finished pass.  Implementations
// must be safe for concurrent use.
type PassObserver interface {
	PassFinished(name string, items, chunks int, elapsed time.Duration, err error)
}

// PassStats describes the shape of a pass before it runs.
type PassStats struct {
	Items     int
	Chunks    int
	ChunkSize int
	Workers   int
}

// ---------------------------------------------------------------------------
// PoolOption functional options
// ---------------------------------------------------------------------------

type poolConfig struct {
	workers   int
	chunkSize int
	observer  PassObserver
	logger    logging.Logger
}

func defaultPoolConfig() *poolConfig {
	return &poolConfig{
		workers:   runtime.NumCPU(),
		chunkSize: 0, // auto
		logger:    logging.NewNopLogger(),
	}
}

// PoolOption configures a ChunkPool.
type PoolOption func(*poolConfig)

// WithWorkers sets the maximum number of chunks evaluated concurrently.
// Non-positive values are ignored.
func WithWorkers(n int) PoolOption {
	return func(c *poolConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithChunkSize fixes the number of items per chunk.  Zero selects
// ceil(total/workers) for each pass; negative values are ignored.
func WithChunkSize(n int) PoolOption {
	return func(c *poolConfig) {
		if n >= 0 {
			c.chunkSize = n
		}
	}
}

// WithPassObserver injects a pass observer (metrics).
func WithPassObserver(o PassObserver) PoolOption {
	return func(c *poolConfig) {
		c.observer = o
	}
}

// WithPoolLogger injects a logger.
func WithPoolLogger(l logging.Logger) PoolOption {
	return func(c *poolConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ---------------------------------------------------------------------------
// ChunkPool
// ---------------------------------------------------------------------------

// ChunkPool runs passes of independent items in contiguous chunks over a
// bounded set of goroutines.  A ChunkPool holds no per-pass state and may be
// shared by sequential or concurrent passes.
type ChunkPool struct {
	cfg *poolConfig
}

// NewChunkPool creates a ChunkPool with the supplied options.
func NewChunkPool(opts ...PoolOption) *ChunkPool {
	cfg := defaultPoolConfig()
	for _, o := range opts {
		o(cfg)
	}
	return &ChunkPool{cfg: cfg}
}

// Workers returns the configured concurrency limit.
func (p *ChunkPool) Workers() int { return p.cfg.workers }

// Plan returns the chunking used for a pass over total items.
func (p *ChunkPool) Plan(total int) PassStats {
	size := p.chunkSizeFor(total)
	chunks := 0
	if total > 0 {
		chunks = (total + size - 1) / size
	}
	return PassStats{Items: total, Chunks: chunks, ChunkSize: size, Workers: p.cfg.workers}
}

func (p *ChunkPool) chunkSizeFor(total int) int {
	if p.cfg.chunkSize > 0 {
		return p.cfg.chunkSize
	}
	size := (total + p.cfg.workers - 1) / p.cfg.workers
	if size < 1 {
		size = 1
	}
	return size
}

// run executes body over [0,total) in chunks and blocks until every chunk has
// returned or the first failure has been observed.
func (p *ChunkPool) run(ctx context.Context, name string, total int, body func(start, end int) error) (err error) {
	plan := p.Plan(total)
	started := time.Now()
	defer func() {
		if p.cfg.observer != nil {
			p.cfg.observer.PassFinished(name, plan.Items, plan.Chunks, time.Since(started), err)
		}
	}()
	if total == 0 {
		return nil
	}

	p.cfg.logger.Debug("pass dispatched",
		logging.String("pass", name),
		logging.Int("items", plan.Items),
		logging.Int("chunks", plan.Chunks),
		logging.Int("chunk_size", plan.ChunkSize),
		logging.Int("workers", plan.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.workers)

	for start := 0; start < total; start += plan.ChunkSize {
		if gctx.Err() != nil {
			break
		}
		start, end := start, min(start+plan.ChunkSize, total)
		g.Go(func() (chunkErr error) {
			defer func() {
				if r := recover(); r != nil {
					chunkErr = errors.Wrap(fmt.Errorf("%w: %v", ErrWorkerPanic, r), errors.ErrCodePassFailed, "worker failed").
						WithDetail(fmt.Sprintf("pass=%s chunk=[%d,%d)", name, start, end))
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return body(start, end)
		})
	}

	err = g.Wait()
	if err == nil {
		// A context cancelled before dispatch leaves no goroutine to report it.
		err = ctx.Err()
	}
	if err != nil {
		p.cfg.logger.Error("pass aborted", logging.String("pass", name), logging.Err(err))
		if errors.GetCode(err) == errors.CodeUnknown {
			err = errors.Wrap(err, errors.ErrCodePassFailed, "pass aborted").WithDetail("pass=" + name)
		}
		return err
	}
	return nil
}

// MapRange evaluates fn for every index in [0,total) and returns the results
// in index order.  On failure it returns nil results and the first error.
func MapRange[R any](ctx context.Context, p *ChunkPool, name string, total int, fn ItemFunc[R]) ([]R, error) {
	out := make([]R, total)
	err := p.run(ctx, name, total, func(start, end int) error {
		for i := start; i < end; i++ {
			r, err := fn(i)
			if err != nil {
				return errors.Wrap(err, errors.CodeUnknown, "item failed").WithDetail(fmt.Sprintf("pass=%s item=%d", name, i))
			}
			out[i] = r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TallyRange evaluates fn for every index in [0,total) and counts the
// returned keys.  Each chunk tallies locally; the coordinator merges the
// chunk tallies after all workers have returned.
func TallyRange[K comparable](ctx context.Context, p *ChunkPool, name string, total int, fn func(i int) K) (map[K]int, error) {
	plan := p.Plan(total)
	partial := make([]map[K]int, plan.Chunks)
	err := p.run(ctx, name, total, func(start, end int) error {
		local := make(map[K]int)
		for i := start; i < end; i++ {
			local[fn(i)]++
		}
		partial[start/plan.ChunkSize] = local
		return nil
	})
	if err != nil {
		return nil, err
	}
	merged := make(map[K]int)
	for _, local := range partial {
		for k, n := range local {
			merged[k] += n
		}
	}
	return merged, nil
}

//Personal.AI order the ending
