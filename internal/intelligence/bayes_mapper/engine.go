package bayes_mapper

import (
	"context"
	"time"

	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/internal/intelligence/common"
)

// Engine runs the marginal and likelihood passes of the mapper on a shared
// ChunkPool.  Every pass over an n×m cross product addresses pair (i, j) by
// the flat index i·m + j.
type Engine struct {
	pool   *common.ChunkPool
	logger logging.Logger
}

// NewEngine creates an Engine.  A nil pool selects a pool with default
// settings; a nil logger discards output.
func NewEngine(pool *common.ChunkPool, logger logging.Logger) *Engine {
	if pool == nil {
		pool = common.NewChunkPool()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{pool: pool, logger: logger}
}

// Pool returns the engine's worker pool.
func (e *Engine) Pool() *common.ChunkPool { return e.pool }

// EstimateMarginal counts channel outcomes over all rows×cols pairs and
// returns the fractions of equal and not-equal outcomes.  When complement is
// set the not-equal fraction is 1 - equal, so that pairs with undefined
// annotations are counted as not equal.
func (e *Engine) EstimateMarginal(ctx context.Context, pass string, rows, cols int, complement bool, outcome func(i, j int) Outcome) (Marginal, error) {
	total := rows * cols
	if total == 0 {
		return Marginal{}, nil
	}
	counts, err := common.TallyRange(ctx, e.pool, pass, total, func(k int) Outcome {
		return outcome(k/cols, k%cols)
	})
	if err != nil {
		return Marginal{}, err
	}
	m := Marginal{
		Equal:    float64(counts[OutcomeEqual]) / float64(total),
		NotEqual: float64(counts[OutcomeNotEqual]) / float64(total),
	}
	if complement {
		m.NotEqual = 1 - m.Equal
	}
	e.logger.Debug("marginal estimated",
		logging.String("pass", pass),
		logging.Float64("equal", m.Equal),
		logging.Float64("not_equal", m.NotEqual),
		logging.Int("undefined", counts[OutcomeUndefined]))
	return m, nil
}

// Pairwise evaluates fn for every rows×cols pair and returns the table.
// The first failure aborts the pass and no table is returned.
func (e *Engine) Pairwise(ctx context.Context, pass string, rows, cols *Axis, fn func(i, j int) Likelihood) (*LikelihoodTable, error) {
	m := cols.Len()
	plan := e.pool.Plan(rows.Len() * m)
	e.logger.Info("calculating likelihoods",
		logging.String("pass", pass),
		logging.Int("pairs", plan.Items),
		logging.Int("workers", plan.Workers),
		logging.Int("chunk_size", plan.ChunkSize))
	started := time.Now()
	cells, err := common.MapRange(ctx, e.pool, pass, rows.Len()*m, func(k int) (Likelihood, error) {
		return fn(k/m, k%m), nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("likelihoods calculated",
		logging.String("pass", pass),
		logging.Int("pairs", len(cells)),
		logging.Duration("elapsed", time.Since(started)))
	return newLikelihoodTable(rows, cols, cells), nil
}

//Personal.AI order the ending
