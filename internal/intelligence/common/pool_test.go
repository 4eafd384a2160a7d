package common

import (
	"context"
	stdliberrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/metmap/pkg/errors"
)

type recordingObserver struct {
	mu    sync.Mutex
	names []string
	items []int
	errs  []error
}

func (o *recordingObserver) PassFinished(name string, items, _ int, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.names = append(o.names, name)
	o.items = append(o.items, items)
	o.errs = append(o.errs, err)
}

func TestNewChunkPool_Defaults(t *testing.T) {
	p := NewChunkPool()
	assert.GreaterOrEqual(t, p.Workers(), 1)
}

func TestChunkPool_Plan(t *testing.T) {
	cases := []struct {
		name      string
		opts      []PoolOption
		total     int
		chunks    int
		chunkSize int
	}{
		{"auto even", []PoolOption{WithWorkers(4)}, 100, 4, 25},
		{"auto ragged", []PoolOption{WithWorkers(4)}, 10, 4, 3},
		{"auto tiny", []PoolOption{WithWorkers(8)}, 3, 3, 1},
		{"fixed chunk", []PoolOption{WithWorkers(2), WithChunkSize(7)}, 20, 3, 7},
		{"empty", []PoolOption{WithWorkers(2)}, 0, 0, 1},
		{"ignored options", []PoolOption{WithWorkers(0), WithWorkers(3), WithChunkSize(-1)}, 9, 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := NewChunkPool(tc.opts...).Plan(tc.total)
			assert.Equal(t, tc.total, plan.Items)
			assert.Equal(t, tc.chunks, plan.Chunks)
			assert.Equal(t, tc.chunkSize, plan.ChunkSize)
		})
	}
}

func TestMapRange_ResultsInIndexOrder(t *testing.T) {
	p := NewChunkPool(WithWorkers(3), WithChunkSize(4))

	out, err := MapRange(context.Background(), p, "square", 50, func(i int) (int, error) {
		return i * i, nil
	})

	require.NoError(t, err)
	require.Len(t, out, 50)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestMapRange_DeterministicAcrossWorkerCounts(t *testing.T) {
	fn := func(i int) (float64, error) { return float64(i%7) / 7.0, nil }

	ref, err := MapRange(context.Background(), NewChunkPool(WithWorkers(1)), "ref", 1000, fn)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 16} {
		for _, chunk := range []int{0, 1, 13, 1000} {
			got, err := MapRange(context.Background(), NewChunkPool(WithWorkers(workers), WithChunkSize(chunk)), "cmp", 1000, fn)
			require.NoError(t, err)
			assert.Equal(t, ref, got, "workers=%d chunk=%d", workers, chunk)
		}
	}
}

func TestMapRange_Empty(t *testing.T) {
	out, err := MapRange(context.Background(), NewChunkPool(), "empty", 0, func(i int) (int, error) {
		t.Fatal("must not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMapRange_ConcurrencyLimit(t *testing.T) {
	var current, peak int32
	p := NewChunkPool(WithWorkers(2), WithChunkSize(1))

	_, err := MapRange(context.Background(), p, "limit", 10, func(i int) (int, error) {
		c := atomic.AddInt32(&current, 1)
		defer atomic.AddInt32(&current, -1)
		for {
			old := atomic.LoadInt32(&peak)
			if c <= old || atomic.CompareAndSwapInt32(&peak, old, c) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return i, nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestMapRange_ErrorAbortsPass(t *testing.T) {
	obs := &recordingObserver{}
	p := NewChunkPool(WithWorkers(2), WithChunkSize(5), WithPassObserver(obs))
	boom := stdliberrors.New("boom")

	out, err := MapRange(context.Background(), p, "failing", 40, func(i int) (int, error) {
		if i == 17 {
			return 0, boom
		}
		return i, nil
	})

	assert.Nil(t, out, "partial results must be discarded")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePassFailed))
	assert.True(t, stdliberrors.Is(err, boom))

	require.Len(t, obs.names, 1)
	assert.Equal(t, "failing", obs.names[0])
	assert.Error(t, obs.errs[0])
}

func TestMapRange_PanicAbortsPass(t *testing.T) {
	p := NewChunkPool(WithWorkers(4), WithChunkSize(3))

	out, err := MapRange(context.Background(), p, "panicking", 30, func(i int) (int, error) {
		if i == 4 {
			panic("bad pair")
		}
		return i, nil
	})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePassFailed))
	assert.True(t, stdliberrors.Is(err, ErrWorkerPanic))
	assert.Contains(t, err.Error(), "bad pair")
}

func TestMapRange_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := MapRange(ctx, NewChunkPool(WithWorkers(2)), "cancelled", 10, func(i int) (int, error) {
		return i, nil
	})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, stdliberrors.Is(err, context.Canceled))
}

func TestTallyRange_CountsKeys(t *testing.T) {
	obs := &recordingObserver{}
	p := NewChunkPool(WithWorkers(3), WithChunkSize(7), WithPassObserver(obs))

	tally, err := TallyRange(context.Background(), p, "parity", 101, func(i int) bool {
		return i%2 == 0
	})

	require.NoError(t, err)
	assert.Equal(t, 51, tally[true])
	assert.Equal(t, 50, tally[false])
	assert.Equal(t, []int{101}, obs.items)
	assert.NoError(t, obs.errs[0])
}

func TestTallyRange_Empty(t *testing.T) {
	tally, err := TallyRange(context.Background(), NewChunkPool(), "empty", 0, func(i int) string { return "x" })
	require.NoError(t, err)
	assert.Empty(t, tally)
}

//Personal.AI order the ending
