package common

import (
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// In-memory pass recording
// ---------------------------------------------------------------------------

// PassRecord is one finished pass as seen by a PassRecorder.
type PassRecord struct {
	Name    string
	Items   int
	Chunks  int
	Elapsed time.Duration
	Failed  bool
}

// PassSummary aggregates the passes recorded during a run.
type PassSummary struct {
	Passes  int
	Failed  int
	Items   int64
	Elapsed time.Duration
	// Slowest names the pass with the longest elapsed time.
	Slowest string
}

// PassRecorder is a PassObserver that keeps every pass in memory.  It is
// attached to each run so the run summary does not depend on Prometheus.
type PassRecorder struct {
	mu      sync.Mutex
	records []PassRecord
}

// NewPassRecorder returns an empty PassRecorder.
func NewPassRecorder() *PassRecorder {
	return &PassRecorder{}
}

// PassFinished implements PassObserver.
func (r *PassRecorder) PassFinished(name string, items, chunks int, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, PassRecord{
		Name:    name,
		Items:   items,
		Chunks:  chunks,
		Elapsed: elapsed,
		Failed:  err != nil,
	})
}

// Records returns a copy of the recorded passes in completion order.
func (r *PassRecorder) Records() []PassRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PassRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Summary aggregates the recorded passes.
func (r *PassRecorder) Summary() PassSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s PassSummary
	var slowest time.Duration
	for _, rec := range r.records {
		s.Passes++
		if rec.Failed {
			s.Failed++
		}
		s.Items += int64(rec.Items)
		s.Elapsed += rec.Elapsed
		if s.Slowest == "" || rec.Elapsed > slowest {
			s.Slowest, slowest = rec.Name, rec.Elapsed
		}
	}
	return s
}

// ---------------------------------------------------------------------------
// Observer fan-out
// ---------------------------------------------------------------------------

type multiObserver []PassObserver

func (m multiObserver) PassFinished(name string, items, chunks int, elapsed time.Duration, err error) {
	for _, o := range m {
		o.PassFinished(name, items, chunks, elapsed, err)
	}
}

// Observers combines several observers into one.  Nil entries are skipped;
// with a single remaining observer that observer is returned unchanged.
func Observers(obs ...PassObserver) PassObserver {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

//Personal.AI order the ending
