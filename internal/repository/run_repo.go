package repository

import (
	"sync"

	"go-price-compare/internal/model"
)

// DefaultRunHistory is how many analysis runs are kept in memory.
const DefaultRunHistory = 100

type AnalysisRunRepository interface {
	Record(run model.AnalysisRun)
	Recent(limit int) []model.AnalysisRun
	Totals() RunTotals
}

// RunTotals untuk overview stats
type RunTotals struct {
	Runs     int                `json:"runs"`
	Products model.BatchSummary `json:"products"`
}

// runRepo is a bounded, newest-last history of runs. Totals cover every
// run ever recorded, not only the retained ones.
type runRepo struct {
	mu     sync.RWMutex
	runs   []model.AnalysisRun
	limit  int
	totals RunTotals
}

func NewRunRepo(limit int) AnalysisRunRepository {
	if limit < 1 {
		limit = DefaultRunHistory
	}
	return &runRepo{limit: limit}
}

func (r *runRepo) Record(run model.AnalysisRun) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, run)
	if len(r.runs) > r.limit {
		r.runs = append([]model.AnalysisRun(nil), r.runs[len(r.runs)-r.limit:]...)
	}

	r.totals.Runs++
	r.totals.Products.Total += run.Summary.Total
	r.totals.Products.Overpriced += run.Summary.Overpriced
	r.totals.Products.Competitive += run.Summary.Competitive
	r.totals.Products.Underpriced += run.Summary.Underpriced
	r.totals.Products.Failed += run.Summary.Failed
}

// Recent returns up to limit runs, newest first.
func (r *runRepo) Recent(limit int) []model.AnalysisRun {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	out := make([]model.AnalysisRun, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out
}

func (r *runRepo) Totals() RunTotals {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totals
}
