package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"go-price-compare/internal/model"
	"go-price-compare/internal/repository"
	"go-price-compare/internal/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	sheet *spreadsheet.Sheet
	err   error
}

func (r stubReader) Read(io.Reader) (*spreadsheet.Sheet, error) { return r.sheet, r.err }

type stubComparison struct {
	runID string
	calls int
}

func (c *stubComparison) AnalyzeBatch(ctx context.Context, recs []model.ProductRecord) []model.ComparisonResult {
	c.calls++
	c.runID = RunIDFrom(ctx)
	out := make([]model.ComparisonResult, len(recs))
	for i := range out {
		out[i] = model.ComparisonResult{SKU: recs[i].SKU, Status: model.StatusCompetitive}
	}
	return out
}

type eventLog struct {
	mu     sync.Mutex
	events []any
}

func (e *eventLog) Publish(ev any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func sheetWith(recs ...model.ProductRecord) *spreadsheet.Sheet {
	return &spreadsheet.Sheet{Name: "Sheet1", HeaderFound: true, Records: recs}
}

func TestImportLoadsInventoryAndAnalyzes(t *testing.T) {
	repo := repository.NewInventoryRepo()
	cmp := &stubComparison{}
	events := &eventLog{}
	svc := NewInventoryService(stubReader{sheet: sheetWith(
		model.ProductRecord{SKU: "A1", Brand: "Michelin", Price: 100},
		model.ProductRecord{SKU: "B2", Brand: "Pirelli", Price: 300},
	)}, repo, cmp, events, nil)

	res, err := svc.Import(context.Background(), bytes.NewReader(nil), true)
	require.NoError(t, err)

	assert.Equal(t, 2, svc.Stats().Total)
	assert.True(t, res.Analyzed)
	assert.True(t, res.AnalysisSuccess)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 2, res.Summary.Competitive)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, res.RunID, cmp.runID)
	assert.Len(t, events.events, 1)

	assert.Len(t, svc.Search("pirelli"), 1)
	hit, ok := svc.Match("michelin", "", "")
	require.True(t, ok)
	assert.Equal(t, "A1", hit.SKU)
}

func TestImportWithoutAnalysis(t *testing.T) {
	cmp := &stubComparison{}
	svc := NewInventoryService(stubReader{sheet: sheetWith(model.ProductRecord{SKU: "A1"})},
		repository.NewInventoryRepo(), cmp, nil, nil)

	res, err := svc.Import(context.Background(), bytes.NewReader(nil), false)
	require.NoError(t, err)
	assert.False(t, res.Analyzed)
	assert.Nil(t, res.Summary)
	assert.Zero(t, cmp.calls)
}

func TestImportPropagatesReaderError(t *testing.T) {
	repo := repository.NewInventoryRepo()
	repo.Load([]model.ProductRecord{{SKU: "keep"}})

	svc := NewInventoryService(stubReader{err: spreadsheet.ErrEmptySheet}, repo, nil, nil, nil)
	_, err := svc.Import(context.Background(), bytes.NewReader(nil), true)
	assert.ErrorIs(t, err, spreadsheet.ErrEmptySheet)
	assert.Equal(t, 1, repo.Stats().Total, "failed import keeps previous inventory")
}

func TestClearPublishesEvent(t *testing.T) {
	events := &eventLog{}
	repo := repository.NewInventoryRepo()
	repo.Load([]model.ProductRecord{{SKU: "x"}})

	svc := NewInventoryService(stubReader{}, repo, nil, events, nil)
	svc.Clear()
	assert.Equal(t, 0, svc.Stats().Total)
	assert.Len(t, events.events, 1)
}
