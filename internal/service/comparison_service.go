package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go-price-compare/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is how many lookups run at the same time.
const DefaultChunkSize = 5

const competitorSearchBase = "https://www.google.com/search?q="

// ProgressPublisher receives batch progress, e.g. the websocket hub.
type ProgressPublisher interface {
	PublishProgress(ev model.ProgressEvent)
}

// RunRecorder keeps finished analysis runs, e.g. for the dashboard.
type RunRecorder interface {
	Record(run model.AnalysisRun)
}

type ComparisonService interface {
	AnalyzeBatch(ctx context.Context, records []model.ProductRecord) []model.ComparisonResult
}

type runIDKey struct{}

// WithRunID tags ctx with the id used in progress events.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFrom returns the run id stored by WithRunID, or "".
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

type comparisonService struct {
	lookup     PriceLookup
	classifier Classifier
	chunkSize  int
	progress   ProgressPublisher
	runs       RunRecorder
	logger     *zap.Logger
}

func NewComparisonService(lookup PriceLookup, classifier Classifier, chunkSize int, progress ProgressPublisher, runs RunRecorder, logger *zap.Logger) ComparisonService {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &comparisonService{
		lookup:     lookup,
		classifier: classifier,
		chunkSize:  chunkSize,
		progress:   progress,
		runs:       runs,
		logger:     logger,
	}
}

// AnalyzeBatch compares every record. Output order matches input order and a
// failing record never affects the others.
func (s *comparisonService) AnalyzeBatch(ctx context.Context, records []model.ProductRecord) []model.ComparisonResult {
	results := make([]model.ComparisonResult, len(records))
	if len(records) == 0 {
		return results
	}

	runID := RunIDFrom(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	chunks := (len(records) + s.chunkSize - 1) / s.chunkSize
	failed := 0
	startedAt := time.Now()

	s.logger.Info("batch analysis started",
		zap.String("run_id", runID),
		zap.Int("total", len(records)),
		zap.Int("chunk_size", s.chunkSize),
	)

	for chunk := 0; chunk < chunks; chunk++ {
		start := chunk * s.chunkSize
		end := min(start+s.chunkSize, len(records))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = s.compareOne(ctx, records[i])
				return nil
			})
		}
		_ = g.Wait()

		for i := start; i < end; i++ {
			if results[i].Status == model.StatusError {
				failed++
			}
		}

		if s.progress != nil {
			s.progress.PublishProgress(model.ProgressEvent{
				Type:      model.EventAnalysisProgress,
				RunID:     runID,
				Processed: end,
				Total:     len(records),
				Chunk:     chunk + 1,
				Chunks:    chunks,
				Failed:    failed,
			})
		}
	}

	s.logger.Info("batch analysis finished",
		zap.String("run_id", runID),
		zap.Int("processed", len(records)),
		zap.Int("failed", failed),
	)

	if s.runs != nil {
		finishedAt := time.Now()
		s.runs.Record(model.AnalysisRun{
			ID:         runID,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			DurationMs: finishedAt.Sub(startedAt).Milliseconds(),
			Summary:    Summarize(results),
		})
	}
	return results
}

func (s *comparisonService) compareOne(ctx context.Context, rec model.ProductRecord) (res model.ComparisonResult) {
	query := rec.Query()
	res = model.ComparisonResult{
		SKU:                 rec.SKU,
		Brand:               rec.Brand,
		Model:               rec.Model,
		Size:                rec.Size,
		YourPrice:           rec.Price,
		CompetitorSearchURL: competitorSearchBase + url.QueryEscape(query),
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while comparing product",
				zap.String("sku", rec.SKU),
				zap.Any("panic", r),
			)
			res = failedResult(res, fmt.Sprintf("internal error: %v", r))
		}
	}()

	lookup, err := s.lookup.Lookup(ctx, query)
	if err != nil {
		s.logger.Warn("product comparison failed",
			zap.String("sku", rec.SKU),
			zap.String("query", query),
			zap.Error(err),
		)
		return failedResult(res, errorMessage(err))
	}

	competitor := lookup.Data.Competitor
	if competitor.Price <= 0 {
		return failedResult(res, "no competitor price found")
	}

	diff, status, recommendation := s.classifier.Classify(rec.Price, competitor.Price)
	price := competitor.Price
	vendor := competitor.Vendor
	res.BestCompetitorPrice = &price
	res.CompetitorVendor = &vendor
	res.Difference = &diff
	res.Status = status
	res.Recommendation = recommendation
	return res
}

func failedResult(res model.ComparisonResult, msg string) model.ComparisonResult {
	res.BestCompetitorPrice = nil
	res.CompetitorVendor = nil
	res.Difference = nil
	res.Status = model.StatusError
	res.Recommendation = model.RecommendReview
	res.ErrorMessage = &msg
	return res
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoOffers):
		return "no competitor prices found"
	case errors.Is(err, ErrExtraction):
		return "could not read competitor prices"
	default:
		return err.Error()
	}
}

// Summarize counts results per status.
func Summarize(results []model.ComparisonResult) model.BatchSummary {
	sum := model.BatchSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case model.StatusOverpriced:
			sum.Overpriced++
		case model.StatusCompetitive:
			sum.Competitive++
		case model.StatusUnderpriced:
			sum.Underpriced++
		default:
			sum.Failed++
		}
	}
	return sum
}
