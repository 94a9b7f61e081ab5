package service

import (
	"context"
	"io"

	"go-price-compare/internal/model"
	"go-price-compare/internal/repository"
	"go-price-compare/internal/spreadsheet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SheetReader is satisfied by *spreadsheet.Reader.
type SheetReader interface {
	Read(src io.Reader) (*spreadsheet.Sheet, error)
}

// EventPublisher pushes a JSON-serialisable event to websocket clients.
type EventPublisher interface {
	Publish(event any)
}

// ImportResult is the outcome of one spreadsheet upload.
type ImportResult struct {
	Sheet           *spreadsheet.Sheet
	RunID           string
	Analyzed        bool
	AnalysisSuccess bool
	Analysis        []model.ComparisonResult
	Summary         *model.BatchSummary
}

type InventoryService interface {
	Import(ctx context.Context, src io.Reader, analyze bool) (*ImportResult, error)
	Search(query string) []model.ProductRecord
	Match(brand, modelName, size string) (*model.ProductRecord, bool)
	Stats() repository.InventoryStats
	Clear()
}

type inventoryService struct {
	reader     SheetReader
	repo       repository.InventoryRepository
	comparison ComparisonService
	events     EventPublisher
	logger     *zap.Logger
}

func NewInventoryService(reader SheetReader, repo repository.InventoryRepository, comparison ComparisonService, events EventPublisher, logger *zap.Logger) InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inventoryService{
		reader:     reader,
		repo:       repo,
		comparison: comparison,
		events:     events,
		logger:     logger,
	}
}

func (s *inventoryService) Import(ctx context.Context, src io.Reader, analyze bool) (*ImportResult, error) {
	// 1. Parse spreadsheet
	sheet, err := s.reader.Read(src)
	if err != nil {
		return nil, err
	}

	// 2. Replace in-memory inventory
	s.repo.Load(sheet.Records)
	s.logger.Info("inventory loaded",
		zap.String("sheet", sheet.Name),
		zap.Int("records", len(sheet.Records)),
		zap.Int("header_row", sheet.HeaderRow),
	)
	s.publish(map[string]any{
		"type":    model.EventInventoryLoaded,
		"total":   len(sheet.Records),
		"columns": sheet.NormalizedColumns,
	})

	res := &ImportResult{Sheet: sheet, RunID: uuid.NewString()}

	// 3. Auto-analyze
	if analyze && s.comparison != nil {
		results := s.comparison.AnalyzeBatch(WithRunID(ctx, res.RunID), sheet.Records)
		summary := Summarize(results)
		res.Analyzed = true
		res.Analysis = results
		res.Summary = &summary
		res.AnalysisSuccess = ctx.Err() == nil
	}

	return res, nil
}

func (s *inventoryService) publish(event any) {
	if s.events == nil {
		return
	}
	s.events.Publish(event)
}

func (s *inventoryService) Search(query string) []model.ProductRecord {
	return s.repo.Search(query)
}

func (s *inventoryService) Match(brand, modelName, size string) (*model.ProductRecord, bool) {
	return s.repo.FindExactMatch(brand, modelName, size)
}

func (s *inventoryService) Stats() repository.InventoryStats {
	return s.repo.Stats()
}

func (s *inventoryService) Clear() {
	s.repo.Clear()
	s.publish(map[string]any{"type": model.EventInventoryCleared})
}
