package service

import (
	"go-price-compare/internal/model"
	"go-price-compare/internal/repository"
)

// DashboardStats untuk overview stats
type DashboardStats struct {
	Inventory repository.InventoryStats `json:"inventory"`
	Analysis  repository.RunTotals      `json:"analysis"`
	LastRun   *model.AnalysisRun        `json:"lastRun"`
}

type DashboardService interface {
	GetRecentRuns(limit int) []model.AnalysisRun
	GetDashboardStats() DashboardStats
}

type dashboardService struct {
	inventoryRepo repository.InventoryRepository
	runRepo       repository.AnalysisRunRepository
}

func NewDashboardService(inventoryRepo repository.InventoryRepository, runRepo repository.AnalysisRunRepository) DashboardService {
	return &dashboardService{inventoryRepo: inventoryRepo, runRepo: runRepo}
}

func (s *dashboardService) GetRecentRuns(limit int) []model.AnalysisRun {
	return s.runRepo.Recent(limit)
}

func (s *dashboardService) GetDashboardStats() DashboardStats {
	stats := DashboardStats{
		Inventory: s.inventoryRepo.Stats(),
		Analysis:  s.runRepo.Totals(),
	}
	if last := s.runRepo.Recent(1); len(last) == 1 {
		stats.LastRun = &last[0]
	}
	return stats
}
