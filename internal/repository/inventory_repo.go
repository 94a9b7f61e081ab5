package repository

import (
	"strings"
	"sync"

	"go-price-compare/internal/model"
)

type InventoryRepository interface {
	Load(records []model.ProductRecord)
	Search(query string) []model.ProductRecord
	FindExactMatch(brand, modelName, size string) (*model.ProductRecord, bool)
	All() []model.ProductRecord
	Clear()
	Stats() InventoryStats
}

// InventoryStats untuk overview stats
type InventoryStats struct {
	Total    int     `json:"total"`
	Brands   int     `json:"brands"`
	AvgPrice float64 `json:"avgPrice"`
}

// inventoryRepo keeps the last loaded inventory in memory.
// Load swaps the whole slice; readers work on the snapshot they grabbed.
type inventoryRepo struct {
	mu      sync.RWMutex
	records []model.ProductRecord
}

func NewInventoryRepo() InventoryRepository {
	return &inventoryRepo{}
}

func (r *inventoryRepo) snapshot() []model.ProductRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records
}

func (r *inventoryRepo) Load(records []model.ProductRecord) {
	next := make([]model.ProductRecord, len(records))
	copy(next, records)

	r.mu.Lock()
	r.records = next
	r.mu.Unlock()
}

func (r *inventoryRepo) Search(query string) []model.ProductRecord {
	terms := strings.Fields(strings.ToLower(query))
	records := r.snapshot()
	if len(terms) == 0 || len(records) == 0 {
		return []model.ProductRecord{}
	}

	matches := []model.ProductRecord{}
	for _, item := range records {
		text := strings.ToLower(strings.Join([]string{item.Brand, item.Model, item.Size, item.SKU}, " "))
		if containsAll(text, terms) {
			matches = append(matches, item)
		}
	}
	return matches
}

func containsAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func (r *inventoryRepo) FindExactMatch(brand, modelName, size string) (*model.ProductRecord, bool) {
	wantBrand := strings.ToLower(strings.TrimSpace(brand))
	wantModel := strings.ToLower(strings.TrimSpace(modelName))
	wantSize := strings.ToLower(strings.TrimSpace(size))

	for _, item := range r.snapshot() {
		if strings.Contains(strings.ToLower(strings.TrimSpace(item.Brand)), wantBrand) &&
			strings.Contains(strings.ToLower(strings.TrimSpace(item.Model)), wantModel) &&
			strings.Contains(strings.ToLower(strings.TrimSpace(item.Size)), wantSize) {
			found := item
			return &found, true
		}
	}
	return nil, false
}

func (r *inventoryRepo) All() []model.ProductRecord {
	records := r.snapshot()
	out := make([]model.ProductRecord, len(records))
	copy(out, records)
	return out
}

func (r *inventoryRepo) Clear() {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
}

func (r *inventoryRepo) Stats() InventoryStats {
	records := r.snapshot()
	if len(records) == 0 {
		return InventoryStats{}
	}

	brands := make(map[string]struct{})
	var sum float64
	for _, item := range records {
		brands[item.Brand] = struct{}{}
		sum += item.Price
	}

	return InventoryStats{
		Total:    len(records),
		Brands:   len(brands),
		AvgPrice: sum / float64(len(records)),
	}
}
