package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go-price-compare/internal/model"
	"go-price-compare/internal/repository"
	"go-price-compare/pkg/shopping"

	"go.uber.org/zap"
)

var (
	ErrEmptyQuery   = errors.New("query is required")
	ErrNoOffers     = errors.New("no shopping offers found")
	ErrExtraction   = errors.New("could not extract prices from offers")
	ErrLookupFailed = errors.New("price lookup failed")
)

// maxOffers is how many shopping results are handed to the extractor.
const maxOffers = 10

// PriceLookup resolves a free-text product query into retailer and competitor prices.
type PriceLookup interface {
	Lookup(ctx context.Context, query string) (*model.PriceLookupResult, error)
}

// ShoppingSearcher is satisfied by *shopping.Client.
type ShoppingSearcher interface {
	Search(ctx context.Context, query string) ([]shopping.Offer, error)
}

// LookupOptions carries the retailer identity used to build results.
type LookupOptions struct {
	RetailerName      string
	RetailerSearchURL string
	Currency          string
}

type priceLookupService struct {
	inventory repository.InventoryRepository
	search    ShoppingSearcher
	extractor OfferExtractor
	opts      LookupOptions
	logger    *zap.Logger
}

func NewPriceLookupService(inv repository.InventoryRepository, search ShoppingSearcher, extractor OfferExtractor, opts LookupOptions, logger *zap.Logger) PriceLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &priceLookupService{
		inventory: inv,
		search:    search,
		extractor: extractor,
		opts:      opts,
		logger:    logger,
	}
}

func (s *priceLookupService) Lookup(ctx context.Context, query string) (*model.PriceLookupResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	// 1. Cek inventaris lokal dulu
	var local []model.ProductRecord
	if s.inventory != nil {
		local = s.inventory.Search(query)
	}

	// 2. Shopping search
	offers, err := s.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if len(offers) == 0 {
		return nil, ErrNoOffers
	}
	if len(offers) > maxOffers {
		offers = offers[:maxOffers]
	}

	// 3. Extract prices
	extracted, err := s.extractor.Extract(ctx, query, offers)
	if err != nil {
		return nil, err
	}

	// 4. Assemble result, local inventory wins
	retailer := model.RetailerPrice{
		Price:  extracted.Retailer.Price,
		Found:  extracted.Retailer.Found,
		URL:    s.opts.RetailerSearchURL + url.QueryEscape(query),
		Source: model.SourceShopping,
	}
	if len(local) > 0 {
		hit := local[0]
		retailer = model.RetailerPrice{
			Price:  hit.Price,
			Found:  true,
			URL:    s.opts.RetailerSearchURL + url.QueryEscape(query),
			Source: model.SourceLocalInventory,
			SKU:    hit.SKU,
			Stock:  hit.Stock,
		}
	}

	s.logger.Debug("price lookup resolved",
		zap.String("query", query),
		zap.String("mode", s.extractor.Mode()),
		zap.Int("offers", len(offers)),
		zap.Int("local_matches", len(local)),
		zap.Float64("competitor_price", extracted.Competitor.Price),
	)

	return &model.PriceLookupResult{
		Mode:          s.extractor.Mode(),
		SpecsDetected: extracted.Specs,
		Data: model.PriceLookupData{
			Product:               query,
			Retailer:              retailer,
			Competitor:            extracted.Competitor,
			Currency:              s.opts.Currency,
			LocalInventoryChecked: s.inventory != nil,
			LocalMatches:          len(local),
		},
	}, nil
}
