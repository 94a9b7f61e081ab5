package handler

import (
	"errors"
	"strings"

	"go-price-compare/internal/apperror"
	"go-price-compare/internal/model"
	"go-price-compare/internal/service"
	"go-price-compare/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ComparisonHandler struct {
	comparison service.ComparisonService
	lookup     service.PriceLookup
}

func NewComparisonHandler(comparison service.ComparisonService, lookup service.PriceLookup) *ComparisonHandler {
	return &ComparisonHandler{comparison: comparison, lookup: lookup}
}

type analyzeRequest struct {
	Products []model.ProductRecord `json:"products" validate:"required,dive"`
}

// Analyze compares a list of products against competitor prices.
func (h *ComparisonHandler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Body must be JSON with a 'products' array")
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		if req.Products == nil {
			return apperror.BadRequest("'products' array is required")
		}
		return apperror.BadRequest("Validation failed: " + errs[0].String())
	}

	runID := uuid.NewString()
	results := h.comparison.AnalyzeBatch(service.WithRunID(c.UserContext(), runID), req.Products)

	return c.JSON(fiber.Map{
		"success":        true,
		"runId":          runID,
		"totalProcessed": len(results),
		"results":        results,
		"summary":        service.Summarize(results),
	})
}

// SearchPrice looks up retailer and competitor prices for ?q=.
func (h *ComparisonHandler) SearchPrice(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return apperror.BadRequest("Query parameter 'q' is required")
	}

	res, err := h.lookup.Lookup(c.UserContext(), q)
	if errors.Is(err, service.ErrNoOffers) {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "No prices found for this product",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"mode":          res.Mode,
		"specsDetected": res.SpecsDetected,
		"data":          res.Data,
	})
}
