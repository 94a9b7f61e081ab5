package apperror

import (
	"errors"
	"fmt"
	"testing"

	"go-price-compare/internal/service"
	"go-price-compare/internal/spreadsheet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFromMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("read: %w", spreadsheet.ErrEmptySheet), 400},
		{fmt.Errorf("open: %w", spreadsheet.ErrUnreadableWorkbook), 400},
		{service.ErrEmptyQuery, 400},
		{fmt.Errorf("%w: bad json", service.ErrExtraction), 500},
		{fmt.Errorf("%w: timeout", service.ErrLookupFailed), 500},
		{fiber.NewError(fiber.StatusNotFound, "Cannot GET /x"), 404},
		{BadRequest("No file uploaded"), 400},
		{errors.New("boom"), 500},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, From(tc.err).Code, tc.err.Error())
	}
}

func TestErrorUnwraps(t *testing.T) {
	err := New(500, "Price lookup failed", service.ErrLookupFailed)
	assert.ErrorIs(t, err, service.ErrLookupFailed)
	assert.Equal(t, "Price lookup failed: price lookup failed", err.Error())
}
