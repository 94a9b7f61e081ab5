package handler

import (
	"path/filepath"
	"strings"

	"go-price-compare/internal/apperror"
	"go-price-compare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// previewSize is how many records the upload response shows up front.
const previewSize = 5

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Upload ingests a spreadsheet, replaces the inventory and, unless
// ?analyze=false, runs the batch comparison over it.
func (h *InventoryHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest("No file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return apperror.BadRequest("Unsupported file type, upload an .xlsx workbook")
	}

	f, err := fh.Open()
	if err != nil {
		return apperror.BadRequest("Could not read uploaded file")
	}
	defer f.Close()

	res, err := h.service.Import(c.UserContext(), f, c.QueryBool("analyze", true))
	if err != nil {
		return err
	}

	sheet := res.Sheet
	return c.JSON(fiber.Map{
		"success":           true,
		"fileName":          fh.Filename,
		"sheetName":         sheet.Name,
		"total":             len(sheet.Records),
		"preview":           sheet.Preview(previewSize),
		"data":              sheet.Records,
		"originalColumns":   sheet.OriginalColumns,
		"normalizedColumns": sheet.NormalizedColumns,
		"headerRowDetected": sheet.HeaderRow + 1,
		"headerFound":       sheet.HeaderFound,
		"inventoryLoaded":   true,
		"analysis":          res.Analysis,
		"analysisSuccess":   res.AnalysisSuccess,
		"summary":           res.Summary,
		"runId":             res.RunID,
	})
}

func (h *InventoryHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return apperror.BadRequest("Query parameter 'q' is required")
	}

	items := h.service.Search(q)
	return c.JSON(fiber.Map{
		"success": true,
		"query":   q,
		"total":   len(items),
		"data":    items,
	})
}

func (h *InventoryHandler) Match(c *fiber.Ctx) error {
	brand, modelName, size := c.Query("brand"), c.Query("model"), c.Query("size")
	if strings.TrimSpace(brand+modelName+size) == "" {
		return apperror.BadRequest("At least one of brand, model or size is required")
	}

	item, ok := h.service.Match(brand, modelName, size)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No matching product in inventory",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.service.Stats()})
}

func (h *InventoryHandler) Clear(c *fiber.Ctx) error {
	h.service.Clear()
	return c.JSON(fiber.Map{"success": true, "message": "Inventory cleared"})
}
