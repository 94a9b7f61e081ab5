package spreadsheet

import (
	"regexp"
	"strings"
	"unicode"

	"go-price-compare/internal/model"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cell is one labelled value of a RawRow.
type Cell struct {
	Label string
	Value string
}

// RawRow keeps the cells of a spreadsheet row in column order.
type RawRow []Cell

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	strippedChars = regexp.MustCompile(`[()$€£¥]`)
)

// columnSynonyms maps accent-folded labels to canonical field keys.
// Lower-cased camelCase keys are listed so that canonical keys normalize to themselves.
var columnSynonyms = map[string]string{
	// sku
	"codigo":    model.FieldSKU,
	"clave":     model.FieldSKU,
	"item_code": model.FieldSKU,

	// brand
	"marca":      model.FieldBrand,
	"fabricante": model.FieldBrand,
	"brand":      model.FieldBrand,

	// model
	"modelo": model.FieldModel,
	"model":  model.FieldModel,

	// size
	"medida":              model.FieldSize,
	"medida_del_producto": model.FieldSize,
	"size":                model.FieldSize,
	"tire_size":           model.FieldSize,

	// price
	"precio":          model.FieldPrice,
	"precio_de_venta": model.FieldPrice,
	"precio_venta":    model.FieldPrice,
	"costo_promedio":  model.FieldPrice,
	"price":           model.FieldPrice,
	"sale_price":      model.FieldPrice,
	"unit_price":      model.FieldPrice,

	// cost
	"costo":                model.FieldCost,
	"costo_de_adquisicion": model.FieldCost,
	"cost":                 model.FieldCost,
	"unit_cost":            model.FieldCost,

	// stock
	"stock":       model.FieldStock,
	"stock_total": model.FieldStock,
	"existencia":  model.FieldStock,
	"existencias": model.FieldStock,
	"quantity":    model.FieldStock,
	"qty":         model.FieldStock,

	// competitor price
	"precio_competencia": model.FieldCompetitorPrice,
	"competitor_price":   model.FieldCompetitorPrice,
	"competitorprice":    model.FieldCompetitorPrice,

	// margin
	"margen":                 model.FieldMargin,
	"margen_de_contribucion": model.FieldMargin,
	"margin":                 model.FieldMargin,

	// vehicle type
	"tipo_de_vehiculo": model.FieldVehicleType,
	"vehicle_type":     model.FieldVehicleType,
	"vehicletype":      model.FieldVehicleType,
}

// foldAccents removes combining marks: "adquisición" -> "adquisicion".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func cleanLabel(label string) string {
	s := strings.TrimSpace(strings.ToLower(label))
	s = whitespaceRun.ReplaceAllString(s, "_")
	return strippedChars.ReplaceAllString(s, "")
}

// NormalizeColumn maps a human-written column label to a canonical field key.
// Unknown labels come back in their cleaned form.
func NormalizeColumn(label string) string {
	cleaned := cleanLabel(label)
	if key, ok := columnSynonyms[cleaned]; ok {
		return key
	}

	folded := foldAccents(cleaned)
	if key, ok := columnSynonyms[folded]; ok {
		return key
	}
	if key, ok := columnSynonyms[strings.TrimRight(folded, "_")]; ok {
		return key
	}

	return cleaned
}

// NormalizeRow drops blank cells and rewrites labels to canonical keys.
// When two labels normalize to the same key the right-most cell wins.
func NormalizeRow(row RawRow) map[string]string {
	out := make(map[string]string, len(row))
	for _, cell := range row {
		if cell.Value == "" {
			continue
		}
		out[NormalizeColumn(cell.Label)] = cell.Value
	}
	return out
}
