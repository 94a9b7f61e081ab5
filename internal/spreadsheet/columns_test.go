package spreadsheet

import (
	"testing"

	"go-price-compare/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColumnSynonyms(t *testing.T) {
	cases := map[string]string{
		"Precio de Venta ($)":      model.FieldPrice,
		"precio_de_venta_":         model.FieldPrice,
		"Costo de Adquisición":     model.FieldCost,
		"Costo de Adquisicion ($)": model.FieldCost,
		"  MARCA ":                 model.FieldBrand,
		"Modelo":                   model.FieldModel,
		"Medida":                   model.FieldSize,
		"Stock Total":              model.FieldStock,
		"Precio Competencia ($)":   model.FieldCompetitorPrice,
		"Margen de Contribución":   model.FieldMargin,
		"Tipo de Vehículo":         model.FieldVehicleType,
		"Costo Promedio":           model.FieldPrice,
		"Vehicle   Type":           model.FieldVehicleType,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeColumn(in), "label %q", in)
	}
}

func TestNormalizeColumnIsIdempotentOnCanonicalKeys(t *testing.T) {
	for _, key := range model.CanonicalFields {
		assert.Equal(t, key, NormalizeColumn(key))
		assert.Equal(t, key, NormalizeColumn(NormalizeColumn(key)))
	}
}

func TestNormalizeColumnPassesUnknownThrough(t *testing.T) {
	assert.Equal(t, "ubicación_almacén", NormalizeColumn("Ubicación  Almacén"))
	assert.Equal(t, "notas", NormalizeColumn("(Notas)"))
}

func TestNormalizeRowDropsBlanks(t *testing.T) {
	row := RawRow{
		{Label: "A", Value: ""},
		{Label: "B", Value: ""},
		{Label: "Marca", Value: "x"},
	}
	got := NormalizeRow(row)
	assert.Equal(t, map[string]string{model.FieldBrand: "x"}, got)
}

func TestNormalizeRowLastWriteWins(t *testing.T) {
	row := RawRow{
		{Label: "Precio", Value: "100"},
		{Label: "Precio de Venta ($)", Value: "200"},
		{Label: "Costo Promedio", Value: ""},
	}
	got := NormalizeRow(row)
	assert.Equal(t, "200", got[model.FieldPrice])
	assert.Len(t, got, 1)
}
