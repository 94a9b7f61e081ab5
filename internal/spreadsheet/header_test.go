package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHeaderRowSkipsTitleRows(t *testing.T) {
	grid := [][]string{
		{"LLANTAS AVANTE - INVENTARIO MAESTRO"},
		{"Actualizado: enero"},
		{},
		{"SKU", "Marca", "Modelo", "Medida del producto", "Precio de Venta ($)"},
		{"AV001", "Michelin", "Primacy 4", "205/55R16", "2200"},
	}
	row, found := DetectHeaderRow(grid, HeaderOptions{})
	assert.True(t, found)
	assert.Equal(t, 3, row)
}

func TestDetectHeaderRowToleratesOneMissingColumn(t *testing.T) {
	grid := [][]string{
		{"Reporte"},
		{"Código", "Marca", "Modelo", "Medida"},
	}
	row, found := DetectHeaderRow(grid, HeaderOptions{})
	assert.True(t, found)
	assert.Equal(t, 1, row)
}

func TestDetectHeaderRowRequiresSupermajority(t *testing.T) {
	grid := [][]string{
		{"SKU", "Marca", "Precio"},
		{"sku", "brand", "model", "size"},
	}
	row, found := DetectHeaderRow(grid, HeaderOptions{})
	assert.True(t, found)
	assert.Equal(t, 1, row)
}

func TestDetectHeaderRowCountsAliasGroupOnce(t *testing.T) {
	grid := [][]string{
		{"Marca", "Brand", "Modelo", "Model"},
	}
	_, found := DetectHeaderRow(grid, HeaderOptions{})
	assert.False(t, found)
}

func TestDetectHeaderRowFallsBackToZeroOutsideWindow(t *testing.T) {
	grid := make([][]string, 12)
	for i := range grid {
		grid[i] = []string{"notes"}
	}
	grid[10] = []string{"SKU", "Marca", "Modelo", "Medida"}

	row, found := DetectHeaderRow(grid, HeaderOptions{})
	assert.False(t, found)
	assert.Equal(t, 0, row)

	row, found = DetectHeaderRow(grid, HeaderOptions{ScanRows: 11})
	assert.True(t, found)
	assert.Equal(t, 10, row)
}

func TestDetectHeaderRowEmptyGrid(t *testing.T) {
	row, found := DetectHeaderRow(nil, HeaderOptions{})
	assert.False(t, found)
	assert.Equal(t, 0, row)
}
