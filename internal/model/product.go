package model

import (
	"encoding/json"
	"slices"
)

// Canonical field keys produced by column normalization.
const (
	FieldSKU             = "sku"
	FieldBrand           = "brand"
	FieldModel           = "model"
	FieldSize            = "size"
	FieldPrice           = "price"
	FieldCost            = "cost"
	FieldStock           = "stock"
	FieldCompetitorPrice = "competitorPrice"
	FieldMargin          = "margin"
	FieldVehicleType     = "vehicleType"
)

// CanonicalFields lists every known product attribute in display order.
var CanonicalFields = []string{
	FieldSKU,
	FieldBrand,
	FieldModel,
	FieldSize,
	FieldPrice,
	FieldCost,
	FieldStock,
	FieldCompetitorPrice,
	FieldMargin,
	FieldVehicleType,
}

// ProductRecord is one row of the retailer's inventory.
// Optional numeric fields are nil when the source cell was blank or unparseable.
type ProductRecord struct {
	SKU             string   `json:"sku"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Size            string   `json:"size"`
	Price           float64  `json:"price" validate:"finite,gte=0"`
	Cost            *float64 `json:"cost,omitempty" validate:"omitempty,finite"`
	Stock           *int     `json:"stock,omitempty"`
	CompetitorPrice *float64 `json:"competitorPrice,omitempty" validate:"omitempty,finite"`
	Margin          *float64 `json:"margin,omitempty" validate:"omitempty,finite"`
	VehicleType     *string  `json:"vehicleType,omitempty"`

	// Extra holds spreadsheet columns with no canonical meaning, keyed by
	// normalized label. They are flattened into the JSON object.
	Extra map[string]string `json:"-"`
}

func (p ProductRecord) MarshalJSON() ([]byte, error) {
	type plain ProductRecord
	base, err := json.Marshal(plain(p))
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, taken := fields[k]; taken || slices.Contains(CanonicalFields, k) {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// Query builds the free-text shopping query for the record.
func (p ProductRecord) Query() string {
	return p.Brand + " " + p.Model + " " + p.Size
}
