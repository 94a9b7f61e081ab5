package model

// ExtractedOffers is the structured pricing fact set pulled out of the
// shopping results, either by the LLM or by the heuristic extractor.
type ExtractedOffers struct {
	Specs      string          `json:"specs"`
	Retailer   RetailerOffer   `json:"retailer"`
	Competitor CompetitorOffer `json:"competitor"`
}

// RetailerOffer is the retailer's own listing as seen in the results.
type RetailerOffer struct {
	Found bool    `json:"found"`
	Price float64 `json:"price"`
	Title string  `json:"title,omitempty"`
}

// CompetitorOffer is the cheapest listing that is not the retailer's.
type CompetitorOffer struct {
	Vendor string  `json:"vendor"`
	Price  float64 `json:"price"`
	Title  string  `json:"title"`
}

// Price sources for RetailerPrice.
const (
	SourceLocalInventory = "local_inventory"
	SourceShopping       = "shopping_search"
)

// RetailerPrice is the retailer side of a lookup. Local inventory wins over
// the price found in search results.
type RetailerPrice struct {
	Price  float64 `json:"price"`
	Found  bool    `json:"found"`
	URL    string  `json:"url"`
	Source string  `json:"source"`
	SKU    string  `json:"sku,omitempty"`
	Stock  *int    `json:"stock,omitempty"`
}

// PriceLookupData is the payload of a successful lookup.
type PriceLookupData struct {
	Product               string          `json:"product"`
	Retailer              RetailerPrice   `json:"retailer"`
	Competitor            CompetitorOffer `json:"competitor"`
	Currency              string          `json:"currency"`
	LocalInventoryChecked bool            `json:"localInventoryChecked"`
	LocalMatches          int             `json:"localMatches"`
}

// PriceLookupResult is returned by the price-lookup service for one query.
type PriceLookupResult struct {
	Mode          string          `json:"mode"`
	SpecsDetected string          `json:"specsDetected"`
	Data          PriceLookupData `json:"data"`
}
