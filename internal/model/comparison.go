package model

import "time"

// PriceStatus classifies the retailer's price against the best competitor offer.
type PriceStatus string

const (
	StatusOverpriced  PriceStatus = "overpriced"
	StatusCompetitive PriceStatus = "competitive"
	StatusUnderpriced PriceStatus = "underpriced"
	StatusError       PriceStatus = "error"
)

// Recommendations shown next to each status.
const (
	RecommendLower    = "lower price"
	RecommendRaise    = "opportunity to raise price"
	RecommendMaintain = "maintain"
	RecommendReview   = "review manually"
)

// ComparisonResult is the outcome of comparing one ProductRecord.
// When Status is StatusError the competitor fields are nil and ErrorMessage is set.
type ComparisonResult struct {
	SKU                 string      `json:"sku"`
	Brand               string      `json:"brand"`
	Model               string      `json:"model"`
	Size                string      `json:"size"`
	YourPrice           float64     `json:"yourPrice"`
	BestCompetitorPrice *float64    `json:"bestCompetitorPrice,omitempty"`
	CompetitorVendor    *string     `json:"competitorVendor,omitempty"`
	Difference          *float64    `json:"difference,omitempty"`
	Status              PriceStatus `json:"status"`
	Recommendation      string      `json:"recommendation"`
	CompetitorSearchURL string      `json:"competitorSearchUrl"`
	ErrorMessage        *string     `json:"errorMessage,omitempty"`
}

// BatchSummary counts results per status.
type BatchSummary struct {
	Total       int `json:"total"`
	Overpriced  int `json:"overpriced"`
	Competitive int `json:"competitive"`
	Underpriced int `json:"underpriced"`
	Failed      int `json:"failed"`
}

// Websocket event types.
const (
	EventAnalysisProgress = "analysis_progress"
	EventInventoryLoaded  = "inventory_loaded"
	EventInventoryCleared = "inventory_cleared"
)

// ProgressEvent is published after every finished chunk of a batch analysis.
type ProgressEvent struct {
	Type      string `json:"type"`
	RunID     string `json:"runId"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Chunk     int    `json:"chunk"`
	Chunks    int    `json:"chunks"`
	Failed    int    `json:"failed"`
}

// AnalysisRun records one finished batch analysis.
type AnalysisRun struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	DurationMs int64        `json:"durationMs"`
	Summary    BatchSummary `json:"summary"`
}
