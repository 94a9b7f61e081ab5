package service

import "go-price-compare/internal/model"

// Classifier turns a price difference into a status and recommendation.
// Overpriced and Underpriced are tolerance bands; with Percent set they are
// read as a percentage of the retailer's own price.
type Classifier struct {
	Overpriced  float64
	Underpriced float64
	Percent     bool
}

// DefaultClassifier uses the absolute 500/500 bands.
func DefaultClassifier() Classifier {
	return Classifier{Overpriced: 500, Underpriced: 500}
}

// Classify compares yourPrice with competitorPrice. difference is
// yourPrice - competitorPrice; band edges count as competitive.
func (c Classifier) Classify(yourPrice, competitorPrice float64) (difference float64, status model.PriceStatus, recommendation string) {
	difference = yourPrice - competitorPrice

	over, under := c.Overpriced, c.Underpriced
	if c.Percent {
		over = yourPrice * c.Overpriced / 100
		under = yourPrice * c.Underpriced / 100
	}

	switch {
	case difference > over:
		return difference, model.StatusOverpriced, model.RecommendLower
	case difference < -under:
		return difference, model.StatusUnderpriced, model.RecommendRaise
	default:
		return difference, model.StatusCompetitive, model.RecommendMaintain
	}
}
