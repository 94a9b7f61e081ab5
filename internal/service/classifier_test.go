package service

import (
	"testing"

	"go-price-compare/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifierAbsoluteBands(t *testing.T) {
	c := DefaultClassifier()

	cases := []struct {
		name       string
		yours      float64
		competitor float64
		diff       float64
		status     model.PriceStatus
		rec        string
	}{
		{"overpriced", 2200, 1600, 600, model.StatusOverpriced, model.RecommendLower},
		{"competitive", 2200, 2100, 100, model.StatusCompetitive, model.RecommendMaintain},
		{"underpriced", 1600, 2200, -600, model.StatusUnderpriced, model.RecommendRaise},
		{"upper edge", 2000, 1500, 500, model.StatusCompetitive, model.RecommendMaintain},
		{"lower edge", 1500, 2000, -500, model.StatusCompetitive, model.RecommendMaintain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diff, status, rec := c.Classify(tc.yours, tc.competitor)
			assert.Equal(t, tc.diff, diff)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.rec, rec)
		})
	}
}

func TestClassifierPercentBands(t *testing.T) {
	c := Classifier{Overpriced: 10, Underpriced: 10, Percent: true}

	_, status, _ := c.Classify(1000, 850)
	assert.Equal(t, model.StatusOverpriced, status)

	_, status, _ = c.Classify(1000, 950)
	assert.Equal(t, model.StatusCompetitive, status)

	_, status, _ = c.Classify(1000, 1150)
	assert.Equal(t, model.StatusUnderpriced, status)
}
