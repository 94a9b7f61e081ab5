package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go-price-compare/internal/model"
	"go-price-compare/internal/spreadsheet"
	"go-price-compare/pkg/shopping"
)

// Extraction modes reported in lookup results.
const (
	ModeLLM       = "AI_OPTIMIZED"
	ModeHeuristic = "HEURISTIC"
)

// OfferExtractor pulls structured prices out of raw shopping offers.
type OfferExtractor interface {
	Extract(ctx context.Context, query string, offers []shopping.Offer) (*model.ExtractedOffers, error)
	Mode() string
}

// Completer is satisfied by *llm.Client.
type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMExtractor asks a language model to pick the retailer and competitor offers.
type LLMExtractor struct {
	llm          Completer
	retailerName string
}

func NewLLMExtractor(llm Completer, retailerName string) *LLMExtractor {
	return &LLMExtractor{llm: llm, retailerName: retailerName}
}

func (e *LLMExtractor) Mode() string { return ModeLLM }

type promptOffer struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Price  string `json:"price"`
}

func (e *LLMExtractor) buildPrompt(query string, offers []shopping.Offer) (string, error) {
	compact := make([]promptOffer, 0, len(offers))
	for _, o := range offers {
		compact = append(compact, promptOffer{Title: o.Title, Source: o.Source, Price: o.Price})
	}
	data, err := json.Marshal(compact)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a tire pricing analyst. The user searched for: %q.\n", query)
	fmt.Fprintf(&b, "Below are shopping results as JSON:\n%s\n\n", data)
	b.WriteString("Tasks:\n")
	b.WriteString("1. Detect the tire specs (brand, model and size) the user is looking for.\n")
	fmt.Fprintf(&b, "2. Find the listing sold by %q, if present.\n", e.retailerName)
	fmt.Fprintf(&b, "3. Find the cheapest listing for the same tire from any vendor other than %q.\n", e.retailerName)
	b.WriteString("Answer with JSON only, no prose, using exactly this shape:\n")
	b.WriteString(`{"specs": "string", "retailer": {"found": true, "price": 0, "title": "string"}, "competitor": {"vendor": "string", "price": 0, "title": "string"}}`)
	b.WriteString("\nPrices must be plain numbers without currency symbols.")
	return b.String(), nil
}

func (e *LLMExtractor) Extract(ctx context.Context, query string, offers []shopping.Offer) (*model.ExtractedOffers, error) {
	prompt, err := e.buildPrompt(query, offers)
	if err != nil {
		return nil, err
	}

	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	return parseExtraction(text)
}

// llmAnswer mirrors model.ExtractedOffers but tolerates prices sent as strings.
type llmAnswer struct {
	Specs    string `json:"specs"`
	Retailer struct {
		Found bool       `json:"found"`
		Price flexNumber `json:"price"`
		Title string     `json:"title"`
	} `json:"retailer"`
	Competitor struct {
		Vendor string     `json:"vendor"`
		Price  flexNumber `json:"price"`
		Title  string     `json:"title"`
	} `json:"competitor"`
}

type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*n = 0
			return nil
		}
		v, ok := spreadsheet.ParseNumber(s)
		if !ok {
			return fmt.Errorf("invalid price %q", s)
		}
		*n = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexNumber(v)
	return nil
}

// stripFences removes markdown code fences and anything around the JSON object.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return text
}

func parseExtraction(text string) (*model.ExtractedOffers, error) {
	var ans llmAnswer
	if err := json.Unmarshal([]byte(stripFences(text)), &ans); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if ans.Competitor.Price <= 0 {
		return nil, fmt.Errorf("%w: competitor price missing", ErrExtraction)
	}

	out := &model.ExtractedOffers{
		Specs: ans.Specs,
		Retailer: model.RetailerOffer{
			Found: ans.Retailer.Found,
			Price: float64(ans.Retailer.Price),
			Title: ans.Retailer.Title,
		},
		Competitor: model.CompetitorOffer{
			Vendor: ans.Competitor.Vendor,
			Price:  float64(ans.Competitor.Price),
			Title:  ans.Competitor.Title,
		},
	}
	if out.Retailer.Price <= 0 {
		out.Retailer.Found = false
		out.Retailer.Price = 0
	}
	return out, nil
}

// CheapestOfferExtractor is the deterministic fallback used without an LLM:
// offers whose source names the retailer are the retailer's, the cheapest
// of the rest is the competitor.
type CheapestOfferExtractor struct {
	retailerName string
}

func NewCheapestOfferExtractor(retailerName string) *CheapestOfferExtractor {
	return &CheapestOfferExtractor{retailerName: retailerName}
}

func (e *CheapestOfferExtractor) Mode() string { return ModeHeuristic }

var tireSizePattern = regexp.MustCompile(`(?i)\b\d{3}\s*/\s*\d{2}\s*Z?R\s*\d{2}(\.\d)?\b`)

func (e *CheapestOfferExtractor) isRetailer(o shopping.Offer) bool {
	name := strings.ToLower(strings.TrimSpace(e.retailerName))
	return name != "" && strings.Contains(strings.ToLower(o.Source), name)
}

func (e *CheapestOfferExtractor) Extract(_ context.Context, query string, offers []shopping.Offer) (*model.ExtractedOffers, error) {
	out := &model.ExtractedOffers{Specs: detectSpecs(query, offers)}

	found := false
	for _, o := range offers {
		price, ok := spreadsheet.ParseNumber(o.Price)
		if !ok || price <= 0 {
			continue
		}

		if e.isRetailer(o) {
			if !out.Retailer.Found || price < out.Retailer.Price {
				out.Retailer = model.RetailerOffer{Found: true, Price: price, Title: o.Title}
			}
			continue
		}

		if !found || price < out.Competitor.Price {
			out.Competitor = model.CompetitorOffer{Vendor: o.Source, Price: price, Title: o.Title}
			found = true
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: no priced competitor offer", ErrExtraction)
	}
	return out, nil
}

func detectSpecs(query string, offers []shopping.Offer) string {
	if m := tireSizePattern.FindString(query); m != "" {
		return query
	}
	for _, o := range offers {
		if m := tireSizePattern.FindString(o.Title); m != "" {
			return strings.TrimSpace(query + " " + m)
		}
	}
	return query
}
