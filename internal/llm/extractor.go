package llm

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/claimtrackr/internal/cache"
	"github.com/ppiankov/claimtrackr/internal/model"
)

var jsonObjectPattern = regexp.MustCompile(`\{[^}]+\}`)

// BillExtractor reads the disease and total expense out of bill text
type BillExtractor struct {
	provider Provider
	cache    cache.Cache
	model    string
	logger   zerolog.Logger
}

// NewBillExtractor creates an extractor. A nil provider always yields the
// unknown bill; a nil cache disables caching.
func NewBillExtractor(p Provider, c cache.Cache, model string) *BillExtractor {
	if c == nil {
		c = cache.Nop{}
	}
	return &BillExtractor{
		provider: p,
		cache:    c,
		model:    model,
		logger:   log.With().Str("component", "bill_extractor").Logger(),
	}
}

// Extract never fails. Any problem yields model.UnknownBill().
func (e *BillExtractor) Extract(ctx context.Context, text string) model.BillInfo {
	if e.provider == nil || strings.TrimSpace(text) == "" {
		return model.UnknownBill()
	}

	prompt := BuildBillPrompt(text)
	key := cache.Key(cache.BillNamespace, e.provider.Name()+"\x00"+e.model+"\x00"+prompt)

	var cached model.BillInfo
	if cache.GetJSON(e.cache, key, &cached) {
		e.logger.Debug().Str("key", key).Msg("bill cache hit")
		return cached
	}

	resp, err := e.provider.Generate(ctx, Request{
		System:      billSystemPrompt,
		Prompt:      prompt,
		Model:       e.model,
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("bill extraction failed")
		return model.UnknownBill()
	}

	bill, ok := ParseBillResponse(resp.Text)
	if !ok {
		e.logger.Warn().Str("response", truncateRunes(resp.Text, 200)).Msg("no JSON object in bill extraction response")
		return model.UnknownBill()
	}

	if err := cache.SetJSON(e.cache, key, bill, 0); err != nil {
		e.logger.Debug().Err(err).Msg("bill cache write failed")
	}
	return bill
}

// ParseBillResponse decodes the first JSON object in a model answer. The
// expense is cleaned of separators and currency and truncated to whole units.
func ParseBillResponse(text string) (model.BillInfo, bool) {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return model.BillInfo{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return model.BillInfo{}, false
	}

	var bill model.BillInfo
	if disease, ok := raw["disease"].(string); ok {
		bill.Diagnosis = disease
	}
	bill.Expense = cleanExpense(raw["expense"])
	return bill, true
}

func cleanExpense(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		cleaned := strings.TrimSpace(strings.NewReplacer(",", "", "₹", "").Replace(x))
		parsed, ok := model.ParseAmount(cleaned)
		if !ok {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	f = math.Trunc(f)
	return &f
}
