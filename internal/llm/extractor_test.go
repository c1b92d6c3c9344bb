package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimtrackr/internal/cache"
	"github.com/ppiankov/claimtrackr/internal/model"
)

func TestParseBillResponse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		ok      bool
		disease string
		expense *float64
	}{
		{"plain", `{"disease": "dengue", "expense": 4500}`, true, "dengue", ptr(4500)},
		{"surrounded", "Sure! Here it is:\n{\"disease\": \"malaria\", \"expense\": \"₹1,250.75\"}\nThanks", true, "malaria", ptr(1250)},
		{"null expense", `{"disease": "flu", "expense": null}`, true, "flu", nil},
		{"zero expense", `{"disease": "flu", "expense": 0}`, true, "flu", ptr(0)},
		{"garbage expense", `{"disease": "flu", "expense": "a lot"}`, true, "flu", nil},
		{"huge exponent expense", `{"disease": "flu", "expense": "1e99999999"}`, true, "flu", nil},
		{"missing disease", `{"expense": 10}`, true, "", ptr(10)},
		{"no object", "I could not read the bill", false, "", nil},
		{"invalid json", `{disease: flu}`, false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, ok := ParseBillResponse(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if bill.Diagnosis != tt.disease {
				t.Errorf("disease = %q, want %q", bill.Diagnosis, tt.disease)
			}
			switch {
			case tt.expense == nil && bill.Expense != nil:
				t.Errorf("expense = %v, want nil", *bill.Expense)
			case tt.expense != nil && (bill.Expense == nil || *bill.Expense != *tt.expense):
				t.Errorf("expense = %v, want %v", bill.Expense, *tt.expense)
			}
		})
	}
}

func TestBillExtractor_FallsBackToUnknown(t *testing.T) {
	ctx := context.Background()

	disabled := NewBillExtractor(nil, nil, "")
	if got := disabled.Extract(ctx, "bill"); got.Diagnosis != model.UnknownDiagnosis || got.Expense != nil {
		t.Errorf("expected unknown bill when disabled, got %+v", got)
	}

	failing := NewBillExtractor(&MockProvider{errs: []error{errors.New("down")}}, nil, "m")
	if got := failing.Extract(ctx, "bill"); got.Diagnosis != model.UnknownDiagnosis {
		t.Errorf("expected unknown bill on provider error, got %+v", got)
	}

	rambling := NewBillExtractor(&MockProvider{responses: []string{"no idea"}}, nil, "m")
	if got := rambling.Extract(ctx, "bill"); got.Diagnosis != model.UnknownDiagnosis {
		t.Errorf("expected unknown bill on unparsable answer, got %+v", got)
	}

	mock := &MockProvider{responses: []string{`{"disease": "x"}`}}
	if got := NewBillExtractor(mock, nil, "m").Extract(ctx, "   "); got.Diagnosis != model.UnknownDiagnosis {
		t.Errorf("expected unknown bill for blank text, got %+v", got)
	}
	if mock.calls() != 0 {
		t.Error("expected no provider call for blank text")
	}
}

func TestBillExtractor_CachesResults(t *testing.T) {
	mock := &MockProvider{responses: []string{`{"disease": "typhoid", "expense": 3000}`}}
	c := cache.NewMemoryCache(time.Hour, time.Minute)
	extractor := NewBillExtractor(mock, c, "llama3.2")

	first := extractor.Extract(context.Background(), "Typhoid treatment, total 3000")
	second := extractor.Extract(context.Background(), "Typhoid treatment, total 3000")

	if first.Diagnosis != "typhoid" || second.Diagnosis != "typhoid" {
		t.Fatalf("unexpected bills %+v %+v", first, second)
	}
	if mock.calls() != 1 {
		t.Errorf("expected one provider call, got %d", mock.calls())
	}

	req := mock.requests[0]
	if req.Model != "llama3.2" || req.Temperature != 0.1 {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestBillExtractor_DoesNotCacheFailures(t *testing.T) {
	mock := &MockProvider{
		responses: []string{"", `{"disease": "asthma"}`},
		errs:      []error{errors.New("timeout")},
	}
	extractor := NewBillExtractor(mock, cache.NewMemoryCache(time.Hour, time.Minute), "m")

	_ = extractor.Extract(context.Background(), "bill")
	got := extractor.Extract(context.Background(), "bill")

	if got.Diagnosis != "asthma" {
		t.Errorf("expected retry after a failure, got %+v", got)
	}
}

func TestBuildBillPrompt_Truncates(t *testing.T) {
	prompt := BuildBillPrompt(strings.Repeat("₹", 5000))
	if n := strings.Count(prompt, "₹"); n != billPromptLimit {
		t.Errorf("expected bill truncated to %d runes, got %d", billPromptLimit, n)
	}
	if !strings.Contains(prompt, `{"disease": "name", "expense": number}`) {
		t.Error("expected JSON shape in prompt")
	}
}

func ptr(v float64) *float64 {
	return &v
}
