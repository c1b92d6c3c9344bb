package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/claimtrackr/internal/corpus"
	"github.com/ppiankov/claimtrackr/internal/model"
	"github.com/ppiankov/claimtrackr/internal/pipeline"
)

// MockEvaluator implements Evaluator
type MockEvaluator struct {
	ShouldError bool

	mu    sync.Mutex
	names []string
}

func (m *MockEvaluator) Process(ctx context.Context, sub pipeline.Submission) (*model.Decision, error) {
	time.Sleep(5 * time.Millisecond)

	m.mu.Lock()
	m.names = append(m.names, sub.Name)
	m.mu.Unlock()

	if m.ShouldError {
		return nil, errors.New("evaluation error")
	}
	return &model.Decision{Claim: model.Claim{PatientName: sub.Name}}, nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessSubmissions(t *testing.T) {
	evaluator := &MockEvaluator{}
	processor := NewBatchProcessor(evaluator, 2)

	subs := []pipeline.Submission{{Name: "Alice"}, {Name: "Bob"}, {Name: "Chen"}}
	results := processor.ProcessSubmissions(context.Background(), subs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", subs[i].Name, res.Error)
		}
		if res.Index != i || res.Decision.Claim.PatientName != subs[i].Name {
			t.Errorf("result %d out of order: %+v", i, res)
		}
	}
}

func TestBatchProcessor_ProcessSubmissions_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockEvaluator{ShouldError: true}, 2)

	results := processor.ProcessSubmissions(context.Background(), []pipeline.Submission{{Name: "Alice"}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Decision != nil {
		t.Error("expected nil decision on error")
	}
}

func TestBatchProcessor_ProcessSubmissions_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockEvaluator{}, 2)
	if results := processor.ProcessSubmissions(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchProcessor(&MockEvaluator{}, 1).ProcessSubmissions(ctx, []pipeline.Submission{{Name: "A"}, {Name: "B"}})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Decision == nil && !errors.Is(r.Error, context.Canceled) {
			t.Errorf("expected cancellation error, got %v", r.Error)
		}
	}
}

func TestReadSubmissionsFromFile_JSONLines(t *testing.T) {
	path := writeTemp(t, "claims.jsonl", `{"name": "Alice", "claim_type": "hospitalization", "total_claim_amount": "1000"}
# comment

{"name": "Bob", "bill_text": "Consultation"}
`)

	subs, err := ReadSubmissionsFromFile(path)
	if err != nil {
		t.Fatalf("ReadSubmissionsFromFile failed: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].TotalClaimAmount != "1000" || subs[1].BillText != "Consultation" {
		t.Errorf("unexpected submissions %+v", subs)
	}
}

func TestReadSubmissionsFromFile_JSONArray(t *testing.T) {
	path := writeTemp(t, "claims.json", `  [{"name": "Alice"}, {"name": "Bob"}]`)

	subs, err := ReadSubmissionsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 || subs[1].Name != "Bob" {
		t.Errorf("unexpected submissions %+v", subs)
	}
}

func TestReadSubmissionsFromFile_YAML(t *testing.T) {
	path := writeTemp(t, "claims.yaml", `- name: Alice
  claim_type: outpatient
  claim_reason: fever
  total_claim_amount: "450"
  bill_text: |
    Viral fever consultation
    Total 450
`)

	subs, err := ReadSubmissionsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].ClaimReason != "fever" || subs[0].TotalClaimAmount != "450" {
		t.Errorf("unexpected submissions %+v", subs)
	}
}

func TestReadSubmissionsFromFile_Errors(t *testing.T) {
	if _, err := ReadSubmissionsFromFile("no_such_file.jsonl"); err == nil {
		t.Error("expected error for non-existent file")
	}

	bad := writeTemp(t, "bad.jsonl", "{\"name\": \"Alice\"}\nnot json\n")
	if _, err := ReadSubmissionsFromFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestReadSubmissionsFromFile_Empty(t *testing.T) {
	subs, err := ReadSubmissionsFromFile(writeTemp(t, "empty.jsonl", ""))
	if err != nil {
		t.Fatal(err)
	}
	if subs == nil || len(subs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", subs)
	}
}

func TestBatchProcessor_ProcessFile_WithPipeline(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	history := corpus.NewInMemory()
	p, err := pipeline.NewWithProvider(cfg, history, nil)
	if err != nil {
		t.Fatal(err)
	}

	path := writeTemp(t, "claims.jsonl", `{"name": "Alice", "claim_type": "outpatient", "claim_reason": "fever", "total_claim_amount": "300", "bill_text": "fever"}
{"name": "Bob", "claim_type": "outpatient", "claim_reason": "cough", "total_claim_amount": "200", "bill_text": "cough"}
{"name": "Incomplete"}
`)

	results, err := NewBatchProcessor(p, 3).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != nil || results[1].Error != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Error, results[1].Error)
	}
	if !errors.Is(results[2].Error, pipeline.ErrMissingFields) {
		t.Errorf("expected missing fields error, got %v", results[2].Error)
	}

	claims, _ := history.Snapshot(context.Background())
	if len(claims) != 2 {
		t.Errorf("expected 2 recorded claims, got %d", len(claims))
	}
}
