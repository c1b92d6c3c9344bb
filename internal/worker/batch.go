package worker

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimtrackr/internal/model"
	"github.com/ppiankov/claimtrackr/internal/pipeline"
)

// Evaluator turns a submission into a decision
type Evaluator interface {
	Process(ctx context.Context, sub pipeline.Submission) (*model.Decision, error)
}

// EvaluationJob evaluates one submission
type EvaluationJob struct {
	Index      int
	Submission pipeline.Submission
	Evaluator  Evaluator
}

// Execute runs the evaluation
func (j *EvaluationJob) Execute(ctx context.Context) Result {
	decision, err := j.Evaluator.Process(ctx, j.Submission)
	return &EvaluationResult{
		Index:      j.Index,
		Submission: j.Submission,
		Decision:   decision,
		Error:      err,
	}
}

// EvaluationResult is the outcome of one batch entry
type EvaluationResult struct {
	Index      int
	Submission pipeline.Submission
	Decision   *model.Decision
	Error      error
}

// GetError returns the evaluation error
func (r *EvaluationResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many submissions concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(evaluator Evaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessSubmissions evaluates subs and returns results in input order.
// Entries cancelled before they ran carry the context error.
func (b *BatchProcessor) ProcessSubmissions(ctx context.Context, subs []pipeline.Submission) []*EvaluationResult {
	if len(subs) == 0 {
		return []*EvaluationResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, sub := range subs {
		pool.Submit(&EvaluationJob{Index: i, Submission: sub, Evaluator: b.evaluator})
	}

	results := pool.Wait()

	out := make([]*EvaluationResult, len(subs))
	for i := range subs {
		if i < len(results) {
			if r, ok := results[i].(*EvaluationResult); ok && r != nil {
				out[i] = r
				continue
			}
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &EvaluationResult{Index: i, Submission: subs[i], Error: err}
	}
	return out
}

// ProcessFile reads submissions from filePath and evaluates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EvaluationResult, error) {
	subs, err := ReadSubmissionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	return b.ProcessSubmissions(ctx, subs), nil
}

// ReadSubmissionsFromFile accepts a JSON array, JSON Lines (blank lines and
// '#' comments skipped) or a YAML list, chosen by extension and content
func ReadSubmissionsFromFile(filePath string) ([]pipeline.Submission, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var subs []pipeline.Submission

	switch ext := strings.ToLower(filepath.Ext(filePath)); {
	case ext == ".yaml" || ext == ".yml":
		if err := yaml.Unmarshal(data, &subs); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}

	case bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")):
		if err := json.Unmarshal(data, &subs); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}

	default:
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var sub pipeline.Submission
			if err := json.Unmarshal([]byte(line), &sub); err != nil {
				return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
			}
			subs = append(subs, sub)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
	}

	if subs == nil {
		subs = []pipeline.Submission{}
	}
	return subs, nil
}
