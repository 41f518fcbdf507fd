// Package ingest runs background classification of newly saved items.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/dolater/internal/classify"
	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/storage"
)

// ClassifyJobType is the job type handled by Worker.
const ClassifyJobType = "classify_item"

// JobStore abstracts the job queue and item access the worker needs.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	GetItem(id string) (content.Item, error)
	UpdateClassification(id string, r classify.Result) error
}

// Analyzer classifies an item's text, fetching its page when needed.
type Analyzer interface {
	Analyze(ctx context.Context, title, body, url string) classify.Result
}

type classifyPayload struct {
	ItemID       string `json:"item_id"`
	KeepCategory bool   `json:"keep_category,omitempty"`
}

// NewClassifyJob builds a queue entry for itemID. With keepCategory set the
// category chosen by the user survives classification.
func NewClassifyJob(itemID string, keepCategory bool) storage.Job {
	payload, _ := json.Marshal(classifyPayload{ItemID: itemID, KeepCategory: keepCategory})
	return storage.Job{
		ID:          uuid.New().String(),
		Type:        ClassifyJobType,
		PayloadJSON: string(payload),
	}
}

// Worker processes classify_item jobs from the SQLite job queue.
type Worker struct {
	store    JobStore
	analyzer Analyzer
	poll     time.Duration
	logger   *slog.Logger

	onClassified func(itemID string)
}

// NewWorker creates a Worker. If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store JobStore, analyzer Analyzer, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:    store,
		analyzer: analyzer,
		poll:     pollInterval,
		logger:   slog.Default(),
	}
}

// OnClassified registers fn to be called after an item's classification is
// stored. Must be set before Run.
func (w *Worker) OnClassified(fn func(itemID string)) {
	w.onClassified = fn
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single job. It reports whether a job was
// claimed, regardless of whether processing succeeded.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{ClassifyJobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.process(ctx, job); err != nil {
		w.logger.Warn("classification job failed", "job_id", job.ID, "attempt", job.Attempts+1, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

func (w *Worker) process(ctx context.Context, job *storage.Job) error {
	var payload classifyPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	item, err := w.store.GetItem(payload.ItemID)
	if err != nil {
		return fmt.Errorf("loading item %s: %w", payload.ItemID, err)
	}

	body := item.Summary
	if body == "" {
		body = item.UserNotes
	}
	r := w.analyzer.Analyze(ctx, item.Title, body, item.URL)
	if payload.KeepCategory {
		r.Category = item.Category
	}

	if err := w.store.UpdateClassification(item.ID, r); err != nil {
		return fmt.Errorf("storing classification: %w", err)
	}
	w.logger.Debug("item classified", "item_id", item.ID, "category", r.Category, "tags", len(r.Tags))
	if w.onClassified != nil {
		w.onClassified(item.ID)
	}
	return nil
}
