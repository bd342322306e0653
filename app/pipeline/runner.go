package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diynews/backend/app/database"
	"github.com/diynews/backend/app/enrich"
	"github.com/diynews/backend/app/feed"
)

// ErrAlreadyRunning is returned when a sync is triggered while one is active.
var ErrAlreadyRunning = errors.New("a sync run is already in progress")

// ErrMissingConfig marks a run aborted before any side effect because
// required configuration is absent.
var ErrMissingConfig = errors.New("missing required configuration")

// SubscriptionStore provides the subscribed sources and receives sync-time
// updates for them.
type SubscriptionStore interface {
	List() ([]database.Subscription, error)
	TouchLastSynced(id string) error
}

// PostStore persists collected posts and exposes the known-URL index used
// for deduplication.
type PostStore interface {
	ListKnownURLs() (map[string]struct{}, error)
	Save(post database.Post) error
}

// Enricher annotates one post. Implementations degrade internally and never
// fail the pipeline.
type Enricher interface {
	Analyze(ctx context.Context, title, content, url string) enrich.Annotation
}

// Fetcher collects records for a set of subscriptions.
type Fetcher interface {
	FetchAll(ctx context.Context, subscriptions []feed.Subscription) map[string][]feed.Record
}

// Config carries the knobs a run needs. OpenAIAPIKey is validated at run
// start; the others bound network calls.
type Config struct {
	OpenAIAPIKey string
	CallTimeout  time.Duration
}

// Runner sequences one sync run: validate, fetch, deduplicate, enrich,
// persist. It is a singleton with a run-exclusion guarantee enforced
// through Status.
type Runner struct {
	cfg           Config
	subscriptions SubscriptionStore
	posts         PostStore
	enricher      Enricher
	newFetcher    func(now time.Time) Fetcher
	status        *Status
}

func NewRunner(cfg Config, subscriptions SubscriptionStore, posts PostStore,
	enricher Enricher, newFetcher func(now time.Time) Fetcher, status *Status) *Runner {
	return &Runner{
		cfg:           cfg,
		subscriptions: subscriptions,
		posts:         posts,
		enricher:      enricher,
		newFetcher:    newFetcher,
		status:        status,
	}
}

// Status exposes the run status for the control surface.
func (r *Runner) Status() *Status {
	return r.status
}

// Start launches a run on a background goroutine and returns immediately.
// A second trigger while a run is active is rejected with ErrAlreadyRunning
// and does not disturb the in-flight run.
func (r *Runner) Start() error {
	if !r.status.TryStart() {
		return ErrAlreadyRunning
	}

	go r.run()
	return nil
}

// RunBlocking executes a run synchronously. Used by tests and one-shot
// invocations.
func (r *Runner) RunBlocking() (Result, error) {
	if !r.status.TryStart() {
		return Result{}, ErrAlreadyRunning
	}

	return r.runGuarded(), nil
}

func (r *Runner) run() {
	r.runGuarded()
}

// runGuarded executes the pipeline and guarantees the status returns to
// idle, including when the run panics. The return is named so the recovered
// failure result reaches both the status record and the caller.
func (r *Runner) runGuarded() (result Result) {
	var runErr error

	defer func() {
		if p := recover(); p != nil {
			runErr = fmt.Errorf("unexpected failure: %v", p)
			result = Result{Success: false, Message: runErr.Error()}
			slog.Error("Sync run panicked", "panic", p)
		}
		r.status.Finish(result, runErr)
	}()

	result, runErr = r.execute(context.Background())
	if runErr != nil {
		slog.Error("Sync run failed", "error", runErr)
	}

	return result
}

func (r *Runner) execute(ctx context.Context) (Result, error) {
	started := time.Now()
	slog.Info("Sync run started")

	// Validate before any side effect.
	if r.cfg.OpenAIAPIKey == "" {
		err := fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingConfig)
		return Result{Success: false, Message: err.Error()}, err
	}

	subscriptions, err := r.subscriptions.List()
	if err != nil {
		err = fmt.Errorf("failed to list subscriptions: %w", err)
		return Result{Success: false, Message: err.Error()}, err
	}

	if len(subscriptions) == 0 {
		slog.Info("No subscriptions configured")
		return Result{Success: true, Message: "No subscriptions configured."}, nil
	}

	// Fetch. The cutoff is computed from the invocation instant, once for
	// the whole run.
	fetcher := r.newFetcher(started)
	fetched := fetcher.FetchAll(ctx, toFeedSubscriptions(subscriptions))

	candidates := flatten(subscriptions, fetched)
	if len(candidates) == 0 {
		slog.Info("No recent posts collected")
		r.touchFetched(fetched)
		return Result{Success: true, Message: "No new posts."}, nil
	}

	// Deduplicate against a one-shot snapshot of the stored URLs.
	known, err := r.posts.ListKnownURLs()
	if err != nil {
		err = fmt.Errorf("failed to load known post URLs: %w", err)
		return Result{Success: false, Message: err.Error()}, err
	}

	fresh := feed.ExcludeKnown(candidates, known)
	slog.Info("Deduplication complete", "collected", len(candidates), "new", len(fresh), "duplicates", len(candidates)-len(fresh))

	if len(fresh) == 0 {
		r.touchFetched(fetched)
		return Result{
			Success: true,
			Message: "No new posts to save.",
			Stats:   Stats{Collected: len(candidates)},
		}, nil
	}

	// Enrich every candidate before anything is persisted.
	annotations := make([]enrich.Annotation, len(fresh))
	for i, record := range fresh {
		annotations[i] = r.analyze(ctx, record)
	}

	saved := 0
	schedules := 0
	for i, record := range fresh {
		post := toPost(record, annotations[i])
		if err := r.posts.Save(post); err != nil {
			slog.Warn("Failed to save post", "url", record.URL, "error", err)
			continue
		}
		saved++
		if annotations[i].HasSchedule {
			schedules++
		}
	}

	r.touchFetched(fetched)

	result := Result{
		Success: true,
		Message: "Sync complete.",
		Stats: Stats{
			Collected: len(candidates),
			New:       len(fresh),
			Saved:     saved,
			Schedules: schedules,
		},
	}

	slog.Info("Sync run finished",
		"duration", time.Since(started).Round(time.Millisecond),
		"collected", result.Stats.Collected,
		"new", result.Stats.New,
		"saved", result.Stats.Saved,
		"schedules", result.Stats.Schedules)

	return result, nil
}

func (r *Runner) analyze(ctx context.Context, record feed.Record) enrich.Annotation {
	callCtx := ctx
	if r.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.CallTimeout)
		defer cancel()
	}

	return r.enricher.Analyze(callCtx, record.Title, record.Content, record.URL)
}

// touchFetched updates last_synced_at for every subscription that was
// fetched this run, whether or not it yielded new records.
func (r *Runner) touchFetched(fetched map[string][]feed.Record) {
	for subscriptionID := range fetched {
		if err := r.subscriptions.TouchLastSynced(subscriptionID); err != nil {
			slog.Warn("Failed to update sync time", "subscription_id", subscriptionID, "error", err)
		}
	}
}

// flatten merges the per-subscription results into one candidate list,
// iterating subscriptions in store order so the output is deterministic and
// each subscription's records keep their feed-native order.
func flatten(subscriptions []database.Subscription, fetched map[string][]feed.Record) []feed.Record {
	var candidates []feed.Record
	for _, sub := range subscriptions {
		candidates = append(candidates, fetched[sub.ID]...)
	}
	return candidates
}

func toFeedSubscriptions(subscriptions []database.Subscription) []feed.Subscription {
	out := make([]feed.Subscription, len(subscriptions))
	for i, sub := range subscriptions {
		out[i] = feed.Subscription{
			ID:        sub.ID,
			Name:      sub.Name,
			Platform:  feed.Platform(sub.Platform),
			SourceURL: sub.SourceURL,
			AccountID: sub.AccountID,
			OwnerID:   sub.OwnerID,
		}
	}
	return out
}

func toPost(record feed.Record, annotation enrich.Annotation) database.Post {
	return database.Post{
		SubscriptionID: record.SubscriptionID,
		Platform:       string(record.Platform),
		AuthorName:     record.AuthorName,
		AccountID:      record.AccountID,
		Title:          record.Title,
		URL:            record.URL,
		Content:        record.Content,
		Summary:        annotation.Summary,
		HasSchedule:    annotation.HasSchedule,
		ScheduleDate:   annotation.ScheduleDate,
		ThumbnailURL:   record.ThumbnailURL,
		PublishedAt:    record.PublishedAt,
	}
}
