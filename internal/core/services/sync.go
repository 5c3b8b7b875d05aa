package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
	"github.com/custodia-labs/askwork/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// Sync window defaults.
const (
	defaultCalendarLookback  = 7 * 24 * time.Hour
	defaultCalendarLookahead = 14 * 24 * time.Hour
	defaultMailLimit         = 25
	maxConcurrentFetches     = 4

	// defaultRunTimeout bounds a shared run, which outlives the caller
	// that started it.
	defaultRunTimeout = 90 * time.Second
)

// SyncSources holds the external collaborators the orchestrator pulls
// from. Any of them may be nil; a nil source is skipped.
type SyncSources struct {
	Issues    driven.IssueTracker
	Calendar  driven.CalendarService
	Mail      driven.MailService
	Knowledge driven.KnowledgeBase
}

// sourceBatch is the outcome of fetching and normalising one source.
type sourceBatch struct {
	source  domain.SyncSource
	docs    []domain.Document
	rejects []error
	err     error
	skipped bool
}

// SyncOrchestrator rebuilds a requester's document partition from
// every configured source.
type SyncOrchestrator struct {
	indexer    *Indexer
	cache      driven.SyncResultCache
	normaliser driven.RecordNormaliser
	classifier *Classifier
	sources    SyncSources

	group      singleflight.Group
	now        func() time.Time
	runTimeout time.Duration

	calendarLookback  time.Duration
	calendarLookahead time.Duration
	mailLimit         int
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	indexer *Indexer,
	cache driven.SyncResultCache,
	normaliser driven.RecordNormaliser,
	classifier *Classifier,
	sources SyncSources,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		indexer:           indexer,
		cache:             cache,
		normaliser:        normaliser,
		classifier:        classifier,
		sources:           sources,
		now:               time.Now,
		runTimeout:        defaultRunTimeout,
		calendarLookback:  defaultCalendarLookback,
		calendarLookahead: defaultCalendarLookahead,
		mailLimit:         defaultMailLimit,
	}
}

// SetClock replaces the time source.
func (o *SyncOrchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// SetRunTimeout bounds each sync run.
func (o *SyncOrchestrator) SetRunTimeout(d time.Duration) {
	if d > 0 {
		o.runTimeout = d
	}
}

// SetCalendarWindow sets how far back and ahead calendar events are fetched.
func (o *SyncOrchestrator) SetCalendarWindow(lookback, lookahead time.Duration) {
	o.calendarLookback = lookback
	o.calendarLookahead = lookahead
}

// SetMailLimit sets how many recent messages are fetched.
func (o *SyncOrchestrator) SetMailLimit(n int) {
	if n > 0 {
		o.mailLimit = n
	}
}

// SyncAll refreshes the requester's partition. A result younger than
// the cache TTL is returned as is, without touching the store or any
// source. Concurrent calls for the same requester share one run, which
// ignores callers' cancellation and is bounded by its own timeout. A
// caller whose ctx ends stops waiting and gets ctx.Err().
func (o *SyncOrchestrator) SyncAll(ctx context.Context, requesterID, externalToken string) (*domain.SyncResult, error) {
	if requesterID == "" {
		return nil, fmt.Errorf("%w: requester id is required", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cached, ok := o.cache.Get(requesterID); ok {
		logger.Debug("Sync for %s served from cache", requesterID)
		return cached, nil
	}

	runCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan(requesterID, func() (any, error) {
		if cached, ok := o.cache.Get(requesterID); ok {
			return cached, nil
		}
		timed, cancel := context.WithTimeout(runCtx, o.runTimeout)
		defer cancel()
		return o.run(timed, requesterID, externalToken)
	})

	select {
	case <-ctx.Done():
		logger.Debug("Sync for %s abandoned by caller: %v", requesterID, ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("Sync for %s joined an in-flight run", requesterID)
		}
		return res.Val.(*domain.SyncResult), nil
	}
}

// Invalidate forgets the requester's cached result.
func (o *SyncOrchestrator) Invalidate(requesterID string) {
	o.cache.Invalidate(requesterID)
}

// InvalidateAll forgets every cached result.
func (o *SyncOrchestrator) InvalidateAll() {
	o.cache.Purge()
}

func (o *SyncOrchestrator) run(ctx context.Context, requesterID, token string) (*domain.SyncResult, error) {
	logger.Section("Sync")
	logger.Info("Starting sync for %s", requesterID)

	if err := o.indexer.Clear(ctx, requesterID); err != nil {
		return nil, err
	}

	now := o.now()
	fetchers := []func(context.Context) sourceBatch{
		func(ctx context.Context) sourceBatch { return o.fetchIssues(ctx, requesterID) },
		func(ctx context.Context) sourceBatch { return o.fetchCalendar(ctx, requesterID, token, now) },
		func(ctx context.Context) sourceBatch { return o.fetchMail(ctx, requesterID, token) },
		func(ctx context.Context) sourceBatch { return o.fetchTeamDirectory(ctx, requesterID) },
		func(ctx context.Context) sourceBatch { return o.fetchCompanyKnowledge(ctx, requesterID) },
		func(context.Context) sourceBatch { return o.dateContext(requesterID, now) },
	}

	// Fetch concurrently; index in source order so the partition
	// order does not depend on which source answered first.
	batches := make([]sourceBatch, len(fetchers))
	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, fetch := range fetchers {
		g.Go(func() error {
			batches[i] = fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.SyncResult{}
	for _, b := range batches {
		if b.skipped {
			logger.Debug("Skipping %s: not configured", b.source)
			continue
		}
		if b.err != nil {
			srcErr := &domain.ExternalSourceError{Source: b.source, Err: b.err}
			logger.Warn("Sync source failed: %v", srcErr)
			result.Errors = append(result.Errors, srcErr.Error())
			continue
		}
		for _, reject := range b.rejects {
			logger.Debug("Rejected record: %v", reject)
			result.Errors = append(result.Errors, reject.Error())
		}

		count, indexErrs := o.indexer.IndexBatch(ctx, requesterID, b.docs)
		for _, err := range indexErrs {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", b.source, err))
		}
		result.Synced = append(result.Synced, domain.SourceCount{Source: b.source, Count: count})
	}
	result.CompletedAt = o.now()

	if err := ctx.Err(); err != nil {
		// Partial run: report it but do not cache it.
		return result, nil
	}
	o.cache.Put(requesterID, result)

	logger.Info("Sync complete for %s: %d documents, %d errors", requesterID, result.Total(), len(result.Errors))
	return result, nil
}

func (o *SyncOrchestrator) fetchIssues(ctx context.Context, ownerID string) sourceBatch {
	batch := sourceBatch{source: domain.SyncSourceIssues}
	if o.sources.Issues == nil {
		batch.skipped = true
		return batch
	}
	records, err := o.sources.Issues.ListIssues(ctx)
	if err != nil {
		batch.err = err
		return batch
	}
	for _, rec := range records {
		batch.add(o.normaliser.Issue(rec, ownerID))
	}
	return batch
}

func (o *SyncOrchestrator) fetchCalendar(ctx context.Context, ownerID, token string, now time.Time) sourceBatch {
	batch := sourceBatch{source: domain.SyncSourceCalendar}
	if o.sources.Calendar == nil || token == "" {
		batch.skipped = true
		return batch
	}
	records, err := o.sources.Calendar.ListEvents(ctx, token, now.Add(-o.calendarLookback), now.Add(o.calendarLookahead))
	if err != nil {
		batch.err = err
		return batch
	}
	for _, rec := range records {
		batch.add(o.normaliser.CalendarEvent(rec, ownerID))
	}
	return batch
}

func (o *SyncOrchestrator) fetchMail(ctx context.Context, ownerID, token string) sourceBatch {
	batch := sourceBatch{source: domain.SyncSourceMail}
	if o.sources.Mail == nil || token == "" {
		batch.skipped = true
		return batch
	}
	records, err := o.sources.Mail.ListMessages(ctx, token, o.mailLimit)
	if err != nil {
		batch.err = err
		return batch
	}
	for i := range records {
		msg := domain.ClassifiedMessage{InboundMessage: records[i].ToInboundMessage()}
		if o.classifier != nil {
			msg = o.classifier.Classify(msg.InboundMessage)
		}
		batch.add(o.normaliser.Mail(msg, ownerID))
	}
	return batch
}

func (o *SyncOrchestrator) fetchTeamDirectory(ctx context.Context, ownerID string) sourceBatch {
	batch := sourceBatch{source: domain.SyncSourceTeamDirectory}
	if o.sources.Knowledge == nil {
		batch.skipped = true
		return batch
	}
	members, err := o.sources.Knowledge.TeamDirectory(ctx)
	if err != nil {
		batch.err = err
		return batch
	}
	for _, m := range members {
		batch.add(o.normaliser.TeamMember(m, ownerID))
	}
	return batch
}

func (o *SyncOrchestrator) fetchCompanyKnowledge(ctx context.Context, ownerID string) sourceBatch {
	batch := sourceBatch{source: domain.SyncSourceCompanyKnowledge}
	if o.sources.Knowledge == nil {
		batch.skipped = true
		return batch
	}
	entries, err := o.sources.Knowledge.CompanyKnowledge(ctx)
	if err != nil {
		batch.err = err
		return batch
	}
	for _, e := range entries {
		batch.add(o.normaliser.Knowledge(e, ownerID))
	}
	return batch
}

func (o *SyncOrchestrator) dateContext(ownerID string, now time.Time) sourceBatch {
	return sourceBatch{
		source: domain.SyncSourceDateContext,
		docs:   []domain.Document{o.normaliser.DateContext(now, ownerID)},
	}
}

// add keeps a normalised document or records why it was rejected.
// Anything other than a normalisation error is also recorded as a
// rejection so one bad record never fails the source.
func (b *sourceBatch) add(doc domain.Document, err error) {
	if err == nil {
		b.docs = append(b.docs, doc)
		return
	}
	var nerr *domain.NormalizationError
	if !errors.As(err, &nerr) {
		err = &domain.NormalizationError{Source: b.source, Reason: err.Error()}
	}
	b.rejects = append(b.rejects, err)
}
