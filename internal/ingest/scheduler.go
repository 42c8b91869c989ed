package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SourceLister is the store surface the scheduler reads sources from.
type SourceLister interface {
	ListActiveSources(ctx context.Context) ([]models.JobSource, error)
	TouchLastSynced(ctx context.Context, id string) error
}

// SyncRecorder appends one sync log row per source per run.
type SyncRecorder interface {
	Record(ctx context.Context, e models.SyncLogEntry) error
}

// Scheduler runs a periodic sync: for every active source with a matching
// fetcher it fetches postings, dispatches each to the dedup gate, and records
// a sync log with the tallied outcome.
type Scheduler struct {
	cron       *cron.Cron
	sources    SourceLister
	syncs      SyncRecorder
	dispatcher Dispatcher
	fetchers   []Fetcher
	query      Query
	workers    int
	spec       string
	logger     *zap.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	started bool
}

func NewScheduler(sources SourceLister, syncs SyncRecorder, dispatcher Dispatcher, fetchers []Fetcher, query Query, intervalHours, workers int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		sources:    sources,
		syncs:      syncs,
		dispatcher: dispatcher,
		fetchers:   fetchers,
		query:      query,
		workers:    workers,
		spec:       fmt.Sprintf("@every %dh", intervalHours),
		logger:     logger,
	}
}

// Start registers the cron entry and runs one sync immediately so fresh
// deployments do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, func() {
		s.RunSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.entryID = id
	s.started = true

	s.cron.Start()
	s.logger.Info("sync scheduler started", zap.String("spec", s.spec))

	go s.RunSync(ctx)
	return nil
}

// Stop shuts the scheduler down, waiting for a running sync to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	s.logger.Info("sync scheduler stopped")
}

// RunSync executes one sync cycle over all active sources, fanning the
// per-source work out to a bounded pool.
func (s *Scheduler) RunSync(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Scheduler.RunSync")
	defer span.End()

	sources, err := s.sources.ListActiveSources(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("listing active sources failed", zap.Error(err))
		return
	}
	span.SetAttributes(telemetry.Int("sources.count", len(sources)))

	if len(sources) == 0 {
		s.logger.Info("no active sources, nothing to sync")
		return
	}

	sourceChan := make(chan models.JobSource)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range sourceChan {
				s.syncSource(ctx, src)
			}
		}()
	}

	for _, src := range sources {
		sourceChan <- src
	}
	close(sourceChan)
	wg.Wait()

	s.logger.Info("sync cycle complete", zap.Int("sources", len(sources)))
}

// fetcherFor matches a source to the fetcher feeding it, by name heuristics
// mirroring the source priority table.
func (s *Scheduler) fetcherFor(src models.JobSource) Fetcher {
	name := strings.ToLower(src.Name)
	for _, f := range s.fetchers {
		if name == f.Name() {
			return f
		}
	}
	for _, f := range s.fetchers {
		vendor := strings.TrimSuffix(f.Name(), "_api")
		if strings.Contains(name, vendor) {
			return f
		}
	}
	return nil
}

func (s *Scheduler) syncSource(ctx context.Context, src models.JobSource) {
	ctx, span := tracer.Start(ctx, "Scheduler.syncSource")
	defer span.End()
	span.SetAttributes(telemetry.String("source.name", src.Name))

	fetcher := s.fetcherFor(src)
	if fetcher == nil {
		s.logger.Debug("no fetcher for source, skipping",
			zap.String("source_name", src.Name))
		return
	}

	started := time.Now().UTC()
	entry := models.SyncLogEntry{
		SourceID:  src.ID,
		StartedAt: started,
		Status:    models.SyncSuccess,
	}

	records, err := fetcher.Fetch(ctx, s.query)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("fetch failed",
			zap.String("source_name", src.Name),
			zap.Error(err))
		entry.Status = models.SyncFailed
		entry.ErrorMessage = err.Error()
	}

	for i := range records {
		rec := &records[i]
		rec.SourceID = src.ID
		entry.JobsFound++

		outcome, err := s.dispatcher.Dispatch(ctx, rec)
		if err != nil {
			s.logger.Error("dispatch failed",
				zap.String("record_id", rec.ID),
				zap.Error(err))
			entry.Status = models.SyncFailed
			entry.ErrorMessage = err.Error()
			continue
		}

		switch outcome.Status {
		case OutcomeInserted:
			entry.JobsNew++
		case OutcomeDuplicate:
			entry.JobsDuplicates++
		case OutcomeFailed:
			entry.Status = models.SyncFailed
			entry.ErrorMessage = outcome.Message
		}
	}

	entry.CompletedAt = time.Now().UTC()
	if err := s.syncs.Record(ctx, entry); err != nil {
		s.logger.Error("recording sync log failed",
			zap.String("source_id", src.ID),
			zap.Error(err))
	}
	if err := s.sources.TouchLastSynced(ctx, src.ID); err != nil {
		s.logger.Error("updating last_synced_at failed",
			zap.String("source_id", src.ID),
			zap.Error(err))
	}

	s.logger.Info("source sync finished",
		zap.String("source_name", src.Name),
		zap.String("status", string(entry.Status)),
		zap.Int("jobs_found", entry.JobsFound),
		zap.Int("jobs_new", entry.JobsNew),
		zap.Int("jobs_duplicates", entry.JobsDuplicates))
}
