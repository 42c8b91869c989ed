package ingest

import (
	"context"
	"encoding/json"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/dedup"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"go.uber.org/zap"
)

// DuplicateGate is the slice of the dedup detector the pipeline drives.
type DuplicateGate interface {
	FindDuplicate(ctx context.Context, in dedup.FindDuplicateInput) (*dedup.Match, error)
	ResolveKeepNew(ctx context.Context, newSourceID, existingSourceID string) bool
}

// JobWriter is the store surface the pipeline writes through.
type JobWriter interface {
	InsertJob(ctx context.Context, rec *models.ExternalJobRecord) (bool, error)
	MarkDuplicate(ctx context.Context, id string) (bool, error)
}

// Pipeline is the store-side half of ingestion: it runs each incoming record
// through the duplicate gate before insertion and applies the
// pending → duplicate transition to whichever record loses the source
// priority comparison.
type Pipeline struct {
	gate   DuplicateGate
	jobs   JobWriter
	logger *zap.Logger
}

func NewPipeline(gate DuplicateGate, jobs JobWriter, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		gate:   gate,
		jobs:   jobs,
		logger: logger,
	}
}

// ProcessRaw decodes a dispatched record and processes it.
func (p *Pipeline) ProcessRaw(ctx context.Context, data []byte) (*Outcome, error) {
	var rec models.ExternalJobRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.InvalidInput("decoding job record", err)
	}
	return p.Process(ctx, &rec)
}

// Process gates one record. A store failure is returned as an error and the
// record is not inserted — a failed duplicate lookup is never read as
// "unique".
func (p *Pipeline) Process(ctx context.Context, rec *models.ExternalJobRecord) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Process")
	defer span.End()
	span.SetAttributes(
		telemetry.String("record.id", rec.ID),
		telemetry.String("record.source_id", rec.SourceID),
	)

	match, err := p.gate.FindDuplicate(ctx, dedup.FindDuplicateInput{
		Title:           rec.Title,
		CompanyName:     rec.CompanyName,
		City:            rec.LocationCity,
		State:           rec.LocationState,
		ExcludeSourceID: rec.SourceID,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if match == nil {
		return p.insert(ctx, rec)
	}

	if p.gate.ResolveKeepNew(ctx, rec.SourceID, match.ExistingSourceID) {
		// The new source outranks the stored record's source: supersede the
		// stored record and keep the new one. Insert before marking, so a
		// mark failure leaves both records live rather than neither. The
		// failed sync is replayed on the next cycle, where the idempotent
		// insert lands on the skipped path and the mark is retried.
		outcome, err := p.insert(ctx, rec)
		if err != nil {
			return nil, err
		}
		if _, err := p.jobs.MarkDuplicate(ctx, match.ExistingID); err != nil {
			return nil, err
		}
		p.logger.Info("superseded lower-priority record",
			zap.String("new_id", rec.ID),
			zap.String("superseded_id", match.ExistingID),
			zap.Float64("similarity", match.TitleSimilarity))
		return outcome, nil
	}

	// Existing record wins: store the new one, then immediately transition
	// it pending → duplicate through the guarded update.
	inserted, err := p.jobs.InsertJob(ctx, rec)
	if err != nil {
		return nil, err
	}
	if inserted {
		if _, err := p.jobs.MarkDuplicate(ctx, rec.ID); err != nil {
			return nil, err
		}
	}
	p.logger.Info("flagged duplicate record",
		zap.String("record_id", rec.ID),
		zap.String("existing_id", match.ExistingID),
		zap.Float64("similarity", match.TitleSimilarity))
	return &Outcome{Status: OutcomeDuplicate, RecordID: rec.ID}, nil
}

func (p *Pipeline) insert(ctx context.Context, rec *models.ExternalJobRecord) (*Outcome, error) {
	inserted, err := p.jobs.InsertJob(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Same (source_id, external_id) seen before — a replayed fetch, not
		// a cross-source duplicate.
		return &Outcome{Status: OutcomeSkipped, RecordID: rec.ID}, nil
	}
	return &Outcome{Status: OutcomeInserted, RecordID: rec.ID}, nil
}
