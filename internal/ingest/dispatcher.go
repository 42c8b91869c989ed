package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// RecordsSubject carries normalized postings from the fetch side to the
// dedup gate.
const RecordsSubject = "jobs.external"

// Outcome is the dedup gate's reply for one dispatched record.
type Outcome struct {
	Status   string `json:"status"`
	RecordID string `json:"record_id"`
	Message  string `json:"message,omitempty"`
}

const (
	OutcomeInserted  = "inserted"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Dispatcher hands records to the dedup gate and reports the outcome, so the
// scheduler can tally new vs duplicate postings for the sync log.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec *models.ExternalJobRecord) (*Outcome, error)
	Close()
}

type natsDispatcher struct {
	conn    *nats.Conn
	timeout time.Duration
	logger  *zap.Logger
}

func NewDispatcher(natsURL string, connTimeout, requestTimeout time.Duration, logger *zap.Logger) (Dispatcher, error) {
	opts := []nats.Option{
		nats.Timeout(connTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.Name("talenthub-ingest"),
	}

	conn, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return &natsDispatcher{
		conn:    conn,
		timeout: requestTimeout,
		logger:  logger,
	}, nil
}

func (d *natsDispatcher) Dispatch(ctx context.Context, rec *models.ExternalJobRecord) (*Outcome, error) {
	_, span := tracer.Start(ctx, "Dispatcher.Dispatch")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("marshaling job record", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	msg, err := d.conn.RequestWithContext(reqCtx, RecordsSubject, data)
	if err != nil {
		span.RecordError(err)
		d.logger.Error("dispatch failed",
			zap.String("record_id", rec.ID),
			zap.Error(err))
		return nil, errors.Unavailable("dispatching to dedup gate", err)
	}

	var outcome Outcome
	if err := json.Unmarshal(msg.Data, &outcome); err != nil {
		span.RecordError(err)
		return nil, errors.Internal("decoding dispatch outcome", err)
	}

	d.logger.Debug("dispatched job record",
		zap.String("record_id", rec.ID),
		zap.String("outcome", outcome.Status))
	return &outcome, nil
}

func (d *natsDispatcher) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
}
