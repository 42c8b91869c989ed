package ingest

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Subscriber receives dispatched records on the records subject and replies
// with the pipeline's outcome so the fetch side can tally its sync log.
type Subscriber struct {
	logger   *zap.Logger
	nc       *nats.Conn
	pipeline *Pipeline
	sub      *nats.Subscription
}

func NewSubscriber(logger *zap.Logger, nc *nats.Conn, pipeline *Pipeline) *Subscriber {
	return &Subscriber{
		logger:   logger,
		nc:       nc,
		pipeline: pipeline,
	}
}

func (s *Subscriber) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := s.nc.QueueSubscribe(RecordsSubject, "dedup-gate", s.handleRecord)
	if err != nil {
		return err
	}

	s.sub = sub
	s.logger.Info("registered NATS subscriptions", zap.String("subject", RecordsSubject))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.sub.Unsubscribe()
		},
	})

	return nil
}

func (s *Subscriber) handleRecord(msg *nats.Msg) {
	ctx, span := tracer.Start(context.Background(), "Subscriber.handleRecord")
	defer span.End()

	outcome, err := s.pipeline.ProcessRaw(ctx, msg.Data)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to process job record",
			zap.Error(err),
			zap.String("subject", msg.Subject))
		outcome = &Outcome{Status: OutcomeFailed, Message: err.Error()}
	}

	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(outcome)
	if err != nil {
		s.logger.Error("failed to encode outcome", zap.Error(err))
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Warn("failed to reply with outcome", zap.Error(err))
	}
}
