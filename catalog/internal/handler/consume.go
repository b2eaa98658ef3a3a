package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type releaseHold func(ctx context.Context, msg kafka.HoldRelease) error

// Consumer replays hold releases published by sagas whose compensation could not reach the
// catalog in time.
type Consumer struct {
	releaseHoldHandler releaseHold
	log                *zap.Logger
	minBackoff         time.Duration
	maxBackoff         time.Duration
}

func NewConsumer(releaseHold releaseHold, log *zap.Logger) *Consumer {
	return &Consumer{
		releaseHoldHandler: releaseHold,
		log:                log.Named("consumer"),
		minBackoff:         100 * time.Millisecond,
		maxBackoff:         10 * time.Second,
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			// the offset only moves past a release that is done with; the claim stops otherwise and
			// the message is delivered again to the next session
			if !consumer.handle(session.Context(), message) {
				return nil
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message is done with: processed, or never processable. Failures
// that may pass are retried with backoff until ctx is done.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	var req kafka.HoldRelease
	if err := json.Unmarshal(message.Value, &req); err != nil {
		consumer.log.Error("bad message", zap.Error(err), zap.ByteString("value", message.Value))
		return true
	}
	backoff := consumer.minBackoff
	for {
		err := consumer.releaseHoldHandler(ctx, req)
		if err == nil {
			consumer.log.Debug("Message claimed:", zap.ByteString("value", message.Value),
				zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			return true
		}
		if !retryable(err) {
			consumer.log.Warn("release dropped", zap.Int64("material_id", req.MaterialID),
				zap.String("hold", req.HoldKey), zap.Error(err))
			return true
		}
		consumer.log.Error("consumer.releaseHoldHandler", zap.Error(err), zap.Duration("retry_in", backoff))
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, consumer.maxBackoff)
	}
}

// retryable is true for failures of the store itself; business answers will not change on retry.
func retryable(err error) bool {
	switch apierr.CodeOf(err) {
	case apierr.CodeInternal, apierr.CodeUpstreamUnavailable:
		return true
	default:
		return false
	}
}
