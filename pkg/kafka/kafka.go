package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	HoldReleaseTopic = "catalog.holds.release"

	CatalogConsumerGroup = "catalog"
)

type Config struct {
	// Addrs is empty when the broker is not deployed; publishing and consuming are then disabled.
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

// HoldRelease asks the catalog to give back the copy held under HoldKey.
type HoldRelease struct {
	MaterialID int64  `json:"materialId"`
	HoldKey    string `json:"holdKey"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 5

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume keeps the group session alive across rebalances until ctx is done.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) error {
	defer func() {
		if err := group.Close(); err != nil {
			log.Warn("consumer group close", zap.Error(err))
		}
	}()
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Error("consumer group", zap.Error(err))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

type Enqueuer interface {
	Enqueue(topic string, v any) error
}

func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	if producer == nil {
		return disabled{}
	}
	return &enqueuerImpl{producer: producer}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.ByteEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return errors.Wrap(err, "producer.SendMessage")
	}
	return nil
}

var ErrDisabled = errors.New("kafka is not configured")

type disabled struct{}

func (disabled) Enqueue(string, any) error {
	return ErrDisabled
}
