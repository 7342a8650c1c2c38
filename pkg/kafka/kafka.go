package kafka

import (
	"github.com/IBM/sarama"
)

// ReturnRetryTopic receives loan returns that failed against the lending API
// with 503 and are re-submitted out of band.
const ReturnRetryTopic = "loan-return-retry"

type Config struct {
	Addrs   []string `envconfig:"KAFKA_ADDRS"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
