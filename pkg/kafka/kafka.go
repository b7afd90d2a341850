package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const (
	CatalogInstancesTopic = "catalog.instances"
)

type Config struct {
	Addrs   []string      `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
	Timeout time.Duration `yaml:"timeout" envconfig:"KAFKA_TIMEOUT" default:"5s"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3
	if cfg.Timeout > 0 {
		defaultCfg.Producer.Timeout = cfg.Timeout
		defaultCfg.Net.DialTimeout = cfg.Timeout
	}

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
