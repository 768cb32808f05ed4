package kafka

import (
	"github.com/Vinith-15116/studio1/internal/infrastructure/config"
	pkgkafka "github.com/Vinith-15116/studio1/pkg/kafka"
)

// ClientConfig translates service configuration into broker connection
// parameters.
func ClientConfig(cfg config.KafkaConfig) pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       cfg.Brokers,
		ConsumerGroup: cfg.ConsumerGroup,
		TLS:           cfg.TLS,
		SASLEnabled:   cfg.SASLMechanism != "",
		SASLMechanism: cfg.SASLMechanism,
		SASLUsername:  cfg.SASLUsername,
		SASLPassword:  cfg.SASLPassword,
	}
}
