package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Vinith-15116/studio1/internal/infrastructure/config"
	"github.com/Vinith-15116/studio1/internal/infrastructure/kafka"
	"github.com/Vinith-15116/studio1/pkg/events"
	pkgkafka "github.com/Vinith-15116/studio1/pkg/kafka"
)

func (c *cli) newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect triage events published by pulsed",
	}

	var (
		brokers   []string
		topic     string
		group     string
		eventType string
	)

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print triage events as they are published, one JSON object per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("brokers") {
				cfg.Kafka.Brokers = brokers
			}
			if flags.Changed("topic") {
				cfg.Kafka.Topic = topic
			}
			if flags.Changed("group") {
				cfg.Kafka.ConsumerGroup = group
			}
			if !cfg.EventsEnabled() {
				return errors.New("no brokers configured: set KAFKA_BROKERS or --brokers")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := pkgkafka.NewConsumer(kafka.ClientConfig(cfg.Kafka), cfg.Kafka.Topic, c.eventPrinter(eventType), c.logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			return consumer.Start(ctx)
		},
	}
	tail.Flags().StringSliceVar(&brokers, "brokers", nil, "broker addresses (default from KAFKA_BROKERS)")
	tail.Flags().StringVar(&topic, "topic", "", "topic (default from KAFKA_TOPIC)")
	tail.Flags().StringVar(&group, "group", "", "consumer group; without one, reading starts at the newest offset")
	tail.Flags().StringVar(&eventType, "type", "", "only print events of this type")

	cmd.AddCommand(tail)
	return cmd
}

// eventPrinter decodes envelopes and prints those matching eventType, or all
// of them when eventType is empty.
func (c *cli) eventPrinter(eventType string) pkgkafka.Handler {
	return func(_ context.Context, msg pkgkafka.Message) error {
		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			return fmt.Errorf("decode event envelope: %w", err)
		}
		if eventType != "" && env.EventType != eventType {
			return nil
		}
		line, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		_, err = fmt.Fprintln(c.out, string(line))
		return err
	}
}
