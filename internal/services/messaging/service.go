package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/models"
)

// Service carries zone batches in and alerts and instructions out over NATS.
// Payloads are JSON.
type Service struct {
	conn *nats.Conn
	cfg  *config.Config
}

func NewService(cfg *config.Config) (*Service, error) {
	opts := []nats.Option{
		nats.Name("crowdwatch-" + cfg.WorkerID),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DrainTimeout(cfg.NatsDrainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NatsURL, err)
	}

	log.Info().Str("url", cfg.NatsURL).Msg("NATS connection established")

	return &Service{
		conn: conn,
		cfg:  cfg,
	}, nil
}

func (s *Service) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.conn.Publish(subject, payload)
}

func (s *Service) Subscribe(subject string, handler func([]byte)) (*nats.Subscription, error) {
	return s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

func (s *Service) QueueSubscribe(subject, queue string, handler func([]byte)) (*nats.Subscription, error) {
	return s.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// SubscribeZoneBatches delivers decoded batches from the zones subject. With a queue group
// configured, each batch reaches only one worker of the group. Undecodable messages are
// logged and dropped.
func (s *Service) SubscribeZoneBatches(handler func(models.ZoneBatch)) (*nats.Subscription, error) {
	deliver := func(data []byte) {
		batch, err := DecodeZoneBatch(data)
		if err != nil {
			log.Warn().
				Err(err).
				Str("subject", s.cfg.ZonesSubject).
				Int("bytes", len(data)).
				Msg("Dropping malformed zone batch")
			return
		}
		handler(batch)
	}

	if s.cfg.ZonesQueue != "" {
		return s.QueueSubscribe(s.cfg.ZonesSubject, s.cfg.ZonesQueue, deliver)
	}
	return s.Subscribe(s.cfg.ZonesSubject, deliver)
}

// DecodeZoneBatch parses a JSON zone batch. A missing zones array is an error;
// an empty one is not.
func DecodeZoneBatch(data []byte) (models.ZoneBatch, error) {
	var raw struct {
		Tick  int64                 `json:"tick"`
		Zones *[]models.ZoneMetrics `json:"zones"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.ZoneBatch{}, fmt.Errorf("invalid zone batch: %w", err)
	}
	if raw.Zones == nil {
		return models.ZoneBatch{}, fmt.Errorf("invalid zone batch: missing zones")
	}
	return models.ZoneBatch{Tick: raw.Tick, Zones: *raw.Zones}, nil
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn != nil {
		// Try graceful drain with timeout, fallback to immediate close
		if err := s.conn.Drain(); err != nil {
			log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
			s.conn.Close()
		}
	}
	return nil
}
