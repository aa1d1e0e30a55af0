package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-softphone-service/internal/observability/metrics"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher, başarılı provizyon değişikliklerini NATS'a yayınlar. Yayın hataları
// sadece loglanır; çağıranın işlemi etkilenmez.
type Publisher struct {
	conn Conn
	log  zerolog.Logger
}

func NewPublisher(conn Conn, log zerolog.Logger) *Publisher {
	return &Publisher{conn: conn, log: log}
}

// Connect dials NATS. An empty url returns a nil connection and no error.
func Connect(url, name string, log zerolog.Logger) (*nats.Conn, error) {
	if url == "" {
		log.Info().Msg("NATS_URL tanımlı değil, provizyon olayları yayınlanmayacak")
		return nil, nil
	}
	return nats.Connect(url,
		nats.Name(name),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS bağlantısı koptu")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS'a yeniden bağlanıldı")
		}),
	)
}

type message struct {
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func (p *Publisher) Publish(_ context.Context, subject string, payload any) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(message{Subject: subject, Timestamp: time.Now().UTC(), Data: payload})
	if err != nil {
		metrics.ObserveEvent(subject, "error")
		p.log.Error().Err(err).Str("subject", subject).Msg("Olay serileştirilemedi")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		metrics.ObserveEvent(subject, "error")
		p.log.Warn().Err(err).Str("subject", subject).Msg("Olay yayınlanamadı")
		return
	}
	metrics.ObserveEvent(subject, "ok")
}
