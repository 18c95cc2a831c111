package worker

// notificacao_worker.go
// Processes session events from QueueNotificacoes and delivers them to the
// configured webhook through the circuit breaker. Delivery is at-least-once:
// exhausted jobs land in the DLQ and the retry cron re-queues them later.

import (
	"context"
	"encoding/json"

	"github.com/madecodebrazil/masioticas-sub005/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificacaoWorker delivers caixa events to the notification webhook.
type NotificacaoWorker struct {
	notifier *infra.Notifier
	cb       *infra.CircuitBreaker
	rdb      *redis.Client
}

func NewNotificacaoWorker(notifier *infra.Notifier, cb *infra.CircuitBreaker, rdb *redis.Client) *NotificacaoWorker {
	return &NotificacaoWorker{notifier: notifier, cb: cb, rdb: rdb}
}

// Process delivers a single event:
//  1. Parse EventoCaixaPayload from the job envelope
//  2. POST to the webhook through the circuit breaker, with exponential
//     backoff (max 3 in-process attempts)
//  3. On exhaustion, park the job in the DLQ for the retry cron
func (w *NotificacaoWorker) Process(ctx context.Context, job Job) {
	var payload EventoCaixaPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("notificacao_worker: invalid payload")
		return
	}

	err := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.notifier.PublicarEvento(ctx, payload)
		})
	})
	if err != nil {
		attempts := job.Attempts + 3
		SendToDLQ(ctx, w.rdb, QueueNotificacoes, job.Type, job.Payload, err.Error(), attempts)
		return
	}

	log.Info().
		Str("evento", payload.Evento).
		Str("loja_id", payload.LojaID).
		Str("sessao_id", payload.SessaoID).
		Msg("notificacao_worker: evento entregue")
}
