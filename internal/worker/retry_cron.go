package worker

// retry_cron.go
// Background goroutine that periodically drains the notification DLQ back
// into the delivery queue, giving parked events another round of attempts
// once the webhook recovers. Uses the Circuit Breaker state to avoid
// hammering a downed endpoint. Combined with the worker's in-process
// retries this yields at-least-once delivery of session events.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the redelivery goroutine.
type RetryCronConfig struct {
	CB  *infra.CircuitBreaker
	RDB *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-queues DLQ'd notification events while the circuit breaker allows it.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRedeliveries(ctx, cfg)
			}
		}
	}()
}

func processRedeliveries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — the webhook is still down
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueNotificacoes
	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // fila vazia ou redis indisponível
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: entrada de DLQ inválida, descartando")
			continue
		}

		if entry.Attempts >= MaxEntregaTentativas {
			// Esgotou: estaciona para inspeção manual e para de reentregar
			if err := cfg.RDB.LPush(ctx, DLQManualPrefix+QueueNotificacoes, raw).Err(); err != nil {
				log.Error().Err(err).Msg("retry_cron: falha ao mover para fila manual")
			}
			log.Error().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: entregas esgotadas, movido para inspeção manual")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: falha ao serializar job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, QueueNotificacoes, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: falha ao reenfileirar, devolvendo à DLQ")
			cfg.RDB.LPush(ctx, dlqKey, raw)
			return
		}

		log.Info().
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("retry_cron: evento reenfileirado para entrega")
	}
}
