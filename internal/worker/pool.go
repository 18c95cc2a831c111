package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotificacoes = "jobs:notificacoes"
	QueueEmail        = "jobs:email"
)

// Eventos de caixa entregues aos colaboradores de notificação.
const (
	EventoCaixaAberto  = "caixa_aberto"
	EventoCaixaFechado = "caixa_fechado"
)

// EventoCaixaPayload é o envelope publicado a cada abertura/fechamento.
// Valor carrega o saldo inicial (abertura) ou o saldo contado (fechamento).
type EventoCaixaPayload struct {
	Evento        string  `json:"evento"`
	LojaID        string  `json:"loja_id"`
	SessaoID      string  `json:"sessao_id"`
	Dia           string  `json:"dia"`
	Usuario       string  `json:"usuario"`
	Valor         string  `json:"valor"`
	Divergencia   *string `json:"divergencia,omitempty"`
	Classificacao *string `json:"classificacao,omitempty"`
	OcorridoEm    string  `json:"ocorrido_em"`
}

// AlertaDivergenciaPayload dispara o e-mail de revisão ao supervisor quando
// um fechamento registra divergência crítica.
type AlertaDivergenciaPayload struct {
	LojaID   string `json:"loja_id"`
	SessaoID string `json:"sessao_id"`
	Dia      string `json:"dia"`
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	// Attempts conta entregas já tentadas (worker + redelivery do cron)
	Attempts int `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueNotificacao pushes a session event to the notification queue.
func (d *Dispatcher) EnqueueNotificacao(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueNotificacoes, "notificacao", payload)
}

// EnqueueEmail pushes an alert email job to the email queue.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers agrupa os processadores por fila, ligados no composition
// root (cmd/server) para terem acesso a toda a infraestrutura.
type WorkerHandlers struct {
	Notificacao *NotificacaoWorker
	Email       *EmailWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueNotificacoes, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueNotificacoes:
		handlers.Notificacao.Process(ctx, job)
	case QueueEmail:
		handlers.Email.Process(ctx, job)
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
