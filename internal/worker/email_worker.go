package worker

// email_worker.go
// Processes alert email jobs from QueueEmail.
// A close with critical divergence enqueues an AlertaDivergenciaPayload; this
// worker renders the closing report PDF and mails it to the supervisor.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/infra"
	"github.com/madecodebrazil/masioticas-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailWorker mails closing reports with critical divergence for review.
type EmailWorker struct {
	mailer         *infra.Mailer
	caixaRepo      repository.CaixaRepository
	lojaRepo       repository.LojaRepository
	pdfStoragePath string
	destinatario   string
}

// NewEmailWorker wires all dependencies for the alert mailer.
func NewEmailWorker(mailer *infra.Mailer, caixaRepo repository.CaixaRepository, lojaRepo repository.LojaRepository, pdfStoragePath, destinatario string) *EmailWorker {
	return &EmailWorker{
		mailer:         mailer,
		caixaRepo:      caixaRepo,
		lojaRepo:       lojaRepo,
		pdfStoragePath: pdfStoragePath,
		destinatario:   destinatario,
	}
}

// Process renders the closing report PDF and sends the review email.
func (w *EmailWorker) Process(ctx context.Context, job Job) {
	var payload AlertaDivergenciaPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if w.destinatario == "" {
		log.Warn().Msg("email_worker: destinatário de alertas não configurado — ignorando")
		return
	}

	lojaID, err := uuid.Parse(payload.LojaID)
	if err != nil {
		log.Error().Str("loja_id", payload.LojaID).Msg("email_worker: loja_id inválido")
		return
	}
	dia, err := time.Parse("2006-01-02", payload.Dia)
	if err != nil {
		log.Error().Str("dia", payload.Dia).Msg("email_worker: dia inválido")
		return
	}

	loja, err := w.lojaRepo.FindByID(ctx, lojaID)
	if err != nil {
		log.Error().Err(err).Str("loja_id", payload.LojaID).Msg("email_worker: loja não encontrada")
		return
	}
	sessao, err := w.caixaRepo.FindSessao(ctx, lojaID, dia)
	if err != nil {
		log.Error().Err(err).Str("sessao_id", payload.SessaoID).Msg("email_worker: sessão não encontrada")
		return
	}
	movimentos, err := w.caixaRepo.ListMovimentos(ctx, sessao.ID)
	if err != nil {
		log.Error().Err(err).Str("sessao_id", payload.SessaoID).Msg("email_worker: falha ao listar movimentos")
		return
	}

	pdfPath, err := infra.GerarRelatorioCaixaPDF(loja, sessao, movimentos, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sessao_id", payload.SessaoID).Msg("email_worker: falha ao gerar PDF")
		pdfPath = "" // envia sem anexo
	}

	subject := fmt.Sprintf("Divergência crítica no caixa — %s (%s)", loja.Nome, payload.Dia)
	body := fmt.Sprintf(
		"O fechamento do caixa da loja %s em %s registrou divergência crítica e requer revisão.\n\n"+
			"Esperado: %s\nContado: %s\nDivergência: %s\n",
		loja.Nome, payload.Dia,
		sessao.SaldoEsperado, sessao.SaldoContado, sessao.Divergencia)

	if err := w.mailer.SendAlerta(w.destinatario, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", w.destinatario).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", w.destinatario).Str("sessao_id", payload.SessaoID).Msg("email_worker: alerta enviado")
}
