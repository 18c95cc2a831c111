package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/dto"
	"github.com/madecodebrazil/masioticas-sub005/internal/infra"
	"github.com/madecodebrazil/masioticas-sub005/internal/model"
	"github.com/madecodebrazil/masioticas-sub005/internal/repository"
	"github.com/madecodebrazil/masioticas-sub005/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notificador publishes session events for asynchronous delivery to the
// notification collaborators. *worker.Dispatcher satisfies it.
type Notificador interface {
	EnqueueNotificacao(ctx context.Context, payload interface{}) error
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

type CaixaService interface {
	Abrir(ctx context.Context, lojaID, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error)
	RegistrarMovimento(ctx context.Context, lojaID uuid.UUID, dia time.Time, usuarioID uuid.UUID, req dto.MovimentoRequest) (*dto.MovimentoResponse, error)
	Fechar(ctx context.Context, lojaID uuid.UUID, dia time.Time, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.SessaoCaixaResponse, error)
	Saldo(ctx context.Context, lojaID uuid.UUID) (*dto.SaldoResponse, error)
	SessaoAberta(ctx context.Context, lojaID uuid.UUID) (*dto.SessaoCaixaResponse, error)
	Relatorio(ctx context.Context, lojaID uuid.UUID, dia time.Time) (*dto.SessaoCaixaResponse, error)
	RelatorioPDF(ctx context.Context, lojaID uuid.UUID, dia time.Time) (string, error)
	Historico(ctx context.Context, lojaID uuid.UUID, de, ate time.Time, page, limit int) ([]dto.SessaoCaixaResponse, int64, error)
}

type caixaService struct {
	repo     repository.CaixaRepository
	lojaRepo repository.LojaRepository
	eventos  Notificador
	// timezone padrão para o dia de negócio quando a loja não define a sua
	timezonePadrao string
	pdfStorage     string
}

func NewCaixaService(repo repository.CaixaRepository, lojaRepo repository.LojaRepository, eventos Notificador, timezonePadrao, pdfStorage string) CaixaService {
	if timezonePadrao == "" {
		timezonePadrao = "America/Sao_Paulo"
	}
	return &caixaService{repo: repo, lojaRepo: lojaRepo, eventos: eventos, timezonePadrao: timezonePadrao, pdfStorage: pdfStorage}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// Closed → Open. O dia de negócio é derivado do fuso da loja no momento da
// abertura; a chave (loja, dia) admite uma única sessão — a criação falha de
// forma visível se já houver documento nessa chave.

func (s *caixaService) Abrir(ctx context.Context, lojaID, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error) {
	if req.SaldoInicial.IsNegative() {
		return nil, fmt.Errorf("%w: saldo de abertura não pode ser negativo", ErrValorInvalido)
	}

	loja, err := s.lojaRepo.FindByID(ctx, lojaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLojaNaoEncontrada
		}
		return nil, s.traduzErro(err)
	}

	dia := s.diaDeNegocio(time.Now(), loja.Timezone)

	sessao := &model.SessaoCaixa{
		LojaID:              lojaID,
		Dia:                 dia,
		Estado:              model.EstadoAberto,
		SaldoInicial:        req.SaldoInicial,
		AbertoPor:           usuarioID,
		AbertoEm:            time.Now(),
		ObservacoesAbertura: req.Observacoes,
	}

	err = s.repo.Transacao(ctx, func(tx repository.CaixaTx) error {
		if err := tx.CreateSessao(sessao); err != nil {
			return err
		}
		// O acumulador de saldo é (re)inicializado incondicionalmente no
		// valor contado de abertura — usado apenas aqui.
		return tx.InicializarSaldo(lojaID, req.SaldoInicial)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.classificaConflitoAbertura(ctx, lojaID, dia)
		}
		return nil, s.traduzErro(err)
	}

	s.publicar(ctx, worker.EventoCaixaPayload{
		Evento:     worker.EventoCaixaAberto,
		LojaID:     lojaID.String(),
		SessaoID:   sessao.ID.String(),
		Dia:        dia.Format("2006-01-02"),
		Usuario:    usuarioID.String(),
		Valor:      req.SaldoInicial.String(),
		OcorridoEm: time.Now().UTC().Format(time.RFC3339),
	})

	return sessaoToResponse(sessao, nil), nil
}

// classificaConflitoAbertura decide entre "já aberto" e "dia já encerrado"
// após uma violação de chave única na criação.
func (s *caixaService) classificaConflitoAbertura(ctx context.Context, lojaID uuid.UUID, dia time.Time) error {
	existente, err := s.repo.FindSessao(ctx, lojaID, dia)
	if err == nil && !existente.Aberta() {
		return ErrCaixaDiaEncerrado
	}
	return ErrCaixaJaAberto
}

// ── RegistrarMovimento ────────────────────────────────────────────────────────
// O estado da sessão é reverificado sob lock na mesma transação que cria o
// movimento e aplica o delta no saldo: um registro concorrente com o
// fechamento ou acha a sessão ainda aberta ou falha — nunca grava depois.

func (s *caixaService) RegistrarMovimento(ctx context.Context, lojaID uuid.UUID, dia time.Time, usuarioID uuid.UUID, req dto.MovimentoRequest) (*dto.MovimentoResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: o valor do movimento deve ser maior que zero", ErrValorInvalido)
	}

	valor := req.Valor
	if !model.MovimentoEntrada(req.Tipo) {
		valor = valor.Neg()
	}

	var referencia *uuid.UUID
	if req.Referencia != nil {
		ref, err := uuid.Parse(*req.Referencia)
		if err != nil {
			return nil, fmt.Errorf("referência inválida: %w", err)
		}
		referencia = &ref
	}

	mov := &model.MovimentoCaixa{
		Tipo:          req.Tipo,
		Valor:         valor,
		Descricao:     req.Descricao,
		RegistradoPor: usuarioID,
		Referencia:    referencia,
	}

	err := s.repo.Transacao(ctx, func(tx repository.CaixaTx) error {
		sessao, err := tx.SessaoParaAtualizar(lojaID, dia)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemCaixaAberto
			}
			return err
		}
		if !sessao.Aberta() {
			return ErrCaixaFechado
		}
		mov.SessaoID = sessao.ID
		if err := tx.CreateMovimento(mov); err != nil {
			return err
		}
		return tx.AplicarSaldo(lojaID, valor)
	})
	if err != nil {
		return nil, s.traduzErro(err)
	}

	return movimentoToResponse(mov), nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Open → Closed (terminal para o dia). O esperado é calculado sob o mesmo
// lock que bloqueia novos movimentos, então nenhum leitor observa estado
// fechado sem os campos de fechamento. Divergência nunca impede o fechamento.

func (s *caixaService) Fechar(ctx context.Context, lojaID uuid.UUID, dia time.Time, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.SessaoCaixaResponse, error) {
	if req.SaldoContado.IsNegative() {
		return nil, fmt.Errorf("%w: saldo contado não pode ser negativo", ErrValorInvalido)
	}

	var sessao *model.SessaoCaixa
	err := s.repo.Transacao(ctx, func(tx repository.CaixaTx) error {
		var err error
		sessao, err = tx.SessaoParaAtualizar(lojaID, dia)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemCaixaAberto
			}
			return err
		}
		if !sessao.Aberta() {
			// Segundo fechamento: falha sem nova gravação
			return ErrSemCaixaAberto
		}

		soma, err := tx.SumMovimentos(sessao.ID)
		if err != nil {
			return err
		}
		esperado := sessao.SaldoInicial.Add(soma)
		rec := Reconciliar(esperado, req.SaldoContado)

		agora := time.Now()
		contado := req.SaldoContado
		sessao.Estado = model.EstadoFechado
		sessao.SaldoContado = &contado
		sessao.SaldoEsperado = &rec.Esperado
		sessao.Divergencia = &rec.Divergencia
		sessao.ClassificacaoDivergencia = &rec.Classificacao
		sessao.RequerRevisao = rec.Classificacao == model.DivergenciaCritico
		sessao.ObservacoesFechamento = req.Observacoes
		sessao.FechadoPor = &usuarioID
		sessao.FechadoEm = &agora

		if err := tx.UpdateSessaoAberta(sessao); err != nil {
			if errors.Is(err, repository.ErrSessaoImutavel) {
				return ErrSemCaixaAberto
			}
			return err
		}
		// Saldo congela no valor fisicamente contado até a próxima abertura
		return tx.InicializarSaldo(lojaID, req.SaldoContado)
	})
	if err != nil {
		return nil, s.traduzErro(err)
	}

	divergencia := sessao.Divergencia.String()
	classificacao := *sessao.ClassificacaoDivergencia
	s.publicar(ctx, worker.EventoCaixaPayload{
		Evento:        worker.EventoCaixaFechado,
		LojaID:        lojaID.String(),
		SessaoID:      sessao.ID.String(),
		Dia:           dia.Format("2006-01-02"),
		Usuario:       usuarioID.String(),
		Valor:         req.SaldoContado.String(),
		Divergencia:   &divergencia,
		Classificacao: &classificacao,
		OcorridoEm:    time.Now().UTC().Format(time.RFC3339),
	})

	if sessao.RequerRevisao && s.eventos != nil {
		payload := worker.AlertaDivergenciaPayload{
			LojaID:   lojaID.String(),
			SessaoID: sessao.ID.String(),
			Dia:      dia.Format("2006-01-02"),
		}
		if err := s.eventos.EnqueueEmail(ctx, payload); err != nil {
			log.Error().Err(err).Str("sessao_id", sessao.ID.String()).
				Msg("caixa: falha ao enfileirar alerta de divergência")
		}
	}

	return sessaoToResponse(sessao, nil), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *caixaService) Saldo(ctx context.Context, lojaID uuid.UUID) (*dto.SaldoResponse, error) {
	saldo, err := s.repo.GetSaldo(ctx, lojaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nenhuma sessão foi aberta ainda para esta loja
			return nil, ErrSemCaixaAberto
		}
		return nil, s.traduzErro(err)
	}
	return &dto.SaldoResponse{
		LojaID:       saldo.LojaID.String(),
		Valor:        saldo.Valor,
		AtualizadoEm: saldo.AtualizadoEm.UTC().Format(time.RFC3339),
	}, nil
}

func (s *caixaService) SessaoAberta(ctx context.Context, lojaID uuid.UUID) (*dto.SessaoCaixaResponse, error) {
	sessao, err := s.repo.FindSessaoAberta(ctx, lojaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemCaixaAberto
		}
		return nil, s.traduzErro(err)
	}
	return sessaoToResponse(sessao, nil), nil
}

// Relatorio returns the session with its full movement trail. For open
// sessions SaldoEsperado carries the running expected balance.
func (s *caixaService) Relatorio(ctx context.Context, lojaID uuid.UUID, dia time.Time) (*dto.SessaoCaixaResponse, error) {
	sessao, err := s.repo.FindSessao(ctx, lojaID, dia)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessaoNaoEncontrada
		}
		return nil, s.traduzErro(err)
	}

	movimentos, err := s.repo.ListMovimentos(ctx, sessao.ID)
	if err != nil {
		return nil, s.traduzErro(err)
	}

	resp := sessaoToResponse(sessao, movimentos)
	if sessao.Aberta() {
		esperado := CalcularEsperado(sessao.SaldoInicial, movimentos)
		resp.SaldoEsperado = &esperado
	}
	return resp, nil
}

// RelatorioPDF renders the session report to disk and returns the file path.
func (s *caixaService) RelatorioPDF(ctx context.Context, lojaID uuid.UUID, dia time.Time) (string, error) {
	loja, err := s.lojaRepo.FindByID(ctx, lojaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLojaNaoEncontrada
		}
		return "", s.traduzErro(err)
	}
	sessao, err := s.repo.FindSessao(ctx, lojaID, dia)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSessaoNaoEncontrada
		}
		return "", s.traduzErro(err)
	}
	movimentos, err := s.repo.ListMovimentos(ctx, sessao.ID)
	if err != nil {
		return "", s.traduzErro(err)
	}
	return infra.GerarRelatorioCaixaPDF(loja, sessao, movimentos, s.pdfStorage)
}

func (s *caixaService) Historico(ctx context.Context, lojaID uuid.UUID, de, ate time.Time, page, limit int) ([]dto.SessaoCaixaResponse, int64, error) {
	sessoes, total, err := s.repo.ListSessoes(ctx, lojaID, de, ate, page, limit)
	if err != nil {
		return nil, 0, s.traduzErro(err)
	}
	out := make([]dto.SessaoCaixaResponse, 0, len(sessoes))
	for i := range sessoes {
		out = append(out, *sessaoToResponse(&sessoes[i], nil))
	}
	return out, total, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// diaDeNegocio normaliza o instante para a data civil no fuso da loja,
// armazenada como meia-noite UTC.
func (s *caixaService) diaDeNegocio(agora time.Time, tzLoja string) time.Time {
	tz := tzLoja
	if tz == "" {
		tz = s.timezonePadrao
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	local := agora.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizarDia converte uma data qualquer para a forma canônica de chave
// (meia-noite UTC), a mesma usada por diaDeNegocio.
func NormalizarDia(dia time.Time) time.Time {
	return time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, time.UTC)
}

// traduzErro classifica falhas de infraestrutura na taxonomia do serviço.
// Sentinelas de negócio passam intactas.
func (s *caixaService) traduzErro(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCaixaJaAberto),
		errors.Is(err, ErrCaixaDiaEncerrado),
		errors.Is(err, ErrSemCaixaAberto),
		errors.Is(err, ErrCaixaFechado),
		errors.Is(err, ErrValorInvalido),
		errors.Is(err, ErrLojaNaoEncontrada),
		errors.Is(err, ErrSessaoNaoEncontrada):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		// Gravação pode ter sido efetivada: reconsultar antes de repetir
		return fmt.Errorf("%w: %v", ErrResultadoIncerto, err)
	default:
		return fmt.Errorf("%w: %v", ErrRepositorioIndisponivel, err)
	}
}

func (s *caixaService) publicar(ctx context.Context, payload worker.EventoCaixaPayload) {
	if s.eventos == nil {
		return
	}
	if err := s.eventos.EnqueueNotificacao(ctx, payload); err != nil {
		// Entrega é eventual/at-least-once; a operação de caixa não falha
		// por indisponibilidade da fila
		log.Error().Err(err).Str("evento", payload.Evento).
			Str("sessao_id", payload.SessaoID).
			Msg("caixa: falha ao enfileirar evento")
	}
}

func sessaoToResponse(s *model.SessaoCaixa, movimentos []model.MovimentoCaixa) *dto.SessaoCaixaResponse {
	resp := &dto.SessaoCaixaResponse{
		SessaoID:              s.ID.String(),
		LojaID:                s.LojaID.String(),
		Dia:                   s.Dia.Format("2006-01-02"),
		Estado:                s.Estado,
		SaldoInicial:          s.SaldoInicial,
		AbertoPor:             s.AbertoPor.String(),
		AbertoEm:              s.AbertoEm.UTC().Format(time.RFC3339),
		ObservacoesAbertura:   s.ObservacoesAbertura,
		SaldoContado:          s.SaldoContado,
		SaldoEsperado:         s.SaldoEsperado,
		RequerRevisao:         s.RequerRevisao,
		ObservacoesFechamento: s.ObservacoesFechamento,
	}

	if s.Divergencia != nil && s.ClassificacaoDivergencia != nil && s.SaldoEsperado != nil {
		var pct decimal.Decimal
		if !s.SaldoEsperado.IsZero() {
			pct = s.Divergencia.Div(*s.SaldoEsperado).Mul(decimal.NewFromInt(100)).Round(2)
		}
		resp.Divergencia = &dto.DivergenciaResponse{
			Valor:         *s.Divergencia,
			Percentual:    pct,
			Classificacao: *s.ClassificacaoDivergencia,
		}
	}
	if s.FechadoPor != nil {
		fechadoPor := s.FechadoPor.String()
		resp.FechadoPor = &fechadoPor
	}
	if s.FechadoEm != nil {
		fechadoEm := s.FechadoEm.UTC().Format(time.RFC3339)
		resp.FechadoEm = &fechadoEm
	}
	for i := range movimentos {
		resp.Movimentos = append(resp.Movimentos, *movimentoToResponse(&movimentos[i]))
	}
	return resp
}

func movimentoToResponse(m *model.MovimentoCaixa) *dto.MovimentoResponse {
	resp := &dto.MovimentoResponse{
		ID:            m.ID.String(),
		Tipo:          m.Tipo,
		Valor:         m.Valor,
		Descricao:     m.Descricao,
		RegistradoPor: m.RegistradoPor.String(),
		CriadoEm:      m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.Referencia != nil {
		ref := m.Referencia.String()
		resp.Referencia = &ref
	}
	return resp
}
