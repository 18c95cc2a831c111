package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/dto"
	"github.com/madecodebrazil/masioticas-sub005/internal/model"
	"github.com/madecodebrazil/masioticas-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Full in-memory CaixaRepository ───────────────────────────────────────────

type memCaixaRepo struct {
	mu         sync.Mutex
	sessoes    map[string]*model.SessaoCaixa // chave loja|dia
	movimentos []model.MovimentoCaixa
	saldos     map[uuid.UUID]*model.SaldoCaixa
}

func newMemCaixaRepo() *memCaixaRepo {
	return &memCaixaRepo{
		sessoes: make(map[string]*model.SessaoCaixa),
		saldos:  make(map[uuid.UUID]*model.SaldoCaixa),
	}
}

func chave(lojaID uuid.UUID, dia time.Time) string {
	return lojaID.String() + "|" + dia.Format("2006-01-02")
}

func (r *memCaixaRepo) Transacao(_ context.Context, fn func(tx repository.CaixaTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(&memCaixaTx{r: r})
}

type memCaixaTx struct{ r *memCaixaRepo }

func (t *memCaixaTx) SessaoParaAtualizar(lojaID uuid.UUID, dia time.Time) (*model.SessaoCaixa, error) {
	s, ok := t.r.sessoes[chave(lojaID, dia)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (t *memCaixaTx) CreateSessao(s *model.SessaoCaixa) error {
	if _, exists := t.r.sessoes[chave(s.LojaID, s.Dia)]; exists {
		return gorm.ErrDuplicatedKey
	}
	// índice parcial: no máximo uma sessão aberta por loja
	for _, existente := range t.r.sessoes {
		if existente.LojaID == s.LojaID && existente.Aberta() {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	t.r.sessoes[chave(s.LojaID, s.Dia)] = s
	return nil
}

func (t *memCaixaTx) UpdateSessaoAberta(s *model.SessaoCaixa) error {
	for _, existente := range t.r.sessoes {
		if existente.ID == s.ID {
			if !existente.Aberta() && existente != s {
				return repository.ErrSessaoImutavel
			}
			*existente = *s
			return nil
		}
	}
	return repository.ErrSessaoImutavel
}

func (t *memCaixaTx) CreateMovimento(m *model.MovimentoCaixa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	t.r.movimentos = append(t.r.movimentos, *m)
	return nil
}

func (t *memCaixaTx) SumMovimentos(sessaoID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range t.r.movimentos {
		if m.SessaoID == sessaoID {
			total = total.Add(m.Valor)
		}
	}
	return total, nil
}

func (t *memCaixaTx) InicializarSaldo(lojaID uuid.UUID, valor decimal.Decimal) error {
	t.r.saldos[lojaID] = &model.SaldoCaixa{LojaID: lojaID, Valor: valor, AtualizadoEm: time.Now()}
	return nil
}

func (t *memCaixaTx) AplicarSaldo(lojaID uuid.UUID, delta decimal.Decimal) error {
	saldo, ok := t.r.saldos[lojaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	saldo.Valor = saldo.Valor.Add(delta)
	saldo.AtualizadoEm = time.Now()
	return nil
}

func (r *memCaixaRepo) FindSessao(_ context.Context, lojaID uuid.UUID, dia time.Time) (*model.SessaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessoes[chave(lojaID, dia)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memCaixaRepo) FindSessaoAberta(_ context.Context, lojaID uuid.UUID) (*model.SessaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessoes {
		if s.LojaID == lojaID && s.Aberta() {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCaixaRepo) ListMovimentos(_ context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimentoCaixa
	for _, m := range r.movimentos {
		if m.SessaoID == sessaoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCaixaRepo) ListSessoes(_ context.Context, lojaID uuid.UUID, de, ate time.Time, page, limit int) ([]model.SessaoCaixa, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.SessaoCaixa
	for _, s := range r.sessoes {
		if s.LojaID == lojaID && !s.Dia.Before(de) && !s.Dia.After(ate) {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memCaixaRepo) GetSaldo(_ context.Context, lojaID uuid.UUID) (*model.SaldoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saldo, ok := r.saldos[lojaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return saldo, nil
}

var _ repository.CaixaRepository = (*memCaixaRepo)(nil)

// ── In-memory LojaRepository ─────────────────────────────────────────────────

type memLojaRepo struct{ lojas map[uuid.UUID]*model.Loja }

func newMemLojaRepo(lojas ...*model.Loja) *memLojaRepo {
	r := &memLojaRepo{lojas: make(map[uuid.UUID]*model.Loja)}
	for _, l := range lojas {
		r.lojas[l.ID] = l
	}
	return r
}

func (r *memLojaRepo) Create(_ context.Context, l *model.Loja) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lojas[l.ID] = l
	return nil
}

func (r *memLojaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Loja, error) {
	l, ok := r.lojas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *memLojaRepo) FindByCodigo(_ context.Context, codigo string) (*model.Loja, error) {
	for _, l := range r.lojas {
		if l.Codigo == codigo {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memLojaRepo) List(_ context.Context) ([]model.Loja, error) {
	var out []model.Loja
	for _, l := range r.lojas {
		out = append(out, *l)
	}
	return out, nil
}

func (r *memLojaRepo) Update(_ context.Context, l *model.Loja) error {
	r.lojas[l.ID] = l
	return nil
}

var _ repository.LojaRepository = (*memLojaRepo)(nil)

// ── Notificador de teste ─────────────────────────────────────────────────────

type memNotificador struct {
	notificacoes []interface{}
	emails       []interface{}
}

func (n *memNotificador) EnqueueNotificacao(_ context.Context, payload interface{}) error {
	n.notificacoes = append(n.notificacoes, payload)
	return nil
}

func (n *memNotificador) EnqueueEmail(_ context.Context, payload interface{}) error {
	n.emails = append(n.emails, payload)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type caixaFixture struct {
	repo     *memCaixaRepo
	eventos  *memNotificador
	svc      CaixaService
	lojaID   uuid.UUID
	operador uuid.UUID
}

func newCaixaFixture(t *testing.T) *caixaFixture {
	t.Helper()
	loja := &model.Loja{ID: uuid.New(), Nome: "Loja Centro", Codigo: "C01", Timezone: "America/Sao_Paulo", Ativa: true}
	repo := newMemCaixaRepo()
	eventos := &memNotificador{}
	svc := NewCaixaService(repo, newMemLojaRepo(loja), eventos, "America/Sao_Paulo", t.TempDir())
	return &caixaFixture{
		repo:     repo,
		eventos:  eventos,
		svc:      svc,
		lojaID:   loja.ID,
		operador: uuid.New(),
	}
}

// abrir opens today's session and returns the normalized business day.
func (f *caixaFixture) abrir(t *testing.T, saldoInicial float64) time.Time {
	t.Helper()
	resp, err := f.svc.Abrir(context.Background(), f.lojaID, f.operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(saldoInicial),
	})
	require.NoError(t, err)
	dia, err := time.Parse("2006-01-02", resp.Dia)
	require.NoError(t, err)
	return NormalizarDia(dia)
}

func (f *caixaFixture) movimento(t *testing.T, dia time.Time, tipo string, valor float64) {
	t.Helper()
	_, err := f.svc.RegistrarMovimento(context.Background(), f.lojaID, dia, f.operador, dto.MovimentoRequest{
		Tipo:      tipo,
		Valor:     decimal.NewFromFloat(valor),
		Descricao: "movimento de teste",
	})
	require.NoError(t, err)
}

// ── Abertura ─────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	f := newCaixaFixture(t)

	resp, err := f.svc.Abrir(context.Background(), f.lojaID, f.operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAberto, resp.Estado)
	assert.Equal(t, "100", resp.SaldoInicial.String())

	// Saldo corrente inicializado no valor contado de abertura
	saldo, err := f.svc.Saldo(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "100", saldo.Valor.String())

	// Evento de abertura publicado
	require.Len(t, f.eventos.notificacoes, 1)
}

func TestAbrirCaixaDuplicada(t *testing.T) {
	f := newCaixaFixture(t)
	f.abrir(t, 100)

	_, err := f.svc.Abrir(context.Background(), f.lojaID, f.operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(200),
	})
	assert.ErrorIs(t, err, ErrCaixaJaAberto)

	// A primeira sessão permanece intacta
	sessao, err := f.svc.SessaoAberta(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "100", sessao.SaldoInicial.String())
}

func TestReabrirDiaEncerrado(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)

	_, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	// O fechamento é terminal para o dia: reabrir é rejeitado
	_, err = f.svc.Abrir(context.Background(), f.lojaID, f.operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(50),
	})
	assert.ErrorIs(t, err, ErrCaixaDiaEncerrado)
}

func TestAbrirSaldoNegativo(t *testing.T) {
	f := newCaixaFixture(t)
	_, err := f.svc.Abrir(context.Background(), f.lojaID, f.operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(-10),
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
	assert.Empty(t, f.repo.sessoes)
}

func TestAbrirLojaInexistente(t *testing.T) {
	f := newCaixaFixture(t)
	_, err := f.svc.Abrir(context.Background(), uuid.New(), f.operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, ErrLojaNaoEncontrada)
}

// ── Movimentos ───────────────────────────────────────────────────────────────

func TestMovimentoAtualizaSaldo(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)

	f.movimento(t, dia, model.MovimentoVenda, 50)
	f.movimento(t, dia, model.MovimentoSangria, 20)

	saldo, err := f.svc.Saldo(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "130", saldo.Valor.String())

	// Saída armazenada com sinal negativo
	require.Len(t, f.repo.movimentos, 2)
	assert.Equal(t, "50", f.repo.movimentos[0].Valor.String())
	assert.Equal(t, "-20", f.repo.movimentos[1].Valor.String())
}

func TestMovimentoValorInvalido(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)

	for _, valor := range []float64{0, -5} {
		_, err := f.svc.RegistrarMovimento(context.Background(), f.lojaID, dia, f.operador, dto.MovimentoRequest{
			Tipo:      model.MovimentoVenda,
			Valor:     decimal.NewFromFloat(valor),
			Descricao: "valor inválido",
		})
		assert.ErrorIs(t, err, ErrValorInvalido)
	}

	// Nada foi gravado nem aplicado ao saldo
	assert.Empty(t, f.repo.movimentos)
	saldo, err := f.svc.Saldo(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "100", saldo.Valor.String())
}

func TestMovimentoSemCaixaAberto(t *testing.T) {
	f := newCaixaFixture(t)
	dia := NormalizarDia(time.Now())

	_, err := f.svc.RegistrarMovimento(context.Background(), f.lojaID, dia, f.operador, dto.MovimentoRequest{
		Tipo:      model.MovimentoVenda,
		Valor:     decimal.NewFromFloat(10),
		Descricao: "sem sessão",
	})
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

func TestMovimentoAposFechamento(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)
	f.movimento(t, dia, model.MovimentoVenda, 50)

	_, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(150),
	})
	require.NoError(t, err)

	_, err = f.svc.RegistrarMovimento(context.Background(), f.lojaID, dia, f.operador, dto.MovimentoRequest{
		Tipo:      model.MovimentoVenda,
		Valor:     decimal.NewFromFloat(30),
		Descricao: "tarde demais",
	})
	assert.ErrorIs(t, err, ErrCaixaFechado)

	// Nenhum movimento novo; saldo permanece no valor contado
	assert.Len(t, f.repo.movimentos, 1)
	saldo, err := f.svc.Saldo(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "150", saldo.Valor.String())
}

// ── Fechamento ───────────────────────────────────────────────────────────────

func TestFechamentoSemDivergencia(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)
	f.movimento(t, dia, model.MovimentoVenda, 50)
	f.movimento(t, dia, model.MovimentoSangria, 20)

	resp, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(130),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoFechado, resp.Estado)
	require.NotNil(t, resp.SaldoEsperado)
	assert.Equal(t, "130", resp.SaldoEsperado.String())
	require.NotNil(t, resp.Divergencia)
	assert.True(t, resp.Divergencia.Valor.IsZero())
	assert.Equal(t, model.DivergenciaNormal, resp.Divergencia.Classificacao)
	assert.False(t, resp.RequerRevisao)
}

func TestFechamentoComFalta(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)
	f.movimento(t, dia, model.MovimentoVenda, 30)

	// Esperado 130, contado 125: a divergência é registrada, nunca bloqueia
	resp, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(125),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoFechado, resp.Estado)
	assert.Equal(t, "-5", resp.Divergencia.Valor.String())
	assert.Equal(t, model.DivergenciaAlerta, resp.Divergencia.Classificacao)

	// Saldo congela no fisicamente contado, não no esperado
	saldo, err := f.svc.Saldo(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "125", saldo.Valor.String())
}

func TestFechamentoDuplicado(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)

	_, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	// Segundo fechamento falha sem sobrescrever a reconciliação original
	_, err = f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(999),
	})
	assert.ErrorIs(t, err, ErrSemCaixaAberto)

	relatorio, err := f.svc.Relatorio(context.Background(), f.lojaID, dia)
	require.NoError(t, err)
	assert.Equal(t, "100", relatorio.SaldoContado.String())
}

func TestFechamentoContadoNegativo(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)

	_, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(-1),
	})
	assert.ErrorIs(t, err, ErrValorInvalido)

	sessao, err := f.svc.SessaoAberta(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAberto, sessao.Estado)
}

func TestDivergenciaCriticaRequerRevisao(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 1000)

	// Esperado 1000, contado 900: -10% → crítico
	resp, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(900),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoFechado, resp.Estado)
	assert.Equal(t, model.DivergenciaCritico, resp.Divergencia.Classificacao)
	assert.True(t, resp.RequerRevisao)

	// Alerta por email enfileirado para o supervisor
	require.Len(t, f.eventos.emails, 1)
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestRelatorioSessaoAberta(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 200)
	f.movimento(t, dia, model.MovimentoVenda, 80)
	f.movimento(t, dia, model.MovimentoDespesa, 30)

	relatorio, err := f.svc.Relatorio(context.Background(), f.lojaID, dia)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAberto, relatorio.Estado)
	assert.Len(t, relatorio.Movimentos, 2)
	// Esperado corrente para sessão aberta: 200 + 80 - 30
	require.NotNil(t, relatorio.SaldoEsperado)
	assert.Equal(t, "250", relatorio.SaldoEsperado.String())
}

func TestRelatorioSessaoInexistente(t *testing.T) {
	f := newCaixaFixture(t)
	_, err := f.svc.Relatorio(context.Background(), f.lojaID, NormalizarDia(time.Now()))
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
}

func TestSaldoSemSessao(t *testing.T) {
	f := newCaixaFixture(t)
	_, err := f.svc.Saldo(context.Background(), f.lojaID)
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

func TestHistorico(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 100)
	_, err := f.svc.Fechar(context.Background(), f.lojaID, dia, f.operador, dto.FecharCaixaRequest{
		SaldoContado: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	sessoes, total, err := f.svc.Historico(context.Background(), f.lojaID, dia.AddDate(0, 0, -7), dia, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sessoes, 1)
	assert.Equal(t, model.EstadoFechado, sessoes[0].Estado)
}

// ── Concorrência ─────────────────────────────────────────────────────────────

// A soma aplicada ao saldo é independente da ordem de intercalação dos
// registros concorrentes.
func TestMovimentosConcorrentes(t *testing.T) {
	f := newCaixaFixture(t)
	dia := f.abrir(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RegistrarMovimento(context.Background(), f.lojaID, dia, f.operador, dto.MovimentoRequest{
				Tipo:      model.MovimentoVenda,
				Valor:     decimal.NewFromFloat(10),
				Descricao: "venda concorrente",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	saldo, err := f.svc.Saldo(context.Background(), f.lojaID)
	require.NoError(t, err)
	assert.Equal(t, "200", saldo.Valor.String())
	assert.Len(t, f.repo.movimentos, 20)
}

// ── Falhas de infraestrutura ─────────────────────────────────────────────────

// falhaCaixaRepo força um erro em toda transação, preservando as leituras
// do repositório em memória.
type falhaCaixaRepo struct {
	*memCaixaRepo
	err error
}

func (r *falhaCaixaRepo) Transacao(_ context.Context, _ func(tx repository.CaixaTx) error) error {
	return r.err
}

func newFalhaFixture(t *testing.T, err error) (CaixaService, uuid.UUID) {
	t.Helper()
	loja := &model.Loja{ID: uuid.New(), Nome: "Loja Centro", Codigo: "C01", Timezone: "America/Sao_Paulo", Ativa: true}
	repo := &falhaCaixaRepo{memCaixaRepo: newMemCaixaRepo(), err: err}
	svc := NewCaixaService(repo, newMemLojaRepo(loja), &memNotificador{}, "America/Sao_Paulo", t.TempDir())
	return svc, loja.ID
}

// Timeout durante uma gravação: o resultado é desconhecido — o chamador deve
// reconsultar o estado antes de repetir, nunca repetir às cegas.
func TestAberturaComTimeoutResultadoIncerto(t *testing.T) {
	svc, lojaID := newFalhaFixture(t, context.DeadlineExceeded)

	_, err := svc.Abrir(context.Background(), lojaID, uuid.New(), dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, ErrResultadoIncerto)
	assert.NotErrorIs(t, err, ErrRepositorioIndisponivel)
}

func TestAberturaComRepositorioIndisponivel(t *testing.T) {
	svc, lojaID := newFalhaFixture(t, errors.New("dial tcp: connection refused"))

	_, err := svc.Abrir(context.Background(), lojaID, uuid.New(), dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, ErrRepositorioIndisponivel)
}

func TestMovimentoComTimeoutResultadoIncerto(t *testing.T) {
	svc, lojaID := newFalhaFixture(t, context.DeadlineExceeded)

	_, err := svc.RegistrarMovimento(context.Background(), lojaID, NormalizarDia(time.Now()), uuid.New(), dto.MovimentoRequest{
		Tipo:      model.MovimentoVenda,
		Valor:     decimal.NewFromFloat(10),
		Descricao: "venda",
	})
	assert.ErrorIs(t, err, ErrResultadoIncerto)
}
