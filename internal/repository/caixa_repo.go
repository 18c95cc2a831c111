package repository

import (
	"context"
	"errors"
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessaoImutavel is returned when a write targets a session that is no
// longer open. The guard lives in the UPDATE itself (WHERE estado='aberto'),
// so it holds regardless of what the caller read before.
var ErrSessaoImutavel = errors.New("sessão fechada é imutável")

// CaixaTx exposes the write operations that must happen inside a single
// transaction. The session row is the serialization point: SessaoParaAtualizar
// takes a row lock, so a concurrent fechamento and registro de movimento on
// the same session always observe each other.
type CaixaTx interface {
	SessaoParaAtualizar(lojaID uuid.UUID, dia time.Time) (*model.SessaoCaixa, error)
	CreateSessao(s *model.SessaoCaixa) error
	UpdateSessaoAberta(s *model.SessaoCaixa) error
	CreateMovimento(m *model.MovimentoCaixa) error
	SumMovimentos(sessaoID uuid.UUID) (decimal.Decimal, error)
	InicializarSaldo(lojaID uuid.UUID, valor decimal.Decimal) error
	AplicarSaldo(lojaID uuid.UUID, delta decimal.Decimal) error
}

type CaixaRepository interface {
	// Transacao runs fn atomically; either every write inside commits or none.
	Transacao(ctx context.Context, fn func(tx CaixaTx) error) error
	FindSessao(ctx context.Context, lojaID uuid.UUID, dia time.Time) (*model.SessaoCaixa, error)
	FindSessaoAberta(ctx context.Context, lojaID uuid.UUID) (*model.SessaoCaixa, error)
	ListMovimentos(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error)
	ListSessoes(ctx context.Context, lojaID uuid.UUID, de, ate time.Time, page, limit int) ([]model.SessaoCaixa, int64, error)
	GetSaldo(ctx context.Context, lojaID uuid.UUID) (*model.SaldoCaixa, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

type caixaTx struct{ tx *gorm.DB }

func (r *caixaRepo) Transacao(ctx context.Context, fn func(tx CaixaTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&caixaTx{tx: tx})
	})
}

// SessaoParaAtualizar loads the session row with SELECT ... FOR UPDATE.
// Concurrent writers on the same (loja, dia) serialize here.
func (t *caixaTx) SessaoParaAtualizar(lojaID uuid.UUID, dia time.Time) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loja_id = ? AND dia = ?", lojaID, dia).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSessao fails visibly (duplicated key) when a session already exists
// for the (loja, dia) key — it never overwrites silently.
func (t *caixaTx) CreateSessao(s *model.SessaoCaixa) error {
	return t.tx.Create(s).Error
}

// UpdateSessaoAberta persists closing fields. The estado guard in the WHERE
// clause makes writes to already-closed sessions fail unconditionally,
// independent of caller intent.
func (t *caixaTx) UpdateSessaoAberta(s *model.SessaoCaixa) error {
	res := t.tx.Model(&model.SessaoCaixa{}).
		Where("id = ? AND estado = ?", s.ID, model.EstadoAberto).
		Updates(map[string]interface{}{
			"estado":                    s.Estado,
			"saldo_contado":             s.SaldoContado,
			"saldo_esperado":            s.SaldoEsperado,
			"divergencia":               s.Divergencia,
			"classificacao_divergencia": s.ClassificacaoDivergencia,
			"requer_revisao":            s.RequerRevisao,
			"observacoes_fechamento":    s.ObservacoesFechamento,
			"fechado_por":               s.FechadoPor,
			"fechado_em":                s.FechadoEm,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessaoImutavel
	}
	return nil
}

func (t *caixaTx) CreateMovimento(m *model.MovimentoCaixa) error {
	return t.tx.Create(m).Error
}

func (t *caixaTx) SumMovimentos(sessaoID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := t.tx.Model(&model.MovimentoCaixa{}).
		Where("sessao_id = ?", sessaoID).
		Select("SUM(valor)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// InicializarSaldo overwrites the store's balance unconditionally (upsert).
// Used only by the opening of a session.
func (t *caixaTx) InicializarSaldo(lojaID uuid.UUID, valor decimal.Decimal) error {
	saldo := model.SaldoCaixa{LojaID: lojaID, Valor: valor, AtualizadoEm: time.Now()}
	return t.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "loja_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "atualizado_em"}),
	}).Create(&saldo).Error
}

// AplicarSaldo is a relative increment (valor = valor + delta), serialized by
// the row lock: the final amount equals the sum of all applied deltas
// regardless of interleaving.
func (t *caixaTx) AplicarSaldo(lojaID uuid.UUID, delta decimal.Decimal) error {
	res := t.tx.Model(&model.SaldoCaixa{}).
		Where("loja_id = ?", lojaID).
		Updates(map[string]interface{}{
			"valor":         gorm.Expr("valor + ?", delta),
			"atualizado_em": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *caixaRepo) FindSessao(ctx context.Context, lojaID uuid.UUID, dia time.Time) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).
		Where("loja_id = ? AND dia = ?", lojaID, dia).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) FindSessaoAberta(ctx context.Context, lojaID uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).
		Where("loja_id = ? AND estado = ?", lojaID, model.EstadoAberto).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) ListMovimentos(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var movs []model.MovimentoCaixa
	err := r.db.WithContext(ctx).
		Where("sessao_id = ?", sessaoID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) ListSessoes(ctx context.Context, lojaID uuid.UUID, de, ate time.Time, page, limit int) ([]model.SessaoCaixa, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{}).
		Where("loja_id = ? AND dia >= ? AND dia <= ?", lojaID, de, ate)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessoes []model.SessaoCaixa
	err := q.Order("dia DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessoes).Error
	return sessoes, total, err
}

func (r *caixaRepo) GetSaldo(ctx context.Context, lojaID uuid.UUID) (*model.SaldoCaixa, error) {
	var saldo model.SaldoCaixa
	err := r.db.WithContext(ctx).First(&saldo, "loja_id = ?", lojaID).Error
	if err != nil {
		return nil, err
	}
	return &saldo, nil
}
