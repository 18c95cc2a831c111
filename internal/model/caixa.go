package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de uma sessão de caixa.
const (
	EstadoAberto  = "aberto"
	EstadoFechado = "fechado"
)

// Tipos de movimento. Entradas são armazenadas com valor positivo,
// saídas com valor negativo.
const (
	MovimentoVenda         = "venda"
	MovimentoSuprimento    = "suprimento"
	MovimentoSangria       = "sangria"
	MovimentoDespesa       = "despesa"
	MovimentoAjusteEntrada = "ajuste_entrada"
	MovimentoAjusteSaida   = "ajuste_saida"
)

// Classificação da divergência no fechamento.
// normal: |divergência| <= 1% do esperado, alerta: <= 5%, critico: > 5%.
const (
	DivergenciaNormal  = "normal"
	DivergenciaAlerta  = "alerta"
	DivergenciaCritico = "critico"
)

// SessaoCaixa cobre um dia de operação de uma loja.
// Existe no máximo uma sessão por (loja, dia); uma vez fechada é imutável —
// o histórico de sessões é uma trilha de auditoria permanente.
type SessaoCaixa struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LojaID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_sessao_loja_dia"`
	// Dia é a data de negócio (DATE, sem componente de hora)
	Dia    time.Time `gorm:"type:date;not null;uniqueIndex:idx_sessao_loja_dia"`
	Estado string    `gorm:"type:varchar(20);not null;default:'aberto'"`

	SaldoInicial        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AbertoPor           uuid.UUID       `gorm:"type:uuid;not null"`
	AbertoEm            time.Time
	ObservacoesAbertura *string

	// Campos preenchidos apenas no fechamento
	SaldoContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SaldoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Divergencia = SaldoContado - SaldoEsperado
	Divergencia              *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ClassificacaoDivergencia *string          `gorm:"type:varchar(20)"`
	// RequerRevisao marca divergências críticas para conferência do supervisor
	RequerRevisao         bool       `gorm:"not null;default:false"`
	ObservacoesFechamento *string
	FechadoPor            *uuid.UUID `gorm:"type:uuid"`
	FechadoEm             *time.Time

	Movimentos []MovimentoCaixa `gorm:"foreignKey:SessaoID"`
}

// Aberta reports whether movements may still be recorded.
func (s *SessaoCaixa) Aberta() bool { return s.Estado == EstadoAberto }

// MovimentoCaixa é um evento imutável no livro-caixa de uma sessão.
// Movimentos nunca são alterados ou removidos — correções geram
// lançamentos inversos (ajuste_entrada / ajuste_saida).
type MovimentoCaixa struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo     string    `gorm:"type:varchar(20);not null"`
	// Valor é assinado: entradas positivas, saídas negativas
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao     string          `gorm:"not null"`
	RegistradoPor uuid.UUID       `gorm:"type:uuid;not null"`
	// Referencia aponta para a venda ou despesa de origem, quando houver
	Referencia *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
}

// Entrada reports whether the movement type increases the register balance.
func MovimentoEntrada(tipo string) bool {
	switch tipo {
	case MovimentoVenda, MovimentoSuprimento, MovimentoAjusteEntrada:
		return true
	}
	return false
}

// SaldoCaixa é o acumulador de saldo corrente — exatamente um registro por
// loja. Enquanto houver sessão aberta, Valor = saldo inicial + soma dos
// movimentos; após o fechamento, congela no valor contado.
type SaldoCaixa struct {
	LojaID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Valor        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AtualizadoEm time.Time
}
