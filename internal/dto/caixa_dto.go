package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

type MovimentoRequest struct {
	Tipo string `json:"tipo" validate:"required,oneof=venda suprimento sangria despesa ajuste_entrada ajuste_saida"`
	// Valor é sempre a magnitude positiva; o tipo determina o sinal armazenado
	Valor      decimal.Decimal `json:"valor"      validate:"required,gt=0"`
	Descricao  string          `json:"descricao"  validate:"required,min=3"`
	Referencia *string         `json:"referencia" validate:"omitempty,uuid"`
}

type FecharCaixaRequest struct {
	SaldoContado decimal.Decimal `json:"saldo_contado" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DivergenciaResponse struct {
	Valor         decimal.Decimal `json:"valor"`
	Percentual    decimal.Decimal `json:"percentual"`
	Classificacao string          `json:"classificacao"` // normal | alerta | critico
}

type MovimentoResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Valor         decimal.Decimal `json:"valor"`
	Descricao     string          `json:"descricao"`
	RegistradoPor string          `json:"registrado_por"`
	Referencia    *string         `json:"referencia"`
	CriadoEm      string          `json:"criado_em"`
}

type SessaoCaixaResponse struct {
	SessaoID              string               `json:"sessao_id"`
	LojaID                string               `json:"loja_id"`
	Dia                   string               `json:"dia"` // 2006-01-02
	Estado                string               `json:"estado"`
	SaldoInicial          decimal.Decimal      `json:"saldo_inicial"`
	AbertoPor             string               `json:"aberto_por"`
	AbertoEm              string               `json:"aberto_em"`
	ObservacoesAbertura   *string              `json:"observacoes_abertura"`
	SaldoContado          *decimal.Decimal     `json:"saldo_contado"`
	SaldoEsperado         *decimal.Decimal     `json:"saldo_esperado"`
	Divergencia           *DivergenciaResponse `json:"divergencia"`
	RequerRevisao         bool                 `json:"requer_revisao"`
	ObservacoesFechamento *string              `json:"observacoes_fechamento"`
	FechadoPor            *string              `json:"fechado_por"`
	FechadoEm             *string              `json:"fechado_em"`
	Movimentos            []MovimentoResponse  `json:"movimentos,omitempty"`
}

type SaldoResponse struct {
	LojaID       string          `json:"loja_id"`
	Valor        decimal.Decimal `json:"valor"`
	AtualizadoEm string          `json:"atualizado_em"`
}
