package service

import (
	"github.com/madecodebrazil/masioticas-sub005/internal/model"

	"github.com/shopspring/decimal"
)

// Reconciliação do fechamento: saldo esperado, divergência e classificação.
// Divergência diferente de zero NÃO é erro — é um fato de negócio registrado
// na sessão e sinalizado para conferência; nenhuma correção automática é
// aplicada ao livro-caixa.

// ResultadoReconciliacao is the outcome of comparing counted vs expected cash.
type ResultadoReconciliacao struct {
	Esperado      decimal.Decimal
	Divergencia   decimal.Decimal
	Percentual    decimal.Decimal
	Classificacao string
}

// CalcularEsperado returns saldo inicial + soma assinada dos movimentos.
func CalcularEsperado(inicial decimal.Decimal, movimentos []model.MovimentoCaixa) decimal.Decimal {
	esperado := inicial
	for _, m := range movimentos {
		esperado = esperado.Add(m.Valor)
	}
	return esperado
}

// Reconciliar computes divergencia = contado - esperado and classifies it.
func Reconciliar(esperado, contado decimal.Decimal) ResultadoReconciliacao {
	divergencia := contado.Sub(esperado)

	var pct decimal.Decimal
	if !esperado.IsZero() {
		pct = divergencia.Div(esperado).Mul(decimal.NewFromInt(100)).Round(2)
	} else if !divergencia.IsZero() {
		// Esperado zero com sobra/falta: trata como 100% de desvio
		pct = decimal.NewFromInt(100)
	}

	return ResultadoReconciliacao{
		Esperado:      esperado,
		Divergencia:   divergencia,
		Percentual:    pct,
		Classificacao: classificarDivergencia(pct),
	}
}

// classificarDivergencia: normal |pct| <= 1, alerta <= 5, critico > 5.
func classificarDivergencia(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return model.DivergenciaNormal
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return model.DivergenciaAlerta
	default:
		return model.DivergenciaCritico
	}
}
