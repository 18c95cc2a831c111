package infra

import (
	"os"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/madecodebrazil/masioticas-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncarDescricao(t *testing.T) {
	cases := []struct {
		nome     string
		in       string
		max      int
		esperado string
	}{
		{"curta passa intacta", "venda balcão", 18, "venda balcão"},
		{"exatamente no limite", "123456789012345678", 18, "123456789012345678"},
		{"longa é cortada", "pagamento de fornecedor via caixa", 18, "pagamento de forn…"},
		{"acento na fronteira do corte", "venda de armação único", 18, "venda de armação …"},
	}

	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			out := truncarDescricao(tc.in, tc.max)
			assert.Equal(t, tc.esperado, out)
			// o resultado nunca pode conter um caractere partido
			assert.True(t, utf8.ValidString(out))
		})
	}
}

func TestGerarRelatorioCaixaPDF(t *testing.T) {
	loja := &model.Loja{ID: uuid.New(), Nome: "Ótica São João", Codigo: "SJ01", Timezone: "America/Sao_Paulo"}
	contado := decimal.NewFromFloat(130)
	esperado := decimal.NewFromFloat(130)
	divergencia := decimal.Zero
	classificacao := model.DivergenciaNormal

	sessao := &model.SessaoCaixa{
		ID:                       uuid.New(),
		LojaID:                   loja.ID,
		Dia:                      time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Estado:                   model.EstadoFechado,
		SaldoInicial:             decimal.NewFromFloat(100),
		SaldoContado:             &contado,
		SaldoEsperado:            &esperado,
		Divergencia:              &divergencia,
		ClassificacaoDivergencia: &classificacao,
	}
	movimentos := []model.MovimentoCaixa{
		{SessaoID: sessao.ID, Tipo: model.MovimentoVenda, Valor: decimal.NewFromFloat(50), Descricao: "venda de armação única com lentes"},
		{SessaoID: sessao.ID, Tipo: model.MovimentoSangria, Valor: decimal.NewFromFloat(-20), Descricao: "sangria"},
	}

	path, err := GerarRelatorioCaixaPDF(loja, sessao, movimentos, t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, path, "caixa_SJ01_2026-08-30.pdf")
}
