package infra

// pdf.go — Relatório de fechamento de caixa em PDF via go-pdf/fpdf.
// Gera um relatório em formato de cupom térmico com:
//   - Cabeçalho com nome/código da loja e dia de negócio
//   - Saldo inicial, tabela de movimentos (tipo, descrição, valor)
//   - Esperado, contado e divergência em destaque
//
// O arquivo é gravado em storagePath/caixa_{loja}_{dia}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/madecodebrazil/masioticas-sub005/internal/model"

	"github.com/go-pdf/fpdf"
)

// GerarRelatorioCaixaPDF renders the closing report for a session.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GerarRelatorioCaixaPDF(loja *model.Loja, sessao *model.SessaoCaixa, movimentos []model.MovimentoCaixa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("caixa_%s_%s.pdf", loja.Codigo, sessao.Dia.Format("2006-01-02"))
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 140mm — papel de cupom térmico, mais alto que o ticket de venda
	// para acomodar a lista de movimentos
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, loja.Nome, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Fechamento de Caixa", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Loja %s — %s", loja.Codigo, sessao.Dia.Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Abertura ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW*0.6, 5, "Saldo inicial:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW*0.4, 5, "R$ "+sessao.SaldoInicial.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(1)

	// ── Movimentos ───────────────────────────────────────────────────────────
	col1 := contentW * 0.30 // tipo
	col2 := contentW * 0.40 // descrição
	col3 := contentW * 0.30 // valor

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Tipo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Descrição", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "Valor", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, mov := range movimentos {
		pdf.CellFormat(col1, 5, mov.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, truncarDescricao(mov.Descricao, 18), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+mov.Valor.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Fechamento ───────────────────────────────────────────────────────────
	if sessao.SaldoEsperado != nil && sessao.SaldoContado != nil && sessao.Divergencia != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1+col2, 5, "Esperado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+sessao.SaldoEsperado.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(col1+col2, 5, "Contado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+sessao.SaldoContado.StringFixed(2), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1+col2, 6, "DIVERGÊNCIA:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, "R$ "+sessao.Divergencia.StringFixed(2), "", 1, "R", false, 0, "")

		if sessao.ClassificacaoDivergencia != nil {
			pdf.Ln(1)
			pdf.SetFont("Helvetica", "I", 7)
			pdf.CellFormat(contentW, 4, "Classificação: "+*sessao.ClassificacaoDivergencia, "", 1, "C", false, 0, "")
		}
	} else {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 4, "Sessão ainda aberta — relatório parcial", "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// truncarDescricao limita a descrição à largura da coluna. O corte é em
// runas, não em bytes, para não partir um caractere acentuado no meio.
func truncarDescricao(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
