// Package relatorio gera a planilha de receitas usada na conferência com o extrato dos gateways.
package relatorio

import (
	"fmt"
	"io"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/xuri/excelize/v2"
)

const SheetReceitas = "Receitas"

var cabecalho = []any{"Data", "Operador", "Pagamento", "Método", "Origem", "Valor (R$)"}

// ExportReceitas escreve um XLSX com um lançamento por linha e o total no final.
func ExportReceitas(w io.Writer, lancamentos []domain.LancamentoReceita) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, SheetReceitas); err != nil {
		return err
	}
	sheet = SheetReceitas

	if err := f.SetSheetRow(sheet, "A1", &cabecalho); err != nil {
		return err
	}

	var total int64
	row := 2
	for _, l := range lancamentos {
		linha := []any{
			l.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			l.OperadorID,
			l.PagamentoID,
			string(l.Metodo),
			string(l.Origem),
			reais(l.ValorCentavos),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &linha); err != nil {
			return err
		}
		total += l.ValorCentavos
		row++
	}

	totalCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	linhaTotal := []any{"Total", "", "", "", "", reais(total)}
	if err := f.SetSheetRow(sheet, totalCell, &linhaTotal); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "C", 24); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("erro ao gerar planilha: %w", err)
	}
	return nil
}

func reais(centavos int64) float64 {
	return float64(centavos) / 100
}
