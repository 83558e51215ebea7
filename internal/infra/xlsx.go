package infra

// xlsx.go renders the sales report spreadsheet with excelize: one row per
// sale plus a totals row with SUM formulas over the amount columns.

import (
	"fmt"
	"io"

	"rackpos/internal/dto"

	"github.com/xuri/excelize/v2"
)

const hojaVentas = "Ventas"

var columnasVentas = []any{"Numero", "Fecha", "Cliente", "Estado", "Total USD", "Pagado USD", "Pendiente USD"}

// WriteVentasXLSX writes ventas as an .xlsx workbook to w.
func WriteVentasXLSX(w io.Writer, ventas []dto.TransaccionResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaVentas); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(hojaVentas, "A1", &columnasVentas); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	monto, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	_ = f.SetCellStyle(hojaVentas, "A1", "G1", bold)

	for i, v := range ventas {
		fila := []any{
			v.Numero,
			v.CreatedAt,
			v.Tercero,
			v.Estado,
			v.TotalUSD.InexactFloat64(),
			v.TotalPagadoUSD.InexactFloat64(),
			v.PendienteUSD.InexactFloat64(),
		}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hojaVentas, celda, &fila); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	ultima := len(ventas) + 1
	totales := ultima + 1
	_ = f.SetCellValue(hojaVentas, fmt.Sprintf("D%d", totales), "TOTAL")
	for _, col := range []string{"E", "F", "G"} {
		celda := fmt.Sprintf("%s%d", col, totales)
		formula := "0"
		if ultima >= 2 {
			formula = fmt.Sprintf("SUM(%s2:%s%d)", col, col, ultima)
		}
		if err := f.SetCellFormula(hojaVentas, celda, formula); err != nil {
			return fmt.Errorf("xlsx: totals: %w", err)
		}
	}
	_ = f.SetCellStyle(hojaVentas, "E2", fmt.Sprintf("G%d", totales), monto)
	_ = f.SetCellStyle(hojaVentas, fmt.Sprintf("D%d", totales), fmt.Sprintf("D%d", totales), bold)
	_ = f.SetColWidth(hojaVentas, "B", "C", 22)
	_ = f.SetColWidth(hojaVentas, "E", "G", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
