package infra

// pdf.go renders sale receipts with go-pdf/fpdf on thermal-paper sized pages:
// company header, sale number and date, customer, line table, total, payments
// and the pending balance.

import (
	"fmt"
	"os"
	"path/filepath"

	"rackpos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF writes recibo_{numero}.pdf into storagePath and returns its path.
// empresa may be nil.
func GenerateReciboPDF(venta *model.Venta, empresa *model.Empresa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%d.pdf", venta.Numero))

	// 80mm roll; height grows with the number of lines
	alto := 120.0 + 5*float64(len(venta.Detalles)+len(venta.Pagos))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// header
	nombre, rif := "RackPOS", ""
	if empresa != nil {
		nombre, rif = empresa.Nombre, "RIF "+empresa.RIF
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(nombre), "", 1, "C", false, 0, "")
	if rif != "" {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, tr(rif), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Venta N° %d", venta.Numero)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venta.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr(venta.Cliente.Nombre+" ("+venta.Cliente.Documento+")"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	col1 := contentW * 0.50
	col2 := contentW * 0.20
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		prod := ""
		if d.Producto != nil {
			prod = d.Producto.Nombre
		}
		if len(prod) > 24 {
			prod = prod[:23] + "."
		}
		cant := d.Cantidad.String()
		if d.UnidadVenta != nil {
			cant += " " + d.UnidadVenta.Nombre
		}
		pdf.CellFormat(col1, 5, tr(prod), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, tr(cant), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL USD:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.TotalUSD.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, p := range venta.Pagos {
		label := fmt.Sprintf("Pago %s (%s):", p.Moneda, p.MetodoPago)
		monto := p.Monto.StringFixed(2) + " " + p.Moneda
		if p.TasaCambio != nil && p.Moneda == "VES" {
			label = fmt.Sprintf("Pago VES @%s (%s):", p.TasaCambio.TasaBCV.StringFixed(2), p.MetodoPago)
		}
		pdf.CellFormat(col1+col2, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, monto, "", 1, "R", false, 0, "")
	}

	pendiente := venta.Pendiente()
	if pendiente.IsPositive() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(col1+col2, 5, "Pendiente:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+pendiente.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
