package infra

// pdf.go: cash register closure report rendered with go-pdf/fpdf.
// One A4 page per closure with the period, per-channel totals and the list
// of swept payments. Saved to storagePath/cierre_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateCierrePDF renders the report of a closed cierre. Timestamps are
// printed in loc. Returns the path of the generated file.
func GenerateCierrePDF(cierre *model.Cierre, loc *time.Location, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%s.pdf", cierre.ID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Cierre de caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "ID "+cierre.ID.String(), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	apertura := cierre.FechaApertura.In(loc).Format("02/01/2006 15:04")
	cierreStr := "-"
	if cierre.FechaCierre != nil {
		cierreStr = cierre.FechaCierre.In(loc).Format("02/01/2006 15:04")
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Apertura: "+apertura+"    Cierre: "+cierreStr), "", 1, "L", false, 0, "")
	if cierre.Observacion != nil && *cierre.Observacion != "" {
		pdf.MultiCell(contentW, 5, tr("Observacion: "+*cierre.Observacion), "", "L", false)
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW, valueW := contentW*0.6, contentW*0.4
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, value, "", 1, "R", false, 0, "")
	}
	row("Monto inicial", "$"+cierre.MontoInicial.StringFixed(2), false)
	row("Efectivo", "$"+cierre.TotalEfectivo.StringFixed(2), false)
	row("Tarjeta", "$"+cierre.TotalTarjeta.StringFixed(2), false)
	row("Billetera", "$"+cierre.TotalBilletera.StringFixed(2), false)
	row("Descuentos", "-$"+cierre.TotalDescuento.StringFixed(2), false)
	row("TOTAL", "$"+cierre.Total().StringFixed(2), true)
	pdf.Ln(4)

	// ── Payments ─────────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.22, contentW * 0.26, contentW * 0.17, contentW * 0.17, contentW * 0.18}
	headers := []string{"Fecha", "Visita", "Efectivo", "Tarjeta", "Billetera"}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		align := "R"
		if i < 2 {
			align = "L"
		}
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(cols[i], 6, h, "B", ln, align, false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range cierre.Pagos {
		pdf.CellFormat(cols[0], 5, p.Fecha.In(loc).Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, p.VisitaID.String()[:8], "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, "$"+p.MontoEfectivo.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, "$"+p.MontoTarjeta.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, "$"+p.MontoBilletera.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%d pagos incluidos", len(cierre.Pagos)), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
