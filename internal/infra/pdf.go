package infra

// pdf.go — Closing-report PDF generation using go-pdf/fpdf.
// Renders a one-page A5 summary of a saved cuadre: branch header, the
// snapshotted totals block, the expense table, and the headline deposit
// figure. Everything is read from the persisted snapshot — the report of a
// historical cuadre never re-derives live branch state.

import (
	"fmt"
	"os"
	"path/filepath"

	"cuadrecaja/internal/model"
	"cuadrecaja/internal/money"

	"github.com/go-pdf/fpdf"
)

// GenerateCuadrePDF writes the closing report for a cuadre and returns the
// absolute path of the generated file.
func GenerateCuadrePDF(cuadre *model.Cuadre, sucursal *model.Sucursal, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cuadre_%s_%s.pdf", cuadre.Fecha, cuadre.SucursalID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, sucursal.Empresa, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Cuadre de Caja — %s (%s)", sucursal.Nombre, sucursal.Ubicacion), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, "Fecha: "+cuadre.Fecha, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(3)

	t := cuadre.Totales
	labelW := contentW * 0.62
	valueW := contentW * 0.38

	row := func(label string, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 5.5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5.5, value, "", 1, "R", false, 0, "")
	}

	// ── Totales ──────────────────────────────────────────────────────────────
	row("Efectivo físico (arqueo)", money.Format(t.TotalEfectivoFisico), false)
	row("Efectivo sistema (cierre)", money.Format(t.TotalEfectivoSistema), false)
	row(t.Etiqueta+" de efectivo", money.Format(t.DiferenciaAbs), true)
	row("Tarjeta físico / sistema", money.Format(t.TotalTarjetaFisico)+" / "+money.Format(t.TotalTarjetaSistema), false)
	row("Motorista físico / sistema", money.Format(t.TotalMotoristaFisico)+" / "+money.Format(t.TotalMotoristaSistema), false)
	row("Total gastos", money.Format(t.TotalGastos), false)
	row("Caja chica usada", money.Format(cuadre.CajaChicaUsada), false)
	row("Faltante pagado", money.Format(cuadre.FaltantePagado), false)
	row("Caja chica disponible al guardar", money.Format(cuadre.CajaChicaDisponibleAtSave), false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "TOTAL A DEPOSITAR", "T", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 7, money.Format(t.TotalADepositar), "T", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Gastos ───────────────────────────────────────────────────────────────
	if len(cuadre.Gastos) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		col1 := contentW * 0.30
		col2 := contentW * 0.45
		col3 := contentW * 0.25
		pdf.CellFormat(col1, 5.5, "Categoría", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5.5, "Descripción", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5.5, "Monto", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, g := range cuadre.Gastos {
			descripcion := g.Descripcion
			if len(descripcion) > 38 {
				descripcion = descripcion[:37] + "…"
			}
			pdf.CellFormat(col1, 5, g.Categoria, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, descripcion, "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 5, money.Format(g.Cantidad), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	// ── Comentario y pie ─────────────────────────────────────────────────────
	if cuadre.Comentario != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4.5, "Comentario: "+cuadre.Comentario, "", "L", false)
		pdf.Ln(1)
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Guardado por %s el %s",
		cuadre.CreatedBy.Username, cuadre.UpdatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
