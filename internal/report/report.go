package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Data holds the fields rendered into a wellness report.
type Data struct {
	Nombre          string
	Apellido        string
	Edad            int
	Genero          string
	Diagnostico     string
	Recomendaciones string
}

// Generator renders diagnosis reports as A4 PDF documents.
type Generator struct {
	CompanyName  string
	ContactEmail string
	ContactPhone string
}

func NewGenerator() *Generator {
	return &Generator{
		CompanyName:  "Bienestar Natural",
		ContactEmail: "contacto@bienestarnatural.ec",
		ContactPhone: "+593 99 999 9999",
	}
}

// Build renders the report and returns the PDF bytes.
func (g *Generator) Build(data Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Encabezado
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 10, tr("DIAGNÓSTICO DE BIENESTAR"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Fecha: %s", time.Now().Format("02/01/2006"))), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Datos personales
	g.sectionTitle(pdf, tr, "DATOS PERSONALES")
	rows := [][2]string{
		{"Nombre", fmt.Sprintf("%s %s", data.Nombre, data.Apellido)},
		{"Edad", fmt.Sprintf("%d", data.Edad)},
		{"Género", data.Genero},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(243, 244, 246)
		pdf.CellFormat(45, 8, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Diagnóstico
	g.sectionTitle(pdf, tr, "DIAGNÓSTICO")
	g.bodyText(pdf, tr, data.Diagnostico, "No se generó un diagnóstico.")
	pdf.Ln(4)

	// Recomendaciones
	g.sectionTitle(pdf, tr, "RECOMENDACIONES")
	g.bodyText(pdf, tr, data.Recomendaciones, "No se generaron recomendaciones específicas.")
	pdf.Ln(10)

	// Pie de página
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s - %s - %s", g.CompanyName, g.ContactEmail, g.ContactPhone)), "T", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("Este diagnóstico es informativo y no sustituye la consulta con un profesional de la salud."), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) sectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.Ln(2)
}

func (g *Generator) bodyText(pdf *gofpdf.Fpdf, tr func(string) string, text, fallback string) {
	if text == "" {
		text = fallback
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
}
