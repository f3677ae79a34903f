package report

import (
	"bytes"
	"testing"
)

func TestBuildProducesPDF(t *testing.T) {
	gen := NewGenerator()
	pdf, err := gen.Build(Data{
		Nombre:          "María",
		Apellido:        "Vásquez",
		Edad:            34,
		Genero:          "femenino",
		Diagnostico:     "Posible fatiga relacionada con el estrés.",
		Recomendaciones: "Dormir 8 horas.\n\nBeber suficiente agua durante el día.",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", pdf[:min(8, len(pdf))])
	}
	if len(pdf) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(pdf))
	}
}

func TestBuildFillsMissingSections(t *testing.T) {
	gen := NewGenerator()
	pdf, err := gen.Build(Data{Nombre: "Juan", Edad: 50})
	if err != nil {
		t.Fatalf("Build with empty diagnosis: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("empty PDF output")
	}
}
