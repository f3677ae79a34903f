package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"diagwa/internal/model"
	"diagwa/internal/report"
	"diagwa/internal/service/ai"
	"diagwa/internal/transport"
)

const oracleTimeout = 30 * time.Second

// ErrOracleTimeout marks an assessment that did not finish within the
// allowed window. The survey is not persisted in that case.
var ErrOracleTimeout = errors.New("assessment provider timed out")

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Vitals is one survey submission. Field names follow the upstream schema.
type Vitals struct {
	Nombre            string   `json:"nombre"`
	Apellido          string   `json:"apellido"`
	Telefono          string   `json:"telefono"`
	Correo            string   `json:"correo"`
	Edad              int      `json:"edad"`
	Peso              float64  `json:"peso"`
	Estatura          float64  `json:"estatura"`
	PresionArterial   string   `json:"presion_arterial"`
	Pulso             int      `json:"pulso"`
	NivelEnergia      int      `json:"nivel_energia"`
	Sintomas          []string `json:"sintomas"`
	Observaciones     string   `json:"observaciones"`
	NombreEncuestador string   `json:"nombre_encuestador"`
	EncuestadorID     string   `json:"encuestador_id"`
}

// Validate checks required fields and plausible vital ranges.
func (v *Vitals) Validate() error {
	if strings.TrimSpace(v.Nombre) == "" {
		return &ValidationError{Field: "nombre", Message: "es requerido"}
	}
	if strings.TrimSpace(v.Telefono) == "" {
		return &ValidationError{Field: "telefono", Message: "es requerido"}
	}
	if len(v.Sintomas) == 0 {
		return &ValidationError{Field: "sintomas", Message: "se requiere al menos un síntoma"}
	}
	if v.Edad < 0 || v.Edad > 120 {
		return &ValidationError{Field: "edad", Message: "debe estar entre 0 y 120"}
	}
	if v.Peso <= 0 {
		return &ValidationError{Field: "peso", Message: "debe ser mayor que 0"}
	}
	if v.Estatura <= 0 {
		return &ValidationError{Field: "estatura", Message: "debe ser mayor que 0"}
	}
	if v.Pulso != 0 && (v.Pulso < 30 || v.Pulso > 200) {
		return &ValidationError{Field: "pulso", Message: "debe estar entre 30 y 200"}
	}
	if v.NivelEnergia < 1 || v.NivelEnergia > 10 {
		return &ValidationError{Field: "nivel_energia", Message: "debe estar entre 1 y 10"}
	}
	return nil
}

// SurveyStore is the persistence dependency of SurveyService.
type SurveyStore interface {
	SaveSurvey(ctx context.Context, rec *model.SurveyRecord) (int, error)
}

// ReportBuilder renders a diagnosis into a PDF for document delivery.
type ReportBuilder interface {
	Build(data report.Data) ([]byte, error)
}

// SurveyResult is returned after a successful submission.
type SurveyResult struct {
	SurveyID        int
	Diagnostico     string
	Recomendaciones string
	Delivery        *transport.SendResult
	DeliveryError   string
}

// SurveyService validates a submission, asks the assessment provider for a
// diagnosis, persists everything and delivers the result over WhatsApp.
type SurveyService struct {
	Store     SurveyStore
	Oracle    ai.Provider
	Transport transport.Transport

	// Reports, when set, renders the PDF sent on the document path. A
	// render failure downgrades delivery to text only.
	Reports ReportBuilder
}

func NewSurveyService(store SurveyStore, oracle ai.Provider, tr transport.Transport) *SurveyService {
	return &SurveyService{Store: store, Oracle: oracle, Transport: tr}
}

// Process runs the full survey pipeline. When report is non-empty it is
// delivered as a document with a text fallback; delivery failures are
// reported in the result but never fail the submission.
func (s *SurveyService) Process(ctx context.Context, v *Vitals, report []byte) (*SurveyResult, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	profile := ai.HealthProfile{
		Nombre:          v.Nombre,
		Edad:            v.Edad,
		Peso:            v.Peso,
		Estatura:        v.Estatura,
		PresionArterial: v.PresionArterial,
		Pulso:           v.Pulso,
		NivelEnergia:    v.NivelEnergia,
		Sintomas:        v.Sintomas,
		Observaciones:   v.Observaciones,
	}

	assessCtx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()

	assessment, err := s.Oracle.Assess(assessCtx, profile)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrOracleTimeout
		}
		return nil, fmt.Errorf("assessment failed: %w", err)
	}

	rec := &model.SurveyRecord{
		Nombre:            v.Nombre,
		Apellido:          v.Apellido,
		Telefono:          v.Telefono,
		Correo:            v.Correo,
		Edad:              v.Edad,
		Peso:              v.Peso,
		Estatura:          v.Estatura,
		PresionArterial:   v.PresionArterial,
		Pulso:             v.Pulso,
		NivelEnergia:      v.NivelEnergia,
		Sintomas:          v.Sintomas,
		Observaciones:     v.Observaciones,
		NombreEncuestador: v.NombreEncuestador,
		EncuestadorID:     v.EncuestadorID,
		Diagnostico:       assessment.Diagnostico,
		Recomendaciones:   assessment.Recomendaciones,
	}

	surveyID, err := s.Store.SaveSurvey(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("save survey: %w", err)
	}

	result := &SurveyResult{
		SurveyID:        surveyID,
		Diagnostico:     assessment.Diagnostico,
		Recomendaciones: assessment.Recomendaciones,
	}
	if len(report) == 0 && s.Reports != nil {
		report, err = s.Reports.Build(reportData(v, assessment))
		if err != nil {
			log.Printf("report generation failed, delivering text only: %v", err)
			report = nil
		}
	}

	s.deliver(ctx, v, assessment, report, result)
	return result, nil
}

func reportData(v *Vitals, a *ai.Assessment) report.Data {
	return report.Data{
		Nombre:          v.Nombre,
		Apellido:        v.Apellido,
		Edad:            v.Edad,
		Diagnostico:     a.Diagnostico,
		Recomendaciones: a.Recomendaciones,
	}
}

func (s *SurveyService) deliver(ctx context.Context, v *Vitals, assessment *ai.Assessment, report []byte, result *SurveyResult) {
	if s.Transport == nil {
		return
	}

	message := resultMessage(v.Nombre, assessment)

	if len(report) > 0 {
		sent, err := s.Transport.SendDocument(ctx, v.Telefono, report, "reporte-bienestar.pdf", message)
		if err == nil && !sent.Unsupported {
			result.Delivery = sent
			return
		}
		if err != nil {
			log.Printf("document delivery failed, falling back to text: %v", err)
		}
	}

	sent, err := s.Transport.SendText(ctx, message, v.Telefono)
	if err != nil {
		result.DeliveryError = err.Error()
		log.Printf("result delivery failed for %s: %v", v.Telefono, err)
		return
	}
	result.Delivery = sent
}

func resultMessage(nombre string, a *ai.Assessment) string {
	return fmt.Sprintf("Hola %s, este es el resultado de tu encuesta de bienestar.\n\n*Diagnóstico:*\n%s\n\n*Recomendaciones:*\n%s",
		nombre, a.Diagnostico, a.Recomendaciones)
}
