package service

import (
	"context"
	"errors"
	"testing"

	"diagwa/internal/model"
	"diagwa/internal/report"
	"diagwa/internal/service/ai"
	"diagwa/internal/transport"
)

type fakeBuilder struct {
	err   error
	built []report.Data
}

func (f *fakeBuilder) Build(data report.Data) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.built = append(f.built, data)
	return []byte("%PDF-fake"), nil
}

type fakeStore struct {
	saved     []*model.SurveyRecord
	leads     []*model.Lead
	saveError error
}

func (f *fakeStore) SaveSurvey(ctx context.Context, rec *model.SurveyRecord) (int, error) {
	if f.saveError != nil {
		return 0, f.saveError
	}
	f.saved = append(f.saved, rec)
	return len(f.saved), nil
}

func (f *fakeStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	f.leads = append(f.leads, lead)
	return nil
}

type fakeOracle struct {
	assessment *ai.Assessment
	err        error
	block      bool
	calls      int
}

func (f *fakeOracle) Assess(ctx context.Context, profile ai.HealthProfile) (*ai.Assessment, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.assessment, nil
}

type fakeTransport struct {
	texts        []string
	documents    []string
	textError    error
	docError     error
	docUnsupport bool
}

func (f *fakeTransport) SendText(ctx context.Context, message, phone string) (*transport.SendResult, error) {
	if f.textError != nil {
		return nil, f.textError
	}
	f.texts = append(f.texts, message)
	return &transport.SendResult{MessageID: "text-1"}, nil
}

func (f *fakeTransport) SendDocument(ctx context.Context, phone string, data []byte, fileName, caption string) (*transport.SendResult, error) {
	if f.docError != nil {
		return nil, f.docError
	}
	if f.docUnsupport {
		return &transport.SendResult{Unsupported: true, Detail: "no media support"}, nil
	}
	f.documents = append(f.documents, fileName)
	return &transport.SendResult{MessageID: "doc-1"}, nil
}

func validVitals() *Vitals {
	return &Vitals{
		Nombre:          "Ana",
		Apellido:        "García",
		Telefono:        "5551234567",
		Edad:            34,
		Peso:            62.5,
		Estatura:        1.65,
		PresionArterial: "120/80",
		Pulso:           72,
		NivelEnergia:    6,
		Sintomas:        []string{"fatiga"},
	}
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Vitals)
		field  string
	}{
		{"missing name", func(v *Vitals) { v.Nombre = " " }, "nombre"},
		{"missing phone", func(v *Vitals) { v.Telefono = "" }, "telefono"},
		{"no symptoms", func(v *Vitals) { v.Sintomas = nil }, "sintomas"},
		{"age too high", func(v *Vitals) { v.Edad = 130 }, "edad"},
		{"negative age", func(v *Vitals) { v.Edad = -1 }, "edad"},
		{"zero weight", func(v *Vitals) { v.Peso = 0 }, "peso"},
		{"zero height", func(v *Vitals) { v.Estatura = 0 }, "estatura"},
		{"pulse too low", func(v *Vitals) { v.Pulso = 20 }, "pulso"},
		{"pulse too high", func(v *Vitals) { v.Pulso = 250 }, "pulso"},
		{"energy out of scale", func(v *Vitals) { v.NivelEnergia = 11 }, "nivel_energia"},
		{"energy zero", func(v *Vitals) { v.NivelEnergia = 0 }, "nivel_energia"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validVitals()
			tc.mutate(v)

			err := v.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}

	if err := validVitals().Validate(); err != nil {
		t.Errorf("valid vitals rejected: %v", err)
	}
}

func TestProcessPersistsAndDeliversText(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{assessment: &ai.Assessment{Diagnostico: "diag", Recomendaciones: "reco"}}
	tr := &fakeTransport{}
	svc := NewSurveyService(store, oracle, tr)

	res, err := svc.Process(context.Background(), validVitals(), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.SurveyID != 1 {
		t.Errorf("survey id = %d", res.SurveyID)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d surveys, want 1", len(store.saved))
	}
	if store.saved[0].Diagnostico != "diag" || store.saved[0].Recomendaciones != "reco" {
		t.Error("assessment not persisted with the survey")
	}
	if len(tr.texts) != 1 {
		t.Fatalf("sent %d texts, want 1", len(tr.texts))
	}
	if res.Delivery == nil || res.Delivery.MessageID != "text-1" {
		t.Errorf("delivery = %+v", res.Delivery)
	}
}

func TestProcessOracleTimeoutIsNotPersisted(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{block: true}
	svc := NewSurveyService(store, oracle, &fakeTransport{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Process(ctx, validVitals(), nil)
	if err == nil {
		t.Fatal("expected error from cancelled assessment")
	}
	if len(store.saved) != 0 {
		t.Error("survey persisted despite failed assessment")
	}
}

func TestProcessMapsDeadlineToOracleTimeout(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{err: context.DeadlineExceeded}
	svc := NewSurveyService(store, oracle, &fakeTransport{})

	_, err := svc.Process(context.Background(), validVitals(), nil)
	if !errors.Is(err, ErrOracleTimeout) {
		t.Errorf("error = %v, want ErrOracleTimeout", err)
	}
	if len(store.saved) != 0 {
		t.Error("survey persisted despite timeout")
	}
}

func TestProcessDocumentFallsBackToText(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{assessment: &ai.Assessment{Diagnostico: "d", Recomendaciones: "r"}}
	tr := &fakeTransport{docError: errors.New("upload failed")}
	svc := NewSurveyService(store, oracle, tr)

	res, err := svc.Process(context.Background(), validVitals(), []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(tr.texts) != 1 {
		t.Fatal("expected text fallback after document failure")
	}
	if res.Delivery == nil || res.Delivery.MessageID != "text-1" {
		t.Errorf("delivery = %+v", res.Delivery)
	}
}

func TestProcessUnsupportedDocumentFallsBackToText(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{assessment: &ai.Assessment{Diagnostico: "d", Recomendaciones: "r"}}
	tr := &fakeTransport{docUnsupport: true}
	svc := NewSurveyService(store, oracle, tr)

	if _, err := svc.Process(context.Background(), validVitals(), []byte("%PDF-")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(tr.texts) != 1 {
		t.Fatal("expected text fallback for unsupported document send")
	}
}

func TestProcessGeneratesReportForDocumentDelivery(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{assessment: &ai.Assessment{Diagnostico: "d", Recomendaciones: "r"}}
	tr := &fakeTransport{}
	builder := &fakeBuilder{}
	svc := NewSurveyService(store, oracle, tr)
	svc.Reports = builder

	res, err := svc.Process(context.Background(), validVitals(), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(builder.built) != 1 {
		t.Fatalf("built %d reports, want 1", len(builder.built))
	}
	if builder.built[0].Nombre != "Ana" || builder.built[0].Diagnostico != "d" {
		t.Errorf("report data = %+v", builder.built[0])
	}
	if len(tr.documents) != 1 || tr.documents[0] != "reporte-bienestar.pdf" {
		t.Fatalf("documents sent = %v, want the wellness report", tr.documents)
	}
	if len(tr.texts) != 0 {
		t.Error("text fallback used despite successful document delivery")
	}
	if res.Delivery == nil || res.Delivery.MessageID != "doc-1" {
		t.Errorf("delivery = %+v", res.Delivery)
	}
}

func TestProcessReportFailureDowngradesToText(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{assessment: &ai.Assessment{Diagnostico: "d", Recomendaciones: "r"}}
	tr := &fakeTransport{}
	svc := NewSurveyService(store, oracle, tr)
	svc.Reports = &fakeBuilder{err: errors.New("render failed")}

	res, err := svc.Process(context.Background(), validVitals(), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(tr.documents) != 0 {
		t.Error("document sent despite report render failure")
	}
	if len(tr.texts) != 1 {
		t.Fatal("expected text delivery when the report cannot be rendered")
	}
	if res.Delivery == nil || res.Delivery.MessageID != "text-1" {
		t.Errorf("delivery = %+v", res.Delivery)
	}
}

func TestProcessDeliveryFailureDoesNotFailSubmission(t *testing.T) {
	store := &fakeStore{}
	oracle := &fakeOracle{assessment: &ai.Assessment{Diagnostico: "d", Recomendaciones: "r"}}
	tr := &fakeTransport{textError: errors.New("socket closed")}
	svc := NewSurveyService(store, oracle, tr)

	res, err := svc.Process(context.Background(), validVitals(), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.DeliveryError == "" {
		t.Error("delivery error not reported in result")
	}
	if len(store.saved) != 1 {
		t.Error("survey should stay persisted when delivery fails")
	}
}

func TestLeadSendAndSave(t *testing.T) {
	store := &fakeStore{}
	tr := &fakeTransport{}
	svc := NewLeadService(store, tr)

	res, err := svc.SendAndSave(context.Background(), "hola", "5551234567", nil, "")
	if err != nil {
		t.Fatalf("SendAndSave: %v", err)
	}
	if len(store.leads) != 1 {
		t.Fatalf("saved %d leads, want 1", len(store.leads))
	}
	if store.leads[0].AuditID == "" {
		t.Error("lead saved without audit id")
	}
	if res.Send == nil || res.Send.MessageID != "text-1" {
		t.Errorf("send result = %+v", res.Send)
	}
}

func TestLeadDocumentUnsupportedFallsBackToText(t *testing.T) {
	store := &fakeStore{}
	tr := &fakeTransport{docUnsupport: true}
	svc := NewLeadService(store, tr)

	if _, err := svc.SendAndSave(context.Background(), "hola", "5551234567", []byte("%PDF-"), "promo.pdf"); err != nil {
		t.Fatalf("SendAndSave: %v", err)
	}
	if len(tr.texts) != 1 {
		t.Fatal("expected text fallback for unsupported document send")
	}
}
