package model

import "time"

// SurveyRecord is one stored survey joined with its diagnosis.
type SurveyRecord struct {
	ID                int       `json:"id"`
	UsuarioID         int       `json:"usuario_id"`
	Nombre            string    `json:"nombre"`
	Apellido          string    `json:"apellido"`
	Telefono          string    `json:"telefono"`
	Correo            string    `json:"correo"`
	Edad              int       `json:"edad"`
	Peso              float64   `json:"peso"`
	Estatura          float64   `json:"estatura"`
	PresionArterial   string    `json:"presion_arterial"`
	Pulso             int       `json:"pulso"`
	NivelEnergia      int       `json:"nivel_energia"`
	Sintomas          []string  `json:"sintomas"`
	Observaciones     string    `json:"observaciones"`
	NombreEncuestador string    `json:"nombre_encuestador"`
	EncuestadorID     string    `json:"encuestador_id"`
	Diagnostico       string    `json:"diagnostico"`
	Recomendaciones   string    `json:"recomendaciones"`
	Fecha             time.Time `json:"fecha"`
}

// Lead is one outbound campaign message with its audit trail id.
type Lead struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	Phone     string    `json:"phone"`
	AuditID   string    `json:"audit_id"`
	CreatedAt time.Time `json:"created_at"`
}
