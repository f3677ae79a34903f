package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository persists surveys, diagnoses and leads in Postgres.
type Repository struct {
	DB *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// SaveSurvey stores the respondent, the survey answers and the generated
// diagnosis in one transaction. It returns the new survey id.
func (r *Repository) SaveSurvey(ctx context.Context, rec *SurveyRecord) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var usuarioID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO usuarios (nombre, apellido, telefono, correo)
         VALUES ($1, $2, $3, $4) RETURNING usuario_id`,
		rec.Nombre, rec.Apellido, rec.Telefono, rec.Correo,
	).Scan(&usuarioID)
	if err != nil {
		return 0, fmt.Errorf("insert usuario: %w", err)
	}

	sintomas, err := json.Marshal(rec.Sintomas)
	if err != nil {
		return 0, err
	}

	var encuestaID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO encuestas (usuario_id, nombre_encuestado, telefono, correo, edad, peso,
             estatura, presion_arterial, pulso, nivel_energia, sintomas, observaciones,
             nombre_encuestador, encuestador_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
         RETURNING id`,
		usuarioID, rec.Nombre+" "+rec.Apellido, rec.Telefono, rec.Correo, rec.Edad, rec.Peso,
		rec.Estatura, rec.PresionArterial, rec.Pulso, rec.NivelEnergia, string(sintomas),
		rec.Observaciones, rec.NombreEncuestador, rec.EncuestadorID,
	).Scan(&encuestaID)
	if err != nil {
		return 0, fmt.Errorf("insert encuesta: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO diagnosticos (usuario_id, encuesta_id, diagnostico, recomendaciones)
         VALUES ($1, $2, $3, $4)`,
		usuarioID, encuestaID, rec.Diagnostico, rec.Recomendaciones,
	)
	if err != nil {
		return 0, fmt.Errorf("insert diagnostico: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	rec.ID = encuestaID
	rec.UsuarioID = usuarioID
	return encuestaID, nil
}

const surveySelect = `
    SELECT e.id, e.usuario_id, u.nombre, COALESCE(u.apellido, ''), COALESCE(e.telefono, ''),
           COALESCE(e.correo, ''), COALESCE(e.edad, 0), COALESCE(e.peso, 0),
           COALESCE(e.estatura, 0), COALESCE(e.presion_arterial, ''), COALESCE(e.pulso, 0),
           COALESCE(e.nivel_energia, 0), COALESCE(e.sintomas, '[]'), COALESCE(e.observaciones, ''),
           COALESCE(e.nombre_encuestador, ''), COALESCE(e.encuestador_id, ''),
           COALESCE(d.diagnostico, ''), COALESCE(d.recomendaciones, ''), e.fecha
    FROM encuestas e
    JOIN usuarios u ON u.usuario_id = e.usuario_id
    LEFT JOIN diagnosticos d ON d.encuesta_id = e.id`

func scanSurvey(scan func(dest ...interface{}) error) (*SurveyRecord, error) {
	var rec SurveyRecord
	var sintomas string
	err := scan(&rec.ID, &rec.UsuarioID, &rec.Nombre, &rec.Apellido, &rec.Telefono,
		&rec.Correo, &rec.Edad, &rec.Peso, &rec.Estatura, &rec.PresionArterial, &rec.Pulso,
		&rec.NivelEnergia, &sintomas, &rec.Observaciones, &rec.NombreEncuestador,
		&rec.EncuestadorID, &rec.Diagnostico, &rec.Recomendaciones, &rec.Fecha)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sintomas), &rec.Sintomas); err != nil {
		// Older rows may hold plain text instead of a JSON array.
		rec.Sintomas = []string{sintomas}
	}
	return &rec, nil
}

// ListSurveys returns stored surveys, newest first.
func (r *Repository) ListSurveys(ctx context.Context) ([]*SurveyRecord, error) {
	rows, err := r.DB.QueryContext(ctx, surveySelect+` ORDER BY e.fecha DESC`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	var records []*SurveyRecord
	for rows.Next() {
		rec, err := scanSurvey(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetSurveyByID returns one survey, or sql.ErrNoRows when it does not exist.
func (r *Repository) GetSurveyByID(ctx context.Context, id int) (*SurveyRecord, error) {
	row := r.DB.QueryRowContext(ctx, surveySelect+` WHERE e.id = $1`, id)
	return scanSurvey(row.Scan)
}

// SaveLead stores one outbound campaign message.
func (r *Repository) SaveLead(ctx context.Context, lead *Lead) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO leads (message, phone, audit_id)
         VALUES ($1, $2, $3) RETURNING id, created_at`,
		lead.Message, lead.Phone, lead.AuditID,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}
