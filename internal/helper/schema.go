package helper

import (
	"log"

	"diagwa/database"
)

// InitSchema creates the application tables. Run with --createschema.
// Table names follow the upstream wellness-survey schema.
func InitSchema() {
	db := database.AppDB

	surveySchema := `
        CREATE TABLE IF NOT EXISTS usuarios (
            usuario_id      SERIAL PRIMARY KEY,
            nombre          VARCHAR(255) NOT NULL,
            apellido        VARCHAR(255),
            telefono        VARCHAR(50),
            correo          VARCHAR(255),
            created_at      TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS encuestas (
            id                  SERIAL PRIMARY KEY,
            usuario_id          INT NOT NULL REFERENCES usuarios(usuario_id),
            nombre_encuestado   VARCHAR(255),
            telefono            VARCHAR(50),
            correo              VARCHAR(255),
            edad                INT,
            peso                NUMERIC(6,2),
            estatura            NUMERIC(4,2),
            presion_arterial    VARCHAR(20),
            pulso               INT,
            nivel_energia       INT,
            sintomas            TEXT,
            observaciones       TEXT,
            nombre_encuestador  VARCHAR(255),
            encuestador_id      VARCHAR(100),
            fecha               TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS diagnosticos (
            id              SERIAL PRIMARY KEY,
            usuario_id      INT NOT NULL REFERENCES usuarios(usuario_id),
            encuesta_id     INT NOT NULL REFERENCES encuestas(id),
            diagnostico     TEXT NOT NULL,
            recomendaciones TEXT NOT NULL,
            created_at      TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_encuestas_usuario_id ON encuestas(usuario_id);
        CREATE INDEX IF NOT EXISTS idx_encuestas_fecha ON encuestas(fecha);
        CREATE INDEX IF NOT EXISTS idx_diagnosticos_encuesta_id ON diagnosticos(encuesta_id);
    `
	if _, err := db.Exec(surveySchema); err != nil {
		log.Fatalf("failed to init survey schema: %v", err)
	}

	leadSchema := `
        CREATE TABLE IF NOT EXISTS leads (
            id          SERIAL PRIMARY KEY,
            message     TEXT NOT NULL,
            phone       VARCHAR(50) NOT NULL,
            audit_id    VARCHAR(64) UNIQUE,
            created_at  TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_leads_phone ON leads(phone);
    `
	if _, err := db.Exec(leadSchema); err != nil {
		log.Fatalf("failed to init lead schema: %v", err)
	}

	log.Println("Schema initialized")
}
