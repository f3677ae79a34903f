package ai

import (
	"context"
	"fmt"
	"strings"
)

// HealthProfile is the collected vitals handed to the assessment provider.
type HealthProfile struct {
	Nombre          string
	Edad            int
	Peso            float64
	Estatura        float64
	PresionArterial string
	Pulso           int
	NivelEnergia    int
	Sintomas        []string
	Observaciones   string
}

// Assessment is the two-part result produced by a provider.
type Assessment struct {
	Diagnostico     string
	Recomendaciones string
}

// Provider produces a preliminary wellness assessment from a profile.
type Provider interface {
	Assess(ctx context.Context, profile HealthProfile) (*Assessment, error)
}

// BMI returns the body mass index, or 0 when the height is missing.
func (p HealthProfile) BMI() float64 {
	if p.Estatura <= 0 {
		return 0
	}
	return p.Peso / (p.Estatura * p.Estatura)
}

const diagnosisSystemPrompt = "Eres un experto en bienestar y nutrición especializado en diagnósticos preliminares. Proporciona diagnósticos en formato de párrafo continuo, sin estructuras ni listas. Asegúrate de que cada diagnóstico se complete completamente y concluya con una recomendación clara sobre la necesidad de consultar a un profesional de la salud."

const recommendationsSystemPrompt = "Eres un experto en salud, bienestar y nutrición. Proporciona recomendaciones en formato de párrafo continuo, sin estructuras ni listas. Asegúrate de que cada recomendación se complete completamente y concluya con una nota positiva y motivadora."

func diagnosisPrompt(p HealthProfile) string {
	symptoms := make([]string, 0, len(p.Sintomas))
	for _, s := range p.Sintomas {
		symptoms = append(symptoms, "- "+s)
	}
	observations := p.Observaciones
	if observations == "" {
		observations = "Ninguna"
	}

	return fmt.Sprintf(`Como experto en bienestar y nutrición, analiza los siguientes datos del paciente y proporciona un diagnóstico detallado en formato de párrafo continuo:

**Datos del Paciente:**
- Edad: %d años
- Peso: %.1f kg
- Estatura: %.2f m
- IMC: %.2f
- Presión arterial: %s
- Pulso: %d
- Nivel de energía: %d/10

**Síntomas Reportados:**
%s

**Observaciones Adicionales:**
%s

Por favor, proporciona un diagnóstico detallado en formato de párrafo continuo que incluya:
1. Análisis de los síntomas reportados
2. Posibles condiciones relacionadas
3. Factores de riesgo identificados

IMPORTANTE:
- Escribe todo en un solo párrafo continuo
- No uses viñetas ni listas
- No uses títulos ni subtítulos
- Concluye con una recomendación clara sobre la necesidad de consultar a un profesional de la salud
- Mantén un tono profesional pero accesible
- No cortes el texto a mitad de una idea`,
		p.Edad, p.Peso, p.Estatura, p.BMI(), p.PresionArterial, p.Pulso, p.NivelEnergia,
		strings.Join(symptoms, "\n"), observations)
}

func recommendationsPrompt(diagnosis string) string {
	return fmt.Sprintf(`Basado en el siguiente diagnóstico, proporciona recomendaciones específicas y accionables en formato de párrafo continuo:

**Diagnóstico:**
%s

Por favor, proporciona recomendaciones que incluyan:
1. Cambios en el estilo de vida
2. Hábitos alimenticios recomendados
3. Actividad física sugerida
4. Suplementos o productos recomendados (si aplica)

IMPORTANTE:
- Escribe todo en un solo párrafo continuo
- No uses viñetas ni listas
- No uses títulos ni subtítulos
- Mantén un tono motivador y accesible
- No cortes el texto a mitad de una idea
- Concluye con una nota positiva y motivadora`, diagnosis)
}
