package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"diagwa/internal/model"
	"diagwa/internal/service"
)

// SurveyHandler exposes the survey pipeline and the stored results.
type SurveyHandler struct {
	Service *service.SurveyService
	Repo    *model.Repository
}

func NewSurveyHandler(svc *service.SurveyService, repo *model.Repository) *SurveyHandler {
	return &SurveyHandler{Service: svc, Repo: repo}
}

// Submit runs the full pipeline for one survey. POST /survey
func (h *SurveyHandler) Submit(c echo.Context) error {
	var vitals service.Vitals
	if err := c.Bind(&vitals); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	result, err := h.Service.Process(c.Request().Context(), &vitals, nil)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return ErrorResponse(c, http.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", verr.Error())
		case errors.Is(err, service.ErrOracleTimeout):
			return ErrorResponse(c, http.StatusInternalServerError,
				"La solicitud tardó demasiado tiempo. Por favor, intente nuevamente.", "AI_TIMEOUT", "")
		default:
			return ErrorResponse(c, http.StatusInternalServerError, "Failed to process survey", "SURVEY_FAILED", err.Error())
		}
	}

	data := map[string]interface{}{
		"encuesta_id":     result.SurveyID,
		"diagnostico":     result.Diagnostico,
		"recomendaciones": result.Recomendaciones,
	}
	if result.Delivery != nil {
		data["envio"] = map[string]interface{}{
			"message_id":  result.Delivery.MessageID,
			"unsupported": result.Delivery.Unsupported,
		}
	}
	if result.DeliveryError != "" {
		data["envio_error"] = result.DeliveryError
	}

	return SuccessResponse(c, http.StatusOK, "Survey processed successfully", data)
}

// List returns stored surveys, newest first. GET /api/surveys
func (h *SurveyHandler) List(c echo.Context) error {
	records, err := h.Repo.ListSurveys(c.Request().Context())
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to list surveys", "DB_ERROR", err.Error())
	}
	return SuccessResponse(c, http.StatusOK, "Surveys retrieved", map[string]interface{}{
		"total":   len(records),
		"surveys": records,
	})
}

// GetByID returns one survey. GET /api/surveys/:id
func (h *SurveyHandler) GetByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid survey id", "INVALID_ID", "")
	}

	rec, err := h.Repo.GetSurveyByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrorResponse(c, http.StatusNotFound, "Survey not found", "NOT_FOUND", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to load survey", "DB_ERROR", err.Error())
	}
	return SuccessResponse(c, http.StatusOK, "Survey retrieved", rec)
}

// Export streams all surveys as an Excel workbook. GET /api/surveys/export
func (h *SurveyHandler) Export(c echo.Context) error {
	records, err := h.Repo.ListSurveys(c.Request().Context())
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to list surveys", "DB_ERROR", err.Error())
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Encuestas"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to create Excel sheet", "EXCEL_ERROR", err.Error())
	}

	headers := []string{"ID", "Nombre", "Apellido", "Telefono", "Correo", "Edad", "Peso", "Estatura",
		"Presion Arterial", "Pulso", "Nivel Energia", "Sintomas", "Observaciones",
		"Encuestador", "Diagnostico", "Recomendaciones", "Fecha"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, rec := range records {
		row := i + 2
		values := []interface{}{
			rec.ID, rec.Nombre, rec.Apellido, rec.Telefono, rec.Correo, rec.Edad, rec.Peso,
			rec.Estatura, rec.PresionArterial, rec.Pulso, rec.NivelEnergia,
			strings.Join(rec.Sintomas, ", "), rec.Observaciones, rec.NombreEncuestador,
			rec.Diagnostico, rec.Recomendaciones, rec.Fecha.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("encuestas_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	return f.Write(c.Response().Writer)
}
