package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsp-platform/timetable-api/internal/dto"
	"github.com/fsp-platform/timetable-api/internal/service"
	appErrors "github.com/fsp-platform/timetable-api/pkg/errors"
	"github.com/fsp-platform/timetable-api/pkg/response"
)

type timetableGenerator interface {
	Generate(req *dto.GenerateTimetableRequest) (*dto.TimetableDocument, []dto.ValidationProblem, error)
	Get(id, program string) (*dto.TimetableDocument, error)
}

type scheduleExporter interface {
	Render(doc *dto.TimetableDocument, format service.ExportFormat) ([]byte, string, error)
}

// TimetableHandler exposes the scheduling endpoints.
type TimetableHandler struct {
	timetables timetableGenerator
	exports    scheduleExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(timetables *service.TimetableService, exports *service.ExportService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, exports: exports}
}

// Create accepts an input document, runs the engine and returns the stored
// schedule. Partial schedules still return 201 with the failures listed.
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}

	doc, problems, err := h.timetables.Generate(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(problems) > 0 {
		response.JSON(c, http.StatusBadRequest, gin.H{"problems": problems})
		return
	}
	response.Created(c, doc)
}

// Get returns a stored schedule, optionally filtered to one program via
// the "program" query parameter.
func (h *TimetableHandler) Get(c *gin.Context) {
	doc, err := h.timetables.Get(c.Param("id"), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc)
}

// Export streams a stored schedule in the requested format.
func (h *TimetableHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Param("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	doc, err := h.timetables.Get(c.Param("id"), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, filename, err := h.exports.Render(doc, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), payload)
}
