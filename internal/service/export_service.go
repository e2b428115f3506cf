package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/fsp-platform/timetable-api/internal/dto"
	"github.com/fsp-platform/timetable-api/internal/models"
	"github.com/fsp-platform/timetable-api/pkg/export"
	apperrors "github.com/fsp-platform/timetable-api/pkg/errors"
)

// ExportFormat names a supported download format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat maps a URL segment to an ExportFormat.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(raw)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

type csvRenderer interface {
	Render(rows []export.ScheduleRow) ([]byte, error)
}

type gridRenderer interface {
	Render(grids []*export.WeekGrid, title string) ([]byte, error)
}

// ExportService renders stored schedule documents into downloadable files.
type ExportService struct {
	csv    csvRenderer
	pdf    gridRenderer
	xlsx   gridRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf, xlsx gridRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, xlsx: xlsx, logger: logger}
}

// Render produces the file bytes and a suggested filename for the document.
func (s *ExportService) Render(doc *dto.TimetableDocument, format ExportFormat) ([]byte, string, error) {
	title := fmt.Sprintf("%s %s", doc.Metadata.Period, doc.Metadata.Year)
	filename := fmt.Sprintf("schedule_%s.%s", doc.ID, format)

	var payload []byte
	var err error
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(buildRows(doc))
	case FormatPDF:
		payload, err = s.pdf.Render(buildGrids(doc), title)
	case FormatXLSX:
		payload, err = s.xlsx.Render(buildGrids(doc), title)
	default:
		err = apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("schedule exported",
		zap.String("id", doc.ID),
		zap.String("format", string(format)),
		zap.Int("bytes", len(payload)),
	)
	return payload, filename, nil
}

// buildRows flattens the document into chronologically sorted CSV rows.
func buildRows(doc *dto.TimetableDocument) []export.ScheduleRow {
	type keyed struct {
		row   export.ScheduleRow
		index int
	}
	var rows []keyed
	for _, session := range doc.Sessions {
		group := ""
		if session.Group > 0 {
			group = fmt.Sprintf("%d", session.Group)
		}
		for _, meeting := range session.Meetings {
			day := lo.IndexOf(models.WeekdayNames, meeting.Weekday)
			slot := lo.IndexOf(models.SlotStartTimes, meeting.Start)
			rows = append(rows, keyed{
				row: export.ScheduleRow{
					Week:     meeting.Week,
					Weekday:  meeting.Weekday,
					Start:    meeting.Start,
					End:      meeting.End,
					Course:   session.Course,
					Kind:     session.Kind,
					Group:    group,
					Programs: strings.Join(session.Programs, " "),
					Teacher:  session.Teacher,
					Rooms:    strings.Join(meeting.Rooms, " "),
				},
				index: (meeting.Week*len(models.WeekdayNames)+day)*len(models.SlotStartTimes) + slot,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].index != rows[j].index {
			return rows[i].index < rows[j].index
		}
		return rows[i].row.Course < rows[j].row.Course
	})
	return lo.Map(rows, func(k keyed, _ int) export.ScheduleRow { return k.row })
}

// buildGrids lays the document out as one grid per week.
func buildGrids(doc *dto.TimetableDocument) []*export.WeekGrid {
	slots := make([]string, len(models.SlotStartTimes))
	for i := range slots {
		slots[i] = fmt.Sprintf("%s-%s", models.SlotStartTimes[i], models.SlotEndTimes[i])
	}

	grids := make([]*export.WeekGrid, doc.Metadata.Weeks)
	for w := range grids {
		grids[w] = export.NewWeekGrid(w, models.WeekdayNames, slots)
	}

	for _, session := range doc.Sessions {
		label := session.Course
		if session.Group > 0 {
			label = fmt.Sprintf("%s g%d", label, session.Group)
		}
		for _, meeting := range session.Meetings {
			week := meeting.Week - 1
			if week < 0 || week >= len(grids) {
				continue
			}
			day := lo.IndexOf(models.WeekdayNames, meeting.Weekday)
			slot := lo.IndexOf(models.SlotStartTimes, meeting.Start)
			grids[week].Add(day, slot,
				fmt.Sprintf("%s %s", label, session.Kind),
				fmt.Sprintf("%s | %s", strings.Join(meeting.Rooms, " "), session.Teacher),
			)
		}
	}
	return grids
}
