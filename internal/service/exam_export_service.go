package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"edu_exam_backend/internal/repository"
	"edu_exam_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

const (
	ExportFormatExcel = "EXCEL"
	ExportFormatCSV   = "CSV"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
	resultsSheet    = "Results"
)

// ExportRequest 未传的列开关默认导出
type ExportRequest struct {
	Format               string `json:"format"`
	IncludeEmail         *bool  `json:"includeEmail"`
	IncludeAttemptNumber *bool  `json:"includeAttemptNumber"`
	IncludeScore         *bool  `json:"includeScore"`
	IncludePercentage    *bool  `json:"includePercentage"`
	IncludePassed        *bool  `json:"includePassed"`
	IncludeTimeSpent     *bool  `json:"includeTimeSpent"`
	IncludeSubmittedAt   *bool  `json:"includeSubmittedAt"`
	IncludeStatus        *bool  `json:"includeStatus"`
}

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type exportColumn struct {
	header string
	value  func(r *repository.AttemptExportRow) interface{}
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

func (r *ExportRequest) columns() []exportColumn {
	cols := []exportColumn{{"Student Name", func(r *repository.AttemptExportRow) interface{} { return r.StudentName }}}
	add := func(on *bool, header string, value func(r *repository.AttemptExportRow) interface{}) {
		if enabled(on) {
			cols = append(cols, exportColumn{header, value})
		}
	}
	add(r.IncludeEmail, "Email", func(r *repository.AttemptExportRow) interface{} { return r.StudentEmail })
	add(r.IncludeAttemptNumber, "Attempt #", func(r *repository.AttemptExportRow) interface{} { return r.AttemptNumber })
	add(r.IncludeScore, "Score", func(r *repository.AttemptExportRow) interface{} { return r.TotalScore.InexactFloat64() })
	add(r.IncludePercentage, "Percentage", func(r *repository.AttemptExportRow) interface{} { return r.PercentageScore.InexactFloat64() })
	add(r.IncludePassed, "Passed", func(r *repository.AttemptExportRow) interface{} {
		if r.IsPassed {
			return "Yes"
		}
		return "No"
	})
	add(r.IncludeTimeSpent, "Time Spent (s)", func(r *repository.AttemptExportRow) interface{} { return r.TimeSpentSeconds })
	add(r.IncludeSubmittedAt, "Submitted At", func(r *repository.AttemptExportRow) interface{} {
		if r.SubmittedAt == nil {
			return ""
		}
		return r.SubmittedAt.Format(util.TimeFormat)
	})
	add(r.IncludeStatus, "Status", func(r *repository.AttemptExportRow) interface{} { return string(r.Status) })
	return cols
}

type ExamExportService struct {
	ExamRepo    ExamStore
	AttemptRepo AttemptStore
	now         func() time.Time
}

func NewExamExportService(examRepo ExamStore, attemptRepo AttemptStore) *ExamExportService {
	return &ExamExportService{ExamRepo: examRepo, AttemptRepo: attemptRepo, now: time.Now}
}

// ExportResults 导出考试成绩，每次作答一行，按学生姓名和作答序号排序
func (s *ExamExportService) ExportResults(ctx context.Context, lecturerID, examID uint, req *ExportRequest) (*ExportFile, error) {
	format := strings.ToUpper(strings.TrimSpace(req.Format))
	if format == "" {
		format = ExportFormatExcel
	}
	if format != ExportFormatExcel && format != ExportFormatCSV {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, req.Format)
	}

	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsOwnedBy(lecturerID) {
		return nil, fmt.Errorf("%w: only the exam creator can export results", util.ErrPermissionDenied)
	}

	rows, err := s.AttemptRepo.ListForExport(ctx, examID)
	if err != nil {
		return nil, err
	}

	cols := req.columns()
	base := fmt.Sprintf("exam_%d_results_%s", examID, s.now().Format("20060102150405"))
	if format == ExportFormatCSV {
		data, err := writeCSV(cols, rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{FileName: base + ".csv", ContentType: contentTypeCSV, Data: data}, nil
	}

	data, err := writeExcel(cols, rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{FileName: base + ".xlsx", ContentType: contentTypeXLSX, Data: data}, nil
}

func writeExcel(cols []exportColumn, rows []repository.AttemptExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, col.header); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(resultsSheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for r := range rows {
		for i, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(resultsSheet, cell, col.value(&rows[r])); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeCSV 带 UTF-8 BOM，Excel 打开时中文姓名不乱码
func writeCSV(cols []exportColumn, rows []repository.AttemptExportRow) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for r := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = csvValue(col.value(&rows[r]))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	default:
		return fmt.Sprint(x)
	}
}
