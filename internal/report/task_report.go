// Package report renders manager reports as Excel workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/facility-service/internal/domain"
)

// TaskSheetName is the worksheet holding completed tasks.
const TaskSheetName = "Completed Tasks"

// TaskReportHeader lists the report columns in order.
var TaskReportHeader = []string{
	"Task ID",
	"Title",
	"Employee",
	"Start",
	"End",
	"Status",
	"Condition",
	"Issues",
	"Safety Concern",
	"Cleanliness",
	"Satisfaction",
	"Image",
}

var taskColumnWidths = []float64{38, 28, 24, 20, 20, 12, 16, 40, 16, 14, 16, 50}

// BuildTaskReport renders tasks into an .xlsx workbook. employeeNames maps
// employee identifiers to display names; unknown identifiers are written as-is.
func BuildTaskReport(tasks []domain.Task, employeeNames map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(TaskSheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range TaskReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(TaskSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(TaskSheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(TaskSheetName, name, name, taskColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("set width %s: %w", name, err)
		}
	}

	for i := range tasks {
		task := &tasks[i]
		employee := task.EmployeeID
		if name, ok := employeeNames[task.EmployeeID]; ok && name != "" {
			employee = name
		}
		q := task.Questionnaire
		row := []any{
			task.TaskID,
			task.Title,
			employee,
			task.StartTime.UTC().Format("2006-01-02 15:04"),
			task.EndTime.UTC().Format("2006-01-02 15:04"),
			string(task.Status()),
			q.Condition,
			q.IssueNotes,
			q.SafetyConcern,
			q.Cleanliness,
			q.Satisfaction,
			task.ImageURL,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(TaskSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(TaskSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
