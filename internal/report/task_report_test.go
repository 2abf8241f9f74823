package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/facility-service/internal/domain"
)

func TestBuildTaskReport(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{
			TaskID:     "t-1",
			Title:      "Lobby",
			EmployeeID: "e-1",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Done:       true,
			Questionnaire: domain.Questionnaire{
				Condition:     "As expected",
				SafetyConcern: "Yes",
			},
		},
		{TaskID: "t-2", Title: "Kitchen", EmployeeID: "e-2", StartTime: start, EndTime: start, Done: true},
	}

	data, err := BuildTaskReport(tasks, map[string]string{"e-1": "Ada Lovelace"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TaskSheetName}, f.GetSheetList())

	rows, err := f.GetRows(TaskSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, TaskReportHeader, rows[0])
	assert.Equal(t, "Ada Lovelace", rows[1][2])
	assert.Equal(t, "2026-03-02 10:00", rows[1][4])
	assert.Equal(t, "critical", rows[1][5])
	assert.Equal(t, "e-2", rows[2][2])
	assert.Equal(t, "urgent", rows[2][5])
}
