package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/report"
)

func TestReportService(t *testing.T) {
	tasks := newFakeTaskRepo()
	users := &fakeUserRepo{}
	ctx := context.Background()

	employee := &domain.User{Name: "Grace", Surname: "Hopper", PhoneNumber: "1"}
	require.NoError(t, users.Create(ctx, employee))

	for _, task := range []domain.Task{
		{TaskID: "early", ManagerID: "m-1", EmployeeID: employee.ID, EndTime: windowStart, Done: true},
		{TaskID: "late", ManagerID: "m-1", EmployeeID: employee.ID, EndTime: windowEnd, Done: true},
		{TaskID: "open", ManagerID: "m-1", EndTime: windowEnd},
		{TaskID: "foreign", ManagerID: "m-2", EndTime: windowEnd, Done: true},
	} {
		task := task
		require.NoError(t, tasks.Create(ctx, &task))
	}

	svc := NewReportService(tasks, users)

	done, err := svc.CompletedTasks(ctx, "m-1")
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.Equal(t, "late", done[0].TaskID)
	assert.Equal(t, "early", done[1].TaskID)

	data, err := svc.ExportTaskReport(ctx, "m-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.TaskSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Contains(t, rows[1], "Grace Hopper")
}
