package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/keylock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	reportsvc "github.com/cmlabs-hris/attendance-engine/internal/service/report"
)

var wib = time.FixedZone("WIB", 7*60*60)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	store   *memory.RecordStore
	now     time.Time
}

// newTestServer wires the router over the memory store. The attendance clock
// is fixed at 08:55 on today's date so report queries stay within bounds.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	today := timecalc.StartOfDay(time.Now().In(wib))
	now := timecalc.MustClock("08:55").On(today)

	sched := schedule.Default()
	sched.WorkingDays = []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
	}
	directory := memory.NewDirectory([]employee.Employee{
		{ID: "EMP-1", FullName: "Budi Santoso", Department: "engineering", Schedule: sched, IsActive: true},
		{ID: "EMP-9", FullName: "Former Staff", Department: "finance", Schedule: sched, IsActive: false},
	}, nil)

	store := memory.NewRecordStore()
	hub := sse.NewHub()
	bounds := attendance.QueryBounds{MaxDaysBack: 365, MaxDaysForward: 30}

	svc := attendancesvc.NewAttendanceService(
		store,
		directory,
		policy.Static{Global: policy.Default()},
		bounds,
		keylock.NewKeyedMutex(50*time.Millisecond),
		attendancesvc.WithClock(func() time.Time { return now }),
		attendancesvc.WithLocation(wib),
		attendancesvc.WithPublisher(sse.NewPublisher(hub)),
	)
	reports := reportsvc.NewReportService(store, bounds, wib)

	router := NewRouter(
		RouterOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		NewAttendanceHandler(svc, hub),
		NewReportHandler(reports),
	)
	return &testServer{handler: router, store: store, now: now}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) date() string {
	return s.now.Format(attendance.DateLayout)
}

func TestAttendanceHandler_CheckIn_Success(t *testing.T) {
	// Setup
	srv := newTestServer(t)

	// Act
	rec, env := srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	var data attendance.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, attendance.StateCheckedIn, data.State)
	assert.Equal(t, srv.date(), data.Date)
	assert.Equal(t, attendance.StatusPartial, data.Status)
}

func TestAttendanceHandler_ClockErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed body", "/api/v1/attendance/check-in", `{`, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing employee", "/api/v1/attendance/check-in", `{}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown employee", "/api/v1/attendance/check-in", `{"employeeId":"EMP-404"}`, http.StatusNotFound, "NOT_FOUND"},
		{"inactive employee", "/api/v1/attendance/check-in", `{"employeeId":"EMP-9"}`, http.StatusForbidden, "FORBIDDEN"},
		{"check out before check in", "/api/v1/attendance/check-out", `{"employeeId":"EMP-1"}`, http.StatusConflict, "INVALID_TRANSITION"},
		{"end break without break", "/api/v1/attendance/break/end", `{"employeeId":"EMP-1"}`, http.StatusConflict, "INVALID_TRANSITION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec, env := srv.do(t, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestAttendanceHandler_CheckIn_Twice(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Act
	rec, env := srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)
	assert.Equal(t, string(attendance.StateCheckedIn), env.Error.Details["state"])
	assert.Equal(t, string(attendance.ActionCheckIn), env.Error.Details["action"])
}

func TestAttendanceHandler_GetRecord(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Act
	found, env := srv.do(t, http.MethodGet, "/api/v1/attendance/EMP-1/"+srv.date(), "")
	missing, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/EMP-2/"+srv.date(), "")
	badDate, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/EMP-1/yesterday", "")

	// Assert
	assert.Equal(t, http.StatusOK, found.Code)
	var data attendance.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "EMP-1", data.EmployeeID)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, badDate.Code)
}

func TestAttendanceHandler_Correct(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Act
	rec, env := srv.do(t, http.MethodPut, "/api/v1/attendance/EMP-1/"+srv.date(),
		`{"checkIn":"08:00","checkOut":"17:00","breakStart":"12:00","breakEnd":"13:00"}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	var data attendance.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.IsManualEntry)
	assert.Equal(t, 8.0, data.WorkingHours)
	assert.Equal(t, attendance.StateCheckedOut, data.State)
}

func TestAttendanceHandler_Correct_EmptyBody(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPut, "/api/v1/attendance/EMP-1/"+srv.date(), `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "body")
}

func TestAttendanceHandler_ApproveAndMarkStatus(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Act
	approved, approvedEnv := srv.do(t, http.MethodPost, "/api/v1/attendance/EMP-1/"+srv.date()+"/approve", `{"approvedBy":"HR-1"}`)
	marked, markedEnv := srv.do(t, http.MethodPut, "/api/v1/attendance/EMP-1/"+srv.date()+"/status", `{"status":"sick_leave"}`)
	rejected, _ := srv.do(t, http.MethodPut, "/api/v1/attendance/EMP-1/"+srv.date()+"/status", `{"status":"present"}`)

	// Assert
	assert.Equal(t, http.StatusOK, approved.Code)
	var a attendance.RecordResponse
	require.NoError(t, json.Unmarshal(approvedEnv.Data, &a))
	require.NotNil(t, a.ApprovedBy)
	assert.Equal(t, "HR-1", *a.ApprovedBy)

	assert.Equal(t, http.StatusOK, marked.Code)
	var m attendance.RecordResponse
	require.NoError(t, json.Unmarshal(markedEnv.Data, &m))
	assert.Equal(t, attendance.StatusSickLeave, m.Status)

	assert.Equal(t, http.StatusUnprocessableEntity, rejected.Code)
}

func TestAttendanceHandler_List(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Act
	rec, env := srv.do(t, http.MethodGet, "/api/v1/attendance?employee_name=budi&limit=10", "")
	bad, badEnv := srv.do(t, http.MethodGet, "/api/v1/attendance?include_weekends=maybe&page=x", "")

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	var data attendance.ListRecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(1), data.TotalCount)
	assert.Equal(t, 10, data.Limit)
	require.Len(t, data.Records, 1)

	assert.Equal(t, http.StatusUnprocessableEntity, bad.Code)
	require.NotNil(t, badEnv.Error)
	assert.Contains(t, badEnv.Error.Details, "include_weekends")
	assert.Contains(t, badEnv.Error.Details, "page")
}

func TestAttendanceHandler_Stream(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	server := httptest.NewServer(srv.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/attendance/stream?employee_id=EMP-1", nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if name, ok := strings.CutPrefix(strings.TrimSpace(line), "event: "); ok {
				return name
			}
		}
	}
	require.Equal(t, "connected", readEvent())

	// Act
	checkIn, err := server.Client().Post(server.URL+"/api/v1/attendance/check-in", "application/json", strings.NewReader(`{"employeeId":"EMP-1"}`))
	require.NoError(t, err)
	checkIn.Body.Close()

	// Assert
	assert.Equal(t, sse.EventRecordChanged, readEvent())
}

func TestReportHandler_Summary(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)
	srv.do(t, http.MethodPut, "/api/v1/attendance/EMP-1/"+srv.date(), `{"checkOut":"17:00"}`)

	// Act
	rec, env := srv.do(t, http.MethodGet, "/api/v1/reports/summary?window=daily&department=engineering", "")
	bad, _ := srv.do(t, http.MethodGet, "/api/v1/reports/summary?window=hourly", "")

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Summary struct {
			TotalDays   int `json:"totalDays"`
			PresentDays int `json:"presentDays"`
		} `json:"summary"`
		Periods []struct {
			Period string `json:"period"`
		} `json:"periods"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Summary.TotalDays)
	assert.Equal(t, 1, data.Summary.PresentDays)
	require.Len(t, data.Periods, 1)
	assert.Equal(t, srv.date(), data.Periods[0].Period)

	assert.Equal(t, http.StatusUnprocessableEntity, bad.Code)
}

func TestReportHandler_Export(t *testing.T) {
	// Setup
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/attendance/check-in", `{"employeeId":"EMP-1"}`)

	// Act
	csvRec, _ := srv.do(t, http.MethodGet, "/api/v1/reports/export?format=csv", "")
	xlsxRec, _ := srv.do(t, http.MethodGet, "/api/v1/reports/export?format=xlsx", "")
	pdfRec, pdfEnv := srv.do(t, http.MethodGet, "/api/v1/reports/export?format=pdf", "")

	// Assert
	assert.Equal(t, http.StatusOK, csvRec.Code)
	assert.Contains(t, csvRec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, csvRec.Body.String(), "EMP-1")

	assert.Equal(t, http.StatusOK, xlsxRec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsxRec.Header().Get("Content-Type"))
	assert.NotZero(t, xlsxRec.Body.Len())

	assert.Equal(t, http.StatusUnprocessableEntity, pdfRec.Code)
	require.NotNil(t, pdfEnv.Error)
	assert.Contains(t, pdfEnv.Error.Details, "format")
}
