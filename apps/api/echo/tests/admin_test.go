package tests

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enlift/backend/core/student"
	testutil "github.com/enlift/backend/tests"
)

type loginDenied struct {
	Error        string `json:"error"`
	AttemptsLeft int    `json:"attempts_left"`
}

// loginAttempt posts credentials carrying the interactive session ID and
// returns the recorder plus the (possibly newly assigned) session ID.
func loginAttempt(t *testing.T, ts *testServer, sessionID, username, password string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{"username": username, "password": password}))
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	rec := httptest.NewRecorder()
	ts.app.ServeHTTP(rec, req)
	return rec, rec.Header().Get("X-Session-Id")
}

func Test_adminApi_login(t *testing.T) {
	ts := newTestServer(t)

	t.Run("correct credentials", func(t *testing.T) {
		rec, sessionID := loginAttempt(t, ts, "", ts.conf.AdminUsername, ts.conf.AdminPassword)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, sessionID)

		var res struct {
			Token string `json:"token"`
		}
		decodeJSON(t, rec, &res)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("attempts counted per session", func(t *testing.T) {
		rec, sessionID := loginAttempt(t, ts, "", "arunava", "wrong")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var denied loginDenied
		decodeJSON(t, rec, &denied)
		assert.Equal(t, "incorrect username or password. 2 attempts left.", denied.Error)
		assert.Equal(t, 2, denied.AttemptsLeft)

		rec, _ = loginAttempt(t, ts, sessionID, "arunava", "wrong")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		decodeJSON(t, rec, &denied)
		assert.Equal(t, "incorrect username or password. 1 attempts left.", denied.Error)
		assert.Equal(t, 1, denied.AttemptsLeft)

		rec, _ = loginAttempt(t, ts, sessionID, "arunava", "wrong")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		decodeJSON(t, rec, &denied)
		assert.Equal(t, "too many failed attempts. Please try again later.", denied.Error)
		assert.Equal(t, 0, denied.AttemptsLeft)

		// no lockout: the counter simply starts over
		rec, _ = loginAttempt(t, ts, sessionID, "arunava", "wrong")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		decodeJSON(t, rec, &denied)
		assert.Equal(t, 2, denied.AttemptsLeft)

		// and the right password still gets in on the same session
		rec, _ = loginAttempt(t, ts, sessionID, ts.conf.AdminUsername, ts.conf.AdminPassword)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("unknown session gets a fresh counter", func(t *testing.T) {
		rec, first := loginAttempt(t, ts, "", "arunava", "wrong")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec, second := loginAttempt(t, ts, "", "arunava", "wrong")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEqual(t, first, second)

		var denied loginDenied
		decodeJSON(t, rec, &denied)
		assert.Equal(t, 2, denied.AttemptsLeft)
	})

	t.Run("missing credentials", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/admin/login", "", map[string]string{"username": "arunava"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		decodeJSON(t, rec, &fields)
		assert.Contains(t, fields, "password")
	})
}

func Test_adminApi_authRequired(t *testing.T) {
	ts := newTestServer(t)

	wantBody := `{"error":"admin login required"}`
	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/v1/admin/students"},
		{http.MethodGet, "/v1/admin/students/stats"},
		{http.MethodPut, "/v1/admin/students"},
		{http.MethodGet, "/v1/admin/students/export"},
		{http.MethodDelete, "/v1/admin/students"},
		{http.MethodPost, "/v1/admin/logout"},
	} {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := ts.request(t, tt.method, tt.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, wantBody, rec.Body.String())

			rec = ts.request(t, tt.method, tt.path, "bogus-token", nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func Test_adminApi_students(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	now := time.Now().UTC()
	asha := testutil.CreateStudent(t, ts.repo, "Asha Rao", "asha@example.com", "BCA - 1st Year", "BCA", 1, 19, student.StatusPending, now.AddDate(0, 0, -1))
	bala := testutil.CreateStudent(t, ts.repo, "Bala Iyer", "bala@example.com", "Class 12 - Science", "CBSE", 12, 17, student.StatusApproved, now)

	t.Run("list all", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/admin/students", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []student.Student
		decodeJSON(t, rec, &got)
		require.Len(t, got, 2)
		assert.Equal(t, bala.Email, got[0].Email) // most recent first
		assert.Equal(t, asha.Email, got[1].Email)
	})

	t.Run("filter by course and status", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/admin/students?course=BCA+-+1st+Year&status=pending", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []student.Student
		decodeJSON(t, rec, &got)
		require.Len(t, got, 1)
		assert.Equal(t, asha.Email, got[0].Email)
	})

	t.Run("filter by date", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/admin/students?date="+now.Format("2006-01-02"), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []student.Student
		decodeJSON(t, rec, &got)
		require.Len(t, got, 1)
		assert.Equal(t, bala.Email, got[0].Email)

		rec = ts.request(t, http.MethodGet, "/v1/admin/students?date=31-08-2026", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unbindable filter is an error, not an empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/students", bytes.NewBufferString(`{not json`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		ts.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/admin/students?status=completed", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("stats", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/admin/students/stats", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var res struct {
			Stats              student.Stats   `json:"stats"`
			CourseDistribution []student.Count `json:"course_distribution"`
			StatusDistribution []student.Count `json:"status_distribution"`
			WeeklyTrend        []student.Count `json:"weekly_trend"`
			AgeDistribution    []student.Count `json:"age_distribution"`
		}
		decodeJSON(t, rec, &res)
		assert.Equal(t, student.Stats{Total: 2, Today: 1, ActiveCourses: 2, Pending: 1}, res.Stats)
		assert.Len(t, res.CourseDistribution, 2)
		assert.Len(t, res.StatusDistribution, 2)
		assert.Len(t, res.WeeklyTrend, 2)
		assert.Len(t, res.AgeDistribution, 2)
	})

	t.Run("save edits", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/v1/admin/students", token, []student.Edit{
			{ID: asha.ID, Phone: asha.Phone, Board: asha.Board, Year: asha.Year, Age: asha.Age, Status: student.StatusApproved},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res map[string]string
		decodeJSON(t, rec, &res)
		assert.Equal(t, "Changes saved successfully!", res["success"])

		rec = ts.request(t, http.MethodGet, "/v1/admin/students?status=approved", token, nil)
		var got []student.Student
		decodeJSON(t, rec, &got)
		assert.Len(t, got, 2)
	})

	t.Run("save edits rejects invalid status", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/v1/admin/students", token, []student.Edit{
			{ID: asha.ID, Status: "archived"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/admin/students/export", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Regexp(t, `attachment; filename=enlift_students_\d{8}_\d{6}\.csv`, rec.Header().Get("Content-Disposition"))

		records, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3) // header + 2 rows
		assert.Equal(t, "id", records[0][0])
	})

	t.Run("clear all", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/v1/admin/students", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = ts.request(t, http.MethodDelete, "/v1/admin/students?confirm=delete", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = ts.request(t, http.MethodDelete, "/v1/admin/students?confirm=DELETE", token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.request(t, http.MethodGet, "/v1/admin/students", token, nil)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("logout invalidates the token", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/admin/logout", token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.request(t, http.MethodGet, "/v1/admin/students", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
