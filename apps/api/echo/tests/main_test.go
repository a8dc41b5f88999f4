package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/enlift/backend/apps/api/echo"
	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/contact"
	"github.com/enlift/backend/core/student"
	emailsvc "github.com/enlift/backend/services/email"
	logsvc "github.com/enlift/backend/services/logger"
	"github.com/enlift/backend/storage/database"
	"github.com/enlift/backend/storage/filestore"
	testutil "github.com/enlift/backend/tests"
)

type testServer struct {
	app  http.Handler
	conf *core.Config
	repo student.Repository
}

// newTestServer wires a full API server against an in-memory record store
// and temp-dir backups, the way main does.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := testutil.NewConfig(t)
	conf.Debug = false // exercise the production error payloads

	logger := logsvc.NewStdLogger(testutil.NewLogger())
	validate, trans := testutil.NewValidators(t)

	db := testutil.NewTestDB(t)
	repo := database.NewStudentRepository(db)
	backups, err := filestore.NewStore(conf)
	require.NoError(t, err)
	noticeSvc, err := emailsvc.NewFileService(conf, logger)
	require.NoError(t, err)

	studentValidator := student.NewValidator(validate, trans)
	app := echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     trans,
		StudentSvc:     student.NewService(repo, backups, noticeSvc, studentValidator, logger),
		AdminSvc:       student.NewAdminService(repo, studentValidator, logger),
		ContactSvc:     contact.NewService(backups, contact.NewValidator(validate, trans), logger),
	})
	return &testServer{app: app, conf: conf, repo: repo}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.app.ServeHTTP(rec, req)
	return rec
}

// login runs the whole gate flow with the configured credentials and
// returns a usable token.
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	rec := ts.request(t, http.MethodPost, "/v1/admin/login", "", map[string]string{
		"username": ts.conf.AdminUsername,
		"password": ts.conf.AdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func validRegistration(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":    "Asha Rao",
		"email":   email,
		"phone":   "9999999999",
		"course":  "BCA - 1st Year",
		"board":   "BCA",
		"year":    1,
		"age":     19,
		"consent": true,
	}
}
