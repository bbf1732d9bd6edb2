package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/shulepay/shulepay/apps/api/echo"
	"github.com/shulepay/shulepay/core/session"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
	testutil "github.com/shulepay/shulepay/tests"
)

const (
	schoolName = "Mwanga Primary"
	schoolPwd  = "x9#Kpq2m!zu"
	adminPwd   = "aideducation123"
)

type testApp struct {
	app   Server
	store *session.Store
	svcs  session.Services
	db    *inmemdb.DB
}

func setup(t *testing.T) testApp {
	t.Helper()
	svcs, db := testutil.NewServices(t)

	testutil.CreateCode(t, inmemdb.NewActivationRepository(db), "SCHOOL1234", false)
	testutil.CreateSchool(t, inmemdb.NewSchoolRepository(db), schoolName, schoolPwd, "SCHOOL1234")

	store := session.NewStore(time.Hour)
	app := NewServer(ServerDeps{
		DisableReqLogs: true,
		Conf:           svcs.Conf,
		Logger:         svcs.Logger,
		Store:          store,
		Svcs:           svcs,
	})
	return testApp{app: app, store: store, svcs: svcs, db: db}
}

type httpErr struct {
	Error string `json:"error"`
}

func (ta testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	ta.app.ServeHTTP(rec, req)
	return rec
}

func (ta testApp) login(t *testing.T, path string, body interface{}) string {
	t.Helper()
	rec := ta.do(t, http.MethodPost, path, "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ta testApp) loginSchool(t *testing.T) string {
	return ta.login(t, "/v1/auth/login", LoginRequest{SchoolName: schoolName, Password: schoolPwd})
}

func (ta testApp) loginAdmin(t *testing.T) string {
	return ta.login(t, "/v1/auth/admin-login", AdminLoginRequest{Password: adminPwd})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
