package endpoint_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fieldops/opsreport/endpoint"
	"github.com/fieldops/opsreport/middleware"
	"github.com/fieldops/opsreport/store"
	"github.com/fieldops/opsreport/util"
)

// apiResp mirrors util.APIResponse with raw Data so each test can decode the
// payload it expects.
type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// newTestServer builds the full route table from main.go against a fresh
// in-memory store. Redis and the audit DB are not involved.
func newTestServer(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	t.Setenv("APPENV", "test")
	util.SetJWTSecret("test-secret-123")

	gin.SetMode(gin.TestMode)

	st := store.New(store.Options{FirstUserAdmin: true})

	r := gin.New()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.StoreMiddleware(st))

	r.POST("/api/register", endpoint.Register)
	r.POST("/api/login", endpoint.Login)

	auth := r.Group("/api")
	auth.Use(middleware.ValidateSessionToken())
	{
		auth.GET("/token/validate", endpoint.ValidateToken)
		auth.POST("/reports", endpoint.CreateReport)
		auth.GET("/reports", endpoint.ListReports)
		auth.GET("/reports/export", endpoint.ExportReports)
		auth.POST("/positions", endpoint.UpdatePosition)
		auth.GET("/positions", endpoint.ListPositions)
		auth.GET("/admin/access", endpoint.ListAccessEvents)

		admin := auth.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/alerts", endpoint.ListAlerts)
			admin.POST("/access/block", endpoint.BlockAccess)
			admin.POST("/access/unblock", endpoint.UnblockAccess)
			admin.DELETE("/access", endpoint.PurgeAccessEvents)
		}
	}
	return r, st
}

// doRequest performs one request against the test router.
func doRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.9:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResp(t *testing.T, w *httptest.ResponseRecorder) apiResp {
	t.Helper()
	var resp apiResp
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// registerOperator registers an identity and fails the test on error.
func registerOperator(t *testing.T, r *gin.Engine, email, password, name string) {
	t.Helper()
	w := doRequest(r, "POST", "/api/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, "")
	assert.Equal(t, 201, w.Code, w.Body.String())
}

// loginOperator logs in and returns the session token.
func loginOperator(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doRequest(r, "POST", "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	assert.Equal(t, 200, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	resp := decodeResp(t, w)
	assert.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.NotEmpty(t, data.Token)
	return data.Token
}
