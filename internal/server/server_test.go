package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/argos/internal/app"
	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	a, err := app.NewAppWithConfig(context.Background(), common.NewDefaultConfig(), common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *Server, method, target, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, jsonBody(t, body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.Header.Set("X-Argos-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	rec = do(t, srv, http.MethodPost, "/api/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "demo", resp["backend"])
	assert.NotEmpty(t, resp["version"])
}

func TestAccounts_DemoUserWithoutIdentity(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/accounts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Accounts []models.Account `json:"accounts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Accounts)
	for _, a := range resp.Accounts {
		assert.Equal(t, common.DemoUserID, a.UserID)
	}
}

func TestAccounts_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/accounts", "u1", map[string]interface{}{
		"name":    "Checking",
		"type":    models.AccountChecking,
		"balance": 1200,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)

	rec = do(t, srv, http.MethodGet, "/api/accounts/"+created.ID, "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/accounts/"+created.ID, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/accounts/"+created.ID, "u1", map[string]interface{}{
		"name":    "Everyday",
		"type":    models.AccountChecking,
		"balance": 1500,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "Everyday", updated.Name)
	assert.Equal(t, 1500.0, updated.Balance)

	rec = do(t, srv, http.MethodGet, "/api/accounts/"+created.ID+"/history?range=week", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var history struct {
		Points []models.TimeSeriesPoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history.Points, 8)
	assert.Equal(t, 1500.0, history.Points[len(history.Points)-1].Value)

	rec = do(t, srv, http.MethodGet, "/api/networth/summary?range=week", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.NetWorthSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 1500.0, summary.CurrentValue)

	rec = do(t, srv, http.MethodDelete, "/api/accounts/"+created.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/accounts/"+created.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccounts_InvalidAccount(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/accounts", "u1", map[string]interface{}{
		"name": "Boat",
		"type": "Yacht",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString("{not json"))
	badJSON := httptest.NewRecorder()
	srv.Handler().ServeHTTP(badJSON, req)
	assert.Equal(t, http.StatusBadRequest, badJSON.Code)
}

func TestAccounts_UnknownSubresource(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/accounts/abc/transactions", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountPerformance_Demo(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/accounts/performance?range=30", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Accounts []models.AccountPerformance `json:"accounts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Accounts)
	for i := 1; i < len(resp.Accounts); i++ {
		assert.GreaterOrEqual(t, resp.Accounts[i-1].PercentChange, resp.Accounts[i].PercentChange)
	}
}

func TestNetWorthChart_Demo(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/networth/chart?range=year&width=900&max_points=100&events=true&threshold=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var series models.ChartSeries
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&series))
	assert.NotEmpty(t, series.Points)
	assert.LessOrEqual(t, len(series.Points), 101)
	assert.Equal(t, models.Monthly, series.Granularity)
	assert.Greater(t, series.RawCount, 300)
}

func TestNetWorthChart_BadParams(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{
		"/api/networth/chart?range=fortnight",
		"/api/networth/chart?width=-5",
		"/api/networth/chart?events=maybe",
		"/api/networth/chart?threshold=abc",
		"/api/networth/chart?threshold=0",
		"/api/networth/chart?threshold=-1",
		"/api/networth/history?range=2",
	} {
		rec := do(t, srv, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNetWorthChartPNG(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/networth/chart.png?range=month", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, srv, http.MethodGet, "/api/networth/chart.png?range=month", "no-history-user", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNetWorthHistory_Demo(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/networth/history?range=week", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Points []models.TimeSeriesPoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Points)
}

func TestDemoReset(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/accounts", "", map[string]interface{}{
		"name": "Scratch", "type": models.AccountSavings, "balance": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/demo/reset", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/demo/reset", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/accounts", "", nil)
	assert.NotContains(t, rec.Body.String(), "Scratch")
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestBearerToken_ResolvesUser(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, srv.app.Config.Auth.JWTSecret, jwt.MapClaims{
		"sub": "jwt-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", jsonBody(t, map[string]interface{}{
		"name": "Savings", "type": models.AccountSavings, "balance": 50,
	}))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "jwt-user", created.UserID)
}

func TestBearerToken_Rejected(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, "other-secret", jwt.MapClaims{"sub": "u1"})},
		{"expired", signToken(t, srv.app.Config.Auth.JWTSecret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no subject", signToken(t, srv.app.Config.Auth.JWTSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}
