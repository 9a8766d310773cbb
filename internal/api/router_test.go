package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aromeroh/usuarios-api/internal/auth"
	"github.com/aromeroh/usuarios-api/internal/database"
	"github.com/aromeroh/usuarios-api/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	tokenStore := auth.NewTokenStore(db)
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(userService, tokenStore, 5*time.Minute)
	statsService := services.NewStatsService(db)

	srv := httptest.NewServer(NewRouter(userService, sessionService, statsService, "http://localhost:3000"))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	return res.StatusCode, envelope
}

func registerPayload(email string) map[string]any {
	return map[string]any{
		"nombre":   "Ana",
		"apellido": "Perez",
		"email":    email,
		"password": "s3cret-pass",
	}
}

func loginToken(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	status, env := doRequest(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	status, env := doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("ana@example.com"))
	assert.Equal(t, http.StatusCreated, status)
	// the body mirrors the transport status
	assert.EqualValues(t, http.StatusCreated, env["status"])

	data := env["data"].(map[string]any)
	assert.Equal(t, "ana@example.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")

	// duplicate email
	status, env = doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("ana@example.com"))
	assert.Equal(t, http.StatusConflict, status)
	assert.EqualValues(t, http.StatusConflict, env["status"])

	// register requires a password
	payload := registerPayload("otra@example.com")
	delete(payload, "password")
	status, _ = doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// malformed email
	status, _ = doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("not-an-email"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("ana@example.com"))
	require.Equal(t, http.StatusCreated, status)

	status, env := doRequest(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.NotEmpty(t, data["expires_at"])
	assert.InDelta(t, 5*60, data["expires_in"], 1)

	// wrong password and unknown email produce identical failures
	statusA, envA := doRequest(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "wrong",
	})
	statusB, envB := doRequest(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": "nadie@example.com", "password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, statusA)
	assert.Equal(t, http.StatusUnauthorized, statusB)
	assert.Equal(t, envA["error"], envB["error"])
}

func TestCheckRefreshLogout(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("ana@example.com"))
	require.Equal(t, http.StatusCreated, status)
	token := loginToken(t, srv, "ana@example.com", "s3cret-pass")

	// check
	status, env := doRequest(t, http.MethodGet, srv.URL+"/api/auth/check", token, nil)
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.Contains(t, data, "expires_in")
	assert.Equal(t, "ana@example.com", data["user"].(map[string]any)["email"])

	// refresh rotates the token
	status, env = doRequest(t, http.MethodPost, srv.URL+"/api/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, status)
	fresh := env["data"].(map[string]any)["token"].(string)
	assert.NotEqual(t, token, fresh)

	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/auth/check", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/auth/check", fresh, nil)
	assert.Equal(t, http.StatusOK, status)

	// logout terminates the session; the revoked token no longer authenticates
	status, _ = doRequest(t, http.MethodPost, srv.URL+"/api/auth/logout", fresh, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/auth/check", fresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("ana@example.com"))
	require.Equal(t, http.StatusCreated, status)
	token := loginToken(t, srv, "ana@example.com", "s3cret-pass")

	status, env := doRequest(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", env["data"].(map[string]any)["email"])
}

func TestUsuariosRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	status, env := doRequest(t, http.MethodGet, srv.URL+"/api/usuarios/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.EqualValues(t, http.StatusUnauthorized, env["status"])

	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/usuarios/", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUsuariosCRUD(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("admin@example.com"))
	require.Equal(t, http.StatusCreated, status)
	token := loginToken(t, srv, "admin@example.com", "s3cret-pass")

	// create without password is allowed on the CRUD surface
	status, env := doRequest(t, http.MethodPost, srv.URL+"/api/usuarios/", token, map[string]any{
		"nombre": "Luis", "apellido": "Gomez", "email": "luis@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	id := env["data"].(map[string]any)["id"].(string)

	status, env = doRequest(t, http.MethodGet, srv.URL+"/api/usuarios/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "luis@example.com", env["data"].(map[string]any)["email"])

	status, env = doRequest(t, http.MethodGet, srv.URL+"/api/usuarios/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env["data"].([]any), 2)

	// partial update
	status, env = doRequest(t, http.MethodPatch, srv.URL+"/api/usuarios/"+id, token, map[string]any{
		"telefono": "555-0100",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "555-0100", env["data"].(map[string]any)["telefono"])
	assert.Equal(t, "Luis", env["data"].(map[string]any)["nombre"])

	// email collision with a different user
	status, _ = doRequest(t, http.MethodPut, srv.URL+"/api/usuarios/"+id, token, map[string]any{
		"email": "admin@example.com",
	})
	assert.Equal(t, http.StatusConflict, status)

	// delete, then gone
	status, _ = doRequest(t, http.MethodDelete, srv.URL+"/api/usuarios/"+id, token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, env = doRequest(t, http.MethodGet, srv.URL+"/api/usuarios/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.EqualValues(t, http.StatusNotFound, env["status"])
}

func TestEstadisticasArePublic(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerPayload("ana@example.com"))
	require.Equal(t, http.StatusCreated, status)

	status, env := doRequest(t, http.MethodGet, srv.URL+"/api/estadisticas/", "", nil)
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total"])
	assert.EqualValues(t, 1, data["activos"])
	assert.EqualValues(t, 0, data["inactivos"])
	assert.EqualValues(t, 1, data["registrados_hoy"])

	status, env = doRequest(t, http.MethodGet, srv.URL+"/api/estadisticas/diarias", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env["data"].([]any), 1)

	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/estadisticas/semanales", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/estadisticas/mensuales", "", nil)
	assert.Equal(t, http.StatusOK, status)

	// malformed window parameter
	status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/estadisticas/diarias?dias=zero", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
