package identity

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomarket/internal/middleware"
	"photomarket/internal/pkg/jwt"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.New("test-secret", time.Hour)
	h := NewHandler(NewService(NewRepository(newTestDB(t)), tokens))

	r := gin.New()
	v1 := r.Group("/api/v1")
	RegisterPublicRoutes(v1, h)
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	RegisterProtectedRoutes(protected, h)
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthEndpoints_RegisterLoginMe(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email": "nour@example.com", "password": "password123", "name": "Nour", "role": "creative", "country": "Tunisia",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email": "nour@example.com", "password": "password123", "name": "Nour", "role": "creative",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "nour@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var loginResp struct {
		Data AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Data.AccessToken)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/auth/me", nil, loginResp.Data.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var meResp struct {
		Data User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meResp))
	assert.Equal(t, RoleCreative, meResp.Data.Role)
	assert.Equal(t, "Tunisia", meResp.Data.Country)
}

func TestAuthEndpoints_Validation(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email": "not-an-email", "password": "short", "name": "X", "role": "admin",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "nobody@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
