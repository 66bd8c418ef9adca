package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomarket/internal/database"
	"photomarket/internal/domain/identity"
)

type handlerFixture struct {
	router   *gin.Engine
	creative *identity.User
	client   *identity.User
}

func setupTestRouter(t *testing.T) handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:verification_handler_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(append(Models(), &identity.User{})...))

	users := identity.NewRepository(db)
	creative := &identity.User{Email: "creative@example.com", PasswordHash: "x", Name: "Creative", Role: identity.RoleCreative}
	client := &identity.User{Email: "client@example.com", PasswordHash: "x", Name: "Client", Role: identity.RoleClient}
	require.NoError(t, users.Create(context.Background(), creative))
	require.NoError(t, users.Create(context.Background(), client))

	h := NewHandler(NewRegistry(NewGormStore(db), nil, nil), users)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	RegisterRoutes(v1, h)
	RegisterAdminRoutes(v1.Group("/admin"), h)

	return handlerFixture{router: r, creative: creative, client: client}
}

func doJSONRequest(r http.Handler, method, path string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestVerificationEndpoints_RequestAndApprove(t *testing.T) {
	f := setupTestRouter(t)

	rr := doJSONRequest(f.router, http.MethodPost, "/api/v1/verification/requests", map[string]any{"message": "see my work"}, f.client.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSONRequest(f.router, http.MethodPost, "/api/v1/verification/requests", map[string]any{}, f.creative.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doJSONRequest(f.router, http.MethodPost, "/api/v1/verification/requests", map[string]any{"message": "see my work"}, f.creative.ID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Data Request `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, f.creative.Email, created.Data.Email)

	rr = doJSONRequest(f.router, http.MethodGet, "/api/v1/admin/verification/requests?status=pending", nil, "admin")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(f.router, http.MethodPost, "/api/v1/admin/verification/requests/"+created.Data.ID+"/resolve", map[string]any{"approved": true}, "admin")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(f.router, http.MethodPost, "/api/v1/admin/verification/requests/"+created.Data.ID+"/resolve", map[string]any{"approved": false}, "admin")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(f.router, http.MethodGet, "/api/v1/verification/me", nil, f.creative.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var status struct {
		Data StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.True(t, status.Data.Verified)
	require.NotNil(t, status.Data.Request)
	assert.Equal(t, StatusApproved, status.Data.Request.Status)
}

func TestVerificationEndpoints_AdminOverride(t *testing.T) {
	f := setupTestRouter(t)

	rr := doJSONRequest(f.router, http.MethodPut, "/api/v1/admin/verification/users/"+f.creative.ID, map[string]any{"verified": true}, "admin")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(f.router, http.MethodPut, "/api/v1/admin/verification/users/missing", map[string]any{"verified": true}, "admin")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(f.router, http.MethodPut, "/api/v1/admin/verification/users/"+f.creative.ID, map[string]any{}, "admin")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
