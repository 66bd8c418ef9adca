package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *env) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := newEnv(t, backends(t)["kv"])
	h := NewHandler(e.svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	pass := func(c *gin.Context) { c.Next() }
	RegisterPublicRoutes(v1, h, pass)
	RegisterProtectedRoutes(v1, h, pass)
	return r, e
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

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details Decision `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestJobEndpoints_PostApplyAndReview(t *testing.T) {
	r, e := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/jobs", map[string]any{
		"title": "Product shoot", "category": "product", "budget": 300, "currency": "TND",
		"deadline": fixedNow.Add(72 * time.Hour), "connects_required": 4,
	}, e.client.ID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	job := decode[Job](t, rr).Data

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/jobs/"+job.ID+"/eligibility", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ReasonNotAuthenticated, decode[Decision](t, rr).Data.Reason)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/jobs/"+job.ID+"/eligibility", nil, e.creative.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[Decision](t, rr).Data.Allowed)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", map[string]any{
		"cover_letter": "Studio lighting ready", "proposed_price": 280,
	}, e.creative.ID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	proposal := decode[Proposal](t, rr).Data

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", map[string]any{
		"proposed_price": 250,
	}, e.creative.ID)
	require.Equal(t, http.StatusConflict, rr.Code)
	denied := decode[Proposal](t, rr)
	assert.Equal(t, "ALREADY_APPLIED", denied.Error.Code)
	assert.Equal(t, ActionViewProposal, denied.Error.Details.NextAction)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/jobs/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), decode[Job](t, rr).Data.ApplicantCount)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/jobs/"+job.ID+"/proposals", nil, e.creative.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/jobs/"+job.ID+"/proposals", nil, e.client.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodPatch, "/api/v1/proposals/"+proposal.ID+"/status", map[string]any{"status": "accepted"}, e.client.ID)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPatch, "/api/v1/proposals/"+proposal.ID+"/status", map[string]any{"status": "rejected"}, e.client.ID)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/proposals/me", nil, e.creative.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/close", nil, e.client.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/close", nil, e.client.ID)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestJobEndpoints_Denials(t *testing.T) {
	r, e := setupTestRouter(t)
	job := e.postJob(t, 4, false)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", map[string]any{"proposed_price": 10}, e.foreigner.ID)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "REGION_RESTRICTED", decode[Proposal](t, rr).Error.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", map[string]any{"proposed_price": 10}, e.newbie.ID)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 1, decode[Proposal](t, rr).Error.Details.DaysRemaining)

	require.NoError(t, e.ledger.SetBalance(context.Background(), e.creative.ID, 1))
	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", map[string]any{"proposed_price": 10}, e.creative.ID)
	require.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.Equal(t, ActionGetCredits, decode[Proposal](t, rr).Error.Details.NextAction)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", map[string]any{"proposed_price": -1}, e.creative.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs/missing/proposals", map[string]any{"proposed_price": 10}, e.creative.ID)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/jobs", map[string]any{
		"title": "x", "category": "c", "budget": 10, "currency": "TND",
		"deadline": fixedNow.Add(time.Hour), "connects_required": 1,
	}, e.creative.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/jobs?status=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
