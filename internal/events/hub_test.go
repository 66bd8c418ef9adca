package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomarket/internal/pkg/jwt"
)

func TestHub_PublishToConnectedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := jwt.New("secret", time.Hour)
	hub := NewHub()

	r := gin.New()
	NewHandler(hub, jwtSvc, nil).RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := jwtSvc.GenerateToken("owner-1", "client")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/events?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected("owner-1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(context.Background(), "someone-else", Event{Type: TypeJobClosed})
	hub.Publish(context.Background(), "owner-1", Event{Type: TypeProposalCreated, Payload: map[string]string{"job_id": "job-1"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, TypeProposalCreated, got.Type)
	assert.False(t, got.SentAt.IsZero())
}

func TestHandler_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewHub(), jwt.New("secret", time.Hour), nil).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ws/events", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://app.example"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, up.CheckOrigin(req))
}
