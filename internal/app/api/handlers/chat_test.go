package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/quietleaf/mindlog/internal/app/service/chat"
	"github.com/quietleaf/mindlog/internal/app/service/thought"
	"github.com/quietleaf/mindlog/pkg/response"
)

type stubGateway struct {
	result *chat.MessageResult
	status *chat.LimitStatus
	err    error

	gotUserID    string
	gotThoughtID string
	gotMessage   string
	gotContext   string
}

func (s *stubGateway) SendThoughtMessage(ctx context.Context, userID, thoughtID, message string) (*chat.MessageResult, error) {
	s.gotUserID, s.gotThoughtID, s.gotMessage = userID, thoughtID, message
	return s.result, s.err
}

func (s *stubGateway) SendGeneralMessage(ctx context.Context, userID, message, priorContext string) (*chat.MessageResult, error) {
	s.gotUserID, s.gotMessage, s.gotContext = userID, message, priorContext
	return s.result, s.err
}

func (s *stubGateway) CheckLimit(ctx context.Context, userID string) (*chat.LimitStatus, error) {
	s.gotUserID = userID
	return s.status, s.err
}

func newChatRouter(gw chat.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "u-1") })
	RegisterChatRoutes(r, gw)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestApiSendThoughtChatMessage_Success(t *testing.T) {
	gw := &stubGateway{result: &chat.MessageResult{Reply: "claro, cuéntame"}}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodPost, "/thoughts/t-1/chat", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, response.APIResponseCodeOK, body["code"])
	require.Equal(t, "claro, cuéntame", body["data"].(map[string]any)["reply"])

	require.Equal(t, "u-1", gw.gotUserID)
	require.Equal(t, "t-1", gw.gotThoughtID)
	require.Equal(t, "hola", gw.gotMessage)
}

func TestApiSendThoughtChatMessage_LimitReached(t *testing.T) {
	gw := &stubGateway{err: chat.ErrDailyLimitReached}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodPost, "/thoughts/t-1/chat", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, response.APIResponseCodeLimitReached, body["code"])
	require.Equal(t, limitReachedMessage, body["data"])
}

func TestApiSendThoughtChatMessage_ThoughtNotFound(t *testing.T) {
	gw := &stubGateway{err: thought.ErrNotFound}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodPost, "/thoughts/missing/chat", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, response.APIResponseCodeNotFound, body["code"])
}

func TestApiSendThoughtChatMessage_MissingMessage(t *testing.T) {
	gw := &stubGateway{result: &chat.MessageResult{Reply: "no debería llegar aquí"}}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodPost, "/thoughts/t-1/chat", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, response.APIResponseCodeBadRequest, body["code"])
	require.Empty(t, gw.gotMessage)
}

func TestApiSendGeneralChatMessage_PassesContext(t *testing.T) {
	gw := &stubGateway{result: &chat.MessageResult{Reply: "sigo aquí"}}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodPost, "/chat/general", `{"message":"hola","context":"Usuario: buenas"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, response.APIResponseCodeOK, body["code"])
	require.Equal(t, "Usuario: buenas", gw.gotContext)
}

func TestApiCheckMessageLimit(t *testing.T) {
	gw := &stubGateway{status: &chat.LimitStatus{Count: 7, LimitReached: false}}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodGet, "/chat/limit", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	require.EqualValues(t, 7, data["count"])
	require.Equal(t, false, data["limit_reached"])
}

func TestApiCheckMessageLimit_Unauthenticated(t *testing.T) {
	gw := &stubGateway{err: chat.ErrUnauthenticated}
	r := newChatRouter(gw)

	w, body := doJSON(t, r, http.MethodGet, "/chat/limit", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.EqualValues(t, response.APIResponseCodeUnauthorized, body["code"])
}
