package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/protodef/model"
)

type fakeVerifier struct {
	clerkID string
}

func (v *fakeVerifier) VerifySession(xl *xlog.Logger, token string) (string, error) {
	if token == "good" {
		return v.clerkID, nil
	}
	return "", fmt.Errorf("bad session token")
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	InitMiddleware(&fakeVerifier{clerkID: "user_ok"})
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(model.XLogKey, xlog.New("auth-test"))
	})
	r.GET("/protected", Authenticate, func(c *gin.Context) {
		c.JSON(http.StatusOK, model.NewSuccessResponse(c.GetString(model.UserIDContextKey)))
	})
	return r
}

func doAuthRequest(t *testing.T, r *gin.Engine, authHeader string) *model.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	resp := &model.Response{}
	if err := json.Unmarshal(w.Body.Bytes(), resp); err != nil {
		t.Fatalf("failed to decode response body, error %v", err)
	}
	return resp
}

func TestAuthenticateNoHeader(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := doAuthRequest(t, r, "")
	if resp.Code != model.ResponseErrorNotLoggedIn {
		t.Fatalf("expect code %d, got %d", model.ResponseErrorNotLoggedIn, resp.Code)
	}
}

func TestAuthenticateWrongFormat(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := doAuthRequest(t, r, "Basic abc")
	if resp.Code != model.ResponseErrorNotLoggedIn {
		t.Fatalf("expect code %d, got %d", model.ResponseErrorNotLoggedIn, resp.Code)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := doAuthRequest(t, r, "Bearer evil")
	if resp.Code != model.ResponseErrorBadToken {
		t.Fatalf("expect code %d, got %d", model.ResponseErrorBadToken, resp.Code)
	}
}

func TestAuthenticateOK(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := doAuthRequest(t, r, "Bearer good")
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d", resp.Code)
	}
	if resp.Data != "user_ok" {
		t.Fatalf("expect clerkID in context, got %v", resp.Data)
	}
}
