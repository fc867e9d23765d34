package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/protodef/model"
)

// SessionVerifier 校验session token并返回ClerkID。
type SessionVerifier interface {
	VerifySession(xl *xlog.Logger, token string) (string, error)
}

var sessionVerifier SessionVerifier

func InitMiddleware(v SessionVerifier) {
	sessionVerifier = v
}

// Authenticate 校验请求者的身份。根据Authorization:Bearer <token>校验，
// 通过后将ClerkID写入请求context。
func Authenticate(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		xl.Debugf("%s %s: request unauthorized, wrong auth header format", c.Request.Method, c.Request.URL.Path)
		responseErr := model.NewResponseErrorNotLoggedIn()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		c.Abort()
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	clerkID, err := sessionVerifier.VerifySession(xl, token)
	if err != nil {
		xl.Debugf("%s %s: request unauthorized, error %v", c.Request.Method, c.Request.URL.Path, err)
		responseErr := model.NewResponseErrorBadToken()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		c.Abort()
		return
	}
	c.Set(model.UserIDContextKey, clerkID)
}
