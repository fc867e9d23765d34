package cloud

import (
	"context"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/common/utils"
)

// SessionService 校验身份服务（Clerk）签发的session token，返回token主体的ClerkID。
// 配置了jwt_key时额外接受本地HS256签发的dev token，供联调环境使用。
type SessionService struct {
	secretKey string
	jwtKey    string
	xl        *xlog.Logger
}

func NewSessionService(conf utils.Config, xl *xlog.Logger) *SessionService {
	if xl == nil {
		xl = xlog.New("hire-cube-session")
	}
	secretKey := ""
	if conf.Clerk != nil {
		secretKey = conf.Clerk.SecretKey
	}
	if secretKey != "" {
		clerk.SetKey(secretKey)
	}
	return &SessionService{
		secretKey: secretKey,
		jwtKey:    conf.JwtKey,
		xl:        xl,
	}
}

// VerifySession 校验session token，返回ClerkID。
func (s *SessionService) VerifySession(xl *xlog.Logger, token string) (string, error) {
	if xl == nil {
		xl = s.xl
	}
	if s.secretKey != "" {
		claims, err := clerkjwt.Verify(context.Background(), &clerkjwt.VerifyParams{Token: token})
		if err == nil {
			return claims.RegisteredClaims.Subject, nil
		}
		xl.Debugf("clerk session verification failed, error %v", err)
		if s.jwtKey == "" {
			return "", err
		}
	}
	if s.jwtKey != "" {
		return s.decodeDevToken(token)
	}
	return "", fmt.Errorf("no session verifier configured")
}

// decodeDevToken 解析HS256 dev token，取claims中的userID。
func (s *SessionService) decodeDevToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtKey), nil
	})
	if err != nil {
		return "", err
	}
	id, ok := claims["userID"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("no userID in dev token")
	}
	return id, nil
}

// SignDevToken 本地联调用，签发携带userID的HS256 token。
func (s *SessionService) SignDevToken(clerkID string) (string, error) {
	if s.jwtKey == "" {
		return "", fmt.Errorf("jwt_key is not configured")
	}
	claims := jwt.MapClaims{"userID": clerkID}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtKey))
}
