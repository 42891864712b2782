package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeStream = "sse"

	streamTokenTTL = 5 * time.Minute
)

// Claims is the decoded subject of an access or stream token.
type Claims struct {
	UserID string
	Email  string
	Role   string
	Type   string
}

type Service interface {
	GenerateAccessToken(userID string, email string, role string) (token string, expiresAt int64, err error)
	GenerateStreamToken(userID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
	clock          clockwork.Clock
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, clock clockwork.Clock) (Service, error) {
	ttl, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		accessTokenTTL: ttl,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil,
			jwt.WithAcceptableSkew(30*time.Second),
			jwt.WithClock(jwt.ClockFunc(clock.Now)),
		),
		clock: clock,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role string) (token string, expiresAt int64, err error) {
	expiresAt = j.clock.Now().Add(j.accessTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateStreamToken issues a short-lived token for the SSE endpoint,
// which browsers can only authenticate through the query string.
func (j *JWTService) GenerateStreamToken(userID string) (token string, expiresIn int, err error) {
	expiresAt := j.clock.Now().Add(streamTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TokenTypeStream,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(streamTokenTTL.Seconds()), nil
}

// ValidateStreamToken accepts a stream token or a regular access token and
// returns its user ID.
func (j *JWTService) ValidateStreamToken(tokenString string) (userID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || (tokenType != TokenTypeStream && tokenType != TokenTypeAccess) {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	userID, ok = userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

// ClaimsFromMap reads the claims carried by an access token.
func ClaimsFromMap(m map[string]interface{}) (Claims, bool) {
	var c Claims
	var ok bool

	if c.UserID, ok = m["user_id"].(string); !ok || c.UserID == "" {
		return Claims{}, false
	}
	if c.Type, ok = m["type"].(string); !ok {
		return Claims{}, false
	}
	c.Email, _ = m["email"].(string)
	c.Role, _ = m["role"].(string)

	return c, true
}
