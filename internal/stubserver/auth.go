package stubserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthConfig holds token signing parameters for the stub.
type AuthConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims is the payload carried by a stub-issued token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// ErrMissingToken is returned when the Authorization header is absent.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

// IssueToken signs an HS256 token for the authenticated user.
func IssueToken(userID, role string, cfg AuthConfig) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iss":  cfg.Issuer,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.TTL).Unix(),
	})
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken validates a stub-issued token and returns normalized claims.
func ParseToken(token string, cfg AuthConfig) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if subject == "" {
		return nil, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &Claims{Subject: subject, Role: role, ExpiresAt: exp.Time}, nil
}

// RequireAuth wraps a handler with bearer-token validation, answering 401 on
// missing or invalid credentials.
func RequireAuth(cfg AuthConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", ErrMissingToken.Error())
			return
		}
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeError(w, http.StatusUnauthorized, "unauthorized", ErrInvalidToken.Error())
			return
		}
		token := strings.TrimSpace(header[len("Bearer "):])
		if _, err := ParseToken(token, cfg); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
