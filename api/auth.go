package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The API has exactly one privileged identity: the admin configured through
// the environment. Level reads are public; level writes require a bearer
// token from /auth/login.

const adminTokenTTL = 12 * time.Hour

// Claims holds the JWT claims the API issues.
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the subject.
func GenerateToken(secret, issuer, subject string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Sub: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates a JWT and returns its Claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireAdmin authenticates the Authorization: Bearer header.
func RequireAdmin(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errorJSON(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				errorJSON(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}
			if _, err := ParseToken(cfg.JWTSecret, parts[1]); err != nil {
				errorJSON(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// LoginHandler exchanges the configured admin credentials for a JWT.
func LoginHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSONStrict(r, &req); err != nil {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) == 1
		if !userOK || !passOK {
			errorJSON(w, http.StatusUnauthorized, "bad credentials")
			return
		}
		token, err := GenerateToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.AdminUsername, adminTokenTTL)
		if err != nil {
			errorJSON(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}
