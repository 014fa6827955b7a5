package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		JWTSecret:     "test-secret",
		JWTIssuer:     "burrow-test",
		AdminUsername: "admin",
		AdminPassword: "hunter2!",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg.JWTSecret, cfg.JWTIssuer, "admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(cfg.JWTSecret, token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Sub != "admin" || claims.Issuer != "burrow-test" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ParseToken("wrong-secret", token); err == nil {
		t.Error("token accepted with wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg.JWTSecret, cfg.JWTIssuer, "admin", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(cfg.JWTSecret, token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := testConfig()
	ok := false
	handler := RequireAdmin(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok = true
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok = false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != c.wantStatus || ok {
				t.Errorf("status = %d (handler ran: %t), want %d", rec.Code, ok, c.wantStatus)
			}
		})
	}

	token, err := GenerateToken(cfg.JWTSecret, cfg.JWTIssuer, "admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !ok {
		t.Errorf("valid token rejected: status = %d", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	cfg := testConfig()
	handler := LoginHandler(cfg)

	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(`{"username":"admin","password":"hunter2!"}`); rec.Code != http.StatusOK {
		t.Errorf("good login status = %d", rec.Code)
	} else if !strings.Contains(rec.Body.String(), "token") {
		t.Error("login response missing token")
	}
	if rec := do(`{"username":"admin","password":"wrong"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", rec.Code)
	}
	if rec := do(`{"username":"admin","password":"hunter2!","extra":1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("strict decode status = %d", rec.Code)
	}
}
