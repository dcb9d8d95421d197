package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("secret")
	tok, err := a.IssueJWT("alice", RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.Subject != "alice" || c.Role != RoleUser {
		t.Fatalf("claims: %+v", c)
	}
	if _, err := NewAuthService("other").Parse(tok); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestParseExpired(t *testing.T) {
	a := NewAuthService("secret")
	a.now = func() time.Time { return time.Now().Add(-10 * time.Hour) }
	tok, err := a.IssueJWT("alice", RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAuthService("secret").Parse(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestJWTMiddlewareSetsContext(t *testing.T) {
	a := NewAuthService("secret")
	var sub, role string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub = SubjectFromContext(r.Context())
		role = rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quizzes", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}

	tok, _ := a.IssueJWT("bob", RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || sub != "bob" || role != RoleAdmin {
		t.Fatalf("status %d sub=%q role=%q", rec.Code, sub, role)
	}
}

func login(t *testing.T, h http.Handler, user, pass string) (int, map[string]string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": user, "password": pass})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
	out := map[string]string{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAuthService("secret")
	opts := LoginOptions{AdminUser: "admin", AdminPassHash: string(hash), EnableLocal: true}
	h := LoginHandler(a, opts, logger.Nop())

	code, out := login(t, h, "admin", "s3cret")
	if code != http.StatusOK || out["role"] != RoleAdmin {
		t.Fatalf("admin login: %d %v", code, out)
	}
	if c, err := a.Parse(out["access_token"]); err != nil || c.Subject != "admin" {
		t.Fatalf("admin token: %+v %v", c, err)
	}
	if code, _ := login(t, h, "admin", "admin"); code != http.StatusUnauthorized {
		t.Fatalf("admin with username as password: %d", code)
	}
	if code, out := login(t, h, "alice", "alice"); code != http.StatusOK || out["role"] != RoleUser {
		t.Fatalf("local login: %d %v", code, out)
	}
	if code, _ := login(t, h, "alice", "nope"); code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", code)
	}
	if code, _ := login(t, h, "", ""); code != http.StatusUnauthorized {
		t.Fatalf("empty user: %d", code)
	}

	opts.EnableLocal = false
	h = LoginHandler(a, opts, logger.Nop())
	if code, _ := login(t, h, "alice", "alice"); code != http.StatusUnauthorized {
		t.Fatalf("local login while disabled: %d", code)
	}
}
