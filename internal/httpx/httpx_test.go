package httpx

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

func init() {
	log.SetOutput(io.Discard)
	gin.SetMode(gin.TestMode)
}

func newKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return priv, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, priv *rsa.PrivateKey, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString(priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func whoami(c *gin.Context) { c.String(http.StatusOK, UserID(c)) }

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRequireUser(t *testing.T) {
	priv, pub := newKeyPair(t)
	other, _ := newKeyPair(t)
	auth := NewAuthenticator(pub)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", auth.RequireUser(), whoami)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, "user_1", time.Now().Add(time.Hour)))
		}, http.StatusOK, "user_1"},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "__session", Value: sign(t, priv, "user_2", time.Now().Add(time.Hour))})
		}, http.StatusOK, "user_2"},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"expired", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sign(t, priv, "user_1", time.Now().Add(-time.Hour)))
		}, http.StatusUnauthorized, ""},
		{"foreign key", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sign(t, other, "user_1", time.Now().Add(time.Hour)))
		}, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		tc.setup(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s: status=%d body=%s", tc.name, w.Code, w.Body.String())
		}
		if tc.status == http.StatusOK && w.Body.String() != tc.body {
			t.Fatalf("%s: uid=%q", tc.name, w.Body.String())
		}
		if tc.status != http.StatusOK {
			if body := decodeError(t, w); body.Success || body.Error.Code != string(apperr.KindUnauthorized) {
				t.Fatalf("%s: body=%+v", tc.name, body)
			}
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: request id header missing", tc.name)
		}
	}
}

func TestRequireUser_UnconfiguredKey(t *testing.T) {
	priv, _ := newKeyPair(t)
	r := gin.New()
	r.GET("/me", NewAuthenticator("").RequireUser(), whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, priv, "u", time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError || decodeError(t, w).Error.Code != string(apperr.KindConfiguration) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestOptionalUser(t *testing.T) {
	priv, pub := newKeyPair(t)
	r := gin.New()
	r.GET("/me", NewAuthenticator(pub).OptionalUser(), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("guest: %d %q", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("bad token should fall back to guest: %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, priv, "user_7", time.Now().Add(time.Hour)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "user_7" {
		t.Fatalf("uid=%q", w.Body.String())
	}
}

func TestAdminKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	r := gin.New()
	r.GET("/admin", AdminKey(string(hash)), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/unset", AdminKey(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	check := func(path, key string, want int) {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set("X-Admin-Key", key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("%s key=%q: status=%d want %d", path, key, w.Code, want)
		}
	}
	check("/admin", "s3cret", http.StatusNoContent)
	check("/admin", "", http.StatusUnauthorized)
	check("/admin", "nope", http.StatusForbidden)
	check("/unset", "s3cret", http.StatusInternalServerError)
}

func TestErrorHidesInternalCause(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) { Error(c, errors.New("pq: password authentication failed")) })
	r.GET("/gw", func(c *gin.Context) {
		Error(c, apperr.GatewayRejected(http.StatusBadRequest, "REJECT_CARD_PAYMENT", "card declined"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	body := decodeError(t, w)
	if w.Code != http.StatusInternalServerError || body.Error.Code != string(apperr.KindInternal) {
		t.Fatalf("status=%d body=%+v", w.Code, body)
	}
	if body.Error.Message != "an unexpected error occurred" {
		t.Fatalf("cause leaked: %q", body.Error.Message)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gw", nil))
	body = decodeError(t, w)
	if w.Code != http.StatusBadRequest || body.Error.Code != "REJECT_CARD_PAYMENT" || body.Error.Message != "card declined" {
		t.Fatalf("gateway error not passed through: %d %+v", w.Code, body)
	}
}
