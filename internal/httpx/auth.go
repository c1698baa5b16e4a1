package httpx

import (
	"crypto/rsa"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

const (
	userIDKey     = "uid"
	sessionCookie = "__session"
	adminHeader   = "X-Admin-Key"
)

// UserID returns the authenticated user id, or "" for guests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Authenticator verifies identity-provider session tokens (RS256) offline
// against a PEM public key.
type Authenticator struct {
	key    *rsa.PublicKey
	keyErr error
}

func NewAuthenticator(publicKeyPEM string) *Authenticator {
	a := &Authenticator{}
	if strings.TrimSpace(publicKeyPEM) == "" {
		a.keyErr = apperr.Configuration("session verification key is not configured")
		return a
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		log.Printf("[auth] invalid CLERK_JWT_KEY: %v", err)
		a.keyErr = apperr.Configuration("session verification key is invalid")
		return a
	}
	a.key = key
	return a
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if v, err := c.Cookie(sessionCookie); err == nil {
		return v
	}
	return ""
}

// Verify returns the token's subject.
func (a *Authenticator) Verify(raw string) (string, error) {
	if a.keyErr != nil {
		return "", a.keyErr
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", apperr.Unauthorized("invalid session token")
	}
	if claims.Subject == "" {
		return "", apperr.Unauthorized("session token has no subject")
	}
	return claims.Subject, nil
}

// RequireUser rejects requests without a valid session.
func (a *Authenticator) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			Error(c, apperr.Unauthorized(""))
			return
		}
		uid, err := a.Verify(raw)
		if err != nil {
			Error(c, err)
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// OptionalUser identifies the caller when it can and lets guests through.
func (a *Authenticator) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if uid, err := a.Verify(raw); err == nil {
				c.Set(userIDKey, uid)
			} else {
				log.Printf("[auth] rid=%s ignoring session: %v", RequestIDFrom(c), err)
			}
		}
		c.Next()
	}
}

// AdminKey checks X-Admin-Key against a bcrypt hash.
func AdminKey(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			Error(c, apperr.Configuration("admin key is not configured"))
			return
		}
		key := c.GetHeader(adminHeader)
		if key == "" {
			Error(c, apperr.Unauthorized("admin key required"))
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
			Error(c, apperr.Forbidden("invalid admin key"))
			return
		}
		c.Next()
	}
}
