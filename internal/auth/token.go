package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnonCookieName identifies guests across puzzles.
const AnonCookieName = "wordsearch_anon"

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a valid token carries.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Tokens issues and verifies HS256 JWTs and manages the auth cookies.
type Tokens struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool // Secure + SameSite=None, for production
}

// Sign creates an HS256 JWT with id/username and the configured expiry.
func (t *Tokens) Sign(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.TTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := tok.SignedString(t.Secret)
	return ss, exp, err
}

// Parse verifies tokenStr and extracts its claims.
func (t *Tokens) Parse(tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ID: id, Username: username}, nil
}

func (t *Tokens) sameSite() http.SameSite {
	if t.Secure {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie.
func (t *Tokens) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (t *Tokens) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.sameSite(),
		MaxAge:   -1,
	})
}

// FromRequest extracts a bearer token from the Authorization header or
// the auth cookie.
func (t *Tokens) FromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(t.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// EnsureAnonID returns the existing anonymous cookie or sets a new one.
func (t *Tokens) EnsureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(AnonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := GenID()
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	// Visible to later handlers in the same request.
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	return id
}
