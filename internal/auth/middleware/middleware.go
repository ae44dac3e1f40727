package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "permah_session"
	issuer     = "permah"
)

// Tokens signs the cookie that ties a browser to its survey session. It
// carries no identity beyond the session id.
type Tokens struct {
	hmac   []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration, secure bool) *Tokens {
	return &Tokens{hmac: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

func (t *Tokens) Issue(sessionID string) (string, error) {
	now := t.now()
	claims := &Claims{
		SID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.hmac)
}

func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.SID == "" {
		return nil, errors.New("invalid session token")
	}
	return c, nil
}

// SetCookie issues a token for sessionID and writes it to w.
func (t *Tokens) SetCookie(w http.ResponseWriter, sessionID string) error {
	tok, err := t.Issue(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  t.now().Add(t.ttl),
	})
	return nil
}

func (t *Tokens) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.secure,
		MaxAge:   -1,
	})
}

// SessionMiddleware puts the session id from a valid cookie into the
// request context. A missing or bad cookie is not an error; handlers start
// a new session instead.
func SessionMiddleware(t *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err == nil && c.Value != "" {
				if claims, err := t.Parse(c.Value); err == nil {
					r = r.WithContext(WithSession(r.Context(), claims.SID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
