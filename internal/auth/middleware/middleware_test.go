package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tk := NewTokens("secret", time.Hour, false)
	tok, err := tk.Issue("abc")
	require.NoError(t, err)

	c, err := tk.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc", c.SID)

	_, err = NewTokens("other", time.Hour, false).Parse(tok)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	tk := NewTokens("secret", time.Minute, false)
	base := time.Now()
	tk.now = func() time.Time { return base }
	tok, err := tk.Issue("abc")
	require.NoError(t, err)

	tk.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = tk.Parse(tok)
	assert.Error(t, err)
}

func TestSessionMiddleware(t *testing.T) {
	tk := NewTokens("secret", time.Hour, false)
	var seen string
	h := SessionMiddleware(tk)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	require.NoError(t, tk.SetCookie(rec, "sess-1"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "sess-1", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "", seen)
}
