package http

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

// cookieMaxAge keeps favorites for as long as browsers allow a cookie to live.
const cookieMaxAge = 400 * 24 * time.Hour

// CookieStorage is the per-browser key-value storage behind the web
// favorites. Values are URL-escaped into cookies of the same name. A value
// set during a request is visible to later reads in that request.
type CookieStorage struct {
	w   http.ResponseWriter
	r   *http.Request
	set map[string]string
	// removed holds keys deleted during this request.
	removed map[string]bool
}

// NewCookieStorage returns a storage reading cookies from r and writing
// them to w.
func NewCookieStorage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{w: w, r: r, set: map[string]string{}, removed: map[string]bool{}}
}

// Get returns the cookie value for key. A value that does not unescape is
// returned raw so the caller can treat it as corrupt.
func (c *CookieStorage) Get(key string) (string, bool, error) {
	if v, ok := c.set[key]; ok {
		return v, true, nil
	}
	if c.removed[key] {
		return "", false, nil
	}
	ck, err := c.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	v, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ck.Value, true, nil
	}
	return v, true, nil
}

// Set writes value as a long-lived cookie on the response.
func (c *CookieStorage) Set(key, value string) error {
	c.set[key] = value
	delete(c.removed, key)
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Delete expires the cookie for key. It reports whether the request
// carried one.
func (c *CookieStorage) Delete(key string) (bool, error) {
	_, ok, err := c.Get(key)
	if err != nil {
		return false, err
	}
	delete(c.set, key)
	c.removed[key] = true
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ok, nil
}
