package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// CookieOptions describes the cart cookie.
type CookieOptions struct {
	Name   string
	Path   string
	MaxAge int // seconds; zero makes it a session cookie
}

// CookieStore keeps the cart in a browser cookie holding a URI-encoded JSON
// array, the same layout a browser cookie library writes. It is bound to a
// single request/response pair.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    CookieOptions
	logger  zerolog.Logger
	written IDList
	dirty   bool
}

// NewCookieStore binds a cookie store to one HTTP exchange.
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions, logger zerolog.Logger) *CookieStore {
	if opts.Path == "" {
		opts.Path = "/"
	}

	return &CookieStore{
		w:      w,
		r:      r,
		opts:   opts,
		logger: logger.With().Str("component", "cookie-cart-store").Logger(),
	}
}

// Read returns the list written earlier in this exchange, or else the list
// carried by the request cookie.
func (s *CookieStore) Read(ctx context.Context) IDList {
	if s.dirty {
		return s.written.Clone()
	}

	c, err := s.r.Cookie(s.opts.Name)
	if err != nil {
		return IDList{}
	}

	ids, ok := parseCookieValue(c.Value)
	if !ok {
		s.logger.Warn().
			Str("cookie", s.opts.Name).
			Int("length", len(c.Value)).
			Msg("corrupt cart cookie, treating as empty")
		return IDList{}
	}

	return ids
}

// Write sets the cart cookie on the response. It must run before the
// response header is written.
func (s *CookieStore) Write(ctx context.Context, ids IDList) error {
	data, err := encodeIDList(ids)
	if err != nil {
		return fmt.Errorf("failed to encode cart cookie: %w", err)
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     s.opts.Name,
		Value:    url.QueryEscape(string(data)),
		Path:     s.opts.Path,
		MaxAge:   s.opts.MaxAge,
		SameSite: http.SameSiteLaxMode,
	})

	s.written = ids.Clone()
	s.dirty = true

	return nil
}

func parseCookieValue(value string) (IDList, bool) {
	if value == "" {
		return IDList{}, true
	}

	unescaped, err := url.QueryUnescape(value)
	if err != nil {
		return IDList{}, false
	}

	return decodeIDList([]byte(unescaped))
}
