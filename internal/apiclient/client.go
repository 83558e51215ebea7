// Package apiclient is the typed HTTP client for the rackpos REST API. It
// carries the HttpOnly session cookies in a jar, echoes the CSRF cookie on
// mutating requests and refreshes the session once when a request gets a 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"rackpos/internal/apierror"

	"github.com/rs/zerolog/log"
)

const (
	cookieAccess  = "access_token"
	cookieRefresh = "refresh_token"
	cookieCSRF    = "csrftoken"
	headerCSRF    = "X-CSRFToken"

	rutaRefresh = "/v1/auth/refresh"
)

// ErrSesionExpirada is returned when a 401 could not be recovered by a refresh.
var ErrSesionExpirada = errors.New("sesion expirada, inicie sesion nuevamente")

// Error is a non-2xx response decoded from the API error envelope.
type Error struct {
	Status int
	Detail string
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Detail)
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+"="+v)
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Detail, strings.Join(parts, ", "))
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Credenciales are the session cookies, exported so a CLI can keep the
// session between runs.
type Credenciales struct {
	Access  string `mapstructure:"access"  json:"access"`
	Refresh string `mapstructure:"refresh" json:"refresh"`
	CSRF    string `mapstructure:"csrf"    json:"csrf"`
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client. Its Jar is replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLoginRequerido sets the hook run when the session cannot be recovered.
// It is not run while the current route is /login or /register.
func WithLoginRequerido(fn func()) Option {
	return func(c *Client) { c.onLoginRequerido = fn }
}

type Client struct {
	base             *url.URL
	hc               *http.Client
	jar              http.CookieJar
	onLoginRequerido func()

	mu   sync.Mutex
	ruta string

	refreshMu sync.Mutex
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{base: base, hc: &http.Client{Timeout: 30 * time.Second}}
	for _, o := range opts {
		o(c)
	}
	c.jar = jar
	c.hc.Jar = jar
	return c, nil
}

// SetRuta records the screen the user is on.
func (c *Client) SetRuta(ruta string) {
	c.mu.Lock()
	c.ruta = ruta
	c.mu.Unlock()
}

func (c *Client) Ruta() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ruta
}

// Credenciales returns the current session cookies.
func (c *Client) Credenciales() Credenciales {
	var cr Credenciales
	for _, ck := range c.jar.Cookies(c.resolve("/")) {
		switch ck.Name {
		case cookieAccess:
			cr.Access = ck.Value
		case cookieCSRF:
			cr.CSRF = ck.Value
		}
	}
	for _, ck := range c.jar.Cookies(c.resolve(rutaRefresh)) {
		if ck.Name == cookieRefresh {
			cr.Refresh = ck.Value
		}
	}
	return cr
}

// RestaurarCredenciales loads cookies saved by a previous run.
func (c *Client) RestaurarCredenciales(cr Credenciales) {
	var raiz []*http.Cookie
	if cr.Access != "" {
		raiz = append(raiz, &http.Cookie{Name: cookieAccess, Value: cr.Access, Path: "/"})
	}
	if cr.CSRF != "" {
		raiz = append(raiz, &http.Cookie{Name: cookieCSRF, Value: cr.CSRF, Path: "/"})
	}
	if len(raiz) > 0 {
		c.jar.SetCookies(c.resolve("/"), raiz)
	}
	if cr.Refresh != "" {
		c.jar.SetCookies(c.resolve(rutaRefresh), []*http.Cookie{{Name: cookieRefresh, Value: cr.Refresh, Path: "/v1/auth"}})
	}
}

func (c *Client) resolve(path string) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	return &u
}

func (c *Client) csrfToken() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == cookieCSRF {
			return ck.Value
		}
	}
	return ""
}

// do sends one API call. A 401 on anything but the refresh endpoint triggers
// exactly one refresh followed by one retry of the original request.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
	}

	resp, err := c.roundTrip(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	defer drain(resp)
	return decode(resp, out)
}

// download streams a non-JSON response body into w.
func (c *Client) download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	resp, err := c.roundTrip(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode >= 300 {
		return decode(resp, nil)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("apiclient: download %s: %w", path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || path == rutaRefresh {
		return resp, nil
	}
	drain(resp)
	if rerr := c.refresh(ctx); rerr != nil {
		log.Debug().Err(rerr).Str("path", path).Msg("apiclient: refresh failed")
		c.loginRequerido()
		return nil, ErrSesionExpirada
	}
	if resp, err = c.send(ctx, method, path, query, payload); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.loginRequerido()
		return nil, ErrSesionExpirada
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	u := c.resolve(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		if tok := c.csrfToken(); tok != "" {
			req.Header.Set(headerCSRF, tok)
		}
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// refresh renews the session cookies. Concurrent callers share one attempt
// at a time.
func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.do(ctx, http.MethodPost, rutaRefresh, nil, nil, nil)
}

func (c *Client) loginRequerido() {
	if c.onLoginRequerido == nil {
		return
	}
	switch c.Ruta() {
	case "/login", "/register":
		return
	}
	c.onLoginRequerido()
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		var env apierror.ValidationError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err := json.Unmarshal(raw, &env); err != nil || env.Detail == "" {
			env.Detail = strings.TrimSpace(string(raw))
			if env.Detail == "" {
				env.Detail = http.StatusText(resp.StatusCode)
			}
		}
		return &Error{Status: resp.StatusCode, Detail: env.Detail, Fields: env.Fields}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
