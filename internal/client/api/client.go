package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sportclub/internal/client/credentials"
	"github.com/dmitrijs2005/sportclub/internal/client/models"
	"github.com/dmitrijs2005/sportclub/internal/logging"
)

// Backend endpoints, relative to the API base URL.
const (
	PathRegister           = "/users/register"
	PathLogin              = "/users/login"
	PathConnectedUser      = "/users/getConnectedUser"
	PathAllUsers           = "/users/getAllUsers"
	PathUserByID           = "/users/getById/"
	PathUsersByGroup       = "/users/byGroup/"
	PathUsersByEvent       = "/users/byEvent/"
	PathChangeSubscription = "/users/changeSubscription/"
)

const maxBodySize = 1 << 20

// Gateway is the part of the backend the session core depends on.
type Gateway interface {
	FetchCurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterUserRequest) (*models.LoginResult, error)
}

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	transport *Transport
	creds     credentials.Source
	log       logging.Logger
}

type Option func(*options)

type options struct {
	base    http.RoundTripper
	timeout time.Duration
	log     logging.Logger
}

// WithBaseTransport sets the RoundTripper below the interceptor chain.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithTimeout bounds each call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// NewClient builds a gateway for the API rooted at baseURL
// (e.g. "http://localhost:4000/api"). creds is read, never written.
func NewClient(baseURL string, creds credentials.Source, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}

	o := options{log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	t := NewTransport(o.base)
	t.Use(BearerInterceptor(creds))

	return &Client{
		baseURL:   u,
		http:      &http.Client{Transport: t, Timeout: o.timeout},
		transport: t,
		creds:     creds,
		log:       o.log.With("component", "api"),
	}, nil
}

// Transport exposes the shared interceptor chain.
func (c *Client) Transport() *Transport {
	return c.transport
}

type envelope struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Total   int             `json:"total"`
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one call and returns the decoded success envelope.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return nil, unreachable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, unreachable(fmt.Errorf("read response: %w", err))
	}
	c.log.Debug(ctx, "response", "method", method, "path", path, "status", resp.StatusCode)

	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if ok2xx {
			return nil, unreachable(fmt.Errorf("malformed response: %w", err))
		}
		return nil, rejected(resp.StatusCode, failureFromBody(resp.StatusCode, raw))
	}

	if !ok2xx || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = statusMessage(resp.StatusCode)
		}
		return nil, rejected(resp.StatusCode, models.ErrorRecord{Status: models.ErrorStatus(env.Status), Message: msg})
	}
	return &env, nil
}

// failureFromBody handles bodies that are not an envelope: a JSON string or
// plain text.
func failureFromBody(code int, raw []byte) models.ErrorRecord {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		s = statusMessage(code)
	}
	return models.ErrorRecord{Status: models.StatusFail, Message: s}
}

func statusMessage(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "request failed"
}

func decodeData[T any](env *envelope) (T, error) {
	var v T
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return v, unreachable(fmt.Errorf("response carried no data"))
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, unreachable(fmt.Errorf("decode data: %w", err))
	}
	return v, nil
}

// FetchCurrentUser loads the user the stored credential belongs to. It fails
// with ErrNoCredential without touching the network when nothing is stored.
func (c *Client) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	if !credentials.Present(ctx, c.creds) {
		return nil, noCredential()
	}

	env, err := c.do(ctx, http.MethodGet, PathConnectedUser, nil, nil)
	if err != nil {
		return nil, err
	}
	u, err := decodeData[models.User](env)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type authData struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func decodeAuth(env *envelope) (*models.LoginResult, error) {
	d, err := decodeData[authData](env)
	if err != nil {
		return nil, err
	}
	if d.Token == "" {
		return nil, rejected(0, models.ErrorRecord{Status: models.StatusFail, Message: "response carried no token"})
	}

	res := &models.LoginResult{Token: d.Token, User: d.User}
	if res.User == nil {
		// older backends inline the user next to the token
		var flat models.User
		if err := json.Unmarshal(env.Data, &flat); err == nil && flat.ID != "" {
			res.User = &flat
		}
	}
	return res, nil
}

// Login submits credentials anonymously. The caller persists the token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	env, err := c.do(WithAnonymous(ctx), http.MethodPost, PathLogin, nil, req)
	if err != nil {
		return nil, err
	}
	return decodeAuth(env)
}

// Register creates an account; the backend answers like Login.
func (c *Client) Register(ctx context.Context, req models.RegisterUserRequest) (*models.LoginResult, error) {
	env, err := c.do(WithAnonymous(ctx), http.MethodPost, PathRegister, nil, req)
	if err != nil {
		return nil, err
	}
	return decodeAuth(env)
}

func (c *Client) ListUsers(ctx context.Context, page, limit int) (*models.Page[models.User], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}

	env, err := c.do(ctx, http.MethodGet, PathAllUsers, q, nil)
	if err != nil {
		return nil, err
	}
	users, err := decodeData[[]models.User](env)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.User]{Page: env.Page, Limit: env.Limit, Total: env.Total, Items: users}, nil
}

func (c *Client) UserByID(ctx context.Context, id string) (*models.User, error) {
	env, err := c.do(ctx, http.MethodGet, PathUserByID+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	u, err := decodeData[models.User](env)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UsersByGroup(ctx context.Context, groupID string) ([]models.User, error) {
	return c.userList(ctx, PathUsersByGroup+url.PathEscape(groupID))
}

func (c *Client) UsersByEvent(ctx context.Context, eventID string) ([]models.User, error) {
	return c.userList(ctx, PathUsersByEvent+url.PathEscape(eventID))
}

func (c *Client) userList(ctx context.Context, path string) ([]models.User, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]models.User](env)
}

// ChangeSubscription switches the connected user's plan and returns the
// updated user.
func (c *Client) ChangeSubscription(ctx context.Context, subscriptionID string) (*models.User, error) {
	env, err := c.do(ctx, http.MethodPost, PathChangeSubscription+url.PathEscape(subscriptionID), nil, nil)
	if err != nil {
		return nil, err
	}
	u, err := decodeData[models.User](env)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
