package warden

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/nikelaz/bw-mobile-app-sub000/internal/transport"
	internalTypes "github.com/nikelaz/bw-mobile-app-sub000/internal/types"
)

const (
	// DefaultBaseURL is the default Budget Warden API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout
)

// Client is the main Budget Warden API client
type Client struct {
	// Service interfaces
	Budgets         BudgetService
	CategoryBudgets CategoryBudgetService
	Transactions    TransactionService
	Users           UserService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	session    *Session
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides direct authentication token
	Token string

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior
	RetryConfig *internalTypes.RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles HTTP communication with the backend
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error
	Login(ctx context.Context, path string, body, result interface{}) error
	SetAuth(token string)
	SetSession(session *internalTypes.Session)
}

// NewClient creates a new Budget Warden client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	transportOpts := &transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	}
	trans := transport.NewRESTTransport(transportOpts)

	if opts.Token != "" {
		trans.SetAuth(opts.Token)
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		options:    opts,
	}

	if opts.Token != "" {
		c.session = &Session{Token: opts.Token}
	}

	c.initServices()

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Budgets = &budgetService{client: c}
	c.CategoryBudgets = &categoryBudgetService{client: c}
	c.Transactions = &transactionService{client: c}
	c.Users = &userService{client: c}
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.transport.SetAuth(token)
	if c.session == nil {
		c.session = &Session{}
	}
	c.session.Token = token
}

// Token returns the current bearer token, or an empty string when the client
// is not authenticated. Stores use this as their precondition guard.
func (c *Client) Token() string {
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// SetSession sets the full session
func (c *Client) SetSession(session *Session) {
	c.session = session
	c.transport.SetSession(session)
}

// GetSession returns the current session
func (c *Client) GetSession() *Session {
	return c.session
}

// do executes an API request through the transport with rate limiting and
// error capture applied.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			c.captureError(ctx, err, method, path)
			return errors.Wrap(err, "rate limiter")
		}
	}

	err := c.transport.Do(ctx, method, path, query, body, result)
	if err != nil {
		c.captureError(ctx, err, method, path)
	}

	return err
}

// captureError reports an error to Sentry when it is configured.
func (c *Client) captureError(ctx context.Context, err error, method, path string) {
	if c.options.SentryDSN == "" && c.options.SentryOptions == nil {
		return
	}

	capture := func(scope *sentry.Scope) {
		scope.SetTag("api.method", method)
		scope.SetTag("api.path", path)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			capture(scope)
			hub.CaptureException(err)
		})
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		capture(scope)
		sentry.CaptureException(err)
	})
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
