package franklinwh

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"
)

const (
	// ProductionURL is the official FranklinWH cloud endpoint.
	ProductionURL = "https://energy.franklinwh.com/"

	modulePath = "thde.io/franklinwh"

	// defaultLang is sent on every installation-scoped request.
	defaultLang = "en_US"
)

// settings holds the transport configuration shared by [Client] and
// [TokenProvider].
type settings struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func newSettings(opts []Option) settings {
	productionURL, _ := url.Parse(ProductionURL)

	s := settings{
		baseURL: productionURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.timeout != 0 {
		s.httpClient.Timeout = s.timeout
	}
	if s.userAgent == "" {
		s.userAgent = userAgent()
	}

	return s
}

// Option configures a [Client] or [TokenProvider] before use.
type Option func(*settings)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL *url.URL) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout. It overrides the timeout of the
// configured HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// WithUserAgent sets a custom User-Agent header for API requests.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) {
		s.userAgent = userAgent
	}
}

// Client calls the FranklinWH cloud API on behalf of one gateway
// installation. Use [New] to create a new client.
//
// The token and gateway ID are immutable for the client's lifetime. A client
// never refreshes its token: when a call fails with [ErrAuthentication] the
// caller re-authenticates via [TokenProvider] and constructs a new client.
type Client struct {
	settings

	token     string
	gatewayID string

	// snno numbers passthrough command frames.
	snno atomic.Int64
}

// New creates a client scoped to one bearer token and one gateway serial
// number. Constructing a client performs no network call.
func New(token, gatewayID string, opts ...Option) *Client {
	return &Client{
		settings:  newSettings(opts),
		token:     token,
		gatewayID: gatewayID,
	}
}

// Connect exchanges the credentials for a token and returns a client scoped
// to the given gateway. It is a convenience for callers that do not need to
// hold on to the [TokenProvider].
func Connect(ctx context.Context, email, password, gatewayID string, opts ...Option) (*Client, error) {
	provider, err := NewTokenProvider(email, password, opts...)
	if err != nil {
		return nil, err
	}

	token, err := provider.Token(ctx)
	if err != nil {
		return nil, err
	}

	return New(token, gatewayID, opts...), nil
}

// GatewayID returns the gateway serial number the client is scoped to.
func (c *Client) GatewayID() string {
	return c.gatewayID
}

// version returns the module version of the franklinwh package.
// It returns "devel" if built without module version information.
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			if dep.Version == "(devel)" {
				return "devel"
			}

			return dep.Version
		}
	}

	if info.Main.Path == modulePath {
		if info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		// If main version is (devel), we can try to read vcs revision
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return "devel+" + setting.Value[:7]
			}
		}
	}

	return "devel"
}

// userAgent returns the default User-Agent string for this package.
func userAgent() string {
	v := version()
	goVersion := runtime.Version()
	os := runtime.GOOS
	arch := runtime.GOARCH
	return fmt.Sprintf("go-franklinwh/%s (%s; %s/%s)", v, goVersion, os, arch)
}
