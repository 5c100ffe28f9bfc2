package franklinwh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T, email, password string, handler http.Handler) *TokenProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	provider, err := NewTokenProvider(email, password, WithBaseURL(u), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	return provider
}

func TestNewTokenProvider_RejectsEmptyCredentials(t *testing.T) {
	_, err := NewTokenProvider("", "secret")
	assert.Error(t, err)

	_, err = NewTokenProvider("user@example.com", "")
	assert.Error(t, err)
}

func TestTokenProvider_Login(t *testing.T) {
	provider := testProvider(t, "user@example.com", "secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, loginPath, r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "user@example.com", r.Form.Get("account"))
		// MD5 of "secret"; the plaintext must never reach the wire.
		assert.Equal(t, "5ebe2294ecd0e0f08eab7690d2a6ee69", r.Form.Get("password"))
		assert.Equal(t, "en_US", r.Form.Get("lang"))
		assert.Equal(t, "1", r.Form.Get("type"))

		writeEnvelope(t, w, map[string]any{
			"userId":  42,
			"token":   "opaque-token-123",
			"version": "6.0.1",
		})
	}))

	account, err := provider.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, account.UserID)
	assert.Equal(t, "opaque-token-123", account.Token)
	assert.Equal(t, "6.0.1", account.Version)
}

func TestTokenProvider_Token_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantIs  []error
		wantNot []error
	}{
		{
			name: "invalid credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeError(t, w, 401, "invalid credentials")
			},
			wantIs:  []error{ErrAuthentication},
			wantNot: []error{ErrVendor, ErrAccountLocked},
		},
		{
			name: "account locked",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeError(t, w, 400, "account locked, try again later")
			},
			wantIs:  []error{ErrAuthentication, ErrAccountLocked},
			wantNot: []error{ErrVendor},
		},
		{
			name: "http 401",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			},
			wantIs:  []error{ErrAuthentication},
			wantNot: []error{ErrVendor},
		},
		{
			name: "success envelope without token field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, map[string]any{"userId": 42})
			},
			wantIs: []error{ErrAuthentication},
		},
		{
			name: "non-json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>maintenance</html>"))
			},
			wantIs:  []error{ErrParse},
			wantNot: []error{ErrAuthentication},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := testProvider(t, "user@example.com", "secret", tt.handler)

			token, err := provider.Token(context.Background())
			require.Error(t, err)
			assert.Empty(t, token, "no token value may be returned on failure")

			for _, want := range tt.wantIs {
				assert.ErrorIs(t, err, want)
			}
			for _, not := range tt.wantNot {
				assert.NotErrorIs(t, err, not)
			}
		})
	}
}

func TestTokenProvider_Token_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	server.Close()

	provider, err := NewTokenProvider("user@example.com", "secret", WithBaseURL(u))
	require.NoError(t, err)

	token, err := provider.Token(context.Background())
	require.Error(t, err)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestConnect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, map[string]any{"userId": 1, "token": "tok-1"})
	})
	mux.HandleFunc(gatewayListPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.Header.Get("loginToken"))
		writeEnvelope(t, w, []map[string]any{{"id": "ABC123"}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	c, err := Connect(context.Background(), "user@example.com", "secret", "ABC123", WithBaseURL(u))
	require.NoError(t, err)
	assert.Equal(t, "ABC123", c.GatewayID())

	gateways, err := c.Gateways(context.Background())
	require.NoError(t, err)
	require.Len(t, gateways, 1)
	assert.Equal(t, "ABC123", gateways[0].ID)
}
