package franklinwh

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings_Defaults(t *testing.T) {
	s := newSettings(nil)

	assert.Equal(t, ProductionURL, s.baseURL.String())
	assert.Equal(t, 30*time.Second, s.httpClient.Timeout)
	assert.Contains(t, s.userAgent, "go-franklinwh/")
}

func TestNewSettings_Options(t *testing.T) {
	u, err := url.Parse("https://example.com/")
	require.NoError(t, err)
	httpClient := &http.Client{}

	s := newSettings([]Option{
		WithBaseURL(u),
		WithHTTPClient(httpClient),
		WithTimeout(5 * time.Second),
		WithUserAgent("custom/1.0"),
	})

	assert.Same(t, u, s.baseURL)
	assert.Same(t, httpClient, s.httpClient)
	assert.Equal(t, 5*time.Second, s.httpClient.Timeout)
	assert.Equal(t, "custom/1.0", s.userAgent)
}

func TestNew(t *testing.T) {
	c := New("tok", "ABC123")

	assert.Equal(t, "ABC123", c.GatewayID())
	assert.Equal(t, ProductionURL, c.baseURL.String())
}
