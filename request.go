package franklinwh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// newRequest creates an HTTP request with an optional JSON body.
func (s *settings) newRequest(
	ctx context.Context,
	method, path string,
	params url.Values,
	body any,
) (*http.Request, error) {
	rel := &url.URL{Path: path}
	u := s.baseURL.ResolveReference(rel)
	u.RawQuery = params.Encode()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("User-Agent", s.userAgent)

	return req, nil
}

// newFormRequest creates a POST request with a form-encoded body. The login
// and mode-update endpoints expect their parameters this way.
func (s *settings) newFormRequest(ctx context.Context, path string, form url.Values) (*http.Request, error) {
	rel := &url.URL{Path: path}
	u := s.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("User-Agent", s.userAgent)

	return req, nil
}

// send executes the request exactly once and decodes the vendor envelope into
// dest. Every failure is classified: transport errors map to [NetworkError],
// 401/403-class statuses and envelope code 401 to [AuthError], other
// non-success statuses and envelope codes to [VendorError], and malformed
// bodies to [ParseError]. There is no retry and no token refresh.
func (s *settings) send(req *http.Request, dest any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &VendorError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var env Response[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return &ParseError{Detail: "invalid envelope", Err: err}
	}

	if err := env.Err(resp.StatusCode, body); err != nil {
		return err
	}

	if dest == nil {
		return nil
	}

	if len(env.Result) == 0 || string(env.Result) == "null" {
		return &ParseError{Detail: "missing result field"}
	}
	if err := json.Unmarshal(env.Result, dest); err != nil {
		return &ParseError{Detail: "invalid result field", Err: err}
	}

	return nil
}

// call attaches the token and executes an authenticated request.
func (c *Client) call(req *http.Request, dest any) error {
	req.Header.Set("loginToken", c.token)
	return c.send(req, dest)
}
