package franklinwh

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
)

const loginPath = "/hes-gateway/terminal/initialize/appUserOrInstallerLogin"

// TokenProvider exchanges an email/password pair for a bearer token. The
// plaintext password is hashed at construction and never stored; the token's
// lifetime is controlled by the vendor and opaque to this library.
type TokenProvider struct {
	settings

	email       string
	md5Password string
}

// Account is the result of a successful login.
type Account struct {
	UserID  int    `json:"userId"`
	Token   string `json:"token"`
	Version string `json:"version"`
}

// NewTokenProvider creates a provider for the given credentials. The password
// is reduced to its MD5 digest immediately, matching what the vendor expects
// on the wire.
func NewTokenProvider(email, password string, opts ...Option) (*TokenProvider, error) {
	if email == "" {
		return nil, errors.New("missing email")
	}
	if password == "" {
		return nil, errors.New("missing password")
	}

	hash := md5.Sum([]byte(password))

	return &TokenProvider{
		settings:    newSettings(opts),
		email:       email,
		md5Password: hex.EncodeToString(hash[:]),
	}, nil
}

// Login performs the credential exchange and returns the account details.
// It issues a single request; invalid credentials and locked accounts both
// surface as [ErrAuthentication], the latter also as [ErrAccountLocked].
func (p *TokenProvider) Login(ctx context.Context) (*Account, error) {
	form := url.Values{}
	form.Set("account", p.email)
	form.Set("password", p.md5Password)
	form.Set("lang", defaultLang)
	form.Set("type", "1")

	req, err := p.newFormRequest(ctx, loginPath, form)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := p.send(req, &account); err != nil {
		// The vendor reports a locked account with envelope code 400,
		// which the generic path classifies as a vendor error.
		var vendorErr *VendorError
		if errors.As(err, &vendorErr) && vendorErr.Code == codeAccountLocked {
			return nil, &AuthError{
				StatusCode: vendorErr.StatusCode,
				Code:       vendorErr.Code,
				Message:    vendorErr.Message,
			}
		}
		return nil, err
	}

	if account.Token == "" {
		return nil, &AuthError{
			StatusCode: http.StatusOK,
			Message:    "login response carried no token",
		}
	}

	return &account, nil
}

// Token performs the credential exchange and returns only the bearer token.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	account, err := p.Login(ctx)
	if err != nil {
		return "", err
	}

	return account.Token, nil
}
