// Package auth resolves websocket bearer tokens to ledger accounts.
package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrInvalidToken indicates the token was rejected.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnavailable indicates the auth service could not answer.
	ErrUnavailable = errors.New("auth: unavailable")
)

// DefaultTimeout bounds a single validation call.
const DefaultTimeout = 500 * time.Millisecond

// Identity is the account a token belongs to.
type Identity struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
}

// Validator validates authentication tokens.
type Validator interface {
	// Validate returns the identity behind token. A nil identity with a nil
	// error means authentication is disabled and the caller picks the account.
	Validate(ctx context.Context, token string) (*Identity, error)
}

// HTTPValidator asks an external service whether a token is valid.
type HTTPValidator struct {
	url         string
	adminSecret string
	timeout     time.Duration
	client      *http.Client
}

// NewHTTPValidator creates a validator that POSTs tokens to url.
func NewHTTPValidator(url, adminSecret string) *HTTPValidator {
	return &HTTPValidator{
		url:         url,
		adminSecret: adminSecret,
		timeout:     DefaultTimeout,
		client:      &http.Client{Timeout: DefaultTimeout},
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid       bool   `json:"valid"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (v *HTTPValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	body, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.adminSecret != "" {
		req.Header.Set("X-Admin-Secret", v.adminSecret)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}
	if !out.Valid || out.AccountID == "" {
		return nil, ErrInvalidToken
	}

	name := out.DisplayName
	if name == "" {
		name = out.AccountID
	}
	return &Identity{AccountID: out.AccountID, DisplayName: name}, nil
}

// NoopValidator accepts every connection; clients name their own account.
type NoopValidator struct{}

func NewNoopValidator() *NoopValidator {
	return &NoopValidator{}
}

func (NoopValidator) Validate(context.Context, string) (*Identity, error) {
	return nil, nil
}
