package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"agrismart/internal/config"
	"agrismart/internal/domain/apperr"
	"agrismart/internal/domain/models"
)

// Client exposes the identity provider operations used by the application.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*models.Principal, error)
}

// APIClient is a resty-backed implementation of Client talking to a
// Firebase-style identity toolkit REST endpoint.
type APIClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewClient builds an identity provider client using the provided configuration values.
func NewClient(cfg config.AuthConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		apiKey:     cfg.APIKey,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// apiError represents an identity toolkit error payload.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// classify maps provider error messages onto the fixed failure taxonomy.
func classify(message string) apperr.ProviderCode {
	// The provider appends detail after a colon for some variants,
	// e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	head := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])

	switch head {
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return apperr.CodeUnknownAccount
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return apperr.CodeWrongCredential
	case "INVALID_EMAIL":
		return apperr.CodeMalformedEmail
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return apperr.CodeRateLimited
	default:
		return apperr.CodeProviderOther
	}
}

// SignIn verifies the credential pair and returns the signed-in principal.
// Failures are classified as apperr.ProviderError.
func (c *APIClient) SignIn(ctx context.Context, email, password string) (*models.Principal, error) {
	result := new(signInResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(signInRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(result).
		SetError(apiErr).
		Post("/v1/accounts:signInWithPassword")
	if err != nil {
		return nil, &apperr.ProviderError{Code: apperr.CodeProviderOther, Err: fmt.Errorf("sign in: %w", err)}
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		return nil, &apperr.ProviderError{
			Code: classify(message),
			Err:  fmt.Errorf("identity api error: code=%d, message=%s", apiErr.Error.Code, message),
		}
	}

	return &models.Principal{UID: result.LocalID, Email: result.Email}, nil
}
