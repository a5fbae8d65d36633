package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrismart/internal/config"
	"agrismart/internal/domain/apperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    apperr.ProviderCode
	}{
		{message: "EMAIL_NOT_FOUND", want: apperr.CodeUnknownAccount},
		{message: "USER_NOT_FOUND", want: apperr.CodeUnknownAccount},
		{message: "INVALID_PASSWORD", want: apperr.CodeWrongCredential},
		{message: "INVALID_LOGIN_CREDENTIALS", want: apperr.CodeWrongCredential},
		{message: "INVALID_EMAIL", want: apperr.CodeMalformedEmail},
		{message: "TOO_MANY_ATTEMPTS_TRY_LATER", want: apperr.CodeRateLimited},
		{message: "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled.", want: apperr.CodeRateLimited},
		{message: "OPERATION_NOT_ALLOWED", want: apperr.CodeProviderOther},
		{message: "", want: apperr.CodeProviderOther},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.message))
		})
	}
}

func newTestClient(serverURL string) *APIClient {
	return NewClient(config.AuthConfig{BaseURL: serverURL, APIKey: "test-key"})
}

func TestSignInSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin@agrismart.in", req.Email)
		assert.True(t, req.ReturnSecureToken)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(signInResponse{
			LocalID: "uid-42",
			Email:   req.Email,
			IDToken: "opaque",
		})
	}))
	defer server.Close()

	principal, err := newTestClient(server.URL).SignIn(context.Background(), "admin@agrismart.in", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-42", principal.UID)
	assert.Equal(t, "admin@agrismart.in", principal.Email)
}

func TestSignInRejection(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		message  string
		wantCode apperr.ProviderCode
	}{
		{name: "unknown account", status: http.StatusBadRequest, message: "EMAIL_NOT_FOUND", wantCode: apperr.CodeUnknownAccount},
		{name: "wrong password", status: http.StatusBadRequest, message: "INVALID_PASSWORD", wantCode: apperr.CodeWrongCredential},
		{name: "rate limited", status: http.StatusBadRequest, message: "TOO_MANY_ATTEMPTS_TRY_LATER : disabled", wantCode: apperr.CodeRateLimited},
		{name: "server error", status: http.StatusInternalServerError, message: "INTERNAL", wantCode: apperr.CodeProviderOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)

				body := apiError{}
				body.Error.Code = tt.status
				body.Error.Message = tt.message
				json.NewEncoder(w).Encode(body)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).SignIn(context.Background(), "someone@example.com", "password")

			var providerErr *apperr.ProviderError
			require.ErrorAs(t, err, &providerErr)
			assert.Equal(t, tt.wantCode, providerErr.Code)
		})
	}
}

func TestSignInUnreachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // reject all connections

	_, err := newTestClient(server.URL).SignIn(context.Background(), "someone@example.com", "password")

	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.CodeProviderOther, providerErr.Code)
}
