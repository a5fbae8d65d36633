package models

// Principal identifies a signed-in user as reported by the identity provider.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// LoginRequest is the credential payload for the sign-in endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SessionInfo describes the caller's current session to the client.
type SessionInfo struct {
	Token     string     `json:"token,omitempty"`
	Principal *Principal `json:"principal,omitempty"`
	Demo      bool       `json:"demo"`
}
