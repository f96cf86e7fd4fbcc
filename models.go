package main

import "time"

// Account is the durable local representation of a user, whether it was
// created by local registration or by federated login. The email is the
// identity key: exactly one account exists per email, stored case-sensitively.
type Account struct {
	Email string `json:"email"`
	// HashedPassword is a bcrypt digest, or empty for accounts that only
	// ever authenticated through a federated provider.
	HashedPassword string    `json:"hashed_password"`
	Name           string    `json:"name"`
	Company        string    `json:"company,omitempty"`
	APIKey         string    `json:"api_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FederatedProfile is what the identity provider tells us about a user.
// It is transient: used to match or populate an Account, then discarded.
type FederatedProfile struct {
	Login   string
	Name    string
	Company string
	Email   string
}

// DisplayName returns the profile's name, falling back to the provider
// login handle when the user never set one.
func (p FederatedProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// RegisterRequest is the payload for local registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
}

// LoginRequest is the payload for local login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FederatedLoginRequest carries the OAuth authorization code.
type FederatedLoginRequest struct {
	Code string `json:"code"`
}

// ProfilePatch updates an account's mutable profile fields. Empty fields
// mean "not provided" and leave the stored value untouched.
type ProfilePatch struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

// ProfileResponse is the public view of an account. Token is only set on
// authentication responses; profile reads and updates leave it empty.
type ProfileResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Token   string `json:"token"`
}
