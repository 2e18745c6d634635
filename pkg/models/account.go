package models

// LoginResponse captures the document returned by the account login
// endpoints. The account block is always present; the auth block carries
// the session token once the server is willing to issue one.
type LoginResponse struct {
	Account Account `json:"account"`
	Auth    Auth    `json:"auth"`
}

// Account identifies the authenticated account and which regional
// cluster serves it.
type Account struct {
	AccountID int    `json:"account_id"`
	ClientID  int    `json:"client_id"`
	Region    string `json:"region"`
	Tier      string `json:"tier"`

	// Either flag set means the login is on hold until the account or
	// this client is verified out-of-band.
	AccountVerificationRequired bool `json:"account_verification_required"`
	ClientVerificationRequired  bool `json:"client_verification_required"`
}

// Auth carries the session token.
type Auth struct {
	Token string `json:"token"`
}

// VerifyResponse is the body returned by the pin verification endpoint.
type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}
