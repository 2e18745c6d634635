// Package auth owns the login state machine: primary login, the
// optional two-factor challenge, token-based session reuse, and URL
// rederivation whenever the account or region changes.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/danbovey/blink-camera-system/internal/endpoints"
	"github.com/danbovey/blink-camera-system/pkg/models"
)

const (
	loginPath       = "/api/v5/account/login"
	loginPath2FA    = "/api/v4/account/login"
	verifyPathTmpl  = "/api/v4/account/%d/client/%d/pin/verify"
	clientType      = "android"
	clientOSVersion = "12"
)

// DefaultVerifyWait is how long a login waits for the provider-side
// approval flow (email confirmation) before retrying once.
const DefaultVerifyWait = 60 * time.Second

// CodeProvider returns one verification code given a prompt. It is the
// only place the core defers to an external input channel; a terminal,
// a test double, or a programmatic caller all satisfy it.
type CodeProvider func(ctx context.Context, prompt string) (string, error)

// AuthError is any failure to establish a session: missing credentials,
// login transport failure, verification timeout, or a malformed login
// response. It is fatal to the in-progress login.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// Options configures a Session. Username/Password/DeviceID drive a full
// login; Token/Tier drive the no-network token path.
type Options struct {
	Username string
	Password string
	DeviceID string

	// Token/Tier from a previous session skip the login round trip.
	Token string
	Tier  string

	Auth2FA      bool
	DeviceName   string
	VerifyWait   time.Duration
	CodeProvider CodeProvider

	// BaseURL pins scheme and host instead of the rest-{tier} template.
	BaseURL string
}

// Session owns the authenticated state: token, auth header, account and
// region identifiers, and the derived endpoint set. It is either fully
// populated by a successful login/token setup or empty; other
// components read it and never write it.
type Session struct {
	http *resty.Client
	log  *logrus.Logger
	opts Options

	token      string
	authHeader map[string]string
	accountID  int
	clientID   int
	region     string
	tier       string
	urls       endpoints.Set
}

// NewSession wires a session engine onto a shared resty client.
func NewSession(opts Options, http *resty.Client, log *logrus.Logger) *Session {
	if opts.VerifyWait <= 0 {
		opts.VerifyWait = DefaultVerifyWait
	}
	if opts.DeviceName == "" {
		opts.DeviceName = "blink-camera-system"
	}
	return &Session{http: http, log: log, opts: opts}
}

// Ready reports whether a token and header are in place. No device or
// network call may be issued while this is false.
func (s *Session) Ready() bool { return s.authHeader != nil }

// Token returns the session token, empty until authenticated.
func (s *Session) Token() string { return s.token }

// Tier returns the regional tier serving the account.
func (s *Session) Tier() string { return s.tier }

// Region returns the human-readable region name, when the server sent one.
func (s *Session) Region() string { return s.region }

// AccountID returns the numeric account id, 0 until known.
func (s *Session) AccountID() int { return s.accountID }

// AuthHeader returns the headers attached to every authenticated call.
func (s *Session) AuthHeader() map[string]string { return s.authHeader }

// URLs returns the endpoint set derived for the current account/tier.
func (s *Session) URLs() endpoints.Set { return s.urls }

// AdoptAccountID rederives the endpoint set for a corrected account id.
// The id reported by a summary fetch wins over whatever the token path
// assumed.
func (s *Session) AdoptAccountID(id int) {
	if id == 0 || id == s.accountID {
		return
	}
	s.accountID = id
	s.rederiveURLs()
}

// SetupWithToken builds the auth header and endpoint set from a token
// and tier supplied at construction, with no network round trip. Token
// validity is discovered lazily on the first real API call.
func (s *Session) SetupWithToken() error {
	if s.opts.Token == "" || s.opts.Tier == "" {
		return &AuthError{Reason: "token setup requires a token and a region tier"}
	}
	s.token = s.opts.Token
	s.tier = s.opts.Tier
	s.authHeader = map[string]string{"token-auth": s.token}
	s.rederiveURLs()
	return nil
}

// Login authenticates with username/password. When the server demands
// verification and two-factor mode is off, it waits VerifyWait and
// retries the identical login exactly once; in two-factor mode it asks
// the CodeProvider for a pin and completes the challenge.
func (s *Session) Login(ctx context.Context) error {
	if s.opts.Username == "" || s.opts.Password == "" || s.opts.DeviceID == "" {
		return &AuthError{Reason: "username, password and device identifier are required"}
	}

	payload := s.loginPayload()
	lr, err := s.postLogin(ctx, payload)
	if err != nil {
		return err
	}

	if verificationRequired(lr) {
		if s.opts.Auth2FA {
			return s.completeTwoFactor(ctx, lr)
		}
		// Provider-side async approval (e.g. email confirmation):
		// wait, then retry the same request once.
		s.log.WithField("wait", s.opts.VerifyWait).Info("account verification pending, waiting before retry")
		select {
		case <-ctx.Done():
			return &AuthError{Reason: "canceled while awaiting verification", Err: ctx.Err()}
		case <-time.After(s.opts.VerifyWait):
		}
		lr, err = s.postLogin(ctx, payload)
		if err != nil {
			return err
		}
		if verificationRequired(lr) {
			return &AuthError{Reason: "verification timeout: account still unverified after retry"}
		}
	}

	return s.finalize(lr)
}

func (s *Session) loginPayload() map[string]string {
	return map[string]string{
		"email":             s.opts.Username,
		"password":          s.opts.Password,
		"notification_key":  NotificationKey(DefaultKeyLength),
		"unique_id":         s.opts.DeviceID,
		"device_identifier": s.opts.DeviceID,
		"client_name":       s.opts.DeviceName,
		"client_type":       clientType,
		"os_version":        clientOSVersion,
		"reauth":            "true",
	}
}

func (s *Session) postLogin(ctx context.Context, payload map[string]string) (*models.LoginResponse, error) {
	path := loginPath
	if s.opts.Auth2FA {
		path = loginPath2FA
	}
	url := s.loginBase() + path

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&models.LoginResponse{}).
		Post(url)
	if err != nil {
		return nil, &AuthError{Reason: "login request failed", Err: err}
	}
	if resp.IsError() {
		return nil, &AuthError{Reason: fmt.Sprintf("login rejected: %s", resp.String())}
	}
	lr, ok := resp.Result().(*models.LoginResponse)
	if !ok {
		return nil, &AuthError{Reason: "failed to parse login response"}
	}
	return lr, nil
}

// completeTwoFactor captures the partial identity from the login
// response, asks for the out-of-band pin, and posts it to the
// per-account verification endpoint.
func (s *Session) completeTwoFactor(ctx context.Context, lr *models.LoginResponse) error {
	if s.opts.CodeProvider == nil {
		return &AuthError{Reason: "two-factor login requires a verification code provider"}
	}
	if lr.Account.Tier == "" {
		return &AuthError{Reason: "login response missing region tier"}
	}

	s.accountID = lr.Account.AccountID
	s.clientID = lr.Account.ClientID
	s.region = lr.Account.Region
	s.tier = lr.Account.Tier
	s.rederiveURLs()

	code, err := s.opts.CodeProvider(ctx, "Enter the verification code sent to your account: ")
	if err != nil {
		return &AuthError{Reason: "verification code not provided", Err: err}
	}

	url := s.urls.Base + fmt.Sprintf(verifyPathTmpl, s.accountID, s.clientID)
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("token-auth", lr.Auth.Token).
		SetBody(map[string]string{"pin": code}).
		SetResult(&models.VerifyResponse{}).
		Post(url)
	if err != nil {
		return &AuthError{Reason: "pin verification request failed", Err: err}
	}
	if resp.IsError() {
		return &AuthError{Reason: fmt.Sprintf("pin verification rejected: %s", resp.String())}
	}
	if vr, ok := resp.Result().(*models.VerifyResponse); ok && !vr.Valid && vr.Message != "" {
		return &AuthError{Reason: fmt.Sprintf("pin verification failed: %s", vr.Message)}
	}

	return s.finalize(lr)
}

// finalize populates the session atomically from a login response that
// no longer requires verification.
func (s *Session) finalize(lr *models.LoginResponse) error {
	if lr.Account.Tier == "" {
		return &AuthError{Reason: "login response missing region tier"}
	}
	if lr.Auth.Token == "" {
		return &AuthError{Reason: "login response missing auth token"}
	}

	s.token = lr.Auth.Token
	s.accountID = lr.Account.AccountID
	s.clientID = lr.Account.ClientID
	s.region = lr.Account.Region
	s.tier = lr.Account.Tier
	s.authHeader = map[string]string{"token-auth": s.token}
	s.rederiveURLs()

	s.log.WithFields(logrus.Fields{
		"account": s.accountID,
		"tier":    s.tier,
	}).Debug("session established")
	return nil
}

func (s *Session) loginBase() string {
	if s.opts.BaseURL != "" {
		return s.opts.BaseURL
	}
	return fmt.Sprintf("https://rest-%s.%s", endpoints.DefaultTier, endpoints.PlatformHost)
}

func (s *Session) rederiveURLs() {
	if s.opts.BaseURL != "" {
		s.urls = endpoints.FromBase(s.opts.BaseURL, s.accountID)
		return
	}
	s.urls = endpoints.Resolve(s.accountID, s.tier)
}

func verificationRequired(lr *models.LoginResponse) bool {
	return lr.Account.AccountVerificationRequired || lr.Account.ClientVerificationRequired
}
