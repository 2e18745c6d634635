package client

import (
	"errors"
	"fmt"

	"github.com/danbovey/blink-camera-system/internal/auth"
)

// ErrNoSession is returned by any device, network, summary, or video
// operation attempted before a session is established. Fail-fast: the
// doomed network call is never issued.
var ErrNoSession = errors.New("blink: no established session")

// AuthError is any failure to establish a session. See the auth
// package for the cases it covers.
type AuthError = auth.AuthError

// NotFoundError reports a selection or lookup that matched nothing: a
// network name/id with no match, an account with zero networks, or a
// motion event referencing an unknown device.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return "blink: not found: " + e.Resource
}

// APIError is a non-2xx response from a call not tied to a particular
// device or network, such as a summary or video-listing fetch.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("blink: API error %d: %s", e.Status, e.Body)
}

// DeviceOpError is a transport failure on a per-device operation. It
// carries enough context to be actionable from an aggregate failure.
type DeviceOpError struct {
	DeviceID int
	Name     string
	Op       string
	Status   int
	Err      error
}

func (e *DeviceOpError) Error() string {
	msg := fmt.Sprintf("blink: device %d (%s) %s failed", e.DeviceID, e.Name, e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(" with status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeviceOpError) Unwrap() error { return e.Err }

// NetworkOpError is a transport failure arming or disarming one
// network.
type NetworkOpError struct {
	NetworkID int
	State     string
	Status    int
	Err       error
}

func (e *NetworkOpError) Error() string {
	msg := fmt.Sprintf("blink: network %d %s failed", e.NetworkID, e.State)
	if e.Status != 0 {
		msg += fmt.Sprintf(" with status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkOpError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is a session-establishment failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
