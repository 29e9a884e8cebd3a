package domain

import "time"

// AuthEventKind classifies entries in the security audit trail.
type AuthEventKind string

const (
	AuthEventLoginSuccess AuthEventKind = "login_success"
	AuthEventLoginFailure AuthEventKind = "login_failure"
	AuthEventVerify       AuthEventKind = "verify"
	AuthEventGateDenied   AuthEventKind = "gate_denied"
)

// AuthEvent records a single authentication or authorization decision.
// Reason carries the internal failure class (expired token, inactive user,
// ...) that is deliberately never exposed to the caller.
type AuthEvent struct {
	Kind      AuthEventKind
	Email     string
	Role      string
	Path      string
	Reason    string
	Timestamp time.Time
}
