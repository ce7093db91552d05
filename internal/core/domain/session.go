package domain

// SessionState is the lifecycle state of a client context's session.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	// StateAuthenticating is transient: a login is in flight.
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)
