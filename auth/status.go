// Package auth provides credential authentication against a user repository
// and the grant-type dispatch for the token endpoint.
package auth

// Status is the tri-state outcome of an authentication attempt. It never
// carries the password or its hash. UserNotFound and IncorrectPassword are
// distinguished for internal logic only; the wire must collapse both into one
// generic failure so callers cannot enumerate users.
type Status int

const (
	StatusUserNotFound Status = iota
	StatusIncorrectPassword
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusUserNotFound:
		return "user not found"
	case StatusIncorrectPassword:
		return "incorrect password"
	case StatusSuccess:
		return "success"
	}
	return "unknown"
}
