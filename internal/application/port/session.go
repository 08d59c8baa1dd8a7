package port

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UserKey is the session key holding the authenticated user's identity.
const UserKey = "user"

// Logical navigation routes, mirroring the employee-facing pages.
const (
	RouteBills   = "#employee/bills"
	RouteNewBill = "#employee/bill/new"
)

// ErrNoUser is returned when the session holds no authenticated user.
var ErrNoUser = errors.New("no user in session")

// User is the identity stored in the session context at login.
type User struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// SessionContext is the read side of the session store. It is populated at
// login and cleared at logout by the outer surfaces; the core only reads it.
type SessionContext interface {
	Get(key string) (string, bool)
}

// CurrentUser reads and decodes the authenticated user from the session.
func CurrentUser(session SessionContext) (*User, error) {
	if session == nil {
		return nil, ErrNoUser
	}
	raw, ok := session.Get(UserKey)
	if !ok {
		return nil, ErrNoUser
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return &u, nil
}

// Navigator moves the user to a logical route after an operation completes.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(route string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(route string) { f(route) }
