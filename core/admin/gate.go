// Package admin holds the session/access gate controlling whether the
// admin review workflow is reachable. It is a stateful convenience, not a
// security boundary: credentials are a fixed configured pair compared in
// the clear, and the failed-attempt limit imposes no lockout.
package admin

import (
	"fmt"
	"sync"

	"github.com/enlift/backend/core"
)

const maxAttempts = 3

const (
	msgLoginOK          = "login successful"
	msgTooManyAttempts  = "too many failed attempts. Please try again later."
	msgWrongCredentials = "incorrect username or password. %d attempts left."
)

// Gate is a two-state machine (logged out / logged in) guarding the admin
// review service. One Gate belongs to one interactive session.
type Gate struct {
	mu       sync.Mutex
	username string
	password string
	loggedIn bool
	failed   int
}

// LoginResult is the outcome of one login attempt. A denied attempt is the
// expected negative branch, not an error.
type LoginResult struct {
	OK           bool
	AttemptsLeft int
	Message      string
}

func NewGate(conf *core.Config) *Gate {
	return &Gate{username: conf.AdminUsername, password: conf.AdminPassword}
}

// Login transitions to logged-in iff the credentials match the configured
// pair. On the third consecutive failure the counter resets to 0; there is
// no cooldown, the next attempt is evaluated fresh.
func (g *Gate) Login(username, password string) LoginResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if username == g.username && password == g.password {
		g.loggedIn = true
		g.failed = 0
		return LoginResult{OK: true, AttemptsLeft: maxAttempts, Message: msgLoginOK}
	}

	g.failed++
	left := maxAttempts - g.failed
	if left <= 0 {
		g.failed = 0
		return LoginResult{AttemptsLeft: 0, Message: msgTooManyAttempts}
	}
	return LoginResult{AttemptsLeft: left, Message: fmt.Sprintf(msgWrongCredentials, left)}
}

// Logout transitions to logged-out unconditionally and resets the
// failure counter.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loggedIn = false
	g.failed = 0
}

func (g *Gate) LoggedIn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loggedIn
}
