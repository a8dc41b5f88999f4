package echoapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/admin"
)

// sessionHeader carries the interactive-session ID so that failed login
// attempts keep counting against the same gate across requests.
const sessionHeader = "X-Session-Id"

const authScheme = "Bearer"

type (
	authedSession struct {
		sessionID string
		gate      *admin.Gate
		expiresAt time.Time
	}

	gateEntry struct {
		gate     *admin.Gate
		lastSeen time.Time
	}

	// sessionManager owns one access gate per interactive session plus the
	// tokens issued to sessions that logged in successfully.
	sessionManager struct {
		mu     sync.Mutex
		conf   *core.Config
		gates  map[string]*gateEntry
		tokens map[string]*authedSession
	}
)

func newSessionManager(conf *core.Config) *sessionManager {
	return &sessionManager{
		conf:   conf,
		gates:  make(map[string]*gateEntry),
		tokens: make(map[string]*authedSession),
	}
}

// gateFor returns the gate for the given interactive session, creating a
// fresh session when the ID is unknown or absent. Sessions idle for longer
// than the session TTL are pruned here so the map cannot grow unbounded.
func (sm *sessionManager) gateFor(sessionID string) (string, *admin.Gate) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for id, entry := range sm.gates {
		if now.Sub(entry.lastSeen) > sm.conf.Server.SessionTTL {
			delete(sm.gates, id)
		}
	}

	if sessionID != "" {
		if entry, ok := sm.gates[sessionID]; ok {
			entry.lastSeen = now
			return sessionID, entry.gate
		}
	}
	sessionID = uuid.NewString()
	gate := admin.NewGate(sm.conf)
	sm.gates[sessionID] = &gateEntry{gate: gate, lastSeen: now}
	return sessionID, gate
}

// issueToken mints an opaque token bound to a logged-in gate.
func (sm *sessionManager) issueToken(sessionID string, gate *admin.Gate) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	token := uuid.NewString()
	sm.tokens[token] = &authedSession{
		sessionID: sessionID,
		gate:      gate,
		expiresAt: time.Now().Add(sm.conf.Server.SessionTTL),
	}
	return token
}

// authenticate resolves a token to its gate; expired or unknown tokens and
// logged-out gates fail.
func (sm *sessionManager) authenticate(token string) (*admin.Gate, bool) {
	sm.mu.Lock()
	s, ok := sm.tokens[token]
	if ok && time.Now().After(s.expiresAt) {
		delete(sm.tokens, token)
		ok = false
	}
	sm.mu.Unlock()

	if !ok || !s.gate.LoggedIn() {
		return nil, false
	}
	return s.gate, true
}

// drop logs the token's gate out and forgets both the token and its
// interactive session.
func (sm *sessionManager) drop(token string) {
	sm.mu.Lock()
	s, ok := sm.tokens[token]
	delete(sm.tokens, token)
	if ok {
		delete(sm.gates, s.sessionID)
	}
	sm.mu.Unlock()

	if ok {
		s.gate.Logout()
	}
}

func tokenFromRequest(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(authScheme) && strings.EqualFold(header[:len(authScheme)], authScheme) {
		return strings.TrimSpace(header[len(authScheme):])
	}
	return ""
}

// requireAdmin guards the admin review endpoints: they are only reachable
// through a session whose gate is logged in.
func requireAdmin(sessions *sessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := tokenFromRequest(ctx)
			if token == "" {
				return errUnauthorized
			}
			if _, ok := sessions.authenticate(token); !ok {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}
