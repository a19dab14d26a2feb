package session

import (
	"context"
	"sync"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
	"github.com/avirajkale50/cloud-guardian/internal/logger"
)

// State is the session lifecycle state.
type State int

const (
	// StateUnknown is the state before Restore has run.
	StateUnknown State = iota
	// StateChecking means a stored credential is being verified against the
	// identity endpoint. Authenticated-only surfaces must not render yet.
	StateChecking
	// StateAuthenticated means the credential was accepted and a user is loaded.
	StateAuthenticated
	// StateAnonymous means no valid credential is held.
	StateAnonymous
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// identityAPI is the slice of the API client the manager needs.
type identityAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, email, password string) (*api.RegisterUserResponse, error)
	Me(ctx context.Context) (*api.User, error)
}

// Manager derives authentication state from the token store and the identity
// endpoint, and owns all login/register/logout transitions.
//
// Teardown policy, centralized here: only an identity-lookup failure
// (the /auth/me call issued by Restore or Login) clears the stored
// credential. A 401 from any other endpoint surfaces as an ordinary call
// error and leaves the session alone.
type Manager struct {
	api    identityAPI
	tokens Store
	log    logger.Logger

	mu       sync.Mutex
	state    State
	user     *api.User
	onChange func(State)
}

// NewManager creates a session manager over the given API client and token
// store. The initial state is Unknown until Restore runs.
func NewManager(apiClient identityAPI, tokens Store) *Manager {
	return &Manager{
		api:    apiClient,
		tokens: tokens,
		log:    logger.NewEnvLogger("[session]"),
		state:  StateUnknown,
	}
}

// SetLogger overrides the manager's logger.
func (m *Manager) SetLogger(l logger.Logger) {
	m.log = l
}

// OnChange registers a callback invoked after every state transition, with
// the manager's lock released. Only one callback is supported.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the authenticated user, or nil outside StateAuthenticated.
func (m *Manager) Current() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsLoading reports whether a stored credential is still being verified.
func (m *Manager) IsLoading() bool {
	return m.State() == StateChecking
}

// Restore derives the session from any stored credential. With no credential
// it lands in Anonymous without touching the network. With one, it verifies
// via the identity endpoint; any failure clears the credential, since the
// server is authoritative on whether the token is still good.
func (m *Manager) Restore(ctx context.Context) error {
	if _, ok := m.tokens.Get(); !ok {
		m.transition(StateAnonymous, nil)
		return nil
	}

	m.transition(StateChecking, nil)

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Debug("stored credential rejected: %v", err)
		_ = m.tokens.Clear()
		m.transition(StateAnonymous, nil)
		return nil
	}

	m.transition(StateAuthenticated, user)
	return nil
}

// Login exchanges credentials for a token, stores it, and loads the session
// via the identity endpoint. Failure at either step leaves the session
// Anonymous and surfaces the error.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.transition(StateAnonymous, nil)
		return err
	}
	if err := m.tokens.Set(resp.Token); err != nil {
		m.transition(StateAnonymous, nil)
		return err
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		// Identity lookup failed with a token we just received.
		_ = m.tokens.Clear()
		m.transition(StateAnonymous, nil)
		return err
	}

	m.transition(StateAuthenticated, user)
	return nil
}

// Register creates an account and then logs in with the same credentials;
// registration itself does not establish a session.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if _, err := m.api.Register(ctx, email, password); err != nil {
		return err
	}
	return m.Login(ctx, email, password)
}

// Logout clears the credential and session synchronously. It never blocks on
// the network and never fails: a credential-file removal error is logged and
// the in-memory session is torn down regardless.
func (m *Manager) Logout() {
	if err := m.tokens.Clear(); err != nil {
		m.log.Warn("failed to clear stored credential: %v", err)
	}
	m.transition(StateAnonymous, nil)
}

// RequireAuth returns a structured error unless the session is authenticated.
func (m *Manager) RequireAuth() error {
	if m.State() != StateAuthenticated {
		return errors.New(errors.ErrAuth,
			"Not logged in",
			"Run 'cloudguard login' first")
	}
	return nil
}

func (m *Manager) transition(state State, user *api.User) {
	m.mu.Lock()
	m.state = state
	m.user = user
	fn := m.onChange
	m.mu.Unlock()

	m.log.Debug("session state -> %s", state)
	if fn != nil {
		fn(state)
	}
}
