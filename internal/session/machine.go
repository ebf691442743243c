package session

import (
	"context"
	"sync"

	"github.com/rmontanez/shopfront/internal/gateway"
	"github.com/rmontanez/shopfront/internal/storage"
	"github.com/rmontanez/shopfront/pkg/logger"
	"github.com/rmontanez/shopfront/pkg/types"
)

// Gateway is the remote surface the session machine depends on.
type Gateway interface {
	SignIn(ctx context.Context, email, password string) (types.User, error)
	SignUp(ctx context.Context, name, email, password string) (types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
	CreateUser(ctx context.Context, input gateway.CreateUserInput) (types.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Machine owns the authenticated-user identity: the list of known user
// records and the id of the single current user, if any. The current id, when
// set, always references an entry in the known list.
type Machine struct {
	mu   sync.Mutex
	gw   Gateway
	st   storage.Store
	logg *logger.Logger

	users     []types.User
	currentID string
	loading   bool
	lastErr   error

	// onSignOut runs after local session state is cleared; the app container
	// wires the cart reset here.
	onSignOut func(ctx context.Context)
}

// NewMachine rehydrates the session from the persisted userInfo blob (an
// array holding at most one record).
func NewMachine(ctx context.Context, gw Gateway, st storage.Store, logg *logger.Logger) *Machine {
	m := &Machine{gw: gw, st: st, logg: logg}

	var records []types.User
	if found, err := st.Read(ctx, storage.KeyUserInfo, &records); err == nil && found && len(records) > 0 {
		m.users = records[:1]
		m.currentID = records[0].ID
	}

	return m
}

// OnSignOut registers the hook invoked after a sign-out clears local state.
func (m *Machine) OnSignOut(hook func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignOut = hook
}

// SignIn authenticates against the backend. On success the known-user list
// becomes a singleton holding the returned record, which becomes current and
// is persisted. On failure prior state is retained and the error recorded.
func (m *Machine) SignIn(ctx context.Context, email, password string) (types.User, error) {
	m.setLoading()

	user, err := m.gw.SignIn(ctx, email, password)
	if err != nil {
		m.setFailed(err)
		return types.User{}, err
	}

	m.adopt(ctx, user)
	return user, nil
}

// SignUp registers a new account; success and failure behave like SignIn.
func (m *Machine) SignUp(ctx context.Context, name, email, password string) (types.User, error) {
	m.setLoading()

	user, err := m.gw.SignUp(ctx, name, email, password)
	if err != nil {
		m.setFailed(err)
		return types.User{}, err
	}

	m.adopt(ctx, user)
	return user, nil
}

// SignOut clears the current id and the known-user list locally, removes the
// persisted session blob and runs the registered hook. No remote call.
func (m *Machine) SignOut(ctx context.Context) {
	m.mu.Lock()
	m.users = nil
	m.currentID = ""
	m.lastErr = nil
	hook := m.onSignOut
	m.mu.Unlock()

	if err := m.st.Clear(ctx, storage.KeyUserInfo); err != nil && m.logg != nil {
		m.logg.Warn(ctx, "clearing persisted session: "+err.Error())
	}
	if hook != nil {
		hook(ctx)
	}
}

// FetchUsers replaces the whole known-user list with the backend's. Admin
// only; the current id is preserved.
func (m *Machine) FetchUsers(ctx context.Context) ([]types.User, error) {
	m.setLoading()

	users, err := m.gw.ListUsers(ctx)
	if err != nil {
		m.setFailed(err)
		return nil, err
	}

	m.mu.Lock()
	m.users = users
	m.loading = false
	m.lastErr = nil
	m.mu.Unlock()
	return users, nil
}

// DeleteUser removes the account remotely, then filters it out of the known
// list.
func (m *Machine) DeleteUser(ctx context.Context, id string) error {
	m.setLoading()

	if err := m.gw.DeleteUser(ctx, id); err != nil {
		m.setFailed(err)
		return err
	}

	m.mu.Lock()
	filtered := m.users[:0]
	for _, user := range m.users {
		if user.ID != id {
			filtered = append(filtered, user)
		}
	}
	m.users = filtered
	if m.currentID == id {
		m.currentID = ""
	}
	m.loading = false
	m.lastErr = nil
	m.mu.Unlock()
	return nil
}

// AddUser provisions an account remotely and appends it to the known list.
func (m *Machine) AddUser(ctx context.Context, input gateway.CreateUserInput) (types.User, error) {
	m.setLoading()

	user, err := m.gw.CreateUser(ctx, input)
	if err != nil {
		m.setFailed(err)
		return types.User{}, err
	}

	m.mu.Lock()
	m.users = append(m.users, user)
	m.loading = false
	m.lastErr = nil
	m.mu.Unlock()
	return user, nil
}

// Current returns the signed-in user record, if any.
func (m *Machine) Current() (types.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentID == "" {
		return types.User{}, false
	}
	for _, user := range m.users {
		if user.ID == m.currentID {
			return user, true
		}
	}
	return types.User{}, false
}

// Users returns a copy of the known-user list.
func (m *Machine) Users() []types.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]types.User, len(m.users))
	copy(users, m.users)
	return users
}

// Loading reports whether a remote session operation is in flight.
func (m *Machine) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the error recorded by the last failed operation, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// adopt installs the authenticated record as the singleton known user and
// mirrors it to the store as a one-element array, matching the persisted
// session blob contract.
func (m *Machine) adopt(ctx context.Context, user types.User) {
	m.mu.Lock()
	m.users = []types.User{user}
	m.currentID = user.ID
	m.loading = false
	m.lastErr = nil
	m.mu.Unlock()

	if err := m.st.Write(ctx, storage.KeyUserInfo, []types.User{user}); err != nil && m.logg != nil {
		m.logg.Warn(ctx, "persisting session: "+err.Error())
	}
}

func (m *Machine) setLoading() {
	m.mu.Lock()
	m.loading = true
	m.lastErr = nil
	m.mu.Unlock()
}

func (m *Machine) setFailed(err error) {
	m.mu.Lock()
	m.loading = false
	m.lastErr = err
	m.mu.Unlock()
}
