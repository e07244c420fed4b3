// package session owns the client-side session state machine.
//
// The controller is the single writer of session transitions: sign-in and
// sign-out mutate the credential store here and nowhere else, and an
// authentication failure anywhere in the system funnels back through the
// unauthorized hook installed on the gateway client.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trax/internal/feedback"
	"github.com/desertthunder/trax/internal/gateway"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/desertthunder/trax/internal/store"
)

// State enumerates the session lifecycle.
type State int

const (
	SignedOut State = iota
	SigningIn       // transient, sign-in request in flight
	SignedIn
)

func (s State) String() string {
	switch s {
	case SigningIn:
		return "signing in"
	case SignedIn:
		return "signed in"
	default:
		return "signed out"
	}
}

// Controller coordinates authentication workflows against the gateway and
// publishes session state derived from the credential store.
type Controller struct {
	mu     sync.Mutex
	state  State
	client *gateway.Client
	store  store.Store
	notify *feedback.Notifier
	logger *log.Logger
}

// NewController creates a Controller whose initial state is read from
// persisted storage, and installs the unauthorized hook on the gateway
// client so any 401 on an authenticated call resets the session.
func NewController(client *gateway.Client, st store.Store, notify *feedback.Notifier, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	c := &Controller{
		state:  SignedOut,
		client: client,
		store:  st,
		notify: notify,
		logger: logger,
	}
	if st.Token() != "" {
		c.state = SignedIn
	}

	client.SetUnauthorizedHook(c.expire)
	return c
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the signed-in user's email, or "" when signed out.
func (c *Controller) Identity() string {
	return c.store.Identity()
}

// SignUp registers a new account. It never changes session state; the raw
// response is returned to the caller because development-style gateways
// include a verification token the UI may want to display.
func (c *Controller) SignUp(ctx context.Context, email, password string) (*gateway.Result, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signup request: %w", err)
	}

	result, err := c.client.Request(ctx, "/auth/signup", gateway.RequestOptions{
		Method:   "POST",
		Body:     body,
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}

	c.notify.Publish("Signup complete.")
	return result, nil
}

// VerifyEmail redeems an email verification token. No session state change.
func (c *Controller) VerifyEmail(ctx context.Context, token string) error {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return fmt.Errorf("failed to marshal verification request: %w", err)
	}

	if _, err := c.client.Request(ctx, "/auth/verify-email", gateway.RequestOptions{
		Method:   "POST",
		Body:     body,
		SkipAuth: true,
	}); err != nil {
		return err
	}

	c.notify.Publish("Email verified.")
	return nil
}

// SignIn authenticates and, on success, stores the access credential together
// with the email as session identity. The transition is all-or-nothing: on
// any failure the state stays SignedOut and no partial credential is stored.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("failed to marshal signin request: %w", err)
	}

	c.setState(SigningIn)

	result, err := c.client.Request(ctx, "/auth/signin", gateway.RequestOptions{
		Method:   "POST",
		Body:     body,
		SkipAuth: true,
	})
	if err != nil {
		c.setState(SignedOut)
		return err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := result.Decode(&payload); err != nil || payload.AccessToken == "" {
		c.setState(SignedOut)
		return fmt.Errorf("%w: signin response carried no access token", shared.ErrAuthFailed)
	}

	if err := c.store.SetToken(payload.AccessToken); err != nil {
		c.setState(SignedOut)
		return err
	}
	if err := c.store.SetIdentity(email); err != nil {
		// Keep the invariant: no identity without a credential, but not the
		// other way around. The session is still usable.
		c.logger.Warnf("failed to persist session identity: %v", err)
	}

	c.setState(SignedIn)
	c.notify.Publish("Signed in.")
	return nil
}

// SignOut clears the credential store and transitions to SignedOut. The
// server-side logout call is best-effort: a failure is logged and otherwise
// ignored, because client-visible sign-out must never be blocked by the
// gateway. Calling SignOut while already signed out is a harmless no-op that
// still clears storage and publishes the sign-out message.
func (c *Controller) SignOut(ctx context.Context) error {
	if _, err := c.client.Post(ctx, "/auth/logout", []byte("{}")); err != nil {
		c.logger.Warnf("logout call failed: %v", err)
	}

	if err := c.store.Clear(); err != nil {
		return err
	}

	c.setState(SignedOut)
	c.notify.Publish("Signed out.")
	return nil
}

// Refresh exchanges the gateway-set refresh cookie for a fresh access token.
// On failure the stored session is left untouched.
func (c *Controller) Refresh(ctx context.Context) error {
	result, err := c.client.Request(ctx, "/auth/refresh", gateway.RequestOptions{
		Method:   "POST",
		Body:     []byte("{}"),
		SkipAuth: true,
	})
	if err != nil {
		return err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := result.Decode(&payload); err != nil || payload.AccessToken == "" {
		return fmt.Errorf("%w: refresh response carried no access token", shared.ErrAuthFailed)
	}

	if err := c.store.SetToken(payload.AccessToken); err != nil {
		return err
	}
	c.setState(SignedIn)
	return nil
}

// RequireAuth is the gate every authenticated workflow calls before its
// first request. It makes no network call: when signed out it publishes the
// sign-in prompt and tells the caller to abort.
func (c *Controller) RequireAuth() bool {
	if c.State() == SignedIn {
		return true
	}
	c.notify.Publish("Sign in first.")
	return false
}

// expire handles an authentication failure observed on any request: the
// stored credential is stale, so clear it and fall back to SignedOut rather
// than letting callers retry with it.
func (c *Controller) expire() {
	if err := c.store.Clear(); err != nil {
		c.logger.Warnf("failed to clear expired session: %v", err)
	}
	c.setState(SignedOut)
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
