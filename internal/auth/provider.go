package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/client"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/session"
)

const (
	defaultLoginTimeout  = 15 * time.Second
	defaultVerifyTimeout = 10 * time.Second
)

// Provider is the single owner of the in-memory session. The session store
// mirrors it.
type Provider struct {
	api   *client.Client
	store *session.Store
	nav   client.Navigator

	logger          *slog.Logger
	metrics         *client.Metrics
	loginTimeout    time.Duration
	verifyTimeout   time.Duration
	loginPath       string
	homePath        string
	dashboardPrefix string

	mu      sync.RWMutex
	state   State
	restore func()
}

type Option func(*Provider)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithMetrics counts decorated requests and session invalidations.
func WithMetrics(m *client.Metrics) Option {
	return func(p *Provider) {
		p.metrics = m
	}
}

// WithConfig applies timeouts, paths and the dashboard prefix from cfg.
// Zero values keep the defaults.
func WithConfig(cfg config.ClientConfig) Option {
	return func(p *Provider) {
		if cfg.LoginTimeout > 0 {
			p.loginTimeout = cfg.LoginTimeout
		}
		if cfg.VerifyTimeout > 0 {
			p.verifyTimeout = cfg.VerifyTimeout
		}
		if cfg.LoginPath != "" {
			p.loginPath = cfg.LoginPath
		}
		if cfg.DashboardPrefix != "" {
			p.dashboardPrefix = cfg.DashboardPrefix
		}
	}
}

func NewProvider(api *client.Client, store *session.Store, nav client.Navigator, opts ...Option) *Provider {
	p := &Provider{
		api:             api,
		store:           store,
		nav:             nav,
		logger:          slog.Default(),
		loginTimeout:    defaultLoginTimeout,
		verifyTimeout:   defaultVerifyTimeout,
		loginPath:       "/login",
		homePath:        "/",
		dashboardPrefix: client.DefaultDashboardPrefix,
		state:           State{Status: StatusBootstrapping, Loading: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns a snapshot of the current session.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := p.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (p *Provider) set(st State) {
	p.mu.Lock()
	p.state = st
	p.mu.Unlock()
}

func anonymous(errMsg string) State {
	return State{Status: StatusAnonymous, Error: errMsg}
}

// Mount restores the persisted session and then installs the request
// interceptor on the API client. Unmount undoes the installation.
func (p *Provider) Mount(ctx context.Context) State {
	st := p.Bootstrap(ctx)

	in := &client.Interceptor{
		Tokens:          p.store,
		Navigator:       p.nav,
		OnUnauthorized:  p.invalidate,
		DashboardPrefix: p.dashboardPrefix,
		Logger:          p.logger,
		Metrics:         p.metrics,
	}

	p.mu.Lock()
	if p.restore != nil {
		p.restore()
	}
	p.restore = in.Install(p.api.HTTPClient())
	p.mu.Unlock()
	return st
}

// Unmount restores the HTTP transport that was active before Mount.
func (p *Provider) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.restore != nil {
		p.restore()
		p.restore = nil
	}
}

// Bootstrap reads the persisted session and keeps it only if the server still
// accepts it. Every failure ends anonymous without surfacing an error.
func (p *Provider) Bootstrap(ctx context.Context) State {
	p.set(State{Status: StatusBootstrapping, Loading: true})

	sess, err := p.store.Read()
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
		case errors.Is(err, session.ErrCorrupt):
			p.logger.Warn("discarded corrupt session", "error", err)
		default:
			p.logger.Error("read session", "error", err)
		}
		p.set(anonymous(""))
		return p.State()
	}

	vctx, cancel := context.WithTimeout(ctx, p.verifyTimeout)
	defer cancel()

	if _, err := p.api.Verify(vctx, sess.Token, sess.RawUser); err != nil {
		p.logger.Info("stored session rejected", "user_id", sess.User.ID, "error", err)
		if cerr := p.store.Clear(); cerr != nil {
			p.logger.Error("clear session", "error", cerr)
		}
		p.set(anonymous(""))
		return p.State()
	}

	user := sess.User
	p.set(State{Status: StatusAuthenticated, Token: sess.Token, User: &user})
	p.logger.Debug("session restored", "user_id", user.ID)
	return p.State()
}

// Login exchanges credentials for a session and persists it. A rejected
// login leaves the stored session as it was: State().Error holds the message,
// the provider keeps a session it already had or is anonymous otherwise, and
// the returned error is an *AuthenticationError.
func (p *Provider) Login(ctx context.Context, email, password string) error {
	prev := p.State()
	p.set(State{Status: StatusLoggingIn, Loading: true})

	lctx, cancel := context.WithTimeout(ctx, p.loginTimeout)
	defer cancel()

	resp, err := p.api.Login(lctx, email, password)
	if err != nil {
		msg := DefaultLoginError
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
			msg = apiErr.Message
		}
		p.logger.Warn("login failed", "email", email, "error", err)
		if prev.Authenticated() {
			p.set(State{Status: StatusAuthenticated, Token: prev.Token, User: prev.User, Error: msg})
		} else {
			p.set(anonymous(msg))
		}
		return &AuthenticationError{Message: msg, Err: err}
	}

	// Save replaces the stored session, so a failure here leaves nothing.
	if err := p.store.Save(resp.Token, resp.User); err != nil {
		p.logger.Error("persist session", "error", err)
		if cerr := p.store.Clear(); cerr != nil {
			p.logger.Error("clear session", "error", cerr)
		}
		p.set(anonymous(DefaultLoginError))
		return &AuthenticationError{Message: DefaultLoginError, Err: err}
	}

	user := resp.User
	p.set(State{Status: StatusAuthenticated, Token: resp.Token, User: &user})
	p.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	return nil
}

// Logout ends the session and navigates home. The server is asked to revoke
// the token first; that request failing does not stop the logout.
func (p *Provider) Logout(ctx context.Context) {
	if p.State().Authenticated() {
		if err := p.api.Logout(ctx); err != nil {
			p.logger.Warn("server logout failed", "error", err)
		}
	}
	p.end()
	p.nav.Navigate(p.homePath)
}

// invalidate runs when a dashboard request was answered with 401.
func (p *Provider) invalidate() {
	p.logger.Info("session invalidated by server")
	p.end()
	p.nav.Navigate(p.loginPath)
}

func (p *Provider) end() {
	if err := p.store.Clear(); err != nil {
		p.logger.Error("clear session", "error", err)
	}
	p.set(anonymous(""))
}
