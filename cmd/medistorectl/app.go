package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/auth"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/client"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/session"
)

type rootOptions struct {
	configPath string
	baseURL    string
	jsonOut    bool
	verbose    bool
}

// errSessionExpired is returned when a dashboard call ended the session.
var errSessionExpired = errors.New("session expirée, reconnectez-vous avec 'medistorectl login'")

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("non connecté, utilisez 'medistorectl login'")

// app is one mounted client: API, persisted session, provider and location.
type app struct {
	cfg      *config.Config
	api      *client.Client
	store    *session.Store
	nav      *client.History
	provider *auth.Provider
	logger   *slog.Logger
	jsonOut  bool
}

// open builds the client and mounts the auth provider, which verifies any
// stored session before the command runs.
func open(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Parse(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		cfg.Client.BaseURL = opts.baseURL
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	api := client.New(
		client.WithBaseURL(cfg.Client.BaseURL),
		client.WithTimeout(cfg.Client.RequestTimeout),
		client.WithLogger(logger),
	)
	store := session.NewStore(session.NewFileStorage(cfg.Client.SessionFile))
	nav := client.NewHistory("/")

	a := &app{
		cfg:     cfg,
		api:     api,
		store:   store,
		nav:     nav,
		logger:  logger,
		jsonOut: opts.jsonOut,
	}
	a.provider = auth.NewProvider(api, store, nav,
		auth.WithLogger(logger),
		auth.WithConfig(cfg.Client),
	)
	a.provider.Mount(ctx)
	return a, nil
}

func (a *app) close() {
	a.provider.Unmount()
}

// requireSession fails unless the provider holds a verified session.
func (a *app) requireSession() (*session.User, error) {
	st := a.provider.State()
	if !st.Authenticated() || st.User == nil {
		return nil, errNotLoggedIn
	}
	return st.User, nil
}

// dashboard moves to a dashboard page so that a 401 ends the session.
func (a *app) dashboard(page string) {
	a.nav.Navigate(path.Join(a.cfg.Client.DashboardPrefix, page))
}

// check maps the outcome of a dashboard call: when the provider reacted to a
// 401 the user sees the session message instead of the raw API error.
func (a *app) check(err error) error {
	if err == nil {
		return nil
	}
	if !a.provider.State().Authenticated() && a.nav.Location() == a.cfg.Client.LoginPath {
		return errSessionExpired
	}
	return err
}

// run opens the app around fn.
func run(opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}
