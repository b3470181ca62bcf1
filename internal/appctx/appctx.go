// Package appctx bundles the long-lived services every page needs, so they
// are passed explicitly rather than reached through globals.
package appctx

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/authoring"
	"github.com/abhisek/eduz/internal/catalog"
	"github.com/abhisek/eduz/internal/session"
	"github.com/abhisek/eduz/internal/store"
)

// Deps is the application context.
type Deps struct {
	Session *session.Store
	API     *api.Client
	Catalog *catalog.Cache
	// Drafts is transient storage; it lives as long as the process.
	Drafts    store.KV
	Submitter *authoring.Submitter
	History   store.HistoryRepo
	Log       *zap.Logger
}

// New wires the services around an API client and durable storage. The
// catalog cache is dropped whenever the session logs out.
func New(cfg api.Config, durable store.KV, history store.HistoryRepo, log *zap.Logger) *Deps {
	if log == nil {
		log = zap.NewNop()
	}
	sess := session.New(durable, log)
	client := api.New(cfg, sess, log)
	cache := catalog.NewCache(client, log)
	drafts := store.NewMemoryKV()

	sess.Subscribe(func(st session.State) {
		if !st.Authenticated() {
			cache.Reset()
		}
	})

	return &Deps{
		Session:   sess,
		API:       client,
		Catalog:   cache,
		Drafts:    drafts,
		Submitter: authoring.NewSubmitter(client, drafts, log),
		History:   history,
		Log:       log,
	}
}

// ResolveRole settles the role of the current token: hint (the login
// response role) first, then the token's own claim, then GET /users/me.
func (d *Deps) ResolveRole(ctx context.Context, hint string) (session.Role, error) {
	if r := session.ParseRole(hint); r != session.RoleUnknown {
		return r, nil
	}
	if r, ok := session.RoleFromToken(d.Session.Token(), time.Now()); ok {
		return r, nil
	}
	me, err := d.API.Me(ctx)
	if err != nil {
		return session.RoleUnknown, err
	}
	return session.ParseRole(me.Role), nil
}

// Restore loads the persisted token and re-derives its role. A token the
// backend rejects is discarded; if the backend is unreachable the token is
// kept with an unknown role.
func (d *Deps) Restore(ctx context.Context) error {
	if err := d.Session.Restore(ctx); err != nil {
		return err
	}
	if !d.Session.State().Authenticated() {
		return nil
	}
	role, err := d.ResolveRole(ctx, "")
	if errors.Is(err, api.ErrUnauthorized) {
		d.Log.Info("stored token rejected")
		return d.Session.Logout(ctx)
	}
	if err != nil {
		d.Log.Warn("role lookup failed", zap.Error(err))
		return nil
	}
	d.Session.SetRole(role)
	return nil
}

// Login authenticates, stores the token and resolves the role.
func (d *Deps) Login(ctx context.Context, email, password string) (session.Role, error) {
	resp, err := d.API.Login(ctx, email, password)
	if err != nil {
		return session.RoleUnknown, err
	}
	if err := d.Session.Login(ctx, resp.AccessToken, session.ParseRole(resp.Role)); err != nil {
		return session.RoleUnknown, err
	}
	role, err := d.ResolveRole(ctx, resp.Role)
	if err != nil {
		d.Log.Warn("role lookup failed", zap.Error(err))
		return session.RoleUnknown, nil
	}
	d.Session.SetRole(role)
	return role, nil
}

// Expire logs out when err says the token was rejected, and reports whether
// it did. Subscribers of the session then see the sign-out; screens show a
// banner for any other error.
func (d *Deps) Expire(ctx context.Context, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) || !d.Session.State().Authenticated() {
		return false
	}
	d.Log.Info("token rejected, signing out")
	if lerr := d.Session.Logout(ctx); lerr != nil {
		d.Log.Warn("logout failed", zap.Error(lerr))
	}
	return true
}
