package session

import (
	"context"
	"fmt"
	"sync"

	"safvacut-wallet-go/internal/dashboard"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/notification"
	"safvacut-wallet-go/internal/profile"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Session is everything a signed-in user's dashboard works with.
type Session struct {
	Uid           string
	Controller    *dashboard.Controller
	Notifications *notification.Center

	mu       sync.RWMutex
	identity models.Identity
}

func (s *Session) Identity() models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SetIdentity replaces the identity with the latest signed-in snapshot.
func (s *Session) SetIdentity(identity models.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
}

// Profile is the profile as the dashboard last loaded it.
func (s *Session) Profile() *models.Profile {
	return s.Controller.Profile()
}

// Registry keeps one Session per signed-in user, keyed by uid.
type Registry struct {
	docs     store.DocumentStore
	profiles *profile.Service
	options  []dashboard.Option

	opening  singleflight.Group
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(docs store.DocumentStore, profiles *profile.Service, options ...dashboard.Option) *Registry {
	return &Registry{
		docs:     docs,
		profiles: profiles,
		options:  options,
		sessions: make(map[string]*Session),
	}
}

// Open initializes the user's profile and loads their dashboard. Every call
// runs the login bookkeeping; an already open session is refreshed in place.
// Concurrent opens for the same uid share one run.
func (r *Registry) Open(ctx context.Context, identity models.Identity, client models.ClientInfo) (*Session, error) {
	v, err, _ := r.opening.Do(identity.Uid, func() (interface{}, error) {
		return r.open(ctx, identity, client)
	})
	if err != nil {
		return nil, err
	}
	s := v.(*Session)
	s.SetIdentity(identity)
	return s, nil
}

func (r *Registry) open(ctx context.Context, identity models.Identity, client models.ClientInfo) (*Session, error) {
	if _, err := r.profiles.Initialize(ctx, identity, client); err != nil {
		return nil, fmt.Errorf("failed to initialize profile: %w", err)
	}

	if s, ok := r.Get(identity.Uid); ok {
		if err := s.Controller.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("failed to refresh dashboard: %w", err)
		}
		if err := s.Notifications.Reload(ctx); err != nil {
			zap.L().Warn("Failed to reload notifications", zap.String("uid", identity.Uid), zap.Error(err))
		}
		return s, nil
	}

	center := notification.NewCenter(r.docs, identity.Uid)
	if err := center.Reload(ctx); err != nil {
		// The bell starts empty; the next reload picks the list up.
		zap.L().Warn("Failed to load notifications", zap.String("uid", identity.Uid), zap.Error(err))
	}

	ctrl := dashboard.NewController(r.docs, identity.Uid, center, r.options...)
	if err := ctrl.Load(ctx); err != nil {
		center.Close()
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	s := &Session{
		Uid:           identity.Uid,
		Controller:    ctrl,
		Notifications: center,
		identity:      identity,
	}

	r.mu.Lock()
	r.sessions[identity.Uid] = s
	count := len(r.sessions)
	r.mu.Unlock()

	zap.L().Info("Session opened", zap.String("uid", identity.Uid), zap.Int("open_sessions", count))
	return s, nil
}

func (r *Registry) Get(uid string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[uid]
	return s, ok
}

// Close flushes queued notification writes and drops the session.
func (r *Registry) Close(ctx context.Context, uid string) {
	r.mu.Lock()
	s, ok := r.sessions[uid]
	delete(r.sessions, uid)
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := s.Notifications.Flush(ctx); err != nil {
		zap.L().Warn("Pending notification writes lost", zap.String("uid", uid), zap.Error(err))
	}
	s.Notifications.Close()
	zap.L().Info("Session closed", zap.String("uid", uid))
}

// CloseAll closes every open session. Used on shutdown.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	uids := make([]string, 0, len(r.sessions))
	for uid := range r.sessions {
		uids = append(uids, uid)
	}
	r.mu.Unlock()

	for _, uid := range uids {
		r.Close(ctx, uid)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
