package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thali-menu/api/internal/auth"
	"github.com/thali-menu/api/internal/catalog"
	"github.com/thali-menu/api/internal/dish"
	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/filter"
	"github.com/thali-menu/api/internal/metrics"
	"github.com/thali-menu/api/internal/navigation"
	"github.com/thali-menu/api/internal/screen"
	"github.com/thali-menu/api/internal/ws"
)

// Errors returned by the session service.
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Notifier pushes session events to subscribed rendering surfaces.
// Satisfied by *ws.Hub.
type Notifier interface {
	Publish(sessionID uuid.UUID, eventType string, payload any) error
	CloseSession(sessionID uuid.UUID) error
}

// Session is one mounted menu: its controller, its screen stack and the
// lock that serializes requests against it.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu        sync.Mutex
	lastSeen  time.Time
	expiresAt time.Time
	menu      *screen.MenuController
	nav       *navigation.Stack
}

// OpenResult is returned when a session is created.
type OpenResult struct {
	ID        uuid.UUID       `json:"id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Menu      screen.MenuView `json:"menu"`
}

// TokenResult is a freshly issued bearer token for an existing session.
type TokenResult struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CartUpdate reports the outcome of a single cart operation.
type CartUpdate struct {
	DishID     int64 `json:"dish_id"`
	Quantity   int   `json:"quantity"`
	Selected   bool  `json:"selected"`
	TotalItems int   `json:"total_items"`
}

// SessionService owns every live menu session.
type SessionService struct {
	provider catalog.Provider
	notifier Notifier
	metrics  *metrics.Metrics
	secret   string
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionService creates a SessionService. Tokens live for ttl. Reap
// closes sessions idle for longer than ttl and sessions whose token expired.
func NewSessionService(provider catalog.Provider, notifier Notifier, m *metrics.Metrics, secret string, ttl time.Duration) *SessionService {
	return &SessionService{
		provider: provider,
		notifier: notifier,
		metrics:  m,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Dishes loads the full catalog without opening a session.
func (s *SessionService) Dishes(ctx context.Context) ([]dish.Dish, error) {
	return s.loadCatalog(ctx)
}

// Open mounts a new menu session and issues its bearer token.
func (s *SessionService) Open(ctx context.Context) (*OpenResult, error) {
	nav := navigation.NewStack()
	menu := screen.NewMenuController(nav)
	if err := menu.Mount(ctx, catalogFunc(s.loadCatalog)); err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		lastSeen:  now,
		expiresAt: now.Add(s.ttl),
		menu:      menu,
		nav:       nav,
	}

	token, err := auth.GenerateSessionToken(s.secret, sess.ID, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.metrics.SessionsOpened.Inc()
	s.metrics.SessionsActive.Inc()
	slog.Info("Menu session opened", "session_id", sess.ID, "dishes", len(menu.Catalog()))

	return &OpenResult{
		ID:        sess.ID,
		Token:     token,
		ExpiresAt: sess.expiresAt,
		Menu:      menu.View(),
	}, nil
}

// Refresh issues a new token for the session and extends its lifetime by
// the TTL. Clients call it before the current token expires.
func (s *SessionService) Refresh(id uuid.UUID) (*TokenResult, error) {
	var res *TokenResult
	err := s.withSession(id, func(sess *Session) error {
		token, err := auth.GenerateSessionToken(s.secret, sess.ID, s.ttl)
		if err != nil {
			return fmt.Errorf("generate session token: %w", err)
		}
		sess.expiresAt = s.now().Add(s.ttl)
		res = &TokenResult{ID: sess.ID, Token: token, ExpiresAt: sess.expiresAt}
		return nil
	})
	return res, err
}

// Close unmounts the session and disconnects its subscribers.
func (s *SessionService) Close(id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.menu.Unmount()
	sess.nav.Reset()
	sess.mu.Unlock()

	s.metrics.SessionsActive.Dec()
	if err := s.notifier.CloseSession(id); err != nil {
		slog.Warn("Failed to notify session close", "session_id", id, "error", err)
	}
	slog.Info("Menu session closed", "session_id", id)
	return nil
}

// Menu renders the menu screen of a session regardless of which screen is
// on top.
func (s *SessionService) Menu(id uuid.UUID) (screen.MenuView, error) {
	var v screen.MenuView
	err := s.withSession(id, func(sess *Session) error {
		v = sess.menu.View()
		return nil
	})
	return v, err
}

// SetFilters replaces the session's filter criteria.
func (s *SessionService) SetFilters(id uuid.UUID, c filter.Criteria) (screen.MenuView, error) {
	return s.updateFilters(id, func(m *screen.MenuController) { m.SetCriteria(c) })
}

// ResetFilters clears search text, diet and category filters.
func (s *SessionService) ResetFilters(id uuid.UUID) (screen.MenuView, error) {
	return s.updateFilters(id, (*screen.MenuController).ResetFilters)
}

func (s *SessionService) updateFilters(id uuid.UUID, apply func(*screen.MenuController)) (screen.MenuView, error) {
	var v screen.MenuView
	err := s.withSession(id, func(sess *Session) error {
		apply(sess.menu)
		v = sess.menu.View()
		s.publish(id, ws.EventFiltersUpdated, v)
		return nil
	})
	return v, err
}

// Increment adds one of dishID to the session's cart.
func (s *SessionService) Increment(id uuid.UUID, dishID int64) (CartUpdate, error) {
	return s.mutateCart(id, dishID, "increment", func(m *screen.MenuController) error {
		_, err := m.Increment(dishID)
		return err
	})
}

// Decrement removes one of dishID from the session's cart.
func (s *SessionService) Decrement(id uuid.UUID, dishID int64) (CartUpdate, error) {
	return s.mutateCart(id, dishID, "decrement", func(m *screen.MenuController) error {
		_, err := m.Decrement(dishID)
		return err
	})
}

// Toggle flips binary selection of dishID.
func (s *SessionService) Toggle(id uuid.UUID, dishID int64) (CartUpdate, error) {
	return s.mutateCart(id, dishID, "toggle", func(m *screen.MenuController) error {
		_, err := m.ToggleSelect(dishID)
		return err
	})
}

// ClearCart empties the session's cart.
func (s *SessionService) ClearCart(id uuid.UUID) (screen.MenuView, error) {
	var v screen.MenuView
	err := s.withSession(id, func(sess *Session) error {
		sess.menu.ClearCart()
		v = sess.menu.View()
		s.publish(id, ws.EventCartUpdated, v)
		return nil
	})
	if err != nil {
		return v, err
	}
	s.metrics.CartMutations.WithLabelValues("clear").Inc()
	return v, nil
}

func (s *SessionService) mutateCart(id uuid.UUID, dishID int64, op string, apply func(*screen.MenuController) error) (CartUpdate, error) {
	var upd CartUpdate
	err := s.withSession(id, func(sess *Session) error {
		if err := apply(sess.menu); err != nil {
			return err
		}
		q := sess.menu.Quantity(dishID)
		upd = CartUpdate{
			DishID:     dishID,
			Quantity:   q,
			Selected:   q > 0,
			TotalItems: sess.menu.TotalItemCount(),
		}
		s.publish(id, ws.EventCartUpdated, sess.menu.View())
		return nil
	})
	if err != nil {
		return CartUpdate{}, err
	}
	s.metrics.CartMutations.WithLabelValues(op).Inc()
	return upd, nil
}

// ViewIngredients navigates the session to a dish's ingredients screen.
func (s *SessionService) ViewIngredients(id uuid.UUID, dishID int64) (screen.Rendered, error) {
	return s.navigate(id, enum.ScreenIngredients, func(m *screen.MenuController) error {
		_, err := m.ViewIngredients(dishID)
		return err
	})
}

// Continue freezes the cart and navigates the session to its summary.
func (s *SessionService) Continue(id uuid.UUID) (screen.Rendered, error) {
	return s.navigate(id, enum.ScreenSummary, func(m *screen.MenuController) error {
		_, err := m.Continue()
		return err
	})
}

func (s *SessionService) navigate(id uuid.UUID, target enum.Screen, apply func(*screen.MenuController) error) (screen.Rendered, error) {
	var r screen.Rendered
	err := s.withSession(id, func(sess *Session) error {
		if err := apply(sess.menu); err != nil {
			return err
		}
		var err error
		if r, err = screen.Render(sess.nav.Current(), sess.menu); err != nil {
			return err
		}
		s.publish(id, ws.EventNavigated, r)
		return nil
	})
	if err != nil {
		return screen.Rendered{}, err
	}
	s.metrics.Navigations.WithLabelValues(string(target)).Inc()
	return r, nil
}

// Screen renders whichever screen is on top of the session's stack.
func (s *SessionService) Screen(id uuid.UUID) (screen.Rendered, error) {
	var r screen.Rendered
	err := s.withSession(id, func(sess *Session) error {
		var err error
		r, err = screen.Render(sess.nav.Current(), sess.menu)
		return err
	})
	return r, err
}

// Back pops the session's stack and renders the screen underneath. popped
// is false when the session was already on the menu.
func (s *SessionService) Back(id uuid.UUID) (r screen.Rendered, popped bool, err error) {
	err = s.withSession(id, func(sess *Session) error {
		popped = sess.nav.GoBack()
		var rerr error
		if r, rerr = screen.Render(sess.nav.Current(), sess.menu); rerr != nil {
			return rerr
		}
		if popped {
			s.publish(id, ws.EventNavigated, r)
		}
		return nil
	})
	if err != nil {
		return screen.Rendered{}, false, err
	}
	if popped {
		s.metrics.Navigations.WithLabelValues(string(r.Screen)).Inc()
	}
	return r, popped, nil
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reap closes sessions idle since before now minus the TTL, and sessions
// whose token has expired, and returns how many were closed.
func (s *SessionService) Reap(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.RLock()
	var idle []uuid.UUID
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if sess.lastSeen.Before(cutoff) || !now.Before(sess.expiresAt) {
			idle = append(idle, id)
		}
		sess.mu.Unlock()
	}
	s.mu.RUnlock()

	reaped := 0
	for _, id := range idle {
		if err := s.Close(id); err == nil {
			reaped++
			s.metrics.SessionsReaped.Inc()
		}
	}
	return reaped
}

// RunReaper calls Reap every interval until ctx is done.
func (s *SessionService) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Reap(s.now()); n > 0 {
				slog.Info("Reaped idle menu sessions", "count", n)
			}
		}
	}
}

// withSession runs fn with the session locked and marks it as seen. Events
// published from fn reach the hub in the order the session changed.
func (s *SessionService) withSession(id uuid.UUID, fn func(*Session) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	now := s.now()
	// Closed between lookup and lock, or expired but not yet reaped.
	if !sess.menu.Mounted() || !now.Before(sess.expiresAt) {
		return ErrSessionNotFound
	}
	sess.lastSeen = now
	return fn(sess)
}

func (s *SessionService) publish(id uuid.UUID, eventType string, payload any) {
	if err := s.notifier.Publish(id, eventType, payload); err != nil {
		slog.Warn("Failed to publish session event", "session_id", id, "type", eventType, "error", err)
	}
}

func (s *SessionService) loadCatalog(ctx context.Context) ([]dish.Dish, error) {
	start := s.now()
	dishes, err := s.provider.Dishes(ctx)
	s.metrics.CatalogLoadTime.Observe(s.now().Sub(start).Seconds())
	if err != nil {
		s.metrics.CatalogErrors.Inc()
		return nil, err
	}
	return dishes, nil
}

// catalogFunc adapts a load function to catalog.Provider.
type catalogFunc func(ctx context.Context) ([]dish.Dish, error)

func (f catalogFunc) Dishes(ctx context.Context) ([]dish.Dish, error) { return f(ctx) }
