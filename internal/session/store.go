// Package session owns the process-wide session and preference state:
// who is logged in, which company scopes requests, and the UI
// preferences. It is constructor-injected into views, persists selected
// fields durably, and publishes change signals on the bus.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/nextlevel/nl-console-go/internal/domain"
	"github.com/nextlevel/nl-console-go/internal/event"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileAPI is the slice of the backend client the store needs for
// profile bootstrap and preference sync.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error)
}

// CompanyAPI lists companies for active-company reconciliation.
type CompanyAPI interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// AuthAPI exchanges credentials for a token.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
}

// Store is the session/preference state machine. All mutations are
// mutex-guarded; the HTTP client reads Token/ActiveCompanyID through
// the same lock.
type Store struct {
	mu      sync.RWMutex
	session domain.Session

	storage Storage
	bus     *event.Bus
	logger  *zap.Logger
	now     func() time.Time

	profile   ProfileAPI
	companies CompanyAPI
	auth      AuthAPI
}

// NewStore creates a store with defaults applied but nothing loaded;
// call Bind and then Bootstrap before use.
func NewStore(storage Storage, bus *event.Bus, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
		session: defaultSession(),
	}
}

func defaultSession() domain.Session {
	return domain.Session{
		DetailLevel: domain.DetailMedium,
		Theme:       domain.ThemeDark,
	}
}

// Bind attaches the backend client. Separate from NewStore because the
// HTTP client needs the store for per-request session context, so the
// store must exist first.
func (s *Store) Bind(profile ProfileAPI, companies CompanyAPI, auth AuthAPI) {
	s.profile = profile
	s.companies = companies
	s.auth = auth
}

// ============================================================
// api.SessionContext
// ============================================================

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// ActiveCompanyID returns the selected tenant, empty when none.
func (s *Store) ActiveCompanyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.ActiveCompanyID
}

// Snapshot returns a copy of the full session for rendering.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// ============================================================
// Lifecycle
// ============================================================

// Bootstrap restores durable state and, when a token is present, marks
// the session authenticated and optimistically fetches profile and
// company list in parallel to fill in the rest. Fetch failures are
// logged and swallowed: bootstrap must never block app usage.
func (s *Store) Bootstrap(ctx context.Context) {
	state, err := s.storage.Load()
	if err != nil {
		s.logger.Warn("session: could not load durable state", zap.Error(err))
		state = State{}
	}

	token := state.Token
	if token != "" && tokenExpired(token, s.now()) {
		s.logger.Info("session: discarding expired token")
		token = ""
		state.Token = ""
		if err := s.storage.Save(state); err != nil {
			s.logger.Warn("session: could not persist state", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.session = defaultSession()
	s.session.Token = token
	s.session.ActiveCompanyID = state.CompanyID
	s.session.Theme = domain.ParseThemeMode(state.Theme)
	s.session.DetailLevel = domain.ParseDetailLevel(state.DetailLevel)
	if token != "" {
		// JWT claims pre-fill the display fields until the profile
		// fetch lands; claims are advisory, the backend is authority.
		name, email := tokenIdentity(token)
		s.session.Username = name
		s.session.Email = email
	}
	s.mu.Unlock()

	if token == "" {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.profile.GetProfile(gctx)
		if err != nil {
			s.logger.Debug("session: profile bootstrap failed", zap.Error(err))
			return nil
		}
		s.applyProfile(profile)
		return nil
	})
	g.Go(func() error {
		companies, err := s.companies.ListCompanies(gctx)
		if err != nil {
			s.logger.Debug("session: company bootstrap failed", zap.Error(err))
			return nil
		}
		s.ReconcileCompanies(companies)
		return nil
	})
	_ = g.Wait()

	s.bus.Publish(event.SessionChanged)
}

// Login exchanges credentials for a token, stores it durably, and
// refreshes profile and company context like Bootstrap does.
func (s *Store) Login(ctx context.Context, email, password string) error {
	result, err := s.auth.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session.Token = result.Token
	if result.Name != "" {
		s.session.Username = result.Name
	}
	if result.Email != "" {
		s.session.Email = result.Email
	} else {
		s.session.Email = email
	}
	s.mu.Unlock()

	s.persist()
	s.bus.Publish(event.SessionChanged)

	// best-effort context refresh, same policy as bootstrap
	if profile, err := s.profile.GetProfile(ctx); err == nil {
		s.applyProfile(profile)
	}
	if companies, err := s.companies.ListCompanies(ctx); err == nil {
		s.ReconcileCompanies(companies)
	}
	return nil
}

// AdoptToken marks the session authenticated with an externally obtained
// token, for offline use when the login endpoint is unreachable. JWT
// claims pre-fill the identity when present.
func (s *Store) AdoptToken(token string) {
	s.mu.Lock()
	s.session.Token = token
	name, email := tokenIdentity(token)
	if name != "" {
		s.session.Username = name
	}
	if email != "" {
		s.session.Email = email
	}
	s.mu.Unlock()

	s.persist()
	s.bus.Publish(event.SessionChanged)
}

// Logout clears all in-memory fields and the durable token and company
// selection. Calling it twice is safe and leaves the fresh default.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = defaultSession()
	s.mu.Unlock()

	if err := s.storage.Save(State{}); err != nil {
		s.logger.Warn("session: could not clear durable state", zap.Error(err))
	}
	s.bus.Publish(event.SessionChanged)
}

// ============================================================
// Preference mutation
// ============================================================

// SetDetailLevel updates the AI detail preference optimistically and
// best-effort syncs it to the backend profile. On sync failure the
// previous value is restored and the error returned for the caller to
// surface.
func (s *Store) SetDetailLevel(ctx context.Context, level domain.DetailLevel) error {
	s.mu.Lock()
	prev := s.session.DetailLevel
	s.session.DetailLevel = level
	s.mu.Unlock()
	s.persist()

	if _, err := s.profile.UpdateProfile(ctx, domain.UserProfile{DetailLevel: string(level)}); err != nil {
		s.mu.Lock()
		s.session.DetailLevel = prev
		s.mu.Unlock()
		s.persist()
		return err
	}
	return nil
}

// SetTheme updates the theme with the same optimistic-then-rollback
// policy as SetDetailLevel.
func (s *Store) SetTheme(ctx context.Context, theme domain.ThemeMode) error {
	s.mu.Lock()
	prev := s.session.Theme
	s.session.Theme = theme
	s.mu.Unlock()
	s.persist()

	if _, err := s.profile.UpdateProfile(ctx, domain.UserProfile{Theme: string(theme)}); err != nil {
		s.mu.Lock()
		s.session.Theme = prev
		s.mu.Unlock()
		s.persist()
		return err
	}
	return nil
}

// SetActiveCompany selects the tenant. Unlike the preference setters it
// never rolls back: the selection is purely client-side.
func (s *Store) SetActiveCompany(id string) {
	s.mu.Lock()
	s.session.ActiveCompanyID = id
	s.mu.Unlock()

	s.persist()
	s.bus.Publish(event.SessionChanged)
}

// ReconcileCompanies keeps the selection valid against a fresh company
// list: a vanished selection falls back to the first entry, an empty
// list clears it.
func (s *Store) ReconcileCompanies(companies []domain.Company) {
	s.mu.Lock()
	current := s.session.ActiveCompanyID

	selected := ""
	if len(companies) > 0 {
		selected = companies[0].ID
		for _, c := range companies {
			if c.ID == current {
				selected = current
				break
			}
		}
	}
	changed := selected != current
	s.session.ActiveCompanyID = selected
	s.mu.Unlock()

	if changed {
		s.persist()
		s.bus.Publish(event.SessionChanged)
	}
}

// ============================================================
// Internal
// ============================================================

// applyProfile merges a fetched profile into the session; empty fields
// leave the current values alone.
func (s *Store) applyProfile(p *domain.UserProfile) {
	s.mu.Lock()
	if p.Name != "" {
		s.session.Username = p.Name
	}
	if p.Email != "" {
		s.session.Email = p.Email
	}
	if p.DetailLevel != "" {
		s.session.DetailLevel = domain.ParseDetailLevel(p.DetailLevel)
	}
	if p.Theme != "" {
		s.session.Theme = domain.ParseThemeMode(p.Theme)
	}
	s.mu.Unlock()
	s.persist()
}

// persist writes the durable slice of the current session.
func (s *Store) persist() {
	s.mu.RLock()
	state := State{
		Token:       s.session.Token,
		CompanyID:   s.session.ActiveCompanyID,
		Theme:       string(s.session.Theme),
		DetailLevel: string(s.session.DetailLevel),
	}
	s.mu.RUnlock()

	if err := s.storage.Save(state); err != nil {
		s.logger.Warn("session: could not persist state", zap.Error(err))
	}
}

// tokenExpired reports whether the token is a JWT with an exp claim in
// the past. Opaque tokens never count as expired here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// tokenIdentity extracts display name and email claims from a JWT,
// empty when the token is opaque or lacks them.
func tokenIdentity(token string) (name, email string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", ""
	}
	if v, ok := claims["name"].(string); ok {
		name = v
	}
	if v, ok := claims["email"].(string); ok {
		email = v
	}
	return name, email
}
