package services

import (
	"errors"

	"tienda/internal/backend"
	"tienda/internal/domain"
	"tienda/internal/session"
	"tienda/internal/store"
)

// AuthService proxies credential checks to the backend and orchestrates the
// session transition around them. Token refresh and expiry are the SPA's and
// backend's business, not handled here.
type AuthService struct {
	Backend  *backend.Client
	Sessions *store.SessionRepo
	Cart     *CartService
}

func NewAuthService(api *backend.Client, sessions *store.SessionRepo, cart *CartService) *AuthService {
	return &AuthService{Backend: api, Sessions: sessions, Cart: cart}
}

// Login authenticates against the backend, persists the token, and replays
// the guest cart into the server cart — the one moment reconciliation runs.
func (s *AuthService) Login(sess *session.Session, email, password string) (domain.User, error) {
	token, user, err := s.Backend.Login(email, password)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return domain.User{}, ErrBadCreds
		}
		return domain.User{}, err
	}
	if err := s.establish(sess, token, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Register proxies account creation and then runs the same session
// transition as Login: the backend hands a fresh user a token right away.
func (s *AuthService) Register(sess *session.Session, email, password, name string) (domain.User, error) {
	token, user, err := s.Backend.Register(email, password, name)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			msg := se.Message
			if msg == "" {
				msg = "No se pudo crear la cuenta"
			}
			return domain.User{}, validation(msg)
		}
		return domain.User{}, err
	}
	if err := s.establish(sess, token, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) establish(sess *session.Session, token string, user domain.User) error {
	wasGuest := !sess.Authenticated()
	sess.SetAuth(token, &user)
	if err := s.Sessions.BindToken(sess.SID, token, user.Email); err != nil {
		return err
	}
	if wasGuest {
		// Best-effort merge; per-line failures were already reported
		// through the session's notification queue.
		_ = s.Cart.ReconcileGuestCart(sess)
	}
	return nil
}

// Logout tears the session down: in-memory auth state, the persisted token,
// and the device-held cart key are all cleared.
func (s *AuthService) Logout(sess *session.Session) error {
	sess.ClearAuth()
	_ = s.Cart.Guest.Clear(sess.SID)
	return s.Sessions.ClearToken(sess.SID)
}
