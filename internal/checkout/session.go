package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/cart"
)

var (
	ErrSessionNotFound       = errors.New("checkout session not found")
	ErrOverrideNotAuthorized = errors.New("price override requires admin authorization")
	ErrSubmitInFlight        = errors.New("checkout submission already in flight")
)

// Session is one terminal's in-progress checkout. All mutations go
// through the session so the cart is never touched concurrently.
type Session struct {
	ID       string
	TenantID string
	UserID   string

	mu         sync.Mutex
	cart       *cart.Cart
	authorized bool
	submitting bool
	lastActive time.Time
}

func (s *Session) touch() { s.lastActive = time.Now() }

func (s *Session) Add(product cart.Snapshot, qty float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cart.Add(product, qty)
}

func (s *Session) Decrease(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Decrease(productID)
}

func (s *Session) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Remove(productID)
}

// SetCustomPrice applies an override only after Authorize has been
// passed for this session.
func (s *Session) SetCustomPrice(productID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.authorized {
		return ErrOverrideNotAuthorized
	}
	return s.cart.SetCustomPrice(productID, price)
}

func (s *Session) Authorize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized = true
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Clear()
}

// View returns a point-in-time copy of the cart contents with the
// derived aggregates the terminal renders.
func (s *Session) View() (items []cart.Item, count, total float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items(), s.cart.Count(), s.cart.Total()
}

// BeginSubmit marks the session as submitting, blocking a second
// concurrent submit until EndSubmit is called. The returned submission
// is taken under the same lock so it cannot race a mutation.
func (s *Session) BeginSubmit(paymentMethod string) (cart.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return cart.Submission{}, ErrSubmitInFlight
	}
	s.submitting = true
	s.touch()
	return s.cart.BuildSubmission(paymentMethod), nil
}

// EndSubmit releases the submit guard. On success the cart is emptied
// so the terminal starts the next ticket clean.
func (s *Session) EndSubmit(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if success {
		s.cart.Clear()
		s.authorized = false
	}
}

// Registry holds the live checkout sessions in memory, scoped by
// tenant. Sessions idle beyond the TTL are swept on access.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl}
}

func (r *Registry) Open(tenantID, userID string) *Session {
	s := &Session{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		UserID:     userID,
		cart:       cart.New(),
		lastActive: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	r.sessions[s.ID] = s
	return s
}

func (r *Registry) Get(tenantID, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	s, ok := r.sessions[id]
	if !ok || s.TenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Close(tenantID, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.TenantID == tenantID {
		delete(r.sessions, id)
	}
}

// sweep drops idle sessions. Caller holds r.mu.
func (r *Registry) sweep() {
	if r.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff) && !s.submitting
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
		}
	}
}
