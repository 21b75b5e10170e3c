package client

import "sync"

// OnboardingPayload is the quiz state stashed before an OAuth redirect and
// restored on return. Marketplace is transport-only: it routes the signup
// and is stripped before the payload is submitted.
type OnboardingPayload struct {
	Role        string `json:"role"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Industry    string `json:"industry"`
	Marketplace bool   `json:"marketplace,omitempty"`
}

// PayloadStore is the ephemeral client-side storage for the onboarding
// payload. It holds at most one payload; terminal onboarding paths clear it,
// transient retries keep it.
type PayloadStore interface {
	Save(p OnboardingPayload) error
	Load() (OnboardingPayload, bool, error)
	Clear() error
}

// MemoryStore is the in-process PayloadStore.
type MemoryStore struct {
	mu      sync.Mutex
	payload OnboardingPayload
	present bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(p OnboardingPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = p
	s.present = true
	return nil
}

func (s *MemoryStore) Load() (OnboardingPayload, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload, s.present, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = OnboardingPayload{}
	s.present = false
	return nil
}
