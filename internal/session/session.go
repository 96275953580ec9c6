package session

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Session owns the state of one user's workflow: the result store and the
// in-flight flag shared by submissions and bulk downloads.
type Session struct {
	id       string
	store    *Store
	inFlight atomic.Bool
}

func New() *Session {
	return &Session{
		id:    uuid.NewString(),
		store: NewStore(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Store() *Store { return s.store }

// TryAcquire marks the session busy. It returns a release func, or false
// when another operation already holds the session.
func (s *Session) TryAcquire() (func(), bool) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, false
	}

	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			s.inFlight.Store(false)
		}
	}, true
}

func (s *Session) InFlight() bool {
	return s.inFlight.Load()
}

// DownloadAllAvailable reports whether a bulk download has anything to do.
func (s *Session) DownloadAllAvailable() bool {
	return s.store.Len() > 0
}
