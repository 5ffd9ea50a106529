package client

import (
	"context"

	"github.com/tindev/tindev-app/internal/entity"
)

// Session ties the client core together: the persisted identifier, the
// REST collaborator, the candidate queue with its dispatcher, and the
// realtime listener. One Session serves one logged-in user.
type Session struct {
	store      SessionStore
	api        *API
	wsURL      string
	onMatch    func(entity.MatchEvent)
	queue      *Queue
	dispatcher *Dispatcher
	listener   *Listener
}

func NewSession(store SessionStore, baseURL, wsURL string, onMatch func(entity.MatchEvent)) *Session {
	api := NewAPI(baseURL)
	queue := NewQueue(api)

	return &Session{
		store:      store,
		api:        api,
		wsURL:      wsURL,
		onMatch:    onMatch,
		queue:      queue,
		dispatcher: NewDispatcher(api, queue),
	}
}

// Resume is the startup step: when the store holds an identifier from
// a previous run, the session becomes active immediately and the
// caller can proceed straight to loading the queue. Returns false when
// there is nothing to resume.
func (s *Session) Resume() (bool, error) {
	identifier, err := s.store.Get()
	if err != nil {
		return false, err
	}
	if identifier == "" {
		return false, nil
	}

	s.activate(identifier)
	return true, nil
}

// Login signs in, persists the returned identifier and activates the
// session.
func (s *Session) Login(ctx context.Context, email, username, password string) error {
	signIn, err := s.api.SignIn(ctx, email, username, password)
	if err != nil {
		return err
	}

	if err := s.store.Set(signIn.Token); err != nil {
		return err
	}

	s.activate(signIn.Token)
	return nil
}

// Logout tears the realtime connection down first and only then clears
// the stored identifier; the reverse order could let a reconnect fire
// with a stale identifier.
func (s *Session) Logout() error {
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}

	s.api.Token = ""
	return s.store.Clear()
}

// Active reports whether an identifier is loaded.
func (s *Session) Active() bool {
	return s.api.Token != ""
}

func (s *Session) Queue() *Queue {
	return s.queue
}

func (s *Session) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Session) Listener() *Listener {
	return s.listener
}

func (s *Session) activate(identifier string) {
	s.api.Token = identifier
	s.listener = NewListener(s.wsURL, identifier, s.onMatch)
	s.listener.Start()
}
