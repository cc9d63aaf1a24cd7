package services

import (
	"sync"
	"time"

	"faq-bot/models"
)

// SessionStore keeps per-user conversational state in memory. The outer lock
// only guards the map; each session carries its own mutex so concurrent
// requests for different users never serialize, and nothing here is held
// across the blocking generation call.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	timeout  time.Duration
	now      func() time.Time
}

type session struct {
	mu             sync.Mutex
	country        models.Country
	history        []models.ChatTurn
	contextText    string
	lastPrediction *models.Prediction
	lastActive     time.Time
}

func NewSessionStore(timeout time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *SessionStore) get(userID string) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

func (s *SessionStore) getOrCreate(userID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{lastActive: s.now()}
		s.sessions[userID] = sess
	}
	return sess
}

// Country returns the user's selected country, or CountryNone.
func (s *SessionStore) Country(userID string) models.Country {
	sess := s.get(userID)
	if sess == nil {
		return models.CountryNone
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.country
}

// SetCountry persists the country selection and clears the turn history.
func (s *SessionStore) SetCountry(userID string, country models.Country) {
	sess := s.getOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.country = country
	sess.history = nil
	sess.contextText = ""
	sess.lastPrediction = nil
	sess.lastActive = s.now()
}

// History returns the conversation history and whether the inactivity window
// has elapsed since the last turn. Expired sessions report an empty history;
// the stored turns are cleared on the next append.
func (s *SessionStore) History(userID string) ([]models.ChatTurn, bool) {
	sess := s.get(userID)
	if sess == nil {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.history) > 0 && s.now().Sub(sess.lastActive) > s.timeout {
		return nil, true
	}
	turns := make([]models.ChatTurn, len(sess.history))
	copy(turns, sess.history)
	return turns, false
}

// AppendTurn records a user/bot exchange, first discarding turns older than
// the inactivity window.
func (s *SessionStore) AppendTurn(userID, userMsg, botMsg string) {
	sess := s.getOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	now := s.now()
	if now.Sub(sess.lastActive) > s.timeout {
		sess.history = nil
	}
	sess.history = append(sess.history,
		models.ChatTurn{Role: "user", Content: userMsg},
		models.ChatTurn{Role: "assistant", Content: botMsg},
	)
	sess.lastActive = now
}

// Reset clears history, cached context and last prediction but keeps the
// country selection.
func (s *SessionStore) Reset(userID string) {
	sess := s.get(userID)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.history = nil
	sess.contextText = ""
	sess.lastPrediction = nil
	sess.lastActive = s.now()
}

// Clear drops the session entirely, country included.
func (s *SessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Context returns the cached context string for the user.
func (s *SessionStore) Context(userID string) string {
	sess := s.get(userID)
	if sess == nil {
		return ""
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.contextText
}

// SetContext caches the context built for the user's latest message.
func (s *SessionStore) SetContext(userID, contextText string) {
	sess := s.getOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.contextText = contextText
}

// LastPrediction returns the cached classification outcome of the previous
// turn, or nil.
func (s *SessionStore) LastPrediction(userID string) *models.Prediction {
	sess := s.get(userID)
	if sess == nil {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.lastPrediction
}

// SetLastPrediction caches the classification outcome for feedback
// correlation. Pass nil to clear.
func (s *SessionStore) SetLastPrediction(userID string, pred *models.Prediction) {
	sess := s.getOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastPrediction = pred
}

// sessionRetention is how long an idle session (country selection included)
// survives before the sweep drops it. Much longer than the turn-expiry window
// so a user coming back after a break only loses their history, not their
// country.
const sessionRetention = 24 * time.Hour

// Sweep removes sessions idle beyond the retention period and returns how
// many were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for userID, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastActive) > sessionRetention
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
