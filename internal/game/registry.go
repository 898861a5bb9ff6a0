package game

import "sync"

// Registry holds the active session of every chat. It is the only state
// shared between chats.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
	}
}

func (r *Registry) Get(chatID int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[chatID]
	return s, ok
}

// Put stores s as the session of its chat and returns the session it
// replaced, if any.
func (r *Registry) Put(s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.sessions[s.ChatID]
	r.sessions[s.ChatID] = s
	return old
}

// Remove deletes the chat's session only if it is still s, so a session
// that was replaced cannot evict its successor.
func (r *Registry) Remove(chatID int64, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[chatID] != s {
		return false
	}
	delete(r.sessions, chatID)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
