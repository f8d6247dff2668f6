package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"article-agent/backend/internal/interfaces"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/session"
)

// UserHeader carries the ID of the acting user. It stands in for a real
// authentication layer.
const UserHeader = "X-User-ID"

type userContextKey struct{}

// RequireUser resolves the user named by UserHeader and rejects the request
// with 401 when there is none.
func RequireUser(users interfaces.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.Authenticate(r.Context(), r.Header.Get(UserHeader))
			if err != nil {
				respondWithError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user set by RequireUser, or nil.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey{}).(*model.User)
	return user
}

// SessionLimiter applies a token bucket per session to the LLM endpoints so a
// single browser tab cannot burn through the upstream quota.
type SessionLimiter struct {
	limit rate.Limit
	burst int

	mu         sync.RWMutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time
}

// NewSessionLimiter allows perMinute requests per session with the given burst.
func NewSessionLimiter(perMinute float64, burst int) *SessionLimiter {
	return &SessionLimiter{
		limit:      rate.Limit(perMinute / 60),
		burst:      burst,
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
	}
}

func (l *SessionLimiter) get(sessionID string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[sessionID]
	l.mu.RUnlock()
	if ok {
		l.mu.Lock()
		l.lastAccess[sessionID] = time.Now()
		l.mu.Unlock()
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok = l.limiters[sessionID]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.limit, l.burst)
	l.limiters[sessionID] = limiter
	l.lastAccess[sessionID] = time.Now()
	return limiter
}

// Middleware rejects requests over the limit with 429. It must run after the
// session middleware.
func (l *SessionLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(session.IDFromContext(r.Context())).Allow() {
			w.Header().Set("Retry-After", "60")
			respondWithJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests, please slow down."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune forgets sessions idle for longer than maxIdle and returns how many it dropped.
func (l *SessionLimiter) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	dropped := 0
	for id, seen := range l.lastAccess {
		if seen.Before(cutoff) {
			delete(l.limiters, id)
			delete(l.lastAccess, id)
			dropped++
		}
	}
	return dropped
}

// RunPruner calls Prune every interval until ctx is done.
func (l *SessionLimiter) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune(maxIdle)
		}
	}
}
