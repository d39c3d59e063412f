package api

import (
	"context"
	"sync"

	"github.com/tyha2404/nexo-app/internal/core"
)

// fakeSession is an in-memory SessionStore for transport and auth tests.
// The session package has its own tests against the real SQLite store.
type fakeSession struct {
	mu      sync.Mutex
	token   string
	user    *core.User
	cleared int
}

func (f *fakeSession) Token(context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) SetToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return nil
}

func (f *fakeSession) ClearToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	return nil
}

func (f *fakeSession) User(context.Context) *core.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeSession) SetUser(_ context.Context, user *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = user
	return nil
}

func (f *fakeSession) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.user = nil
	f.cleared++
	return nil
}
