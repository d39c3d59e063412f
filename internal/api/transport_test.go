package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	sess := &fakeSession{token: "abc123"}
	transport, err := NewTransport(TransportOptions{BaseURL: server.URL, Session: sess})
	require.NoError(t, err)

	require.NoError(t, transport.Do(context.Background(), http.MethodGet, "/costs", nil, nil, nil))
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestTransportOmitsHeaderWhenAnonymous(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	transport, err := NewTransport(TransportOptions{BaseURL: server.URL, Session: &fakeSession{}})
	require.NoError(t, err)

	require.NoError(t, transport.Do(context.Background(), http.MethodGet, "/costs", nil, nil, nil))
	assert.False(t, sawHeader, "anonymous request must not carry an Authorization header")
}

// A login that happens after the transport was built must be visible on
// the next request: the token is read per request, not captured once.
func TestTransportPicksUpFreshLogin(t *testing.T) {
	var auths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	sess := &fakeSession{}
	transport, err := NewTransport(TransportOptions{BaseURL: server.URL, Session: sess})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, transport.Do(ctx, http.MethodGet, "/costs", nil, nil, nil))
	require.NoError(t, sess.SetToken(ctx, "fresh-token"))
	require.NoError(t, transport.Do(ctx, http.MethodGet, "/costs", nil, nil, nil))

	require.Len(t, auths, 2)
	assert.Empty(t, auths[0])
	assert.Equal(t, "Bearer fresh-token", auths[1])
}

func TestTransportClearsSessionOn401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sess := &fakeSession{token: "stale"}
	var hookFired bool
	transport, err := NewTransport(TransportOptions{
		BaseURL:        server.URL,
		Session:        sess,
		OnUnauthorized: func() { hookFired = true },
	})
	require.NoError(t, err)

	err = transport.Do(context.Background(), http.MethodGet, "/costs", nil, nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)

	assert.Empty(t, sess.Token(context.Background()), "token must be cleared")
	assert.Nil(t, sess.User(context.Background()), "user must be cleared")
	assert.Equal(t, 1, sess.cleared)
	assert.True(t, hookFired, "OnUnauthorized hook must fire")
}

func TestTransportPassesThroughOtherErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sess := &fakeSession{token: "still-valid"}
	transport, err := NewTransport(TransportOptions{BaseURL: server.URL, Session: sess})
	require.NoError(t, err)

	err = transport.Do(context.Background(), http.MethodGet, "/costs", nil, nil, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "still-valid", sess.Token(context.Background()), "non-401 must not touch the session")
}

func TestTransportRequiresBaseURLAndSession(t *testing.T) {
	_, err := NewTransport(TransportOptions{Session: &fakeSession{}})
	assert.Error(t, err)

	_, err = NewTransport(TransportOptions{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestTransportHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	transport, err := NewTransport(TransportOptions{BaseURL: server.URL, Session: &fakeSession{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = transport.Do(ctx, http.MethodGet, "/costs", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
