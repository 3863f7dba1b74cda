package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ950407/lia-pagare/internal/capture"
	"github.com/JJ950407/lia-pagare/internal/session"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := session.NewStore(time.Hour)

	state, _ := capture.Start()
	sess := store.Create(state)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, state, got.State)
	assert.Equal(t, 1, store.Len())
}

func TestStore_GetUnknown(t *testing.T) {
	store := session.NewStore(time.Hour)

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := session.NewStore(time.Hour)

	state, _ := capture.Start()
	sess := store.Create(state)

	store.Delete(sess.ID)

	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStore_ExpiryAndPurge(t *testing.T) {
	store := session.NewStore(time.Minute)

	stale, _ := capture.Start()
	staleSess := store.Create(stale)

	// Age the stale session past the TTL, then open a fresh one.
	session.SetClock(store, func() time.Time { return time.Now().Add(2 * time.Minute) })

	fresh, _ := capture.Start()
	freshSess := store.Create(fresh)

	_, err := store.Get(staleSess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Get(freshSess.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, store.PurgeExpired())
	assert.Equal(t, 1, store.Len())
}

func TestStore_TouchKeepsSessionAlive(t *testing.T) {
	store := session.NewStore(time.Minute)

	state, _ := capture.Start()
	sess := store.Create(state)

	session.SetClock(store, func() time.Time { return time.Now().Add(50 * time.Second) })
	store.Touch(sess.ID)

	session.SetClock(store, func() time.Time { return time.Now().Add(100 * time.Second) })

	_, err := store.Get(sess.ID)
	require.NoError(t, err)
}
