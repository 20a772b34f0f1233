package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	state, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	state := domain.NewChatState()
	sess := &state.Sessions[0]
	sess.Title = "Install questions"
	sess.Messages = append(sess.Messages,
		domain.NewChatMessage(domain.RoleUser, "How do I install?"),
		domain.NewChatMessage(domain.RoleAssistant, "Run the installer."),
	)

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Sessions, 1)
	assert.Equal(t, state.ActiveID, loaded.ActiveID)
	assert.Equal(t, "Install questions", loaded.Sessions[0].Title)
	require.Len(t, loaded.Sessions[0].Messages, 2)
	assert.Equal(t, "How do I install?", loaded.Sessions[0].Messages[0].Content)

	// Timestamps survive the round trip at RFC 3339 precision.
	want := state.Sessions[0].Messages[0].Timestamp
	got := loaded.Sessions[0].Messages[0].Timestamp
	assert.WithinDuration(t, want, got, time.Second)
}

func TestSaveReplacesPreviousState(t *testing.T) {
	store := newTestStore(t)

	first := domain.NewChatState()
	require.NoError(t, store.Save(first))

	second := domain.NewChatState()
	second.Sessions = append(second.Sessions, domain.NewChatSession())
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Sessions, 2)
	assert.Equal(t, second.ActiveID, loaded.ActiveID)
}

func TestSaveNilState(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Save(nil), domain.ErrInvalidInput)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewSessionStore(dir)
	require.NoError(t, err)
	state := domain.NewChatState()
	require.NoError(t, store.Save(state))
	require.NoError(t, store.Close())

	reopened, err := NewSessionStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.ActiveID, loaded.ActiveID)
}
