package http

import (
	"testing"

	"github.com/Chanakya-ux/KGPT-client/internal/chat"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	asker := chat.NewMockAsker(ctrl)
	store := NewSessionStore(func() *chat.Session { return chat.NewSession(asker) })

	first := store.Create()
	second := store.Create()
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 2, store.Len())

	got, err := store.Get(first.ID())
	require.NoError(t, err)
	assert.Same(t, first, got)

	require.NoError(t, store.Delete(first.ID()))
	_, err = store.Get(first.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(first.ID()), ErrSessionNotFound)
	assert.Equal(t, 1, store.Len())
}
