package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"device-wizard-backend/internal/wizard"
)

func TestSessionStore_CreateGetSave(t *testing.T) {
	reg := NewSessionStore(time.Minute, time.Minute)

	id, sess := reg.Create()
	require.NotEmpty(t, id)
	assert.Equal(t, wizard.StateSelectDevice, sess.State)

	got, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	sess.Device = "iPhone 12"
	sess.State = wizard.StateAskWorking
	reg.Save(id, sess)

	got, ok = reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "iPhone 12", got.Device)
	assert.Equal(t, wizard.StateAskWorking, got.State)

	_, ok = reg.Get("no-such-session")
	assert.False(t, ok)
}

func TestSessionStore_IDsAreUnique(t *testing.T) {
	reg := NewSessionStore(time.Minute, time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, _ := reg.Create()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	reg := NewSessionStore(10*time.Millisecond, time.Millisecond)

	id, _ := reg.Create()
	time.Sleep(30 * time.Millisecond)

	_, ok := reg.Get(id)
	assert.False(t, ok)
}
