package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/loanrisk/internal/domain/models"
)

func TestStore_SaveGetDelete(t *testing.T) {
	s := NewStore(time.Minute, time.Minute)
	id := NewID()

	_, ok := s.Get(id)
	assert.False(t, ok)

	rec := *models.DefaultClientRecord()
	rec.Age = 42
	s.Save(id, Snapshot{Record: rec, PredictRequested: true})

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, 42, got.Record.Age)
	assert.True(t, got.PredictRequested)
	assert.Equal(t, 1, s.Len())

	got.Record.Age = 90
	again, _ := s.Get(id)
	assert.Equal(t, 42, again.Record.Age, "snapshots are stored by value")

	s.Delete(id)
	_, ok = s.Get(id)
	assert.False(t, ok)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore(time.Minute, time.Minute)
	a, b := NewID(), NewID()
	require.NotEqual(t, a, b)

	s.Save(a, Snapshot{PredictRequested: true})
	s.Save(b, Snapshot{PredictRequested: false})

	sa, _ := s.Get(a)
	sb, _ := s.Get(b)
	assert.True(t, sa.PredictRequested)
	assert.False(t, sb.PredictRequested)
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(30*time.Millisecond, 10*time.Millisecond)
	id := NewID()
	s.Save(id, Snapshot{})

	time.Sleep(60 * time.Millisecond)
	_, ok := s.Get(id)
	assert.False(t, ok)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID("not-a-session"))
	assert.False(t, ValidID(""))
}
