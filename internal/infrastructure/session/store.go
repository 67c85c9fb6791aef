// Package session keeps the per-browser form state between requests.
// State is process local and never persisted; it disappears on expiry,
// explicit reset or process exit.
package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// Snapshot is what a session remembers: the last accepted record and whether
// the sidebar predict action has been used.
type Snapshot struct {
	Record           models.ClientRecord
	PredictRequested bool
}

// Store maps session ids to snapshots with a sliding TTL.
type Store struct {
	items *gocache.Cache
}

// NewStore creates a store whose idle snapshots expire after ttl.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = ttl
	}
	return &Store{items: gocache.New(ttl, cleanupInterval)}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns a copy of the snapshot for id.
func (s *Store) Get(id string) (Snapshot, bool) {
	v, ok := s.items.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return v.(Snapshot), true
}

// Save stores snap under id and restarts its expiry.
func (s *Store) Save(id string, snap Snapshot) {
	s.items.SetDefault(id, snap)
}

// Touch restarts the expiry of an existing snapshot.
func (s *Store) Touch(id string) {
	if snap, ok := s.Get(id); ok {
		s.Save(id, snap)
	}
}

// Delete drops the snapshot for id.
func (s *Store) Delete(id string) {
	s.items.Delete(id)
}

// Len is the number of live snapshots.
func (s *Store) Len() int {
	return s.items.ItemCount()
}
