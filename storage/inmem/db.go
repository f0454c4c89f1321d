// Package inmem holds the in-memory entity store. Collections are
// insertion-ordered slices guarded by a single RWMutex; records never leave
// the store by reference.
package inmem

import (
	"sync"

	"github.com/trezcool/darasa/core/school"
)

type DB struct {
	mu sync.RWMutex

	users         []*school.User
	institutions  []*school.Institution
	classes       []*school.Class
	messages      []*school.Message
	meetings      []*school.Meeting
	announcements []*school.Announcement
}

func Open() *DB {
	return &DB{}
}
