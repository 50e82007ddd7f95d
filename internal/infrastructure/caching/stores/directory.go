// Package stores provides the concrete entity store implementations. Each
// store guards copy-on-write maps: merges swap in freshly built maps from the
// merge package, so a map handed to a reader stays valid and immutable even
// while later merges land.
package stores

import (
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/merge"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// DirectoryStore holds the member directory, keyed by email.
type DirectoryStore struct {
	mu     sync.RWMutex
	users  map[string]chapter.User
	logger *logging.ChanneledLogger
}

// NewDirectoryStore creates an empty directory store.
func NewDirectoryStore(logger *logging.ChanneledLogger) *DirectoryStore {
	return &DirectoryStore{
		users:  make(map[string]chapter.User),
		logger: logger,
	}
}

// MergeUsers merges fetched users into the directory.
func (ds *DirectoryStore) MergeUsers(users []chapter.User) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.users = merge.ByKey(ds.users, users, func(u chapter.User) string { return u.Email })
	if ds.logger != nil {
		ds.logger.Cache().Debug("Directory merged", "incoming", len(users), "total", len(ds.users))
	}
}

// GetUser retrieves one member by email.
func (ds *DirectoryStore) GetUser(email string) (chapter.User, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	u, ok := ds.users[email]
	return u, ok
}

// AllUsers returns the current directory mapping. The returned map is a
// stable snapshot; merges never mutate it in place.
func (ds *DirectoryStore) AllUsers() map[string]chapter.User {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.users
}

// RemoveUser drops one member after a confirmed server-side delete.
func (ds *DirectoryStore) RemoveUser(email string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.users = merge.Remove(ds.users, email)
}

// Len reports the directory size.
func (ds *DirectoryStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.users)
}
