package store

import (
	"context"
	"errors"
)

// Namespaced keys for the persisted collections. Each key holds one
// JSON-serialized array or object.
const (
	KeyUsers         = "tcs_users"
	KeySession       = "tcs_session"
	KeyEvents        = "tcs_events"
	KeyTickets       = "tcs_tickets"
	KeyCabinet       = "tcs_cabinet"
	KeyFaculty       = "tcs_faculty"
	KeyTheme         = "tcs_theme"
	KeyHomeContent   = "tcs_home_content"
	KeyAnnouncements = "tcs_announcements"
	KeyPrograms      = "tcs_programs"
	KeyDegrees       = "tcs_degrees"
	KeyGalleryAlbums = "tcs_gallery_albums"
)

// ErrNotFound is returned by Get when no value exists under the key.
// Callers on the read path treat it (and decode failures) as "use the
// default": availability of a usable empty state beats strict surfacing.
var ErrNotFound = errors.New("key not found")

// Store is the persistence port standing in for a real database: whole
// collections are read and written as single JSON values under namespaced
// keys. Implementations fire a change notification on the attached Bus
// after every successful write.
type Store interface {
	Get(ctx context.Context, key string, into any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
