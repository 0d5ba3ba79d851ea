package models

// Category represents the kind of tracked media (movie or tv show)
type Category string

const (
	CategoryMovie Category = "movie"
	CategoryTV    Category = "tv"
)

// Status represents the derived lifecycle stage of a tracked item.
// It is never stored; it is always computed from the item's timestamps.
type Status string

const (
	StatusPending   Status = "pending"
	StatusWatching  Status = "watching"
	StatusCompleted Status = "completed"
	StatusNone      Status = "none"
)

// ValidCategory reports whether c is one of the known categories
func ValidCategory(c Category) bool {
	return c == CategoryMovie || c == CategoryTV
}
