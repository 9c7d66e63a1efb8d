package social

import "time"

// EventKind names a store mutation.
type EventKind string

const (
	EventUserRegistered  EventKind = "user_registered"
	EventFriendshipAdded EventKind = "friendship_added"
	EventPostCreated     EventKind = "post_created"
	EventReset           EventKind = "reset"
	// EventRejected reports a mutation refused with an *Error.
	EventRejected EventKind = "rejected"
)

// Event describes a completed mutation.
type Event struct {
	Kind EventKind
	// Users holds the affected usernames: one for registrations and posts,
	// two for friendships, none for reset.
	Users []string
	// Timestamp is the post timestamp for EventPostCreated, else 0.
	Timestamp int64
	// Err is set for EventRejected only.
	Err *Error
	At  time.Time
}

// Observer receives store events. Observe runs while the store's write
// lock is held, so it must not call back into the store.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
