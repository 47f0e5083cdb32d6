// Package feed defines the change-notification contract between the remote
// store and the sync engine, plus the debouncer that coalesces bursts.
//
// Events carry only the changed row's identity, never its fields: the engine
// always answers a notification by refetching the authoritative snapshot,
// because a payload cannot describe the merged-group aggregate.
package feed

import "time"

// EntityType names the watched record kinds.
type EntityType string

const (
	EntityClass  EntityType = "class"
	EntityEntry  EntityType = "entry"
	EntityResult EntityType = "result"
)

// WatchedEntities is the set of entity types the engine subscribes to.
var WatchedEntities = []EntityType{EntityClass, EntityEntry, EntityResult}

// ChangeEvent is one change notification. Delivery is at-least-once and
// unordered relative to in-flight queries.
type ChangeEvent struct {
	ID       string
	Entity   EntityType
	EntityID string
	ScopeKey string
	At       time.Time
}

// Subscription is an open change-notification stream for one scope. Events
// may be consumed from the channel directly or pumped into a callback by the
// owner. Close is idempotent.
type Subscription interface {
	Events() <-chan ChangeEvent
	Close() error
}

// Subscriber opens change-notification streams. Implementations must tear
// down any prior subscriptions for an old scope before a new Subscribe call
// returns, so a scope change never produces duplicate delivery.
type Subscriber interface {
	Subscribe(scopeKey string) (Subscription, error)
}
