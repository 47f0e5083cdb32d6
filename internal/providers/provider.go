package providers

import (
	"context"

	"ringboard-service/internal/transform"
)

// Fetch path names used in logs, metrics and query errors.
const (
	PathPrimary  = "primary"
	PathFallback = "fallback"
)

// RawSnapshot is the full raw record set for one scope, as fetched. Both the
// primary and the fallback path produce the same shape; reshaping fallback
// results is the provider's job, not the transformer's.
type RawSnapshot struct {
	Classes    []transform.RawClassRecord
	Entries    []transform.RawEntryRecord
	FetchedVia string
}

// SnapshotProvider fetches the authoritative raw record set for a scope.
// Implementations fall back to a secondary query path on primary failure
// without caller involvement.
type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context, scopeKey string) (RawSnapshot, error)
}

// MembershipProvider resolves the scope's known record ids, backing the
// client-side change-feed filter.
type MembershipProvider interface {
	MembershipIDs(ctx context.Context, scopeKey string) (MembershipSet, error)
}

// MembershipSet holds the record ids known to belong to a scope.
type MembershipSet struct {
	ClassIDs map[string]bool
	EntryIDs map[string]bool
}

// Contains reports whether the id is a known member for the kind. Result rows
// are keyed by their entry id.
func (m MembershipSet) Contains(kind, id string) bool {
	switch kind {
	case "class":
		return m.ClassIDs[id]
	case "entry", "result":
		return m.EntryIDs[id]
	default:
		return false
	}
}
