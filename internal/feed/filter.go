package feed

// Membership answers whether an entity id belongs to the tracked scope.
// Membership sets are fetched asynchronously, so Unknown is a normal answer
// shortly after a subscription opens.
type Membership int

const (
	MembershipUnknown Membership = iota
	MembershipMember
	MembershipNotMember
)

// MembershipFunc resolves scope membership for an entity id.
type MembershipFunc func(entity EntityType, id string) Membership

// ShouldForward applies the client-side scope filter to an event delivered on
// an unscoped subscription. Unknown membership forwards: refetching is cheap,
// missing a relevant update is not.
func ShouldForward(fn MembershipFunc, ev ChangeEvent) bool {
	if fn == nil {
		return true
	}
	return fn(ev.Entity, ev.EntityID) != MembershipNotMember
}
