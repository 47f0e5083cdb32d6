package feed

import "testing"

func TestShouldForward(t *testing.T) {
	members := map[string]Membership{
		"known":   MembershipMember,
		"foreign": MembershipNotMember,
	}
	fn := func(_ EntityType, id string) Membership {
		if m, ok := members[id]; ok {
			return m
		}
		return MembershipUnknown
	}

	cases := []struct {
		name string
		id   string
		want bool
	}{
		{"member forwards", "known", true},
		{"non-member drops", "foreign", false},
		{"unknown membership forwards", "not-yet-loaded", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := ChangeEvent{Entity: EntityResult, EntityID: tc.id}
			if got := ShouldForward(fn, ev); got != tc.want {
				t.Fatalf("ShouldForward(%q) = %v, want %v", tc.id, got, tc.want)
			}
		})
	}
}

func TestShouldForwardWithoutFilter(t *testing.T) {
	if !ShouldForward(nil, ChangeEvent{Entity: EntityClass, EntityID: "x"}) {
		t.Fatal("nil membership func should forward everything")
	}
}
