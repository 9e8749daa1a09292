// Package viewgate implements role-gated UI regions and the navigation
// viewmodel built on top of them. A Region tracks whether its content may be
// shown to the current session and flips visibility as role-change
// notifications arrive.
package viewgate

import (
	"sync"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// RoleSource delivers role-change notifications. SubscribeRoles invokes the
// callback immediately with the current role set and returns an unsubscribe
// function. authstate.State satisfies this.
type RoleSource interface {
	SubscribeRoles(fn func(domainauth.RoleSet)) func()
}

// Region is one gated UI region. It starts hidden and becomes visible when
// the role set satisfies its requirement; with no requirement it is visible
// to every session. The OnToggle hook fires only when visibility actually
// changes, never on redundant notifications.
type Region struct {
	required []domainauth.Role
	onToggle func(visible bool)

	mu      sync.Mutex
	visible bool
	unsub   func()
	closed  bool
}

// RegionOptions configure a Region.
type RegionOptions struct {
	// Required lists the roles that may see the region; empty means
	// unrestricted.
	Required []domainauth.Role
	// OnToggle is invoked with the new visibility whenever it changes.
	// Optional.
	OnToggle func(visible bool)
}

// NewRegion builds a Region and subscribes it to the source. The initial
// replay runs before NewRegion returns, so Visible is already accurate.
func NewRegion(source RoleSource, opts RegionOptions) *Region {
	r := &Region{
		required: append([]domainauth.Role(nil), opts.Required...),
		onToggle: opts.OnToggle,
	}
	// The replay fires inside SubscribeRoles, before unsub is assigned;
	// apply handles that re-entrancy by not touching r.unsub.
	r.unsub = source.SubscribeRoles(r.apply)
	return r
}

// Visible reports whether the region is currently shown.
func (r *Region) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

// Close unsubscribes the region from its source. After Close the region
// keeps its last visibility and receives no further notifications. Calling
// Close more than once is harmless.
func (r *Region) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	unsub := r.unsub
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (r *Region) apply(roles domainauth.RoleSet) {
	next := domainauth.Allows(r.required, roles)

	r.mu.Lock()
	if r.closed || next == r.visible {
		r.mu.Unlock()
		return
	}
	r.visible = next
	hook := r.onToggle
	r.mu.Unlock()

	if hook != nil {
		hook(next)
	}
}
