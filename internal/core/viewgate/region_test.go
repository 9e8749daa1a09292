package viewgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// fakeSource is a minimal RoleSource with manual push.
type fakeSource struct {
	current domainauth.RoleSet
	subs    []func(domainauth.RoleSet)
	unsubs  int
}

func newFakeSource(roles ...domainauth.Role) *fakeSource {
	return &fakeSource{current: domainauth.NewRoleSet(roles...)}
}

func (f *fakeSource) SubscribeRoles(fn func(domainauth.RoleSet)) func() {
	f.subs = append(f.subs, fn)
	fn(f.current.Clone())
	return func() { f.unsubs++ }
}

func (f *fakeSource) push(roles ...domainauth.Role) {
	f.current = domainauth.NewRoleSet(roles...)
	for _, fn := range f.subs {
		fn(f.current.Clone())
	}
}

func TestRegion_UnrestrictedIsAlwaysVisible(t *testing.T) {
	source := newFakeSource()

	region := NewRegion(source, RegionOptions{})
	defer region.Close()

	assert.True(t, region.Visible(), "empty requirement shows for the empty role set too")
}

func TestRegion_InitialReplayDecidesVisibility(t *testing.T) {
	source := newFakeSource(domainauth.RoleCoach)

	region := NewRegion(source, RegionOptions{
		Required: []domainauth.Role{domainauth.RoleCoach},
	})
	defer region.Close()

	assert.True(t, region.Visible())

	hidden := NewRegion(source, RegionOptions{
		Required: []domainauth.Role{domainauth.RoleAdmin},
	})
	defer hidden.Close()

	assert.False(t, hidden.Visible())
}

func TestRegion_TogglesOnRoleChange(t *testing.T) {
	source := newFakeSource()

	var toggles []bool
	region := NewRegion(source, RegionOptions{
		Required: []domainauth.Role{domainauth.RoleAdmin},
		OnToggle: func(visible bool) { toggles = append(toggles, visible) },
	})
	defer region.Close()

	require.False(t, region.Visible())

	source.push(domainauth.RoleAdmin)
	assert.True(t, region.Visible())

	source.push()
	assert.False(t, region.Visible())

	assert.Equal(t, []bool{true, false}, toggles)
}

func TestRegion_NoRedundantToggles(t *testing.T) {
	source := newFakeSource(domainauth.RoleAdmin)

	count := 0
	region := NewRegion(source, RegionOptions{
		Required: []domainauth.Role{domainauth.RoleAdmin},
		OnToggle: func(bool) { count++ },
	})
	defer region.Close()

	require.Equal(t, 1, count, "initial replay made it visible")

	// Same outcome under a different role set: no toggle.
	source.push(domainauth.RoleAdmin, domainauth.RoleCoach)
	assert.Equal(t, 1, count)
}

func TestRegion_AnyOfSemantics(t *testing.T) {
	source := newFakeSource(domainauth.RoleStafMedical)

	region := NewRegion(source, RegionOptions{
		Required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStafMedical},
	})
	defer region.Close()

	assert.True(t, region.Visible(), "one matching role is enough")
}

func TestRegion_CloseUnsubscribes(t *testing.T) {
	source := newFakeSource()

	region := NewRegion(source, RegionOptions{
		Required: []domainauth.Role{domainauth.RoleAdmin},
	})

	region.Close()
	region.Close() // idempotent
	assert.Equal(t, 1, source.unsubs)

	// Notifications after Close leave visibility frozen.
	source.push(domainauth.RoleAdmin)
	assert.False(t, region.Visible())
}
