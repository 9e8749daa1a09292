package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		required []Role
		current  RoleSet
		want     bool
	}{
		{
			name:     "empty requirement allows empty set",
			required: nil,
			current:  NewRoleSet(),
			want:     true,
		},
		{
			name:     "empty requirement allows any set",
			required: []Role{},
			current:  NewRoleSet(RoleCoach),
			want:     true,
		},
		{
			name:     "restricted denies empty set",
			required: []Role{RoleAdmin},
			current:  NewRoleSet(),
			want:     false,
		},
		{
			name:     "restricted denies nil set",
			required: []Role{RoleAdmin},
			current:  nil,
			want:     false,
		},
		{
			name:     "single match allows",
			required: []Role{RoleAdmin},
			current:  NewRoleSet(RoleAdmin),
			want:     true,
		},
		{
			name:     "or semantics, one of several is enough",
			required: []Role{RoleAdmin, RoleCoach},
			current:  NewRoleSet(RoleCoach),
			want:     true,
		},
		{
			name:     "no overlap denies",
			required: []Role{RoleStafMedical, RoleResponsableFinancier},
			current:  NewRoleSet(RoleJoueur, RoleInvite),
			want:     false,
		},
		{
			name:     "required roles are normalized before matching",
			required: []Role{"entraîneur"},
			current:  NewRoleSet(RoleCoach),
			want:     true,
		},
		{
			name:     "unknown required role never matches",
			required: []Role{"SCOUT"},
			current:  NewRoleSet(RoleAdmin, RoleCoach),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.required, tt.current))
		})
	}
}

func TestRoleSet_Basics(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleAdmin, RoleCoach)
	assert.Len(t, set, 2, "duplicates are collapsed")
	assert.True(t, set.Has(RoleAdmin))
	assert.False(t, set.Has(RoleJoueur))
	assert.False(t, set.IsEmpty())
	assert.True(t, NewRoleSet().IsEmpty())

	var nilSet RoleSet
	assert.True(t, nilSet.IsEmpty())
	assert.False(t, nilSet.Has(RoleAdmin))
}

func TestRoleSet_EqualAndClone(t *testing.T) {
	a := NewRoleSet(RoleAdmin, RoleCoach)
	b := NewRoleSet(RoleCoach, RoleAdmin)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewRoleSet(RoleAdmin)))

	c := a.Clone()
	c.Add(RoleJoueur)
	assert.False(t, a.Has(RoleJoueur), "clone must be independent")
}

func TestRoleSet_ValuesSorted(t *testing.T) {
	set := NewRoleSet(RoleStafMedical, RoleAdmin, RoleCoach)
	assert.Equal(t, []Role{RoleAdmin, RoleCoach, RoleStafMedical}, set.Values())
}
