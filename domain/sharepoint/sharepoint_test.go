package sharepoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkKindName(t *testing.T) {
	assert.Equal(t, "Direct", LinkKindName(1))
	assert.Equal(t, "AnonymousView", LinkKindName(4))
	assert.Equal(t, "Flexible", LinkKindName(6))
	assert.Equal(t, "Unknown (42)", LinkKindName(42))
}

func TestScopeName(t *testing.T) {
	assert.Equal(t, "Not Applicable", ScopeName(-1))
	assert.Equal(t, "Anonymous", ScopeName(0))
	assert.Equal(t, "Specific People", ScopeName(2))
	assert.Equal(t, "Unknown (9)", ScopeName(9))
}

func TestSite_IsRedirect(t *testing.T) {
	tests := []struct {
		template string
		expected bool
	}{
		{"RedirectSite#0", true},
		{"REDIRECTSITE", true}, // search API casing
		{"SITEPAGEPUBLISHING", false},
		{"", false},
	}
	for _, tt := range tests {
		s := Site{Template: tt.template}
		assert.Equal(t, tt.expected, s.IsRedirect(), "template %q", tt.template)
	}
}

func TestPrincipal_Predicates(t *testing.T) {
	user := Principal{Type: PrincipalTypeUser, Title: "Alice"}
	assert.True(t, user.IsUser())
	assert.False(t, user.IsSharingLink())

	linkPrincipal := Principal{Type: PrincipalTypeUser, Login: "SharingLinks.abc123.Flexible.def"}
	assert.True(t, linkPrincipal.IsSharingLink())
	assert.False(t, linkPrincipal.IsUser(), "link pseudo-principals are not users")

	secGroup := Principal{Type: PrincipalTypeSecurity}
	assert.True(t, secGroup.IsSecurityGroup())
	assert.True(t, IsSecurityGroupType(PrincipalTypeDistribution))
	assert.False(t, IsSecurityGroupType(PrincipalTypeSharePointGroup))
}

func TestAssignment_RoleNames(t *testing.T) {
	a := Assignment{Roles: []string{"Read", "Contribute"}}
	assert.Equal(t, "Read, Contribute", a.RoleNames())
	assert.Empty(t, Assignment{}.RoleNames())
}

func TestSharingLink_IsAnonymous(t *testing.T) {
	assert.True(t, SharingLink{Scope: "Anonymous"}.IsAnonymous())
	assert.False(t, SharingLink{Scope: "Organization"}.IsAnonymous())
}
