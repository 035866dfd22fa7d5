package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContainer is a minimal authz.Container for policy tests.
type fakeContainer struct {
	owner   string
	public  bool
	members map[string]Role
}

func (c *fakeContainer) Owner() string  { return c.owner }
func (c *fakeContainer) IsPublic() bool { return c.public }
func (c *fakeContainer) MemberRole(userID string) (Role, bool) {
	role, ok := c.members[userID]
	return role, ok
}

func requireDenial(t *testing.T, err error, reason DenialReason) {
	t.Helper()
	require.Error(t, err)
	got, ok := DenialOf(err)
	require.True(t, ok, "expected an access denial, got %v", err)
	assert.Equal(t, reason, got)
}

func TestCanView(t *testing.T) {
	private := &fakeContainer{owner: "owner", members: map[string]Role{"member": RoleUser}}

	assert.NoError(t, CanView(private, "member"))
	requireDenial(t, CanView(private, "stranger"), ReasonNoViewPermission)

	// Ownership alone grants nothing on a private container.
	requireDenial(t, CanView(private, "owner"), ReasonNoViewPermission)

	public := &fakeContainer{owner: "owner", public: true}
	assert.NoError(t, CanView(public, "stranger"))
	assert.NoError(t, CanView(public, "owner"))
}

func TestCanAddMember(t *testing.T) {
	c := &fakeContainer{owner: "owner", members: map[string]Role{"member": RoleModerator}}

	assert.NoError(t, CanAddMember(c, "newcomer"))
	requireDenial(t, CanAddMember(c, "member"), ReasonAlreadyMember)
}

func TestCanUpdateRole(t *testing.T) {
	c := &fakeContainer{owner: "owner", members: map[string]Role{"member": RoleUser}}

	assert.NoError(t, CanUpdateRole(c, "member"))
	requireDenial(t, CanUpdateRole(c, "stranger"), ReasonNotAMember)
}

func TestCanDelete(t *testing.T) {
	c := &fakeContainer{owner: "owner", members: map[string]Role{"admin": RoleAdmin}}

	assert.NoError(t, CanDelete(c, "owner"))

	// No role tier overrides ownership.
	requireDenial(t, CanDelete(c, "admin"), ReasonNotOwner)
	requireDenial(t, CanDelete(c, "stranger"), ReasonNotOwner)
}

func TestAccessErrorHelpers(t *testing.T) {
	err := Deny(ReasonNotOwner)
	assert.True(t, IsDenied(err))
	assert.Contains(t, err.Error(), "unauthorized access")

	reason, ok := DenialOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonNotOwner, reason)

	assert.False(t, IsDenied(assert.AnError))
	_, ok = DenialOf(assert.AnError)
	assert.False(t, ok)
}
