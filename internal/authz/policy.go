// Package authz holds the membership policy for containers: pure decision
// functions over a loaded container's state, with no I/O. Callers load the
// container, ask the policy, and only then touch storage.
package authz

// Container is the slice of container state the policy decides on.
type Container interface {
	// Owner returns the user id that created the container.
	Owner() string
	// IsPublic reports whether read access bypasses membership checks.
	IsPublic() bool
	// MemberRole returns the role of userID and whether they are a member.
	MemberRole(userID string) (Role, bool)
}

// CanView decides read access: public containers are visible to everyone,
// private ones only to members. Ownership alone does not grant view access;
// an owner of a private container must also appear in the member table.
func CanView(c Container, callerID string) error {
	if c.IsPublic() {
		return nil
	}
	if _, ok := c.MemberRole(callerID); ok {
		return nil
	}
	return Deny(ReasonNoViewPermission)
}

// CanAddMember decides whether targetUserID may be added to the container.
// Caller privilege for this operation is enforced upstream by the role guard;
// the policy only rejects duplicates.
func CanAddMember(c Container, targetUserID string) error {
	if _, ok := c.MemberRole(targetUserID); ok {
		return Deny(ReasonAlreadyMember)
	}
	return nil
}

// CanUpdateRole decides whether targetUserID's role may be rewritten. The
// target must already be a member; caller privilege is enforced upstream.
func CanUpdateRole(c Container, targetUserID string) error {
	if _, ok := c.MemberRole(targetUserID); !ok {
		return Deny(ReasonNotAMember)
	}
	return nil
}

// CanDelete decides whether callerID may delete the container. Ownership is
// absolute: no role tier overrides it, and the owner needs no membership.
func CanDelete(c Container, callerID string) error {
	if c.Owner() != callerID {
		return Deny(ReasonNotOwner)
	}
	return nil
}
