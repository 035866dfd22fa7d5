package authz

import "errors"

// DenialReason tags why an operation was refused.
type DenialReason string

const (
	ReasonUserNotFound      DenialReason = "user not found"
	ReasonContainerNotFound DenialReason = "container not found"
	ReasonAlreadyMember     DenialReason = "user already in container"
	ReasonNotAMember        DenialReason = "user not found in container"
	ReasonNotOwner          DenialReason = "user is not owner of container"
	ReasonNoViewPermission  DenialReason = "no permission to view container"
)

// AccessError is the single failure kind the authorization core surfaces.
// Every denial, whether a missing entity or a failed permission check, is an
// AccessError carrying the reason; callers treat them uniformly as an
// access-denial response. Infrastructure failures are never wrapped in it.
type AccessError struct {
	Reason DenialReason
}

// Deny builds an AccessError for the given reason.
func Deny(reason DenialReason) *AccessError {
	return &AccessError{Reason: reason}
}

func (e *AccessError) Error() string {
	return "unauthorized access: " + string(e.Reason)
}

// IsDenied reports whether err is (or wraps) an AccessError.
func IsDenied(err error) bool {
	var ae *AccessError
	return errors.As(err, &ae)
}

// DenialOf extracts the denial reason from err, if it carries one.
func DenialOf(err error) (DenialReason, bool) {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae.Reason, true
	}
	return "", false
}
