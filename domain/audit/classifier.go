package audit

import (
	"strings"

	"spscan/domain/sharepoint"
)

// GuestMarker is the substring SharePoint stamps into the UPN/email of guest
// (invited external) accounts.
const GuestMarker = "#ext#"

// IsExternalIdentity classifies a principal as external to the tenant.
// True when the email carries the guest marker, or when the principal type is
// a directory security group (external-reachable construct). Pure function:
// no state, no network, safe to call from anywhere.
func IsExternalIdentity(email string, principalType int64) bool {
	if strings.Contains(strings.ToLower(email), GuestMarker) {
		return true
	}
	return sharepoint.IsSecurityGroupType(principalType)
}
