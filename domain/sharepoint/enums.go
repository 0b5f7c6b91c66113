package sharepoint

import "fmt"

// ----- Link kind (SP.SharingLinkKind) -----
func LinkKindName(v int) string {
	switch v {
	case 0:
		return "Uninitialized"
	case 1:
		return "Direct"
	case 2:
		return "OrganizationView"
	case 3:
		return "OrganizationEdit"
	case 4:
		return "AnonymousView"
	case 5:
		return "AnonymousEdit"
	case 6:
		return "Flexible"
	default:
		return fmt.Sprintf("Unknown (%d)", v)
	}
}

// ----- Link scope (sharing link scope) -----
// Based on observed SharePoint API behavior: anonymous=0, organization=1, specificPeople=2
// -1 shows up for "placeholder" link entries in GetSharingInformation.
func ScopeName(v int) string {
	switch v {
	case -1:
		return "Not Applicable"
	case 0:
		return "Anonymous"
	case 1:
		return "Organization"
	case 2:
		return "Specific People"
	case 3:
		return "Existing Access"
	default:
		return fmt.Sprintf("Unknown (%d)", v)
	}
}
