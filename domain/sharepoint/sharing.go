package sharepoint

// Relevant reading:
// https://reshmeeauckloo.com/posts/powershell-get-sharing-links-sharepoint/

// SharingLink represents one ad-hoc sharing link on a file.
type SharingLink struct {
	ShareID  string
	Kind     string // compact kind name, e.g. "AnonymousView"
	Scope    string
	URL      string
	IsActive bool
}

// IsAnonymous returns true if the link grants access without authentication
func (s SharingLink) IsAnonymous() bool {
	return s.Scope == "Anonymous"
}
