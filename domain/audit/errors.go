package audit

import "fmt"

// EnumerationError occurs when tenant-level site listing fails. Fatal: with
// no sites there is no work, so the driver aborts before the site loop.
type EnumerationError struct {
	TenantURL string
	Err       error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate sites for %s: %v", e.TenantURL, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// ConnectionError occurs when a site connection cannot be established.
// Scoped to one site: logged, the site is skipped, the run continues.
type ConnectionError struct {
	SiteURL string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.SiteURL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PermissionFetchError occurs when permission assignments cannot be fetched
// for one scope. The scope ("site", "library", "item") decides how much the
// caller skips; siblings are always preserved.
type PermissionFetchError struct {
	SiteURL string
	Scope   string
	Target  string
	Err     error
}

func (e *PermissionFetchError) Error() string {
	return fmt.Sprintf("fetch %s permissions for %q on %s: %v", e.Scope, e.Target, e.SiteURL, e.Err)
}

func (e *PermissionFetchError) Unwrap() error { return e.Err }

// ExportError occurs when the output file cannot be written. Fatal.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
