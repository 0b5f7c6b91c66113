package audit

import (
	"fmt"
)

// Parameters represents user-configurable audit behavior for one run.
type Parameters struct {
	// Scope and behavior
	SkipHidden        bool // Skip hidden libraries
	IncludeInherited  bool // Also inspect items that inherit permissions
	ExternalLinksOnly bool // Skip the site-level pass and filter output to external findings

	// Performance parameters
	PageSize   int // Items fetched per page during library walks
	MaxRetries int // Maximum retry attempts for failed remote calls
	RetryDelay int // Delay between retries in milliseconds
}

// DefaultParameters returns sensible default audit parameters.
func DefaultParameters() *Parameters {
	return &Parameters{
		SkipHidden: true,
		PageSize:   1000,
		MaxRetries: 3,
		RetryDelay: 1000,
	}
}

// ApiConstraints defines the technical limits imposed by the SharePoint APIs.
// These are infrastructure concerns, not user preferences.
type ApiConstraints struct {
	MinPageSize   int // Minimum valid page size (1)
	MaxPageSize   int // SharePoint REST API limit (5000)
	MaxRetries    int // Maximum retry attempts (10)
	MaxRetryDelay int // Maximum retry delay in milliseconds
}

// DefaultApiConstraints returns SharePoint API technical limits.
func DefaultApiConstraints() *ApiConstraints {
	return &ApiConstraints{
		MinPageSize:   1,
		MaxPageSize:   5000, // SharePoint REST API limit
		MaxRetries:    10,
		MaxRetryDelay: 60000,
	}
}

// Validate checks the parameters against SharePoint API constraints.
func (p *Parameters) Validate(constraints *ApiConstraints) error {
	if p == nil {
		return fmt.Errorf("audit parameters cannot be nil")
	}
	if constraints == nil {
		constraints = DefaultApiConstraints()
	}

	if p.PageSize < constraints.MinPageSize {
		return fmt.Errorf("page_size must be at least %d, got: %d", constraints.MinPageSize, p.PageSize)
	}
	if p.PageSize > constraints.MaxPageSize {
		return fmt.Errorf("page_size cannot exceed %d (SharePoint API limit), got: %d", constraints.MaxPageSize, p.PageSize)
	}

	if p.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got: %d", p.MaxRetries)
	}
	if p.MaxRetries > constraints.MaxRetries {
		return fmt.Errorf("max_retries cannot exceed %d, got: %d", constraints.MaxRetries, p.MaxRetries)
	}

	if p.RetryDelay < 0 {
		return fmt.Errorf("retry_delay cannot be negative, got: %d ms", p.RetryDelay)
	}
	if p.RetryDelay > constraints.MaxRetryDelay {
		return fmt.Errorf("retry_delay cannot exceed %d ms, got: %d ms", constraints.MaxRetryDelay, p.RetryDelay)
	}

	return nil
}

// GetEffectivePageSize returns the page size to use, with fallback to default if not set
func (p *Parameters) GetEffectivePageSize() int {
	if p.PageSize <= 0 {
		return 1000
	}
	return p.PageSize
}
