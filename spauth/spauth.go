package spauth

import (
	"fmt"
	"os"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/auth/azurecert"
)

// Config holds the tenant-wide app-only credentials. One credential set
// authenticates against every site in the tenant.
type Config struct {
	TenantID     string
	ClientID     string
	CertPath     string
	CertPassword string
}

func FromEnv() (Config, error) {
	// Environment should already be loaded by main.go
	cfg := Config{
		TenantID:     os.Getenv("SP_TENANT_ID"),
		ClientID:     os.Getenv("SP_CLIENT_ID"),
		CertPath:     os.Getenv("SP_CERT_PATH"),
		CertPassword: os.Getenv("SP_CERT_PASSWORD"),
	}

	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.CertPath == "" {
		return cfg, fmt.Errorf("missing required configuration: SP_TENANT_ID, SP_CLIENT_ID, SP_CERT_PATH")
	}
	return cfg, nil
}

// NewClientForSite builds a gosip client scoped to one site URL. Each site
// session gets its own client; the caller owns the session lifecycle.
func NewClientForSite(cfg Config, siteURL string) (*gosip.SPClient, error) {
	if siteURL == "" {
		return nil, fmt.Errorf("site URL cannot be empty")
	}
	ac := &azurecert.AuthCnfg{
		SiteURL:  siteURL,
		TenantID: cfg.TenantID,
		ClientID: cfg.ClientID,
		CertPath: cfg.CertPath,
		CertPass: cfg.CertPassword,
	}
	return &gosip.SPClient{AuthCnfg: ac}, nil
}
