package auth

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// LoginWithADC verifies that ambient credentials are usable and records adc
// as the active method. The email is best effort: key-backed ADC setups
// carry one, metadata-server setups may not.
func (p *Providers) LoginWithADC(ctx context.Context) (*AuthMethodConfig, error) {
	creds, err := p.findADC(ctx, p.scopes...)
	if err != nil {
		return nil, fmt.Errorf("application default credentials unavailable: %w (run 'gcloud auth application-default login' to set them up)", err)
	}
	if _, err := creds.TokenSource.Token(); err != nil {
		return nil, fmt.Errorf("failed to mint token from application default credentials: %w", err)
	}

	cfg := &AuthMethodConfig{
		Method:              MethodADC,
		ServiceAccountEmail: emailFromCredentialsJSON(creds.JSON),
	}
	if err := p.methods.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsADCAvailable probes for ambient credentials without failing.
func (p *Providers) IsADCAvailable(ctx context.Context) bool {
	_, err := p.findADC(ctx, p.scopes...)
	return err == nil
}

// emailFromCredentialsJSON extracts an identifying email from an ADC
// credentials payload, if one is present.
func emailFromCredentialsJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return gjson.GetBytes(data, "client_email").String()
}
