// internal/platform/di/storefront/secret_provider_sm.go
package storefront

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// apiKeySecretProviderSM resolves service secrets (web API key, SendGrid key)
// from Secret Manager. Version is always "latest"; rotation is picked up at
// the next boot.
type apiKeySecretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
}

func (p *apiKeySecretProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errors.New("di.storefront: secret provider not configured")
	}

	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("di.storefront: secretID is empty")
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("di.storefront: projectID is empty")
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("di.storefront: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di.storefront: empty payload (" + name + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
