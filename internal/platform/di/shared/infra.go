// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	appcfg "github.com/alpesh377/e-commerce-store/internal/infra/config"
	firestoreinfra "github.com/alpesh377/e-commerce-store/internal/infra/firestore"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/GCS/SecretManager)
// - owns env/config-resolved runtime settings
//
// IMPORTANT:
// Infra must NOT depend on routers, handlers, or usecases.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	GCS           *storage.Client
}

// NewInfra initializes shared infra.
// Firestore is strict (return error); Firebase/Auth, Secret Manager and GCS
// are best-effort (warn + continue); the features they back degrade.
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		return nil, errors.New("shared.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: projectID,
	}

	// Firestore (strict)
	fsw, err := firestoreinfra.NewClient(ctx, projectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, err
	}
	inf.Firestore = fsw.Client

	// Firebase App / Auth (best-effort)
	var opts []option.ClientOption
	if cfg.FirestoreCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		log.Printf("[infra] WARN: firebase app init failed: %v (token verification disabled)", err)
	} else {
		inf.FirebaseApp = app
		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Printf("[infra] WARN: firebase auth init failed: %v (token verification disabled)", err)
		} else {
			inf.FirebaseAuth = authClient
			log.Printf("✅ Firebase Auth ready (project: %s)", cfg.FirebaseProjectID)
		}
	}

	// Secret Manager (best-effort)
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		log.Printf("[infra] WARN: secret manager init failed: %v (env-var secrets only)", err)
	} else {
		inf.SecretManager = sm
	}

	// GCS (best-effort; product image signing)
	gcs, err := storage.NewClient(ctx)
	if err != nil {
		log.Printf("[infra] WARN: gcs init failed: %v (image refs pass through unsigned)", err)
	} else {
		inf.GCS = gcs
	}

	return inf, nil
}

// Close releases every owned client. Safe on a partially built Infra.
func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
}
