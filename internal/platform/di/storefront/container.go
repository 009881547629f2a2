// internal/platform/di/storefront/container.go
package storefront

import (
	"context"
	"errors"
	"log"
	"net/http"

	storefrontin "github.com/alpesh377/e-commerce-store/internal/adapters/in/http/storefront"
	fsadapters "github.com/alpesh377/e-commerce-store/internal/adapters/out/firestore"
	gcsadapters "github.com/alpesh377/e-commerce-store/internal/adapters/out/gcs"
	idtk "github.com/alpesh377/e-commerce-store/internal/adapters/out/identitytoolkit"
	mailout "github.com/alpesh377/e-commerce-store/internal/adapters/out/mail"
	usecase "github.com/alpesh377/e-commerce-store/internal/application/usecase"
	shared "github.com/alpesh377/e-commerce-store/internal/platform/di/shared"
)

// Container wires the storefront service out of shared infra.
type Container struct {
	Infra *shared.Infra

	Sessions  *usecase.SessionRegistry
	CatalogUC *usecase.CatalogUsecase
	Identity  *idtk.Provider

	Handler http.Handler
}

// NewContainer builds the full storefront wiring.
// Secrets resolve Secret Manager -> env fallback; a missing secret disables
// the one feature it backs and is logged, never fatal.
func NewContainer(ctx context.Context, inf *shared.Infra) (*Container, error) {
	if inf == nil || inf.Firestore == nil {
		return nil, errors.New("di.storefront: infra is not initialized")
	}
	cfg := inf.Config

	// --- secrets ---
	secrets := &apiKeySecretProviderSM{sm: inf.SecretManager, projectID: inf.ProjectID}

	webAPIKey := cfg.FirebaseWebAPIKey
	if webAPIKey == "" && inf.SecretManager != nil {
		v, err := secrets.Get(ctx, cfg.WebAPIKeySecret)
		if err != nil {
			log.Printf("[di.storefront] WARN: web api key secret unavailable: %v (password sign-in disabled)", err)
		} else {
			webAPIKey = v
		}
	}

	sendgridKey := cfg.SendGridAPIKey
	if inf.SecretManager != nil {
		if v, err := secrets.Get(ctx, cfg.SendGridAPIKeySecret); err == nil && v != "" {
			sendgridKey = v
		}
	}

	// --- outbound adapters ---
	productRepo := fsadapters.NewProductRepositoryFS(inf.Firestore)
	cartStore := fsadapters.NewCartStoreFS(inf.Firestore)

	var images usecase.ImageURLResolver
	if inf.GCS != nil {
		images = gcsadapters.NewProductImageResolver(inf.GCS, cfg.ProductImageBucket)
	}

	var mailer mailout.Client
	if sendgridKey != "" {
		mailer = mailout.NewSendGridClient(sendgridKey)
	} else {
		log.Printf("[di.storefront] WARN: sendgrid key unavailable (password reset mail disabled)")
	}

	toolkit := idtk.NewClient("", webAPIKey)
	identity := idtk.NewProvider(toolkit, inf.FirebaseAuth, mailer, cfg.MailFrom)

	// --- application ---
	sessions := usecase.NewSessionRegistry(cartStore, cfg.SessionTTL)

	var catalogUC *usecase.CatalogUsecase
	if images != nil {
		catalogUC = usecase.NewCatalogUsecaseWithImages(productRepo, images)
	} else {
		catalogUC = usecase.NewCatalogUsecase(productRepo)
	}

	// --- inbound ---
	handler := storefrontin.NewRouter(storefrontin.RouterDeps{
		CatalogUC:     catalogUC,
		Sessions:      sessions,
		Identity:      identity,
		FirebaseAuth:  inf.FirebaseAuth,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	return &Container{
		Infra:     inf,
		Sessions:  sessions,
		CatalogUC: catalogUC,
		Identity:  identity,
		Handler:   handler,
	}, nil
}

// Close disposes sessions (cart engines, remote subscriptions). Infra is
// owned by the caller and closed separately.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Sessions != nil {
		c.Sessions.Close()
	}
}
