package app

import (
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/lautarip/tiendamoda/internal/adapters/httpserver"
	"github.com/lautarip/tiendamoda/internal/adapters/repo/postgres"
	"github.com/lautarip/tiendamoda/internal/domain"
	"github.com/lautarip/tiendamoda/internal/usecase"
)

type App struct {
	DB          *gorm.DB
	ProductUC   *usecase.ProductUC
	AttributeUC *usecase.AttributeUC
	VariantUC   *usecase.VariantUC
	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	attrRepo := postgres.NewAttributeRepo(db)

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app := &App{}
	app.DB = db
	app.ProductUC = &usecase.ProductUC{Products: prodRepo}
	app.AttributeUC = &usecase.AttributeUC{Attributes: attrRepo}
	app.VariantUC = &usecase.VariantUC{Products: prodRepo}
	app.OAuthConfig = oauthCfg
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.AttributeUC, a.VariantUC, a.OAuthConfig)
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Image{}, &domain.Attribute{}, &domain.AttributeValue{}, &domain.Variant{}, &domain.VariantAssignment{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variants_product_id ON variants (product_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variant_assignments_variant_id ON variant_assignments (variant_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variant_assignments_attribute_id ON variant_assignments (attribute_id)").Error

	// Una variante no puede repetir atributo, y dos variantes del mismo
	// producto no pueden compartir set de asignaciones.
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_variant_assignments_variant_attr ON variant_assignments (variant_id, attribute_id)").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_product_fingerprint ON variants (product_id, fingerprint)").Error

	_ = a.DB.Exec("ALTER TABLE products ADD COLUMN IF NOT EXISTS active BOOLEAN DEFAULT true").Error
	_ = a.DB.Exec("UPDATE products SET active = true WHERE active IS NULL").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_active ON products(active)").Error

	return nil
}
