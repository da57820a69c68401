package handlers

import (
	"mathiphone/internal/repos"
	"mathiphone/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth *services.AuthService

	// Exposed for the rate feed, which shares the store with the admin screens.
	Rates *services.RateService

	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	ProductHandler *ProductHandler
	CompareHandler *CompareHandler
	ConvertHandler *ConvertHandler
	PrefsHandler   *PrefsHandler
	AdminHandler   *AdminHandler
	APIHandler     *APIHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	rateRepo := repos.NewRateRepo(db)
	cmpRepo := repos.NewCompareRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	rateSvc := services.NewRateService(rateRepo)
	cmpSvc := services.NewCompareService(cmpRepo, catalogSvc)
	adminSvc := services.NewAdminProductService(prodRepo, rateSvc)

	return &Deps{
		Auth:           auth,
		Rates:          rateSvc,
		AuthHandler:    &AuthHandler{Auth: auth, Compare: cmpSvc},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc, Rates: rateSvc, Compare: cmpSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc, Rates: rateSvc},
		CompareHandler: &CompareHandler{Compare: cmpSvc, Rates: rateSvc},
		ConvertHandler: &ConvertHandler{Rates: rateSvc},
		PrefsHandler:   &PrefsHandler{},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Products: adminSvc, Rates: rateSvc},
		APIHandler:     &APIHandler{Catalog: catalogSvc, Products: adminSvc, Rates: rateSvc},
	}
}
