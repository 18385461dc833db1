package handlers

import (
	"github.com/jmoiron/sqlx"

	"signcraft/internal/config"
	"signcraft/internal/mail"
	"signcraft/internal/repos"
	"signcraft/internal/services"
)

type Deps struct {
	CatalogHandler   *CatalogHandler
	CartHandler      *CartHandler
	EnquiryHandler   *EnquiryHandler
	AdminEnquiries   *AdminEnquiryHandler
	CustomerHandler  *CustomerHandler
	AdminCatalog     *AdminCatalogHandler
	InventoryHandler *InventoryHandler
	TemplateHandler  *TemplateHandler
	UploadHandler    *UploadHandler
	StatsHandler     *StatsHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, mailer mail.Sender) *Deps {
	custRepo := repos.NewCustomerRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	enqRepo := repos.NewEnquiryRepo(db)
	tplRepo := repos.NewTemplateRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	enqSvc := services.NewEnquiryService(custRepo, catRepo, prodRepo, enqRepo, tplRepo, mailer)
	invSvc := services.NewInventoryService(invRepo, cfg.CompanyName)

	return &Deps{
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc, Enq: enqSvc, Mail: mailer, Cfg: cfg},
		EnquiryHandler:  &EnquiryHandler{Enq: enqSvc, Mail: mailer, Cfg: cfg},
		AdminEnquiries:  &AdminEnquiryHandler{Enq: enqSvc, Repo: enqRepo},
		CustomerHandler: &CustomerHandler{Customers: custRepo},
		AdminCatalog:    &AdminCatalogHandler{Cats: catRepo, Prods: prodRepo},
		InventoryHandler: &InventoryHandler{
			Inv: invSvc, Repo: invRepo,
		},
		TemplateHandler: &TemplateHandler{Templates: tplRepo},
		UploadHandler:   &UploadHandler{Dir: cfg.UploadDir},
		StatsHandler: &StatsHandler{
			Enquiries: enqRepo, Customers: custRepo, Products: prodRepo, Inventory: invRepo,
		},
	}
}
