package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	md "github.com/Astemirdum/lending-service/pkg/middleware"
	"github.com/Astemirdum/lending-service/pkg/validate"
)

type Handler struct {
	lendingSvc  LendingService
	catalogSvc  CatalogService
	registrySvc RegistryService
	curationSvc CurationService
	log         *zap.Logger
}

func New(lendingSvc LendingService, catalogSvc CatalogService, registrySvc RegistryService, curationSvc CurationService, log *zap.Logger) *Handler {
	return &Handler{
		lendingSvc:  lendingSvc,
		catalogSvc:  catalogSvc,
		registrySvc: registrySvc,
		curationSvc: curationSvc,
		log:         log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/loans", h.Checkout)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/:loanUid", h.GetLoan)
	api.PUT("/loans/:loanUid/return", h.ReturnLoan)
	api.DELETE("/loans/:loanUid", h.DeleteLoan)
	api.GET("/report", h.Report)

	api.POST("/books", h.CreateBook)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/books/:id/availability", h.BookAvailability)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)

	api.GET("/persons", h.ListPersons)
	api.POST("/persons", h.CreatePerson)
	api.GET("/persons/:id", h.GetPerson)
	api.PUT("/persons/:id", h.UpdatePerson)
	api.DELETE("/persons/:id", h.DeletePerson)
	api.GET("/persons/:id/loans", h.ListPersonLoans)

	api.GET("/categories", h.ListCategories)
	api.POST("/categories", h.CreateCategory)
	api.DELETE("/categories/:id", h.DeleteCategory)

	api.GET("/recommendations", h.ListRecommendations)
	api.POST("/recommendations", h.CreateRecommendation)
	api.DELETE("/recommendations/:id", h.DeleteRecommendation)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
