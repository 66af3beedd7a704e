package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	md "github.com/Astemirdum/lending-service/pkg/middleware"
	"github.com/Astemirdum/lending-service/pkg/validate"
)

type Handler struct {
	lendingSvc LendingService
	statusSvc  StatusService
	log        *zap.Logger
	apiRPS     rate.Limit
}

func New(lendingSvc LendingService, statusSvc StatusService, log *zap.Logger, apiRPS float64) *Handler {
	if apiRPS <= 0 {
		apiRPS = 100
	}
	return &Handler{
		lendingSvc: lendingSvc,
		statusSvc:  statusSvc,
		log:        log.Named("handler"),
		apiRPS:     rate.Limit(apiRPS),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const baseRPS = 10
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(h.apiRPS),
	)

	api.POST("/books", h.AddBook)
	api.GET("/books", h.ListCatalog)
	api.GET("/books/search", h.SearchBooks)

	api.POST("/patrons/:patronId/borrow", h.BorrowBook)
	api.POST("/patrons/:patronId/return", h.ReturnBook)
	api.GET("/patrons/:patronId/books/:bookId/fee", h.CalculateLateFee)
	api.POST("/patrons/:patronId/books/:bookId/pay", h.PayLateFee)
	api.GET("/patrons/:patronId/status", h.PatronStatus)

	api.POST("/refunds", h.RefundLateFee)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) AddBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	book, err := h.lendingSvc.AddBookToCatalog(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) ListCatalog(c echo.Context) error {
	books, err := h.lendingSvc.ListCatalog(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) SearchBooks(c echo.Context) error {
	searchType := model.SearchType(c.QueryParam("type"))
	if searchType == "" {
		searchType = model.SearchByTitle
	}
	books, err := h.lendingSvc.SearchBooks(c.Request().Context(), c.QueryParam("q"), searchType)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

type loanRequest struct {
	BookID int `json:"bookId" validate:"gt=0"`
}

func bindLoan(c echo.Context) (int, error) {
	var req loanRequest
	if err := c.Bind(&req); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(req); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID.")
	}
	return req.BookID, nil
}

func (h *Handler) BorrowBook(c echo.Context) error {
	bookID, err := bindLoan(c)
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.BorrowBook(c.Request().Context(), c.Param("patronId"), bookID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	bookID, err := bindLoan(c)
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.ReturnBook(c.Request().Context(), c.Param("patronId"), bookID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) CalculateLateFee(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.CalculateLateFee(c.Request().Context(), c.Param("patronId"), bookID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) PayLateFee(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.PayLateFee(c.Request().Context(), c.Param("patronId"), bookID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RefundLateFee(c echo.Context) error {
	var req model.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	res, err := h.lendingSvc.RefundLateFee(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) PatronStatus(c echo.Context) error {
	report, err := h.statusSvc.GetPatronStatusReport(c.Request().Context(), c.Param("patronId"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func bookIDParam(c echo.Context) (int, error) {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil || bookID <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID.")
	}
	return bookID, nil
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{errs.ErrValidation, http.StatusBadRequest},
	{errs.ErrDuplicateIsbn, http.StatusConflict},
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrUnavailable, http.StatusConflict},
	{errs.ErrLimitExceeded, http.StatusConflict},
	{errs.ErrNotBorrowed, http.StatusConflict},
	{errs.ErrNoFeeDue, http.StatusConflict},
	{errs.ErrPaymentDeclined, http.StatusPaymentRequired},
	{errs.ErrPaymentProcessing, http.StatusBadGateway},
	{errs.ErrRefundFailed, http.StatusBadGateway},
	{errs.ErrStorage, http.StatusInternalServerError},
}

func (h *Handler) httpError(err error) error {
	kind := err
	var e *errs.Error
	if errors.As(err, &e) {
		kind = e.Kind
	}
	for _, s := range statusByKind {
		if errors.Is(kind, s.kind) {
			if s.status >= http.StatusInternalServerError {
				h.log.Error("request failed", zap.Error(err))
			}
			return echo.NewHTTPError(s.status, err.Error())
		}
	}
	h.log.Error("unclassified error", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
