package handler

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	AddBookToCatalog(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListCatalog(ctx context.Context) ([]model.Book, error)
	SearchBooks(ctx context.Context, term string, searchType model.SearchType) ([]model.Book, error)
	BorrowBook(ctx context.Context, patronID string, bookID int) (model.BorrowResult, error)
	ReturnBook(ctx context.Context, patronID string, bookID int) (model.ReturnResult, error)
	CalculateLateFee(ctx context.Context, patronID string, bookID int) (model.FeeResult, error)
	PayLateFee(ctx context.Context, patronID string, bookID int) (model.PaymentResult, error)
	RefundLateFee(ctx context.Context, req model.RefundRequest) (model.RefundResult, error)
}

type StatusService interface {
	GetPatronStatusReport(ctx context.Context, patronID string) (model.PatronStatusReport, error)
}

var (
	_ LendingService = (*service.Service)(nil)
	_ StatusService  = (*service.StatusReporter)(nil)
)
