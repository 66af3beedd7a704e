package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/events"
	"github.com/Astemirdum/lending-service/lending/internal/fee"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/payment"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

type options struct {
	now              func() time.Time
	legacyLimitCheck bool
}

type Option func(*options)

// WithClock sets the source of "now" for due dates and fees.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLegacyLimitCheck restores the historical check that rejects a borrow
// only when the patron already has more than model.BorrowingLimit open loans.
func WithLegacyLimitCheck(enabled bool) Option {
	return func(o *options) { o.legacyLimitCheck = enabled }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	gateway   payment.Gateway
	publisher events.Publisher
	opts      options
}

func NewService(repo repository.Repository, gateway payment.Gateway, publisher events.Publisher, log *zap.Logger, opts ...Option) *Service {
	return &Service{
		log:       log.Named("service"),
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		opts:      newOptions(opts),
	}
}

func (s *Service) AddBookToCatalog(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	in := newBookInput(req)
	if err := validateStruct(in); err != nil {
		return model.Book{}, err
	}

	_, err := s.repo.FindBookByISBN(ctx, in.ISBN)
	switch {
	case err == nil:
		return model.Book{}, errs.New(errs.ErrDuplicateIsbn, "A book with this ISBN already exists.")
	case !errors.Is(err, errs.ErrNotFound):
		return model.Book{}, errs.Storage("checking the ISBN", err)
	}

	book, err := s.repo.InsertBook(ctx, model.Book{
		Title:           in.Title,
		Author:          in.Author,
		ISBN:            in.ISBN,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
	})
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateIsbn) {
			return model.Book{}, errs.New(errs.ErrDuplicateIsbn, "A book with this ISBN already exists.")
		}
		return model.Book{}, errs.Storage("adding the book", err)
	}
	s.log.Info("book added", zap.Int("bookId", book.ID), zap.String("isbn", book.ISBN))
	return book, nil
}

func (s *Service) BorrowBook(ctx context.Context, patronID string, bookID int) (model.BorrowResult, error) {
	if err := validatePatronID(patronID); err != nil {
		return model.BorrowResult{}, err
	}
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return model.BorrowResult{}, err
	}
	if book.AvailableCopies <= 0 {
		return model.BorrowResult{}, errs.New(errs.ErrUnavailable, "This book is currently not available.")
	}

	count, err := s.repo.CountOpenLoans(ctx, patronID)
	if err != nil {
		return model.BorrowResult{}, errs.Storage("counting borrowed books", err)
	}
	if s.limitReached(count) {
		return model.BorrowResult{}, errs.New(errs.ErrLimitExceeded,
			fmt.Sprintf("You have reached the maximum borrowing limit of %d books.", model.BorrowingLimit))
	}

	borrowDate := s.opts.now()
	dueDate := borrowDate.Add(model.LoanPeriod)
	err = s.repo.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertBorrowRecord(ctx, patronID, bookID, borrowDate, dueDate); err != nil {
			return errs.Storage("creating borrow record", err)
		}
		if err := s.repo.AdjustAvailability(ctx, bookID, -1); err != nil {
			if errors.Is(err, errs.ErrUnavailable) {
				return errs.New(errs.ErrUnavailable, "This book is currently not available.")
			}
			return errs.Storage("updating book availability", err)
		}
		return nil
	})
	if err != nil {
		return model.BorrowResult{}, asKind(err, "saving the borrow")
	}

	s.publish(ctx, model.LendingEvent{
		Type:      model.EventBookBorrowed,
		PatronID:  patronID,
		BookID:    bookID,
		Timestamp: borrowDate,
	})
	return model.BorrowResult{
		BookID:     bookID,
		Title:      book.Title,
		PatronID:   patronID,
		BorrowDate: borrowDate,
		DueDate:    model.Date{Time: dueDate},
		Message:    fmt.Sprintf("Successfully borrowed \"%s\". Due date: %s.", book.Title, dueDate.Format(time.DateOnly)),
	}, nil
}

func (s *Service) ReturnBook(ctx context.Context, patronID string, bookID int) (model.ReturnResult, error) {
	if err := validatePatronID(patronID); err != nil {
		return model.ReturnResult{}, err
	}
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return model.ReturnResult{}, err
	}
	loan, err := s.openLoan(ctx, patronID, bookID)
	if err != nil {
		return model.ReturnResult{}, err
	}

	returnDate := s.opts.now()
	err = s.repo.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CloseBorrowRecord(ctx, patronID, bookID, returnDate); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errNotBorrowed()
			}
			return errs.Storage("recording the return", err)
		}
		if err := s.repo.AdjustAvailability(ctx, bookID, 1); err != nil {
			return errs.Storage("updating book availability", err)
		}
		return nil
	})
	if err != nil {
		return model.ReturnResult{}, asKind(err, "saving the return")
	}

	lateFee := fee.Calculate(loan.DueDate, returnDate)
	msg := fmt.Sprintf("Successfully returned \"%s\".", book.Title)
	if lateFee.DaysOverdue > 0 {
		msg += fmt.Sprintf(" Book is overdue by %d days, late fee is $%.2f.", lateFee.DaysOverdue, lateFee.FeeAmount)
	}

	s.publish(ctx, model.LendingEvent{
		Type:      model.EventBookReturned,
		PatronID:  patronID,
		BookID:    bookID,
		Amount:    lateFee.FeeAmount,
		Timestamp: returnDate,
	})
	return model.ReturnResult{
		BookID:     bookID,
		Title:      book.Title,
		PatronID:   patronID,
		ReturnDate: returnDate,
		Fee:        lateFee,
		Message:    msg,
	}, nil
}

// CalculateLateFee reports the fee accrued so far on the patron's open loan of the book.
// A book the patron does not hold yields a zero fee.
func (s *Service) CalculateLateFee(ctx context.Context, patronID string, bookID int) (model.FeeResult, error) {
	if err := validatePatronID(patronID); err != nil {
		return model.FeeResult{}, err
	}
	if _, err := s.findBook(ctx, bookID); err != nil {
		return model.FeeResult{}, err
	}
	loan, err := s.openLoan(ctx, patronID, bookID)
	if err != nil {
		if errors.Is(err, errs.ErrNotBorrowed) {
			return model.FeeResult{Status: err.Error()}, nil
		}
		return model.FeeResult{}, err
	}
	return fee.Calculate(loan.DueDate, s.opts.now()), nil
}

func (s *Service) PayLateFee(ctx context.Context, patronID string, bookID int) (model.PaymentResult, error) {
	if err := validatePatronID(patronID); err != nil {
		return model.PaymentResult{}, err
	}

	var amount float64
	loan, err := s.openLoan(ctx, patronID, bookID)
	switch {
	case err == nil:
		amount = fee.Calculate(loan.DueDate, s.opts.now()).FeeAmount
	case !errors.Is(err, errs.ErrNotBorrowed):
		return model.PaymentResult{}, err
	}
	if amount <= 0 {
		return model.PaymentResult{}, errs.New(errs.ErrNoFeeDue, "No late fees to pay for this book.")
	}

	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return model.PaymentResult{}, err
	}

	charge, err := s.gateway.ProcessPayment(ctx, patronID, amount, fmt.Sprintf("Late fees for '%s'", book.Title))
	if err != nil {
		s.log.Error("ProcessPayment", zap.String("patronId", patronID), zap.Int("bookId", bookID), zap.Error(err))
		return model.PaymentResult{}, errs.Wrap(errs.ErrPaymentProcessing, "Payment processing error: "+err.Error(), err)
	}
	if !charge.Success {
		return model.PaymentResult{}, errs.New(errs.ErrPaymentDeclined, "Payment failed: "+charge.Message)
	}

	s.publish(ctx, model.LendingEvent{
		Type:          model.EventFeePaid,
		PatronID:      patronID,
		BookID:        bookID,
		Amount:        amount,
		TransactionID: charge.TransactionID,
		Timestamp:     s.opts.now(),
	})
	return model.PaymentResult{
		TransactionID: charge.TransactionID,
		Amount:        amount,
		Message:       "Payment successful! " + charge.Message,
	}, nil
}

func (s *Service) RefundLateFee(ctx context.Context, req model.RefundRequest) (model.RefundResult, error) {
	if err := validateStruct(refundInput{TransactionID: req.TransactionID, Amount: req.Amount}); err != nil {
		return model.RefundResult{}, err
	}

	refund, err := s.gateway.RefundPayment(ctx, req.TransactionID, req.Amount)
	if err != nil {
		s.log.Error("RefundPayment", zap.String("transactionId", req.TransactionID), zap.Error(err))
		return model.RefundResult{}, errs.Wrap(errs.ErrRefundFailed, "Refund processing error: "+err.Error(), err)
	}
	if !refund.Success {
		return model.RefundResult{}, errs.New(errs.ErrRefundFailed, "Refund failed: "+refund.Message)
	}

	s.publish(ctx, model.LendingEvent{
		Type:          model.EventFeeRefunded,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		Timestamp:     s.opts.now(),
	})
	return model.RefundResult{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Message:       refund.Message,
	}, nil
}

func (s *Service) ListCatalog(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.ListAllBooks(ctx)
	if err != nil {
		return nil, errs.Storage("listing the catalog", err)
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// SearchBooks matches title and author case-insensitively by substring and isbn exactly.
func (s *Service) SearchBooks(ctx context.Context, term string, searchType model.SearchType) ([]model.Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.Validation("Search term is required.")
	}
	var match func(model.Book) bool
	needle := strings.ToLower(term)
	switch searchType {
	case model.SearchByTitle:
		match = func(b model.Book) bool { return strings.Contains(strings.ToLower(b.Title), needle) }
	case model.SearchByAuthor:
		match = func(b model.Book) bool { return strings.Contains(strings.ToLower(b.Author), needle) }
	case model.SearchByISBN:
		match = func(b model.Book) bool { return b.ISBN == term }
	default:
		return nil, errs.Validation("Search type must be one of title, author, isbn.")
	}

	books, err := s.repo.ListAllBooks(ctx)
	if err != nil {
		return nil, errs.Storage("searching the catalog", err)
	}
	found := make([]model.Book, 0)
	for _, b := range books {
		if match(b) {
			found = append(found, b)
		}
	}
	return found, nil
}

func (s *Service) limitReached(openLoans int) bool {
	if s.opts.legacyLimitCheck {
		return openLoans > model.BorrowingLimit
	}
	return openLoans >= model.BorrowingLimit
}

func (s *Service) findBook(ctx context.Context, bookID int) (model.Book, error) {
	book, err := s.repo.FindBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Book{}, errs.NotFound("Book not found.")
		}
		return model.Book{}, errs.Storage("looking up the book", err)
	}
	return book, nil
}

// openLoan returns the oldest open loan of the book by the patron.
func (s *Service) openLoan(ctx context.Context, patronID string, bookID int) (model.Loan, error) {
	loans, err := s.repo.ListOpenLoans(ctx, patronID)
	if err != nil {
		return model.Loan{}, errs.Storage("looking up borrowed books", err)
	}
	for _, l := range loans {
		if l.BookID == bookID {
			return l, nil
		}
	}
	return model.Loan{}, errNotBorrowed()
}

func (s *Service) publish(ctx context.Context, event model.LendingEvent) {
	event.ID = uuid.NewString()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func errNotBorrowed() error {
	return errs.New(errs.ErrNotBorrowed, "Book has not been borrowed by this patron.")
}

// asKind keeps classified errors as they are and reports anything else,
// such as a failed commit, as a storage error.
func asKind(err error, op string) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	return errs.Storage(op, err)
}
