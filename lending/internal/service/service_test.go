package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	mock_events "github.com/Astemirdum/lending-service/lending/internal/events/mocks"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/payment"
	mock_payment "github.com/Astemirdum/lending-service/lending/internal/payment/mocks"
	mock_repository "github.com/Astemirdum/lending-service/lending/internal/repository/mocks"
	"github.com/Astemirdum/lending-service/lending/internal/service"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type deps struct {
	repo    *mock_repository.MockRepository
	gateway *mock_payment.MockGateway
	pub     *mock_events.MockPublisher
}

func newService(t *testing.T, opts ...service.Option) (*service.Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:    mock_repository.NewMockRepository(c),
		gateway: mock_payment.NewMockGateway(c),
		pub:     mock_events.NewMockPublisher(c),
	}
	opts = append([]service.Option{service.WithClock(func() time.Time { return now })}, opts...)
	return service.NewService(d.repo, d.gateway, d.pub, zap.NewExample().Named("test"), opts...), d
}

func expectTx(r *mock_repository.MockRepository) {
	r.EXPECT().InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func expectPublish(p *mock_events.MockPublisher, typ model.EventType) {
	p.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e model.LendingEvent) error {
			if e.Type != typ {
				return errors.Errorf("unexpected event %s", e.Type)
			}
			return nil
		})
}

func openLoan(bookID int, borrowed time.Time) model.Loan {
	return model.Loan{
		BorrowRecord: model.BorrowRecord{
			ID:         1,
			PatronID:   "123456",
			BookID:     bookID,
			BorrowDate: borrowed,
			DueDate:    borrowed.Add(model.LoanPeriod),
		},
		Title:  "Dune",
		Author: "Frank Herbert",
	}
}

func TestService_AddBookToCatalog(t *testing.T) {
	t.Parallel()
	valid := model.CreateBookRequest{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", TotalCopies: 1}

	type mockBehavior func(d deps)
	tests := []struct {
		name         string
		req          model.CreateBookRequest
		mockBehavior mockBehavior
		wantKind     error
		wantMsg      string
	}{
		{
			name: "ok",
			req:  model.CreateBookRequest{Title: "  1984 ", Author: " George Orwell", ISBN: "9780451524935", TotalCopies: 3},
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByISBN(gomock.Any(), "9780451524935").Return(model.Book{}, errs.ErrNotFound)
				d.repo.EXPECT().InsertBook(gomock.Any(), model.Book{
					Title: "1984", Author: "George Orwell", ISBN: "9780451524935", TotalCopies: 3, AvailableCopies: 3,
				}).Return(model.Book{ID: 1, Title: "1984", Author: "George Orwell", ISBN: "9780451524935", TotalCopies: 3, AvailableCopies: 3}, nil)
			},
		},
		{
			name:         "err. title required",
			req:          model.CreateBookRequest{Title: "   ", Author: "", ISBN: "1", TotalCopies: 0},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Title is required.",
		},
		{
			name:         "err. title too long",
			req:          model.CreateBookRequest{Title: strings.Repeat("a", 201), Author: "A", ISBN: "9780451524935", TotalCopies: 1},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Title must be less than 200 characters.",
		},
		{
			name:         "err. author required",
			req:          model.CreateBookRequest{Title: "T", Author: " ", ISBN: "9780451524935", TotalCopies: 1},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Author is required.",
		},
		{
			name:         "err. author too long",
			req:          model.CreateBookRequest{Title: "T", Author: strings.Repeat("b", 101), ISBN: "9780451524935", TotalCopies: 1},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Author must be less than 100 characters.",
		},
		{
			name:         "err. isbn length",
			req:          model.CreateBookRequest{Title: "T", Author: "A", ISBN: "978045152493", TotalCopies: 1},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "ISBN must be exactly 13 digits.",
		},
		{
			name:         "err. isbn digits",
			req:          model.CreateBookRequest{Title: "T", Author: "A", ISBN: "978045152493X", TotalCopies: 1},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "ISBN must contain only digits.",
		},
		{
			name:         "err. copies",
			req:          model.CreateBookRequest{Title: "T", Author: "A", ISBN: "9780451524935", TotalCopies: -1},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Total copies must be a positive integer.",
		},
		{
			name: "err. duplicate isbn",
			req:  valid,
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByISBN(gomock.Any(), valid.ISBN).Return(model.Book{ID: 1}, nil)
			},
			wantKind: errs.ErrDuplicateIsbn,
			wantMsg:  "A book with this ISBN already exists.",
		},
		{
			name: "err. duplicate isbn on insert",
			req:  valid,
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByISBN(gomock.Any(), valid.ISBN).Return(model.Book{}, errs.ErrNotFound)
				d.repo.EXPECT().InsertBook(gomock.Any(), gomock.Any()).Return(model.Book{}, errs.ErrDuplicateIsbn)
			},
			wantKind: errs.ErrDuplicateIsbn,
		},
		{
			name: "err. storage",
			req:  valid,
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByISBN(gomock.Any(), valid.ISBN).Return(model.Book{}, errs.ErrNotFound)
				d.repo.EXPECT().InsertBook(gomock.Any(), gomock.Any()).Return(model.Book{}, errors.New("db internal"))
			},
			wantKind: errs.ErrStorage,
			wantMsg:  "Database error occurred while adding the book.",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.mockBehavior(d)

			book, err := svc.AddBookToCatalog(context.Background(), tt.req)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				if tt.wantMsg != "" {
					require.EqualError(t, err, tt.wantMsg)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, 1, book.ID)
			require.Equal(t, book.TotalCopies, book.AvailableCopies)
		})
	}
}

func TestService_BorrowBook(t *testing.T) {
	t.Parallel()
	book := model.Book{ID: 7, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 2, AvailableCopies: 2}
	due := now.Add(model.LoanPeriod)

	type mockBehavior func(d deps)
	tests := []struct {
		name         string
		patronID     string
		opts         []service.Option
		mockBehavior mockBehavior
		wantKind     error
		wantMsg      string
	}{
		{
			name:     "ok",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(4, nil)
				expectTx(d.repo)
				d.repo.EXPECT().InsertBorrowRecord(gomock.Any(), "123456", 7, now, due).Return(nil)
				d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, -1).Return(nil)
				expectPublish(d.pub, model.EventBookBorrowed)
			},
			wantMsg: `Successfully borrowed "Dune". Due date: 2024-03-29.`,
		},
		{
			name:         "err. invalid patron",
			patronID:     "12345a",
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Invalid patron ID. Must be exactly 6 digits.",
		},
		{
			name:         "err. empty patron",
			patronID:     "",
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
		},
		{
			name:     "err. book not found",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(model.Book{}, errs.ErrNotFound)
			},
			wantKind: errs.ErrNotFound,
			wantMsg:  "Book not found.",
		},
		{
			name:     "err. unavailable",
			patronID: "123456",
			mockBehavior: func(d deps) {
				b := book
				b.AvailableCopies = 0
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(b, nil)
			},
			wantKind: errs.ErrUnavailable,
			wantMsg:  "This book is currently not available.",
		},
		{
			name:     "err. limit of five",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(5, nil)
			},
			wantKind: errs.ErrLimitExceeded,
			wantMsg:  "You have reached the maximum borrowing limit of 5 books.",
		},
		{
			name:     "legacy check admits a sixth loan",
			patronID: "123456",
			opts:     []service.Option{service.WithLegacyLimitCheck(true)},
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(5, nil)
				expectTx(d.repo)
				d.repo.EXPECT().InsertBorrowRecord(gomock.Any(), "123456", 7, now, due).Return(nil)
				d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, -1).Return(nil)
				expectPublish(d.pub, model.EventBookBorrowed)
			},
		},
		{
			name:     "err. legacy check rejects a seventh loan",
			patronID: "123456",
			opts:     []service.Option{service.WithLegacyLimitCheck(true)},
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(6, nil)
			},
			wantKind: errs.ErrLimitExceeded,
		},
		{
			name:     "err. insert record",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(0, nil)
				expectTx(d.repo)
				d.repo.EXPECT().InsertBorrowRecord(gomock.Any(), "123456", 7, now, due).Return(errors.New("db internal"))
			},
			wantKind: errs.ErrStorage,
			wantMsg:  "Database error occurred while creating borrow record.",
		},
		{
			name:     "err. last copy taken concurrently",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(0, nil)
				expectTx(d.repo)
				d.repo.EXPECT().InsertBorrowRecord(gomock.Any(), "123456", 7, now, due).Return(nil)
				d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, -1).Return(errs.ErrUnavailable)
			},
			wantKind: errs.ErrUnavailable,
		},
		{
			name:     "err. commit",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
				d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(0, nil)
				d.repo.EXPECT().InTx(gomock.Any(), gomock.Any()).Return(errors.New("commit failed"))
			},
			wantKind: errs.ErrStorage,
			wantMsg:  "Database error occurred while saving the borrow.",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t, tt.opts...)
			tt.mockBehavior(d)

			res, err := svc.BorrowBook(context.Background(), tt.patronID, 7)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				if tt.wantMsg != "" {
					require.EqualError(t, err, tt.wantMsg)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, due, res.DueDate.Time)
			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, res.Message)
			}
		})
	}
}

func TestService_ReturnBook(t *testing.T) {
	t.Parallel()
	book := model.Book{ID: 7, Title: "Dune", Author: "Frank Herbert", TotalCopies: 2, AvailableCopies: 1}

	t.Run("ok. on time", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
		d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{openLoan(7, now)}, nil)
		expectTx(d.repo)
		d.repo.EXPECT().CloseBorrowRecord(gomock.Any(), "123456", 7, now).Return(nil)
		d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, 1).Return(nil)
		expectPublish(d.pub, model.EventBookReturned)

		res, err := svc.ReturnBook(context.Background(), "123456", 7)
		require.NoError(t, err)
		require.Zero(t, res.Fee.DaysOverdue)
		require.Zero(t, res.Fee.FeeAmount)
		require.Equal(t, `Successfully returned "Dune".`, res.Message)
	})

	t.Run("ok. overdue", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		borrowed := now.AddDate(0, 0, -28)
		d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
		d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").
			Return([]model.Loan{openLoan(3, now), openLoan(7, borrowed)}, nil)
		expectTx(d.repo)
		d.repo.EXPECT().CloseBorrowRecord(gomock.Any(), "123456", 7, now).Return(nil)
		d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, 1).Return(nil)
		expectPublish(d.pub, model.EventBookReturned)

		res, err := svc.ReturnBook(context.Background(), "123456", 7)
		require.NoError(t, err)
		require.Equal(t, 14, res.Fee.DaysOverdue)
		require.Equal(t, 10.5, res.Fee.FeeAmount)
		require.Equal(t, `Successfully returned "Dune". Book is overdue by 14 days, late fee is $10.50.`, res.Message)
	})

	t.Run("err. not borrowed", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
		d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{openLoan(3, now)}, nil)

		_, err := svc.ReturnBook(context.Background(), "123456", 7)
		require.ErrorIs(t, err, errs.ErrNotBorrowed)
		require.EqualError(t, err, "Book has not been borrowed by this patron.")
	})

	t.Run("err. book not found", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(model.Book{}, errs.ErrNotFound)

		_, err := svc.ReturnBook(context.Background(), "123456", 7)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("err. invalid patron", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)
		_, err := svc.ReturnBook(context.Background(), "1234567", 7)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("err. availability update", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(book, nil)
		d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{openLoan(7, now)}, nil)
		expectTx(d.repo)
		d.repo.EXPECT().CloseBorrowRecord(gomock.Any(), "123456", 7, now).Return(nil)
		d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, 1).Return(errors.New("db internal"))

		_, err := svc.ReturnBook(context.Background(), "123456", 7)
		require.ErrorIs(t, err, errs.ErrStorage)
		require.EqualError(t, err, "Database error occurred while updating book availability.")
	})
}

func TestService_CalculateLateFee(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(model.Book{ID: 7}, nil)
	d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").
		Return([]model.Loan{openLoan(7, now.AddDate(0, 0, -21))}, nil)

	res, err := svc.CalculateLateFee(context.Background(), "123456", 7)
	require.NoError(t, err)
	require.Equal(t, 7, res.DaysOverdue)
	require.Equal(t, 3.5, res.FeeAmount)
}

func TestService_CalculateLateFee_NotBorrowed(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(model.Book{ID: 7}, nil)
	d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return(nil, nil)

	res, err := svc.CalculateLateFee(context.Background(), "123456", 7)
	require.NoError(t, err)
	require.Zero(t, res.FeeAmount)
	require.Zero(t, res.DaysOverdue)
	require.Equal(t, "Book has not been borrowed by this patron.", res.Status)
}

func TestService_PayLateFee(t *testing.T) {
	t.Parallel()
	overdue := openLoan(1, now.AddDate(0, 0, -28))
	testBook := model.Book{ID: 1, Title: "Test Book", Author: "Test Author"}

	type mockBehavior func(d deps)
	tests := []struct {
		name         string
		patronID     string
		mockBehavior mockBehavior
		wantKind     error
		wantMsg      string
		wantTxn      string
	}{
		{
			name:     "ok",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{overdue}, nil)
				d.repo.EXPECT().FindBookByID(gomock.Any(), 1).Return(testBook, nil)
				d.gateway.EXPECT().ProcessPayment(gomock.Any(), "123456", 10.5, "Late fees for 'Test Book'").
					Return(payment.Charge{Success: true, TransactionID: "txn_123456", Message: "Payment processed successfully"}, nil)
				expectPublish(d.pub, model.EventFeePaid)
			},
			wantMsg: "Payment successful! Payment processed successfully",
			wantTxn: "txn_123456",
		},
		{
			name:     "err. declined",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{overdue}, nil)
				d.repo.EXPECT().FindBookByID(gomock.Any(), 1).Return(testBook, nil)
				d.gateway.EXPECT().ProcessPayment(gomock.Any(), "123456", 10.5, gomock.Any()).
					Return(payment.Charge{Message: "Insufficient funds"}, nil)
			},
			wantKind: errs.ErrPaymentDeclined,
			wantMsg:  "Payment failed: Insufficient funds",
		},
		{
			name:     "err. gateway fault",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{overdue}, nil)
				d.repo.EXPECT().FindBookByID(gomock.Any(), 1).Return(testBook, nil)
				d.gateway.EXPECT().ProcessPayment(gomock.Any(), "123456", 10.5, gomock.Any()).
					Return(payment.Charge{}, errors.New("Network timeout error"))
			},
			wantKind: errs.ErrPaymentProcessing,
			wantMsg:  "Payment processing error: Network timeout error",
		},
		{
			name:     "err. no fee when not overdue",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{openLoan(1, now)}, nil)
			},
			wantKind: errs.ErrNoFeeDue,
			wantMsg:  "No late fees to pay for this book.",
		},
		{
			name:     "err. no fee when not borrowed",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return(nil, nil)
			},
			wantKind: errs.ErrNoFeeDue,
		},
		{
			name:     "err. book not found",
			patronID: "123456",
			mockBehavior: func(d deps) {
				d.repo.EXPECT().ListOpenLoans(gomock.Any(), "123456").Return([]model.Loan{overdue}, nil)
				d.repo.EXPECT().FindBookByID(gomock.Any(), 1).Return(model.Book{}, errs.ErrNotFound)
			},
			wantKind: errs.ErrNotFound,
			wantMsg:  "Book not found.",
		},
		{
			name:         "err. invalid patron",
			patronID:     "12345",
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.mockBehavior(d)

			res, err := svc.PayLateFee(context.Background(), tt.patronID, 1)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				if tt.wantMsg != "" {
					require.EqualError(t, err, tt.wantMsg)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantTxn, res.TransactionID)
			require.Equal(t, tt.wantMsg, res.Message)
			require.Equal(t, 10.5, res.Amount)
		})
	}
}

func TestService_RefundLateFee(t *testing.T) {
	t.Parallel()

	type mockBehavior func(d deps)
	tests := []struct {
		name         string
		req          model.RefundRequest
		mockBehavior mockBehavior
		wantKind     error
		wantMsg      string
	}{
		{
			name: "ok",
			req:  model.RefundRequest{TransactionID: "txn_123456", Amount: 10.5},
			mockBehavior: func(d deps) {
				d.gateway.EXPECT().RefundPayment(gomock.Any(), "txn_123456", 10.5).
					Return(payment.Refund{Success: true, Message: "Refund of $10.50 processed successfully"}, nil)
				expectPublish(d.pub, model.EventFeeRefunded)
			},
			wantMsg: "Refund of $10.50 processed successfully",
		},
		{
			name: "ok. maximum fee",
			req:  model.RefundRequest{TransactionID: "txn_1", Amount: 15},
			mockBehavior: func(d deps) {
				d.gateway.EXPECT().RefundPayment(gomock.Any(), "txn_1", 15.0).
					Return(payment.Refund{Success: true, Message: "ok"}, nil)
				expectPublish(d.pub, model.EventFeeRefunded)
			},
			wantMsg: "ok",
		},
		{
			name:         "err. invalid transaction id",
			req:          model.RefundRequest{TransactionID: "invalid_id", Amount: 10.5},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Invalid transaction ID.",
		},
		{
			name:         "err. empty transaction id",
			req:          model.RefundRequest{TransactionID: "", Amount: 10},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Invalid transaction ID.",
		},
		{
			name:         "err. zero amount",
			req:          model.RefundRequest{TransactionID: "txn_123456", Amount: 0},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Refund amount must be greater than 0.",
		},
		{
			name:         "err. negative amount",
			req:          model.RefundRequest{TransactionID: "txn_123456", Amount: -5},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Refund amount must be greater than 0.",
		},
		{
			name:         "err. above maximum fee",
			req:          model.RefundRequest{TransactionID: "txn_123456", Amount: 20},
			mockBehavior: func(d deps) {},
			wantKind:     errs.ErrValidation,
			wantMsg:      "Refund amount exceeds maximum late fee.",
		},
		{
			name: "err. declined",
			req:  model.RefundRequest{TransactionID: "txn_123456", Amount: 5},
			mockBehavior: func(d deps) {
				d.gateway.EXPECT().RefundPayment(gomock.Any(), "txn_123456", 5.0).
					Return(payment.Refund{Message: "Transaction not found"}, nil)
			},
			wantKind: errs.ErrRefundFailed,
			wantMsg:  "Refund failed: Transaction not found",
		},
		{
			name: "err. gateway fault",
			req:  model.RefundRequest{TransactionID: "txn_123456", Amount: 5},
			mockBehavior: func(d deps) {
				d.gateway.EXPECT().RefundPayment(gomock.Any(), "txn_123456", 5.0).
					Return(payment.Refund{}, errors.New("connection reset"))
			},
			wantKind: errs.ErrRefundFailed,
			wantMsg:  "Refund processing error: connection reset",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.mockBehavior(d)

			res, err := svc.RefundLateFee(context.Background(), tt.req)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				require.EqualError(t, err, tt.wantMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantMsg, res.Message)
		})
	}
}

func TestService_SearchBooks(t *testing.T) {
	t.Parallel()
	catalog := []model.Book{
		{ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "9780743273565"},
		{ID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "9780061120084"},
		{ID: 3, Title: "1984", Author: "George Orwell", ISBN: "9780451524935"},
	}
	tests := []struct {
		name       string
		term       string
		searchType model.SearchType
		wantIDs    []int
		wantErr    bool
	}{
		{name: "title partial case-insensitive", term: "great", searchType: model.SearchByTitle, wantIDs: []int{1}},
		{name: "author", term: "ORWELL", searchType: model.SearchByAuthor, wantIDs: []int{3}},
		{name: "isbn exact", term: "9780061120084", searchType: model.SearchByISBN, wantIDs: []int{2}},
		{name: "isbn partial does not match", term: "978006", searchType: model.SearchByISBN, wantIDs: []int{}},
		{name: "err. unknown type", term: "x", searchType: "genre", wantErr: true},
		{name: "err. empty term", term: " ", searchType: model.SearchByTitle, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			if !tt.wantErr {
				d.repo.EXPECT().ListAllBooks(gomock.Any()).Return(catalog, nil)
			}
			books, err := svc.SearchBooks(context.Background(), tt.term, tt.searchType)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
			ids := make([]int, 0, len(books))
			for _, b := range books {
				ids = append(ids, b.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestService_ListCatalog(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().ListAllBooks(gomock.Any()).Return(nil, nil)
	books, err := svc.ListCatalog(context.Background())
	require.NoError(t, err)
	require.NotNil(t, books)
	require.Empty(t, books)
}

func TestService_PublishFailureDoesNotFailBorrow(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().FindBookByID(gomock.Any(), 7).Return(model.Book{ID: 7, Title: "Dune", TotalCopies: 1, AvailableCopies: 1}, nil)
	d.repo.EXPECT().CountOpenLoans(gomock.Any(), "123456").Return(0, nil)
	expectTx(d.repo)
	d.repo.EXPECT().InsertBorrowRecord(gomock.Any(), "123456", 7, gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().AdjustAvailability(gomock.Any(), 7, -1).Return(nil)
	d.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

	_, err := svc.BorrowBook(context.Background(), "123456", 7)
	require.NoError(t, err)
}
