package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/fee"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

// StatusReporter builds a patron's view of current loans, fees owed and past borrowing.
type StatusReporter struct {
	log  *zap.Logger
	repo repository.Repository
	opts options
}

func NewStatusReporter(repo repository.Repository, log *zap.Logger, opts ...Option) *StatusReporter {
	return &StatusReporter{
		log:  log.Named("status"),
		repo: repo,
		opts: newOptions(opts),
	}
}

func (r *StatusReporter) GetPatronStatusReport(ctx context.Context, patronID string) (model.PatronStatusReport, error) {
	if err := validatePatronID(patronID); err != nil {
		return model.PatronStatusReport{}, err
	}
	now := r.opts.now()

	open, err := r.repo.ListOpenLoans(ctx, patronID)
	if err != nil {
		return model.PatronStatusReport{}, errs.Storage("looking up borrowed books", err)
	}

	var totalFees float64
	borrowed := make([]model.BorrowedBook, 0, len(open))
	for _, l := range open {
		lateFee := fee.Calculate(l.DueDate, now)
		totalFees += lateFee.FeeAmount
		borrowed = append(borrowed, model.BorrowedBook{
			BookID:      l.BookID,
			Title:       l.Title,
			Author:      l.Author,
			BorrowDate:  model.Date{Time: l.BorrowDate},
			DueDate:     model.Date{Time: l.DueDate},
			IsOverdue:   now.After(l.DueDate),
			DaysOverdue: lateFee.DaysOverdue,
			LateFee:     lateFee.FeeAmount,
		})
	}

	loans, err := r.repo.ListLoanHistory(ctx, patronID)
	if err != nil {
		return model.PatronStatusReport{}, errs.Storage("looking up borrowing history", err)
	}
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].BorrowDate.Before(loans[j].BorrowDate)
	})
	history := make([]model.HistoryRecord, 0, len(loans))
	for _, l := range loans {
		history = append(history, historyRecord(l))
	}

	r.log.Debug("status report",
		zap.String("patronId", patronID),
		zap.Int("open", len(open)),
		zap.Int("history", len(history)))

	return model.PatronStatusReport{
		Success:                 true,
		PatronID:                patronID,
		CurrentlyBorrowed:       borrowed,
		NumBooksBorrowed:        len(open),
		TotalLateFees:           fee.Round(totalFees),
		BorrowingLimitRemaining: max(0, model.BorrowingLimit-len(open)),
		BorrowingHistory:        history,
	}, nil
}

func historyRecord(l model.Loan) model.HistoryRecord {
	rec := model.HistoryRecord{
		BookID:     l.BookID,
		Title:      l.Title,
		Author:     l.Author,
		BorrowDate: model.Date{Time: l.BorrowDate},
		DueDate:    model.Date{Time: l.DueDate},
		Status:     model.HistoryCurrentlyBorrowed,
	}
	if l.ReturnDate == nil {
		return rec
	}
	rec.Status = model.HistoryReturned
	rec.ReturnDate = &model.Date{Time: *l.ReturnDate}
	if l.ReturnDate.After(l.DueDate) {
		rec.WasOverdue = true
		rec.DaysLate = fee.DaysOverdue(l.DueDate, *l.ReturnDate)
	}
	return rec
}
