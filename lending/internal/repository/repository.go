package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	FindBookByID(ctx context.Context, id int) (model.Book, error)
	FindBookByISBN(ctx context.Context, isbn string) (model.Book, error)
	InsertBook(ctx context.Context, book model.Book) (model.Book, error)
	AdjustAvailability(ctx context.Context, bookID, delta int) error
	InsertBorrowRecord(ctx context.Context, patronID string, bookID int, borrowDate, dueDate time.Time) error
	CloseBorrowRecord(ctx context.Context, patronID string, bookID int, returnDate time.Time) error
	CountOpenLoans(ctx context.Context, patronID string) (int, error)
	ListOpenLoans(ctx context.Context, patronID string) ([]model.Loan, error)
	ListLoanHistory(ctx context.Context, patronID string) ([]model.Loan, error)
	ListAllBooks(ctx context.Context) ([]model.Book, error)
	// InTx runs fn in a transaction; repository calls made with the ctx passed to fn join it.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName         = `books`
	borrowRecordsTableName = `borrow_records`
)

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	bookColumns = []string{"id", "title", "author", "isbn", "total_copies", "available_copies"}
	loanColumns = []string{"br.id", "br.patron_id", "br.book_id", "br.borrow_date", "br.due_date", "br.return_date", "b.title", "b.author"}
)

func (r *repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

func (r *repository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (r *repository) FindBookByID(ctx context.Context, id int) (model.Book, error) {
	return r.findBook(ctx, sq.Eq{"id": id})
}

func (r *repository) FindBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	return r.findBook(ctx, sq.Eq{"isbn": isbn})
}

func (r *repository) findBook(ctx context.Context, where sq.Eq) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		r.log.Error("findBook", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) InsertBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "total_copies", "available_copies").
		Values(book.Title, book.Author, book.ISBN, book.TotalCopies, book.AvailableCopies).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&book.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Book{}, errs.ErrDuplicateIsbn
		}
		r.log.Error("InsertBook", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

// AdjustAvailability moves available_copies by delta in a single guarded update,
// so concurrent borrows of the last copy cannot both succeed.
func (r *repository) AdjustAvailability(ctx context.Context, bookID, delta int) error {
	q := `
update books
    set available_copies = available_copies + @delta
where id = @book_id
  and available_copies + @delta between 0 and total_copies`
	args := pgx.NamedArgs{
		"book_id": bookID,
		"delta":   delta,
	}
	tag, err := r.conn(ctx).Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrUnavailable
	}
	return nil
}

func (r *repository) InsertBorrowRecord(ctx context.Context, patronID string, bookID int, borrowDate, dueDate time.Time) error {
	query, args, err := qb.Insert(borrowRecordsTableName).
		Columns("patron_id", "book_id", "borrow_date", "due_date").
		Values(patronID, bookID, borrowDate, dueDate).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, query, args...)
	return err
}

// CloseBorrowRecord stamps the oldest open record of the patron for the book.
func (r *repository) CloseBorrowRecord(ctx context.Context, patronID string, bookID int, returnDate time.Time) error {
	q := `
update borrow_records
    set return_date = @return_date
where id = (select id
            from borrow_records
            where patron_id = @patron_id and book_id = @book_id and return_date is null
            order by borrow_date
            limit 1)`
	args := pgx.NamedArgs{
		"patron_id":   patronID,
		"book_id":     bookID,
		"return_date": returnDate,
	}
	tag, err := r.conn(ctx).Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) CountOpenLoans(ctx context.Context, patronID string) (int, error) {
	query, args, err := qb.Select("count(*)").
		From(borrowRecordsTableName).
		Where(sq.Eq{"patron_id": patronID, "return_date": nil}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListOpenLoans(ctx context.Context, patronID string) ([]model.Loan, error) {
	return r.listLoans(ctx, sq.Eq{"br.patron_id": patronID, "br.return_date": nil})
}

func (r *repository) ListLoanHistory(ctx context.Context, patronID string) ([]model.Loan, error) {
	return r.listLoans(ctx, sq.Eq{"br.patron_id": patronID})
}

func (r *repository) listLoans(ctx context.Context, where sq.Eq) ([]model.Loan, error) {
	query, args, err := qb.Select(loanColumns...).
		From(borrowRecordsTableName + " br").
		Join(booksTableName + " b on b.id = br.book_id").
		Where(where).
		OrderBy("br.borrow_date", "br.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("listLoans", zap.String("query", query), zap.Any("args", args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans, err := pgx.CollectRows(rows, scanLoan)
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return loans, nil
}

func scanLoan(row pgx.CollectableRow) (model.Loan, error) {
	var l model.Loan
	err := row.Scan(&l.ID, &l.PatronID, &l.BookID, &l.BorrowDate, &l.DueDate, &l.ReturnDate, &l.Title, &l.Author)
	return l, err
}

func (r *repository) ListAllBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return books, nil
}
