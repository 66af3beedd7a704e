package model

import (
	"encoding/json"
	"time"
)

const (
	LoanPeriod     = 14 * 24 * time.Hour
	BorrowingLimit = 5
	MaxLateFee     = 15.0
)

type Book struct {
	ID              int    `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	ISBN            string `json:"isbn" db:"isbn"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"totalCopies"`
}

type BorrowRecord struct {
	ID         int        `json:"id" db:"id"`
	PatronID   string     `json:"patronId" db:"patron_id"`
	BookID     int        `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
}

// Loan is a borrow record joined with the borrowed book.
type Loan struct {
	BorrowRecord
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
}

func (l Loan) IsOpen() bool {
	return l.ReturnDate == nil
}

type FeeResult struct {
	FeeAmount   float64 `json:"feeAmount"`
	DaysOverdue int     `json:"daysOverdue"`
	Status      string  `json:"status"`
}

type BorrowResult struct {
	BookID     int       `json:"bookId"`
	Title      string    `json:"title"`
	PatronID   string    `json:"patronId"`
	BorrowDate time.Time `json:"borrowDate"`
	DueDate    Date      `json:"dueDate"`
	Message    string    `json:"message"`
}

type ReturnResult struct {
	BookID     int       `json:"bookId"`
	Title      string    `json:"title"`
	PatronID   string    `json:"patronId"`
	ReturnDate time.Time `json:"returnDate"`
	Fee        FeeResult `json:"fee"`
	Message    string    `json:"message"`
}

type PaymentResult struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Message       string  `json:"message"`
}

type RefundRequest struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
}

type RefundResult struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Message       string  `json:"message"`
}

type SearchType string

const (
	SearchByTitle  SearchType = "title"
	SearchByAuthor SearchType = "author"
	SearchByISBN   SearchType = "isbn"
)

type PatronStatusReport struct {
	Success                 bool            `json:"success"`
	PatronID                string          `json:"patronId"`
	CurrentlyBorrowed       []BorrowedBook  `json:"currentlyBorrowed"`
	NumBooksBorrowed        int             `json:"numBooksBorrowed"`
	TotalLateFees           float64         `json:"totalLateFees"`
	BorrowingLimitRemaining int             `json:"borrowingLimitRemaining"`
	BorrowingHistory        []HistoryRecord `json:"borrowingHistory"`
}

type BorrowedBook struct {
	BookID      int     `json:"bookId"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	BorrowDate  Date    `json:"borrowDate"`
	DueDate     Date    `json:"dueDate"`
	IsOverdue   bool    `json:"isOverdue"`
	DaysOverdue int     `json:"daysOverdue"`
	LateFee     float64 `json:"lateFee"`
}

type HistoryStatus string

const (
	HistoryReturned          HistoryStatus = "Returned"
	HistoryCurrentlyBorrowed HistoryStatus = "Currently Borrowed"
)

type HistoryRecord struct {
	BookID     int           `json:"bookId"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	BorrowDate Date          `json:"borrowDate"`
	DueDate    Date          `json:"dueDate"`
	ReturnDate *Date         `json:"returnDate"`
	Status     HistoryStatus `json:"status"`
	WasOverdue bool          `json:"wasOverdue"`
	DaysLate   int           `json:"daysLate"`
}

// Date is serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type EventType string

const (
	EventBookBorrowed EventType = "BOOK_BORROWED"
	EventBookReturned EventType = "BOOK_RETURNED"
	EventFeePaid      EventType = "FEE_PAID"
	EventFeeRefunded  EventType = "FEE_REFUNDED"
)

type LendingEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	PatronID      string    `json:"patronId,omitempty"`
	BookID        int       `json:"bookId,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
