package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/payment"
)

const (
	msgInvalidPatronID = "Invalid patron ID. Must be exactly 6 digits."
	patronIDRule       = "len=6,number"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("txnid", func(fl validator.FieldLevel) bool {
		return payment.IsTransactionID(fl.Field().String())
	})
	return v
}

type bookInput struct {
	Title       string `validate:"required,max=200"`
	Author      string `validate:"required,max=100"`
	ISBN        string `validate:"len=13,number"`
	TotalCopies int    `validate:"gt=0"`
}

type refundInput struct {
	TransactionID string  `validate:"required,txnid"`
	Amount        float64 `validate:"gt=0,lte=15"`
}

// messages maps "Field.tag" of the first failed rule to what the caller sees.
var messages = map[string]string{
	"Title.required":         "Title is required.",
	"Title.max":              "Title must be less than 200 characters.",
	"Author.required":        "Author is required.",
	"Author.max":             "Author must be less than 100 characters.",
	"ISBN.len":               "ISBN must be exactly 13 digits.",
	"ISBN.number":            "ISBN must contain only digits.",
	"TotalCopies.gt":         "Total copies must be a positive integer.",
	"TransactionID.required": "Invalid transaction ID.",
	"TransactionID.txnid":    "Invalid transaction ID.",
	"Amount.gt":              "Refund amount must be greater than 0.",
	"Amount.lte":             "Refund amount exceeds maximum late fee.",
}

func newBookInput(req model.CreateBookRequest) bookInput {
	return bookInput{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		ISBN:        req.ISBN,
		TotalCopies: req.TotalCopies,
	}
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(errs.ErrValidation, err.Error(), err)
	}
	fe := verrs[0]
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return errs.Validation(msg)
	}
	return errs.Validation(fe.Error())
}

func validatePatronID(patronID string) error {
	if err := validate.Var(patronID, patronIDRule); err != nil {
		return errs.Validation(msgInvalidPatronID)
	}
	return nil
}
