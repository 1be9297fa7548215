package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/artempelyovin/rashodomer-be/internal/core"
)

// envelope is the uniform response shape. Detail carries the error message
// when Error is true and is null otherwise.
type envelope struct {
	Data       any     `json:"data"`
	StatusCode int     `json:"status_code"`
	Error      bool    `json:"error"`
	Detail     *string `json:"detail"`
}

// listEnvelope extends the envelope with pagination totals. A null limit
// means the listing was uncapped.
type listEnvelope struct {
	envelope
	Total  int  `json:"total"`
	Limit  *int `json:"limit"`
	Offset int  `json:"offset"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data, StatusCode: status})
}

func writeList(w http.ResponseWriter, data any, total int, limit *int, offset int) {
	writeJSON(w, http.StatusOK, listEnvelope{
		envelope: envelope{Data: data, StatusCode: http.StatusOK},
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	detail := err.Error()
	writeJSON(w, status, envelope{StatusCode: status, Error: true, Detail: &detail})
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		StatusCode: http.StatusBadRequest,
		Error:      true,
		Detail:     &detail,
	})
}

// statusFor is the static error-to-status table: 400 for validation and
// uniqueness failures, 403 for ownership and authentication, 404 for
// missing records. Anything unrecognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrAmountMustBePositive),
		errors.Is(err, core.ErrEmptySearchText),
		errors.Is(err, core.ErrEmptyCategoryName),
		errors.Is(err, core.ErrPasswordMissingSpecialCharacter),
		errors.Is(err, core.ErrIncorrectPassword):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrBudgetAccessDenied),
		errors.Is(err, core.ErrCategoryAccessDenied),
		errors.Is(err, core.ErrTransactionAccessDenied),
		errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden
	}

	var (
		loginExists       *core.LoginAlreadyExistsError
		passwordTooShort  *core.PasswordTooShortError
		budgetExists      *core.BudgetAlreadyExistsError
		categoryExists    *core.CategoryAlreadyExistsError
		notEmoji          *core.NotEmojiIconError
		timestampInFuture *core.TimestampInFutureError
		unsupportedType   *core.UnsupportedTransactionTypeError
		nullField         *core.FieldCannotBeNullError
	)
	switch {
	case errors.As(err, &loginExists),
		errors.As(err, &passwordTooShort),
		errors.As(err, &budgetExists),
		errors.As(err, &categoryExists),
		errors.As(err, &notEmoji),
		errors.As(err, &timestampInFuture),
		errors.As(err, &unsupportedType),
		errors.As(err, &nullField):
		return http.StatusBadRequest
	}

	var (
		loginNotExists       *core.LoginNotExistsError
		userNotExists        *core.UserNotExistsError
		budgetNotExists      *core.BudgetNotExistsError
		categoryNotExists    *core.CategoryNotExistsError
		transactionNotExists *core.TransactionNotExistsError
	)
	switch {
	case errors.As(err, &loginNotExists),
		errors.As(err, &userNotExists),
		errors.As(err, &budgetNotExists),
		errors.As(err, &categoryNotExists),
		errors.As(err, &transactionNotExists):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
