package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies service failures for callers.
type Kind int

const (
	// KindUnexpected covers infrastructure failures; details are logged, not returned.
	KindUnexpected Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	// KindConflict is a broken aggregate invariant. The transaction is rolled back.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is a business error with a stable code and the request field it is
// attributed to. errors.Is matches on Code, so WithField copies still match
// their sentinel.
type Error struct {
	Kind  Kind
	Code  string
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithField returns a copy attributed to field.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// Wrap returns a copy carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

var (
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "USER_IS_NOT_FOUND_BY_ID", Field: "user_id", Msg: "user not found"}
	ErrProjectNotFound    = &Error{Kind: KindNotFound, Code: "PROJECT_IS_NOT_FOUND_BY_ID", Field: "project_id", Msg: "project not found"}
	ErrMilestoneNotFound  = &Error{Kind: KindNotFound, Code: "MILESTONE_IS_NOT_FOUND_BY_ID", Field: "milestone_id", Msg: "milestone not found"}
	ErrFeatureNotFound    = &Error{Kind: KindNotFound, Code: "FEATURE_IS_NOT_FOUND_BY_ID", Field: "feature_id", Msg: "feature not found"}
	ErrRateNotFound       = &Error{Kind: KindNotFound, Code: "RATE_IS_NOT_FOUND_BY_ID", Field: "rate_id", Msg: "rate not found"}
	ErrTeamMemberNotFound = &Error{Kind: KindNotFound, Code: "TEAM_MEMBER_IS_NOT_FOUND_BY_ID", Field: "team_member_id", Msg: "team member not found"}

	ErrLoginAlreadyExists      = &Error{Kind: KindValidation, Code: "LOGIN_ALREADY_EXISTS", Field: "login", Msg: "login already exists"}
	ErrTeamMemberAlreadyExists = &Error{Kind: KindValidation, Code: "TEAM_MEMBER_ALREADY_EXISTS", Field: "position", Msg: "team member with this position already exists"}
	ErrWrongPosition           = &Error{Kind: KindValidation, Code: "WRONG_POSITION", Field: "position", Msg: "unknown position"}
	ErrInvalidEstimates        = &Error{Kind: KindValidation, Code: "INVALID_ESTIMATES", Msg: "invalid estimates"}
	ErrInvalidMilestoneDates   = &Error{Kind: KindValidation, Code: "INVALID_MILESTONE_DATES", Msg: "invalid milestone dates"}
	ErrInvalidAmount           = &Error{Kind: KindValidation, Code: "INVALID_AMOUNT", Msg: "amount must be positive with at most 12 integer and 2 fraction digits"}
	ErrBlankField              = &Error{Kind: KindValidation, Code: "BLANK_FIELD", Msg: "must not be blank"}
	ErrDuplicate               = &Error{Kind: KindValidation, Code: "DUPLICATE_VALUE", Msg: "value already exists"}
	ErrInvalidPassword         = &Error{Kind: KindValidation, Code: "INVALID_PASSWORD", Field: "password", Msg: "password must be at most 72 bytes"}
	ErrEstimateOutOfRange      = &Error{Kind: KindValidation, Code: "ESTIMATE_OUT_OF_RANGE", Field: "estimate_in_days", Msg: "running total would exceed 12 integer digits"}

	ErrWrongLoginOrPassword = &Error{Kind: KindUnauthorized, Code: "WRONG_LOGIN_OR_PASSWORD", Msg: "wrong login or password"}

	ErrAggregateInvariant = &Error{Kind: KindConflict, Code: "AGGREGATE_INVARIANT_VIOLATED", Msg: "aggregate invariant violated"}
	ErrRateMissing        = &Error{Kind: KindConflict, Code: "RATE_MISSING", Msg: "project has no rate for a catalog position"}

	ErrUnexpected = &Error{Kind: KindUnexpected, Code: "INTERNAL_ERROR", Msg: "internal error"}
)

// KindOf reports the Kind of err; anything that is not an *Error is unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// MapError turns storage failures into service errors. *Error values pass
// through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	wrapped := fmt.Errorf("%s: %w", op, err)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return ErrDuplicate.Wrap(wrapped)
		}
		return ErrUnexpected.Wrap(wrapped)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate.Wrap(wrapped)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrUnexpected.Wrap(wrapped)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key") {
		return ErrDuplicate.Wrap(wrapped)
	}
	return ErrUnexpected.Wrap(wrapped)
}

// notFound maps gorm.ErrRecordNotFound to the given sentinel and everything
// else through MapError.
func notFound(op string, err error, sentinel *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return MapError(op, err)
}
