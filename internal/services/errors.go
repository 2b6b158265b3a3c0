package services

import "errors"

// One sentinel per failure kind. The API layer branches on these with
// errors.Is to pick user-facing behavior; the core never retries and never
// reports a partial write as success.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("caller is not allowed")
	ErrPendingApproval      = errors.New("membership pending approval")
	ErrTargetNotMember      = errors.New("target user is not a group member")
	ErrDuplicateEntry       = errors.New("progress already logged for this period")
	ErrLimitExceeded        = errors.New("resource limit exceeded")
	ErrSubscriptionRequired = errors.New("premium subscription required")
)

// Validation sentinels: the caller's input is malformed and the call is
// recoverable by fixing it.
var (
	ErrInvalidCadence     = errors.New("invalid cadence")
	ErrInvalidMetricType  = errors.New("invalid metric type")
	ErrInvalidMetricValue = errors.New("value not valid for metric type")
	ErrInvalidActiveDays  = errors.New("invalid active days")
	ErrInvalidTimezone    = errors.New("invalid timezone")
	ErrInvalidDate        = errors.New("invalid date")
	ErrFutureDate         = errors.New("date is in the future")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrInvalidLimit       = errors.New("invalid page limit")
	ErrInvalidCursor      = errors.New("invalid pagination cursor")
	ErrTitleRequired      = errors.New("title required")
	ErrLogTitleRequired   = errors.New("log title required for journal goals")
	ErrTargetRequired     = errors.New("target value required for metric type")
	ErrTargetForbidden    = errors.New("target value not allowed for metric type")
	ErrNoteTooLong        = errors.New("note exceeds maximum length")
	ErrInvalidEmoji       = errors.New("invalid emoji")
)

var validationErrors = []error{
	ErrInvalidCadence,
	ErrInvalidMetricType,
	ErrInvalidMetricValue,
	ErrInvalidActiveDays,
	ErrInvalidTimezone,
	ErrInvalidDate,
	ErrFutureDate,
	ErrInvalidRange,
	ErrInvalidLimit,
	ErrInvalidCursor,
	ErrTitleRequired,
	ErrLogTitleRequired,
	ErrTargetRequired,
	ErrTargetForbidden,
	ErrNoteTooLong,
	ErrInvalidEmoji,
}

func IsValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
