package employee

import (
	"errors"
	"fmt"
)

// エラー種別。個別のエラーはいずれかを %w でラップします。
var (
	ErrNotFound         = errors.New("employee: not found")
	ErrValidationFailed = errors.New("employee: validation failed")
	ErrConflict         = errors.New("employee: conflict")
)

var (
	ErrEmployeeNotFound = fmt.Errorf("%w: no employee with that id", ErrNotFound)

	ErrInvalidID              = fmt.Errorf("%w: invalid id", ErrValidationFailed)
	ErrInvalidFirstName       = fmt.Errorf("%w: invalid first name", ErrValidationFailed)
	ErrInvalidLastName        = fmt.Errorf("%w: invalid last name", ErrValidationFailed)
	ErrInvalidEmail           = fmt.Errorf("%w: invalid email", ErrValidationFailed)
	ErrInvalidMobileNumber    = fmt.Errorf("%w: invalid mobile number", ErrValidationFailed)
	ErrInvalidContractType    = fmt.Errorf("%w: invalid contract type", ErrValidationFailed)
	ErrInvalidEmploymentBasis = fmt.Errorf("%w: invalid employment basis", ErrValidationFailed)
	ErrInvalidRole            = fmt.Errorf("%w: invalid role", ErrValidationFailed)
	ErrInvalidStartDate       = fmt.Errorf("%w: start date is required", ErrValidationFailed)
	ErrInvalidHoursPerWeek    = fmt.Errorf("%w: hours per week must be between 1 and %d", ErrValidationFailed, MaxHoursPerWeek)
	ErrInvalidPageIndex       = fmt.Errorf("%w: page index must not be negative", ErrValidationFailed)

	// ongoing / finish date の整合性ルール違反。
	ErrFinishBeforeStart  = fmt.Errorf("%w: finish_date_not_before_start_date: finish date is earlier than start date", ErrValidationFailed)
	ErrFinishDateRequired = fmt.Errorf("%w: finish_date_required_when_not_ongoing: finish date is required when employment is not ongoing", ErrValidationFailed)

	ErrEmailAlreadyExists = fmt.Errorf("%w: email already exists", ErrConflict)
)
