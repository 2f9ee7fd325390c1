package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/samber/lo"
)

// optionalDate は JSON で「未指定」「null」「日付」を区別して受け取ります。
type optionalDate struct {
	Set   bool
	Value *time.Time
}

func (d *optionalDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		d.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Value = nil
		return nil
	}

	parsed, err := parseDate(raw)
	if err != nil {
		return err
	}
	d.Value = &parsed
	return nil
}

// parseDate は YYYY-MM-DD または RFC3339 を受け付けます。
func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(employee.DateLayout, raw); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return parsed, nil
}

type createEmployeeRequest struct {
	FirstName          string       `json:"firstName" validate:"required,max=200"`
	MiddleName         *string      `json:"middleName" validate:"omitempty,max=200"`
	LastName           string       `json:"lastName" validate:"required,max=200"`
	Email              string       `json:"email" validate:"required,email,max=200"`
	MobileNumber       *string      `json:"mobileNumber" validate:"omitempty,au_mobile"`
	ResidentialAddress *string      `json:"residentialAddress" validate:"omitempty,max=255"`
	ContractType       string       `json:"contractType" validate:"required"`
	EmploymentBasis    string       `json:"employmentBasis" validate:"required"`
	Role               *string      `json:"role"`
	StartDate          string       `json:"startDate" validate:"required"`
	FinishDate         optionalDate `json:"finishDate"`
	EndDate            optionalDate `json:"endDate"`
	Ongoing            bool         `json:"ongoing"`
	HoursPerWeek       *int         `json:"hoursPerWeek" validate:"omitempty,gt=0,lte=168"`
	ThumbnailURL       *string      `json:"thumbnailUrl" validate:"omitempty,max=500"`
}

func (req *createEmployeeRequest) trim() {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
}

func (req createEmployeeRequest) toInput() (employee.CreateEmployeeInput, error) {
	start, err := parseDate(strings.TrimSpace(req.StartDate))
	if err != nil {
		return employee.CreateEmployeeInput{}, fmt.Errorf("%w: startDate: %v", employee.ErrInvalidStartDate, err)
	}

	finish := req.FinishDate
	if !finish.Set {
		finish = req.EndDate
	}

	in := employee.CreateEmployeeInput{
		FirstName:          req.FirstName,
		MiddleName:         req.MiddleName,
		LastName:           req.LastName,
		Email:              req.Email,
		MobileNumber:       req.MobileNumber,
		ResidentialAddress: req.ResidentialAddress,
		ContractType:       contractTypeOf(req.ContractType),
		EmploymentBasis:    employmentBasisOf(req.EmploymentBasis),
		StartDate:          start,
		FinishDate:         finish.Value,
		Ongoing:            req.Ongoing,
		HoursPerWeek:       req.HoursPerWeek,
		ThumbnailURL:       req.ThumbnailURL,
	}
	if req.Role != nil {
		in.Role = lo.ToPtr(roleOf(*req.Role))
	}
	return in, nil
}

type updateEmployeeRequest struct {
	FirstName          *string      `json:"firstName" validate:"omitempty,max=200"`
	MiddleName         *string      `json:"middleName" validate:"omitempty,max=200"`
	LastName           *string      `json:"lastName" validate:"omitempty,max=200"`
	Email              *string      `json:"email" validate:"omitempty,max=200"`
	MobileNumber       *string      `json:"mobileNumber" validate:"omitempty,au_mobile"`
	ResidentialAddress *string      `json:"residentialAddress" validate:"omitempty,max=255"`
	ContractType       *string      `json:"contractType"`
	EmploymentBasis    *string      `json:"employmentBasis"`
	Role               *string      `json:"role"`
	StartDate          *string      `json:"startDate"`
	FinishDate         optionalDate `json:"finishDate"`
	Ongoing            *bool        `json:"ongoing"`
	HoursPerWeek       *int         `json:"hoursPerWeek" validate:"omitempty,gt=0,lte=168"`
	ThumbnailURL       *string      `json:"thumbnailUrl" validate:"omitempty,max=500"`
}

func (req updateEmployeeRequest) toPatch() (employee.Patch, error) {
	p := employee.Patch{
		FirstName:          req.FirstName,
		MiddleName:         req.MiddleName,
		LastName:           req.LastName,
		Email:              req.Email,
		MobileNumber:       req.MobileNumber,
		ResidentialAddress: req.ResidentialAddress,
		FinishDate:         req.FinishDate.Value,
		FinishDateSet:      req.FinishDate.Set,
		Ongoing:            req.Ongoing,
		HoursPerWeek:       req.HoursPerWeek,
		ThumbnailURL:       req.ThumbnailURL,
	}

	if req.ContractType != nil {
		p.ContractType = lo.ToPtr(contractTypeOf(*req.ContractType))
	}
	if req.EmploymentBasis != nil {
		p.EmploymentBasis = lo.ToPtr(employmentBasisOf(*req.EmploymentBasis))
	}
	if req.Role != nil {
		p.Role = lo.ToPtr(roleOf(*req.Role))
	}
	if req.StartDate != nil {
		start, err := parseDate(strings.TrimSpace(*req.StartDate))
		if err != nil {
			return employee.Patch{}, fmt.Errorf("%w: startDate: %v", employee.ErrInvalidStartDate, err)
		}
		p.StartDate = &start
	}
	return p, nil
}

// 解釈できない値はそのまま渡し、サービス側の検証で弾く。
func contractTypeOf(raw string) employee.ContractType {
	if ct, ok := employee.ParseContractType(raw); ok {
		return ct
	}
	return employee.ContractType(raw)
}

func employmentBasisOf(raw string) employee.EmploymentBasis {
	if eb, ok := employee.ParseEmploymentBasis(raw); ok {
		return eb
	}
	return employee.EmploymentBasis(raw)
}

func roleOf(raw string) employee.Role {
	if r, ok := employee.ParseRole(raw); ok {
		return r
	}
	return employee.Role(raw)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("au_mobile", func(fl validator.FieldLevel) bool {
		raw := strings.ReplaceAll(strings.TrimSpace(fl.Field().String()), " ", "")
		return raw == "" || employee.MobileNumberPattern.MatchString(raw)
	})
	return v
}

func validationIssues(err error) []FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	return lo.Map(verrs, func(fe validator.FieldError, _ int) FieldIssue {
		return FieldIssue{Field: fe.Field(), Reason: reasonFor(fe)}
	})
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "au_mobile":
		return "must be a valid Australian mobile number"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return nil
}
