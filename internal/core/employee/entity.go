package employee

import (
	"slices"
	"strings"
	"time"
)

// ContractType は雇用契約の種別です。
type ContractType string

const (
	ContractTypePermanent ContractType = "PERMANENT"
	ContractTypeContract  ContractType = "CONTRACT"
)

// EmploymentBasis はフルタイム / パートタイムの区分です。
type EmploymentBasis string

const (
	EmploymentBasisFullTime EmploymentBasis = "FULL_TIME"
	EmploymentBasisPartTime EmploymentBasis = "PART_TIME"
)

// Role は社員の役割です。
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleHR         Role = "HR"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleIntern     Role = "INTERN"
	RoleContractor Role = "CONTRACTOR"
)

var (
	contractTypes   = []ContractType{ContractTypePermanent, ContractTypeContract}
	employmentBases = []EmploymentBasis{EmploymentBasisFullTime, EmploymentBasisPartTime}
	roles           = []Role{RoleAdmin, RoleHR, RoleManager, RoleEmployee, RoleIntern, RoleContractor}
)

// MaxHoursPerWeek は週あたり勤務時間の上限です。
const MaxHoursPerWeek = 168

// Employee は社員エンティティです。
type Employee struct {
	ID                 int64
	FirstName          string
	MiddleName         *string
	LastName           string
	Email              string
	MobileNumber       *string
	ResidentialAddress *string
	ContractType       ContractType
	EmploymentBasis    EmploymentBasis
	Role               Role
	StartDate          time.Time
	FinishDate         *time.Time
	Ongoing            bool
	HoursPerWeek       *int
	ThumbnailURL       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Clone は独立したコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	c.MiddleName = cloneString(e.MiddleName)
	c.MobileNumber = cloneString(e.MobileNumber)
	c.ResidentialAddress = cloneString(e.ResidentialAddress)
	c.ThumbnailURL = cloneString(e.ThumbnailURL)
	c.FinishDate = cloneTime(e.FinishDate)
	c.HoursPerWeek = cloneInt(e.HoursPerWeek)
	return &c
}

// IsActiveOn は finish date を基準に指定日時点で在籍中かを判定します。
// ongoing フラグではなく日付を優先します。
func (e *Employee) IsActiveOn(today time.Time) bool {
	if e.FinishDate == nil {
		return true
	}
	return !e.FinishDate.Before(DateOf(today))
}

// ParseContractType は大文字小文字を区別せずに契約種別を解釈します。
func ParseContractType(raw string) (ContractType, bool) {
	return parseVariant(raw, contractTypes)
}

// ParseEmploymentBasis は大文字小文字を区別せずに勤務区分を解釈します。
func ParseEmploymentBasis(raw string) (EmploymentBasis, bool) {
	return parseVariant(raw, employmentBases)
}

// ParseRole は大文字小文字を区別せずに役割を解釈します。
func ParseRole(raw string) (Role, bool) {
	return parseVariant(raw, roles)
}

// Valid は既知の契約種別かどうかを返します。
func (c ContractType) Valid() bool {
	return slices.Contains(contractTypes, c)
}

// Valid は既知の勤務区分かどうかを返します。
func (b EmploymentBasis) Valid() bool {
	return slices.Contains(employmentBases, b)
}

// Valid は既知の役割かどうかを返します。
func (r Role) Valid() bool {
	return slices.Contains(roles, r)
}

func parseVariant[T ~string](raw string, allowed []T) (T, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, v := range allowed {
		if string(v) == normalized {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// DateOf は時刻を UTC の日付 (00:00) に丸めます。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOf(*t)
	return &d
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	clone := *n
	return &clone
}
