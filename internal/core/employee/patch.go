package employee

import "time"

// Patch は部分更新の内容です。nil のフィールドは変更しません。
type Patch struct {
	FirstName          *string
	MiddleName         *string
	LastName           *string
	Email              *string
	MobileNumber       *string
	ResidentialAddress *string
	ContractType       *ContractType
	EmploymentBasis    *EmploymentBasis
	Role               *Role
	StartDate          *time.Time
	FinishDate         *time.Time
	// FinishDateSet は finish date が指定されたかどうかです。FinishDate が nil なら消去を意味します。
	FinishDateSet bool
	Ongoing       *bool
	HoursPerWeek  *int
	ThumbnailURL  *string
}

// Apply は snapshot の複製に変更を適用し、整合性ルールを通した結果を返します。
// snapshot 自体は変更しません。
func (p Patch) Apply(snapshot *Employee) (*Employee, error) {
	next := snapshot.Clone()

	if p.FirstName != nil {
		name, err := normalizeRequired(*p.FirstName, ErrInvalidFirstName)
		if err != nil {
			return nil, err
		}
		next.FirstName = name
	}

	if p.MiddleName != nil {
		next.MiddleName = normalizeOptional(p.MiddleName)
	}

	if p.LastName != nil {
		name, err := normalizeRequired(*p.LastName, ErrInvalidLastName)
		if err != nil {
			return nil, err
		}
		next.LastName = name
	}

	if p.Email != nil {
		email, err := normalizeEmail(*p.Email)
		if err != nil {
			return nil, err
		}
		next.Email = email
	}

	if p.MobileNumber != nil {
		mobile, err := normalizeMobileNumber(p.MobileNumber)
		if err != nil {
			return nil, err
		}
		next.MobileNumber = mobile
	}

	if p.ResidentialAddress != nil {
		next.ResidentialAddress = normalizeOptional(p.ResidentialAddress)
	}

	if p.ContractType != nil {
		if !p.ContractType.Valid() {
			return nil, ErrInvalidContractType
		}
		next.ContractType = *p.ContractType
	}

	if p.EmploymentBasis != nil {
		if !p.EmploymentBasis.Valid() {
			return nil, ErrInvalidEmploymentBasis
		}
		next.EmploymentBasis = *p.EmploymentBasis
	}

	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, ErrInvalidRole
		}
		next.Role = *p.Role
	}

	if p.StartDate != nil {
		if p.StartDate.IsZero() {
			return nil, ErrInvalidStartDate
		}
		next.StartDate = DateOf(*p.StartDate)
	}

	if p.FinishDateSet {
		next.FinishDate = normalizeDate(p.FinishDate)
	}

	if p.HoursPerWeek != nil {
		if err := validateHoursPerWeek(p.HoursPerWeek); err != nil {
			return nil, err
		}
		next.HoursPerWeek = cloneInt(p.HoursPerWeek)
	}

	if p.ThumbnailURL != nil {
		next.ThumbnailURL = normalizeOptional(p.ThumbnailURL)
	}

	if err := ApplyStatus(next, StatusChange{Ongoing: p.Ongoing, FinishDateSet: p.FinishDateSet}); err != nil {
		return nil, err
	}

	return next, nil
}

// IsEmpty は変更が 1 つも含まれていないかを返します。
func (p Patch) IsEmpty() bool {
	return p.FirstName == nil && p.MiddleName == nil && p.LastName == nil && p.Email == nil &&
		p.MobileNumber == nil && p.ResidentialAddress == nil && p.ContractType == nil &&
		p.EmploymentBasis == nil && p.Role == nil && p.StartDate == nil && !p.FinishDateSet &&
		p.Ongoing == nil && p.HoursPerWeek == nil && p.ThumbnailURL == nil
}
