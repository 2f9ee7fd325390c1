package employee

import "time"

// DateLayout は日付項目の表現形式です。
const DateLayout = "2006-01-02"

// Projection は呼び出し側に公開する社員の形です。ストア内部の表現とは分離しています。
type Projection struct {
	ID                 int64           `json:"id"`
	FirstName          string          `json:"firstName"`
	MiddleName         *string         `json:"middleName,omitempty"`
	LastName           string          `json:"lastName"`
	Email              string          `json:"email"`
	MobileNumber       *string         `json:"mobileNumber,omitempty"`
	ResidentialAddress *string         `json:"residentialAddress,omitempty"`
	ContractType       ContractType    `json:"contractType"`
	EmploymentBasis    EmploymentBasis `json:"employmentBasis"`
	Role               Role            `json:"role"`
	StartDate          string          `json:"startDate"`
	FinishDate         *string         `json:"finishDate,omitempty"`
	Ongoing            bool            `json:"ongoing"`
	HoursPerWeek       *int            `json:"hoursPerWeek,omitempty"`
	ThumbnailURL       *string         `json:"thumbnailUrl,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Project は保存済みレコードから Projection を作ります。
func Project(e *Employee) Projection {
	p := Projection{
		ID:                 e.ID,
		FirstName:          e.FirstName,
		MiddleName:         cloneString(e.MiddleName),
		LastName:           e.LastName,
		Email:              e.Email,
		MobileNumber:       cloneString(e.MobileNumber),
		ResidentialAddress: cloneString(e.ResidentialAddress),
		ContractType:       e.ContractType,
		EmploymentBasis:    e.EmploymentBasis,
		Role:               e.Role,
		StartDate:          e.StartDate.Format(DateLayout),
		Ongoing:            e.Ongoing,
		HoursPerWeek:       cloneInt(e.HoursPerWeek),
		ThumbnailURL:       cloneString(e.ThumbnailURL),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	if e.FinishDate != nil {
		finish := e.FinishDate.Format(DateLayout)
		p.FinishDate = &finish
	}
	return p
}
