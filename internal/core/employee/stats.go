package employee

import (
	"context"
	"time"

	"github.com/samber/lo"
)

// Stats はダッシュボード向けの集計値です。在籍判定は検索の Active 条件と同じく finish date 基準です。
type Stats struct {
	TotalEmployees     int          `json:"totalEmployees"`
	ActiveEmployees    int          `json:"activeEmployees"`
	InactiveEmployees  int          `json:"inactiveEmployees"`
	FullTimeEmployees  int          `json:"fullTimeEmployees"`
	PartTimeEmployees  int          `json:"partTimeEmployees"`
	PermanentEmployees int          `json:"permanentEmployees"`
	ContractEmployees  int          `json:"contractEmployees"`
	ActiveFullTime     int          `json:"activeFullTime"`
	ActivePartTime     int          `json:"activePartTime"`
	InactiveFullTime   int          `json:"inactiveFullTime"`
	InactivePartTime   int          `json:"inactivePartTime"`
	EmployeesByRole    map[Role]int `json:"employeesByRole"`
}

// Stats は全社員を集計します。
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var all []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		all = result
		return nil
	}); err != nil {
		return nil, err
	}

	return computeStats(all, s.clock.Now()), nil
}

func computeStats(all []*Employee, now time.Time) *Stats {
	today := DateOf(now)
	active, inactive := lo.FilterReject(all, func(e *Employee, _ int) bool { return e.IsActiveOn(today) })
	fullTime := func(e *Employee) bool { return e.EmploymentBasis == EmploymentBasisFullTime }
	partTime := func(e *Employee) bool { return e.EmploymentBasis == EmploymentBasisPartTime }

	byRole := make(map[Role]int, len(roles))
	for _, r := range roles {
		byRole[r] = 0
	}
	for r, n := range lo.CountValuesBy(all, func(e *Employee) Role { return e.Role }) {
		byRole[r] = n
	}

	return &Stats{
		TotalEmployees:     len(all),
		ActiveEmployees:    len(active),
		InactiveEmployees:  len(inactive),
		FullTimeEmployees:  lo.CountBy(all, fullTime),
		PartTimeEmployees:  lo.CountBy(all, partTime),
		PermanentEmployees: lo.CountBy(all, func(e *Employee) bool { return e.ContractType == ContractTypePermanent }),
		ContractEmployees:  lo.CountBy(all, func(e *Employee) bool { return e.ContractType == ContractTypeContract }),
		ActiveFullTime:     lo.CountBy(active, fullTime),
		ActivePartTime:     lo.CountBy(active, partTime),
		InactiveFullTime:   lo.CountBy(inactive, fullTime),
		InactivePartTime:   lo.CountBy(inactive, partTime),
		EmployeesByRole:    byRole,
	}
}
