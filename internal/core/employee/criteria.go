package employee

import (
	"strings"
	"time"
)

// Criteria は一覧検索の絞り込み条件です。すべて任意で、指定された条件の AND を取ります。
// 列挙値の文字列は解釈できない場合は無視されます。
type Criteria struct {
	Name            *string
	ContractType    *string
	EmploymentBasis *string
	Active          *bool
}

// Filter は正規化済みの絞り込み条件です。
type Filter struct {
	// Name は姓・名に対する部分一致 (大文字小文字を区別しない) のトークンです。空なら条件なし。
	Name            string
	ContractType    *ContractType
	EmploymentBasis *EmploymentBasis
	Active          *bool
	// Today は Active 判定の基準日です。
	Today time.Time
}

// Predicate は 1 つの絞り込み条件です。
type Predicate func(*Employee) bool

// Normalize は生の条件を Filter に変換します。エラーは返しません。
func (c Criteria) Normalize(today time.Time) Filter {
	f := Filter{Today: DateOf(today)}

	if c.Name != nil {
		f.Name = strings.TrimSpace(*c.Name)
	}
	if c.ContractType != nil {
		if ct, ok := ParseContractType(*c.ContractType); ok {
			f.ContractType = &ct
		}
	}
	if c.EmploymentBasis != nil {
		if eb, ok := ParseEmploymentBasis(*c.EmploymentBasis); ok {
			f.EmploymentBasis = &eb
		}
	}
	if c.Active != nil {
		active := *c.Active
		f.Active = &active
	}

	return f
}

// Predicates は指定された条件ごとに独立した Predicate を組み立てます。
func (f Filter) Predicates() []Predicate {
	preds := make([]Predicate, 0, 4)

	if f.Name != "" {
		token := strings.ToLower(f.Name)
		preds = append(preds, func(e *Employee) bool {
			return strings.Contains(strings.ToLower(e.FirstName), token) ||
				strings.Contains(strings.ToLower(e.LastName), token)
		})
	}

	if f.ContractType != nil {
		want := *f.ContractType
		preds = append(preds, func(e *Employee) bool { return e.ContractType == want })
	}

	if f.EmploymentBasis != nil {
		want := *f.EmploymentBasis
		preds = append(preds, func(e *Employee) bool { return e.EmploymentBasis == want })
	}

	if f.Active != nil {
		want := *f.Active
		today := f.Today
		preds = append(preds, func(e *Employee) bool { return e.IsActiveOn(today) == want })
	}

	return preds
}

// Match はすべての Predicate を満たすかを返します。
func (f Filter) Match(e *Employee) bool {
	return matchAll(f.Predicates(), e)
}

func matchAll(preds []Predicate, e *Employee) bool {
	for _, p := range preds {
		if !p(e) {
			return false
		}
	}
	return true
}
