package employee

import (
	"cmp"
	"strings"
)

// SortField は並び替え可能な項目です。許可リスト以外は受け付けません。
type SortField string

const (
	SortByFirstName    SortField = "firstName"
	SortByLastName     SortField = "lastName"
	SortByEmail        SortField = "email"
	SortByStartDate    SortField = "startDate"
	SortByContractType SortField = "contractType"
)

// Direction は並び順です。
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// 大文字小文字とアンダースコアを除いたキーで引きます。
var sortFieldAliases = map[string]SortField{
	"firstname":    SortByFirstName,
	"lastname":     SortByLastName,
	"email":        SortByEmail,
	"startdate":    SortByStartDate,
	"contracttype": SortByContractType,
}

// Sort は正規化済みの並び替え指定です。
type Sort struct {
	Field     SortField
	Direction Direction
}

// DefaultSort は firstName の昇順です。
var DefaultSort = Sort{Field: SortByFirstName, Direction: Ascending}

// ParseSort は生の指定を Sort に変換します。
// 不明な項目は firstName、不明な向きは昇順にフォールバックします。
func ParseSort(field, direction string) Sort {
	s := DefaultSort

	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(field), "_", ""))
	if f, ok := sortFieldAliases[key]; ok {
		s.Field = f
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "desc", "descending":
		s.Direction = Descending
	}

	return s
}

// Compare は a と b を比較します。主キーが等しい場合は ID の昇順で決着させるため、
// 異なる ID 同士で 0 を返すことはありません。
func (s Sort) Compare(a, b *Employee) int {
	var c int
	switch s.Field {
	case SortByLastName:
		c = compareFold(a.LastName, b.LastName)
	case SortByEmail:
		c = compareFold(a.Email, b.Email)
	case SortByStartDate:
		c = a.StartDate.Compare(b.StartDate)
	case SortByContractType:
		c = compareFold(string(a.ContractType), string(b.ContractType))
	default:
		c = compareFold(a.FirstName, b.FirstName)
	}

	if s.Direction == Descending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
