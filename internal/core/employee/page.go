package employee

import "math"

const (
	// DefaultPageSize はページサイズ未指定時の値です。
	DefaultPageSize = 10
	// MaxPageSize はページサイズの上限の既定値です。
	MaxPageSize = 200
)

// PageRequest は 0 始まりのページ番号とページサイズです。
type PageRequest struct {
	Page int
	Size int
}

// NormalizePage はページサイズを [1, maxSize] に丸めます。
// 負のページ番号は ErrInvalidPageIndex です。
func NormalizePage(p PageRequest, maxSize int) (PageRequest, error) {
	if p.Page < 0 {
		return PageRequest{}, ErrInvalidPageIndex
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	p.Size = min(max(p.Size, 1), maxSize)
	return p, nil
}

// Offset は先頭からの読み飛ばし件数です。
func (p PageRequest) Offset() int {
	if p.Size <= 0 || p.Page <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// TotalPages は ceil(total / size) を返します。
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageResult は一覧検索の結果です。
type PageResult struct {
	Items         []Projection
	TotalElements int
	TotalPages    int
	Page          int
	Size          int
}

// IsFirst は先頭ページかどうかを返します。
func (r *PageResult) IsFirst() bool {
	return r.Page == 0
}

// IsLast は最終ページ (またはそれ以降) かどうかを返します。
func (r *PageResult) IsLast() bool {
	return r.Page >= r.TotalPages-1
}
