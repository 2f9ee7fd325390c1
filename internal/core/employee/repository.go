package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindAll(ctx context.Context) ([]*Employee, error)
	// FindPage は絞り込み・並び替え・ページングをストア側で行い、
	// 該当ページと絞り込み後の総件数を返します。
	FindPage(ctx context.Context, q Query) ([]*Employee, int, error)
}
