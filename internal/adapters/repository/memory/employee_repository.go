package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
)

// EmployeeRepository はプロセス内メモリに社員を保持する実装です。
// 検索は全件を読み出して employee.Run で評価します。
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[int64]*employee.Employee
	sequence  int64
	now       func() time.Time
}

// NewEmployeeRepository は空の EmployeeRepository を生成します。
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[int64]*employee.Employee),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock は created_at / updated_at に使う時刻の取得元を差し替えます。
func (r *EmployeeRepository) WithClock(now func() time.Time) *EmployeeRepository {
	if now != nil {
		r.now = now
	}
	return r
}

// Create は新しい ID を採番して保存します。
func (r *EmployeeRepository) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(e.Email, 0) {
		return nil, employee.ErrEmailAlreadyExists
	}

	stored := e.Clone()
	r.sequence++
	stored.ID = r.sequence
	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.employees[stored.ID] = stored

	return stored.Clone(), nil
}

// Update は保存済みのレコードを置き換えます。created_at は保持します。
func (r *EmployeeRepository) Update(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.employees[e.ID]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	if r.emailTaken(e.Email, e.ID) {
		return nil, employee.ErrEmailAlreadyExists
	}

	stored := e.Clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = r.now()
	r.employees[stored.ID] = stored

	return stored.Clone(), nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id int64) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

// FindAll は全社員を ID 順で返します。
func (r *EmployeeRepository) FindAll(_ context.Context) ([]*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot(), nil
}

// FindPage は全件に対して検索条件を評価します。
func (r *EmployeeRepository) FindPage(_ context.Context, q employee.Query) ([]*employee.Employee, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, total := employee.Run(r.snapshot(), q)
	return items, total, nil
}

// Ping は常に成功します。
func (r *EmployeeRepository) Ping(context.Context) error {
	return nil
}

func (r *EmployeeRepository) snapshot() []*employee.Employee {
	out := make([]*employee.Employee, 0, len(r.employees))
	for id := int64(1); id <= r.sequence; id++ {
		if e, ok := r.employees[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (r *EmployeeRepository) emailTaken(email string, exceptID int64) bool {
	for id, e := range r.employees {
		if id != exceptID && e.Email == email {
			return true
		}
	}
	return false
}
