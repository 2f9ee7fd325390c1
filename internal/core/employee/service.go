package employee

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// MobileNumberPattern はオーストラリアの携帯電話番号の形式です。
var MobileNumberPattern = regexp.MustCompile(`^(\+?61|0)4\d{8}$`)

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo        Repository
	clock       Clock
	tx          TransactionManager
	log         *zap.Logger
	maxPageSize int
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Projection, error)
	GetEmployee(ctx context.Context, id int64) (*Projection, error)
	ListEmployees(ctx context.Context) ([]Projection, error)
	SearchEmployees(ctx context.Context, in SearchInput) (*PageResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Projection, error)
	DeleteEmployee(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithLogger は操作ログの出力先を設定します。
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxPageSize はページサイズの上限を設定します。
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:        repo,
		clock:       clock,
		tx:          tx,
		log:         zap.NewNop(),
		maxPageSize: MaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	FirstName          string
	MiddleName         *string
	LastName           string
	Email              string
	MobileNumber       *string
	ResidentialAddress *string
	ContractType       ContractType
	EmploymentBasis    EmploymentBasis
	Role               *Role
	StartDate          time.Time
	FinishDate         *time.Time
	Ongoing            bool
	HoursPerWeek       *int
	ThumbnailURL       *string
}

// UpdateEmployeeInput は社員更新時の入力です。
type UpdateEmployeeInput struct {
	ID    int64
	Patch Patch
}

// SearchInput は一覧検索の入力です。並び替えの指定は生の文字列のまま受け取ります。
type SearchInput struct {
	Criteria      Criteria
	SortBy        string
	SortDirection string
	Page          PageRequest
}

// CreateEmployee は新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Projection, error) {
	emp, err := s.buildEmployee(in)
	if err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("employee created", zap.Int64("employee_id", created.ID))

	out := Project(created)
	return &out, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Projection, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var found *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	out := Project(found)
	return &out, nil
}

// ListEmployees は全社員を ID 順で返します。
func (s *Service) ListEmployees(ctx context.Context) ([]Projection, error) {
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

	return lo.Map(all, func(e *Employee, _ int) Projection { return Project(e) }), nil
}

// SearchEmployees は条件に一致する社員をページ単位で返します。
// 解釈できない絞り込み・並び替えの指定は無視されます。
func (s *Service) SearchEmployees(ctx context.Context, in SearchInput) (*PageResult, error) {
	page, err := NormalizePage(in.Page, s.maxPageSize)
	if err != nil {
		return nil, err
	}

	q := Query{
		Filter: in.Criteria.Normalize(s.clock.Now()),
		Sort:   ParseSort(in.SortBy, in.SortDirection),
		Page:   page,
	}

	var (
		items []*Employee
		total int
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, count, err := s.repo.FindPage(txCtx, q)
		if err != nil {
			return err
		}
		items = found
		total = count
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Debug("employee search",
		zap.String("sort_field", string(q.Sort.Field)),
		zap.String("sort_direction", string(q.Sort.Direction)),
		zap.Int("page", page.Page),
		zap.Int("size", page.Size),
		zap.Int("total", total),
	)

	return &PageResult{
		Items:         lo.Map(items, func(e *Employee, _ int) Projection { return Project(e) }),
		TotalElements: total,
		TotalPages:    TotalPages(total, page.Size),
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

// UpdateEmployee は指定されたフィールドのみを更新します。
// 整合性チェックを通過するまで保存済みのレコードには触れません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Projection, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidID
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		next, err := in.Patch.Apply(existing)
		if err != nil {
			return err
		}

		result, err := s.repo.Update(txCtx, next)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("employee updated", zap.Int64("employee_id", updated.ID), zap.Bool("ongoing", updated.Ongoing))

	out := Project(updated)
	return &out, nil
}

// DeleteEmployee は社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return err
	}

	s.log.Info("employee deleted", zap.Int64("employee_id", id))
	return nil
}

func (s *Service) buildEmployee(in CreateEmployeeInput) (*Employee, error) {
	firstName, err := normalizeRequired(in.FirstName, ErrInvalidFirstName)
	if err != nil {
		return nil, err
	}

	lastName, err := normalizeRequired(in.LastName, ErrInvalidLastName)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	mobile, err := normalizeMobileNumber(in.MobileNumber)
	if err != nil {
		return nil, err
	}

	if !in.ContractType.Valid() {
		return nil, ErrInvalidContractType
	}
	if !in.EmploymentBasis.Valid() {
		return nil, ErrInvalidEmploymentBasis
	}

	role := RoleEmployee
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		role = *in.Role
	}

	if in.StartDate.IsZero() {
		return nil, ErrInvalidStartDate
	}

	if err := validateHoursPerWeek(in.HoursPerWeek); err != nil {
		return nil, err
	}

	emp := &Employee{
		FirstName:          firstName,
		MiddleName:         normalizeOptional(in.MiddleName),
		LastName:           lastName,
		Email:              email,
		MobileNumber:       mobile,
		ResidentialAddress: normalizeOptional(in.ResidentialAddress),
		ContractType:       in.ContractType,
		EmploymentBasis:    in.EmploymentBasis,
		Role:               role,
		StartDate:          DateOf(in.StartDate),
		FinishDate:         normalizeDate(in.FinishDate),
		HoursPerWeek:       cloneInt(in.HoursPerWeek),
		ThumbnailURL:       normalizeOptional(in.ThumbnailURL),
	}

	ongoing := in.Ongoing
	if err := ApplyStatus(emp, StatusChange{Ongoing: &ongoing, FinishDateSet: in.FinishDate != nil}); err != nil {
		return nil, err
	}

	return emp, nil
}

func normalizeRequired(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func normalizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}

func normalizeMobileNumber(raw *string) (*string, error) {
	mobile := normalizeOptional(raw)
	if mobile == nil {
		return nil, nil
	}
	compact := strings.ReplaceAll(*mobile, " ", "")
	if !MobileNumberPattern.MatchString(compact) {
		return nil, ErrInvalidMobileNumber
	}
	return &compact, nil
}

func validateHoursPerWeek(hours *int) error {
	if hours == nil {
		return nil
	}
	if *hours <= 0 || *hours > MaxHoursPerWeek {
		return ErrInvalidHoursPerWeek
	}
	return nil
}
