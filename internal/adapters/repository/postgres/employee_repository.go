package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-roster/internal/platform/db/postgres"
)

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"

	employeeEmailConstraint = "employees_email_key"
)

const employeeColumns = `id, first_name, middle_name, last_name, email, mobile_number, residential_address,
               contract_type, employment_basis, role, start_date, finish_date, ongoing, hours_per_week,
               thumbnail_url, created_at, updated_at`

// 並び替え項目ごとの ORDER BY 式。ここに無い式は SQL に埋め込まない。
// 文字列は COLLATE "C" でバイト順に比較し、employee.Sort.Compare と同じ順序にする。
var orderExpressions = map[employee.SortField]string{
	employee.SortByFirstName:    `LOWER(first_name) COLLATE "C"`,
	employee.SortByLastName:     `LOWER(last_name) COLLATE "C"`,
	employee.SortByEmail:        `LOWER(email) COLLATE "C"`,
	employee.SortByStartDate:    "start_date",
	employee.SortByContractType: `contract_type COLLATE "C"`,
}

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。created_at / updated_at は DB の既定値です。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (first_name, middle_name, last_name, email, mobile_number, residential_address,
                               contract_type, employment_basis, role, start_date, finish_date, ongoing,
                               hours_per_week, thumbnail_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING `+employeeColumns,
		e.FirstName,
		nullableString(e.MiddleName),
		e.LastName,
		e.Email,
		nullableString(e.MobileNumber),
		nullableString(e.ResidentialAddress),
		string(e.ContractType),
		string(e.EmploymentBasis),
		string(e.Role),
		nullableDate(&e.StartDate),
		nullableDate(e.FinishDate),
		e.Ongoing,
		nullableInt(e.HoursPerWeek),
		nullableString(e.ThumbnailURL),
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を置き換えます。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET first_name = $1,
               middle_name = $2,
               last_name = $3,
               email = $4,
               mobile_number = $5,
               residential_address = $6,
               contract_type = $7,
               employment_basis = $8,
               role = $9,
               start_date = $10,
               finish_date = $11,
               ongoing = $12,
               hours_per_week = $13,
               thumbnail_url = $14,
               updated_at = now()
         WHERE id = $15
        RETURNING `+employeeColumns,
		e.FirstName,
		nullableString(e.MiddleName),
		e.LastName,
		e.Email,
		nullableString(e.MobileNumber),
		nullableString(e.ResidentialAddress),
		string(e.ContractType),
		string(e.EmploymentBasis),
		string(e.Role),
		nullableDate(&e.StartDate),
		nullableDate(e.FinishDate),
		e.Ongoing,
		nullableInt(e.HoursPerWeek),
		nullableString(e.ThumbnailURL),
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindAll は全社員を ID 順で返します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY id
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return collectEmployees(rows, 0)
}

// FindPage は絞り込み・並び替え・ページングを SQL に変換して実行します。
// 件数と該当ページは呼び出し側のトランザクション内で続けて取得します。
func (r *EmployeeRepository) FindPage(ctx context.Context, q employee.Query) ([]*employee.Employee, int, error) {
	where, args := buildWhere(q.Filter)
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, translateEmployeePgError(err)
	}

	if q.Page.Size <= 0 || q.Page.Page >= employee.TotalPages(total, q.Page.Size) {
		return []*employee.Employee{}, total, nil
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, q.Page.Size)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, q.Page.Offset())

	query := `
        SELECT ` + employeeColumns + `
          FROM employees` + where + `
         ORDER BY ` + orderBy(q.Sort) + `
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translateEmployeePgError(err)
	}
	items, err := collectEmployees(rows, q.Page.Size)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func buildWhere(f employee.Filter) (string, []any) {
	args := make([]any, 0, 4)
	conditions := make([]string, 0, 4)

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Name != "" {
		p := next("%" + escapeLike(f.Name) + "%")
		conditions = append(conditions, "(first_name ILIKE "+p+` ESCAPE '\' OR last_name ILIKE `+p+` ESCAPE '\')`)
	}
	if f.ContractType != nil {
		conditions = append(conditions, "contract_type = "+next(string(*f.ContractType)))
	}
	if f.EmploymentBasis != nil {
		conditions = append(conditions, "employment_basis = "+next(string(*f.EmploymentBasis)))
	}
	if f.Active != nil {
		p := next(employee.DateOf(f.Today))
		if *f.Active {
			conditions = append(conditions, "(finish_date IS NULL OR finish_date >= "+p+")")
		} else {
			conditions = append(conditions, "(finish_date IS NOT NULL AND finish_date < "+p+")")
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(s employee.Sort) string {
	expr, ok := orderExpressions[s.Field]
	if !ok {
		expr = orderExpressions[employee.SortByFirstName]
	}
	dir := "ASC"
	if s.Direction == employee.Descending {
		dir = "DESC"
	}
	return expr + " " + dir + ", id ASC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func collectEmployees(rows pgx.Rows, capacity int) ([]*employee.Employee, error) {
	defer rows.Close()

	employees := make([]*employee.Employee, 0, capacity)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id              int64
		firstName       string
		middleName      sql.NullString
		lastName        string
		email           string
		mobileNumber    sql.NullString
		address         sql.NullString
		contractType    string
		employmentBasis string
		role            string
		startDate       sql.NullTime
		finishDate      sql.NullTime
		ongoing         bool
		hoursPerWeek    sql.NullInt32
		thumbnailURL    sql.NullString
		createdAt       time.Time
		updatedAt       time.Time
	)

	if err := row.Scan(
		&id,
		&firstName,
		&middleName,
		&lastName,
		&email,
		&mobileNumber,
		&address,
		&contractType,
		&employmentBasis,
		&role,
		&startDate,
		&finishDate,
		&ongoing,
		&hoursPerWeek,
		&thumbnailURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp := &employee.Employee{
		ID:                 id,
		FirstName:          firstName,
		MiddleName:         stringPtr(middleName),
		LastName:           lastName,
		Email:              email,
		MobileNumber:       stringPtr(mobileNumber),
		ResidentialAddress: stringPtr(address),
		ContractType:       employee.ContractType(contractType),
		EmploymentBasis:    employee.EmploymentBasis(employmentBasis),
		Role:               employee.Role(role),
		FinishDate:         datePtr(finishDate),
		Ongoing:            ongoing,
		ThumbnailURL:       stringPtr(thumbnailURL),
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
	if startDate.Valid {
		emp.StartDate = employee.DateOf(startDate.Time.UTC())
	}
	if hoursPerWeek.Valid {
		hours := int(hoursPerWeek.Int32)
		emp.HoursPerWeek = &hours
	}
	return emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == "" || pgErr.ConstraintName == employeeEmailConstraint {
				return employee.ErrEmailAlreadyExists
			}
			return fmt.Errorf("%w: %s", employee.ErrConflict, pgErr.ConstraintName)
		case checkViolationCode:
			if pgErr.ConstraintName == "employees_finish_after_start" {
				return employee.ErrFinishBeforeStart
			}
			return fmt.Errorf("%w: %s", employee.ErrValidationFailed, pgErr.ConstraintName)
		}
	}

	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return employee.DateOf(*value)
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func datePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	d := employee.DateOf(v.Time.UTC())
	return &d
}
