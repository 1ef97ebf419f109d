package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateDepartment(ctx context.Context, name string) (*Department, error) {
	var dep Department
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (department_name)
    VALUES ($1)
    RETURNING department_id, department_name
  `, name).Scan(&dep.ID, &dep.Name)
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department_id, department_name
    FROM departments
    ORDER BY department_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Department, 0, 8)
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

// CreateEmployee inserts without checking that the department exists; the
// foreign key constraint is the authority and its violation (23503) is the
// caller's signal that the department id is invalid.
func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (*Employee, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_name, designation, date_of_joining, contact, is_active, department_id)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING employee_id
  `, emp.Name, emp.Designation, emp.DateOfJoining, emp.Contact, emp.IsActive, emp.DepartmentID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetEmployee(ctx, id)
}

// GetEmployee returns the employee with its department fully populated, or
// (nil, nil) when the id is unknown.
func (s *Store) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT e.employee_id, e.employee_name, e.designation, e.date_of_joining,
           e.contact, e.is_active, e.department_id,
           d.department_id, d.department_name
    FROM employees e
    JOIN departments d ON e.department_id = d.department_id
    WHERE e.employee_id = $1
  `, id).Scan(
		&emp.ID, &emp.Name, &emp.Designation, &emp.DateOfJoining,
		&emp.Contact, &emp.IsActive, &emp.DepartmentID,
		&emp.Department.ID, &emp.Department.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.employee_id, e.employee_name, e.designation, e.date_of_joining,
           e.contact, e.is_active, e.department_id,
           d.department_id, d.department_name
    FROM employees e
    JOIN departments d ON e.department_id = d.department_id
    ORDER BY e.employee_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Employee, 0, 16)
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.Designation, &emp.DateOfJoining,
			&emp.Contact, &emp.IsActive, &emp.DepartmentID,
			&emp.Department.ID, &emp.Department.Name,
		); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// UpdateEmployee applies only the fields present in the patch; COALESCE keeps
// the stored value for every nil field. Returns (nil, nil) on unknown id.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, patch EmployeePatch) (*Employee, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_name = COALESCE($1, employee_name),
        designation = COALESCE($2, designation),
        date_of_joining = COALESCE($3, date_of_joining),
        contact = COALESCE($4, contact),
        is_active = COALESCE($5, is_active),
        department_id = COALESCE($6, department_id)
    WHERE employee_id = $7
  `, patch.Name, patch.Designation, patch.DateOfJoining, patch.Contact, patch.IsActive, patch.DepartmentID, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetEmployee(ctx, id)
}

// DeleteEmployee removes the employee and returns its prior state, or
// (nil, nil) when the id is unknown.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) (*Employee, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil || emp == nil {
		return nil, err
	}
	if _, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE employee_id = $1", id); err != nil {
		return nil, err
	}
	return emp, nil
}
