package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists employees and attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertEmployee creates an employee or overwrites their details on
// re-registration.
func (r *Repository) UpsertEmployee(ctx context.Context, e Employee) error {
	if e.EmpID == "" {
		return errors.New("emp id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (emp_id, name, role, department, photo_path)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (emp_id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			department = EXCLUDED.department,
			photo_path = EXCLUDED.photo_path,
			updated_at = NOW()
	`, e.EmpID, e.Name, e.Role, e.Department, e.PhotoPath)
	return err
}

// GetEmployee returns an employee by id, or nil when unknown.
func (r *Repository) GetEmployee(ctx context.Context, empID string) (*Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT emp_id, name, role, department, photo_path, created_at
		FROM employees WHERE emp_id = $1
	`, empID)
	var e Employee
	if err := row.Scan(&e.EmpID, &e.Name, &e.Role, &e.Department, &e.PhotoPath, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListEmployees returns all employees ordered by id.
func (r *Repository) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT emp_id, name, role, department, photo_path, created_at
		FROM employees ORDER BY emp_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.EmpID, &e.Name, &e.Role, &e.Department, &e.PhotoPath, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertRecord appends an attendance record.
func (r *Repository) InsertRecord(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, emp_id, emp_name, ts, status, timing_status, recorded_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.EmpID, rec.EmpName, rec.Timestamp.Time, rec.Status, rec.TimingStatus, rec.RecordedTime)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// LatestRecord returns the most recent record for an employee by timestamp,
// or nil when none exists. The lookup spans all history, not just today.
func (r *Repository) LatestRecord(ctx context.Context, empID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, emp_id, emp_name, ts, status, timing_status, recorded_time
		FROM attendance_records
		WHERE emp_id = $1
		ORDER BY ts DESC
		LIMIT 1
	`, empID)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.EmpID, &rec.EmpName, &rec.Timestamp.Time, &rec.Status, &rec.TimingStatus, &rec.RecordedTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListRecords returns all attendance records ordered by timestamp ascending.
func (r *Repository) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, emp_id, emp_name, ts, status, timing_status, recorded_time
		FROM attendance_records ORDER BY ts
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListRecordsInRange returns an employee's records with ts in [start, end),
// ordered by timestamp ascending.
func (r *Repository) ListRecordsInRange(ctx context.Context, empID string, start, end time.Time) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, emp_id, emp_name, ts, status, timing_status, recorded_time
		FROM attendance_records
		WHERE emp_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts
	`, empID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmpID, &rec.EmpName, &rec.Timestamp.Time, &rec.Status, &rec.TimingStatus, &rec.RecordedTime); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
