package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/validator"
)

// csvEmployeeRepository persists employees as a flat CSV file, one record per line.
type csvEmployeeRepository struct {
	path string
}

// NewCSVEmployeeRepository creates a PersistenceGateway backed by the file at path.
func NewCSVEmployeeRepository(path string) domain.PersistenceGateway {
	return &csvEmployeeRepository{path: path}
}

func header() []string {
	h := make([]string, len(domain.EmployeeFields))
	for i, f := range domain.EmployeeFields {
		h[i] = string(f)
	}
	return h
}

// Load reads all valid records. A missing file yields an empty collection.
// Rows with a wrong column count, invalid values or a repeated ID are skipped.
func (r *csvEmployeeRepository) Load(ctx context.Context) ([]domain.Employee, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.InfoLog(ctx, "No data file found (%s). Starting with an empty list.", r.path)
		return []domain.Employee{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrIOFailure, r.path, err)
	}
	defer f.Close()

	employees, err := decode(ctx, f)
	if err != nil {
		return nil, err
	}

	logger.InfoLog(ctx, "Successfully loaded %d employee records from %s.", len(employees), r.path)
	return employees, nil
}

func decode(ctx context.Context, src io.Reader) ([]domain.Employee, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	// rows written without quoting may carry a bare " in free text
	reader.LazyQuotes = true

	employees := []domain.Employee{}
	seen := make(map[string]struct{})

	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: %v", domain.ErrIOFailure, err)
			}
			if first && perr.StartLine <= 1 {
				return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
			}
			first = false
			logger.WarnLog(ctx, "Skipping unreadable line %d: %v", perr.Line, perr.Err)
			continue
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		if len(record) != len(domain.EmployeeFields) {
			logger.WarnLog(ctx, "Skipping malformed line %d (expected %d values, got %d)", line, len(domain.EmployeeFields), len(record))
			continue
		}

		emp, err := parseRecord(record)
		if err != nil {
			logger.WarnLog(ctx, "Skipping invalid data on line %d: %v", line, err)
			continue
		}
		if _, dup := seen[emp.ID]; dup {
			logger.WarnLog(ctx, "Duplicate Employee ID '%s' found on line %d. Skipping duplicate.", emp.ID, line)
			continue
		}
		seen[emp.ID] = struct{}{}
		employees = append(employees, emp)
	}
	return employees, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && record[0] == string(domain.FieldID)
}

func parseRecord(record []string) (domain.Employee, error) {
	salary, err := validator.ValidateSalary(record[3])
	if err != nil {
		return domain.Employee{}, err
	}
	return validator.ValidateEmployee(domain.Employee{
		ID:         record[0],
		Name:       record[1],
		Department: record[2],
		Salary:     salary,
		Email:      record[4],
		Contact:    record[5],
	})
}

// Save replaces the file with the given records. The data is written to a
// temporary file in the same directory and renamed over the target.
func (r *csvEmployeeRepository) Save(ctx context.Context, employees []domain.Employee) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", domain.ErrIOFailure, dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := encode(tmp, employees); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrIOFailure, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", domain.ErrIOFailure, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrIOFailure, tmpPath, err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", domain.ErrIOFailure, r.path, err)
	}

	logger.DebugLog(ctx, "Saved %d employee records to %s", len(employees), r.path)
	return nil
}

func encode(dst io.Writer, employees []domain.Employee) error {
	w := csv.NewWriter(dst)
	if err := w.Write(header()); err != nil {
		return err
	}
	for _, e := range employees {
		if err := w.Write([]string{e.ID, e.Name, e.Department, e.Salary.String(), e.Email, e.Contact}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
