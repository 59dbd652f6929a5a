package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ==================== EMPLOYEE RECORDS ====================

// Field identifies a single attribute of an employee record.
type Field string

const (
	FieldID         Field = "Employee ID"
	FieldName       Field = "Name"
	FieldDepartment Field = "Department"
	FieldSalary     Field = "Salary"
	FieldEmail      Field = "Email"
	FieldContact    Field = "Contact Details"
)

// EmployeeFields lists the record attributes in their persisted column order.
var EmployeeFields = []Field{FieldID, FieldName, FieldDepartment, FieldSalary, FieldEmail, FieldContact}

// Employee is the single entity managed by the record store.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Salary     Salary `json:"salary"`
	Email      string `json:"email"`
	Contact    string `json:"contact"`
}

func (e Employee) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Dept: %s, Salary: %s, Email: %s, Contact: %s",
		e.ID, e.Name, e.Department, e.Salary, e.Email, e.Contact)
}

// UpdateFields holds the changes for an update. Nil fields keep their current value.
// The employee ID is immutable and therefore not part of an update.
type UpdateFields struct {
	Name       *string
	Department *string
	Salary     *Salary
	Email      *string
	Contact    *string
}

// IsEmpty reports whether no field is set.
func (u UpdateFields) IsEmpty() bool {
	return u.Name == nil && u.Department == nil && u.Salary == nil && u.Email == nil && u.Contact == nil
}

// ApplyTo returns a copy of e with the set fields replaced.
func (u UpdateFields) ApplyTo(e Employee) Employee {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Department != nil {
		e.Department = *u.Department
	}
	if u.Salary != nil {
		e.Salary = *u.Salary
	}
	if u.Email != nil {
		e.Email = *u.Email
	}
	if u.Contact != nil {
		e.Contact = *u.Contact
	}
	return e
}

// ==================== SALARY ====================

// Salary is an exact monetary amount stored in cents.
type Salary int64

// MaxSalary is the largest amount representable in cents.
const MaxSalary = Salary(math.MaxInt64)

// SalaryFromUnits builds a Salary from whole currency units. Amounts beyond
// the cents range saturate at MaxSalary or -MaxSalary.
func SalaryFromUnits(units int64) Salary {
	switch {
	case units > math.MaxInt64/100:
		return MaxSalary
	case units < -math.MaxInt64/100:
		return -MaxSalary
	}
	return Salary(units * 100)
}

// Cents returns the raw amount in cents.
func (s Salary) Cents() int64 {
	return int64(s)
}

// Float returns the amount as a float, for display and spreadsheet cells only.
func (s Salary) Float() float64 {
	return float64(s) / 100
}

// String formats the amount with exactly two fraction digits, e.g. "90000.00".
func (s Salary) String() string {
	sign := ""
	v := int64(s)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Parse failures of ParseSalary. Their text reads as a reason after the field name.
var (
	ErrSalaryEmpty     = errors.New("cannot be empty")
	ErrSalaryNotNumber = errors.New("must be a valid number (e.g., 50000 or 65000.50)")
	ErrSalaryPrecision = errors.New("must have at most two decimal places")
	ErrSalaryRange     = errors.New("is too large")
)

// ParseSalary parses a decimal amount with at most two significant fraction
// digits, so "90000.000" is accepted and "1.234" is not.
// Negative values parse successfully; range policy belongs to the validator.
func ParseSalary(raw string) (Salary, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrSalaryEmpty
	}
	// decimal accepts exponents, amounts are plain numbers only
	if strings.ContainsAny(s, "eE") {
		return 0, ErrSalaryNotNumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrSalaryNotNumber
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, ErrSalaryPrecision
	}
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, ErrSalaryRange
	}
	return Salary(cents.IntPart()), nil
}

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(-math.MaxInt64)
)

// ==================== REPORTING ====================

// DepartmentGroup is one department with its employees in ID order.
type DepartmentGroup struct {
	Department string
	Employees  []Employee
}

// DepartmentSummary aggregates a single department.
type DepartmentSummary struct {
	Department    string     `json:"department"`
	EmployeeCount int        `json:"employee_count"`
	TotalSalary   Salary     `json:"total_salary"`
	Employees     []Employee `json:"employees"`
}

// DepartmentReport is the department-wise report plus overall totals.
type DepartmentReport struct {
	Departments     []DepartmentSummary `json:"departments"`
	DepartmentCount int                 `json:"department_count"`
	TotalEmployees  int                 `json:"total_employees"`
}
