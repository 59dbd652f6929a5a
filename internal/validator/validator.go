// Package validator holds the pure field checks applied to employee records
// before they enter the record store.
package validator

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
)

const (
	namePattern       = `^[A-Za-z ]+$`
	departmentPattern = `^[A-Za-z0-9 \-]+$`
)

// Validate checks a raw value for the given field and returns its typed form:
// string for text fields, domain.Salary for FieldSalary.
func Validate(field domain.Field, raw string) (interface{}, error) {
	switch field {
	case domain.FieldID:
		return ValidateID(raw)
	case domain.FieldName:
		return ValidateName(raw)
	case domain.FieldDepartment:
		return ValidateDepartment(raw)
	case domain.FieldSalary:
		return ValidateSalary(raw)
	case domain.FieldEmail:
		return ValidateEmail(raw)
	case domain.FieldContact:
		return ValidateContact(raw)
	default:
		return nil, fmt.Errorf("validator: unknown field %q", field)
	}
}

// ValidateID accepts a non-empty ASCII alphanumeric identifier.
// Uniqueness is not checked here; it needs the whole collection.
func ValidateID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", domain.NewValidationError(domain.FieldID, "cannot be empty")
	}
	if !govalidator.IsAlphanumeric(id) {
		return "", domain.NewValidationError(domain.FieldID, "must be alphanumeric (letters and numbers only)")
	}
	return id, nil
}

func ValidateName(raw string) (string, error) {
	name, err := nonBlank(domain.FieldName, raw)
	if err != nil {
		return "", err
	}
	if !govalidator.Matches(name, namePattern) {
		return "", domain.NewValidationError(domain.FieldName, "must contain only alphabetic characters and spaces")
	}
	return name, nil
}

func ValidateDepartment(raw string) (string, error) {
	dept, err := nonBlank(domain.FieldDepartment, raw)
	if err != nil {
		return "", err
	}
	if !govalidator.Matches(dept, departmentPattern) {
		return "", domain.NewValidationError(domain.FieldDepartment, "can only contain letters, numbers, spaces, and hyphens")
	}
	return dept, nil
}

// ValidateSalary accepts a non-negative amount with at most two decimal places.
func ValidateSalary(raw string) (domain.Salary, error) {
	salary, err := domain.ParseSalary(raw)
	if err != nil {
		return 0, domain.NewValidationError(domain.FieldSalary, err.Error())
	}
	if salary < 0 {
		return 0, domain.NewValidationError(domain.FieldSalary, "cannot be negative")
	}
	return salary, nil
}

// ValidateEmail requires exactly one '@' with a non-empty local part and a dotted domain.
func ValidateEmail(raw string) (string, error) {
	email, err := nonBlank(domain.FieldEmail, raw)
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return "", domain.NewValidationError(domain.FieldEmail, "must not contain spaces")
	}
	if strings.Count(email, "@") != 1 {
		return "", domain.NewValidationError(domain.FieldEmail, "must contain exactly one '@'")
	}

	local, host, _ := strings.Cut(email, "@")
	switch {
	case local == "":
		return "", domain.NewValidationError(domain.FieldEmail, "is missing the part before '@'")
	case host == "":
		return "", domain.NewValidationError(domain.FieldEmail, "is missing the domain after '@'")
	case !strings.Contains(host, "."):
		return "", domain.NewValidationError(domain.FieldEmail, "domain must contain a '.'")
	case strings.HasPrefix(host, ".") || strings.HasSuffix(host, "."):
		return "", domain.NewValidationError(domain.FieldEmail, "domain must not start or end with '.'")
	}
	return email, nil
}

func ValidateContact(raw string) (string, error) {
	return nonBlank(domain.FieldContact, raw)
}

// ValidateEmployee checks every field of a candidate and returns the normalized record.
// The first failing field, in column order, is reported.
func ValidateEmployee(e domain.Employee) (domain.Employee, error) {
	var err error
	out := domain.Employee{Salary: e.Salary}

	if out.ID, err = ValidateID(e.ID); err != nil {
		return domain.Employee{}, err
	}
	if out.Name, err = ValidateName(e.Name); err != nil {
		return domain.Employee{}, err
	}
	if out.Department, err = ValidateDepartment(e.Department); err != nil {
		return domain.Employee{}, err
	}
	if err = checkSalary(e.Salary); err != nil {
		return domain.Employee{}, err
	}
	if out.Email, err = ValidateEmail(e.Email); err != nil {
		return domain.Employee{}, err
	}
	if out.Contact, err = ValidateContact(e.Contact); err != nil {
		return domain.Employee{}, err
	}
	return out, nil
}

// ValidateUpdate checks only the fields set on u and returns a normalized copy.
func ValidateUpdate(u domain.UpdateFields) (domain.UpdateFields, error) {
	var out domain.UpdateFields

	if u.Name != nil {
		v, err := ValidateName(*u.Name)
		if err != nil {
			return domain.UpdateFields{}, err
		}
		out.Name = &v
	}
	if u.Department != nil {
		v, err := ValidateDepartment(*u.Department)
		if err != nil {
			return domain.UpdateFields{}, err
		}
		out.Department = &v
	}
	if u.Salary != nil {
		if err := checkSalary(*u.Salary); err != nil {
			return domain.UpdateFields{}, err
		}
		v := *u.Salary
		out.Salary = &v
	}
	if u.Email != nil {
		v, err := ValidateEmail(*u.Email)
		if err != nil {
			return domain.UpdateFields{}, err
		}
		out.Email = &v
	}
	if u.Contact != nil {
		v, err := ValidateContact(*u.Contact)
		if err != nil {
			return domain.UpdateFields{}, err
		}
		out.Contact = &v
	}
	return out, nil
}

func checkSalary(s domain.Salary) error {
	if s < 0 {
		return domain.NewValidationError(domain.FieldSalary, "cannot be negative")
	}
	return nil
}

func nonBlank(field domain.Field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", domain.NewValidationError(field, "cannot be empty")
	}
	return v, nil
}
