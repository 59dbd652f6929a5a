package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/validator"
)

const (
	listRule   = 60
	reportRule = 75
)

func (h *MenuHandler) addEmployee(ctx context.Context) error {
	h.println("\n--- Add New Employee ---")

	var (
		e   domain.Employee
		err error
	)
	e.ID, err = askValid(ctx, h, "Enter Employee ID: ", func(raw string) (string, error) {
		id, err := validator.ValidateID(raw)
		if err != nil {
			return "", err
		}
		if h.store.Exists(id) {
			return "", fmt.Errorf("id %q: %w", id, domain.ErrDuplicateID)
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	if e.Name, err = askValid(ctx, h, "Enter Employee Name: ", validator.ValidateName); err != nil {
		return err
	}
	if e.Department, err = askValid(ctx, h, "Enter Department: ", validator.ValidateDepartment); err != nil {
		return err
	}
	if e.Salary, err = askValid(ctx, h, "Enter Salary: ", validator.ValidateSalary); err != nil {
		return err
	}
	if e.Email, err = askValid(ctx, h, "Enter Employee Email: ", validator.ValidateEmail); err != nil {
		return err
	}
	if e.Contact, err = askValid(ctx, h, "Enter Contact Details (e.g., Phone/Address): ", validator.ValidateContact); err != nil {
		return err
	}

	added, err := h.store.Add(ctx, e)
	if err != nil {
		h.printf("Error adding employee: %s\n", describe(err))
		return nil
	}
	h.printf("\nConfirmation: Employee '%s' (ID: %s) has been successfully added.\n", added.Name, added.ID)
	return nil
}

func (h *MenuHandler) viewEmployee(ctx context.Context) error {
	h.println("\n--- View Employee Details ---")
	e, ok, err := h.selectEmployee(ctx, "view")
	if err != nil || !ok {
		return err
	}

	h.println("\nEmployee Details:")
	h.printDetails(e)
	return nil
}

func (h *MenuHandler) updateEmployee(ctx context.Context) error {
	h.println("\n--- Update Employee Details ---")
	current, ok, err := h.selectEmployee(ctx, "update")
	if err != nil || !ok {
		return err
	}

	h.println("\nCurrent Employee Details:")
	h.printDetails(current)
	h.println("\nEnter new details (press Enter to keep current value):")

	changes, ok, err := h.readChanges(ctx, current)
	if err != nil || !ok {
		return err
	}

	preview, err := h.store.PreviewUpdate(ctx, current.ID, changes)
	if errors.Is(err, domain.ErrNoChanges) {
		h.println("No changes entered. Update cancelled.")
		return nil
	}
	if err != nil {
		h.printf("Update aborted: %s\n", describe(err))
		return nil
	}

	h.println("\nPreview of updated details:")
	h.printf("  Name: %s\n", preview.Name)
	h.printf("  Department: %s\n", preview.Department)
	h.printf("  Salary: %s\n", preview.Salary)
	h.printf("  Email: %s\n", preview.Email)
	h.printf("  Contact Details: %s\n", preview.Contact)

	confirmed, err := h.confirm(ctx, "\nSave these changes? (yes/no): ")
	if err != nil {
		return err
	}

	_, err = h.store.Update(ctx, current.ID, changes, confirmed)
	switch {
	case err == nil:
		h.println("Employee details updated successfully.")
	case errors.Is(err, domain.ErrCancelled):
		h.println("Update cancelled. No changes were saved.")
	default:
		h.printf("An error occurred while saving the update: %s\n", describe(err))
	}
	return nil
}

// readChanges collects the update fields. A blank answer keeps the current
// value; the first invalid answer aborts the update.
func (h *MenuHandler) readChanges(ctx context.Context, current domain.Employee) (domain.UpdateFields, bool, error) {
	var (
		changes domain.UpdateFields
		ok      bool
		err     error
	)
	if changes.Name, ok, err = askChange(ctx, h, domain.FieldName, current.Name, validator.ValidateName); err != nil || !ok {
		return changes, ok, err
	}
	if changes.Department, ok, err = askChange(ctx, h, domain.FieldDepartment, current.Department, validator.ValidateDepartment); err != nil || !ok {
		return changes, ok, err
	}
	if changes.Salary, ok, err = askChange(ctx, h, domain.FieldSalary, current.Salary.String(), validator.ValidateSalary); err != nil || !ok {
		return changes, ok, err
	}
	if changes.Email, ok, err = askChange(ctx, h, domain.FieldEmail, current.Email, validator.ValidateEmail); err != nil || !ok {
		return changes, ok, err
	}
	if changes.Contact, ok, err = askChange(ctx, h, domain.FieldContact, current.Contact, validator.ValidateContact); err != nil || !ok {
		return changes, ok, err
	}
	return changes, true, nil
}

// askChange prompts once for a replacement value. A blank answer yields nil;
// an invalid one is reported and ok is false.
func askChange[T any](ctx context.Context, h *MenuHandler, field domain.Field, shown string, parse func(string) (T, error)) (*T, bool, error) {
	raw, err := h.prompt(ctx, fmt.Sprintf("Enter new %s (%s): ", field, shown))
	if err != nil {
		return nil, false, err
	}
	if raw == "" {
		return nil, true, nil
	}
	v, err := parse(raw)
	if err != nil {
		h.abortUpdate(field, err)
		return nil, false, nil
	}
	return &v, true, nil
}

func (h *MenuHandler) abortUpdate(field domain.Field, err error) {
	reason := err.Error()
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		reason = ve.Reason
	}
	h.printf("Update aborted: Invalid %s - %s\n", field, reason)
}

func (h *MenuHandler) deleteEmployee(ctx context.Context) error {
	h.println("\n--- Delete Employee Record ---")
	e, ok, err := h.selectEmployee(ctx, "delete")
	if err != nil || !ok {
		return err
	}

	h.println("\nEmployee Details to Delete:")
	h.printf("  Employee ID: %s\n", e.ID)
	h.printf("  Name: %s\n", e.Name)
	h.printf("  Department: %s\n", e.Department)

	confirmed, err := h.confirm(ctx, "\nAre you sure you want to permanently delete this employee? (yes/no): ")
	if err != nil {
		return err
	}

	_, err = h.store.Remove(ctx, e.ID, confirmed)
	switch {
	case err == nil:
		h.printf("Employee with ID '%s' has been successfully deleted.\n", e.ID)
	case errors.Is(err, domain.ErrCancelled):
		h.println("Deletion cancelled.")
	default:
		h.printf("An error occurred during deletion: %s\n", describe(err))
	}
	return nil
}

// selectEmployee asks for an ID and looks it up. ok is false when the
// operator was told why no record was selected.
func (h *MenuHandler) selectEmployee(ctx context.Context, verb string) (domain.Employee, bool, error) {
	if h.store.Len() == 0 {
		h.printf("No employee records available to %s.\n", verb)
		return domain.Employee{}, false, nil
	}

	raw, err := h.prompt(ctx, fmt.Sprintf("Enter Employee ID to %s: ", verb))
	if err != nil {
		return domain.Employee{}, false, err
	}
	id, err := validator.ValidateID(raw)
	if err != nil {
		h.printf("Invalid input: %s\n", describe(err))
		return domain.Employee{}, false, nil
	}

	e, err := h.store.FindByID(ctx, id)
	if err != nil {
		h.printf("Error: Employee not found with ID '%s'.\n", id)
		return domain.Employee{}, false, nil
	}
	return e, true, nil
}

func (h *MenuHandler) printDetails(e domain.Employee) {
	h.printf("  Employee ID: %s\n", e.ID)
	h.printf("  Name: %s\n", e.Name)
	h.printf("  Department: %s\n", e.Department)
	h.printf("  Salary: %s\n", e.Salary)
	h.printf("  Email: %s\n", e.Email)
	h.printf("  Contact Details: %s\n", e.Contact)
}

func (h *MenuHandler) listEmployees(ctx context.Context) error {
	h.println("\n--- List All Employees ---")
	employees := h.store.ListAll(ctx)
	if len(employees) == 0 {
		h.println("No employee records found.")
		return nil
	}

	h.printf("%-15s %-25s %-20s\n", "Employee ID", "Name", "Department")
	h.println(strings.Repeat("-", listRule))
	for _, e := range employees {
		h.printf("%-15s %-25s %-20s\n", e.ID, e.Name, e.Department)
	}
	h.println(strings.Repeat("-", listRule))
	h.printf("Total Employees: %d\n", len(employees))
	return nil
}

func (h *MenuHandler) departmentReport(ctx context.Context) error {
	h.println("\n--- Employee Report by Department ---")
	report := h.reports.SummaryByDepartment(ctx)
	rule := strings.Repeat("=", reportRule)
	if report.TotalEmployees == 0 {
		h.println("No employee records available to generate reports.")
		h.reportTotals(report, rule)
		return nil
	}

	line := strings.Repeat("-", reportRule)

	h.println("\n" + rule)
	h.println(" Overall Employee Distribution by Department")
	h.println(rule)
	for _, d := range report.Departments {
		h.printf("\n--- Department: %s ---\n", strings.ToUpper(d.Department))
		h.printf("%-15s %-25s %-15s %-25s\n", "Employee ID", "Name", "Salary", "Email")
		h.println(line)
		for _, e := range d.Employees {
			h.printf("%-15s %-25s %-15s %-25s\n", e.ID, e.Name, e.Salary, e.Email)
		}
		h.println(line)
		h.printf("Total Employees in %s: %d\n", d.Department, d.EmployeeCount)
		h.printf("Total Salary for %s: %s\n", d.Department, d.TotalSalary)
		h.println(line)
	}
	h.reportTotals(report, rule)

	if h.exportPath != "" {
		h.exportReport(ctx)
	}
	return nil
}

func (h *MenuHandler) reportTotals(report domain.DepartmentReport, rule string) {
	h.println("\n" + rule)
	h.printf("Report Complete. Found %d departments.\n", report.DepartmentCount)
	h.printf("Total Employees Across All Departments: %d\n", report.TotalEmployees)
	h.println(rule)
}

func (h *MenuHandler) exportReport(ctx context.Context) {
	f, err := os.Create(h.exportPath)
	if err != nil {
		logger.ErrorLog(ctx, "Failed to create report file", err)
		h.printf("Could not export report: %v\n", err)
		return
	}

	err = h.reports.ExportDepartmentReport(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.ErrorLog(ctx, "Failed to export report", err)
		h.printf("Could not export report: %v\n", err)
		return
	}
	h.printf("Report exported to %s\n", h.exportPath)
}
