package service

import (
	"context"
	"fmt"
	"io"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/pkg/simpleexcel"
)

// Section IDs a report layout binds data to.
const (
	SectionOverview    = "overview"
	SectionDepartments = "departments"
	SectionEmployees   = "employees"
)

// DefaultReportLayout is used when no layout file is configured.
const DefaultReportLayout = `
sheets:
  - name: "Department Report"
    sections:
      - id: "overview"
        title: "Overall Employee Distribution by Department"
        show_header: true
        title_style:
          font:
            bold: true
        header_style:
          font:
            bold: true
        columns:
          - field_name: "DepartmentCount"
            header: "Departments"
            width: 22
          - field_name: "TotalEmployees"
            header: "Total Employees"
            width: 28
      - id: "departments"
        title: "Departments"
        show_header: true
        title_style:
          font:
            bold: true
        header_style:
          font:
            bold: true
          fill:
            color: "#DDEBF7"
        columns:
          - field_name: "Department"
            header: "Department"
          - field_name: "EmployeeCount"
            header: "Employees"
          - field_name: "TotalSalary"
            header: "Total Salary"
            width: 18
            number_format: "#,##0.00"
      - id: "employees"
        title: "Employees"
        show_header: true
        title_style:
          font:
            bold: true
        header_style:
          font:
            bold: true
          fill:
            color: "#DDEBF7"
        columns:
          - field_name: "Department"
            header: "Department"
          - field_name: "ID"
            header: "Employee ID"
          - field_name: "Name"
            header: "Name"
          - field_name: "Salary"
            header: "Salary"
            number_format: "#,##0.00"
          - field_name: "Email"
            header: "Email"
            width: 30
`

// DepartmentGrouper is the read view the report is built from.
type DepartmentGrouper interface {
	GroupByDepartment(ctx context.Context) []domain.DepartmentGroup
}

// ReportEngine builds read-only reports over the record store.
type ReportEngine struct {
	store      DepartmentGrouper
	layoutPath string
}

// NewReportEngine creates a report engine. layoutPath optionally points to a
// YAML layout replacing DefaultReportLayout.
func NewReportEngine(store DepartmentGrouper, layoutPath string) *ReportEngine {
	return &ReportEngine{store: store, layoutPath: layoutPath}
}

// SummaryByDepartment returns per-department counts and exact salary totals
// plus overall totals.
func (r *ReportEngine) SummaryByDepartment(ctx context.Context) domain.DepartmentReport {
	groups := r.store.GroupByDepartment(ctx)

	report := domain.DepartmentReport{
		Departments: make([]domain.DepartmentSummary, 0, len(groups)),
	}
	for _, g := range groups {
		var total domain.Salary
		for _, e := range g.Employees {
			total += e.Salary
		}
		report.Departments = append(report.Departments, domain.DepartmentSummary{
			Department:    g.Department,
			EmployeeCount: len(g.Employees),
			TotalSalary:   total,
			Employees:     g.Employees,
		})
		report.TotalEmployees += len(g.Employees)
	}
	report.DepartmentCount = len(report.Departments)
	return report
}

type overviewRow struct {
	DepartmentCount int
	TotalEmployees  int
}

type departmentRow struct {
	Department    string
	EmployeeCount int
	TotalSalary   float64
}

type employeeRow struct {
	Department string
	ID         string
	Name       string
	Salary     float64
	Email      string
	Contact    string
}

// ExportDepartmentReport writes the department report as an xlsx workbook to w.
func (r *ReportEngine) ExportDepartmentReport(ctx context.Context, w io.Writer) error {
	exporter, err := r.newExporter()
	if err != nil {
		return err
	}

	report := r.SummaryByDepartment(ctx)

	departments := make([]departmentRow, 0, len(report.Departments))
	var employees []employeeRow
	for _, d := range report.Departments {
		departments = append(departments, departmentRow{
			Department:    d.Department,
			EmployeeCount: d.EmployeeCount,
			TotalSalary:   d.TotalSalary.Float(),
		})
		for _, e := range d.Employees {
			employees = append(employees, employeeRow{
				Department: d.Department,
				ID:         e.ID,
				Name:       e.Name,
				Salary:     e.Salary.Float(),
				Email:      e.Email,
				Contact:    e.Contact,
			})
		}
	}

	exporter.
		BindSectionData(SectionOverview, []overviewRow{{DepartmentCount: report.DepartmentCount, TotalEmployees: report.TotalEmployees}}).
		BindSectionData(SectionDepartments, departments).
		BindSectionData(SectionEmployees, employees)

	if err := exporter.ToWriter(w); err != nil {
		return fmt.Errorf("export department report: %w", err)
	}
	logger.InfoLog(ctx, "Exported department report with %d departments", report.DepartmentCount)
	return nil
}

func (r *ReportEngine) newExporter() (*simpleexcel.DataExporter, error) {
	if r.layoutPath != "" {
		exporter, err := simpleexcel.NewDataExporterFromYamlFile(r.layoutPath)
		if err != nil {
			return nil, fmt.Errorf("load report layout %s: %w", r.layoutPath, err)
		}
		return exporter, nil
	}
	return simpleexcel.NewDataExporterFromYamlConfig(DefaultReportLayout)
}
