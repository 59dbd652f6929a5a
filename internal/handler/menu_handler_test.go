package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/repository"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/service"
)

type session struct {
	handler *MenuHandler
	store   *service.RecordStore
	out     *bytes.Buffer
	repo    domain.PersistenceGateway
	dir     string
}

func ann() domain.Employee {
	return domain.Employee{ID: "E1", Name: "Ann", Department: "Eng", Salary: domain.SalaryFromUnits(90000), Email: "a@x.com", Contact: "555-0100"}
}

func newSession(t *testing.T, input string, seed ...domain.Employee) *session {
	t.Helper()
	logger.SetLogger(zerolog.Nop())

	ctx := context.Background()
	dir := t.TempDir()
	repo := repository.NewCSVEmployeeRepository(filepath.Join(dir, "employees.csv"))
	if len(seed) > 0 {
		require.NoError(t, repo.Save(ctx, seed))
	}

	store, err := service.NewRecordStore(ctx, repo, nil)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	exportPath := filepath.Join(dir, "report.xlsx")
	h := NewMenuHandler(store, service.NewReportEngine(store, ""), strings.NewReader(input), out, exportPath)
	return &session{handler: h, store: store, out: out, repo: repo, dir: dir}
}

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestAddRepromptsUntilValid(t *testing.T) {
	s := newSession(t, script(
		"1",
		"E-1", "E1",
		"B0b", "Bob",
		"Eng",
		"-5", "abc", "1000.5",
		"bob.x.com", "bob@x.com",
		"", "555",
		"7",
	))

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "Validation failed: Employee ID: must be alphanumeric")
	assert.Contains(t, out, "Validation failed: Name: must contain only alphabetic characters and spaces")
	assert.Contains(t, out, "Validation failed: Salary: cannot be negative")
	assert.Contains(t, out, "Validation failed: Email: must contain exactly one '@'")
	assert.Contains(t, out, "Validation failed: Contact Details: cannot be empty")
	assert.Contains(t, out, "Confirmation: Employee 'Bob' (ID: E1) has been successfully added.")
	assert.Contains(t, out, "Goodbye!")

	e, err := s.store.FindByID(context.Background(), "E1")
	require.NoError(t, err)
	assert.Equal(t, "1000.50", e.Salary.String())

	saved, err := s.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Employee{e}, saved)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s := newSession(t, script("1", "E1", "E2", "Bob", "Ops", "10", "b@x.com", "1", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	assert.Contains(t, s.out.String(), "Validation failed: Employee ID already exists.")
	assert.Equal(t, 2, s.store.Len())
}

func TestInvalidChoiceThenEndOfInput(t *testing.T) {
	s := newSession(t, script("9", "abc"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please enter a number between 1 and 7."))
	assert.Contains(t, out, "Exiting due to unexpected end of input. Saving data...")
	assert.Contains(t, out, "Goodbye!")
}

func TestEndOfInputDuringAddStillSaves(t *testing.T) {
	s := newSession(t, script("1", "E2", "Bob"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	assert.Contains(t, s.out.String(), "Exiting due to unexpected end of input")
	assert.Equal(t, 1, s.store.Len())
}

func TestViewEmployee(t *testing.T) {
	s := newSession(t, script("2", "E1", "2", "E9", "2", "bad id", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "Employee Details:")
	assert.Contains(t, out, "  Salary: 90000.00")
	assert.Contains(t, out, "  Contact Details: 555-0100")
	assert.Contains(t, out, "Error: Employee not found with ID 'E9'.")
	assert.Contains(t, out, "Invalid input: Employee ID: must be alphanumeric")
}

func TestViewOnEmptyStore(t *testing.T) {
	s := newSession(t, script("2", "7"))

	require.NoError(t, s.handler.Run(context.Background()))

	assert.Contains(t, s.out.String(), "No employee records available to view.")
}

func TestUpdateConfirmed(t *testing.T) {
	// name, department, salary, email, contact, confirm
	s := newSession(t, script("3", "E1", "", "", "95000", "", "", "y", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "Enter new Salary (90000.00): ")
	assert.Contains(t, out, "Preview of updated details:")
	assert.Contains(t, out, "Employee details updated successfully.")

	e, err := s.store.FindByID(context.Background(), "E1")
	require.NoError(t, err)
	assert.Equal(t, domain.SalaryFromUnits(95000), e.Salary)
	assert.Equal(t, "Ann", e.Name)
}

func TestUpdateDeclined(t *testing.T) {
	s := newSession(t, script("3", "E1", "Bob", "", "", "", "", "no", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	assert.Contains(t, s.out.String(), "Update cancelled. No changes were saved.")
	e, _ := s.store.FindByID(context.Background(), "E1")
	assert.Equal(t, "Ann", e.Name)
}

func TestUpdateWithoutChanges(t *testing.T) {
	s := newSession(t, script("3", "E1", "", "", "", "", "", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "No changes entered. Update cancelled.")
	assert.NotContains(t, out, "Save these changes?")
}

func TestUpdateAbortsOnInvalidField(t *testing.T) {
	s := newSession(t, script("3", "E1", "", "", "lots", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "Update aborted: Invalid Salary - must be a valid number")
	assert.NotContains(t, out, "Enter new Email")
	e, _ := s.store.FindByID(context.Background(), "E1")
	assert.Equal(t, ann(), e)
}

func TestDeleteEmployee(t *testing.T) {
	s := newSession(t, script("4", "E1", "no", "4", "E1", "YES", "7"), ann())

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "Employee Details to Delete:")
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Contains(t, out, "Employee with ID 'E1' has been successfully deleted.")
	assert.Zero(t, s.store.Len())

	saved, err := s.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestListEmployees(t *testing.T) {
	bob := domain.Employee{ID: "A7", Name: "Bob", Department: "Ops", Salary: 100, Email: "b@x.com", Contact: "1"}
	s := newSession(t, script("5", "7"), ann(), bob)

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Less(t, strings.Index(out, "A7 "), strings.Index(out, "E1 "))
	assert.Contains(t, out, "Total Employees: 2")
}

func TestListOnEmptyStore(t *testing.T) {
	s := newSession(t, script("5", "7"))

	require.NoError(t, s.handler.Run(context.Background()))

	assert.Contains(t, s.out.String(), "No employee records found.")
}

func TestDepartmentReportPrintsAndExports(t *testing.T) {
	bob := domain.Employee{ID: "E2", Name: "Bob", Department: "eng", Salary: 50, Email: "b@x.com", Contact: "1"}
	s := newSession(t, script("6", "7"), ann(), bob)

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "--- Department: ENG ---")
	assert.Contains(t, out, "Total Employees in Eng: 2")
	assert.Contains(t, out, "Total Salary for Eng: 90000.50")
	assert.Contains(t, out, "Report Complete. Found 1 departments.")
	assert.Contains(t, out, "Report exported to ")

	info, err := os.Stat(filepath.Join(s.dir, "report.xlsx"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestDepartmentReportOnEmptyStore(t *testing.T) {
	s := newSession(t, script("6", "7"))

	require.NoError(t, s.handler.Run(context.Background()))

	out := s.out.String()
	assert.Contains(t, out, "No employee records available to generate reports.")
	assert.Contains(t, out, "Report Complete. Found 0 departments.")
	assert.Contains(t, out, "Total Employees Across All Departments: 0")
	assert.NotContains(t, out, "--- Department:")
	_, err := os.Stat(filepath.Join(s.dir, "report.xlsx"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInterruptExitsAndSaves(t *testing.T) {
	logger.SetLogger(zerolog.Nop())
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	store := &mockRecordService{}
	store.On("Flush", mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &bytes.Buffer{}
	err := NewMenuHandler(store, nil, pr, out, "").Run(ctx)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Interrupted. Saving data...")
	store.AssertExpectations(t)
}

func TestExitReportsFlushFailure(t *testing.T) {
	logger.SetLogger(zerolog.Nop())
	store := &mockRecordService{}
	store.On("Flush", mock.Anything).Return(domain.ErrPersistenceFailed)

	out := &bytes.Buffer{}
	err := NewMenuHandler(store, nil, strings.NewReader("7\n"), out, "").Run(context.Background())

	assert.True(t, errors.Is(err, domain.ErrPersistenceFailed))
	assert.Contains(t, out.String(), "Data could not be saved")
	assert.NotContains(t, out.String(), "Goodbye!")
}

type mockRecordService struct {
	mock.Mock
}

func (m *mockRecordService) Len() int { return m.Called().Int(0) }

func (m *mockRecordService) Exists(id string) bool { return m.Called(id).Bool(0) }

func (m *mockRecordService) FindByID(ctx context.Context, id string) (domain.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Employee), args.Error(1)
}

func (m *mockRecordService) Add(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(domain.Employee), args.Error(1)
}

func (m *mockRecordService) PreviewUpdate(ctx context.Context, id string, changes domain.UpdateFields) (domain.Employee, error) {
	args := m.Called(ctx, id, changes)
	return args.Get(0).(domain.Employee), args.Error(1)
}

func (m *mockRecordService) Update(ctx context.Context, id string, changes domain.UpdateFields, confirmed bool) (domain.Employee, error) {
	args := m.Called(ctx, id, changes, confirmed)
	return args.Get(0).(domain.Employee), args.Error(1)
}

func (m *mockRecordService) Remove(ctx context.Context, id string, confirmed bool) (domain.Employee, error) {
	args := m.Called(ctx, id, confirmed)
	return args.Get(0).(domain.Employee), args.Error(1)
}

func (m *mockRecordService) ListAll(ctx context.Context) []domain.Employee {
	return m.Called(ctx).Get(0).([]domain.Employee)
}

func (m *mockRecordService) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
