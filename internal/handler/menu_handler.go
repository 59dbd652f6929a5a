package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
)

// RecordService is the part of the record store the menu drives.
type RecordService interface {
	Len() int
	Exists(id string) bool
	FindByID(ctx context.Context, id string) (domain.Employee, error)
	Add(ctx context.Context, candidate domain.Employee) (domain.Employee, error)
	PreviewUpdate(ctx context.Context, id string, changes domain.UpdateFields) (domain.Employee, error)
	Update(ctx context.Context, id string, changes domain.UpdateFields, confirmed bool) (domain.Employee, error)
	Remove(ctx context.Context, id string, confirmed bool) (domain.Employee, error)
	ListAll(ctx context.Context) []domain.Employee
	Flush(ctx context.Context) error
}

// ReportService renders department reports.
type ReportService interface {
	SummaryByDepartment(ctx context.Context) domain.DepartmentReport
	ExportDepartmentReport(ctx context.Context, w io.Writer) error
}

var errInterrupted = errors.New("session interrupted")

type menuItem struct {
	key    string
	label  string
	action string
	run    func(ctx context.Context) error
}

// MenuHandler runs the interactive menu over a line based reader and writer.
type MenuHandler struct {
	store      RecordService
	reports    ReportService
	exportPath string

	in    *bufio.Scanner
	out   io.Writer
	lines chan string
	stop  chan struct{}
	items []menuItem
}

// NewMenuHandler wires the menu to its services. When exportPath is set the
// department report is also written there as an xlsx workbook.
func NewMenuHandler(store RecordService, reports ReportService, in io.Reader, out io.Writer, exportPath string) *MenuHandler {
	h := &MenuHandler{
		store:      store,
		reports:    reports,
		exportPath: exportPath,
		in:         bufio.NewScanner(in),
		out:        out,
	}
	h.items = []menuItem{
		{key: "1", label: "Add Employee", action: "add", run: h.addEmployee},
		{key: "2", label: "View Employee", action: "view", run: h.viewEmployee},
		{key: "3", label: "Update Employee", action: "update", run: h.updateEmployee},
		{key: "4", label: "Delete Employee", action: "delete", run: h.deleteEmployee},
		{key: "5", label: "List All Employees", action: "list", run: h.listEmployees},
		{key: "6", label: "Department Wise Report", action: "report", run: h.departmentReport},
	}
	return h
}

// Run shows the menu until the operator exits, input ends or ctx is cancelled.
// The collection is flushed once on the way out and the flush error returned.
func (h *MenuHandler) Run(ctx context.Context) error {
	h.startReader()
	defer close(h.stop)

	h.println("\nWelcome to the BitFutura Employee Management System")

	for {
		h.printMenu()
		choice, err := h.prompt(ctx, "Enter your choice (1-7): ")
		if err != nil {
			return h.exit(ctx, err)
		}
		if choice == "7" {
			return h.exit(ctx, nil)
		}

		item, ok := h.lookup(choice)
		if !ok {
			h.println("Invalid choice. Please enter a number between 1 and 7.")
			continue
		}

		actx := logger.WithLogger(ctx, map[string]interface{}{
			"action":    item.action,
			"action_id": uuid.NewString(),
		})
		logger.DebugLog(actx, "Menu action selected")
		if err := item.run(actx); err != nil {
			return h.exit(ctx, err)
		}
	}
}

func (h *MenuHandler) printMenu() {
	h.println("\n--- Main Menu ---")
	for _, item := range h.items {
		h.printf("%s. %s\n", item.key, item.label)
	}
	h.println("7. Exit")
}

func (h *MenuHandler) lookup(choice string) (menuItem, bool) {
	for _, item := range h.items {
		if item.key == choice {
			return item, true
		}
	}
	return menuItem{}, false
}

func (h *MenuHandler) exit(ctx context.Context, cause error) error {
	switch {
	case cause == nil:
		h.println("Exiting Employee Management System. Saving data...")
	case errors.Is(cause, errInterrupted):
		h.println("\nInterrupted. Saving data...")
	default:
		h.println("\nExiting due to unexpected end of input. Saving data...")
	}

	// ctx may already be cancelled by a signal; the final save must still run.
	if err := h.store.Flush(context.WithoutCancel(ctx)); err != nil {
		h.printf("Data could not be saved: %s\n", describe(err))
		return err
	}
	h.println("Goodbye!")
	return nil
}

func (h *MenuHandler) startReader() {
	h.lines = make(chan string)
	h.stop = make(chan struct{})

	go func() {
		defer close(h.lines)
		for h.in.Scan() {
			select {
			case h.lines <- h.in.Text():
			case <-h.stop:
				return
			}
		}
		if err := h.in.Err(); err != nil {
			logger.ErrorLog(context.Background(), "Reading input failed", err)
		}
	}()
}

// prompt writes label and waits for the next trimmed input line. It returns
// io.EOF when input ends and errInterrupted when ctx is done.
func (h *MenuHandler) prompt(ctx context.Context, label string) (string, error) {
	h.printf("%s", label)
	select {
	case <-ctx.Done():
		h.println("")
		return "", errInterrupted
	case line, ok := <-h.lines:
		if !ok {
			h.println("")
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (h *MenuHandler) confirm(ctx context.Context, label string) (bool, error) {
	answer, err := h.prompt(ctx, label)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y", nil
}

func (h *MenuHandler) printf(format string, args ...interface{}) {
	fmt.Fprintf(h.out, format, args...)
}

func (h *MenuHandler) println(s string) {
	fmt.Fprintln(h.out, s)
}

// askValid prompts until parse accepts the input.
func askValid[T any](ctx context.Context, h *MenuHandler, label string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := h.prompt(ctx, label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(raw)
		if err == nil {
			return v, nil
		}
		h.printf("Validation failed: %s\n", describe(err))
	}
}

// describe turns a core error into an operator facing message.
func describe(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrDuplicateID):
		return "Employee ID already exists. Please enter a unique ID."
	case errors.Is(err, domain.ErrNotFound):
		return "Employee not found."
	case errors.Is(err, domain.ErrNoChanges):
		return "No changes entered."
	case errors.Is(err, domain.ErrCancelled):
		return "Operation cancelled."
	case errors.Is(err, domain.ErrPersistenceFailed):
		return "The data file could not be written, so the change was not applied. Please try again."
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
