package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/validator"
)

// RecordStore owns the in-memory employee collection. Every committed mutation
// is persisted; when persisting fails the in-memory change is undone, so the
// collection always matches the last successful save.
//
// A RecordStore is driven by a single session and is not safe for concurrent use.
type RecordStore struct {
	employees []domain.Employee // insertion order
	index     map[string]int    // id -> position in employees

	persistence domain.PersistenceGateway
	notifier    domain.NotificationGateway
}

// NewRecordStore loads the persisted collection. A load error is returned as is
// and should stop the program.
func NewRecordStore(ctx context.Context, persistence domain.PersistenceGateway, notifier domain.NotificationGateway) (*RecordStore, error) {
	loaded, err := persistence.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	s := &RecordStore{
		employees:   make([]domain.Employee, 0, len(loaded)),
		index:       make(map[string]int, len(loaded)),
		persistence: persistence,
		notifier:    notifier,
	}
	for _, e := range loaded {
		if _, dup := s.index[e.ID]; dup {
			logger.WarnLog(ctx, "Ignoring duplicate employee %s from storage", e.ID)
			continue
		}
		s.index[e.ID] = len(s.employees)
		s.employees = append(s.employees, e)
	}
	return s, nil
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	return len(s.employees)
}

// FindByID returns a copy of the employee with the given id.
// IDs are compared case-sensitively.
func (s *RecordStore) FindByID(_ context.Context, id string) (domain.Employee, error) {
	i, ok := s.index[strings.TrimSpace(id)]
	if !ok {
		return domain.Employee{}, fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return s.employees[i], nil
}

// Exists reports whether id is taken.
func (s *RecordStore) Exists(id string) bool {
	_, ok := s.index[strings.TrimSpace(id)]
	return ok
}

// Add validates and inserts a new employee, persists the collection and then
// notifies about the creation. Notification failures are logged only.
func (s *RecordStore) Add(ctx context.Context, candidate domain.Employee) (domain.Employee, error) {
	e, err := validator.ValidateEmployee(candidate)
	if err != nil {
		return domain.Employee{}, err
	}
	if _, dup := s.index[e.ID]; dup {
		return domain.Employee{}, fmt.Errorf("id %q: %w", e.ID, domain.ErrDuplicateID)
	}

	s.index[e.ID] = len(s.employees)
	s.employees = append(s.employees, e)

	if err := s.save(ctx); err != nil {
		s.employees = s.employees[:len(s.employees)-1]
		delete(s.index, e.ID)
		return domain.Employee{}, err
	}
	logger.InfoLog(ctx, "Employee '%s' (ID: %s) has been successfully added", e.Name, e.ID)

	if s.notifier != nil {
		if err := s.notifier.NotifyCreated(ctx, e); err != nil {
			logger.ErrorLog(ctx, "Confirmation email was not sent", err)
		}
	}
	return e, nil
}

// PreviewUpdate returns the record as it would look after applying changes,
// without modifying the store.
func (s *RecordStore) PreviewUpdate(ctx context.Context, id string, changes domain.UpdateFields) (domain.Employee, error) {
	_, candidate, err := s.prepareUpdate(ctx, id, changes)
	if err != nil {
		return domain.Employee{}, err
	}
	if changes.IsEmpty() {
		return domain.Employee{}, fmt.Errorf("update %q: %w", candidate.ID, domain.ErrNoChanges)
	}
	return candidate, nil
}

// Update applies changes to an existing employee. Nothing is modified unless
// confirmed is true.
func (s *RecordStore) Update(ctx context.Context, id string, changes domain.UpdateFields, confirmed bool) (domain.Employee, error) {
	i, candidate, err := s.prepareUpdate(ctx, id, changes)
	if err != nil {
		return domain.Employee{}, err
	}
	if !confirmed {
		return domain.Employee{}, fmt.Errorf("update %q: %w", candidate.ID, domain.ErrCancelled)
	}
	if changes.IsEmpty() {
		return domain.Employee{}, fmt.Errorf("update %q: %w", candidate.ID, domain.ErrNoChanges)
	}

	previous := s.employees[i]
	s.employees[i] = candidate
	if err := s.save(ctx); err != nil {
		s.employees[i] = previous
		return domain.Employee{}, err
	}
	logger.InfoLog(ctx, "Employee %s updated", candidate.ID)
	return candidate, nil
}

func (s *RecordStore) prepareUpdate(ctx context.Context, id string, changes domain.UpdateFields) (int, domain.Employee, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return 0, domain.Employee{}, err
	}
	valid, err := validator.ValidateUpdate(changes)
	if err != nil {
		return 0, domain.Employee{}, err
	}
	return s.index[current.ID], valid.ApplyTo(current), nil
}

// Remove deletes an employee after confirmation and returns the removed record.
func (s *RecordStore) Remove(ctx context.Context, id string, confirmed bool) (domain.Employee, error) {
	e, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Employee{}, err
	}
	if !confirmed {
		return domain.Employee{}, fmt.Errorf("delete %q: %w", e.ID, domain.ErrCancelled)
	}

	previous := s.employees
	pos := s.index[e.ID]
	remaining := make([]domain.Employee, 0, len(previous)-1)
	remaining = append(remaining, previous[:pos]...)
	remaining = append(remaining, previous[pos+1:]...)

	s.employees = remaining
	s.reindex()
	if err := s.save(ctx); err != nil {
		s.employees = previous
		s.reindex()
		return domain.Employee{}, err
	}
	logger.InfoLog(ctx, "Employee with ID '%s' has been successfully deleted", e.ID)
	return e, nil
}

// ListAll returns every employee sorted by ID.
func (s *RecordStore) ListAll(_ context.Context) []domain.Employee {
	out := s.snapshot()
	sortByID(out)
	return out
}

// GroupByDepartment returns the employees grouped by department. Department
// names are matched case-insensitively; a group is labelled with the spelling
// used by its lowest ID. Groups are ordered alphabetically, members by ID.
func (s *RecordStore) GroupByDepartment(ctx context.Context) []domain.DepartmentGroup {
	groups := make(map[string]*domain.DepartmentGroup)
	var keys []string

	for _, e := range s.ListAll(ctx) {
		key := strings.ToLower(e.Department)
		g, ok := groups[key]
		if !ok {
			g = &domain.DepartmentGroup{Department: e.Department}
			groups[key] = g
			keys = append(keys, key)
		}
		g.Employees = append(g.Employees, e)
	}

	sort.Strings(keys)

	out := make([]domain.DepartmentGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

// Flush persists the current collection unconditionally. Used on exit.
func (s *RecordStore) Flush(ctx context.Context) error {
	return s.save(ctx)
}

func (s *RecordStore) save(ctx context.Context) error {
	if err := s.persistence.Save(ctx, s.snapshot()); err != nil {
		logger.ErrorLog(ctx, "An I/O error occurred while saving data", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}
	return nil
}

func (s *RecordStore) snapshot() []domain.Employee {
	out := make([]domain.Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

func (s *RecordStore) reindex() {
	s.index = make(map[string]int, len(s.employees))
	for i, e := range s.employees {
		s.index[e.ID] = i
	}
}

func sortByID(employees []domain.Employee) {
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].ID < employees[j].ID
	})
}
