// Package database fills and empties the employee data file through the
// record store, so seeded rows pass the same validation and save path as
// records entered at the menu.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/pkg/dataflow"
)

// SeedTarget is the part of the record store the seeder writes through.
type SeedTarget interface {
	Add(ctx context.Context, candidate domain.Employee) (domain.Employee, error)
	Remove(ctx context.Context, id string, confirmed bool) (domain.Employee, error)
	ListAll(ctx context.Context) []domain.Employee
}

type DataSeeder struct {
	store SeedTarget
}

func NewDataSeeder(store SeedTarget) *DataSeeder {
	return &DataSeeder{store: store}
}

var (
	firstNames  = []string{"Ann", "Bao", "Carlos", "Dana", "Elif", "Farah", "Goran", "Hana", "Ivan", "Julia"}
	lastNames   = []string{"Nguyen", "Smith", "Garcia", "Tanaka", "Kim", "Muller", "Rossi", "Silva", "Chen", "Okafor"}
	departments = []string{"Engineering", "Sales", "Finance", "Human Resources", "R-and-D", "Support"}
)

// SeedStats summarizes a seeding run.
type SeedStats struct {
	Added   int
	Skipped int
	Elapsed time.Duration
}

// SeedData generates count sample employees with IDs SEED00001 and up.
// IDs that already exist are skipped.
func (ds *DataSeeder) SeedData(ctx context.Context, count int) (SeedStats, error) {
	start := time.Now()
	var stats SeedStats
	if count <= 0 {
		return stats, nil
	}

	indexes := make([]int, count)
	for i := range indexes {
		indexes[i] = i + 1
	}

	// the filter stage runs concurrently with Add, so it reads a snapshot
	existing := make(map[string]struct{})
	for _, e := range ds.store.ListAll(ctx) {
		existing[e.ID] = struct{}{}
	}

	var skipped atomic.Int64
	candidates := dataflow.Map(ctx, dataflow.From(ctx, indexes...), func(i int) (domain.Employee, error) {
		return SampleEmployee(i), nil
	}, dataflow.WithWorkers(4), dataflow.WithBufferSize(64))

	fresh := dataflow.Filter(ctx, candidates, func(e domain.Employee) bool {
		if _, ok := existing[e.ID]; ok {
			skipped.Add(1)
			return false
		}
		return true
	})

	// the store is single writer, so records are added by one worker
	err := dataflow.ForEach(ctx, fresh, func(e domain.Employee) error {
		if _, err := ds.store.Add(ctx, e); err != nil {
			return fmt.Errorf("add %s: %w", e.ID, err)
		}
		stats.Added++
		return nil
	}, dataflow.WithErrorHandler(func(err error) bool {
		if errors.Is(err, domain.ErrDuplicateID) {
			skipped.Add(1)
			return true
		}
		return false
	}))

	stats.Skipped = int(skipped.Load())
	stats.Elapsed = time.Since(start)
	if err != nil {
		return stats, fmt.Errorf("failed to seed employees: %w", err)
	}
	logger.InfoLog(ctx, "Seeded %d employees (%d skipped) in %v", stats.Added, stats.Skipped, stats.Elapsed)
	return stats, nil
}

// ClearData removes every employee and returns how many were removed.
func (ds *DataSeeder) ClearData(ctx context.Context) (int, error) {
	removed := 0
	for _, e := range ds.store.ListAll(ctx) {
		if _, err := ds.store.Remove(ctx, e.ID, true); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", e.ID, err)
		}
		removed++
	}
	logger.InfoLog(ctx, "Cleared %d employees", removed)
	return removed, nil
}

// SampleEmployee builds the i-th sample record. The result only depends on i.
func SampleEmployee(i int) domain.Employee {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames))%len(lastNames)]
	units := int64(30000 + (i*7919)%120000)
	cents := int64((i * 37) % 100)

	return domain.Employee{
		ID:         fmt.Sprintf("SEED%05d", i),
		Name:       first + " " + last,
		Department: departments[i%len(departments)],
		Salary:     domain.SalaryFromUnits(units) + domain.Salary(cents),
		Email:      fmt.Sprintf("seed%05d@example.com", i),
		Contact:    fmt.Sprintf("+1-555-%04d", i%10000),
	}
}

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// GetPresetCount returns the number of employees for a preset
func GetPresetCount(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 10
	case PresetMedium:
		return 100
	case PresetLarge:
		return 500
	default:
		return 100
	}
}
