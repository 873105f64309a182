package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/store"
)

// EmployeeService manages employee documents. Employees are never deleted.
type EmployeeService struct {
	records *records.Fetcher
	writer  store.Writer
	logger  *log.Logger
	Rand    RandIntN
}

func NewEmployeeService(r *records.Fetcher, w store.Writer, logger *log.Logger) *EmployeeService {
	return &EmployeeService{
		records: r,
		writer:  w,
		logger:  logger.WithComponent(log.ComponentEmployee),
		Rand:    defaultRand,
	}
}

// List returns employees whose name contains query, case-insensitively,
// sorted by name.
func (s *EmployeeService) List(ctx context.Context, query string) ([]core.Employee, error) {
	all, err := s.records.Employees(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]core.Employee, 0, len(all))
	for _, e := range all {
		if q == "" || strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (core.Employee, error) {
	return s.records.Employee(ctx, id)
}

// Create validates e, assigns a new employeeId and stores it.
func (s *EmployeeService) Create(ctx context.Context, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, err
	}
	e.EmployeeID = EmployeeID(e.Name, s.Rand)

	id, err := s.writer.Create(ctx, store.Employees, records.EncodeEmployee(e))
	if err != nil {
		return core.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	e.ID = id
	s.logger.InfoContext(ctx, "Employee created",
		log.FieldDocumentID, id,
		"employee_id", e.EmployeeID,
		log.FieldOperation, log.OpCreate)
	return e, nil
}

// Update replaces every submitted field of an existing employee. The document
// id and the employeeId are kept.
func (s *EmployeeService) Update(ctx context.Context, id string, e core.Employee) (core.Employee, error) {
	existing, err := s.records.Employee(ctx, id)
	if err != nil {
		return core.Employee{}, err
	}
	e.ID = existing.ID
	e.EmployeeID = existing.EmployeeID
	if err := e.Validate(); err != nil {
		return core.Employee{}, err
	}

	if err := s.writer.Replace(ctx, store.Employees, id, records.EncodeEmployee(e)); err != nil {
		return core.Employee{}, fmt.Errorf("update employee %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Employee updated", log.FieldDocumentID, id, log.FieldOperation, log.OpUpdate)
	return e, nil
}
