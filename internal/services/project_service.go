package services

import (
	"context"
	"fmt"
	"sort"

	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ProjectDetail is a project with its financials computed at read time.
type ProjectDetail struct {
	core.Project
	Financials core.ProjectFinancials `json:"financials"`
}

type ProjectService struct {
	records *records.Fetcher
	writer  store.Writer
	logger  *log.Logger
	Rand    RandIntN
}

func NewProjectService(r *records.Fetcher, w store.Writer, logger *log.Logger) *ProjectService {
	return &ProjectService{
		records: r,
		writer:  w,
		logger:  logger.WithComponent(log.ComponentProject),
		Rand:    defaultRand,
	}
}

func (s *ProjectService) List(ctx context.Context) ([]core.Project, error) {
	projects, err := s.records.Projects(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// Get returns the project with expenses and revenue summed from transactions.
func (s *ProjectService) Get(ctx context.Context, id string) (ProjectDetail, error) {
	p, err := s.records.Project(ctx, id)
	if err != nil {
		return ProjectDetail{}, err
	}
	fin, err := s.Financials(ctx, p)
	if err != nil {
		return ProjectDetail{}, err
	}
	return ProjectDetail{Project: p, Financials: fin}, nil
}

// Financials fetches the project's expenses and revenue earnings once.
func (s *ProjectService) Financials(ctx context.Context, p core.Project) (core.ProjectFinancials, error) {
	key := p.Key()
	var expenses, revenue decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.records.Transactions(gctx, core.Expense, store.Eq("projectId", key))
		expenses = core.ProjectExpenses(txs, key)
		return err
	})
	g.Go(func() error {
		txs, err := s.records.Transactions(gctx, core.Earning, RevenueFilters(key)...)
		revenue = core.ProjectRevenue(txs, key)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.ProjectFinancials{}, err
	}
	return core.NewProjectFinancials(p, expenses, revenue), nil
}

// RevenueFilters selects the "Project Revenue" earnings of a project.
func RevenueFilters(projectKey string) []store.Filter {
	return []store.Filter{
		store.Eq("category", core.ProjectRevenueCategory),
		store.Eq("referenceId", projectKey),
	}
}

// Create validates p, checks that its client and account exist, assigns an
// unused projectId and stores it. Nothing is written when a check fails.
func (s *ProjectService) Create(ctx context.Context, p core.Project) (core.Project, error) {
	if err := s.validate(ctx, p); err != nil {
		return core.Project{}, err
	}

	existing, err := s.records.Projects(ctx)
	if err != nil {
		return core.Project{}, err
	}
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e.ProjectID] = true
	}
	if p.ProjectID, err = UniqueProjectID(p.Name, taken, s.Rand); err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}

	id, err := s.writer.Create(ctx, store.Projects, records.EncodeProject(p))
	if err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}
	p.ID = id
	s.logger.InfoContext(ctx, "Project created",
		log.FieldDocumentID, id,
		log.FieldProjectKey, p.ProjectID,
		log.FieldOperation, log.OpCreate)
	return p, nil
}

// Update replaces an existing project. The document id and projectId are kept.
func (s *ProjectService) Update(ctx context.Context, id string, p core.Project) (core.Project, error) {
	existing, err := s.records.Project(ctx, id)
	if err != nil {
		return core.Project{}, err
	}
	p.ID = existing.ID
	p.ProjectID = existing.ProjectID
	if err := s.validate(ctx, p); err != nil {
		return core.Project{}, err
	}

	if err := s.writer.Replace(ctx, store.Projects, id, records.EncodeProject(p)); err != nil {
		return core.Project{}, fmt.Errorf("update project %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Project updated", log.FieldDocumentID, id, log.FieldOperation, log.OpUpdate)
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.writer.Delete(ctx, store.Projects, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Project deleted", log.FieldDocumentID, id, log.FieldOperation, log.OpDelete)
	return nil
}

// validate combines field checks with reference checks. The clients and
// accounts collections are re-read in full on every submission.
func (s *ProjectService) validate(ctx context.Context, p core.Project) error {
	ve := core.NewValidationError()
	if err := p.Validate(); err != nil && !ve.Merge(err) {
		return err
	}

	var clientOK, accountOK bool
	g, gctx := errgroup.WithContext(ctx)
	if p.ClientID != "" {
		g.Go(func() error {
			clients, err := s.records.Clients(gctx)
			for _, c := range clients {
				if c.ClientID == p.ClientID {
					clientOK = true
				}
			}
			return err
		})
	}
	if p.AccountID != "" {
		g.Go(func() error {
			accounts, err := s.records.Accounts(gctx)
			for _, a := range accounts {
				if a.AccountID == p.AccountID {
					accountOK = true
				}
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if p.ClientID != "" && !clientOK {
		ve.Add("clientId", core.ErrUnknownClient.Error())
	}
	if p.AccountID != "" && !accountOK {
		ve.Add("accountId", core.ErrUnknownAcct.Error())
	}
	return ve.OrNil()
}
