// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grants implements the grants-search operations exposed to callers:
// previews, exhaustive summaries, id listings, detail lookups,
// cross-tabulations, and term-frequency analysis. Every operation returns a
// plain result struct; nothing shaped like the remote API leaves this package.
package grants

import (
	"context"
	"log/slog"

	"github.com/pdiddy/grants-reporter/internal/aggregate"
	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/logger"
	"github.com/pdiddy/grants-reporter/internal/pager"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

const (
	// PreviewLimit is the page size of the single page a preview samples.
	PreviewLimit = reporter.MaxPageLimit

	// DetailsLimit is the page size used when fetching full project records.
	DetailsLimit = 10

	// DefaultConcurrency bounds parallel count queries in term-frequency
	// analysis when the config leaves it unset.
	DefaultConcurrency = 4
)

// Service runs grants operations over a page fetcher.
type Service struct {
	Pager *pager.Engine

	// PageLimit is the page size of exhaustive fetches. Zero or anything
	// above reporter.MaxPageLimit selects the cap.
	PageLimit int

	// Concurrency bounds parallel count queries in term-frequency analysis.
	Concurrency int

	Logger *slog.Logger
}

// New returns a Service fetching through f.
func New(f pager.PageFetcher, cfg types.Config) *Service {
	n := cfg.TermFrequency.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Service{
		Pager:       pager.New(f),
		PageLimit:   cfg.Reporter.PageLimit,
		Concurrency: n,
		Logger:      logger.WithComponent("grants"),
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	if id, ok := logger.RequestID(ctx); ok {
		l = l.With("request_id", id)
	}
	return l
}

// ProjectIDs lists project numbers matching a search.
type ProjectIDs struct {
	TotalProjects int      `json:"total_projects" yaml:"total_projects"`
	ProjectNums   []string `json:"project_nums" yaml:"project_nums"`
}

// Projects is a list of project records with the requested fields.
type Projects struct {
	TotalProjects int                   `json:"total_projects" yaml:"total_projects"`
	Fields        []string              `json:"fields,omitempty" yaml:"fields,omitempty"`
	Projects      []types.ProjectRecord `json:"projects" yaml:"projects"`
}

// CrosstabResult is a two-dimensional count and funding table.
type CrosstabResult struct {
	TotalProjects     int                `json:"total_projects" yaml:"total_projects"`
	TabulatedProjects int                `json:"tabulated_projects" yaml:"tabulated_projects"`
	Table             aggregate.Crosstab `json:"table" yaml:"table"`
}

// FindProjectIDs returns every project number matching req.
func (s *Service) FindProjectIDs(ctx context.Context, req criteria.SearchRequest) (ProjectIDs, error) {
	rs, err := s.Pager.All(ctx, pager.Query{
		Request:       req,
		IncludeFields: []reporter.IncludeField{reporter.FieldProjectNum},
		Limit:         s.PageLimit,
	})
	if err != nil {
		return ProjectIDs{}, err
	}
	out := ProjectIDs{TotalProjects: rs.Total, ProjectNums: make([]string, 0, len(rs.Rows))}
	for _, rec := range rs.Rows {
		if n := rec.ProjectNum(); n != "" {
			out.ProjectNums = append(out.ProjectNums, n)
		}
	}
	s.log(ctx).InfoContext(ctx, "found project ids", "total", rs.Total)
	return out, nil
}

// ProjectDetails returns every field of the projects named in req.
func (s *Service) ProjectDetails(ctx context.Context, req criteria.SearchRequest) (Projects, error) {
	if len(req.ProjectNums) == 0 {
		return Projects{}, criteria.NewValidationError("project_nums", "at least one project number is required")
	}
	rs, err := s.Pager.All(ctx, pager.Query{Request: req, Limit: DetailsLimit})
	if err != nil {
		return Projects{}, err
	}
	return Projects{TotalProjects: rs.Total, Projects: rs.Rows}, nil
}

// ProjectInformation returns the chosen fields of every project matching
// req. The project number is always included.
func (s *Service) ProjectInformation(ctx context.Context, req criteria.SearchRequest, fields []reporter.IncludeField) (Projects, error) {
	if len(fields) == 0 {
		return Projects{}, criteria.NewValidationError("include_fields", "at least one include field is required")
	}
	include := []reporter.IncludeField{reporter.FieldProjectNum}
	seen := map[reporter.IncludeField]bool{reporter.FieldProjectNum: true}
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			include = append(include, f)
		}
	}

	rs, err := s.Pager.All(ctx, pager.Query{Request: req, IncludeFields: include, Limit: s.PageLimit})
	if err != nil {
		return Projects{}, err
	}
	names := make([]string, 0, len(include))
	for _, f := range include {
		names = append(names, f.Key())
	}
	return Projects{TotalProjects: rs.Total, Fields: names, Projects: rs.Rows}, nil
}

// Crosstab tabulates every project matching req by row and col.
func (s *Service) Crosstab(ctx context.Context, req criteria.SearchRequest, row, col aggregate.Dimension) (CrosstabResult, error) {
	row, err := aggregate.ParseDimension(string(row))
	if err != nil {
		return CrosstabResult{}, err
	}
	col, err = aggregate.ParseDimension(string(col))
	if err != nil {
		return CrosstabResult{}, err
	}
	if row == col {
		return CrosstabResult{}, criteria.NewValidationError("dimension", "row and column dimensions must differ")
	}

	include := append([]reporter.IncludeField{reporter.FieldProjectNum, reporter.FieldAwardAmount},
		aggregate.Fields(row, col)...)
	rs, err := s.Pager.All(ctx, pager.Query{Request: req, IncludeFields: include, Limit: s.PageLimit})
	if err != nil {
		return CrosstabResult{}, err
	}
	ct := aggregate.CrossTabulate(rs.Rows, row, col)
	return CrosstabResult{TotalProjects: rs.Total, TabulatedProjects: ct.Count(), Table: ct}, nil
}
