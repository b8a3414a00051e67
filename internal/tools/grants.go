// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"

	"github.com/pdiddy/grants-reporter/internal/aggregate"
	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/grants"
	"github.com/pdiddy/grants-reporter/internal/reporter"
)

// Tool names.
const (
	SearchProjects    = "search_projects"
	GetSearchSummary  = "get_search_summary"
	FindProjectIDs    = "find_project_ids"
	GetProjectDetails = "get_project_details"
	GetProjectInfo    = "get_project_information"
	Crosstab          = "crosstab"
	TermFrequency     = "term_frequency"
)

// SearchInput carries the search parameters shared by every tool.
type SearchInput struct {
	SearchParams criteria.Params `json:"search_params" yaml:"search_params" jsonschema:"description=Search filters for NIH RePORTER projects"`
}

// InformationInput selects the fields returned per project.
type InformationInput struct {
	SearchParams  criteria.Params         `json:"search_params" yaml:"search_params"`
	IncludeFields []reporter.IncludeField `json:"include_fields" yaml:"include_fields" validate:"required,min=1" jsonschema:"description=Fields to return for each project. ProjectNum is always included"`
}

// CrosstabInput names the two dimensions to tabulate.
type CrosstabInput struct {
	SearchParams criteria.Params     `json:"search_params" yaml:"search_params"`
	RowField     aggregate.Dimension `json:"row_field" yaml:"row_field" validate:"required"`
	ColField     aggregate.Dimension `json:"col_field" yaml:"col_field" validate:"required"`
}

// TermFrequencyInput describes a portfolio and the term categories to count.
type TermFrequencyInput struct {
	SearchParams criteria.Params       `json:"search_params" yaml:"search_params" jsonschema:"description=Portfolio filters. Must not include a text search"`
	Categories   []grants.TermCategory `json:"categories" yaml:"categories" validate:"required,min=1,dive" jsonschema:"description=Categories each with a name and a list of RCDC terms"`
	GrantScope   grants.GrantScope     `json:"grant_scope,omitempty" yaml:"grant_scope,omitempty" jsonschema:"enum=new_only,enum=new_and_continuing,description=Award types counted when award_types is not set"`
}

// ForService builds the registry of grants tools backed by svc.
func ForService(svc *grants.Service) (*Registry, error) {
	return NewRegistry(
		New(SearchProjects,
			"Quick preview of NIH projects matching the search. Samples the first 500 results and returns the total count with distributions by year, institute, activity code, organization, funding mechanism, and active status plus award statistics.",
			func(ctx context.Context, in *SearchInput) (*grants.Summary, error) {
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				out, err := svc.SearchProjects(ctx, req)
				return &out, err
			}),
		New(GetSearchSummary,
			"Complete statistics over every matching project. Use for precise totals such as total funding. Slower than search_projects for large result sets.",
			func(ctx context.Context, in *SearchInput) (*grants.Summary, error) {
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				out, err := svc.SearchSummary(ctx, req)
				return &out, err
			}),
		New(FindProjectIDs,
			"Exhaustive list of project numbers matching the search.",
			func(ctx context.Context, in *SearchInput) (*grants.ProjectIDs, error) {
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				out, err := svc.FindProjectIDs(ctx, req)
				return &out, err
			}),
		New(GetProjectDetails,
			"Every field of the projects named by project_nums.",
			func(ctx context.Context, in *SearchInput) (*grants.Projects, error) {
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				out, err := svc.ProjectDetails(ctx, req)
				return &out, err
			}),
		New(GetProjectInfo,
			"Selected fields of every matching project. Request only the include_fields needed to answer the question.",
			func(ctx context.Context, in *InformationInput) (*grants.Projects, error) {
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				out, err := svc.ProjectInformation(ctx, req, in.IncludeFields)
				return &out, err
			}),
		New(Crosstab,
			"Cross-tabulate every matching project by two dimensions with project counts and total funding per cell.",
			func(ctx context.Context, in *CrosstabInput) (*grants.CrosstabResult, error) {
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				out, err := svc.Crosstab(ctx, req, in.RowField, in.ColField)
				return &out, err
			}),
		New(TermFrequency,
			"RCDC term-frequency analysis: the share of a portfolio indexed with each term and the unduplicated share per category.",
			func(ctx context.Context, in *TermFrequencyInput) (*grants.TermFrequency, error) {
				scoped, err := in.GrantScope.AwardTypes()
				if err != nil {
					return nil, err
				}
				req, err := in.SearchParams.Build()
				if err != nil {
					return nil, err
				}
				if len(req.AwardTypes) == 0 {
					req.AwardTypes = scoped
				}
				out, err := svc.TermFrequency(ctx, req, in.Categories)
				return &out, err
			}),
	)
}
