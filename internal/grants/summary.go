// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grants

import (
	"context"

	"github.com/pdiddy/grants-reporter/internal/aggregate"
	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/pager"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// TopOrganizations caps the organization distribution in a summary.
const TopOrganizations = 25

var summaryDimensions = []aggregate.Dimension{
	aggregate.DimFiscalYear,
	aggregate.DimAgency,
	aggregate.DimActivityCode,
	aggregate.DimOrganization,
	aggregate.DimFundingMechanism,
	aggregate.DimIsActive,
}

// Summary describes the projects matching a search. When Complete is false
// the distributions and funding stats cover only the SampledProjects rows.
type Summary struct {
	TotalProjects         int                `json:"total_projects" yaml:"total_projects"`
	SampledProjects       int                `json:"sampled_projects" yaml:"sampled_projects"`
	Complete              bool               `json:"complete" yaml:"complete"`
	Funding               aggregate.Stats    `json:"funding" yaml:"funding"`
	ByFiscalYear          []aggregate.Bucket `json:"by_fiscal_year" yaml:"by_fiscal_year"`
	ByAgency              []aggregate.Bucket `json:"by_agency" yaml:"by_agency"`
	ByActivityCode        []aggregate.Bucket `json:"by_activity_code" yaml:"by_activity_code"`
	ByOrganization        []aggregate.Bucket `json:"by_organization" yaml:"by_organization"`
	DistinctOrganizations int                `json:"distinct_organizations" yaml:"distinct_organizations"`
	ByFundingMechanism    []aggregate.Bucket `json:"by_funding_mechanism" yaml:"by_funding_mechanism"`
	ByActiveStatus        []aggregate.Bucket `json:"by_active_status" yaml:"by_active_status"`
}

// SearchProjects previews a search from its first page.
func (s *Service) SearchProjects(ctx context.Context, req criteria.SearchRequest) (Summary, error) {
	rs, err := s.Pager.First(ctx, summaryQuery(req, PreviewLimit))
	if err != nil {
		return Summary{}, err
	}
	s.log(ctx).InfoContext(ctx, "previewed search", "total", rs.Total, "sampled", len(rs.Rows))
	return Summarize(rs), nil
}

// SearchSummary summarizes every project matching a search.
func (s *Service) SearchSummary(ctx context.Context, req criteria.SearchRequest) (Summary, error) {
	rs, err := s.Pager.All(ctx, summaryQuery(req, s.PageLimit))
	if err != nil {
		return Summary{}, err
	}
	s.log(ctx).InfoContext(ctx, "summarized search", "total", rs.Total)
	return Summarize(rs), nil
}

// Summarize computes a Summary over rs without refetching.
func Summarize(rs types.ResultSet) Summary {
	orgs := aggregate.Distribute(rs.Rows, aggregate.DimOrganization)
	return Summary{
		TotalProjects:         rs.Total,
		SampledProjects:       len(rs.Rows),
		Complete:              rs.Complete(),
		Funding:               aggregate.Funding(rs.Rows),
		ByFiscalYear:          aggregate.Distribute(rs.Rows, aggregate.DimFiscalYear).Descending(),
		ByAgency:              aggregate.Distribute(rs.Rows, aggregate.DimAgency).Ranked(),
		ByActivityCode:        aggregate.Distribute(rs.Rows, aggregate.DimActivityCode).Ranked(),
		ByOrganization:        orgs.Top(TopOrganizations),
		DistinctOrganizations: len(orgs),
		ByFundingMechanism:    aggregate.Distribute(rs.Rows, aggregate.DimFundingMechanism).Ranked(),
		ByActiveStatus:        aggregate.Distribute(rs.Rows, aggregate.DimIsActive).Ranked(),
	}
}

func summaryQuery(req criteria.SearchRequest, limit int) pager.Query {
	include := append([]reporter.IncludeField{reporter.FieldProjectNum, reporter.FieldAwardAmount},
		aggregate.Fields(summaryDimensions...)...)
	return pager.Query{Request: req, IncludeFields: include, Limit: limit}
}
