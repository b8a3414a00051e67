// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grants

import (
	"context"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/grants-reporter/internal/criteria"
)

// GrantScope selects which award types a term-frequency portfolio covers.
type GrantScope string

const (
	ScopeNewOnly          GrantScope = "new_only"
	ScopeNewAndContinuing GrantScope = "new_and_continuing"
)

// AwardTypes returns the award type codes for the scope: 1 is a new grant,
// 2 a competing continuation.
func (g GrantScope) AwardTypes() ([]string, error) {
	switch g {
	case ScopeNewOnly:
		return []string{"1"}, nil
	case ScopeNewAndContinuing, "":
		return []string{"1", "2"}, nil
	}
	return nil, criteria.NewValidationError("grant_scope", "unknown grant scope %q (valid: %s, %s)",
		string(g), ScopeNewOnly, ScopeNewAndContinuing)
}

// TermCategory groups related scientific terms.
type TermCategory struct {
	Name  string   `json:"name" yaml:"name" validate:"required"`
	Terms []string `json:"terms" yaml:"terms" validate:"required,min=1,dive,required"`
}

// TermCount is the number of portfolio projects indexed with a term.
type TermCount struct {
	Term     string  `json:"term" yaml:"term"`
	Projects int     `json:"projects" yaml:"projects"`
	Percent  float64 `json:"percent" yaml:"percent"`
}

// CategoryFrequency holds the per-term counts of one category plus the
// unduplicated count of projects matching any of its terms.
type CategoryFrequency struct {
	Name     string      `json:"name" yaml:"name"`
	Projects int         `json:"projects" yaml:"projects"`
	Percent  float64     `json:"percent" yaml:"percent"`
	Terms    []TermCount `json:"terms" yaml:"terms"`
}

// TermFrequency is an RCDC term-frequency analysis of a portfolio.
type TermFrequency struct {
	Baseline   int                 `json:"baseline" yaml:"baseline"`
	Categories []CategoryFrequency `json:"categories" yaml:"categories"`
}

// TermFrequency counts the projects in the portfolio req indexed with each
// term, and per category the projects indexed with any of its terms.
// Percentages are of the portfolio total. The count queries are independent
// and run concurrently; any failure fails the analysis.
func (s *Service) TermFrequency(ctx context.Context, req criteria.SearchRequest, categories []TermCategory) (TermFrequency, error) {
	if len(categories) == 0 {
		return TermFrequency{}, criteria.NewValidationError("categories", "at least one category is required")
	}
	if req.TextSearch != nil {
		return TermFrequency{}, criteria.NewValidationError("advanced_text_search", "the portfolio must not carry a text search")
	}

	// Build every request first so validation fails before any fetch.
	type job struct {
		req  criteria.SearchRequest
		dest *int
	}
	out := TermFrequency{Categories: make([]CategoryFrequency, len(categories))}
	jobs := []job{{req: req, dest: &out.Baseline}}
	for i, cat := range categories {
		cf := &out.Categories[i]
		cf.Name = strings.TrimSpace(cat.Name)
		if cf.Name == "" {
			return TermFrequency{}, criteria.NewValidationError("categories", "category %d has no name", i+1)
		}
		cf.Terms = make([]TermCount, len(cat.Terms))

		var all []string
		for j, term := range cat.Terms {
			term = strings.TrimSpace(term)
			r, err := termRequest(req, term, criteria.OperatorAnd)
			if err != nil {
				return TermFrequency{}, errors.Wrapf(err, "category %q", cf.Name)
			}
			cf.Terms[j].Term = term
			jobs = append(jobs, job{req: r, dest: &cf.Terms[j].Projects})
			all = append(all, term)
		}
		r, err := termRequest(req, strings.Join(all, " "), criteria.OperatorOr)
		if err != nil {
			return TermFrequency{}, errors.Wrapf(err, "category %q", cf.Name)
		}
		jobs = append(jobs, job{req: r, dest: &cf.Projects})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for _, j := range jobs {
		g.Go(func() error {
			n, err := s.Pager.Count(gctx, j.req)
			if err != nil {
				return err
			}
			*j.dest = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TermFrequency{}, err
	}

	for i := range out.Categories {
		cf := &out.Categories[i]
		cf.Percent = percent(cf.Projects, out.Baseline)
		for j := range cf.Terms {
			cf.Terms[j].Percent = percent(cf.Terms[j].Projects, out.Baseline)
		}
	}
	s.log(ctx).InfoContext(ctx, "term frequency analysis complete",
		"baseline", out.Baseline, "categories", len(categories), "queries", len(jobs))
	return out, nil
}

func (s *Service) concurrency() int {
	if s.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return s.Concurrency
}

func termRequest(base criteria.SearchRequest, text string, op criteria.Operator) (criteria.SearchRequest, error) {
	ts, err := criteria.NewTextSearch(text, op, criteria.FieldList{criteria.FieldTerms})
	if err != nil {
		return criteria.SearchRequest{}, err
	}
	return base.WithTextSearch(ts), nil
}

// percent returns part/whole as a percentage rounded to two decimals.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(whole)) / 100
}
