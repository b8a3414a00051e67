// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pager materializes result sets from the capped-page search API.
// Implements: Pagination Engine (single-page preview and exhaustive fetch
// sharing one per-page primitive).
package pager

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/logger"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// PageFetcher fetches one page. *reporter.Client implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, pr reporter.PageRequest) (reporter.Page, error)
}

// Query is one logical fetch: fixed criteria, fields, page size, and sort.
// It is immutable for the duration of the fetch so page order is stable.
type Query struct {
	Request       criteria.SearchRequest
	IncludeFields []reporter.IncludeField
	Limit         int
	SortField     string
	SortOrder     string
}

// Engine drives a PageFetcher across offsets.
type Engine struct {
	Fetcher PageFetcher
	Logger  *slog.Logger
}

// New returns an Engine over f.
func New(f PageFetcher) *Engine {
	return &Engine{Fetcher: f, Logger: logger.WithComponent("pager")}
}

func (e *Engine) log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// First fetches only the first page. The returned ResultSet carries the
// authoritative total, so callers can tell a sample from a complete set.
func (e *Engine) First(ctx context.Context, q Query) (types.ResultSet, error) {
	q = withDefaults(q)
	page, err := e.fetch(ctx, q, criteriaOf(q), 0)
	if err != nil {
		return types.ResultSet{}, err
	}
	return types.ResultSet{Total: page.Total}.Append(page.Rows), nil
}

// All fetches pages at offsets 0, limit, 2*limit, ... until the total from
// the first page is covered. Any failed page aborts the whole fetch; no
// partial ResultSet is returned.
func (e *Engine) All(ctx context.Context, q Query) (types.ResultSet, error) {
	q = withDefaults(q)
	wire := criteriaOf(q)

	page, err := e.fetch(ctx, q, wire, 0)
	if err != nil {
		return types.ResultSet{}, err
	}
	acc := types.ResultSet{Total: page.Total}.Append(page.Rows)
	pages := 1

	for offset := q.Limit; offset < acc.Total; offset += q.Limit {
		page, err := e.fetch(ctx, q, wire, offset)
		if err != nil {
			return types.ResultSet{}, err
		}
		acc = acc.Append(page.Rows)
		pages++
	}

	e.log().DebugContext(ctx, "fetched result set",
		"total", acc.Total, "rows", len(acc.Rows), "pages", pages, "limit", q.Limit)
	return acc, nil
}

// Count returns only the total for q, fetching a single one-row page.
func (e *Engine) Count(ctx context.Context, req criteria.SearchRequest) (int, error) {
	rs, err := e.First(ctx, Query{
		Request:       req,
		IncludeFields: []reporter.IncludeField{reporter.FieldProjectNum},
		Limit:         1,
	})
	if err != nil {
		return 0, err
	}
	return rs.Total, nil
}

func (e *Engine) fetch(ctx context.Context, q Query, wire criteria.Wire, offset int) (reporter.Page, error) {
	if offset == 0 {
		if err := q.Request.Validate(); err != nil {
			return reporter.Page{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return reporter.Page{}, err
	}
	page, err := e.Fetcher.FetchPage(ctx, reporter.PageRequest{
		Criteria:      wire,
		Offset:        offset,
		Limit:         q.Limit,
		IncludeFields: q.IncludeFields,
		SortField:     q.SortField,
		SortOrder:     q.SortOrder,
	})
	if err != nil {
		return reporter.Page{}, errors.Wrapf(err, "fetching page at offset %d", offset)
	}
	return page, nil
}

// criteriaOf serializes once so every page sends identical criteria.
func criteriaOf(q Query) criteria.Wire {
	return q.Request.Wire()
}

func withDefaults(q Query) Query {
	if q.Limit <= 0 || q.Limit > reporter.MaxPageLimit {
		q.Limit = reporter.MaxPageLimit
	}
	if q.SortField == "" {
		q.SortField = reporter.DefaultSortField
		if q.SortOrder == "" {
			q.SortOrder = reporter.DefaultSortOrder
		}
	}
	return q
}
