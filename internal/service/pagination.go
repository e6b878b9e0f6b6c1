package service

import "github.com/niftrix/referral-admin/internal/repository"

// Listing defaults.
const (
	DefaultLimit       = 10
	DefaultSearchLimit = 100
	MaxLimit           = 100
)

// PageRequest is a 1-based page and a page size as received from a client.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and clamps limit to 1..MaxLimit.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageRequest) window() repository.Page {
	return repository.NewPage(p.Page, p.Limit)
}

// PageResult is one page of a listing plus totals.
type PageResult[T any] struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	Results    []T
}

func newPageResult[T any](req PageRequest, total int, results []T) *PageResult[T] {
	if results == nil {
		results = []T{}
	}
	return &PageResult[T]{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
		Results:    results,
	}
}

// TotalPages is ceil(total/limit), never less than 1.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
