package doctor_search_service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	EmptyQueryLimit = 10
)

type RequestState string

const (
	RequestStateIdle     RequestState = "idle"
	RequestStatePending  RequestState = "pending"
	RequestStateResolved RequestState = "resolved"
	RequestStateStale    RequestState = "stale"
)

type SearchResult struct {
	Seq       uint64                 `json:"seq"`
	Query     string                 `json:"query"`
	Doctors   []domain.DoctorSummary `json:"doctors"`
	FromCache bool                   `json:"fromCache"`
}

// searchRequest moves pending -> resolved or pending -> stale, never back.
type searchRequest struct {
	seq   uint64
	query string
	key   string
	scope string
	state RequestState
}

// DoctorSearchService resolves free-text queries into doctor summaries.
// Calls are debounced: a call returns domain.ErrSearchSuperseded when a newer
// call was issued during its quiescence interval. Results that resolve after
// a newer one has been adopted are dropped with domain.ErrSearchStale.
type DoctorSearchService struct {
	store    out.ScheduleStorePort
	cache    out.SearchCachePort
	logger   out.LoggerPort
	debounce time.Duration

	mu          sync.Mutex
	issued      uint64
	resolvedSeq uint64
	current     *SearchResult
}

func NewDoctorSearchService(
	store out.ScheduleStorePort,
	cache out.SearchCachePort,
	logger out.LoggerPort,
	debounce time.Duration,
) *DoctorSearchService {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &DoctorSearchService{
		store:    store,
		cache:    cache,
		logger:   logger.WithModule("DoctorSearchService"),
		debounce: debounce,
	}
}

// Search looks up doctors matching query. Slot counts come from schedules,
// which should be the caller's unfiltered schedule list.
// A roster failure yields an empty result together with the error.
func (s *DoctorSearchService) Search(ctx context.Context, query string, schedules []domain.DoctorScheduleRecord) (SearchResult, error) {
	return s.SearchInScope(ctx, "", query, schedules)
}

// SearchInScope is Search with cache entries kept apart per scope, typically
// the month the schedules belong to.
func (s *DoctorSearchService) SearchInScope(ctx context.Context, scope, query string, schedules []domain.DoctorScheduleRecord) (SearchResult, error) {
	req := s.issue(scope, query)

	if err := s.wait(ctx, req); err != nil {
		return SearchResult{Seq: req.seq, Query: req.query, Doctors: []domain.DoctorSummary{}}, err
	}

	result, searchErr := s.execute(ctx, req, schedules)

	if err := s.resolve(req, result); err != nil {
		return SearchResult{Seq: req.seq, Query: req.query, Doctors: []domain.DoctorSummary{}}, err
	}

	return result, searchErr
}

// Current returns the adopted result: the most recently issued search that has resolved.
func (s *DoctorSearchService) Current() (SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return SearchResult{}, false
	}
	return *s.current, true
}

func (s *DoctorSearchService) issue(scope, query string) *searchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	req := &searchRequest{
		seq:   s.issued,
		query: query,
		key:   NormalizeQuery(query),
		scope: scope,
		state: RequestStatePending,
	}
	return req
}

func (r *searchRequest) cacheKey() string {
	if r.scope == "" {
		return r.key
	}
	return r.scope + "|" + r.key
}

func (s *DoctorSearchService) wait(ctx context.Context, req *searchRequest) error {
	timer := time.NewTimer(s.debounce)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.finish(req, RequestStateStale)
		return ctx.Err()
	case <-timer.C:
	}

	s.mu.Lock()
	superseded := s.issued != req.seq
	s.mu.Unlock()

	if superseded {
		s.logger.Debug("doctors.search.superseded", out.LogFields{
			"seq":   req.seq,
			"query": req.query,
		})
		s.finish(req, RequestStateStale)
		return domain.ErrSearchSuperseded
	}
	return nil
}

func (s *DoctorSearchService) execute(ctx context.Context, req *searchRequest, schedules []domain.DoctorScheduleRecord) (SearchResult, error) {
	result := SearchResult{Seq: req.seq, Query: req.query, Doctors: []domain.DoctorSummary{}}

	if s.cache != nil {
		if doctors, exists := s.cache.GetSearchResult(ctx, req.cacheKey()); exists {
			s.logger.Debug("doctors.search.cache.hit", out.LogFields{
				"query": req.key,
				"count": len(doctors),
			})
			result.Doctors = doctors
			result.FromCache = true
			return result, nil
		}
	}

	roster, err := s.store.ListDoctors(ctx)
	if err != nil {
		s.logger.Error("doctors.search.roster.fetch_failed", out.LogFields{
			"query": req.key,
			"error": err.Error(),
		})
		return result, fmt.Errorf("doctors.search.roster.fetch_failed: %w", err)
	}

	result.Doctors = SearchDoctors(roster, schedules, req.key)

	if s.cache != nil {
		s.cache.StoreSearchResult(ctx, req.cacheKey(), result.Doctors)
	}

	s.logger.Debug("doctors.search.resolved", out.LogFields{
		"seq":   req.seq,
		"query": req.key,
		"count": len(result.Doctors),
	})

	return result, nil
}

func (s *DoctorSearchService) resolve(req *searchRequest, result SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.seq < s.resolvedSeq {
		req.state = RequestStateStale
		s.logger.Debug("doctors.search.stale", out.LogFields{
			"seq":     req.seq,
			"adopted": s.resolvedSeq,
			"query":   req.query,
		})
		return domain.ErrSearchStale
	}

	req.state = RequestStateResolved
	s.resolvedSeq = req.seq
	s.current = &result
	return nil
}

func (s *DoctorSearchService) finish(req *searchRequest, state RequestState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.state = state
}

// NormalizeQuery is the cache key of a query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
