package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"ohs-consultant/pkg/metrics"

	"go.uber.org/zap"
)

// RateLimiter keeps request timestamps per user and category. Counters live in
// memory only, a restart resets them.
//
// Check and Record are separate calls: two concurrent requests of the same user
// may both pass Check before either is recorded. Allow combines them under one
// lock for callers that want the stricter behaviour.
type RateLimiter struct {
	mu       sync.Mutex
	policies map[string]Policy
	history  map[int64]map[string][]time.Time
	now      func() time.Time
	logger   *zap.Logger
}

// Usage is the state of one category for one user.
type Usage struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

type Option func(*RateLimiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *RateLimiter) {
		r.now = now
	}
}

// WithPolicies replaces the default policy table.
func WithPolicies(policies []Policy) Option {
	return func(r *RateLimiter) {
		r.policies = make(map[string]Policy, len(policies))
		for _, p := range policies {
			r.policies[p.Category] = p
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *RateLimiter {
	r := &RateLimiter{
		history: make(map[int64]map[string][]time.Time),
		now:     time.Now,
		logger:  logger,
	}
	WithPolicies(DefaultPolicies())(r)
	for _, opt := range opts {
		opt(r)
	}

	logger.Info("Rate limiter initialized", zap.Int("policies", len(r.policies)))
	return r
}

// Check reports whether a new request is admissible. When it is not, the
// returned message names the policy and how long to wait. Expired entries are
// dropped on the way, nothing else changes.
func (r *RateLimiter) Check(userID int64, category string, checkGlobal bool) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.checkLocked(userID, category, checkGlobal, r.now())
}

// Record stores an admitted request. Call it after a successful Check.
// A request in category global is stored once even when recordGlobal is set.
func (r *RateLimiter) Record(userID int64, category string, recordGlobal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recordLocked(userID, category, recordGlobal, r.now())
}

// Allow is Check followed by Record under a single lock.
func (r *RateLimiter) Allow(userID int64, category string) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	allowed, message := r.checkLocked(userID, category, true, now)
	if allowed {
		r.recordLocked(userID, category, true, now)
	}
	return allowed, message
}

// Remaining returns how many requests are left in the current window.
// Unknown categories report zero.
func (r *RateLimiter) Remaining(userID int64, category string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	policy, ok := r.policies[category]
	if !ok {
		return 0
	}

	used := len(r.pruneLocked(userID, category, r.now().Add(-policy.window())))
	return max(0, policy.MaxRequests-used)
}

// Usage lists every known category for a user, ordered by category name.
func (r *RateLimiter) Usage(userID int64) []Usage {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	usage := make([]Usage, 0, len(r.policies))
	for _, p := range r.sortedPoliciesLocked() {
		used := len(r.pruneLocked(userID, p.Category, now.Add(-p.window())))
		usage = append(usage, Usage{
			Category:  p.Category,
			Name:      p.Name,
			Used:      used,
			Limit:     p.MaxRequests,
			Remaining: max(0, p.MaxRequests-used),
		})
	}
	return usage
}

// HasHistory reports whether anything is stored for the user.
func (r *RateLimiter) HasHistory(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.history[userID]
	return ok
}

// ClearUserHistory drops every category of a user.
func (r *RateLimiter) ClearUserHistory(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.history[userID]; ok {
		delete(r.history, userID)
		r.logger.Info("Cleared rate limit history", zap.Int64("user_id", userID))
	}
}

// SweepExpired prunes entries older than olderThanDays in every category and
// removes users left without entries. It returns the number of removed users.
func (r *RateLimiter) SweepExpired(olderThanDays int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	removed := 0
	for userID, categories := range r.history {
		total := 0
		for category, stamps := range categories {
			kept := pruneBefore(stamps, cutoff)
			categories[category] = kept
			total += len(kept)
		}
		if total == 0 {
			delete(r.history, userID)
			removed++
		}
	}

	if removed > 0 {
		r.logger.Info("Cleaned up rate limit history", zap.Int("users", removed))
	}
	return removed
}

// RunSweeper calls SweepExpired every interval until ctx is cancelled.
func (r *RateLimiter) RunSweeper(ctx context.Context, interval time.Duration, olderThanDays int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.SweepExpired(olderThanDays)
		}
	}
}

// ActiveUsers returns the number of users with stored history.
func (r *RateLimiter) ActiveUsers() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.history)
}

// Policies returns the policy table ordered by category name.
func (r *RateLimiter) Policies() []Policy {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sortedPoliciesLocked()
}

// Policy looks up a single category.
func (r *RateLimiter) Policy(category string) (Policy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.policies[category]
	return p, ok
}

func (r *RateLimiter) checkLocked(userID int64, category string, checkGlobal bool, now time.Time) (bool, string) {
	if allowed, message := r.checkPolicyLocked(userID, category, now); !allowed {
		return false, message
	}
	if checkGlobal && category != CategoryGlobal {
		if allowed, message := r.checkPolicyLocked(userID, CategoryGlobal, now); !allowed {
			return false, message
		}
	}
	return true, ""
}

func (r *RateLimiter) checkPolicyLocked(userID int64, category string, now time.Time) (bool, string) {
	policy, ok := r.policies[category]
	if !ok {
		r.logger.Warn("Unknown rate limit category", zap.String("category", category))
		return true, ""
	}

	stamps := r.pruneLocked(userID, category, now.Add(-policy.window()))
	if len(stamps) < policy.MaxRequests {
		metrics.RateLimitDecisions.WithLabelValues(category, "allowed").Inc()
		return true, ""
	}

	wait := waitSeconds(stamps[0].Add(policy.window()).Sub(now))
	r.logger.Warn("Rate limit exceeded",
		zap.Int64("user_id", userID),
		zap.String("category", category),
		zap.Int("wait_seconds", wait),
	)
	metrics.RateLimitDecisions.WithLabelValues(category, "rejected").Inc()

	return false, fmt.Sprintf(
		"⏱ <b>Превышен лимит запросов!</b>\n\n"+
			"Тип: %s\n"+
			"Лимит: %d запросов за %s\n"+
			"Попробуйте через: %d сек.",
		policy.Name, policy.MaxRequests, policy.WindowLabel(), wait,
	)
}

func (r *RateLimiter) recordLocked(userID int64, category string, recordGlobal bool, now time.Time) {
	categories, ok := r.history[userID]
	if !ok {
		categories = make(map[string][]time.Time)
		r.history[userID] = categories
	}

	if _, known := r.policies[category]; known {
		categories[category] = append(categories[category], now)
	}
	if recordGlobal && category != CategoryGlobal {
		categories[CategoryGlobal] = append(categories[CategoryGlobal], now)
	}

	r.logger.Debug("Request recorded", zap.Int64("user_id", userID), zap.String("category", category))
}

// pruneLocked drops timestamps at or before cutoff and returns what is left.
// It never creates entries for users or categories without history.
func (r *RateLimiter) pruneLocked(userID int64, category string, cutoff time.Time) []time.Time {
	categories, ok := r.history[userID]
	if !ok {
		return nil
	}
	stamps, ok := categories[category]
	if !ok {
		return nil
	}
	kept := pruneBefore(stamps, cutoff)
	categories[category] = kept
	return kept
}

func (r *RateLimiter) sortedPoliciesLocked() []Policy {
	policies := make([]Policy, 0, len(r.policies))
	for _, p := range r.policies {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].Category < policies[j].Category
	})
	return policies
}

// pruneBefore keeps the timestamps strictly after cutoff. Timestamps are
// appended in order, so the expired ones form a prefix.
func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	i := sort.Search(len(stamps), func(i int) bool {
		return stamps[i].After(cutoff)
	})
	if i == 0 {
		return stamps
	}
	return append(stamps[:0], stamps[i:]...)
}

func waitSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
