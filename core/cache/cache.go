package cache

import (
	"context"
	"fmt"
	"time"

	"admissions-scheduler/core/constants"
)

// Cache is the read-path cache used for slot computations, calendar-range
// listings and the interviewer directory. It is never a source of truth:
// losing every entry changes latency, not results. Write paths invalidate
// the relevant patterns before returning; TTL expiry is only a backstop.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Invalidate removes every key matching a glob pattern anchored at both
	// ends, e.g. "calendar:*" or "slots:<id>:*".
	Invalidate(ctx context.Context, pattern string) error
}

func SlotsKey(interviewerID, date string, durationMinutes int) string {
	return fmt.Sprintf("%s:%s:%s:%d", constants.CacheScopeSlots, interviewerID, date, durationMinutes)
}

// SlotsPattern matches every cached slot computation for one interviewer.
func SlotsPattern(interviewerID string) string {
	return fmt.Sprintf("%s:%s:*", constants.CacheScopeSlots, interviewerID)
}

func CalendarKey(startDate, endDate string) string {
	return fmt.Sprintf("%s:%s:%s", constants.CacheScopeCalendar, startDate, endDate)
}

func CalendarPattern() string {
	return constants.CacheScopeCalendar + ":*"
}

func InterviewersKey() string {
	return constants.CacheScopeInterviewers + ":list"
}

func InterviewersPattern() string {
	return constants.CacheScopeInterviewers + ":*"
}

func DirectoryKey(applicationID string) string {
	return fmt.Sprintf("%s:%s", constants.CacheScopeDirectory, applicationID)
}
