package models

import (
	"fmt"
	"math"
	"time"
)

// QuotaPeriod is the calendar window bounding total admitted requests for a
// credential.
type QuotaPeriod string

const (
	PeriodDay   QuotaPeriod = "day"
	PeriodWeek  QuotaPeriod = "week"
	PeriodMonth QuotaPeriod = "month"
)

// IsValid checks if the quota period is one of the supported enum values.
func (p QuotaPeriod) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// WindowStart returns the calendar-aligned start of the window containing
// now. Weeks start on Monday.
func (p QuotaPeriod) WindowStart(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -daysSinceMonday)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

// NextWindowStart returns the first instant of the window after the one
// containing now, i.e. when an exhausted quota rolls over.
func (p QuotaPeriod) NextWindowStart(now time.Time) time.Time {
	start := p.WindowStart(now)
	switch p {
	case PeriodWeek:
		return start.AddDate(0, 0, 7)
	case PeriodMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// UsagePlan is the throttle-and-quota policy bound to one or more
// credentials. Plans are static configuration loaded at process start.
type UsagePlan struct {
	Name          string
	RatePerSecond float64
	Burst         int
	QuotaLimit    int
	QuotaPeriod   QuotaPeriod
}

// Validate enforces plan invariants, in particular that burst capacity can
// absorb at least one second of sustained traffic.
func (p UsagePlan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if p.RatePerSecond <= 0 {
		return fmt.Errorf("plan %s: rate_per_second must be positive", p.Name)
	}
	if p.Burst < int(math.Ceil(p.RatePerSecond)) {
		return fmt.Errorf("plan %s: burst must be at least the sustained rate", p.Name)
	}
	if p.QuotaLimit <= 0 {
		return fmt.Errorf("plan %s: quota_limit must be positive", p.Name)
	}
	if !p.QuotaPeriod.IsValid() {
		return fmt.Errorf("plan %s: quota_period must be day, week or month", p.Name)
	}
	return nil
}

// Rejection kinds distinguish a drained token bucket from an exhausted
// calendar quota; both answer 429 but carry different error codes.
const (
	KindBucket = "bucket"
	KindQuota  = "quota"
)

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Kind       string // set on denial: KindBucket or KindQuota
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}
