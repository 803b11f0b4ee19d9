package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuotaPeriod_WindowStart(t *testing.T) {
	// A Thursday afternoon.
	now := time.Date(2025, 3, 13, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		period QuotaPeriod
		want   time.Time
	}{
		{PeriodDay, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, // preceding Monday
		{PeriodMonth, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.WindowStart(now))
		})
	}
}

func TestQuotaPeriod_WindowStart_OnSunday(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), PeriodWeek.WindowStart(sunday),
		"Sunday still belongs to the week that started the preceding Monday")
}

func TestQuotaPeriod_NextWindowStart(t *testing.T) {
	now := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), PeriodDay.NextWindowStart(now))
	assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), PeriodWeek.NextWindowStart(now))
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), PeriodMonth.NextWindowStart(now))
}

func TestUsagePlan_Validate(t *testing.T) {
	valid := UsagePlan{
		Name:          "basic",
		RatePerSecond: 5,
		Burst:         10,
		QuotaLimit:    1000,
		QuotaPeriod:   PeriodDay,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*UsagePlan)
	}{
		{"missing name", func(p *UsagePlan) { p.Name = "" }},
		{"zero rate", func(p *UsagePlan) { p.RatePerSecond = 0 }},
		{"negative rate", func(p *UsagePlan) { p.RatePerSecond = -1 }},
		{"burst below sustained rate", func(p *UsagePlan) { p.Burst = 4 }},
		{"fractional rate rounds up for burst", func(p *UsagePlan) { p.RatePerSecond = 9.5; p.Burst = 9 }},
		{"zero quota", func(p *UsagePlan) { p.QuotaLimit = 0 }},
		{"bad period", func(p *UsagePlan) { p.QuotaPeriod = "fortnight" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := valid
			tt.mutate(&plan)
			assert.Error(t, plan.Validate())
		})
	}
}
