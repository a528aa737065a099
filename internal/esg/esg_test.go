package esg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var refTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestMock_DeterministicForSeed(t *testing.T) {
	a := Mock(42, refTime)
	b := Mock(42, refTime)
	require.Equal(t, a, b)

	c := Mock(43, refTime)
	require.NotEqual(t, a.Suppliers, c.Suppliers)
}

func TestMock_TwelveMonthsEndingNow(t *testing.T) {
	d := Mock(1, refTime)
	require.Len(t, d.Carbon, 12)
	require.Equal(t, "2025-04", d.Carbon[0].Month)
	require.Equal(t, "2026-03", d.Carbon[11].Month)
}

func TestMock_SupplierLevelsMatchScores(t *testing.T) {
	d := Mock(7, refTime)
	require.NotEmpty(t, d.Suppliers)
	for _, s := range d.Suppliers {
		require.Equal(t, RiskLevel(s.Score), s.Level)
		require.GreaterOrEqual(t, s.Score, 0.0)
		require.LessOrEqual(t, s.Score, 100.0)
	}
}

func TestRiskLevel_Buckets(t *testing.T) {
	require.Equal(t, RiskLow, RiskLevel(0))
	require.Equal(t, RiskLow, RiskLevel(39.9))
	require.Equal(t, RiskMedium, RiskLevel(40))
	require.Equal(t, RiskMedium, RiskLevel(69.9))
	require.Equal(t, RiskHigh, RiskLevel(70))
	require.Equal(t, RiskHigh, RiskLevel(100))
}

func TestUrgency_Buckets(t *testing.T) {
	now := refTime
	require.Equal(t, UrgencyOverdue, Urgency(now.AddDate(0, 0, -1), now))
	require.Equal(t, UrgencyCritical, Urgency(now.AddDate(0, 0, 10), now))
	require.Equal(t, UrgencyUpcoming, Urgency(now.AddDate(0, 0, 60), now))
	require.Equal(t, UrgencyScheduled, Urgency(now.AddDate(0, 0, 180), now))
}

func TestMock_ComplianceUrgencyConsistent(t *testing.T) {
	d := Mock(1, refTime)
	for _, c := range d.Compliance {
		require.Equal(t, Urgency(c.Due, refTime), c.Urgency)
	}
}

func TestSummarize_Aggregates(t *testing.T) {
	d := Mock(42, refTime)
	s := d.Summarize()

	require.Greater(t, s.TotalEmissions, 0.0)
	require.NotNil(t, s.NextDeadline)
	require.NotEqual(t, UrgencyOverdue, s.NextDeadline.Urgency)

	var high int
	for _, sup := range d.Suppliers {
		if sup.Level == RiskHigh {
			high++
		}
	}
	require.Equal(t, high, s.HighRiskSuppliers)

	var open int
	for _, c := range d.Compliance {
		if c.Urgency != UrgencyOverdue {
			open++
		}
	}
	require.Equal(t, open, s.OpenDeadlines)
}

func TestSummarize_NextDeadlineIsEarliestOpen(t *testing.T) {
	d := Mock(42, refTime)
	s := d.Summarize()
	for _, c := range d.Compliance {
		if c.Urgency != UrgencyOverdue {
			require.False(t, c.Due.Before(s.NextDeadline.Due))
		}
	}
}
