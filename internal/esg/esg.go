// Package esg holds the dashboard's domain model: carbon emission series,
// supplier risk ratings, and compliance deadlines. Datasets are generated
// deterministically from a seed; there is no live data pipeline behind them.
package esg

import (
	"math/rand"
	"time"
)

// CarbonPoint is one month of emissions in tCO2e, split by GHG Protocol scope.
type CarbonPoint struct {
	Month  string  `json:"month"` // YYYY-MM
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
}

// Total returns the sum across scopes.
func (c CarbonPoint) Total() float64 { return c.Scope1 + c.Scope2 + c.Scope3 }

// SupplierRisk rates one supplier. Score runs 0-100; higher is riskier.
type SupplierRisk struct {
	Supplier string  `json:"supplier"`
	Region   string  `json:"region"`
	Score    float64 `json:"score"`
	Level    string  `json:"level"`
}

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskLevel buckets a 0-100 score.
func RiskLevel(score float64) string {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ComplianceDeadline is one upcoming regulatory obligation.
type ComplianceDeadline struct {
	Framework   string    `json:"framework"`
	Requirement string    `json:"requirement"`
	Due         time.Time `json:"due"`
	Urgency     string    `json:"urgency"`
}

// Urgency buckets.
const (
	UrgencyOverdue   = "overdue"
	UrgencyCritical  = "critical"  // due within 30 days
	UrgencyUpcoming  = "upcoming"  // due within 90 days
	UrgencyScheduled = "scheduled" // further out
)

// Urgency buckets a due date relative to now.
func Urgency(due, now time.Time) string {
	switch d := due.Sub(now); {
	case d < 0:
		return UrgencyOverdue
	case d <= 30*24*time.Hour:
		return UrgencyCritical
	case d <= 90*24*time.Hour:
		return UrgencyUpcoming
	default:
		return UrgencyScheduled
	}
}

// Dataset is everything the dashboard's metric widgets render.
type Dataset struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Carbon      []CarbonPoint        `json:"carbon"`
	Suppliers   []SupplierRisk       `json:"suppliers"`
	Compliance  []ComplianceDeadline `json:"compliance"`
}

// Summary aggregates the dataset for the dashboard header.
type Summary struct {
	TotalEmissions    float64             `json:"total_emissions_tco2e"`
	EmissionsTrendPct float64             `json:"emissions_trend_pct"`
	HighRiskSuppliers int                 `json:"high_risk_suppliers"`
	OpenDeadlines     int                 `json:"open_deadlines"`
	NextDeadline      *ComplianceDeadline `json:"next_deadline,omitempty"`
}

var mockSuppliers = []struct {
	name   string
	region string
}{
	{"Nordvik Components", "EMEA"},
	{"Hanwei Precision", "APAC"},
	{"Altiplano Metals", "LATAM"},
	{"Cascade Logistics", "NA"},
	{"Juniper Textiles", "APAC"},
	{"Baltic Polymer Group", "EMEA"},
	{"Redwood Packaging", "NA"},
	{"Sahel AgriTrade", "EMEA"},
}

var mockDeadlines = []struct {
	framework   string
	requirement string
	daysFromNow int
}{
	{"CSRD", "Double materiality assessment", 21},
	{"CSRD", "Annual sustainability statement", 75},
	{"GHG Protocol", "Scope 3 inventory refresh", -10},
	{"EU Taxonomy", "Alignment disclosure", 120},
	{"CBAM", "Quarterly embedded-emissions report", 45},
	{"SFDR", "PAI indicator update", 200},
}

// Mock builds a deterministic dataset: same seed and reference time, same
// dataset. The series covers the 12 months ending at now.
func Mock(seed int64, now time.Time) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	carbon := make([]CarbonPoint, 0, 12)
	base := 420.0 + rng.Float64()*80
	for i := 11; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		// Slow downward trend with monthly noise.
		drift := float64(11-i) * 2.5
		carbon = append(carbon, CarbonPoint{
			Month:  m.Format("2006-01"),
			Scope1: round1(base*0.25 - drift*0.2 + rng.Float64()*10),
			Scope2: round1(base*0.35 - drift*0.3 + rng.Float64()*14),
			Scope3: round1(base*1.8 - drift + rng.Float64()*40),
		})
	}

	suppliers := make([]SupplierRisk, 0, len(mockSuppliers))
	for _, s := range mockSuppliers {
		score := round1(rng.Float64() * 100)
		suppliers = append(suppliers, SupplierRisk{
			Supplier: s.name,
			Region:   s.region,
			Score:    score,
			Level:    RiskLevel(score),
		})
	}

	compliance := make([]ComplianceDeadline, 0, len(mockDeadlines))
	for _, d := range mockDeadlines {
		due := now.AddDate(0, 0, d.daysFromNow)
		compliance = append(compliance, ComplianceDeadline{
			Framework:   d.framework,
			Requirement: d.requirement,
			Due:         due,
			Urgency:     Urgency(due, now),
		})
	}

	return &Dataset{
		GeneratedAt: now,
		Carbon:      carbon,
		Suppliers:   suppliers,
		Compliance:  compliance,
	}
}

// Summarize computes the dashboard header aggregates.
func (d *Dataset) Summarize() Summary {
	var s Summary
	for _, c := range d.Carbon {
		s.TotalEmissions += c.Total()
	}
	s.TotalEmissions = round1(s.TotalEmissions)

	if n := len(d.Carbon); n >= 2 {
		first, last := d.Carbon[0].Total(), d.Carbon[n-1].Total()
		if first > 0 {
			s.EmissionsTrendPct = round1((last - first) / first * 100)
		}
	}

	for _, sup := range d.Suppliers {
		if sup.Level == RiskHigh {
			s.HighRiskSuppliers++
		}
	}

	for i := range d.Compliance {
		c := d.Compliance[i]
		if c.Urgency == UrgencyOverdue {
			continue
		}
		s.OpenDeadlines++
		if s.NextDeadline == nil || c.Due.Before(s.NextDeadline.Due) {
			s.NextDeadline = &d.Compliance[i]
		}
	}
	return s
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
