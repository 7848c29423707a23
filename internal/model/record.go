// Package model defines the data structures shared across the analysis
// pipeline: normalized records, cohorts, aggregates, and derived metrics.
package model

// Gender is the display label a raw gender code maps to.
type Gender string

const (
	GenderMen   Gender = "Men"
	GenderWomen Gender = "Women"
	GenderOther Gender = "Other"
)

// MapGender converts a raw source gender code into a display label.
// Every demographic key in the system is built through this mapping.
func MapGender(code string) Gender {
	switch code {
	case "male":
		return GenderMen
	case "female":
		return GenderWomen
	default:
		return GenderOther
	}
}

// Sentinels for absent text fields.
const (
	UnknownAge        = "Unknown"
	DefaultResultType = "Otro"
)

// Record is one normalized row of the ad export: one ad/demographic/day
// slice. Records are immutable after normalization.
type Record struct {
	AdName      string  `json:"ad_name"`
	ResultType  string  `json:"result_type"`
	Spend       float64 `json:"spend"`
	Results     float64 `json:"results"`
	Reach       float64 `json:"reach"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	StartRaw    string  `json:"start_raw"` // raw start-date text; parsed by the split strategy
	Age         string  `json:"age"`
	GenderCode  string  `json:"gender_code"` // raw source code ("male"/"female"/...)
	Gender      Gender  `json:"gender"`
	Delivery    string  `json:"delivery"`
}

// SegmentKey is the demographic grouping key: "<gender label> <age bracket>".
func (r Record) SegmentKey() string {
	return string(r.Gender) + " " + r.Age
}

// Side identifies which cohort a value belongs to in a comparison.
type Side string

const (
	SideBefore Side = "before"
	SideAfter  Side = "after"
	SideNone   Side = "" // tie or not applicable
)
