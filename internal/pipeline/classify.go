package pipeline

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arizon-ai/adlens/internal/model"
)

// KeywordMatcher tests an ad name against a classification rule. Matchers
// are built once from validated configuration, never re-derived per row.
type KeywordMatcher interface {
	Match(adName string) bool
}

type noneMatcher struct{}

func (noneMatcher) Match(string) bool { return false }

type substringSetMatcher struct {
	keywords []string
}

func (m substringSetMatcher) Match(adName string) bool {
	lower := strings.ToLower(adName)
	for _, kw := range m.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Match(adName string) bool { return m.re.MatchString(adName) }

// NewSubstringMatcher builds a case-insensitive substring-set matcher from
// comma-split keywords. Empty input yields a matcher that never matches.
func NewSubstringMatcher(keywords []string) KeywordMatcher {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		return noneMatcher{}
	}
	return substringSetMatcher{keywords: cleaned}
}

// NewPatternMatcher wraps a compiled regexp as a matcher.
func NewPatternMatcher(re *regexp.Regexp) KeywordMatcher {
	if re == nil {
		return noneMatcher{}
	}
	return patternMatcher{re: re}
}

// SplitResult carries the two cohorts plus the classifier's diagnostics.
// Cohorts are disjoint: a record lands in at most one of them.
type SplitResult struct {
	Before      []model.Record
	After       []model.Record
	Diagnostics model.SplitDiagnostics
}

// SplitStrategy partitions normalized records into the before/after cohorts.
// The two implementations deliberately disagree on malformed dates: the
// cutoff strategy falls back to today, the range strategy excludes the row.
type SplitStrategy interface {
	Name() string
	Split(records []model.Record) SplitResult
}

// DateRange is an inclusive date interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// OngoingSentinel marks an ad still running at export time.
const OngoingSentinel = "En curso"

// NewStrategyPattern detects ads launched under the new strategy by name,
// regardless of their start date.
var NewStrategyPattern = regexp.MustCompile(`(?i)arizon|lista.*\d{2}/\d{2}`)

// CutoffStrategy is the simplified single-cutoff split: a record goes after
// when it starts on/after the cutoff date or its name matches the brand
// pattern. Dates must be three dash-separated numbers; missing or ongoing
// dates count as today, anything else parses to no date and the record stays
// in the before cohort.
type CutoffStrategy struct {
	Cutoff time.Time
	Brand  KeywordMatcher
	Now    func() time.Time // defaults to time.Now
}

func (s CutoffStrategy) Name() string { return "cutoff" }

func (s CutoffStrategy) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// parseStrict parses "YYYY-M-D" (exactly three dash-separated numeric
// parts). Returns the zero time when the string does not conform.
func parseStrict(dateStr string, now time.Time) time.Time {
	if dateStr == "" || dateStr == OngoingSentinel {
		return now
	}
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return time.Time{}
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, ok := atoiDigits(p)
		if !ok {
			return time.Time{}
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
}

// atoiDigits parses an unsigned decimal; anything else fails.
func atoiDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Split implements the simplified mode. Every record lands in a cohort;
// there are no skips in this strategy.
func (s CutoffStrategy) Split(records []model.Record) SplitResult {
	var res SplitResult
	now := s.now()

	brand := s.Brand
	if brand == nil {
		brand = NewPatternMatcher(NewStrategyPattern)
	}

	for _, rec := range records {
		start := parseStrict(rec.StartRaw, now)
		onOrAfter := !start.IsZero() && !start.Before(s.Cutoff)
		if onOrAfter || brand.Match(rec.AdName) {
			res.After = append(res.After, rec)
		} else {
			res.Before = append(res.Before, rec)
		}
	}

	zap.L().Info("classify: cutoff split",
		zap.Time("cutoff", s.Cutoff),
		zap.Int("before", len(res.Before)),
		zap.Int("after", len(res.After)),
	)
	return res
}

// RangeStrategy is the configurable split: explicit date ranges per period,
// an exclude-keyword set on period 1 and an include-keyword set on period 2.
type RangeStrategy struct {
	Period1 DateRange
	Period2 DateRange
	Exclude KeywordMatcher // period-1 exclusions
	Include KeywordMatcher // period-2 force-includes
}

func (s RangeStrategy) Name() string { return "range" }

// parseGeneral accepts "2006-01-02" or RFC3339. Returns the zero time when
// unparseable; such records are excluded from both cohorts.
func parseGeneral(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t
	}
	return time.Time{}
}

// Split implements the configurable mode. Rule priority per record:
// undated rows are excluded first, then the period-2 include keywords win
// over everything, then period-1 exclude keywords reroute or drop the row,
// then date membership decides (period 2 checked before period 1).
func (s RangeStrategy) Split(records []model.Record) SplitResult {
	var res SplitResult

	include := s.Include
	if include == nil {
		include = noneMatcher{}
	}
	exclude := s.Exclude
	if exclude == nil {
		exclude = noneMatcher{}
	}

	for _, rec := range records {
		start := parseGeneral(rec.StartRaw)
		if start.IsZero() {
			res.Diagnostics.NoDate++
			continue
		}

		if include.Match(rec.AdName) {
			res.After = append(res.After, rec)
			continue
		}

		if exclude.Match(rec.AdName) {
			if s.Period2.Contains(start) {
				res.After = append(res.After, rec)
			} else {
				res.Diagnostics.Skipped++
			}
			continue
		}

		switch {
		case s.Period2.Contains(start):
			res.After = append(res.After, rec)
		case s.Period1.Contains(start):
			res.Before = append(res.Before, rec)
		default:
			res.Diagnostics.Skipped++
		}
	}

	zap.L().Info("classify: range split",
		zap.Int("before", len(res.Before)),
		zap.Int("after", len(res.After)),
		zap.Int("skipped", res.Diagnostics.Skipped),
		zap.Int("no_date", res.Diagnostics.NoDate),
	)
	return res
}
