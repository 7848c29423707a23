package pipeline

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/arizon-ai/adlens/internal/model"
)

// DetectedPeriods is the result of inferring a before/after split from the
// dates present in the data, used when no explicit period config is given.
type DetectedPeriods struct {
	Period1     DateRange
	Period2     DateRange
	Period1Name string
	Period2Name string
}

// DetectPeriods infers two comparison windows from record start dates. With
// two or more distinct months in the data, the earliest month becomes the
// before period and the latest the after period. With a single month, the
// observed span splits at its midpoint. Returns false when no record carries
// a parseable date.
func DetectPeriods(records []model.Record) (DetectedPeriods, bool) {
	var dates []time.Time
	for _, r := range records {
		if t := parseGeneral(r.StartRaw); !t.IsZero() {
			dates = append(dates, t)
		}
	}
	if len(dates) == 0 {
		return DetectedPeriods{}, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	first, last := dates[0], dates[len(dates)-1]
	firstMonth := monthStart(first)
	lastMonth := monthStart(last)

	if !firstMonth.Equal(lastMonth) {
		dp := DetectedPeriods{
			Period1:     monthRange(firstMonth),
			Period2:     monthRange(lastMonth),
			Period1Name: firstMonth.Format("January 2006"),
			Period2Name: lastMonth.Format("January 2006"),
		}
		zap.L().Info("pipeline: detected periods from month boundaries",
			zap.String("period1", dp.Period1Name),
			zap.String("period2", dp.Period2Name),
		)
		return dp, true
	}

	// Single month: split the observed span at its midpoint.
	mid := first.Add(last.Sub(first) / 2)
	dp := DetectedPeriods{
		Period1:     DateRange{Start: first, End: mid},
		Period2:     DateRange{Start: mid.AddDate(0, 0, 1), End: last},
		Period1Name: fmt.Sprintf("%s (first half)", firstMonth.Format("January 2006")),
		Period2Name: fmt.Sprintf("%s (second half)", firstMonth.Format("January 2006")),
	}
	zap.L().Info("pipeline: detected periods by midpoint split",
		zap.Time("start", first),
		zap.Time("mid", mid),
		zap.Time("end", last),
	)
	return dp, true
}

// DetectObjectives lists the distinct result types present in the data,
// conversation types first, each group alphabetical. Used to describe what
// the account was optimizing for when no configuration says so.
func DetectObjectives(records []model.Record) []string {
	seen := make(map[string]bool)
	var conv, other []string
	for _, r := range records {
		if r.ResultType == "" || seen[r.ResultType] {
			continue
		}
		seen[r.ResultType] = true
		if IsConversationType(r.ResultType) {
			conv = append(conv, r.ResultType)
		} else {
			other = append(other, r.ResultType)
		}
	}
	sort.Strings(conv)
	sort.Strings(other)
	return append(conv, other...)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthRange(start time.Time) DateRange {
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}
