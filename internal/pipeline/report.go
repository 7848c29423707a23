package pipeline

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arizon-ai/adlens/internal/model"
)

// severityMarks maps finding severities to their report prefixes.
var severityMarks = map[model.Severity]string{
	model.SeveritySuccess: "[OK]",
	model.SeverityInfo:    "[i]",
	model.SeverityWarning: "[!]",
	model.SeverityDanger:  "[!!]",
	model.SeverityTip:     "[tip]",
}

// money renders a dollar amount, with unbounded values shown as a dash
// instead of +Inf.
func money(v float64) string {
	if math.IsInf(v, 1) {
		return "—"
	}
	return fmt.Sprintf("$%.2f", v)
}

// num renders a plain metric value with the same unbounded-value policy.
func num(v float64) string {
	if math.IsInf(v, 1) {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatComparison generates the human-readable two-period report.
func FormatComparison(cmp *model.Comparison, clientName string) string {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	title := "Comparative Analysis"
	if clientName != "" {
		title += ": " + clientName
	}
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "Run: %s (strategy: %s)\n\n", cmp.RunID, cmp.Strategy)

	if cmp.Degenerate {
		b.WriteString("> One of the periods has no data; comparative sections are partial.\n\n")
	}

	// Cohort summary.
	b.WriteString("## Periods\n")
	for _, c := range []model.CohortReport{cmp.Before, cmp.After} {
		p.Fprintf(&b, "- %s: %d rows, %s spent, %.0f conversations, %v impressions\n",
			c.Name, c.Aggregate.Records, money(c.Aggregate.Spend),
			c.Aggregate.Conversations, int64(c.Aggregate.Impressions))
	}
	if d := cmp.Diagnostics; d.Skipped > 0 || d.NoDate > 0 {
		fmt.Fprintf(&b, "- Unclassified: %d outside both periods, %d without a date\n",
			d.Skipped, d.NoDate)
	}
	b.WriteString("\n")

	// Metric winners.
	b.WriteString("## Metric Winners\n")
	for _, w := range cmp.Winners {
		winner := "tie"
		switch w.Winner {
		case model.SideBefore:
			winner = cmp.Before.Name
		case model.SideAfter:
			winner = cmp.After.Name
		}
		fmt.Fprintf(&b, "- %s: %s vs %s → %s\n", w.Metric, num(w.Before), num(w.After), winner)
	}
	b.WriteString("\n")

	// Benchmark compliance.
	b.WriteString("## Benchmark Compliance\n")
	writeCompliance(&b, cmp.Before.Name, cmp.BeforeCompliance)
	writeCompliance(&b, cmp.After.Name, cmp.AfterCompliance)
	b.WriteString("\n")

	if len(cmp.BestSegments) > 0 {
		b.WriteString("## Best Audiences\n")
		for _, s := range cmp.BestSegments {
			fmt.Fprintf(&b, "- %s: %s per conversation (%.0f conversations, %s spent)\n",
				s.Name, money(s.CostPerConversation), s.Conversations, money(s.Spend))
		}
		b.WriteString("\n")
	}
	if len(cmp.WorstSegments) > 0 {
		b.WriteString("## Most Expensive Audiences\n")
		for _, s := range cmp.WorstSegments {
			fmt.Fprintf(&b, "- %s: %s per conversation\n", s.Name, money(s.CostPerConversation))
		}
		b.WriteString("\n")
	}

	writeAds(&b, p, "Top Ads: "+cmp.Before.Name, cmp.TopAdsBefore)
	writeAds(&b, p, "Top Ads: "+cmp.After.Name, cmp.TopAdsAfter)

	if len(cmp.BestKeywords) > 0 {
		b.WriteString("## Keywords That Convert\n")
		for _, k := range cmp.BestKeywords {
			fmt.Fprintf(&b, "- %s (×%d): %s per result, %.2f%% CTR\n",
				k.Word, k.Count, money(k.CostPerResult), k.CTR)
		}
		for _, k := range cmp.WorstKeywords {
			fmt.Fprintf(&b, "- avoid %s (×%d): %s per result\n",
				k.Word, k.Count, money(k.CostPerResult))
		}
		b.WriteString("\n")
	}

	if len(cmp.CampaignTypes) > 0 {
		b.WriteString("## Campaign Types\n")
		for _, t := range cmp.CampaignTypes {
			fmt.Fprintf(&b, "- %s: %s → %s spend, CPR %s → %s [%s]\n",
				t.Type, money(t.BeforeSpend), money(t.AfterSpend),
				money(t.BeforeCPR), money(t.AfterCPR), t.Action)
		}
		b.WriteString("\n")
	}

	if len(cmp.Creatives) > 0 {
		b.WriteString("## Creative Formats\n")
		for _, c := range cmp.Creatives {
			fmt.Fprintf(&b, "- %s: CPL %s → %s (%.0f → %.0f conversations)\n",
				c.Name, money(c.BeforeCPL), money(c.AfterCPL),
				c.BeforeConversations, c.AfterConversations)
		}
		b.WriteString("\n")
	}

	if len(cmp.Findings) > 0 {
		b.WriteString("## Findings\n")
		for _, f := range cmp.Findings {
			fmt.Fprintf(&b, "- %s %s\n", severityMarks[f.Severity], f.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Projection\n")
	if cmp.Projection.Defined {
		fmt.Fprintf(&b, "A %s monthly budget projects to about %d conversations at %s each.\n",
			money(cmp.Projection.Budget), cmp.Projection.Conversations,
			money(cmp.Projection.CostPerConversation))
	} else {
		b.WriteString("No projection: the after period has no conversation cost to extrapolate.\n")
	}

	return b.String()
}

// FormatSnapshot generates the single-cohort report.
func FormatSnapshot(snap *model.Snapshot) string {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	fmt.Fprintf(&b, "# Campaign Snapshot\n")
	fmt.Fprintf(&b, "Run: %s\n\n", snap.RunID)

	agg, m := snap.Cohort.Aggregate, snap.Cohort.Metrics
	b.WriteString("## Totals\n")
	p.Fprintf(&b, "- Rows: %d\n", agg.Records)
	fmt.Fprintf(&b, "- Spend: %s\n", money(agg.Spend))
	p.Fprintf(&b, "- Impressions: %v, Reach: %v, Clicks: %v\n",
		int64(agg.Impressions), int64(agg.Reach), int64(agg.Clicks))
	fmt.Fprintf(&b, "- Conversations: %.0f (CPL %s)\n", agg.Conversations, money(m.CostPerConversation))
	fmt.Fprintf(&b, "- CTR %.2f%%, CPM %s, CPC %s, Frequency %.2f\n\n",
		m.CTR, money(m.CPM), money(m.CPC), m.Frequency)

	if len(snap.Matrix) > 0 {
		b.WriteString("## Audience Matrix\n")
		for _, row := range snap.Matrix {
			fmt.Fprintf(&b, "- %s: %s spent, %.0f results (CPR %s), %.2f%% CTR\n",
				row.Segment, money(row.Spend), row.Results, money(row.CostPerResult), row.CTR)
		}
		fmt.Fprintf(&b, "Average cost per result across segments: %s\n\n", money(snap.AvgCPR))
	}

	writeAds(&b, p, "Top Ads by Spend", snap.TopAds)
	writeAds(&b, p, "Most Efficient Ads", snap.BestAds)
	writeAds(&b, p, "Least Efficient Ads", snap.WorstAds)

	b.WriteString("## Keyword Highlights\n")
	for _, c := range snap.Keywords {
		if !c.Present {
			fmt.Fprintf(&b, "- %s: no qualifying keyword\n", c.Label)
			continue
		}
		switch c.Unit {
		case "%":
			fmt.Fprintf(&b, "- %s: %s (%.2f%%)\n", c.Label, c.Word, c.Value)
		default:
			fmt.Fprintf(&b, "- %s: %s (%s)\n", c.Label, c.Word, money(c.Value))
		}
	}

	return b.String()
}

func writeCompliance(b *strings.Builder, name string, c model.Compliance) {
	fmt.Fprintf(b, "- %s: %d/%d checks pass\n", name, c.Score, len(c.Checks))
	for _, check := range c.Checks {
		rel := "≥"
		if check.Ceiling {
			rel = "≤"
		}
		mark := "miss"
		if check.Meets {
			mark = "ok"
		}
		fmt.Fprintf(b, "  - %s: %s %s %.2f (%s)\n",
			check.Metric, num(check.Value), rel, check.Threshold, mark)
	}
}

func writeAds(b *strings.Builder, p *message.Printer, title string, ads []model.AdRank) {
	if len(ads) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n", title)
	for _, a := range ads {
		p.Fprintf(b, "- %s: %s spent, %.0f results (CPR %s), reach %v\n",
			a.Name, money(a.Spend), a.Results, money(a.CostPerResult), int64(a.Reach))
	}
	b.WriteString("\n")
}
