package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/arizon-ai/adlens/internal/config"
	"github.com/arizon-ai/adlens/internal/model"
)

// ApplyFilters runs the pre-classification row filter. Delivery-status flags
// drop rows only for the statuses they name; unknown statuses always pass.
// Age and gender allowlists are skipped for rows whose field is empty, so
// campaign-level rows without a demographic breakdown survive.
func ApplyFilters(records []model.Record, f config.FiltersConfig) []model.Record {
	contains := strings.ToLower(f.NameContains)
	excludes := strings.ToLower(f.NameExcludes)

	kept := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.Delivery == "active" && !f.DeliveryActive {
			continue
		}
		if r.Delivery == "not_delivering" && !f.DeliveryNotDelivering {
			continue
		}
		if r.Spend < f.MinSpend {
			continue
		}

		name := strings.ToLower(r.AdName)
		if contains != "" && !strings.Contains(name, contains) {
			continue
		}
		if excludes != "" && strings.Contains(name, excludes) {
			continue
		}

		if r.Age != model.UnknownAge && len(f.Ages) > 0 && !containsString(f.Ages, r.Age) {
			continue
		}
		if r.GenderCode != "" && len(f.Genders) > 0 && !containsString(f.Genders, r.GenderCode) {
			continue
		}

		kept = append(kept, r)
	}

	if dropped := len(records) - len(kept); dropped > 0 {
		zap.L().Info("filter: dropped rows",
			zap.Int("input", len(records)),
			zap.Int("kept", len(kept)),
			zap.Int("dropped", dropped),
		)
	}

	return kept
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
