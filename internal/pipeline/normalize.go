// Package pipeline implements the analysis core: normalize → filter →
// classify → aggregate → derive → rank, one synchronous run per input file.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/arizon-ai/adlens/internal/fetcher"
	"github.com/arizon-ai/adlens/internal/model"
)

// Source column names from the Meta export (Spanish locale). All column-name
// dependencies live here; nothing downstream ever touches a raw row.
const (
	colAdName      = "Nombre del anuncio"
	colResultType  = "Tipo de resultado"
	colSpend       = "Importe gastado (USD)"
	colResults     = "Resultados"
	colReach       = "Alcance"
	colImpressions = "Impresiones"
	colClicks      = "Clics (todos)"
	colStart       = "Inicio"
	colAge         = "Edad"
	colGender      = "Sexo"
	colDelivery    = "Estado de la entrega"
)

// parseNumber applies the uniform numeric policy: parse as a float, zero on
// anything missing or malformed. No numeric field is read any other way.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// textOr returns the trimmed value or a sentinel when absent.
func textOr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

// NormalizeRow coerces one raw row into a Record. Malformed rows never
// error; they degrade to zero-valued numerics and sentinel texts.
func NormalizeRow(row fetcher.Row) model.Record {
	code := strings.TrimSpace(row[colGender])
	return model.Record{
		AdName:      strings.TrimSpace(row[colAdName]),
		ResultType:  textOr(row[colResultType], model.DefaultResultType),
		Spend:       parseNumber(row[colSpend]),
		Results:     parseNumber(row[colResults]),
		Reach:       parseNumber(row[colReach]),
		Impressions: parseNumber(row[colImpressions]),
		Clicks:      parseNumber(row[colClicks]),
		StartRaw:    strings.TrimSpace(row[colStart]),
		Age:         textOr(row[colAge], model.UnknownAge),
		GenderCode:  code,
		Gender:      model.MapGender(code),
		Delivery:    strings.TrimSpace(row[colDelivery]),
	}
}

// Normalize converts raw rows into Records, dropping rows with no ad name
// (blank trailing lines and summary rows in exports).
func Normalize(rows []fetcher.Row) []model.Record {
	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec := NormalizeRow(row)
		if rec.AdName == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}
