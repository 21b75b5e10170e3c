package usecase

import (
	"strconv"
	"strings"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

var csvHeader = []string{
	"Name", "Email", "Phone", "Company", "Job Title",
	"City", "State", "Intent Score", "Enrichment", "Delivered",
}

// RenderLeadsCSV renders the export body: one header row, one row per
// assignment, every field double-quoted with internal quotes doubled.
// encoding/csv quotes only when it has to, and the export contract quotes
// unconditionally, hence the hand-rolled writer.
func RenderLeadsCSV(rows []entity.LeadAssignment) []byte {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)

	for _, a := range rows {
		writeCSVRow(&b, []string{
			a.Lead.Name,
			a.Lead.Email,
			a.Lead.Phone,
			a.Lead.Company,
			a.Lead.JobTitle,
			a.Lead.City,
			a.Lead.State,
			strconv.Itoa(a.Lead.IntentScore),
			a.Lead.EnrichmentStatus,
			a.CreatedAt.Format("2006-01-02"),
		})
	}

	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}
