package service

import (
	"strings"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

// TagSeparator joins tags in the rendered prompt.
const TagSeparator = ", "

// promptPreamble is the fixed instruction block that precedes the report.
const promptPreamble = `You are an expert global risk analyst for ProblemPulse. Your task is to analyze submitted global risk problems and assign a prioritization status (CRITICAL, WARNING, or NORMAL) along with a brief, one-sentence explanation.

Consider the title, description, location, category, and tags to determine the appropriate status. A CRITICAL status indicates an immediate and severe threat requiring urgent attention. A WARNING status suggests a significant potential risk that needs monitoring. A NORMAL status indicates a lower-level risk or one that is currently stable.

Problem Details:
`

// RenderPrompt renders a report into the prompt sent to the model. The output
// depends only on the report: fields appear in the order title, description,
// location, category, tags, each value is interpolated verbatim, and tags are
// joined by TagSeparator in input order with no trailing separator.
func RenderPrompt(report model.RiskReport) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	writeLine(&b, "Title", report.Title())
	writeLine(&b, "Description", report.Description())
	writeLine(&b, "Location", report.Location())
	writeLine(&b, "Category", report.Category())
	writeLine(&b, "Tags", strings.Join(report.Tags(), TagSeparator))
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}
