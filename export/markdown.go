// Package export renders personas and full reports as Markdown and
// sanitized HTML for download.
package export

import (
	"fmt"
	"strings"

	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/store"
)

// PersonaMarkdown renders a single persona as a Markdown document.
func PersonaMarkdown(p persona.UserPersona) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", p.Name)

	sb.WriteString("## Demographics\n")
	fmt.Fprintf(&sb, "- **Age Range**: %s\n", p.AgeRange)
	fmt.Fprintf(&sb, "- **Demographic**: %s\n\n", p.Demographic)

	writeSection(&sb, "Goals & Motivations", p.GoalsMotivations)
	writeSection(&sb, "Pain Points", p.PainPoints)
	writeSection(&sb, "Behaviors & Preferences", p.BehaviorsPreferences)
	writeSection(&sb, "Use Cases", p.UseCases)

	sb.WriteString("## Visual Preferences\n")
	fmt.Fprintf(&sb, "- **Preferred Colors**: %s\n", strings.Join(p.VisualPreferences.PreferredColors, ", "))
	fmt.Fprintf(&sb, "- **Design Style**: %s\n", p.VisualPreferences.DesignStyle)
	fmt.Fprintf(&sb, "- **Layout Preference**: %s\n", p.VisualPreferences.LayoutPreference)

	return sb.String()
}

// ReportMarkdown renders a full report entry: product profile, customer
// profile and every persona.
func ReportMarkdown(entry *store.ReportEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Persona Report\n\n")
	fmt.Fprintf(&sb, "- **URL**: %s\n", entry.URL)
	fmt.Fprintf(&sb, "- **Generated**: %s\n\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))

	if pp := entry.Report.ProductProfile; pp != nil {
		sb.WriteString("## Product Profile\n")
		fmt.Fprintf(&sb, "- **Name**: %s\n", pp.Name)
		fmt.Fprintf(&sb, "- **Category**: %s\n", pp.Category)
		fmt.Fprintf(&sb, "- **Value Proposition**: %s\n", pp.ValueProposition)
		fmt.Fprintf(&sb, "- **Target Market**: %s\n", pp.TargetMarket)
		fmt.Fprintf(&sb, "- **Brand Personality**: %s\n", pp.BrandPersonality)
		writeBullets(&sb, "Key Features", pp.KeyFeatures)
		sb.WriteString("\n")
	}

	if cp := entry.Report.CustomerProfile; cp != nil {
		fmt.Fprintf(&sb, "## Ideal Customer Profile (%s)\n", cp.Type)
		if cp.Type == persona.CustomerTypeB2B {
			fmt.Fprintf(&sb, "- **Industry Segment**: %s\n", cp.IndustrySegment)
			fmt.Fprintf(&sb, "- **Company Size**: %s\n", cp.CompanySize)
		} else {
			fmt.Fprintf(&sb, "- **Age Range**: %s\n", cp.AgeRange)
			fmt.Fprintf(&sb, "- **Income / Profession**: %s\n", cp.IncomeProfession)
			fmt.Fprintf(&sb, "- **Lifestyle**: %s\n", cp.Lifestyle)
		}
		if cp.BudgetRange != "" {
			fmt.Fprintf(&sb, "- **Budget Range**: %s\n", cp.BudgetRange)
		}
		writeBullets(&sb, "Key Needs", cp.KeyNeeds)
		writeBullets(&sb, "Pain Points", cp.PainPoints)
		writeBullets(&sb, "Use Cases", cp.UseCases)
		writeBullets(&sb, "Decision Drivers", cp.DecisionDrivers)
		sb.WriteString("\n")
	}

	for i, p := range entry.Report.Personas {
		fmt.Fprintf(&sb, "---\n\n")
		sb.WriteString(PersonaMarkdown(p))
		if i < len(entry.Report.Personas)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func writeSection(sb *strings.Builder, title string, items []string) {
	fmt.Fprintf(sb, "## %s\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func writeBullets(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "- **%s**:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
}
