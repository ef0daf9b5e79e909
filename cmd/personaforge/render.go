package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/store"
)

var (
	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)
)

func renderStage(ev persona.StageEvent) string {
	return stageStyle.Render(fmt.Sprintf("[%s] %s", ev.Stage, ev.Message))
}

func renderReport(entry *store.ReportEntry) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Persona Report") + "\n")
	sb.WriteString(labelStyle.Render("URL: ") + entry.URL + "\n")
	sb.WriteString(labelStyle.Render("Generated: ") + entry.Timestamp.Format("2006-01-02 15:04:05") + "\n\n")

	if pp := entry.Report.ProductProfile; pp != nil {
		sb.WriteString(sectionStyle.Render("Product Profile") + "\n")
		writeField(&sb, "Name", pp.Name)
		writeField(&sb, "Category", pp.Category)
		writeField(&sb, "Value Proposition", pp.ValueProposition)
		writeField(&sb, "Target Market", pp.TargetMarket)
		writeList(&sb, "Key Features", pp.KeyFeatures)
		sb.WriteString("\n")
	}

	if cp := entry.Report.CustomerProfile; cp != nil {
		sb.WriteString(sectionStyle.Render("Ideal Customer Profile ("+cp.Type+")") + "\n")
		if cp.Type == persona.CustomerTypeB2B {
			writeField(&sb, "Industry Segment", cp.IndustrySegment)
			writeField(&sb, "Company Size", cp.CompanySize)
		} else {
			writeField(&sb, "Age Range", cp.AgeRange)
			writeField(&sb, "Income / Profession", cp.IncomeProfession)
			writeField(&sb, "Lifestyle", cp.Lifestyle)
		}
		writeField(&sb, "Budget Range", cp.BudgetRange)
		writeList(&sb, "Key Needs", cp.KeyNeeds)
		writeList(&sb, "Pain Points", cp.PainPoints)
		sb.WriteString("\n")
	}

	for _, p := range entry.Report.Personas {
		sb.WriteString(renderPersona(p) + "\n")
	}

	return sb.String()
}

func renderPersona(p persona.UserPersona) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(p.Name) + "  " + stageStyle.Render(p.AgeRange) + "\n")
	sb.WriteString(p.Demographic + "\n\n")

	writeList(&sb, "Goals & Motivations", p.GoalsMotivations)
	writeList(&sb, "Pain Points", p.PainPoints)
	writeList(&sb, "Behaviors & Preferences", p.BehaviorsPreferences)
	writeList(&sb, "Use Cases", p.UseCases)

	sb.WriteString(labelStyle.Render("Visual: "))
	sb.WriteString(fmt.Sprintf("%s; %s; colors: %s",
		p.VisualPreferences.DesignStyle,
		p.VisualPreferences.LayoutPreference,
		strings.Join(p.VisualPreferences.PreferredColors, ", ")))

	return cardStyle.Render(sb.String())
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(labelStyle.Render(label+": ") + value + "\n")
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(labelStyle.Render(label) + "\n")
	for _, item := range items {
		sb.WriteString("  • " + item + "\n")
	}
}
