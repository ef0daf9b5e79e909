package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/store"
)

func testPersona() persona.UserPersona {
	return persona.UserPersona{
		Name:                 "Marta",
		AgeRange:             "28-38",
		Demographic:          "Operations lead, Lisbon",
		GoalsMotivations:     []string{"keep the team aligned", "cut meeting time"},
		PainPoints:           []string{"information silos"},
		BehaviorsPreferences: []string{"keyboard-first"},
		UseCases:             []string{"weekly planning"},
		VisualPreferences: persona.VisualPreferences{
			PreferredColors:  []string{"indigo", "white"},
			DesignStyle:      "minimal",
			LayoutPreference: "dense lists",
		},
	}
}

func testEntry() *store.ReportEntry {
	return &store.ReportEntry{
		ID:        "r1",
		URL:       "https://example.com",
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Report: store.ReportData{
			ProductProfile: &persona.ProductProfile{
				Name:             "Acme Notes",
				Category:         "Productivity software",
				KeyFeatures:      []string{"offline sync"},
				ValueProposition: "Notes that never lose your work",
				TargetMarket:     "Small remote teams",
				BrandPersonality: "Calm",
			},
			CustomerProfile: &persona.CustomerProfile{
				Type:            persona.CustomerTypeB2B,
				IndustrySegment: "SaaS",
				CompanySize:     "10-200 employees",
				KeyNeeds:        []string{"shared context"},
				PainPoints:      []string{"scattered docs"},
				UseCases:        []string{"meeting notes"},
				DecisionDrivers: []string{"price"},
				BudgetRange:     "$10-20 per seat",
			},
			Personas: []persona.UserPersona{testPersona()},
		},
	}
}

func TestPersonaMarkdown(t *testing.T) {
	t.Parallel()

	md := PersonaMarkdown(testPersona())

	assert.True(t, strings.HasPrefix(md, "# Marta\n"))
	assert.Contains(t, md, "## Demographics\n- **Age Range**: 28-38\n- **Demographic**: Operations lead, Lisbon")
	assert.Contains(t, md, "## Goals & Motivations\n- keep the team aligned\n- cut meeting time")
	assert.Contains(t, md, "## Pain Points\n- information silos")
	assert.Contains(t, md, "## Behaviors & Preferences\n- keyboard-first")
	assert.Contains(t, md, "## Use Cases\n- weekly planning")
	assert.Contains(t, md, "- **Preferred Colors**: indigo, white")
	assert.Contains(t, md, "- **Layout Preference**: dense lists")
}

func TestReportMarkdown(t *testing.T) {
	t.Parallel()

	md := ReportMarkdown(testEntry())

	assert.True(t, strings.HasPrefix(md, "# Persona Report\n"))
	assert.Contains(t, md, "- **URL**: https://example.com")
	assert.Contains(t, md, "- **Generated**: 2026-03-14 09:30:00 UTC")
	assert.Contains(t, md, "## Product Profile")
	assert.Contains(t, md, "- **Name**: Acme Notes")
	assert.Contains(t, md, "## Ideal Customer Profile (B2B)")
	assert.Contains(t, md, "- **Industry Segment**: SaaS")
	assert.Contains(t, md, "- **Budget Range**: $10-20 per seat")
	assert.Contains(t, md, "# Marta")

	// B2C fields must not leak into a B2B report.
	assert.NotContains(t, md, "Income / Profession")
}

func TestReportMarkdown_B2C(t *testing.T) {
	t.Parallel()

	entry := testEntry()
	entry.Report.CustomerProfile = &persona.CustomerProfile{
		Type:             persona.CustomerTypeB2C,
		AgeRange:         "25-45",
		IncomeProfession: "Mid income, designers",
		Lifestyle:        "Urban, mobile-first",
		KeyNeeds:         []string{"simplicity"},
	}

	md := ReportMarkdown(entry)
	assert.Contains(t, md, "## Ideal Customer Profile (B2C)")
	assert.Contains(t, md, "- **Income / Profession**: Mid income, designers")
	assert.NotContains(t, md, "Industry Segment")
}

func TestReportMarkdown_PartialReport(t *testing.T) {
	t.Parallel()

	entry := testEntry()
	entry.Report.CustomerProfile = nil
	entry.Report.Personas = nil

	md := ReportMarkdown(entry)
	assert.Contains(t, md, "## Product Profile")
	assert.NotContains(t, md, "Ideal Customer Profile")
	assert.NotContains(t, md, "# Marta")
}

func TestPersonaHTML(t *testing.T) {
	t.Parallel()

	out := string(PersonaHTML(testPersona()))
	assert.Contains(t, out, "Marta</h1>")
	assert.Contains(t, out, "<strong>Age Range</strong>")
	assert.Contains(t, out, "<li>keep the team aligned</li>")
}

func TestHTML_SanitizesScripts(t *testing.T) {
	t.Parallel()

	p := testPersona()
	p.Name = `Marta <script>alert("x")</script>`
	out := string(PersonaHTML(p))

	require.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Marta")
}

func TestReportHTML(t *testing.T) {
	t.Parallel()

	out := string(ReportHTML(testEntry()))
	assert.Contains(t, out, "Persona Report</h1>")
	assert.Contains(t, out, "Product Profile</h2>")
}
