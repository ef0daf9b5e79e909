// Package persona holds the report data model and the profile pipeline: the
// sequential product-profile, customer-profile and persona-generation stages
// built on schema-validated LLM calls, plus a chat-with-persona mode.
package persona

// VisualIdentity describes a product's look as free text.
type VisualIdentity struct {
	ColorScheme string `json:"colorScheme"`
	Typography  string `json:"typography"`
	DesignStyle string `json:"designStyle"`
}

// ProductProfile is derived from scraped website content by the first
// pipeline stage. Immutable once produced.
type ProductProfile struct {
	Name             string         `json:"name"`
	Category         string         `json:"category"`
	KeyFeatures      []string       `json:"keyFeatures"`
	ValueProposition string         `json:"valueProposition"`
	TargetMarket     string         `json:"targetMarket"`
	BrandPersonality string         `json:"brandPersonality"`
	VisualIdentity   VisualIdentity `json:"visualIdentity"`
}

// Customer profile discriminator values.
const (
	CustomerTypeB2B = "B2B"
	CustomerTypeB2C = "B2C"
)

// CustomerProfile is the ideal customer profile derived from a product
// profile, discriminated by Type into B2B or B2C. The optional field groups
// are not structurally exclusive: the model fills the group matching Type,
// and the shape deliberately stays permissive rather than a tagged union.
type CustomerProfile struct {
	Type string `json:"type"`

	// B2B fields.
	IndustrySegment string   `json:"industrySegment,omitempty"`
	CompanySize     string   `json:"companySize,omitempty"`
	DecisionMakers  []string `json:"decisionMakers,omitempty"`

	// B2C fields.
	AgeRange         string `json:"ageRange,omitempty"`
	IncomeProfession string `json:"incomeProfession,omitempty"`
	Lifestyle        string `json:"lifestyle,omitempty"`

	// Common fields.
	KeyNeeds          []string `json:"keyNeeds"`
	PainPoints        []string `json:"painPoints"`
	UseCases          []string `json:"useCases"`
	FitCriteria       []string `json:"fitCriteria"`
	ExclusionCriteria []string `json:"exclusionCriteria"`
	BudgetRange       string   `json:"budgetRange,omitempty"`
	DecisionDrivers   []string `json:"decisionDrivers"`
}

// VisualPreferences describes a persona's design taste.
type VisualPreferences struct {
	PreferredColors  []string `json:"preferredColors"`
	DesignStyle      string   `json:"designStyle"`
	LayoutPreference string   `json:"layoutPreference"`
}

// UserPersona is one synthetic user generated by the third pipeline stage.
type UserPersona struct {
	Name                 string            `json:"name"`
	AgeRange             string            `json:"ageRange"`
	Demographic          string            `json:"demographic"`
	GoalsMotivations     []string          `json:"goalsMotivations"`
	PainPoints           []string          `json:"painPoints"`
	BehaviorsPreferences []string          `json:"behaviorsPreferences"`
	UseCases             []string          `json:"useCases"`
	VisualPreferences    VisualPreferences `json:"visualPreferences"`
}

// personaSet wraps the persona batch so the whole set is one structured
// generation call rather than N independent ones.
type personaSet struct {
	Personas []UserPersona `json:"personas"`
}
