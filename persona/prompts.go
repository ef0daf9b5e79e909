package persona

import (
	"encoding/json"
	"fmt"
	"strings"
)

func productProfilePrompt(scraped string) string {
	return fmt.Sprintf(`Analyze the following website content and create a detailed product profile.

Website Content:
%s

Create a comprehensive product profile with:
- Product/Service name
- Industry category
- Key features (at least 3)
- Main value proposition
- Primary target market
- Brand personality description
- Visual identity (color scheme, typography, design style)

Focus on extracting concrete information from the website content provided.`, scraped)
}

func customerProfilePrompt(product ProductProfile) string {
	return fmt.Sprintf(`Based on the following product profile, create an ideal customer profile.

Product Profile:
%s

First, determine if this is a B2B (business-to-business) or B2C (business-to-consumer) product/service.

If B2B, provide:
- type: "B2B"
- industrySegment: Target industry sectors
- companySize: Company size range (e.g., "50-500 employees", "Enterprise 1000+")
- decisionMakers: Key decision makers and stakeholders
- keyNeeds: Business needs (at least 3)
- painPoints: Business pain points (at least 3)
- useCases: Common business use cases (at least 3)
- fitCriteria: What makes a company a good fit (at least 3)
- exclusionCriteria: What disqualifies a company (at least 2)
- budgetRange: Typical budget range
- decisionDrivers: Key factors in purchase decision (at least 3)

If B2C, provide:
- type: "B2C"
- ageRange: Target age range (e.g., "25-45")
- incomeProfession: Income level and typical professions
- lifestyle: Lifestyle characteristics and interests
- keyNeeds: Personal needs and desires (at least 3)
- painPoints: Personal pain points and frustrations (at least 3)
- useCases: Common personal use cases (at least 3)
- fitCriteria: What makes a person a good fit (at least 3)
- exclusionCriteria: What disqualifies a person (at least 2)
- budgetRange: Typical spending capacity
- decisionDrivers: Key factors in purchase decision (at least 3)

Focus on who would benefit most from this product/service and be specific about the ideal customer characteristics.`, prettyJSON(product))
}

func userPersonasPrompt(product ProductProfile, customer CustomerProfile, count int) string {
	return fmt.Sprintf(`Based on the following product and customer profiles, create %d detailed user personas.

Product Profile:
%s

Customer Profile:
%s

Create exactly %d diverse and realistic user personas. For each persona, provide:
- A fictional name
- Age range (e.g., 25-35)
- Demographic details (location, occupation, etc.)
- Goals and motivations (at least 3)
- Pain points (at least 3)
- Behaviors and preferences (at least 3)
- Use cases (at least 3)
- Visual preferences (preferred colors, design style, layout preference)

Make each persona unique, detailed, and grounded in the product/customer context.`,
		count, prettyJSON(product), prettyJSON(customer), count)
}

// chatContext builds the roleplay system prompt for chatting with a persona.
// The product profile is optional and adds product framing when present.
func chatContext(p UserPersona, product *ProductProfile) string {
	var productPart string
	if product != nil {
		productPart = fmt.Sprintf(`

You are discussing and providing feedback about the following product:
Product Name: %s
Category: %s
Value Proposition: %s
Key Features: %s
Target Market: %s
Brand Personality: %s

When answering questions, consider how this product relates to your needs, goals, and pain points. Provide authentic feedback from your perspective as %s.`,
			product.Name, product.Category, product.ValueProposition,
			strings.Join(product.KeyFeatures, ", "), product.TargetMarket,
			product.BrandPersonality, p.Name)
	}

	return fmt.Sprintf(`You are roleplaying as %s, a user persona with the following characteristics:

Demographics: %s
Age Range: %s

Goals & Motivations:
%s

Pain Points:
%s

Behaviors & Preferences:
%s

Use Cases:
%s

Visual Preferences:
- Preferred Colors: %s
- Design Style: %s
- Layout Preference: %s%s

Respond as this persona would, incorporating their goals, pain points, and preferences into your answers. Be conversational, authentic, and speak from their perspective. Keep responses concise and natural.`,
		p.Name, p.Demographic, p.AgeRange,
		bulletList(p.GoalsMotivations),
		bulletList(p.PainPoints),
		bulletList(p.BehaviorsPreferences),
		bulletList(p.UseCases),
		strings.Join(p.VisualPreferences.PreferredColors, ", "),
		p.VisualPreferences.DesignStyle,
		p.VisualPreferences.LayoutPreference,
		productPart)
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
