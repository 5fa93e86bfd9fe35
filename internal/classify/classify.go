// Package classify assigns issues to strategic work categories using an
// ordered keyword rule table. Rule order encodes precedence: area rules run
// before the generic Bug Fixes rule so a checkout bug counts as checkout
// work, not generic bug work.
package classify

import (
	"strings"

	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

// Scope selects which issue fields participate in keyword matching. The
// budget report matches against summary and description; the sprint report
// historically matched the summary only. Both live here as configuration so
// neither rule set silently absorbs the other.
type Scope int

const (
	// ScopeSummaryAndDescription is the canonical scope.
	ScopeSummaryAndDescription Scope = iota
	// ScopeSummary restricts matching to the summary line.
	ScopeSummary
)

// Fallback is returned when no rule matches.
const Fallback = "Other"

// Options configures a classification pass.
type Options struct {
	Scope Scope
}

// Rule maps a keyword set to a category label. A rule matches when any
// keyword appears as a case-insensitive substring of the issue text.
type Rule struct {
	Label    string
	Keywords []string
}

// rules is the canonical ordered table. Do not reorder casually: earlier
// rules win, and several keywords (e.g. "bug", "test") deliberately sit
// near the bottom so area-specific matches take precedence.
var rules = []Rule{
	{"Team Store / B2B", []string{"team", "team store", "team:", "usaw", "bulk"}},
	{"Product Display (PDP)", []string{"pdp", "product detail", "variant", "swatch"}},
	{"Product Listing (PLP)", []string{"plp", "product listing", "collection"}},
	{"Cart/Checkout/Conversion", []string{"cart", "checkout", "add to cart", "atc"}},
	{"Shipping/Logistics", []string{"shipping", "free shipping", "tax"}},
	{"Analytics & Integrations", []string{"gtm", "google tag", "analytics", "tracking", "elevar", "celigo", "integration", "pixel", "attentive"}},
	{"Compliance & Legal", []string{"cookie", "onetrust", "privacy", "compliance", "gdpr"}},
	{"Account/User Experience", []string{"account", "user", "return", "order", "rewards", "loyalty"}},
	{"Pricing & Promotions", []string{"pricing", "price", "sale", "promo", "discount"}},
	{"Search & Discovery", []string{"search", "finder", "quiz", "recommendation", "llm", "chatgpt"}},
	{"Content & Pages", []string{"catalog", "pdf", "content", "page", "landing", "embed"}},
	{"Design/UX Enhancements", []string{"design", "image", "header", "parallax", "video", "ui/ux", "navigation", "menu", "template", "font", "spacing"}},
	{"QA & Testing", []string{"qa", "qa cycle", "uat", "user acceptance", "quality assurance"}},
	{"Testing & Investigation", []string{"test", "investigate", "research", "a/b", "ab test", "smoke test"}},
	{"Database & Configuration", []string{"db configuration", "database", "config", "configuration"}},
	{"Financial & Operations", []string{"financial", "fulfilment", "refund", "customer service"}},
	{"Product Launches & Categories", []string{"brand launch", "product split", "gift card", "bundle", "accessories", "youth-adult"}},
	{"Third-party Tools & Integrations", []string{"zendesk", "digioh", "global-e"}},
	{"Data Management", []string{"data cleanup", "purchase event"}},
	{"Process & Operations", []string{"process", "workflow", "approval", "quote", "allocation", "reminder"}},
	{"Strategic Initiatives", []string{"roadmap", "strategic", "initiative"}},
	{"Accessibility", []string{"accessibility", "accessible", "aria", "alternative text", "alt text", "wcag", "a11y", "visual cues", "keyboard", "valid label", "form fields", "rudis-amp"}},
	{"Deployment & Operations", []string{"deploy", "go live", "golive", "production", "prod", "preparation for", "open countries"}},
	{"Development Sprints", []string{"sprint", "dev", "development"}},
	{"Design Specs & Reviews", []string{"ui spec", "comps review", "wireframe", "spec"}},
	{"Framework & Strategy", []string{"framework", "strategy", "opt-in"}},
	{"Reporting & Analytics", []string{"reporting", "dashboard"}},
	{"Technical Debt", []string{"spaghetti code", "technical debt", "refactor"}},
	{"Technical/Infrastructure", []string{"seo", "robot", "llms.txt", "theme", "api", "middleware", "component", "uber", "token", "verification"}},
	{"Requirements & Planning", []string{"requirements", "best practices", "naming convention", "convention", "analysis", "set-up", "setup"}},
}

// Rules returns a copy of the canonical table for display (e.g. the
// methodology section of reports).
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Categorize assigns the issue to exactly one category label. Identical
// input always yields an identical label; the table is static.
func Categorize(issue models.Issue, opts Options) string {
	summary := strings.ToLower(strings.TrimSpace(issue.Summary))
	text := summary
	if opts.Scope == ScopeSummaryAndDescription {
		description := strings.ToLower(strings.TrimSpace(issue.Description))
		text = strings.TrimSpace(summary + " " + description)
	}

	for _, rule := range rules {
		// Strategic Initiatives also claims all Epics regardless of text.
		if rule.Label == "Strategic Initiatives" && issue.Type == "Epic" {
			return rule.Label
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Label
			}
		}
	}

	// Generic bug catch-all: only for bugs no area rule claimed.
	if isGenericBug(issue, summary, text) {
		return "Bug Fixes"
	}

	return Fallback
}

func isGenericBug(issue models.Issue, summary, text string) bool {
	if issue.Type == "Bug" {
		return true
	}
	if strings.HasPrefix(summary, "bug:") || strings.Contains(summary, "bug:") {
		return true
	}
	if strings.Contains(text, "bug") {
		for _, hint := range []string{"fix", "error", "broken", "not working"} {
			if strings.Contains(text, hint) {
				return true
			}
		}
	}
	return false
}

// ExecutiveTheme groups granular categories into executive-level themes for
// the budget summary table.
func ExecutiveTheme(category string) string {
	switch category {
	case "Cart/Checkout/Conversion", "Pricing & Promotions",
		"Product Display (PDP)", "Product Listing (PLP)",
		"Search & Discovery", "Shipping/Logistics":
		return "Revenue & Growth"
	case "Design/UX Enhancements", "Account/User Experience",
		"Accessibility", "Content & Pages":
		return "Customer Experience"
	case "Team Store / B2B", "Financial & Operations",
		"Process & Operations", "Product Launches & Categories":
		return "Business Operations"
	case "Technical/Infrastructure", "Analytics & Integrations",
		"Third-party Tools & Integrations", "Deployment & Operations",
		"Data Management", "Database & Configuration",
		"Reporting & Analytics":
		return "Platform & Infrastructure"
	case "Bug Fixes", "Compliance & Legal", "QA & Testing",
		"Testing & Investigation":
		return "Quality & Compliance"
	case "Strategic Initiatives", "Requirements & Planning",
		"Framework & Strategy", "Design Specs & Reviews",
		"Development Sprints", "Technical Debt":
		return "Strategic & Planning"
	}
	return "Other"
}

// ThemeOrder is the fixed display order for executive themes.
var ThemeOrder = []string{
	"Revenue & Growth",
	"Customer Experience",
	"Business Operations",
	"Platform & Infrastructure",
	"Quality & Compliance",
	"Strategic & Planning",
	"Other",
}
