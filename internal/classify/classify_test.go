package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		issue models.Issue
		want  string
	}{
		{
			name:  "team store keyword",
			issue: models.Issue{Summary: "USAW team store launch"},
			want:  "Team Store / B2B",
		},
		{
			name:  "area rule beats generic bug",
			issue: models.Issue{Summary: "Cart total wrong", Type: "Bug"},
			want:  "Cart/Checkout/Conversion",
		},
		{
			name:  "generic bug falls through",
			issue: models.Issue{Summary: "Something is off", Type: "Bug"},
			want:  "Bug Fixes",
		},
		{
			name:  "bug prefix without bug type",
			issue: models.Issue{Summary: "bug: weird behavior on mobile", Type: "Task"},
			want:  "Bug Fixes",
		},
		{
			name:  "epic claims strategic initiatives",
			issue: models.Issue{Summary: "Q3 misc work", Type: "Epic"},
			want:  "Strategic Initiatives",
		},
		{
			name:  "epic still loses to earlier area rule",
			issue: models.Issue{Summary: "Checkout redesign", Type: "Epic"},
			want:  "Cart/Checkout/Conversion",
		},
		{
			name:  "no rule matches",
			issue: models.Issue{Summary: "Zzz", Type: "Task"},
			want:  Fallback,
		},
		{
			name:  "earlier rule wins over later",
			issue: models.Issue{Summary: "PDP template refresh"},
			want:  "Product Display (PDP)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.issue, Options{Scope: ScopeSummaryAndDescription})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorizeScope(t *testing.T) {
	issue := models.Issue{
		Summary:     "Zzz",
		Description: "blocked at checkout",
	}

	full := Categorize(issue, Options{Scope: ScopeSummaryAndDescription})
	summaryOnly := Categorize(issue, Options{Scope: ScopeSummary})

	assert.Equal(t, "Cart/Checkout/Conversion", full)
	assert.Equal(t, Fallback, summaryOnly)
}

func TestCategorizeDeterministic(t *testing.T) {
	issue := models.Issue{Summary: "Collection page shipping banner", Type: "Story"}
	first := Categorize(issue, Options{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize(issue, Options{}))
	}
}

func TestExecutiveThemeCoversAllRules(t *testing.T) {
	for _, rule := range Rules() {
		theme := ExecutiveTheme(rule.Label)
		assert.NotEqual(t, "Other", theme, "category %q has no executive theme", rule.Label)
	}
	assert.Equal(t, "Quality & Compliance", ExecutiveTheme("Bug Fixes"))
	assert.Equal(t, "Other", ExecutiveTheme(Fallback))
}
