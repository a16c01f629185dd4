package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/types"
)

func testProfile() *types.Profile {
	auth := true
	sponsor := false
	return &types.Profile{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Phone:      "555-0100",
		City:       "London",
		State:      "California",
		Country:    "United States",
		PostalCode: "94105",
		LinkedIn:   "https://linkedin.com/in/ada",
		Skills:     "Go, SQL",
		Summary:    "Engineer and analyst.",

		WorkAuthorized:      &auth,
		SponsorshipRequired: &sponsor,

		WorkExperience: []types.WorkExperience{
			{Company: "Analytical Engines", Title: "Principal Engineer", EndDate: "Present"},
			{Company: "Babbage & Co", Title: "Engineer", EndDate: "2020-01"},
		},
		Education: []types.Education{
			{Institution: "University of London", Degree: "BSc Mathematics"},
		},
	}
}

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func classifyField(t *testing.T, c *Classifier, field dom.Field) types.ClassificationResult {
	t.Helper()
	return c.Classify(context.Background(), &field, testProfile())
}

func TestClassify_EmailByLabel(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Email Address", Tag: "input", Type: "email"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryEmail, result.Category)
	assert.Equal(t, "ada@example.com", result.Value)
}

func TestClassify_FirstNameByAttributeName(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Name: "first_name", Tag: "input", Type: "text"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryFirstName, result.Category)
	assert.Equal(t, "Ada", result.Value)
}

func TestClassify_LastNameExcludesFirst(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Last Name", Tag: "input", Type: "text"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryLastName, result.Category)
	assert.Equal(t, "Lovelace", result.Value)
}

func TestClassify_BareNameDoesNotGuess(t *testing.T) {
	// "Name" alone is ambiguous between first, last, and full name.
	// Without a generator the field must be left untouched.
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Name", Tag: "input", Type: "text"})

	assert.False(t, result.Matched())
}

func TestClassify_IdentitySuppressedInEntitySection(t *testing.T) {
	// A "name" control inside a project block belongs to the project,
	// never the applicant.
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{
		Label:       "Full Name",
		Tag:         "input",
		Type:        "text",
		SectionHint: "project list container",
	})

	assert.False(t, result.Matched())
}

func TestClassify_EmailStillFiresInEntitySection(t *testing.T) {
	// Only identity rules are suppressed by entity sections; a manager
	// email inside a work block is excluded by its own anti-keywords,
	// but a plain email field is not.
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{
		Label:       "Email",
		Tag:         "input",
		SectionHint: "work experience",
	})

	assert.True(t, result.Matched())
}

func TestClassify_PhoneExcludesCountryCode(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Phone Country Code", Tag: "select"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryPhoneCountry, result.Category)
	assert.Contains(t, result.Candidates, "+1")
}

func TestClassify_StateWithCandidates(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "State", Tag: "select"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryState, result.Category)
	assert.Equal(t, []string{"California", "CA"}, result.Candidates)
}

func TestClassify_CountryNotConfusedWithDialCode(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Country dial code", Tag: "select"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryPhoneCountry, result.Category)
}

func TestClassify_CurrentCompanyPrefersPresentEntry(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Current Company", Tag: "input"})

	require.True(t, result.Matched())
	assert.Equal(t, "Analytical Engines", result.Value)
}

func TestClassify_WorkAuthorizationBool(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Are you legally authorized to work in the US?", Tag: "select"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryWorkAuth, result.Category)
	assert.Equal(t, "Yes", result.Value)
}

func TestClassify_SponsorshipBool(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Will you require visa sponsorship?", Tag: "select"})

	require.True(t, result.Matched())
	assert.Equal(t, "No", result.Value)
}

func TestClassify_EEODefaultsToPreferNotToAnswer(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Veteran Status", Tag: "select"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryVeteran, result.Category)
	assert.Equal(t, "Prefer not to answer", result.Value)
	assert.Contains(t, result.Candidates, "Decline to self identify")
}

func TestClassify_CoverLetterFromAux(t *testing.T) {
	c := New(nil, Aux{CoverLetter: "Dear hiring team,"}, false)

	result := classifyField(t, c, dom.Field{Label: "Cover Letter", Tag: "textarea"})

	require.True(t, result.Matched())
	assert.Equal(t, types.CategoryCoverLetter, result.Category)
	assert.Equal(t, "Dear hiring team,", result.Value)
}

func TestClassify_GenerationFallbackForOpenQuestion(t *testing.T) {
	gen := &fakeGenerator{response: "I admire your engineering culture."}
	c := New(gen, Aux{JobDescription: "We build engines."}, false)

	result := classifyField(t, c, dom.Field{
		Label: "What excites you about this role?",
		Tag:   "textarea",
	})

	require.True(t, result.Matched())
	assert.True(t, result.Generated)
	assert.Equal(t, "I admire your engineering culture.", result.Value)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "What excites you about this role?")
}

func TestClassify_GenerationSkipSentinelLeavesFieldBlank(t *testing.T) {
	gen := &fakeGenerator{response: "SKIP"}
	c := New(gen, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Anything else?", Tag: "textarea"})

	assert.False(t, result.Matched())
}

func TestClassify_GenerationErrorLeavesFieldBlank(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	c := New(gen, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Name", Tag: "input"})

	assert.False(t, result.Matched())
}

func TestClassify_NoGenerationForSelects(t *testing.T) {
	gen := &fakeGenerator{response: "anything"}
	c := New(gen, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Favorite color", Tag: "select"})

	assert.False(t, result.Matched())
	assert.Empty(t, gen.prompts)
}

func TestClassify_TruncatesToMaxLength(t *testing.T) {
	c := New(nil, Aux{}, false)

	result := classifyField(t, c, dom.Field{Label: "Professional Summary", Tag: "textarea", MaxLength: 10})

	require.True(t, result.Matched())
	assert.Equal(t, 10, len([]rune(result.Value)))
	assert.True(t, strings.HasSuffix(result.Value, "…"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hell…", truncate("hello!", 5))
	assert.Equal(t, "…", truncate("hello", 1))
}
