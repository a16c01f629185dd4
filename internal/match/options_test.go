package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/dom"
)

func TestOption_ExactValueMatch(t *testing.T) {
	options := []dom.Option{
		{Value: "US", Text: "United States"},
		{Value: "CA", Text: "Canada"},
	}

	got := Option(options, []string{"CA"})
	require.NotNil(t, got)
	assert.Equal(t, "Canada", got.Text)
}

func TestOption_ExactTextMatchCaseInsensitive(t *testing.T) {
	options := []dom.Option{
		{Value: "1", Text: "United States"},
		{Value: "2", Text: "Canada"},
	}

	got := Option(options, []string{"united states"})
	require.NotNil(t, got)
	assert.Equal(t, "1", got.Value)
}

func TestOption_CandidateOrderOutranksStrategyOrder(t *testing.T) {
	// The first candidate only matches by a weak substring strategy;
	// the second would match exactly. The weak match must still win.
	options := []dom.Option{
		{Value: "us-of-a", Text: "The United States of America"},
		{Value: "uk", Text: "United Kingdom"},
	}

	got := Option(options, []string{"United States", "United Kingdom"})
	require.NotNil(t, got)
	assert.Equal(t, "us-of-a", got.Value)
}

func TestOption_OptionValuePrefixOfCandidate(t *testing.T) {
	options := []dom.Option{
		{Value: "bach", Text: "Bachelor level"},
	}

	got := Option(options, []string{"Bachelor of Science"})
	require.NotNil(t, got)
	assert.Equal(t, "bach", got.Value)
}

func TestOption_CandidateSubstringOfOptionText(t *testing.T) {
	options := []dom.Option{
		{Value: "opt1", Text: "Yes, I am authorized to work"},
		{Value: "opt2", Text: "No, I am not"},
	}

	got := Option(options, []string{"Yes"})
	require.NotNil(t, got)
	assert.Equal(t, "opt1", got.Value)
}

func TestOption_ShortCandidateContainsGuard(t *testing.T) {
	// Two-character candidates must not match by text containment;
	// "no" appears inside "Unknown".
	options := []dom.Option{
		{Value: "", Text: "Unknown"},
	}

	got := Option(options, []string{"no"})
	assert.Nil(t, got)
}

func TestOption_NoMatchReturnsNil(t *testing.T) {
	options := []dom.Option{
		{Value: "a", Text: "Alpha"},
		{Value: "b", Text: "Beta"},
	}

	got := Option(options, []string{"Gamma", "Delta"})
	assert.Nil(t, got)
}

func TestOption_SkipsEmptyCandidatesAndOptions(t *testing.T) {
	options := []dom.Option{
		{Value: "", Text: ""},
		{Value: "x", Text: "Xylophone"},
	}

	got := Option(options, []string{"", "  ", "x"})
	require.NotNil(t, got)
	assert.Equal(t, "Xylophone", got.Text)
}

func TestCountryCandidates_KnownCountry(t *testing.T) {
	candidates := CountryCandidates("United States")
	require.NotEmpty(t, candidates)
	assert.Equal(t, "United States", candidates[0])
	assert.Contains(t, candidates, "US")
	assert.Contains(t, candidates, "USA")
}

func TestCountryCandidates_ReverseLookupFromCode(t *testing.T) {
	candidates := CountryCandidates("UK")
	assert.Contains(t, candidates, "United Kingdom")
	assert.Contains(t, candidates, "Great Britain")
}

func TestCountryCandidates_UnknownCountryPassthrough(t *testing.T) {
	candidates := CountryCandidates("Atlantis")
	assert.Equal(t, []string{"Atlantis"}, candidates)
}

func TestStateCandidates_NameToCode(t *testing.T) {
	candidates := StateCandidates("California")
	assert.Equal(t, []string{"California", "CA"}, candidates)
}

func TestStateCandidates_CodeToName(t *testing.T) {
	candidates := StateCandidates("NY")
	assert.Equal(t, "NY", candidates[0])
	assert.Contains(t, candidates, "New York")
}

func TestStateCandidates_UnknownRegion(t *testing.T) {
	candidates := StateCandidates("Bavaria")
	assert.Equal(t, []string{"Bavaria"}, candidates)
}

func TestBoolCandidates(t *testing.T) {
	assert.Equal(t, "Yes", BoolCandidates(true)[0])
	assert.Equal(t, "No", BoolCandidates(false)[0])
}

func TestPreferNotToAnswer_MatchesComplianceOptions(t *testing.T) {
	options := []dom.Option{
		{Value: "1", Text: "Male"},
		{Value: "2", Text: "Female"},
		{Value: "3", Text: "I decline to self identify"},
	}

	got := Option(options, PreferNotToAnswer())
	require.NotNil(t, got)
	assert.Equal(t, "3", got.Value)
}

func TestPhoneCountryCandidates_ExplicitDialCode(t *testing.T) {
	candidates := PhoneCountryCandidates("+44", "Germany")
	assert.Equal(t, []string{"+44", "44"}, candidates)
}

func TestPhoneCountryCandidates_InferredFromCountry(t *testing.T) {
	candidates := PhoneCountryCandidates("", "Germany")
	assert.Equal(t, "+49", candidates[0])
	assert.Contains(t, candidates, "Germany")
}

func TestPhoneCountryCandidates_Fallback(t *testing.T) {
	candidates := PhoneCountryCandidates("", "")
	assert.Equal(t, []string{"+1", "1", "United States"}, candidates)
}
