package classify

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/match"
	"github.com/jonathan/apply-agent/internal/types"
)

// Resolver produces the value (for text controls) and the ordered
// candidate synonyms (for selects) for a fired rule. ok=false leaves
// the field untouched.
type Resolver func(f *dom.Field, p *types.Profile, aux Aux) (value string, candidates []string, ok bool)

// Rule is one entry of the ordered classification table. A rule fires
// when at least one Match pattern occurs in the normalized context and
// no Exclude pattern does.
type Rule struct {
	Category types.FieldCategory
	Match    []string
	Exclude  []string
	// Identity marks rules that must never fire inside a repeating
	// or non-personal section.
	Identity bool
	Resolve  Resolver
}

func (r *Rule) matches(normCtx string) bool {
	if !containsAny(normCtx, r.Match) {
		return false
	}
	return !containsAny(normCtx, r.Exclude)
}

// text wraps a plain profile value as a resolver; empty values decline.
func text(get func(p *types.Profile) string) Resolver {
	return func(_ *dom.Field, p *types.Profile, _ Aux) (string, []string, bool) {
		v := strings.TrimSpace(get(p))
		return v, nil, v != ""
	}
}

// withCandidates resolves a value plus a synonym set for selects.
func withCandidates(get func(p *types.Profile) (string, []string)) Resolver {
	return func(_ *dom.Field, p *types.Profile, _ Aux) (string, []string, bool) {
		v, cands := get(p)
		v = strings.TrimSpace(v)
		if v == "" && len(cands) == 0 {
			return "", nil, false
		}
		return v, cands, true
	}
}

// eeo resolves a self-identification value, defaulting to the
// "prefer not to answer" synonym set when the profile is blank. These
// controls are typically mandatory selects on compliance forms, so a
// blank profile value must not leave them silently unfilled.
func eeo(get func(p *types.Profile) string) Resolver {
	return func(_ *dom.Field, p *types.Profile, _ Aux) (string, []string, bool) {
		v := strings.TrimSpace(get(p))
		if v != "" {
			return v, append([]string{v}, match.PreferNotToAnswer()...), true
		}
		defaults := match.PreferNotToAnswer()
		return defaults[0], defaults, true
	}
}

// boolSelect resolves an authorization flag; a nil flag declines.
func boolSelect(get func(p *types.Profile) *bool) Resolver {
	return func(_ *dom.Field, p *types.Profile, _ Aux) (string, []string, bool) {
		flag := get(p)
		if flag == nil {
			return "", nil, false
		}
		cands := match.BoolCandidates(*flag)
		return cands[0], cands, true
	}
}

// ruleTable returns the ordered classification rules. Priority:
// contact, identity, location, links, experience/education summary,
// compliance/EEO, free text.
func ruleTable() []Rule {
	return []Rule{
		// Contact.
		{
			Category: types.CategoryEmail,
			Match:    []string{"email", "e mail"},
			Exclude:  []string{"manager", "referral", "friend"},
			Resolve:  text(func(p *types.Profile) string { return p.Email }),
		},
		{
			Category: types.CategoryPhoneCountry,
			Match:    []string{"phone country", "country code", "dial code", "phone prefix"},
			Resolve: withCandidates(func(p *types.Profile) (string, []string) {
				cands := match.PhoneCountryCandidates(p.PhoneCountry, p.Country)
				return cands[0], cands
			}),
		},
		{
			Category: types.CategoryPhone,
			Match:    []string{"phone", "mobile", "telephone", "cell"},
			Exclude:  []string{"country", "code", "type", "extension"},
			Resolve:  text(func(p *types.Profile) string { return p.Phone }),
		},

		// Identity. First/given must not mention last/family and vice
		// versa; full name requires an explicit qualifier. Anything
		// less is ambiguous and falls through to the generation path.
		{
			Category: types.CategoryFirstName,
			Match:    []string{"first name", "firstname", "fname", "given name", "givenname", "forename"},
			Exclude:  []string{"last", "family", "surname"},
			Identity: true,
			Resolve:  text(func(p *types.Profile) string { return p.FirstName }),
		},
		{
			Category: types.CategoryLastName,
			Match:    []string{"last name", "lastname", "lname", "family name", "familyname", "surname"},
			Exclude:  []string{"first", "given"},
			Identity: true,
			Resolve:  text(func(p *types.Profile) string { return p.LastName }),
		},
		{
			Category: types.CategoryFullName,
			Match: []string{
				"full name", "fullname", "complete name", "legal name",
				"applicant name", "candidate name", "your name",
			},
			Identity: true,
			Resolve:  text(func(p *types.Profile) string { return p.DisplayName() }),
		},

		// Location.
		{
			Category: types.CategoryPostalCode,
			Match:    []string{"zip", "postal", "postcode"},
			Resolve:  text(func(p *types.Profile) string { return p.PostalCode }),
		},
		{
			Category: types.CategoryCity,
			Match:    []string{"city", "town", "locality"},
			Exclude:  []string{"ethnicity", "capacity"},
			Resolve:  text(func(p *types.Profile) string { return p.City }),
		},
		{
			Category: types.CategoryState,
			Match:    []string{"state", "province", "region"},
			Exclude:  []string{"united states", "statement", "veteran"},
			Resolve: withCandidates(func(p *types.Profile) (string, []string) {
				cands := match.StateCandidates(p.State)
				if len(cands) == 0 {
					return "", nil
				}
				return cands[0], cands
			}),
		},
		{
			Category: types.CategoryCountry,
			Match:    []string{"country", "nation"},
			Exclude:  []string{"code", "phone", "dial"},
			Resolve: withCandidates(func(p *types.Profile) (string, []string) {
				cands := match.CountryCandidates(p.Country)
				if len(cands) == 0 {
					return "", nil
				}
				return cands[0], cands
			}),
		},
		{
			Category: types.CategoryAddress,
			Match:    []string{"address", "street"},
			Exclude:  []string{"email", "ip "},
			Resolve:  text(func(p *types.Profile) string { return p.Address }),
		},

		// Links.
		{
			Category: types.CategoryLinkedIn,
			Match:    []string{"linkedin"},
			Resolve:  text(func(p *types.Profile) string { return p.LinkedIn }),
		},
		{
			Category: types.CategoryGitHub,
			Match:    []string{"github", "git hub"},
			Resolve:  text(func(p *types.Profile) string { return p.GitHub }),
		},
		{
			Category: types.CategoryPortfolio,
			Match:    []string{"portfolio", "personal website", "personal site", "website url", "web site"},
			Exclude:  []string{"company"},
			Resolve:  text(func(p *types.Profile) string { return p.Portfolio }),
		},
		{
			Category: types.CategoryTwitter,
			Match:    []string{"twitter", "x profile"},
			Resolve:  text(func(p *types.Profile) string { return p.Twitter }),
		},

		// Experience / education summary fields (top-level singletons,
		// not the repeating sections).
		{
			Category: types.CategoryCompany,
			Match:    []string{"current company", "current employer", "most recent company", "present employer"},
			Resolve:  text(currentCompany),
		},
		{
			Category: types.CategoryJobTitle,
			Match:    []string{"current title", "current role", "job title", "current position"},
			Exclude:  []string{"desired", "preferred"},
			Resolve:  text(currentTitle),
		},
		{
			Category: types.CategorySchool,
			Match:    []string{"school", "university", "college", "institution", "alma mater"},
			Exclude:  []string{"high school diploma"},
			Resolve:  text(recentSchool),
		},
		{
			Category: types.CategoryDegree,
			Match:    []string{"degree", "education level", "highest education", "qualification"},
			Resolve:  text(recentDegree),
		},

		// Authorization.
		{
			Category: types.CategoryWorkAuth,
			Match:    []string{"authorized to work", "work authorization", "legally authorized", "eligible to work", "right to work"},
			Resolve:  boolSelect(func(p *types.Profile) *bool { return p.WorkAuthorized }),
		},
		{
			Category: types.CategorySponsorship,
			Match:    []string{"sponsorship", "visa sponsorship", "require sponsorship", "need sponsorship", "immigration"},
			Resolve:  boolSelect(func(p *types.Profile) *bool { return p.SponsorshipRequired }),
		},

		// Compliance / EEO self-identification.
		{
			Category: types.CategoryGender,
			Match:    []string{"gender", "sex"},
			Exclude:  []string{"sexual orientation"},
			Resolve:  eeo(func(p *types.Profile) string { return p.Gender }),
		},
		{
			Category: types.CategoryDisability,
			Match:    []string{"disability", "disabilities", "disabled"},
			Resolve:  eeo(func(p *types.Profile) string { return p.DisabilityStatus }),
		},
		{
			Category: types.CategoryVeteran,
			Match:    []string{"veteran", "military", "armed forces", "protected veteran"},
			Resolve:  eeo(func(p *types.Profile) string { return p.VeteranStatus }),
		},
		{
			Category: types.CategoryEthnicity,
			Match:    []string{"ethnicity", "ethnic", "race", "hispanic", "latino"},
			Resolve:  eeo(func(p *types.Profile) string { return p.Ethnicity }),
		},

		// Free text.
		{
			Category: types.CategoryCoverLetter,
			Match:    []string{"cover letter", "coverletter", "motivation letter", "why do you want", "why are you interested"},
			Resolve: func(_ *dom.Field, _ *types.Profile, aux Aux) (string, []string, bool) {
				v := strings.TrimSpace(aux.CoverLetter)
				return v, nil, v != ""
			},
		},
		{
			Category: types.CategorySkills,
			Match:    []string{"skills", "technologies", "tech stack", "competencies"},
			Resolve:  text(func(p *types.Profile) string { return p.Skills }),
		},
		{
			Category: types.CategorySummary,
			Match:    []string{"summary", "about you", "about yourself", "tell us about", "bio", "introduction", "additional information"},
			Resolve:  text(func(p *types.Profile) string { return p.Summary }),
		},
	}
}

// currentCompany returns the company of the current or most recent
// work entry.
func currentCompany(p *types.Profile) string {
	if w := currentWork(p); w != nil {
		return w.Company
	}
	return ""
}

func currentTitle(p *types.Profile) string {
	if w := currentWork(p); w != nil {
		return w.Title
	}
	return ""
}

func currentWork(p *types.Profile) *types.WorkExperience {
	for i := range p.WorkExperience {
		if strings.EqualFold(p.WorkExperience[i].EndDate, "Present") {
			return &p.WorkExperience[i]
		}
	}
	if len(p.WorkExperience) > 0 {
		return &p.WorkExperience[0]
	}
	return nil
}

func recentSchool(p *types.Profile) string {
	if len(p.Education) > 0 {
		return p.Education[0].Institution
	}
	return ""
}

func recentDegree(p *types.Profile) string {
	if len(p.Education) > 0 {
		return p.Education[0].Degree
	}
	return ""
}
