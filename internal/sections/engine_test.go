package sections

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/fill"
	"github.com/jonathan/apply-agent/internal/retry"
	"github.com/jonathan/apply-agent/internal/types"
)

// pageDriver serves HTML snapshots and patches written values back
// into them. Input values appear in the markup as %%id%% tokens so a
// re-parse observes previous writes, the way a live page would.
type pageDriver struct {
	stages  []string
	stage   int
	values  map[string]string
	clicked []string
	addRef  string // clicking this ref advances to the next stage
}

func newPageDriver(addRef string, stages ...string) *pageDriver {
	return &pageDriver{stages: stages, values: make(map[string]string), addRef: addRef}
}

func (d *pageDriver) render() string {
	html := d.stages[d.stage]
	for i := strings.Index(html, "%%"); i >= 0; i = strings.Index(html, "%%") {
		end := strings.Index(html[i+2:], "%%")
		id := html[i+2 : i+2+end]
		html = html[:i] + d.values["#"+id] + html[i+4+end:]
	}
	return html
}

func (d *pageDriver) Page(context.Context) (*dom.Page, error) {
	return dom.Parse(d.render())
}

func (d *pageDriver) Value(_ context.Context, ref string) (string, error) {
	return d.values[ref], nil
}

func (d *pageDriver) SetValue(_ context.Context, ref, value string) error {
	d.values[ref] = value
	return nil
}

func (d *pageDriver) SelectOption(_ context.Context, ref, value string) error {
	d.values[ref] = value
	return nil
}

func (d *pageDriver) Click(_ context.Context, ref string) error {
	d.clicked = append(d.clicked, ref)
	if ref == d.addRef && d.stage < len(d.stages)-1 {
		d.stage++
	}
	return nil
}

func (d *pageDriver) MarkValid(context.Context, string) error { return nil }

const workEntryNone = `<body>
<section class="work-section">
<h2>Work Experience</h2>
<button id="add-work">Add another position</button>
</section>
</body>`

const workEntryOne = `<body>
<section class="work-section">
<h2>Work Experience</h2>
<div>
<label for="company0">Company</label><input id="company0" type="text" value="%%company0%%">
<label for="title0">Job Title</label><input id="title0" type="text" value="%%title0%%">
<label for="start0">Start Date</label><input id="start0" type="month" value="%%start0%%">
<label for="end0">End Date</label><input id="end0" type="month" value="%%end0%%">
</div>
<button id="add-work">Add another position</button>
</section>
</body>`

const workEntryTwo = `<body>
<section class="work-section">
<h2>Work Experience</h2>
<div>
<label for="company0">Company</label><input id="company0" type="text" value="%%company0%%">
<label for="title0">Job Title</label><input id="title0" type="text" value="%%title0%%">
<label for="start0">Start Date</label><input id="start0" type="month" value="%%start0%%">
<label for="end0">End Date</label><input id="end0" type="month" value="%%end0%%">
</div>
<div>
<label for="company1">Company</label><input id="company1" type="text" value="%%company1%%">
<label for="title1">Job Title</label><input id="title1" type="text" value="%%title1%%">
<label for="start1">Start Date</label><input id="start1" type="month" value="%%start1%%">
<label for="end1">End Date</label><input id="end1" type="month" value="%%end1%%">
</div>
<button id="add-work">Add another position</button>
</section>
</body>`

func fastEngine(drv fill.Driver) *Engine {
	engine := NewEngine(drv, fill.NewWriter(drv, false), false)
	engine.SetPoll(retry.Options{Attempts: 2, Interval: time.Millisecond})
	return engine
}

func workEntries() [][]Attribute {
	return [][]Attribute{
		WorkAttributes(types.WorkExperience{
			Company: "First Corp", Title: "Engineer", StartDate: "2019-03", EndDate: "2021-06",
		}),
		WorkAttributes(types.WorkExperience{
			Company: "Second Corp", Title: "Senior Engineer", StartDate: "2021-07", EndDate: "Present",
		}),
	}
}

func TestFill_TwoEntriesGrowsSection(t *testing.T) {
	drv := newPageDriver("#add-work", workEntryOne, workEntryTwo)
	engine := fastEngine(drv)

	result := engine.Fill(context.Background(), KindWork, workEntries())

	assert.True(t, result.Found)
	assert.False(t, result.Aborted)
	assert.Equal(t, 2, result.EntriesFilled)

	// Entry order maps to sub-form order.
	assert.Equal(t, "First Corp", drv.values["#company0"])
	assert.Equal(t, "Engineer", drv.values["#title0"])
	assert.Equal(t, "2019-03", drv.values["#start0"])
	assert.Equal(t, "Second Corp", drv.values["#company1"])
	assert.Equal(t, "Senior Engineer", drv.values["#title1"])

	// The add control was clicked exactly once: the first entry
	// reused the pre-rendered fields.
	assert.Equal(t, []string{"#add-work"}, drv.clicked)
}

func TestFill_EmptySectionClicksAddForEveryEntry(t *testing.T) {
	drv := newPageDriver("#add-work", workEntryNone, workEntryOne, workEntryTwo)
	engine := fastEngine(drv)

	result := engine.Fill(context.Background(), KindWork, workEntries())

	assert.True(t, result.Found)
	assert.False(t, result.Aborted)
	assert.Equal(t, 2, result.EntriesFilled)

	// No pre-rendered entry blocks, so the first entry needs an add
	// click too.
	assert.Equal(t, []string{"#add-work", "#add-work"}, drv.clicked)

	assert.Equal(t, "First Corp", drv.values["#company0"])
	assert.Equal(t, "Engineer", drv.values["#title0"])
	assert.Equal(t, "Second Corp", drv.values["#company1"])
	assert.Equal(t, "Senior Engineer", drv.values["#title1"])
}

func TestFill_NoDoubleAssignmentWithinEntry(t *testing.T) {
	drv := newPageDriver("#add-work", workEntryOne)
	engine := fastEngine(drv)

	entries := [][]Attribute{WorkAttributes(types.WorkExperience{
		Company: "Acme", Title: "Lead", StartDate: "2020-01", EndDate: "2022-01",
	})}
	result := engine.Fill(context.Background(), KindWork, entries)

	require.True(t, result.Found)
	refs := make(map[string]int)
	for _, fr := range result.Fields {
		refs[fr.Ref]++
	}
	for ref, n := range refs {
		assert.Equal(t, 1, n, "ref %s assigned more than once", ref)
	}
	// Start and end date land on distinct controls despite sharing
	// the date control type.
	assert.Equal(t, "2020-01", drv.values["#start0"])
	assert.Equal(t, "2022-01", drv.values["#end0"])
}

func TestFill_SectionNotFound(t *testing.T) {
	drv := newPageDriver("", `<body><h2>Contact</h2><input id="email" type="email"></body>`)
	engine := fastEngine(drv)

	result := engine.Fill(context.Background(), KindWork, workEntries())

	assert.False(t, result.Found)
	assert.Zero(t, result.EntriesFilled)
	assert.Contains(t, result.Reason, "no work section")
}

func TestFill_MissingAddControlAbortsButKeepsFilledEntries(t *testing.T) {
	html := `<body>
<section class="work-section">
<h2>Work Experience</h2>
<div>
<label for="company0">Company</label><input id="company0" type="text" value="%%company0%%">
<label for="title0">Job Title</label><input id="title0" type="text" value="%%title0%%">
</div>
</section>
</body>`
	drv := newPageDriver("", html)
	engine := fastEngine(drv)

	result := engine.Fill(context.Background(), KindWork, workEntries())

	assert.True(t, result.Found)
	assert.True(t, result.Aborted)
	assert.Equal(t, 1, result.EntriesFilled)
	assert.Contains(t, result.Reason, "no add control")
	assert.Equal(t, "First Corp", drv.values["#company0"])
}

func TestFill_EmptyEntriesNoop(t *testing.T) {
	drv := newPageDriver("", workEntryOne)
	engine := fastEngine(drv)

	result := engine.Fill(context.Background(), KindWork, nil)

	assert.False(t, result.Found)
	assert.Empty(t, result.Fields)
}

func TestFill_EducationSection(t *testing.T) {
	html := `<body>
<fieldset class="edu-section">
<legend>Education</legend>
<label for="school0">School or University</label><input id="school0" type="text" value="%%school0%%">
<label for="degree0">Degree</label><input id="degree0" type="text" value="%%degree0%%">
<label for="grad0">Graduation Date</label><input id="grad0" type="month" value="%%grad0%%">
</fieldset>
</body>`
	drv := newPageDriver("", html)
	engine := fastEngine(drv)

	entries := [][]Attribute{EducationAttributes(types.Education{
		Institution: "MIT", Degree: "BSc", GraduationDate: "2018-06",
	})}
	result := engine.Fill(context.Background(), KindEducation, entries)

	assert.True(t, result.Found)
	assert.Equal(t, 1, result.EntriesFilled)
	assert.Equal(t, "MIT", drv.values["#school0"])
	assert.Equal(t, "BSc", drv.values["#degree0"])
	assert.Equal(t, "2018-06", drv.values["#grad0"])
}

func TestScore_LabelOutranksNameAndPlaceholder(t *testing.T) {
	attr := Attribute{Key: "company", Keywords: []string{"company"}}

	byLabel := score(&dom.Field{Label: "Company name"}, attr)
	byName := score(&dom.Field{Name: "company_field"}, attr)
	byPlaceholder := score(&dom.Field{Placeholder: "Your company"}, attr)

	assert.Greater(t, byLabel, byName)
	assert.Greater(t, byName, byPlaceholder)
}

func TestScore_AntiKeywordPenalty(t *testing.T) {
	attr := Attribute{Key: "startDate", Keywords: []string{"start"}, Anti: []string{"end"}, WantDate: true}

	endField := &dom.Field{Label: "End date of your start period", Type: "month"}
	startField := &dom.Field{Label: "Start date", Type: "month"}

	assert.Greater(t, score(startField, attr), score(endField, attr))
}

func TestScore_ZeroMeansNoAssignment(t *testing.T) {
	attr := Attribute{Key: "gpa", Keywords: []string{"gpa", "grade"}}
	unrelated := &dom.Field{Label: "Company", Name: "company"}

	assert.LessOrEqual(t, score(unrelated, attr), 0)
}

func TestEligibleForPool_ExcludesFilledAndSkills(t *testing.T) {
	assert.False(t, eligibleForPool(&dom.Field{Label: "Company", Value: "already set"}))
	assert.False(t, eligibleForPool(&dom.Field{Label: "Skills"}))
	assert.True(t, eligibleForPool(&dom.Field{Label: "Company"}))
}

func TestWorkAttributes_DropsEmptyValues(t *testing.T) {
	attrs := WorkAttributes(types.WorkExperience{Company: "Acme"})
	require.Len(t, attrs, 1)
	assert.Equal(t, "company", attrs[0].Key)
}

func TestHeadingSynonyms_CoverAllKinds(t *testing.T) {
	for _, kind := range []Kind{KindWork, KindEducation, KindProjects} {
		assert.NotEmpty(t, HeadingSynonyms(kind), string(kind))
		assert.NotEmpty(t, EntitySynonyms(kind), string(kind))
	}
}
