package fill

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/dom"
)

// fakeDriver records writes and lets tests script verification
// behavior per ref.
type fakeDriver struct {
	values       map[string]string
	setCalls     map[string]int
	failSetOnce  map[string]bool
	dropWrites   map[string]bool // SetValue succeeds but the value never sticks
	markedValid  []string
	clicked      []string
	selectErr    error
	selectCalls  map[string]string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		values:      make(map[string]string),
		setCalls:    make(map[string]int),
		failSetOnce: make(map[string]bool),
		dropWrites:  make(map[string]bool),
		selectCalls: make(map[string]string),
	}
}

func (d *fakeDriver) Page(context.Context) (*dom.Page, error) { return nil, nil }

func (d *fakeDriver) Value(_ context.Context, ref string) (string, error) {
	return d.values[ref], nil
}

func (d *fakeDriver) SetValue(_ context.Context, ref, value string) error {
	d.setCalls[ref]++
	if d.failSetOnce[ref] {
		d.failSetOnce[ref] = false
		return fmt.Errorf("element detached")
	}
	if d.dropWrites[ref] {
		return nil
	}
	d.values[ref] = value
	return nil
}

func (d *fakeDriver) SelectOption(_ context.Context, ref, value string) error {
	if d.selectErr != nil {
		return d.selectErr
	}
	d.selectCalls[ref] = value
	d.values[ref] = value
	return nil
}

func (d *fakeDriver) Click(_ context.Context, ref string) error {
	d.clicked = append(d.clicked, ref)
	return nil
}

func (d *fakeDriver) MarkValid(_ context.Context, ref string) error {
	d.markedValid = append(d.markedValid, ref)
	return nil
}

func TestWrite_TextSuccess(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{Ref: "#email", Tag: "input", Type: "email"}
	written, err := w.Write(context.Background(), field, "ada@example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", written)
	assert.Equal(t, "ada@example.com", drv.values["#email"])
	assert.Contains(t, drv.markedValid, "#email")
}

func TestWrite_TextRetriesOnceOnTransientFailure(t *testing.T) {
	drv := newFakeDriver()
	drv.failSetOnce["#phone"] = true
	w := NewWriter(drv, false)

	field := &dom.Field{Ref: "#phone", Tag: "input"}
	_, err := w.Write(context.Background(), field, "555-0100", nil)

	require.NoError(t, err)
	assert.Equal(t, 2, drv.setCalls["#phone"])
	assert.Equal(t, "555-0100", drv.values["#phone"])
}

func TestWrite_TextFailsAfterRetryWhenValueNeverSticks(t *testing.T) {
	drv := newFakeDriver()
	drv.dropWrites["#stubborn"] = true
	w := NewWriter(drv, false)

	field := &dom.Field{Ref: "#stubborn", Tag: "input"}
	_, err := w.Write(context.Background(), field, "value", nil)

	require.Error(t, err)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "#stubborn", writeErr.Ref)
	assert.Equal(t, 2, drv.setCalls["#stubborn"])
	// A failed write must not reconcile the error indicator.
	assert.NotContains(t, drv.markedValid, "#stubborn")
}

func TestWrite_SameValueTwiceLeavesSameFinalValue(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{Ref: "#city", Tag: "input"}
	first, err := w.Write(context.Background(), field, "London", nil)
	require.NoError(t, err)

	second, err := w.Write(context.Background(), field, "London", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "London", drv.values["#city"])
	// Both passes verify on the first attempt; repeating the write
	// never triggers the retry path.
	assert.Equal(t, 2, drv.setCalls["#city"])
}

func TestWrite_SelectMatchesCandidate(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{
		Ref: "#country",
		Tag: "select",
		Options: []dom.Option{
			{Value: "", Text: "Select..."},
			{Value: "USA", Text: "United States of America"},
		},
	}
	written, err := w.Write(context.Background(), field, "United States", []string{"United States", "US", "USA"})

	require.NoError(t, err)
	assert.Equal(t, "USA", written)
	assert.Equal(t, "USA", drv.selectCalls["#country"])
}

func TestWrite_SelectNoMatchNeverGuesses(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{
		Ref: "#degree",
		Tag: "select",
		Options: []dom.Option{
			{Value: "phd", Text: "Doctorate"},
		},
	}
	_, err := w.Write(context.Background(), field, "Bachelor", []string{"Bachelor"})

	require.Error(t, err)
	var noOpt *NoOptionError
	require.ErrorAs(t, err, &noOpt)
	assert.Empty(t, drv.selectCalls)
}

func TestWrite_SelectUsesValueWhenNoCandidates(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{
		Ref:     "#opt",
		Tag:     "select",
		Options: []dom.Option{{Value: "yes", Text: "Yes"}},
	}
	written, err := w.Write(context.Background(), field, "Yes", nil)

	require.NoError(t, err)
	assert.Equal(t, "yes", written)
}

func TestWrite_SelectDriverFailureWrapped(t *testing.T) {
	drv := newFakeDriver()
	drv.selectErr = errors.New("node gone")
	w := NewWriter(drv, false)

	field := &dom.Field{
		Ref:     "#sel",
		Tag:     "select",
		Options: []dom.Option{{Value: "a", Text: "A"}},
	}
	_, err := w.Write(context.Background(), field, "A", nil)

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.ErrorContains(t, err, "failed to set selection")
}

func TestWrite_DateNormalizedBeforeWrite(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{Ref: "#start", Tag: "input", Type: "month"}
	written, err := w.Write(context.Background(), field, "May 2021", nil)

	require.NoError(t, err)
	assert.Equal(t, "2021-05", written)
	assert.Equal(t, "2021-05", drv.values["#start"])
}

func TestWrite_DateWithoutYearFails(t *testing.T) {
	drv := newFakeDriver()
	w := NewWriter(drv, false)

	field := &dom.Field{Ref: "#grad", Tag: "input", Type: "date"}
	_, err := w.Write(context.Background(), field, "sometime soon", nil)

	require.Error(t, err)
	assert.Equal(t, 0, drv.setCalls["#grad"])
}

func TestNormalizeDate_MonthControl(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"May 2021", "2021-05"},
		{"2021-05-17", "2021-05"},
		{"05/2021", "2021-05"},
		{"September 2019", "2019-09"},
		{"2021", "2021-01"},
		{"Jun 2022", "2022-06"},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.input, "month")
		require.True(t, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestNormalizeDate_DateControl(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2021-05-17", "2021-05-17"},
		{"May 2021", "2021-05-01"},
		{"2021", "2021-01-01"},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.input, "date")
		require.True(t, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestNormalizeDate_Present(t *testing.T) {
	got, ok := NormalizeDate("Present", "month")
	require.True(t, ok)
	assert.Regexp(t, `^20\d{2}-\d{2}$`, got)
}

func TestNormalizeDate_NoYear(t *testing.T) {
	_, ok := NormalizeDate("last summer", "month")
	assert.False(t, ok)

	_, ok = NormalizeDate("", "date")
	assert.False(t, ok)
}
