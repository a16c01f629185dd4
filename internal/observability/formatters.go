// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFillReport outputs a human-readable summary of a fill pass.
func (p *Printer) PrintFillReport(report *types.FillReport) {
	if report == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Status:   %s\n", report.Status))
	sb.WriteString(fmt.Sprintf("Filled:   %d of %d fields\n", report.FilledCount, len(report.Fields)))

	var failed []types.FieldReport
	for _, f := range report.Fields {
		if !f.Filled && f.Reason != "" {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		sb.WriteString("\nSkipped / failed:\n")
		for i, f := range failed {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failed)-maxItemsToShow))
				break
			}
			label := f.Label
			if label == "" {
				label = f.Ref
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", label, f.Reason))
		}
	}

	p.printBox("FILL REPORT", sb.String())
}

// PrintProfile outputs a human-readable summary of an extracted profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.DisplayName()))
	if profile.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.Email))
	}
	if profile.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", profile.Phone))
	}
	if loc := profileLocation(profile); loc != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", loc))
	}

	if len(profile.WorkExperience) > 0 {
		sb.WriteString(fmt.Sprintf("\nWork experience (%d):\n", len(profile.WorkExperience)))
		for i, w := range profile.WorkExperience {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.WorkExperience)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s at %s\n", w.Title, w.Company))
		}
	}

	if len(profile.Education) > 0 {
		sb.WriteString(fmt.Sprintf("\nEducation (%d):\n", len(profile.Education)))
		for i, e := range profile.Education {
			if i >= maxItemsToShow {
				break
			}
			line := e.Institution
			if e.Degree != "" {
				line = e.Degree + ", " + e.Institution
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
		}
	}

	if len(profile.Projects) > 0 {
		sb.WriteString(fmt.Sprintf("\nProjects (%d):\n", len(profile.Projects)))
		for i, pr := range profile.Projects {
			if i >= maxItemsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", pr.Name))
		}
	}

	p.printBox("EXTRACTED PROFILE", sb.String())
}

func profileLocation(profile *types.Profile) string {
	parts := []string{}
	for _, s := range []string{profile.City, profile.State, profile.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// PrintSummary outputs a job summary and optional cover letter.
func (p *Printer) PrintSummary(summary, coverLetter string) {
	if summary != "" {
		p.printBox("JOB SUMMARY", summary)
	}
	if coverLetter != "" {
		p.printBox("COVER LETTER", coverLetter)
	}
}
