package extract

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// wireProfile mirrors the JSON shape the generation collaborator
// produces, which favors camelCase keys and sometimes renames the
// experience array.
type wireProfile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FullName   string `json:"fullName"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"zipCode"`
	Country    string `json:"country"`
	LinkedIn   string `json:"linkedin"`
	GitHub     string `json:"github"`
	Portfolio  string `json:"portfolio"`
	Skills     string `json:"skills"`
	Summary    string `json:"summary"`

	Experience     []wireWork      `json:"experience"`
	WorkExperience []wireWork      `json:"workExperience"`
	Education      []wireEducation `json:"education"`
	Projects       []wireProject   `json:"projects"`
}

type wireWork struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type wireEducation struct {
	Institution    string `json:"institution"`
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa"`
}

type wireProject struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	URL          string `json:"url"`
}

// parseJSONRecord locates the JSON object in rawText and parses it,
// applying the repair cascade until one parse succeeds.
func parseJSONRecord(rawText string) (*types.Profile, error) {
	candidate, err := locateJSONObject(rawText)
	if err != nil {
		return nil, err
	}

	var wire wireProfile
	parseErr := json.Unmarshal([]byte(candidate), &wire)
	if parseErr != nil {
		repaired := candidate
		for _, repair := range repairCascade() {
			repaired = repair(repaired)
			if parseErr = json.Unmarshal([]byte(repaired), &wire); parseErr == nil {
				break
			}
		}
	}
	if parseErr != nil {
		return nil, &ExtractionError{Message: "all repair strategies exhausted", Cause: parseErr}
	}
	return wire.toProfile(), nil
}

// locateJSONObject scans for the first '{' and tracks brace depth,
// string-aware, until it returns to zero. Naive first/last brace
// slicing breaks on nested arrays and objects.
func locateJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &ExtractionError{Message: "no JSON object found"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	// Unterminated object: hand the remainder to the repair cascade
	// rather than failing outright.
	return text[start:], nil
}

func (w *wireProfile) toProfile() *types.Profile {
	p := &types.Profile{
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		FullName:   w.FullName,
		Email:      w.Email,
		Phone:      w.Phone,
		Address:    w.Address,
		City:       w.City,
		State:      w.State,
		PostalCode: w.PostalCode,
		Country:    w.Country,
		LinkedIn:   w.LinkedIn,
		GitHub:     w.GitHub,
		Portfolio:  w.Portfolio,
		Skills:     w.Skills,
		Summary:    w.Summary,
	}
	if p.FullName == "" {
		p.FullName = w.Name
	}
	if p.FullName != "" && p.FirstName == "" {
		parts := strings.Fields(p.FullName)
		if len(parts) >= 2 {
			p.FirstName = parts[0]
			p.LastName = strings.Join(parts[1:], " ")
		}
	}

	entries := w.WorkExperience
	if len(entries) == 0 {
		entries = w.Experience
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.Position
		}
		if e.Company == "" && title == "" {
			continue
		}
		p.WorkExperience = append(p.WorkExperience, types.WorkExperience{
			Company:     e.Company,
			Title:       title,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}
	for _, e := range w.Education {
		inst := e.Institution
		if inst == "" {
			inst = e.School
		}
		if inst == "" && e.Degree == "" {
			continue
		}
		p.Education = append(p.Education, types.Education{
			Institution:    inst,
			Degree:         e.Degree,
			Field:          e.Field,
			GraduationDate: e.GraduationDate,
			GPA:            e.GPA,
		})
	}
	for _, e := range w.Projects {
		if e.Name == "" && e.Description == "" {
			continue
		}
		p.Projects = append(p.Projects, types.Project{
			Name:         e.Name,
			Description:  e.Description,
			Technologies: e.Technologies,
			URL:          e.URL,
		})
	}
	return p
}
