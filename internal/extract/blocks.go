package extract

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// Block markers used by the delimiter-tagged format. Each record is
// wrapped in SECTION_START / SECTION_END lines with Key: value lines
// inside.
const (
	markerPersonal   = "PERSONAL"
	markerExperience = "EXPERIENCE"
	markerEducation  = "EDUCATION"
	markerProject    = "PROJECT"

	startSuffix = "_START"
	endSuffix   = "_END"
)

func hasBlockMarkers(text string) bool {
	for _, marker := range []string{markerPersonal, markerExperience, markerEducation, markerProject} {
		if strings.Contains(text, marker+startSuffix) {
			return true
		}
	}
	return false
}

// parseBlocks walks the text line by line with a current-section state
// pointer, collecting Key: value pairs into the record being built.
func parseBlocks(text string) *types.Profile {
	profile := &types.Profile{}

	var section string
	var work *types.WorkExperience
	var edu *types.Education
	var proj *types.Project

	flush := func() {
		switch {
		case work != nil:
			profile.WorkExperience = append(profile.WorkExperience, *work)
			work = nil
		case edu != nil:
			profile.Education = append(profile.Education, *edu)
			edu = nil
		case proj != nil:
			profile.Projects = append(profile.Projects, *proj)
			proj = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		if strings.HasSuffix(upper, startSuffix) {
			flush()
			section = strings.TrimSuffix(upper, startSuffix)
			switch section {
			case markerExperience:
				work = &types.WorkExperience{}
			case markerEducation:
				edu = &types.Education{}
			case markerProject:
				proj = &types.Project{}
			}
			continue
		}
		if strings.HasSuffix(upper, endSuffix) {
			flush()
			section = ""
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}
		switch section {
		case markerPersonal, "":
			assignPersonal(profile, key, value)
		case markerExperience:
			assignWork(work, key, value)
		case markerEducation:
			assignEducation(edu, key, value)
		case markerProject:
			assignProject(proj, key, value)
		}
	}
	flush()
	return profile
}

func splitKeyValue(line string) (string, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key := normalizeKey(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if value == "" {
		return "", "", false
	}
	return key, value, true
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
}

func assignPersonal(p *types.Profile, key, value string) {
	switch key {
	case "firstname":
		p.FirstName = value
	case "lastname":
		p.LastName = value
	case "name", "fullname":
		p.FullName = value
	case "email":
		p.Email = value
	case "phone", "phonenumber":
		p.Phone = value
	case "address":
		p.Address = value
	case "city":
		p.City = value
	case "state":
		p.State = value
	case "zip", "zipcode", "postalcode":
		p.PostalCode = value
	case "country":
		p.Country = value
	case "linkedin":
		p.LinkedIn = value
	case "github":
		p.GitHub = value
	case "portfolio", "website":
		p.Portfolio = value
	case "skills":
		p.Skills = value
	case "summary":
		p.Summary = value
	}
}

func assignWork(w *types.WorkExperience, key, value string) {
	if w == nil {
		return
	}
	switch key {
	case "company", "employer":
		w.Company = value
	case "title", "position", "role", "jobtitle":
		w.Title = value
	case "location":
		w.Location = value
	case "startdate", "start":
		w.StartDate = value
	case "enddate", "end":
		w.EndDate = value
	case "description", "responsibilities":
		w.Description = value
	}
}

func assignEducation(e *types.Education, key, value string) {
	if e == nil {
		return
	}
	switch key {
	case "institution", "school", "university", "college":
		e.Institution = value
	case "degree":
		e.Degree = value
	case "field", "fieldofstudy", "major":
		e.Field = value
	case "graduationdate", "graduation", "enddate":
		e.GraduationDate = value
	case "gpa":
		e.GPA = value
	}
}

func assignProject(p *types.Project, key, value string) {
	if p == nil {
		return
	}
	switch key {
	case "name", "title", "projectname":
		p.Name = value
	case "description":
		p.Description = value
	case "technologies", "techstack", "stack":
		p.Technologies = value
	case "url", "link":
		p.URL = value
	}
}
