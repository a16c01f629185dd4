// Package fetch - platform.go detects applicant tracking systems and
// carries their page-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a known applicant tracking system.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps hostname fragments to platforms.
var platformHosts = []struct {
	fragment string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"workday.com", PlatformWorkday},
	{"myworkdayjobs.com", PlatformWorkday},
}

// DetectPlatform identifies the ATS hosting a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, entry := range platformHosts {
		if strings.Contains(host, entry.fragment) {
			return entry.platform
		}
	}
	return PlatformUnknown
}

// contentSelectors lists where each platform keeps the posting body,
// most specific first.
var contentSelectors = map[Platform][]string{
	PlatformGreenhouse: {
		".job__description.body",
		".job__description",
		".job-description__content",
		"#content",
		".job-post-container",
	},
	PlatformLever: {
		".posting-page",
		".section-wrapper.page-full-width",
		".posting-description",
		".content",
	},
	PlatformWorkday: {
		"[data-automation-id='jobDescription']",
		".WDXK",
		".gwt-HTML",
		".job-description",
	},
}

// PlatformContentSelectors returns content selectors for a platform,
// falling back to the generic job board list.
func PlatformContentSelectors(platform Platform) []string {
	if selectors, ok := contentSelectors[platform]; ok {
		return selectors
	}
	return JobPostingSelectors()
}

// commonNoise matches elements that pollute posting text on every
// platform: application forms, EEO sections, share widgets, consent
// banners.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",

	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",

	".social-share",
	".share-buttons",
	".social-links",

	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

var platformNoise = map[Platform][]string{
	PlatformGreenhouse: {
		".application--wrapper",
		".voluntary-self-id",
		".voluntary-self-id-wrapper",
		"#usa_self_id_section",
		".post-apply",
	},
	PlatformLever: {
		".apply-section",
		".lever-application-form",
		".posting-apply",
	},
	PlatformWorkday: {
		"[data-automation-id='applyButton']",
		".application-section",
		".WDAF",
	},
}

// PlatformNoiseSelectors returns the elements to strip before text
// extraction for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	selectors := make([]string, 0, len(commonNoise)+len(platformNoise[platform]))
	selectors = append(selectors, commonNoise...)
	return append(selectors, platformNoise[platform]...)
}
