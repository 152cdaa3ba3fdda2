// Package redact masks sensitive personal data in free text before it is
// allowed to leave the trust boundary.
package redact

import (
	"regexp"

	"github.com/aidhubhq/aidhub/internal/domain"
)

// Detector masks one category of sensitive data. Each detector owns a single
// pattern and a placeholder token that carries no digits, so placeholders can
// never re-match any detector's pattern.
type Detector struct {
	Category    string
	Placeholder string
	pattern     *regexp.Regexp
}

// NewDetector compiles a detector for the given category.
func NewDetector(category, pattern, placeholder string) (Detector, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Detector{}, err
	}
	return Detector{Category: category, Placeholder: placeholder, pattern: re}, nil
}

func mustDetector(category, pattern, placeholder string) Detector {
	d, err := NewDetector(category, pattern, placeholder)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultDetectors returns the standard detector set. Slice order is the
// precedence order: each detector scans the text left by the previous one, so
// a bare 9-digit run is claimed by the ssn detector and never double-counted
// as a student ID. Labeled or 7-8 digit runs fall through to student_id.
func DefaultDetectors() []Detector {
	return []Detector{
		mustDetector("ssn",
			`\b\d{3}-\d{2}-\d{4}\b|\b\d{9}\b`,
			"[SSN REDACTED]"),
		mustDetector("student_id",
			`(?i)(?:student\s*(?:id|#|number)?\s*(?:is)?\s*:?\s*)?\b\d{7,9}\b`,
			"[STUDENT_ID REDACTED]"),
		mustDetector("phone",
			`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`,
			"[PHONE REDACTED]"),
		mustDetector("date_of_birth",
			`\b(?:0?[1-9]|1[0-2])[/-](?:0?[1-9]|[12]\d|3[01])[/-](?:19|20)\d{2}\b`,
			"[DATE REDACTED]"),
	}
}

// Redactor applies an ordered set of detectors to free text.
type Redactor struct {
	detectors []Detector
}

// NewRedactor creates a Redactor with the default detector set.
func NewRedactor() *Redactor {
	return NewRedactorWithDetectors(DefaultDetectors())
}

// NewRedactorWithDetectors creates a Redactor with an explicit detector set.
// The slice order determines masking precedence.
func NewRedactorWithDetectors(detectors []Detector) *Redactor {
	return &Redactor{detectors: detectors}
}

// Mask replaces every match of every detector with its placeholder and
// returns the masked text plus a count-per-category report. Categories with
// zero matches are omitted from the report. Mask is pure and total over
// strings: an empty input yields an empty report, and masked output fed back
// in is left unchanged.
func (r *Redactor) Mask(text string) (string, domain.RedactionReport) {
	report := domain.RedactionReport{}
	masked := text

	for _, d := range r.detectors {
		matches := d.pattern.FindAllStringIndex(masked, -1)
		if len(matches) == 0 {
			continue
		}
		masked = d.pattern.ReplaceAllString(masked, d.Placeholder)
		report[d.Category] = len(matches)
	}

	return masked, report
}
