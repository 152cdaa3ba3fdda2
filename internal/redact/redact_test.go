package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aidhubhq/aidhub/internal/domain"
)

func TestMask(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name       string
		input      string
		want       string
		wantReport domain.RedactionReport
	}{
		{
			name:       "empty input",
			input:      "",
			want:       "",
			wantReport: domain.RedactionReport{},
		},
		{
			name:       "no sensitive data",
			input:      "When is the FAFSA deadline for fall?",
			want:       "When is the FAFSA deadline for fall?",
			wantReport: domain.RedactionReport{},
		},
		{
			name:       "formatted ssn",
			input:      "My SSN is 123-45-6789.",
			want:       "My SSN is [SSN REDACTED].",
			wantReport: domain.RedactionReport{"ssn": 1},
		},
		{
			name:       "bare nine digit run goes to ssn",
			input:      "My number is 123456789 thanks",
			want:       "My number is [SSN REDACTED] thanks",
			wantReport: domain.RedactionReport{"ssn": 1},
		},
		{
			name:       "labeled nine digit run still goes to ssn",
			input:      "Student ID: 987654321",
			want:       "Student ID: [SSN REDACTED]",
			wantReport: domain.RedactionReport{"ssn": 1},
		},
		{
			name:       "labeled seven digit student id",
			input:      "My student id is 1234567 and I need help",
			want:       "My [STUDENT_ID REDACTED] and I need help",
			wantReport: domain.RedactionReport{"student_id": 1},
		},
		{
			name:       "bare eight digit student id",
			input:      "reference 12345678 on my account",
			want:       "reference [STUDENT_ID REDACTED] on my account",
			wantReport: domain.RedactionReport{"student_id": 1},
		},
		{
			name:       "phone number",
			input:      "call me at 555-867-5309",
			want:       "call me at [PHONE REDACTED]",
			wantReport: domain.RedactionReport{"phone": 1},
		},
		{
			name:       "date of birth",
			input:      "my DOB is 01/15/2004",
			want:       "my DOB is [DATE REDACTED]",
			wantReport: domain.RedactionReport{"date_of_birth": 1},
		},
		{
			name:  "mixed categories",
			input: "My SSN is 123-45-6789, student id is 1234567, call 555-867-5309, born 3/5/2003",
			want:  "My SSN is [SSN REDACTED], [STUDENT_ID REDACTED], call [PHONE REDACTED], born [DATE REDACTED]",
			wantReport: domain.RedactionReport{
				"ssn":           1,
				"student_id":    1,
				"phone":         1,
				"date_of_birth": 1,
			},
		},
		{
			name:       "multiple matches in one category",
			input:      "old SSN 111-22-3333 new SSN 444-55-6666",
			want:       "old SSN [SSN REDACTED] new SSN [SSN REDACTED]",
			wantReport: domain.RedactionReport{"ssn": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := r.Mask(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantReport, report)
		})
	}
}

func TestMaskIdempotent(t *testing.T) {
	r := NewRedactor()

	input := "SSN 123-45-6789, student id is 1234567, call 555-867-5309"
	once, report := r.Mask(input)
	assert.NotEmpty(t, report)

	twice, report2 := r.Mask(once)
	assert.Equal(t, once, twice)
	assert.Empty(t, report2)
}

func TestMaskDetectorPrecedence(t *testing.T) {
	// A nine digit run must be consumed by exactly one detector.
	r := NewRedactor()

	got, report := r.Mask("123456789")
	assert.Equal(t, "[SSN REDACTED]", got)
	assert.Equal(t, domain.RedactionReport{"ssn": 1}, report)
}

func TestMaskCustomDetectors(t *testing.T) {
	email, err := NewDetector("email", `\b[\w.+-]+@[\w-]+\.[\w.]+\b`, "[EMAIL REDACTED]")
	assert.NoError(t, err)

	r := NewRedactorWithDetectors([]Detector{email})

	got, report := r.Mask("reach me at jordan@example.edu please")
	assert.Equal(t, "reach me at [EMAIL REDACTED] please", got)
	assert.Equal(t, domain.RedactionReport{"email": 1}, report)
}

func TestNewDetectorInvalidPattern(t *testing.T) {
	_, err := NewDetector("bad", `[`, "[X]")
	assert.Error(t, err)
}
