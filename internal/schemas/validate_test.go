package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGapAnalysisAccepted(t *testing.T) {
	doc := `{
		"overall_score": 67,
		"summary": "Strong alignment with room to grow.",
		"strengths": ["Solid JavaScript fundamentals"],
		"matching_skills": ["javascript", "react"],
		"missing_skills": ["docker"],
		"skills_to_advance": ["typescript"]
	}`
	assert.NoError(t, Validate(GapAnalysisSchema, doc))
}

func TestValidateGapAnalysisNullScoreAccepted(t *testing.T) {
	doc := `{
		"overall_score": null,
		"summary": "No explicit requirements were listed.",
		"matching_skills": [],
		"missing_skills": [],
		"skills_to_advance": []
	}`
	assert.NoError(t, Validate(GapAnalysisSchema, doc))
}

func TestValidateGapAnalysisRejected(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "score out of range",
			doc:   `{"overall_score": 140, "summary": "x", "matching_skills": [], "missing_skills": [], "skills_to_advance": []}`,
			field: "overall_score",
		},
		{
			name:  "missing summary",
			doc:   `{"overall_score": 50, "matching_skills": [], "missing_skills": [], "skills_to_advance": []}`,
			field: "(root)",
		},
		{
			name:  "wrong bucket type",
			doc:   `{"overall_score": 50, "summary": "x", "matching_skills": "javascript", "missing_skills": [], "skills_to_advance": []}`,
			field: "matching_skills",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(GapAnalysisSchema, tt.doc)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Errors)

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected a failure at %s, got %+v", tt.field, verr.Errors)
		})
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("does_not_exist.json", `{}`)
	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}

func TestValidateMalformedDocument(t *testing.T) {
	err := Validate(GapAnalysisSchema, `{"summary": `)
	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}
