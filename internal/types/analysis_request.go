package types

import "github.com/go-playground/validator/v10"

// AnalysisRequest carries the inputs for one gap analysis. Resume and job
// text arrive as already-extracted plain strings; the engine does no file IO.
type AnalysisRequest struct {
	ResumeText      string   `json:"resume_text" validate:"required,min=1"`
	JobDescription  string   `json:"job_description" validate:"required,min=1"`
	JobTitle        string   `json:"job_title,omitempty"`
	JobRequirements []string `json:"job_requirements,omitempty"`
	DeclaredSkills  []string `json:"declared_skills,omitempty"`
}

// Validate validates the AnalysisRequest using the validator.
func (r *AnalysisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
