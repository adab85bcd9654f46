package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"opsflow/internal/gateway/schema"
	"opsflow/internal/models"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins every failure into a single message.
func (r *ValidationResult) Error() string {
	if r == nil || r.Valid {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ValidateGenerationRequest checks the invariants every outgoing request must hold:
// content is present, only marketing generation carries an output schema, and any
// schema is well formed.
func ValidateGenerationRequest(req models.GenerationRequest) *ValidationResult {
	errors := []ValidationError{}

	if req.ModelID == "" {
		errors = append(errors, ValidationError{
			Field:   "modelName",
			Message: "model id is required",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	}

	if req.Content.IsEmpty() {
		errors = append(errors, ValidationError{
			Field:   "contents",
			Message: "content must not be empty",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	}

	for i, p := range req.Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" && p.InlineData.MIMEType == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("contents[%d].inlineData.mimeType", i),
				Message: "inline data requires a mime type",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	if req.OutputSchema != nil {
		if req.Capability != models.CapabilityMarketingGeneration {
			errors = append(errors, ValidationError{
				Field:   "schema",
				Message: fmt.Sprintf("output schema not allowed for %s", req.Capability),
				Code:    "EXTRA_FIELD",
			})
		} else if err := req.OutputSchema.Validate(); err != nil {
			errors = append(errors, ValidationError{
				Field:   "schema",
				Message: err.Error(),
				Code:    "INVALID_SCHEMA",
			})
		}
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// ValidateStructured checks a structured remote result against the requested schema.
func ValidateStructured(node *schema.Node, raw json.RawMessage) error {
	if node == nil {
		return nil
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("structured result is not valid JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(schema.ToJSONSchema(node))
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}

	return nil
}
