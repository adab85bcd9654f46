// internal/models/generation.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"opsflow/internal/gateway/schema"
)

// Capability identifies one of the AI-assisted operations.
type Capability string

const (
	CapabilityInvoiceAnalysis     Capability = "InvoiceAnalysis"
	CapabilityMarketingGeneration Capability = "MarketingGeneration"
	CapabilityInventorySuggestion Capability = "InventorySuggestion"
)

// MIMETypeJSON asks the remote side to parse the model output as JSON.
const MIMETypeJSON = "application/json"

// InlineData is a base64-encoded binary attachment.
type InlineData struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// Part is one element of structured content: either text or inline data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

func (p Part) isEmpty() bool {
	return p.Text == "" && (p.InlineData == nil || p.InlineData.Data == "")
}

// Content is either plain text or a list of parts. On the wire it is a JSON string or
// a JSON array.
type Content struct {
	Text  string
	Parts []Part
}

// TextContent builds plain text content.
func TextContent(text string) Content {
	return Content{Text: text}
}

// PartsContent builds structured content.
func PartsContent(parts ...Part) Content {
	return Content{Parts: parts}
}

// IsEmpty reports whether the content carries nothing to send.
func (c Content) IsEmpty() bool {
	if len(c.Parts) > 0 {
		for _, p := range c.Parts {
			if !p.isEmpty() {
				return false
			}
		}
		return true
	}
	return c.Text == ""
}

func (c Content) MarshalJSON() ([]byte, error) {
	if len(c.Parts) > 0 {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts a string, an array of parts, or an array of
// `{"parts": [...]}` content wrappers (flattened in order).
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Content{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{Text: s}
		return nil
	case '[':
		var items []struct {
			Part
			Parts []Part `json:"parts"`
		}
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		var parts []Part
		for _, item := range items {
			if len(item.Parts) > 0 {
				parts = append(parts, item.Parts...)
				continue
			}
			parts = append(parts, item.Part)
		}
		*c = Content{Parts: parts}
		return nil
	}
	return fmt.Errorf("contents must be a string or an array of parts")
}

// GenerationRequest is a single remote generation call.
type GenerationRequest struct {
	Capability       Capability
	ModelID          string
	Content          Content
	OutputSchema     *schema.Node
	ResponseMIMEType string
}

// GenerationResult is either plain text or a structured JSON value.
type GenerationResult struct {
	Text       string
	Structured json.RawMessage
}

func (r *GenerationResult) IsStructured() bool {
	return r != nil && len(r.Structured) > 0
}

// MarketingContent is the three-channel marketing copy. All fields are always set.
type MarketingContent struct {
	Instagram string `json:"instagram"`
	Email     string `json:"email"`
	Twitter   string `json:"twitter"`
}
