// internal/models/wire.go
package models

import (
	"encoding/json"

	"opsflow/internal/gateway/schema"
)

// ProxyRequest is the JSON body posted to the remote execution environment.
type ProxyRequest struct {
	ModelName string                 `json:"modelName"`
	Contents  Content                `json:"contents"`
	Config    *ProxyGenerationConfig `json:"config,omitempty"`
}

// ProxyGenerationConfig carries the optional structured-output settings. The schema
// travels with literal kind tags (OBJECT, STRING, ...).
type ProxyGenerationConfig struct {
	ResponseMIMEType string       `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema.Node `json:"responseSchema,omitempty"`
}

// ProxyResponse is the body returned by the remote side: data on success, error
// (plus an optional reason code) otherwise.
type ProxyResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// NewProxyRequest builds the wire body for a generation request.
func NewProxyRequest(req *GenerationRequest) ProxyRequest {
	out := ProxyRequest{
		ModelName: req.ModelID,
		Contents:  req.Content,
	}
	if req.ResponseMIMEType != "" || req.OutputSchema != nil {
		out.Config = &ProxyGenerationConfig{
			ResponseMIMEType: req.ResponseMIMEType,
			ResponseSchema:   req.OutputSchema,
		}
	}
	return out
}
