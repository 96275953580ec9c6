package domain

import "encoding/json"

// DefaultGenerationError is used when the backend rejects a record without a message.
const DefaultGenerationError = "failed to generate barcode"

// GenerationPayload is the success body returned by the generate endpoint.
// Only Raw is guaranteed to be populated.
type GenerationPayload struct {
	Message     string          `json:"message,omitempty"`
	Filename    string          `json:"filename,omitempty"`
	PatientData map[string]any  `json:"patient_data,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// GenerationResult is the outcome of one generate request.
type GenerationResult struct {
	Succeeded    bool               `json:"success"`
	Payload      *GenerationPayload `json:"payload,omitempty"`
	ErrorMessage string             `json:"error,omitempty"`
	Record       PatientRecord      `json:"patient"`
}

func SucceededResult(record PatientRecord, payload *GenerationPayload) GenerationResult {
	return GenerationResult{Succeeded: true, Payload: payload, Record: record}
}

func FailedResult(record PatientRecord, message string) GenerationResult {
	if message == "" {
		message = DefaultGenerationError
	}
	return GenerationResult{Succeeded: false, ErrorMessage: message, Record: record}
}
