package models

// Prompt is a single chat turn submitted to the relay.
type Prompt struct {
	Message string `json:"message"`
}

// PDFPrompt pairs a question with document text the caller previously
// received from an upload. The context is trusted as-is; the server keeps no
// linkage between uploads and questions.
type PDFPrompt struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// Extraction is the upload response. Failures reuse the same shape with an
// error marker embedded in Text, so callers always decode one structure.
type Extraction struct {
	Text string `json:"text"`
}
