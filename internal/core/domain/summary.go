package domain

import (
	"strings"
	"time"
)

// SummaryDetail selects the short or detailed summary variant.
type SummaryDetail string

// Summary variants.
const (
	SummaryShort    SummaryDetail = "short"
	SummaryDetailed SummaryDetail = "detailed"
)

// IsValid returns true if the detail level is recognised.
func (d SummaryDetail) IsValid() bool {
	return d == SummaryShort || d == SummaryDetailed
}

// WordBand returns the requested word range for the variant.
func (d SummaryDetail) WordBand() (minWords, maxWords int) {
	if d == SummaryDetailed {
		return DetailedSummaryMinWords, DetailedSummaryMaxWords
	}
	return ShortSummaryMinWords, ShortSummaryMaxWords
}

// Placeholder texts used when the generator fails.
const (
	ShortSummaryPlaceholder    = "Error: Unable to generate summary. Please check your API configuration."
	DetailedSummaryPlaceholder = "Error: Unable to generate detailed summary. Please check your API configuration."
)

// Placeholder returns the error placeholder for the variant.
func (d SummaryDetail) Placeholder() string {
	if d == SummaryDetailed {
		return DetailedSummaryPlaceholder
	}
	return ShortSummaryPlaceholder
}

// Summary is a generated narrative for a document.
// A new Summary is produced per request; summaries are never edited.
type Summary struct {
	// DocumentID links to the summarised document. Empty for ad-hoc text.
	DocumentID string `json:"document_id,omitempty"`

	// AgreementType is the category that selected the template.
	AgreementType AgreementType `json:"agreement_type"`

	// AgreementLabel is the classifier's answer, e.g. "1. Residential Rental/Lease Agreement".
	AgreementLabel string `json:"agreement_label"`

	// Detail is the variant.
	Detail SummaryDetail `json:"detail"`

	// Text is the narrative, or a placeholder when generation failed.
	Text string `json:"summary"`

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int `json:"word_count"`

	// Failed is set when Text is a placeholder.
	Failed bool `json:"failed,omitempty"`

	// GeneratedAt is when the summary was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
