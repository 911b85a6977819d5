package config

// Input size limits enforced before any phase of a request runs.
const (
	// MaxTitleLength caps conversation titles.
	MaxTitleLength = 255

	// MaxQuestionLength caps a single question. Generous: transcripts are
	// unbounded, individual questions are not.
	MaxQuestionLength = 32_000
)
