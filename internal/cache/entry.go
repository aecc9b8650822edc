package cache

import "time"

// Entry records a persisted artifact written by the compiler
type Entry struct {
	// SourceFile is the absolute path to the shader source
	SourceFile string `json:"source_file"`

	// ArtifactFile is the path of the persisted .spv file
	ArtifactFile string `json:"artifact_file"`

	// Kind is the shader stage the artifact was compiled for
	Kind string `json:"kind"`

	// Fingerprint identifies the compiler configuration used
	Fingerprint string `json:"fingerprint"`

	// WordCount is the number of 32-bit words written
	WordCount int `json:"word_count"`

	// HasMacros indicates macros were defined for this build
	HasMacros bool `json:"has_macros"`

	// Timestamp when this entry was recorded
	Timestamp time.Time `json:"timestamp"`
}
