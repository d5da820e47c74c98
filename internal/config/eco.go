package config

// ECOConfig holds settings for opening classification.
// The zero value disables classification.
type ECOConfig struct {
	// BookFile is the YAML opening book to load.
	BookFile string

	// AddTags annotates games with ECO and Opening tags from the
	// deepest book match of their mainline.
	AddTags bool
}
