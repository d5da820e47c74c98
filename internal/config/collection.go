package config

// CollectionConfig holds settings for the game collection store.
type CollectionConfig struct {
	// Path is the collection database directory; empty means no
	// collection is opened.
	Path string

	// SkipDuplicates drops games whose signature is already stored
	// instead of failing the import.
	SkipDuplicates bool
}

// NewCollectionConfig creates a CollectionConfig with default values.
func NewCollectionConfig() *CollectionConfig {
	return &CollectionConfig{
		SkipDuplicates: true,
	}
}
