package assets

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// ListStyles returns the built-in style names.
func ListStyles() []string {
	names, _ := defaultLoader.ListStyles()
	return names
}
