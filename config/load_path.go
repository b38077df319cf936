package config

// LoadPath loads path when it is set and falls back to Load otherwise.
func LoadPath(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	return LoadFile(path)
}
