package content

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadSeed reads a TOML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a TOML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if seed.Projects == nil {
		seed.Projects = make(map[string][]Project)
	}
	return &seed, nil
}
