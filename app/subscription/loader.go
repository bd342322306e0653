package subscription

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var validPlatforms = map[string]bool{
	"blog":      true,
	"video":     true,
	"microblog": true,
}

// Loader reads subscription seed files from a directory. Each *.yml file
// holds one subscribed account.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll loads every seed file in the directory. A missing directory is an
// empty set, not an error.
func (l *Loader) LoadAll() ([]Seed, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}

	yamlFiles, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	seeds := make([]Seed, 0, len(files))
	for _, file := range files {
		seed, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(seed); err != nil {
			return nil, fmt.Errorf("invalid seed %s: %w", file, err)
		}

		seeds = append(seeds, seed)
		slog.Debug("Subscription seed loaded", "file", filepath.Base(file), "name", seed.Name, "platform", seed.Platform)
	}

	return seeds, nil
}

func (l *Loader) loadFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if seed.Platform == "" {
		seed.Platform = "blog"
	}

	return seed, nil
}

func (l *Loader) validate(seed Seed) error {
	if seed.Name == "" {
		return fmt.Errorf("subscription name is required")
	}
	if seed.URL == "" {
		return fmt.Errorf("subscription URL is required")
	}
	if !validPlatforms[seed.Platform] {
		return fmt.Errorf("invalid platform: %s", seed.Platform)
	}

	return nil
}
