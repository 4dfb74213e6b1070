package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const SourceFileExt = ".loom"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".loom", ".lm"}

// IsTestMode indicates the process is running under the test harness.
// No code in this repository assigns it, so it stays false.
var IsTestMode = false

// ProjectFileName is looked up in the working directory by the CLI.
const ProjectFileName = "loom.yaml"

// Project is the optional per-project configuration.
type Project struct {
	// Color is "auto", "always" or "never"; empty means "auto". The CLI
	// acts only on "never", which turns coloring off; "always" does not
	// force it on, so coloring still follows terminal detection.
	Color string `yaml:"color"`
	// MaxErrors truncates diagnostic output; 0 means unlimited.
	MaxErrors int `yaml:"max-errors"`
	// Report is a default path for the diagnostics report database.
	Report string `yaml:"report"`
}

// LoadProject reads path. A missing file is not an error: the zero
// Project is returned.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, err
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.Color != "" && p.Color != "auto" && p.Color != "always" && p.Color != "never" {
		return nil, fmt.Errorf("%s: color must be auto, always or never, got %q", path, p.Color)
	}
	return &p, nil
}
