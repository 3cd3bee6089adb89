// Package fixtures loads the stub judge's problem catalogue from TOML.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pelletier/go-toml/v2"

	"judge_client/internal/domain/model"
)

//go:embed catalog.toml
var defaultCatalog []byte

type Catalog struct {
	Service  string          `toml:"service"`
	Version  string          `toml:"version"`
	Judges   map[string]bool `toml:"judges"`
	Problems []Problem       `toml:"problems"`
}

type Problem struct {
	ID           string          `toml:"id"`
	Title        string          `toml:"title"`
	Category     string          `toml:"category"`
	Difficulty   string          `toml:"difficulty"`
	TimeLimit    float64         `toml:"time_limit"`
	MemoryLimit  int             `toml:"memory_limit"`
	Statement    string          `toml:"statement"`
	InputFormat  string          `toml:"input_format"`
	OutputFormat string          `toml:"output_format"`
	Constraints  []string        `toml:"constraints"`
	Tags         []string        `toml:"tags"`
	Examples     []model.Example `toml:"examples"`
	// Tests are hidden. The stub never runs code; tests only feed the
	// failed-test report and the test count.
	Tests []model.TestCase `toml:"tests"`
}

// Detail is the public view of the problem.
func (p Problem) Detail() model.ProblemDetail {
	return model.ProblemDetail{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category,
		Difficulty:    model.ProblemDifficulty(p.Difficulty),
		Statement:     p.Statement,
		InputFormat:   p.InputFormat,
		OutputFormat:  p.OutputFormat,
		Constraints:   p.Constraints,
		TimeLimit:     p.TimeLimit,
		MemoryLimit:   p.MemoryLimit,
		Tags:          p.Tags,
		Examples:      p.Examples,
		TestcaseCount: len(p.Tests),
	}
}

// Default returns the embedded catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalogue file; an empty path means the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and normalises a catalogue: ids default to the slug of the
// title, difficulties are lower-cased, and ids must be unique.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Problems))
	for i := range catalog.Problems {
		p := &catalog.Problems[i]
		if p.Title == "" {
			return nil, fmt.Errorf("problem %d has no title", i)
		}
		if p.ID == "" {
			p.ID = slug.Make(p.Title)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate problem id %q", p.ID)
		}
		seen[p.ID] = true

		p.Difficulty = strings.ToLower(p.Difficulty)
		switch model.ProblemDifficulty(p.Difficulty) {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			return nil, fmt.Errorf("problem %q: unknown difficulty %q", p.ID, p.Difficulty)
		}
		if p.TimeLimit == 0 {
			p.TimeLimit = 2
		}
		if p.MemoryLimit == 0 {
			p.MemoryLimit = 256
		}
	}

	if catalog.Judges == nil {
		catalog.Judges = make(map[string]bool, len(model.Languages))
		for _, l := range model.Languages {
			catalog.Judges[string(l.ID)] = true
		}
	}
	if catalog.Service == "" {
		catalog.Service = "judge-stub"
	}
	return &catalog, nil
}
