package model

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "easy"
	DifficultyMedium ProblemDifficulty = "medium"
	DifficultyHard   ProblemDifficulty = "hard"
)

// ProblemSummary is one row of the problem list.
type ProblemSummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	TimeLimit   float64           `json:"timeLimit"`   // seconds
	MemoryLimit int               `json:"memoryLimit"` // MB
}

type ProblemDetail struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Category      string            `json:"category"`
	Difficulty    ProblemDifficulty `json:"difficulty"`
	Statement     string            `json:"statement"`
	InputFormat   string            `json:"inputFormat"`
	OutputFormat  string            `json:"outputFormat"`
	Constraints   []string          `json:"constraints"`
	TimeLimit     float64           `json:"timeLimit"`
	MemoryLimit   int               `json:"memoryLimit"`
	Tags          []string          `json:"tags"`
	Examples      []Example         `json:"examples"`
	TestcaseCount int               `json:"testcaseCount"`
}

func (p ProblemDetail) Summary() ProblemSummary {
	return ProblemSummary{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Difficulty:  p.Difficulty,
		TimeLimit:   p.TimeLimit,
		MemoryLimit: p.MemoryLimit,
	}
}

type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type Stats struct {
	Total      int `json:"total"`
	Easy       int `json:"easy"`
	Medium     int `json:"medium"`
	Hard       int `json:"hard"`
	Categories int `json:"categories"`
}

const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
	HealthUnknown  = "unknown"
)

// Health is the liveness/readiness report. Older deployments send a single
// Judge flag, newer ones a per-language Judges map.
type Health struct {
	Status  string          `json:"status"`
	Service string          `json:"service,omitempty"`
	Version string          `json:"version,omitempty"`
	Judge   *bool           `json:"judge,omitempty"`
	Judges  map[string]bool `json:"judges,omitempty"`
}

func (h Health) Healthy() bool {
	return h.Status == HealthHealthy
}

// TestCase is a hidden judge test.
type TestCase struct {
	Input  string `json:"input" toml:"input"`
	Output string `json:"output" toml:"output"`
}
