package bench

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Test is one prompt of the matrix.
type Test struct {
	Name      string `yaml:"name"`
	Prompt    string `yaml:"prompt"`
	MaxTokens int    `yaml:"max_tokens"`
}

// Model is a backend model id with a display name.
type Model struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Suite is the content of a suite file. Empty sections fall back to the
// standard ones.
type Suite struct {
	Models []Model `yaml:"models"`
	Tests  []Test  `yaml:"tests"`
}

func StandardTests() []Test {
	return []Test{
		{
			Name:      "Simple Python Function",
			Prompt:    "Write a Python function to calculate the factorial of a number.",
			MaxTokens: 80,
		},
		{
			Name:      "SQL Query",
			Prompt:    "Write a SQL query to find all users who registered in the last 7 days.",
			MaxTokens: 60,
		},
		{
			Name:      "JavaScript/TypeScript",
			Prompt:    "Write a JavaScript function to debounce a function call.",
			MaxTokens: 100,
		},
		{
			Name: "Code Explanation",
			Prompt: `Explain what this code does:
def merge_sort(arr):
    if len(arr) <= 1:
        return arr
    mid = len(arr) // 2
    left = merge_sort(arr[:mid])
    right = merge_sort(arr[mid:])
    return merge(left, right)`,
			MaxTokens: 150,
		},
		{
			Name: "Bug Fix",
			Prompt: `Find and fix the bug in this code:
for i in range(len(arr)):
    if arr[i] == target:
        return i
# Bug: returns -1 even if element exists`,
			MaxTokens: 120,
		},
	}
}

func StandardModels() []Model {
	return []Model{
		{ID: "deepseek-coder-v2-lite-instruct-q4_k_m", Name: "DeepSeek-Coder V2 Lite (Fast)"},
		{ID: "qwen2.5-coder-7b-instruct-q5_k_m", Name: "Qwen2.5-Coder 7B (Capable)"},
	}
}

// StandardSuite returns the built-in matrix.
func StandardSuite() *Suite {
	return &Suite{Models: StandardModels(), Tests: StandardTests()}
}

// LoadSuite reads a YAML suite file. An empty path returns the standard suite.
func LoadSuite(path string) (*Suite, error) {
	if path == "" {
		return StandardSuite(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading suite %s", path)
	}
	suite, err := ParseSuite(data)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing suite %s", path)
	}
	return suite, nil
}

func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, err
	}
	if len(suite.Models) == 0 {
		suite.Models = StandardModels()
	}
	if len(suite.Tests) == 0 {
		suite.Tests = StandardTests()
	}
	for i, m := range suite.Models {
		if m.ID == "" {
			return nil, errors.Errorf("model %d has no id", i)
		}
		if m.Name == "" {
			suite.Models[i].Name = m.ID
		}
	}
	for i, t := range suite.Tests {
		if t.Prompt == "" {
			return nil, errors.Errorf("test %d (%s) has an empty prompt", i, t.Name)
		}
		if t.Name == "" {
			suite.Tests[i].Name = fmt.Sprintf("test %d", i+1)
		}
	}
	return &suite, nil
}
