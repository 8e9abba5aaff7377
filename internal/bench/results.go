package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/llama-swappo/swappo/internal/ui"
)

// TestResult is the outcome of one test against one model.
type TestResult struct {
	Test             string
	Success          bool
	Error            string
	Elapsed          time.Duration
	PromptTokens     int
	CompletionTokens int
	TokensPerSec     float64
	Response         string
}

// ModelResult holds the results of every test run against a model.
type ModelResult struct {
	Model Model
	Tests []TestResult
}

type Report struct {
	Results   []ModelResult
	StartTime time.Time
	Duration  time.Duration
}

// ModelSummary aggregates the results of one model. AverageTime only counts
// successful tests.
type ModelSummary struct {
	Model       Model
	Passed      int
	Total       int
	AverageTime time.Duration
}

func (r *ModelResult) Summary() ModelSummary {
	s := ModelSummary{Model: r.Model, Total: len(r.Tests)}
	var total time.Duration
	for _, t := range r.Tests {
		if !t.Success {
			continue
		}
		s.Passed++
		total += t.Elapsed
	}
	s.AverageTime = total / time.Duration(max(s.Passed, 1))
	return s
}

// Summary returns one entry per model in run order.
func (r *Report) Summary() []ModelSummary {
	out := make([]ModelSummary, 0, len(r.Results))
	for i := range r.Results {
		out = append(out, r.Results[i].Summary())
	}
	return out
}

// PrintSummary writes the per-model pass counts and average times.
func (r *Report) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\n\n%s\n", ui.Separator(lineWidth))
	fmt.Fprintln(w, ui.TitleStyle.Render("SUMMARY"))
	fmt.Fprintln(w, ui.Separator(lineWidth))

	for _, s := range r.Summary() {
		fmt.Fprintf(w, "\n%s\n", ui.LabelStyle.Render(s.Model.Name))
		passed := fmt.Sprintf("%d/%d", s.Passed, s.Total)
		if s.Passed == s.Total {
			passed = ui.SuccessStyle.Render(passed)
		} else {
			passed = ui.ErrorStyle.Render(passed)
		}
		fmt.Fprintf(w, "  Tests passed: %s\n", passed)
		fmt.Fprintf(w, "  Average time: %.2fs\n", s.AverageTime.Seconds())
	}

	fmt.Fprintf(w, "\n%s\n\n", ui.Separator(lineWidth))
}
