package bench

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/ui"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

const (
	lineWidth       = 60
	promptPreviewSz = 50
)

type Options struct {
	// Pause is the minimum spacing between two requests. Zero disables pacing.
	Pause time.Duration
	// Out receives progress and results. Nil discards them.
	Out io.Writer
}

// Runner sends every test of a suite to every model, one request at a time.
// It is not safe for concurrent use.
type Runner struct {
	backend backend.Backend
	limiter *rate.Limiter
	out     io.Writer
	now     func() time.Time
}

func NewRunner(be backend.Backend, opts Options) *Runner {
	limit := rate.Inf
	if opts.Pause > 0 {
		limit = rate.Every(opts.Pause)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		backend: be,
		limiter: rate.NewLimiter(limit, 1),
		out:     out,
		now:     time.Now,
	}
}

// Run executes the matrix. A failing test is recorded and the run carries on;
// the returned error is only set when ctx ends early, together with the
// partial report.
func (r *Runner) Run(ctx context.Context, suite *Suite) (*Report, error) {
	lgr := logutils.FromContext(ctx)
	report := &Report{StartTime: r.now()}
	defer func() {
		report.Duration = r.now().Sub(report.StartTime)
	}()

	fmt.Fprintf(r.out, "\n%s\n", ui.Separator(lineWidth))
	fmt.Fprintln(r.out, ui.TitleStyle.Render("llama-swappo Model Test Suite"))
	fmt.Fprintln(r.out, ui.Separator(lineWidth))

	for _, model := range suite.Models {
		hashes := strings.Repeat("#", lineWidth)
		fmt.Fprintf(r.out, "\n\n%s\n# %s\n%s\n", hashes, model.Name, hashes)

		result := ModelResult{Model: model}
		for _, test := range suite.Tests {
			if err := r.limiter.Wait(ctx); err != nil {
				report.Results = append(report.Results, result)
				return report, err
			}
			tr := r.runTest(ctx, model, test)
			if !tr.Success {
				lgr.Warnf(ctx, "%s failed on %s: %s", test.Name, model.ID, tr.Error)
			}
			result.Tests = append(result.Tests, tr)
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func (r *Runner) runTest(ctx context.Context, model Model, test Test) TestResult {
	fmt.Fprintf(r.out, "\n%s\n", ui.Separator(lineWidth))
	fmt.Fprintf(r.out, "Testing: %s\n", model.Name)
	fmt.Fprintln(r.out, ui.Separator(lineWidth))
	fmt.Fprintf(r.out, "Prompt: %s...\n", preview(test.Prompt, promptPreviewSz))
	fmt.Fprint(r.out, "\nGenerating...\n")

	req := &openai.ChatCompletionRequest{
		Model:    model.ID,
		Messages: []openai.Message{{Role: openai.RoleUser, Content: test.Prompt}},
	}
	if test.MaxTokens > 0 {
		maxTokens := test.MaxTokens
		req.MaxTokens = &maxTokens
	}

	start := r.now()
	resp, err := r.backend.ChatCompletion(ctx, req)
	elapsed := r.now().Sub(start)
	if err != nil {
		fmt.Fprintf(r.out, "\n%s\n", ui.ErrorStyle.Render("❌ Error: "+err.Error()))
		return TestResult{Test: test.Name, Error: err.Error()}
	}

	tr := TestResult{
		Test:             test.Name,
		Success:          true,
		Elapsed:          elapsed,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		Response:         resp.Content(),
	}
	if elapsed > 0 {
		tr.TokensPerSec = float64(tr.CompletionTokens) / elapsed.Seconds()
	}

	rule := strings.Repeat("-", lineWidth)
	fmt.Fprintf(r.out, "\nResult:\n%s\n%s\n\n%s\n", rule, tr.Response, rule)
	fmt.Fprintf(r.out, "Tokens: %d generated, %d prompt\n", tr.CompletionTokens, tr.PromptTokens)
	fmt.Fprintf(r.out, "Time: %.2f seconds\n", elapsed.Seconds())
	fmt.Fprintf(r.out, "Speed: %.1f tokens/second\n", tr.TokensPerSec)
	return tr
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
