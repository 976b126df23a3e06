package utils

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var (
	// ErrRunnerNotConfigured is returned when no executor URL is set
	ErrRunnerNotConfigured = stderrors.New("code runner not configured")
	// ErrUnsupportedLanguage is returned for lesson languages the executor cannot run
	ErrUnsupportedLanguage = stderrors.New("language cannot be executed")
)

// Lesson languages mapped to executor runtimes; markup languages are not runnable
var runnerLanguages = map[string]string{
	"javascript": "javascript",
	"python":     "python",
	"java":       "java",
	"cpp":        "c++",
	"c":          "c",
}

type RunResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// CodeRunner executes learner submitted code
type CodeRunner interface {
	Run(ctx context.Context, language, code, stdin string) (*RunResult, error)
}

type pistonRunner struct {
	client *resty.Client
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin,omitempty"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   *int   `json:"code"`
	Signal string `json:"signal"`
}

type pistonResponse struct {
	Run     pistonStage  `json:"run"`
	Compile *pistonStage `json:"compile"`
	Message string       `json:"message"`
}

// NewCodeRunner returns a client for a Piston compatible executor rooted at baseURL.
// An empty baseURL yields a runner that always fails with ErrRunnerNotConfigured.
func NewCodeRunner(baseURL string, timeout time.Duration) CodeRunner {
	if strings.TrimSpace(baseURL) == "" {
		return disabledRunner{}
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &pistonRunner{client: client}
}

func (r *pistonRunner) Run(ctx context.Context, language, code, stdin string) (*RunResult, error) {
	runtime, ok := runnerLanguages[language]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	var out pistonResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(pistonRequest{
			Language: runtime,
			Version:  "*",
			Files:    []pistonFile{{Content: code}},
			Stdin:    stdin,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/execute")
	if err != nil {
		return nil, errors.Wrap(err, "code runner request")
	}
	if resp.IsError() {
		return nil, errors.Errorf("code runner returned %d: %s", resp.StatusCode(), out.Message)
	}

	// A failed compilation never reaches the run stage
	stage := out.Run
	if out.Compile != nil && out.Compile.Code != nil && *out.Compile.Code != 0 {
		stage = *out.Compile
	}
	result := &RunResult{Stdout: stage.Stdout, Stderr: stage.Stderr}
	if stage.Code != nil {
		result.ExitCode = *stage.Code
	} else if stage.Signal != "" {
		result.ExitCode = -1
	}
	return result, nil
}

type disabledRunner struct{}

func (disabledRunner) Run(context.Context, string, string, string) (*RunResult, error) {
	return nil, ErrRunnerNotConfigured
}
