package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPistonRunnerRun(t *testing.T) {
	var got pistonRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/execute", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"language":"c++","version":"10.2.0","run":{"stdout":"Hello\n","stderr":"","code":0,"signal":null}}`))
	}))
	defer srv.Close()

	runner := NewCodeRunner(srv.URL+"/", time.Second)
	res, err := runner.Run(context.Background(), "cpp", "int main(){}", "")
	require.NoError(t, err)
	assert.Equal(t, "c++", got.Language)
	assert.Equal(t, "*", got.Version)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "int main(){}", got.Files[0].Content)
	assert.Equal(t, "Hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestPistonRunnerCompileFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"compile":{"stdout":"","stderr":"error: expected ';'","code":1},"run":{"stdout":"","stderr":"","code":null}}`))
	}))
	defer srv.Close()

	res, err := NewCodeRunner(srv.URL, time.Second).Run(context.Background(), "java", "class X {", "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "expected")
}

func TestPistonRunnerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"runtime is unknown"}`))
	}))
	defer srv.Close()

	runner := NewCodeRunner(srv.URL, time.Second)
	_, err := runner.Run(context.Background(), "python", "print(1)", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime is unknown")

	_, err = runner.Run(context.Background(), "html", "<p></p>", "")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = NewCodeRunner("", time.Second).Run(context.Background(), "python", "print(1)", "")
	assert.ErrorIs(t, err, ErrRunnerNotConfigured)
}
