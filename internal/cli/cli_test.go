package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/revgrad/internal/config"
	"github.com/born-ml/revgrad/internal/expr"
	"github.com/born-ml/revgrad/internal/gradfn"
)

const product = "func(x, y float64) float64 { return x*y + math.Sin(math.Pow(x, 2)) }"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), "v1.2.3", args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "revgrad v1.2.3\n", out)
}

func TestEval_JSON(t *testing.T) {
	out, _, err := run(t, "eval", "-e", product, "--at", "3,3", "-o", "json")
	require.NoError(t, err)

	var ev evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, []float64{3, 3}, ev.At)
	assert.InDelta(t, 9+math.Sin(9), ev.Value, 1e-12)
	assert.InDeltaSlice(t, []float64{3 + math.Cos(9)*6, 3}, ev.Gradients, 1e-12)
}

func TestEval_Text(t *testing.T) {
	out, _, err := run(t, "eval", "-e", "func(x float64) float64 { return x * x }", "--at", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"f(3)", "9"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"∂f/∂x", "6"}, strings.Fields(lines[1]))
}

func TestEval_HCLFile(t *testing.T) {
	path := writeFile(t, "f.hcl", "params = [\"x\", \"y\", \"z\"]\nbody = x + y * pow(z, 2)\n")

	out, _, err := run(t, "eval", "-f", path, "--parser", "hcl", "--at", "2,3,4", "-o", "json")
	require.NoError(t, err)

	var ev evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 50.0, ev.Value)
	assert.Equal(t, []float64{1, 16, 24}, ev.Gradients)
}

func TestEval_ParserFromConfig(t *testing.T) {
	cfg := writeFile(t, "revgrad.yaml", "parser: hcl\n")
	out, _, err := run(t, "--config", cfg, "eval", "-e", "params = [\"x\"]\nbody = x * x\n", "--at", "3", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": 9`)
}

func TestEval_Errors(t *testing.T) {
	_, _, err := run(t, "eval", "-e", product, "--at", "1")
	require.ErrorIs(t, err, gradfn.ErrArityMismatch)

	_, _, err = run(t, "eval", "-e", "func(x float64) float64 { x++; return x }", "--at", "1")
	require.ErrorIs(t, err, expr.ErrInvalidFunctionShape)

	_, _, err = run(t, "eval", "--at", "1")
	require.Error(t, err)

	_, _, err = run(t, "eval", "-e", product, "--at", "1,2", "-o", "xml")
	require.Error(t, err)

	_, _, err = run(t, "eval", "-e", product, "--at", "1,2", "--parser", "python")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBatch(t *testing.T) {
	points := writeFile(t, "points.txt", "# x, y\n2, 2\n\n3,3\n")
	out, _, err := run(t, "batch",
		"-e", "func(x, y float64) float64 { return math.Pow(x, 2)*y + x*y }",
		"--points", points, "--workers", "2", "-o", "json")
	require.NoError(t, err)

	var evs []evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &evs))
	require.Len(t, evs, 2)
	assert.Equal(t, evaluation{At: []float64{2, 2}, Value: 12, Gradients: []float64{10, 6}}, evs[0])
	assert.Equal(t, evaluation{At: []float64{3, 3}, Value: 36, Gradients: []float64{21, 12}}, evs[1])
}

func TestBatch_BadPoint(t *testing.T) {
	points := writeFile(t, "points.txt", "1,2\n1,two\n")
	_, _, err := run(t, "batch", "-e", product, "--points", points)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "check", "-e", product, "--at", "1.3,0.7")
	require.NoError(t, err)
	assert.Contains(t, out, "PARAM")
	assert.Equal(t, 2, strings.Count(out, " ok"))

	cfg := writeFile(t, "strict.yaml", "check:\n  step: 0.5\n  tolerance: 1e-12\n")
	_, _, err = run(t, "--config", cfg, "check", "-e", product, "--at", "1.3,0.7")
	require.ErrorIs(t, err, ErrCheckFailed)
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, "inspect", "-e", "func(x, y float64) float64 { return x*y + 3 }", "--at", "2,5")
	require.NoError(t, err)
	assert.Contains(t, out, "params: [x y]")
	assert.Contains(t, out, "ADJOINT")
	assert.Contains(t, out, "13")
}

func TestOps(t *testing.T) {
	out, _, err := run(t, "ops")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, []string{"SYMBOL", "ARITY"}, strings.Fields(lines[0]))
	arity := make(map[string]string)
	for _, line := range lines[1:] {
		f := strings.Fields(line)
		require.Len(t, f, 2)
		arity[f[0]] = f[1]
	}
	assert.Equal(t, "1", arity["sin"])
	assert.Equal(t, "2", arity["**"])
	assert.Equal(t, "2", arity["pow"])
}

func TestLogging(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "info", "--log-format", "json", "eval", "-e", product, "--at", "1,2")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"evaluated"`)
}

func TestTrace(t *testing.T) {
	_, stderr, err := run(t, "--trace", "eval", "-e", product, "--at", "1,2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "gradfn.Make")
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 1, -2.5 ,3e2 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5, 300}, p)

	p, err = parsePoint("")
	require.NoError(t, err)
	assert.Empty(t, p)

	_, err = parsePoint("1,,2")
	require.Error(t, err)
}
