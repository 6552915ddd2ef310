package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/revgrad/internal/expr"
	"github.com/born-ml/revgrad/internal/expr/goexpr"
	"github.com/born-ml/revgrad/internal/expr/hclexpr"
	"github.com/born-ml/revgrad/internal/gradfn"
)

// source holds the -f/-e flags of commands that take a function.
type source struct {
	file   string
	inline string
	parser string
}

func (s *source) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&s.file, "file", "f", "", "file containing the function")
	flags.StringVarP(&s.inline, "expr", "e", "", "function source")
	flags.StringVar(&s.parser, "parser", "go", "function language: go or hcl")
	cmd.MarkFlagsMutuallyExclusive("file", "expr")
	cmd.MarkFlagsOneRequired("file", "expr")
}

func (s *source) read() (string, error) {
	if s.inline != "" {
		return s.inline, nil
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		return "", fmt.Errorf("read function: %w", err)
	}
	return string(data), nil
}

// load parses and builds the function named by the flags.
func (a *app) load(cmd *cobra.Command, s *source) (*gradfn.Func, error) {
	src, err := s.read()
	if err != nil {
		return nil, err
	}

	var p expr.Parser
	switch a.cfg.Parser {
	case "hcl":
		hp := hclexpr.New()
		if s.file != "" {
			hp.Filename = s.file
		}
		p = hp
	default:
		p = goexpr.New()
	}

	cache := gradfn.NewCache(p, gradfn.WithLogger(a.logger))
	return cache.GetOrMake(cmd.Context(), src)
}

// parsePoint parses a comma-separated list of numbers. An empty line is a
// point with no coordinates.
func parsePoint(line string) ([]float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return []float64{}, nil
	}

	fields := strings.Split(line, ",")
	point := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		point[i] = v
	}
	return point, nil
}

// readPoints reads one point per line, skipping blank lines and # comments.
func readPoints(r io.Reader) ([][]float64, error) {
	var points [][]float64
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := parsePoint(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		points = append(points, p)
	}
	return points, sc.Err()
}

// evaluation is the JSON form of one evaluated point.
type evaluation struct {
	At        []float64 `json:"at"`
	Value     float64   `json:"value"`
	Gradients []float64 `json:"gradients"`
}

func newEvaluation(at []float64, res gradfn.Result) evaluation {
	return evaluation{At: at, Value: res.Value, Gradients: res.Gradients}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeText prints the value and one named partial per parameter.
func writeText(w io.Writer, params []string, ev evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "f(%s)\t%g\n", formatPoint(ev.At), ev.Value)
	for i, name := range params {
		fmt.Fprintf(tw, "∂f/∂%s\t%g\n", name, ev.Gradients[i])
	}
	return tw.Flush()
}

func formatPoint(p []float64) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
