package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/permah/internal/config"
	"github.com/mind-engage/permah/internal/export"
	"github.com/mind-engage/permah/internal/present"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/storage"
)

func newRenderCmd() *cobra.Command {
	var (
		answersPath string
		outDir      string
		format      string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Score an answers file and write the charts and CSV",
		Example: `  permah render --answers answers.yaml --out ./out
  cat answers.yaml | permah render --answers - --format svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if answersPath != "-" {
				f, err := os.Open(answersPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			answers, err := loadAnswers(in)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("out") {
				if cfg, err := config.FromEnv(); err == nil {
					outDir = cfg.ExportDir
				}
			}
			store, err := storage.NewFSStore(outDir)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), store, answers, format)
		},
	}
	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML or JSON file of answers keyed 1..18 or q1..q18 (- for stdin)")
	cmd.Flags().StringVar(&outDir, "out", "./out", "output directory (defaults to EXPORT_DIR)")
	cmd.Flags().StringVar(&format, "format", "png", "chart format: png or svg")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

// loadAnswers reads a mapping of question to value. The mapping may sit at
// the top level or under an "answers" key. JSON input parses as YAML.
func loadAnswers(r io.Reader) (scoring.AnswerSet, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return scoring.AnswerSet{}, fmt.Errorf("read answers: %w", err)
	}
	m := &doc
	if m.Kind == yaml.DocumentNode && len(m.Content) == 1 {
		m = m.Content[0]
	}
	if m.Kind != yaml.MappingNode {
		return scoring.AnswerSet{}, fmt.Errorf("read answers: expected a mapping at line %d", m.Line)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == "answers" && m.Content[i+1].Kind == yaml.MappingNode {
			m = m.Content[i+1]
			break
		}
	}

	raw := make(map[string]any, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if _, dup := raw[key]; dup {
			return scoring.AnswerSet{}, fmt.Errorf("read answers: line %d: %w: %s", m.Content[i].Line, scoring.ErrDuplicateQuestion, key)
		}
		var v any
		if err := m.Content[i+1].Decode(&v); err != nil {
			return scoring.AnswerSet{}, fmt.Errorf("read answers: %s: %w", key, err)
		}
		raw[key] = v
	}
	return scoring.ParseAnswers(raw)
}

func render(out io.Writer, store storage.ArtifactStore, answers scoring.AnswerSet, format string) error {
	scores, err := scoring.Aggregate(answers)
	if err != nil {
		return err
	}

	type artifact struct {
		key  string
		draw func(io.Writer) error
	}
	var charts []artifact
	switch strings.ToLower(format) {
	case "png":
		charts = []artifact{
			{export.RadarFileName, func(w io.Writer) error { return export.RenderRadarPNG(w, scores, export.Options{}) }},
			{export.BarsFileName, func(w io.Writer) error { return export.RenderBarsPNG(w, scores, export.Options{}) }},
		}
	case "svg":
		charts = []artifact{
			{svgName(export.RadarFileName), func(w io.Writer) error { return export.RenderRadarSVG(w, scores, export.Options{}) }},
			{svgName(export.BarsFileName), func(w io.Writer) error { return export.RenderBarsSVG(w, scores, export.Options{}) }},
		}
	default:
		return fmt.Errorf("unknown format %q (want png or svg)", format)
	}
	all := append(charts, artifact{export.CSVFileName, func(w io.Writer) error { return export.WriteCSV(w, scores) }})

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tAverage\tBand")
	for _, row := range present.Table(scores) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Label, row.Average, row.Band)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, a := range all {
		var buf bytes.Buffer
		if err := a.draw(&buf); err != nil {
			return fmt.Errorf("%s: %w", a.key, err)
		}
		path, err := store.Put(a.key, &buf)
		if err != nil {
			return fmt.Errorf("%s: %w", a.key, err)
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

func svgName(pngName string) string {
	return strings.TrimSuffix(pngName, ".png") + ".svg"
}
