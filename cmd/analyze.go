package cmd

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tokenscope/internal/analysis"
	"github.com/KaramelBytes/tokenscope/internal/attachment"
	"github.com/KaramelBytes/tokenscope/internal/insight"
	"github.com/KaramelBytes/tokenscope/internal/utils"
)

var (
	anaFile       string
	anaFileB64    string
	anaAttach     string
	anaFormat     string
	anaOutputPath string
	anaProvider   string
	anaModel      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [tokens...]",
	Short: "Analyze tokens given as arguments or read from a JSON/CSV/TSV/text file",
	Example: `  tokenscope analyze a 1 334 4 R '$'
  tokenscope analyze --file data.json --format markdown
  tokenscope analyze --file values.csv -o report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(anaFormat))
		switch format {
		case "json":
		case "markdown", "md":
			format = "markdown"
		default:
			return fmt.Errorf("unsupported --format: %s (use json|markdown)", anaFormat)
		}

		var tokens []any
		switch {
		case anaFile != "" && len(args) > 0:
			return errors.New("pass tokens as arguments or --file, not both")
		case anaFile != "":
			t, err := analysis.ReadTokens(anaFile)
			if err != nil {
				return err
			}
			tokens = t
		case len(args) > 0:
			tokens = make([]any, len(args))
			for i, a := range args {
				tokens[i] = a
			}
		default:
			return errors.New("no input: pass tokens as arguments or use --file")
		}

		c, err := requireConfig()
		if err != nil {
			return err
		}
		tokens, err = inputLimits(c).Validate(tokens)
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}

		fileB64 := anaFileB64
		if anaAttach != "" {
			if fileB64 != "" {
				return errors.New("use --attach or --file-b64, not both")
			}
			b, err := os.ReadFile(anaAttach)
			if err != nil {
				return fmt.Errorf("read attachment: %w", err)
			}
			fileB64 = base64.StdEncoding.EncodeToString(b)
		}

		logger, err := newLogger(c)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		labeler, _, err := buildLabeler(c, labelerOptions{ProviderFlag: anaProvider, ModelFlag: anaModel})
		if err != nil {
			return err
		}
		opts := []insight.Option{
			insight.WithLogger(logger),
			insight.WithLabelTimeout(c.LabelTimeout()),
			insight.WithSource("cli"),
		}
		if labeler != nil {
			opts = append(opts, insight.WithLabeler(labeler))
		}

		report := insight.NewAnalyzer(opts...).Analyze(cmd.Context(), tokens, attachment.Inspect(fileB64))

		var out []byte
		if format == "markdown" {
			out = []byte(report.Markdown())
		} else {
			b, err := utils.PrettyJSON(report)
			if err != nil {
				return err
			}
			out = append(b, '\n')
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFile, "file", "f", "", "read tokens from a .json, .csv, .tsv or text file")
	analyzeCmd.Flags().StringVar(&anaFileB64, "file-b64", "", "base64 attachment to inspect (MIME type and size)")
	analyzeCmd.Flags().StringVar(&anaAttach, "attach", "", "path of a file to inspect as the attachment")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "json", "output format: json|markdown")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaProvider, "provider", "", "labeler provider: none|openrouter|ollama (overrides ai_provider)")
	analyzeCmd.Flags().StringVar(&anaModel, "model", "", "labeler model (overrides ai_model)")
}
