package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// NewDiagnoseCmd creates the diagnose command.  It runs the rules engine
// offline over an input bundle read from a JSON file, with no server or
// database involved — useful for rule tuning and support investigations.
func NewDiagnoseCmd(opts *RootOptions) *cobra.Command {
	var (
		inputFile string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose a business from a local input bundle",
		Long:  "Run the full diagnostics pipeline over an input bundle stored as JSON.\nThe computation is deterministic: the same bundle always yields the same\ndiagnosis.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInputBundle(inputFile)
			if err != nil {
				return err
			}
			if asOf != "" {
				t, parseErr := time.Parse(time.RFC3339, asOf)
				if parseErr != nil {
					return fmt.Errorf("invalid --as-of value %q: expected RFC 3339 timestamp", asOf)
				}
				in.AsOf = t
			}

			engine, err := diagnostics.NewEngine(diagnostics.DefaultRuleSet())
			if err != nil {
				return fmt.Errorf("failed to build rules engine: %w", err)
			}
			out, err := engine.Diagnose(in)
			if err != nil {
				return fmt.Errorf("diagnosis failed: %w", err)
			}

			if strings.ToLower(opts.OutputFormat) == "json" {
				return printJSON(cmd, out)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDiagnosis(in, out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "input bundle JSON file [REQUIRED]")
	cmd.Flags().StringVar(&asOf, "as-of", "", "override the bundle's as_of timestamp (RFC 3339)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func readInputBundle(path string) (*dg.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input bundle: %w", err)
	}

	var in dg.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid input bundle JSON: %w", err)
	}
	if in.Profile.ID == "" {
		return nil, fmt.Errorf("input bundle is missing profile.id")
	}
	return &in, nil
}

// renderDiagnosis formats a diagnosis for terminal reading.
func renderDiagnosis(in *dg.Input, out *dg.Output) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Business Health Diagnosis: %s\n", in.Profile.Name)
	sb.WriteString("=========================================\n\n")
	fmt.Fprintf(&sb, "Health Band: %s\n", out.HealthBand)
	fmt.Fprintf(&sb, "Stage:       %s\n", out.Stage)
	fmt.Fprintf(&sb, "Coverage:    %s\n\n", out.Meta.DataCoverage)

	rows := make([][]string, 0, len(out.ScoreExplanations))
	for _, ex := range out.ScoreExplanations {
		rows = append(rows, []string{
			string(ex.Dimension),
			fmt.Sprintf("%d", ex.Score),
			ex.Band,
			string(ex.DataQuality),
		})
	}
	sb.WriteString(FormatTable([]string{"Dimension", "Score", "Band", "Data Quality"}, rows))

	if len(out.Bottlenecks) > 0 {
		sb.WriteString("\nBottlenecks:\n")
		for _, b := range out.Bottlenecks {
			fmt.Fprintf(&sb, "  [%s] %s — %s\n", strings.ToUpper(string(b.Severity)), b.Area, b.Description)
		}
	}

	if len(out.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range out.Recommendations {
			fmt.Fprintf(&sb, "  %d. %s (%s)\n", rec.Priority, rec.Action, rec.Timeline)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(out.OverallSummary)
	sb.WriteString("\n")
	return sb.String()
}

//Personal.AI order the ending
