package cmd

import (
	"fmt"
	"os"

	"github.com/Beastly713/whisper/pkg/pipeline"
	"github.com/Beastly713/whisper/pkg/stego"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func analyzeFile(path string) (stego.Analysis, error) {
	in, err := os.Open(path)
	if err != nil {
		return stego.Analysis{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	return pipeline.InspectPipeline(in, baseConfig(""))
}

var detectCmd = &cobra.Command{
	Use:   "detect [image]",
	Short: "Guess whether an image holds a protected message",
	Long: `Detect samples the low bits of the first payload pixels and prints
"protected" or "plain". This is a statistical guess, not a guarantee.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}
		verdict := stego.Plain
		if a.Protected {
			verdict = stego.Protected
		}
		fmt.Fprintln(cmd.OutOrStdout(), verdict)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [image]",
	Short: "Show the low-bit statistics behind the protection guess",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}

		header := fmt.Sprintf("%d bits", a.HeaderLength)
		if !a.HeaderValid {
			header += " (invalid)"
		}
		verdict := stego.Plain
		if a.Protected {
			verdict = stego.Protected
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Property", "Value").
			Row("Pixels", fmt.Sprint(a.Pixels)).
			Row("Capacity", fmt.Sprintf("%d bits", a.Capacity)).
			Row("Header length", header).
			Row("Sampled channels", fmt.Sprint(a.Sampled)).
			Row("Low bits 00/01/10/11", fmt.Sprintf("%d/%d/%d/%d", a.Counts[0], a.Counts[1], a.Counts[2], a.Counts[3])).
			Row("Tri-level fraction", fmt.Sprintf("%.3f (threshold %.3f)", a.TriLevelFraction, threshold)).
			Row("Entropy", fmt.Sprintf("%.3f bits", a.Entropy)).
			Row("Verdict", verdict.String())

		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(inspectCmd)
}
