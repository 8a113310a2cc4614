package cmd

import (
	"fmt"
	"os"

	"github.com/Beastly713/whisper/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	revealPassword string
	assertProtect  bool
)

var revealCmd = &cobra.Command{
	Use:   "reveal [image]",
	Short: "Read a hidden message from an image",
	Long: `Reveal extracts a message hidden with 'whisper hide'.

Protected images need the password they were written with. Reveal checks
whether the image looks protected before reading it and refuses to read
it the wrong way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer in.Close()

		config := baseConfig(revealPassword)
		config.Protected = assertProtect

		text, err := pipeline.RevealPipeline(in, config)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revealCmd)

	revealCmd.Flags().StringVarP(&revealPassword, "password", "p", "", "Password of a protected image (or set "+passwordEnv+")")
	revealCmd.Flags().BoolVar(&assertProtect, "protected", false, "Expect a protected image even when no password is given")
}
