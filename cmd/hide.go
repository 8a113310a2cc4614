package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/whisper/pkg/imageio"
	"github.com/Beastly713/whisper/pkg/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	message     string
	messageFile string
	password    string
	outPath     string
	outFormat   string
	overwrite   bool
)

var hideCmd = &cobra.Command{
	Use:   "hide [image]",
	Short: "Hide a message inside an image",
	Long: `Hide writes a text message into the low bits of an image's colour
channels and saves the result as a new lossless image.

With a password the message is stored in protected mode and can only be
read back with the same password.

Example:
  whisper hide cat.png -m "meet at noon" -p hunter2

  This creates cat_hidden.png next to cat.png.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath := args[0]

		// 1. Resolve the message
		text := message
		if messageFile != "" {
			if message != "" {
				return fmt.Errorf("use either --message or --message-file, not both")
			}
			data, err := os.ReadFile(messageFile)
			if err != nil {
				return fmt.Errorf("failed to read message file: %w", err)
			}
			text = string(data)
		}
		if text == "" {
			return fmt.Errorf("a message is required (--message or --message-file)")
		}

		// 2. Resolve output path and format
		dest := outPath
		if dest == "" {
			ext := "." + outFormat
			base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
			dest = filepath.Join(filepath.Dir(imagePath), base+"_hidden"+ext)
		}
		format, err := imageio.FormatFromPath(dest)
		if err != nil {
			return fmt.Errorf("cannot write %s: %w", dest, err)
		}
		if _, err := os.Stat(dest); err == nil && !overwrite {
			return fmt.Errorf("file %s already exists, use --overwrite to replace it", dest)
		}

		// 3. Run the pipeline
		config := baseConfig(password)
		config.Format = format

		report, err := writeHidden(imagePath, dest, text, config)
		if err != nil {
			return err
		}

		log.Debug().
			Str("profile", report.Profile.String()).
			Int("payload_bits", report.PayloadBits).
			Int("capacity_bits", report.CapacityBits).
			Msg("message embedded")

		fmt.Fprintf(cmd.OutOrStdout(), "Hid %d bytes (%s) in %s\n", len(text), report.Profile, dest)
		return nil
	},
}

// writeHidden embeds text from the image at src and writes the result to dest.
// The image is written to a temporary file next to dest and renamed over it
// only once complete, so a failed embed leaves any existing dest intact.
func writeHidden(src, dest, text string, config pipeline.PipelineConfig) (*pipeline.HideReport, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	if destInfo, err := os.Stat(dest); err == nil && os.SameFile(srcInfo, destInfo) {
		return nil, fmt.Errorf("output %s is the input image, choose another path", dest)
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	report, err := pipeline.HidePipeline(in, tmp, text, config)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write output file: %w", cerr)
	}
	if err != nil {
		return nil, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}
	return report, nil
}

func init() {
	rootCmd.AddCommand(hideCmd)

	hideCmd.Flags().StringVarP(&message, "message", "m", "", "Message to hide")
	hideCmd.Flags().StringVar(&messageFile, "message-file", "", "Read the message from a file")
	hideCmd.Flags().StringVarP(&password, "password", "p", "", "Protect the message with a password (or set "+passwordEnv+")")
	hideCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output image path (default: <image>_hidden.<format>)")
	hideCmd.Flags().StringVar(&outFormat, "format", "png", "Output format when --output is not given (png or bmp)")
	hideCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the output file if present")
}
