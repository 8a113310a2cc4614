package cmd

import (
	"os"

	"github.com/Beastly713/whisper/pkg/pipeline"
	"github.com/Beastly713/whisper/pkg/stego"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// passwordEnv supplies the password when --password is not given.
const passwordEnv = "WHISPER_PASSWORD"

var (
	verbose      bool
	threshold    float64
	samplePixels int
)

var rootCmd = &cobra.Command{
	Use:   "whisper",
	Short: "Hide text inside the pixels of an image",
	Long: `Whisper: hide a text message in the least significant bits of an
image, optionally behind a password, and read it back later.

Output images are always written losslessly (PNG or BMP).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// baseConfig builds the pipeline settings shared by every command.
func baseConfig(password string) pipeline.PipelineConfig {
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	return pipeline.PipelineConfig{
		Password: password,
		Detector: stego.Detector{Threshold: threshold, SamplePixels: samplePixels},
		Logger:   log.Logger,
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", stego.DefaultThreshold, "Tri-level fraction above which an image counts as protected")
	rootCmd.PersistentFlags().IntVar(&samplePixels, "sample-pixels", stego.DefaultSamplePixels, "Number of pixels the protection detector samples")
}
