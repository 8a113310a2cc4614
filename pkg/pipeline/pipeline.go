package pipeline

import (
	"fmt"
	"io"

	"github.com/Beastly713/whisper/pkg/bitconv"
	"github.com/Beastly713/whisper/pkg/envelope"
	"github.com/Beastly713/whisper/pkg/imageio"
	"github.com/Beastly713/whisper/pkg/stego"
	"github.com/rs/zerolog"
)

// PipelineConfig holds the parameters shared by the hide and reveal flows.
type PipelineConfig struct {
	// Password enables the protected profile. Empty means no password.
	Password string

	// Protected asserts protection on reveal even without a password, so a
	// missing password is reported as such instead of as a profile mismatch.
	Protected bool

	// Format is the output container for HidePipeline. Defaults to PNG.
	Format imageio.Format

	// Detector tunes protection detection. The zero value means stego.DefaultDetector.
	Detector stego.Detector

	Logger zerolog.Logger
}

// HideReport describes a completed embed.
type HideReport struct {
	Width, Height int
	Profile       stego.Profile
	PayloadBits   int
	CapacityBits  int
}

func (c PipelineConfig) codec() (*stego.Codec, error) {
	d := c.Detector
	if d == (stego.Detector{}) {
		d = stego.DefaultDetector
	}
	return stego.New(stego.WithDetector(d), stego.WithLogger(c.Logger))
}

func (c PipelineConfig) profile() stego.Profile {
	if c.Protected || c.Password != "" {
		return stego.Protected
	}
	return stego.Plain
}

// HidePipeline orchestrates the flow: Decode image -> Embed -> Encode image
func HidePipeline(input io.Reader, output io.Writer, message string, config PipelineConfig) (*HideReport, error) {
	format := config.Format
	if format == "" {
		format = imageio.PNG
	}
	// Refuse lossy targets before doing any work.
	if _, err := imageio.ParseFormat(string(format)); err != nil {
		return nil, err
	}

	codec, err := config.codec()
	if err != nil {
		return nil, err
	}

	// 1. Decode carrier
	pixels, err := imageio.LoadPixels(input)
	if err != nil {
		return nil, err
	}
	config.Logger.Debug().Int("width", pixels.Width).Int("height", pixels.Height).Msg("carrier loaded")

	// 2. Embed
	profile := config.profile()
	if _, err := codec.EncodeProfile(pixels.Pix, message, profile, config.Password); err != nil {
		return nil, fmt.Errorf("embed failed: %w", err)
	}

	// 3. Encode result
	if err := imageio.SavePixels(output, pixels, format); err != nil {
		return nil, err
	}

	return &HideReport{
		Width:        pixels.Width,
		Height:       pixels.Height,
		Profile:      profile,
		PayloadBits:  (len(message) + envelope.Overhead(config.Password)) * bitconv.BitsPerByte,
		CapacityBits: stego.Capacity(pixels.Pix, profile),
	}, nil
}

// RevealPipeline orchestrates the reverse: Decode image -> Detect -> Extract
func RevealPipeline(input io.Reader, config PipelineConfig) (string, error) {
	codec, err := config.codec()
	if err != nil {
		return "", err
	}

	pixels, err := imageio.LoadPixels(input)
	if err != nil {
		return "", err
	}

	message, err := codec.DecodeProfile(pixels.Pix, config.profile(), config.Password)
	if err != nil {
		return "", fmt.Errorf("extraction failed: %w", err)
	}
	return message, nil
}

// InspectPipeline loads an image and reports the detector's view of it.
func InspectPipeline(input io.Reader, config PipelineConfig) (stego.Analysis, error) {
	codec, err := config.codec()
	if err != nil {
		return stego.Analysis{}, err
	}

	pixels, err := imageio.LoadPixels(input)
	if err != nil {
		return stego.Analysis{}, err
	}
	return codec.Detector().Analyze(pixels.Pix), nil
}
