// Package stego hides text in the two low bits of an image's colour channels.
//
// A pixel buffer is a flat slice of 8-bit channels, four per pixel, laid out
// like image.NRGBA.Pix. The fourth channel of each pixel is never touched.
// The first HeaderPixels pixels carry a 32-bit payload length, always
// written tri-level; the payload follows in the Plain or Protected profile.
// Protected payloads carry a "password:" prefix which Decode checks.
package stego

import (
	"errors"
	"fmt"
	"math"

	"github.com/Beastly713/whisper/pkg/bitconv"
	"github.com/Beastly713/whisper/pkg/envelope"
	"github.com/rs/zerolog"
)

var (
	// ErrMessageTooLarge indicates the carrier is too small to hold the payload.
	ErrMessageTooLarge = errors.New("message too large for carrier image")

	// ErrInvalidHeader indicates the length prefix is zero or exceeds the carrier's capacity.
	ErrInvalidHeader = errors.New("no valid hidden message (invalid length header)")

	// ErrProtectionMismatch indicates the caller's protection intent disagrees
	// with the detected profile.
	ErrProtectionMismatch = errors.New("protection mismatch")

	// ErrEmptyMessage indicates an empty payload, which could not be told apart
	// from a carrier without a message.
	ErrEmptyMessage = errors.New("message is empty")

	ErrPasswordRequired = envelope.ErrPasswordRequired
	ErrPasswordMismatch = envelope.ErrPasswordMismatch
	ErrInvalidPassword  = envelope.ErrInvalidPassword
)

// Codec embeds and extracts messages. The zero value is not usable; use New.
// A Codec holds no per-call state and may be shared.
type Codec struct {
	detector Detector
	logger   zerolog.Logger
}

// Option configures a Codec.
type Option func(*Codec) error

// WithDetector replaces the protection detector's tuning.
func WithDetector(d Detector) Option {
	return func(c *Codec) error {
		if err := d.Validate(); err != nil {
			return err
		}
		c.detector = d
		return nil
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Codec) error {
		c.logger = l
		return nil
	}
}

// New returns a Codec using DefaultDetector unless overridden.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		detector: DefaultDetector,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var defaultCodec = &Codec{detector: DefaultDetector, logger: zerolog.Nop()}

// Encode hides message in buf with the package defaults.
// See Codec.Encode.
func Encode(buf []byte, message, password string) ([]byte, error) {
	return defaultCodec.Encode(buf, message, password)
}

// Decode recovers a message from buf with the package defaults.
// See Codec.Decode.
func Decode(buf []byte, password string) (string, error) {
	return defaultCodec.Decode(buf, password)
}

// DetectProtection reports whether buf looks Protected to DefaultDetector.
func DetectProtection(buf []byte) bool {
	return DefaultDetector.IsProtected(buf)
}

// Detector returns the codec's detector.
func (c *Codec) Detector() Detector {
	return c.detector
}

// Encode hides message in buf and returns buf. A non-empty password selects
// the Protected profile; an empty one selects Plain.
func (c *Codec) Encode(buf []byte, message, password string) ([]byte, error) {
	profile := Plain
	if password != "" {
		profile = Protected
	}
	return c.EncodeProfile(buf, message, profile, password)
}

// EncodeProfile hides message in buf using profile. Protected requires a
// password and Plain forbids one. buf is left untouched on error.
func (c *Codec) EncodeProfile(buf []byte, message string, profile Profile, password string) ([]byte, error) {
	payload := message
	switch profile {
	case Protected:
		wrapped, err := envelope.Wrap(password, message)
		if err != nil {
			return nil, err
		}
		payload = wrapped
	case Plain:
		if password != "" {
			return nil, fmt.Errorf("%w: a password requires the protected profile", ErrProtectionMismatch)
		}
		if message == "" {
			return nil, ErrEmptyMessage
		}
	default:
		return nil, fmt.Errorf("%w: unknown profile %v", ErrProtectionMismatch, profile)
	}

	bits := bitconv.TextToBits(payload)
	capacity := Capacity(buf, profile)
	if len(bits) > capacity || uint64(len(bits)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrMessageTooLarge, len(bits), capacity)
	}

	c.logger.Debug().
		Stringer("profile", profile).
		Int("bits", len(bits)).
		Int("capacity", capacity).
		Msg("embedding payload")

	writeHeader(buf, uint32(len(bits)))
	embedPayload(buf, bits, profile)
	return buf, nil
}

// Decode recovers the message in buf. A non-empty password asserts that
// buf is Protected; an empty one asserts Plain.
func (c *Codec) Decode(buf []byte, password string) (string, error) {
	profile := Plain
	if password != "" {
		profile = Protected
	}
	return c.DecodeProfile(buf, profile, password)
}

// DecodeProfile recovers the message in buf, asserting it was written with
// profile. The assertion is checked against the detector before anything
// is extracted. buf is not modified.
func (c *Codec) DecodeProfile(buf []byte, profile Profile, password string) (string, error) {
	switch profile {
	case Protected:
		if password == "" {
			return "", ErrPasswordRequired
		}
	case Plain:
		if password != "" {
			return "", fmt.Errorf("%w: a password was given for an unprotected read", ErrProtectionMismatch)
		}
	default:
		return "", fmt.Errorf("%w: unknown profile %v", ErrProtectionMismatch, profile)
	}

	detected := c.detector.IsProtected(buf)
	c.logger.Debug().
		Bool("detected_protected", detected).
		Stringer("asserted", profile).
		Msg("protection check")
	if detected && profile != Protected {
		return "", fmt.Errorf("%w: this image requires a password", ErrProtectionMismatch)
	}
	if !detected && profile == Protected {
		return "", fmt.Errorf("%w: this image is not password protected", ErrProtectionMismatch)
	}

	length, err := validLength(buf)
	if err != nil {
		return "", err
	}

	text := bitconv.BitsToText(extractPayload(buf, length, profile))
	if profile == Protected {
		return envelope.Unwrap(text, password)
	}
	return text, nil
}
