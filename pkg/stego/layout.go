package stego

import (
	"errors"
	"fmt"

	"github.com/Beastly713/whisper/pkg/bitconv"
)

// Buffer layout. A pixel is four channels; only the first three carry data.
const (
	ChannelsPerPixel = 4
	ColorChannels    = 3

	// HeaderBits is the width of the length prefix.
	HeaderBits = 32

	// HeaderPixels is the number of pixels reserved for the header
	// (32 bits at 3 bits per pixel, rounded up).
	HeaderPixels = (HeaderBits + ColorChannels - 1) / ColorChannels

	// PayloadOffset is the byte offset of the first payload channel.
	PayloadOffset = HeaderPixels * ChannelsPerPixel
)

// errShortBuffer is returned by readHeader when the buffer cannot hold a header.
var errShortBuffer = errors.New("buffer smaller than header region")

// PixelCount returns the number of whole pixels in buf.
func PixelCount(buf []byte) int {
	return len(buf) / ChannelsPerPixel
}

// channelOffset maps the k-th colour channel after base to a byte offset,
// skipping the fourth channel of every pixel.
func channelOffset(base, k int) int {
	return base + (k/ColorChannels)*ChannelsPerPixel + k%ColorChannels
}

// Capacity returns the number of payload bits buf can carry under profile.
// Both profiles store one bit per colour channel.
func Capacity(buf []byte, profile Profile) int {
	pixels := PixelCount(buf)
	if pixels <= HeaderPixels {
		return 0
	}
	return (pixels - HeaderPixels) * ColorChannels
}

// writeHeader stores length MSB first in the header region, always tri-level.
func writeHeader(buf []byte, length uint32) {
	for k, bit := range bitconv.Uint32ToBits(length) {
		i := channelOffset(0, k)
		buf[i] = Protected.set(buf[i], bit)
	}
}

// readHeader recovers the length prefix written by writeHeader.
func readHeader(buf []byte) (uint32, error) {
	if PixelCount(buf) < HeaderPixels {
		return 0, errShortBuffer
	}
	bits := make(bitconv.BitStream, HeaderBits)
	for k := range bits {
		bits[k] = Protected.get(buf[channelOffset(0, k)])
	}
	return bitconv.BitsToUint32(bits), nil
}

// validLength reads the header and checks it against the buffer's capacity.
func validLength(buf []byte) (int, error) {
	length, err := readHeader(buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	capacity := Capacity(buf, Protected)
	if length == 0 || uint64(length) > uint64(capacity) {
		return 0, fmt.Errorf("%w: length %d, capacity %d", ErrInvalidHeader, length, capacity)
	}
	return int(length), nil
}

// embedPayload writes bits after the header region using profile.
// The caller has checked bits against Capacity.
func embedPayload(buf []byte, bits bitconv.BitStream, profile Profile) {
	for k, bit := range bits {
		i := channelOffset(PayloadOffset, k)
		buf[i] = profile.set(buf[i], bit)
	}
}

// extractPayload reads n payload bits using profile.
func extractPayload(buf []byte, n int, profile Profile) bitconv.BitStream {
	bits := make(bitconv.BitStream, n)
	for k := range bits {
		bits[k] = profile.get(buf[channelOffset(PayloadOffset, k)])
	}
	return bits
}
