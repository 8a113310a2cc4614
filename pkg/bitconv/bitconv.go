// Package bitconv converts text payloads to and from MSB-first bit sequences.
//
// Text is treated as a byte payload: every byte of the string becomes eight
// bits, so any Go string (including multi-byte UTF-8) survives a round trip
// byte for byte.
package bitconv

import (
	"github.com/yyyoichi/bitstream-go"
)

// BitsPerByte is the fixed width of one text byte in a BitStream.
const BitsPerByte = 8

// BitStream is an ordered sequence of single bits.
type BitStream []bool

// Ones returns the number of set bits.
func (b BitStream) Ones() int {
	n := 0
	for _, v := range b {
		if v {
			n++
		}
	}
	return n
}

// TextToBits encodes every byte of text as 8 bits, most significant bit first.
func TextToBits(text string) BitStream {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i := 0; i < len(text); i++ {
		w.Write8(0, BitsPerByte, text[i])
	}

	r := bitstream.NewBitReader(w.Data(), 0, 0)
	r.SetBits(w.Bits())

	bits := make(BitStream, len(text)*BitsPerByte)
	for i := range bits {
		bits[i], _ = r.ReadBitAt(i)
	}
	return bits
}

// BitsToText groups bits into bytes, most significant bit first.
// A trailing group shorter than 8 bits is discarded.
func BitsToText(bits BitStream) string {
	n := len(bits) / BitsPerByte
	out := make([]byte, n)
	for i := range out {
		var v byte
		for j := 0; j < BitsPerByte; j++ {
			if bits[i*BitsPerByte+j] {
				v |= 1 << uint(BitsPerByte-1-j)
			}
		}
		out[i] = v
	}
	return string(out)
}

// Uint32ToBits returns the 32 bits of v, most significant bit first.
func Uint32ToBits(v uint32) BitStream {
	bits := make(BitStream, 32)
	for i := range bits {
		bits[i] = (v>>uint(31-i))&1 == 1
	}
	return bits
}

// BitsToUint32 assembles up to 32 bits, most significant bit first.
func BitsToUint32(bits BitStream) uint32 {
	var v uint32
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}
