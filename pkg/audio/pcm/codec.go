// Package pcm converts single PCM samples and whole interleaved buffers
// between their wire representation and normalized floats in [-1, 1].
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
)

const (
	scaleS16 = 32768
	scaleS24 = 8388608
	scaleS32 = 2147483648
	scaleS64 = 9223372036854775808
)

// Decode returns the sample stored at the beginning of p normalized to [-1, 1].
//
// p must be at least f.Size() bytes long.
func Decode(f types.PCMFormat, p []byte) float64 {
	switch f {
	case types.PCMFormatU8:
		return (float64(p[0]) - 128) / 128
	case types.PCMFormatS16LE:
		return float64(int16(binary.LittleEndian.Uint16(p))) / scaleS16
	case types.PCMFormatS16BE:
		return float64(int16(binary.BigEndian.Uint16(p))) / scaleS16
	case types.PCMFormatS24LE:
		return float64(signExtend24(uint32(p[0])|uint32(p[1])<<8|uint32(p[2])<<16)) / scaleS24
	case types.PCMFormatS24BE:
		return float64(signExtend24(uint32(p[2])|uint32(p[1])<<8|uint32(p[0])<<16)) / scaleS24
	case types.PCMFormatS32LE:
		return float64(int32(binary.LittleEndian.Uint32(p))) / scaleS32
	case types.PCMFormatS32BE:
		return float64(int32(binary.BigEndian.Uint32(p))) / scaleS32
	case types.PCMFormatS64LE:
		return float64(int64(binary.LittleEndian.Uint64(p))) / scaleS64
	case types.PCMFormatS64BE:
		return float64(int64(binary.BigEndian.Uint64(p))) / scaleS64
	case types.PCMFormatFloat32LE:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
	case types.PCMFormatFloat32BE:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(p)))
	case types.PCMFormatFloat64LE:
		return math.Float64frombits(binary.LittleEndian.Uint64(p))
	case types.PCMFormatFloat64BE:
		return math.Float64frombits(binary.BigEndian.Uint64(p))
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}

// Encode stores v at the beginning of p. Integer formats are saturated
// instead of wrapping around when v is outside of [-1, 1).
func Encode(f types.PCMFormat, p []byte, v float64) {
	switch f {
	case types.PCMFormatU8:
		p[0] = byte(clamp(math.Round(v*128+128), 0, math.MaxUint8))
	case types.PCMFormatS16LE:
		binary.LittleEndian.PutUint16(p, uint16(int16(clamp(math.Round(v*scaleS16), math.MinInt16, math.MaxInt16))))
	case types.PCMFormatS16BE:
		binary.BigEndian.PutUint16(p, uint16(int16(clamp(math.Round(v*scaleS16), math.MinInt16, math.MaxInt16))))
	case types.PCMFormatS24LE:
		val := int32(clamp(math.Round(v*scaleS24), -scaleS24, scaleS24-1))
		p[0] = byte(val)
		p[1] = byte(val >> 8)
		p[2] = byte(val >> 16)
	case types.PCMFormatS24BE:
		val := int32(clamp(math.Round(v*scaleS24), -scaleS24, scaleS24-1))
		p[0] = byte(val >> 16)
		p[1] = byte(val >> 8)
		p[2] = byte(val)
	case types.PCMFormatS32LE:
		binary.LittleEndian.PutUint32(p, uint32(int32(clamp(math.Round(v*scaleS32), math.MinInt32, math.MaxInt32))))
	case types.PCMFormatS32BE:
		binary.BigEndian.PutUint32(p, uint32(int32(clamp(math.Round(v*scaleS32), math.MinInt32, math.MaxInt32))))
	case types.PCMFormatS64LE:
		binary.LittleEndian.PutUint64(p, uint64(saturateInt64(v)))
	case types.PCMFormatS64BE:
		binary.BigEndian.PutUint64(p, uint64(saturateInt64(v)))
	case types.PCMFormatFloat32LE:
		binary.LittleEndian.PutUint32(p, math.Float32bits(float32(v)))
	case types.PCMFormatFloat32BE:
		binary.BigEndian.PutUint32(p, math.Float32bits(float32(v)))
	case types.PCMFormatFloat64LE:
		binary.LittleEndian.PutUint64(p, math.Float64bits(v))
	case types.PCMFormatFloat64BE:
		binary.BigEndian.PutUint64(p, math.Float64bits(v))
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}

// DecodeFloat32 decodes mono samples of format f from src into dst.
func DecodeFloat32(f types.PCMFormat, dst []float32, src []byte) error {
	sampleSize := int(f.Size())
	if sampleSize == 0 {
		return fmt.Errorf("unknown format: %v", f)
	}
	if len(src)%sampleSize != 0 {
		return fmt.Errorf("the input length %d is not a multiple of the sample size %d", len(src), sampleSize)
	}
	if len(src)/sampleSize != len(dst) {
		return fmt.Errorf("the output has room for %d samples, but the input has %d", len(dst), len(src)/sampleSize)
	}
	for idx := range dst {
		dst[idx] = float32(Decode(f, src[idx*sampleSize:]))
	}
	return nil
}

// EncodeFloat32 is the reverse of DecodeFloat32.
func EncodeFloat32(f types.PCMFormat, dst []byte, src []float32) error {
	sampleSize := int(f.Size())
	if sampleSize == 0 {
		return fmt.Errorf("unknown format: %v", f)
	}
	if len(dst) != len(src)*sampleSize {
		return fmt.Errorf("the output length %d does not match %d samples of size %d", len(dst), len(src), sampleSize)
	}
	for idx, v := range src {
		Encode(f, dst[idx*sampleSize:], float64(v))
	}
	return nil
}

func signExtend24(v uint32) int32 {
	val := int32(v)
	if val&0x800000 != 0 {
		val |= -16777216
	}
	return val
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func saturateInt64(v float64) int64 {
	f := math.Round(v * scaleS64)
	switch {
	case f >= scaleS64:
		return math.MaxInt64
	case f <= -scaleS64:
		return math.MinInt64
	}
	return int64(f)
}

// ToInt16 converts a normalized sample to int16 with saturation.
func ToInt16(v float32) int16 {
	return int16(clamp(math.Round(float64(v)*scaleS16), math.MinInt16, math.MaxInt16))
}
