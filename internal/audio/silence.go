package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

type SilenceMetrics struct {
	RMSdBFS  float64
	PeakdBFS float64
	Samples  int64
}

// IsSilentWAV reports whether the WAV file carries no usable signal. Both the
// RMS level and the peak (with 6 dB of headroom) must sit below the threshold
// so a short click does not defeat the gate.
func IsSilentWAV(path string, thresholdDBFS float64) (bool, SilenceMetrics, error) {
	metrics, err := analyzeWAV(path)
	if err != nil {
		return false, SilenceMetrics{}, err
	}

	if metrics.Samples == 0 {
		return true, metrics, nil
	}

	peakGate := thresholdDBFS + 6
	return metrics.RMSdBFS <= thresholdDBFS && metrics.PeakdBFS <= peakGate, metrics, nil
}

func analyzeWAV(path string) (SilenceMetrics, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SilenceMetrics{}, fmt.Errorf("read wav: %w", err)
	}

	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return SilenceMetrics{}, ErrInvalidWAV
	}

	var (
		format uint16
		bits   uint16
		data   []byte
		hasFmt bool
	)

	offset := 12
	for offset+8 <= len(raw) {
		chunkID := string(raw[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(raw[offset+4 : offset+8]))
		offset += 8

		if size < 0 || offset+size > len(raw) {
			// Truncated final chunk; take what is there.
			size = len(raw) - offset
		}
		body := raw[offset : offset+size]

		switch chunkID {
		case "fmt ":
			if len(body) < 16 {
				return SilenceMetrics{}, ErrInvalidWAV
			}
			format = binary.LittleEndian.Uint16(body[0:2])
			bits = binary.LittleEndian.Uint16(body[14:16])
			hasFmt = true
		case "data":
			data = body
		}

		offset += size
		if size%2 != 0 {
			offset++
		}
	}

	if !hasFmt || data == nil {
		return SilenceMetrics{}, ErrInvalidWAV
	}

	decode, sampleBytes, err := sampleDecoder(format, bits)
	if err != nil {
		return SilenceMetrics{}, err
	}

	var peak, sumSquares float64
	var samples int64
	for i := 0; i+sampleBytes <= len(data); i += sampleBytes {
		value := decode(data[i : i+sampleBytes])
		if abs := math.Abs(value); abs > peak {
			peak = abs
		}
		sumSquares += value * value
		samples++
	}

	if samples == 0 {
		return SilenceMetrics{RMSdBFS: math.Inf(-1), PeakdBFS: math.Inf(-1)}, nil
	}

	rms := math.Sqrt(sumSquares / float64(samples))
	return SilenceMetrics{
		RMSdBFS:  amplitudeToDBFS(rms),
		PeakdBFS: amplitudeToDBFS(peak),
		Samples:  samples,
	}, nil
}

// sampleDecoder covers the encodings our pipelines produce: 8/16-bit integer
// PCM and 32-bit float.
func sampleDecoder(format, bits uint16) (func([]byte) float64, int, error) {
	switch {
	case format == 1 && bits == 8:
		return func(b []byte) float64 {
			return (float64(b[0]) - 128.0) / 128.0
		}, 1, nil
	case format == 1 && bits == 16:
		return func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
		}, 2, nil
	case format == 3 && bits == 32:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, 4, nil
	default:
		return nil, 0, ErrUnsupportedWAV
	}
}

func amplitudeToDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(amplitude)
}
