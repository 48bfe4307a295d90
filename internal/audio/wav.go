package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth      = 16
	pcmFormatCode = 1
)

// ErrInvalidWAV is returned when the input is not a readable PCM WAV file.
var ErrInvalidWAV = errors.New("invalid WAV file")

// EncodeWAV writes the track as a 16-bit little-endian PCM WAV file.
func EncodeWAV(w io.WriteSeeker, p PCM) error {
	channels := p.Channels
	if channels <= 0 {
		channels = 1
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("encode wav: invalid sample rate %d", p.SampleRate)
	}

	data := make([]int, len(p.Samples))
	for i, s := range p.Samples {
		data[i] = floatToPCM16(s)
	}

	enc := wav.NewEncoder(w, p.SampleRate, bitDepth, channels, pcmFormatCode)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: p.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// WAVBytes encodes the track into an in-memory WAV file.
func WAVBytes(p PCM) ([]byte, error) {
	ws := &writeSeeker{}
	if err := EncodeWAV(ws, p); err != nil {
		return nil, err
	}
	return ws.Bytes(), nil
}

// Base64WAV encodes the track as a WAV file and returns it base64-encoded.
func Base64WAV(p PCM) (string, error) {
	data, err := WAVBytes(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// decodeBlockFrames is how many frames are read from the decoder per call.
const decodeBlockFrames = 8192

// maxPreallocSamples caps the up-front allocation taken from the data chunk
// size, which can be bogus in streamed files.
const maxPreallocSamples = 1 << 26

// WAVInfo describes the PCM layout of a decoded file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	// Frames is the frame count announced by the data chunk header.
	Frames int
}

// streamWAV decodes the PCM data in fixed-size blocks and hands each block
// of interleaved float samples to fn. The block slice is reused between
// calls.
func streamWAV(r io.ReadSeeker, fn func(info WAVInfo, block []float32)) (WAVInfo, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return WAVInfo{}, ErrInvalidWAV
	}
	if err := dec.FwdToPCM(); err != nil {
		return WAVInfo{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}

	info := WAVInfo{SampleRate: int(dec.SampleRate), Channels: int(dec.NumChans)}
	if info.SampleRate <= 0 || info.Channels <= 0 {
		return WAVInfo{}, ErrInvalidWAV
	}

	depth := int(dec.BitDepth)
	var offset, scale float32
	switch depth {
	case 8:
		// 8-bit WAV is unsigned
		offset, scale = 128, 128
	case 16, 24, 32:
		scale = float32(math.Pow(2, float64(depth-1)))
	default:
		return WAVInfo{}, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, depth)
	}
	if dec.PCMSize > 0 {
		info.Frames = dec.PCMSize / (depth / 8 * info.Channels)
	}

	data := make([]int, decodeBlockFrames*info.Channels)
	buf := &goaudio.IntBuffer{Data: data}
	block := make([]float32, len(data))
	for {
		buf.Data = data
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			for i, v := range data[:n] {
				block[i] = (float32(v) - offset) / scale
			}
			fn(info, block[:n])
		}
		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			return info, nil
		}
		if err != nil {
			return WAVInfo{}, fmt.Errorf("read pcm: %w", err)
		}
	}
}

// DecodeWAV reads a PCM WAV file into float samples.
func DecodeWAV(r io.ReadSeeker) (PCM, error) {
	var samples []float32
	info, err := streamWAV(r, func(info WAVInfo, block []float32) {
		if samples == nil {
			samples = make([]float32, 0, min(info.Frames*info.Channels, maxPreallocSamples))
		}
		samples = append(samples, block...)
	})
	if err != nil {
		return PCM{}, err
	}
	return PCM{SampleRate: info.SampleRate, Channels: info.Channels, Samples: samples}, nil
}

// DecodeWAVMono16k decodes a PCM WAV file straight to TargetSampleRate mono.
// Channels are averaged and frames resampled block by block, so only the
// converted track is held in memory. The result matches
// ToMono16k(DecodeWAV(r)).
func DecodeWAVMono16k(r io.ReadSeeker) (PCM, WAVInfo, error) {
	var rs *monoResampler
	info, err := streamWAV(r, func(info WAVInfo, block []float32) {
		if rs == nil {
			rs = newMonoResampler(info.SampleRate, TargetSampleRate, min(info.Frames, maxPreallocSamples))
		}
		ch := info.Channels
		for i := 0; i+ch <= len(block); i += ch {
			var sum float32
			for c := 0; c < ch; c++ {
				sum += block[i+c]
			}
			if ch > 1 {
				sum /= float32(ch)
			}
			rs.push(sum)
		}
	})
	if err != nil {
		return PCM{}, WAVInfo{}, err
	}

	out := PCM{SampleRate: TargetSampleRate, Channels: 1}
	if rs != nil {
		out.Samples = rs.finish()
	}
	return out, info, nil
}

func floatToPCM16(s float32) int {
	switch {
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	if s < 0 {
		return int(math.Round(float64(s) * 32768))
	}
	return int(math.Round(float64(s) * 32767))
}
