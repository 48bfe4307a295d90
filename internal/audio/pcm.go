// Package audio converts decoded audio into the 16 kHz mono PCM16 WAV the
// model expects.
package audio

import "time"

// TargetSampleRate is the rate every track is resampled to before upload.
const TargetSampleRate = 16000

// PCM holds interleaved float samples in [-1, 1].
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Chunk is a contiguous window of a track and its offset from the start.
type Chunk struct {
	Offset time.Duration
	PCM    PCM
}

// Frames returns the number of sample frames (samples per channel).
func (p PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Duration returns the playback length of the track.
func Duration(p PCM) time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(p.Frames()) * int64(time.Second) / int64(p.SampleRate))
}

// Downmix averages all channels of each frame into a single mono sample.
func Downmix(p PCM) PCM {
	if p.Channels <= 1 {
		return p
	}

	frames := p.Frames()
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < p.Channels; ch++ {
			sum += p.Samples[i*p.Channels+ch]
		}
		mono[i] = sum / float32(p.Channels)
	}

	return PCM{SampleRate: p.SampleRate, Channels: 1, Samples: mono}
}

// ToMono16k downmixes and resamples a track to TargetSampleRate mono.
func ToMono16k(p PCM) PCM {
	return Resample(Downmix(p), TargetSampleRate)
}

// Split cuts a track into windows of the given length. The last chunk may be
// shorter. A non-positive window returns the whole track as one chunk.
func Split(p PCM, window time.Duration) []Chunk {
	frames := p.Frames()
	perChunk := int(int64(window) * int64(p.SampleRate) / int64(time.Second))
	if window <= 0 || perChunk <= 0 || frames <= perChunk {
		return []Chunk{{Offset: 0, PCM: p}}
	}

	var chunks []Chunk
	for start := 0; start < frames; start += perChunk {
		end := start + perChunk
		if end > frames {
			end = frames
		}
		chunks = append(chunks, Chunk{
			Offset: time.Duration(int64(start) * int64(time.Second) / int64(p.SampleRate)),
			PCM: PCM{
				SampleRate: p.SampleRate,
				Channels:   p.Channels,
				Samples:    p.Samples[start*p.Channels : end*p.Channels],
			},
		})
	}

	return chunks
}
