package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestDownmix(t *testing.T) {
	stereo := PCM{SampleRate: 44100, Channels: 2, Samples: []float32{1, 0, 0.5, 0.5, -1, 1, 0.25}}

	mono := Downmix(stereo)
	if mono.Channels != 1 {
		t.Fatalf("Channels = %d, want 1", mono.Channels)
	}
	want := []float32{0.5, 0.5, 0}
	if len(mono.Samples) != len(want) {
		t.Fatalf("len = %d, want %d (trailing partial frame dropped)", len(mono.Samples), len(want))
	}
	for i := range want {
		if !approx(mono.Samples[i], want[i]) {
			t.Errorf("sample %d = %v, want %v", i, mono.Samples[i], want[i])
		}
	}

	already := PCM{SampleRate: 8000, Channels: 1, Samples: []float32{0.1}}
	if got := Downmix(already); &got.Samples[0] != &already.Samples[0] {
		t.Error("mono input should be returned unchanged")
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name     string
		in       PCM
		rate     int
		wantLen  int
		wantRate int
	}{
		{"downsample 48k", PCM{SampleRate: 48000, Channels: 1, Samples: make([]float32, 48000)}, 16000, 16000, 16000},
		{"downsample 44.1k", PCM{SampleRate: 44100, Channels: 1, Samples: make([]float32, 4410)}, 16000, 1600, 16000},
		{"upsample 8k", PCM{SampleRate: 8000, Channels: 1, Samples: make([]float32, 800)}, 16000, 1600, 16000},
		{"same rate", PCM{SampleRate: 16000, Channels: 1, Samples: make([]float32, 10)}, 16000, 10, 16000},
		{"empty", PCM{SampleRate: 48000, Channels: 1}, 16000, 0, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.in, tt.rate)
			if len(got.Samples) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got.Samples), tt.wantLen)
			}
			if got.SampleRate != tt.wantRate {
				t.Errorf("SampleRate = %d, want %d", got.SampleRate, tt.wantRate)
			}
		})
	}
}

func TestResampleInterpolates(t *testing.T) {
	in := PCM{SampleRate: 8000, Channels: 1, Samples: []float32{0, 1, 0, -1}}

	got := Resample(in, 16000)
	want := []float32{0, 0.5, 1, 0.5, 0, -0.5, -1, -1}
	if len(got.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(got.Samples), len(want))
	}
	for i := range want {
		if !approx(got.Samples[i], want[i]) {
			t.Errorf("sample %d = %v, want %v", i, got.Samples[i], want[i])
		}
	}
}

func TestToMono16k(t *testing.T) {
	in := PCM{SampleRate: 48000, Channels: 2, Samples: make([]float32, 2*48000)}

	out := ToMono16k(in)
	if out.Channels != 1 || out.SampleRate != TargetSampleRate {
		t.Fatalf("got %d ch @ %d Hz, want mono @ 16000", out.Channels, out.SampleRate)
	}
	if Duration(out) != time.Second {
		t.Errorf("Duration = %v, want 1s", Duration(out))
	}
}

func TestSplit(t *testing.T) {
	p := PCM{SampleRate: 10, Channels: 1, Samples: make([]float32, 25)}

	chunks := Split(p, time.Second)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	wantOffsets := []time.Duration{0, time.Second, 2 * time.Second}
	wantLens := []int{10, 10, 5}
	for i, c := range chunks {
		if c.Offset != wantOffsets[i] {
			t.Errorf("chunk %d offset = %v, want %v", i, c.Offset, wantOffsets[i])
		}
		if len(c.PCM.Samples) != wantLens[i] {
			t.Errorf("chunk %d len = %d, want %d", i, len(c.PCM.Samples), wantLens[i])
		}
	}

	if got := Split(p, 0); len(got) != 1 {
		t.Errorf("Split(0) = %d chunks, want 1", len(got))
	}
	if got := Split(p, time.Minute); len(got) != 1 {
		t.Errorf("Split(longer than track) = %d chunks, want 1", len(got))
	}
}

func TestWAVHeader(t *testing.T) {
	p := PCM{SampleRate: TargetSampleRate, Channels: 1, Samples: []float32{0, 0.5, -0.5, 1}}

	data, err := WAVBytes(p)
	if err != nil {
		t.Fatalf("WAVBytes() error = %v", err)
	}
	if len(data) != 44+2*len(p.Samples) {
		t.Fatalf("len = %d, want %d", len(data), 44+2*len(p.Samples))
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"riff", string(data[0:4]), "RIFF"},
		{"riff size", le.Uint32(data[4:8]), uint32(36 + 2*len(p.Samples))},
		{"wave", string(data[8:12]), "WAVE"},
		{"fmt", string(data[12:16]), "fmt "},
		{"fmt size", le.Uint32(data[16:20]), uint32(16)},
		{"format", le.Uint16(data[20:22]), uint16(1)},
		{"channels", le.Uint16(data[22:24]), uint16(1)},
		{"sample rate", le.Uint32(data[24:28]), uint32(16000)},
		{"byte rate", le.Uint32(data[28:32]), uint32(32000)},
		{"block align", le.Uint16(data[32:34]), uint16(2)},
		{"bits", le.Uint16(data[34:36]), uint16(16)},
		{"data", string(data[36:40]), "data"},
		{"data size", le.Uint32(data[40:44]), uint32(2 * len(p.Samples))},
		{"max sample", int16(le.Uint16(data[50:52])), int16(32767)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestDecodeWAV(t *testing.T) {
	in := PCM{SampleRate: 22050, Channels: 2, Samples: []float32{0, 0.5, -0.5, -1, 2, -2}}

	data, err := WAVBytes(in)
	if err != nil {
		t.Fatalf("WAVBytes() error = %v", err)
	}

	out, err := DecodeWAV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if out.SampleRate != 22050 || out.Channels != 2 {
		t.Fatalf("format = %d Hz %d ch, want 22050 Hz 2 ch", out.SampleRate, out.Channels)
	}
	// out-of-range input is clamped on encode
	want := []float32{0, 0.5, -0.5, -1, 32767.0 / 32768.0, -1}
	for i := range want {
		if !approx(out.Samples[i], want[i]) {
			t.Errorf("sample %d = %v, want %v", i, out.Samples[i], want[i])
		}
	}
}

func TestDecodeWAVInvalid(t *testing.T) {
	_, err := DecodeWAV(bytes.NewReader([]byte("definitely not a wav file at all")))
	if !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("DecodeWAV() error = %v, want ErrInvalidWAV", err)
	}
}

func TestDecodeWAVSpansBlocks(t *testing.T) {
	frames := 2*decodeBlockFrames + 100
	in := PCM{SampleRate: 44100, Channels: 2, Samples: make([]float32, 2*frames)}
	for i := range in.Samples {
		in.Samples[i] = float32(i%200-100) / 128
	}

	data, err := WAVBytes(in)
	if err != nil {
		t.Fatalf("WAVBytes() error = %v", err)
	}
	out, err := DecodeWAV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if len(out.Samples) != len(in.Samples) {
		t.Fatalf("len = %d, want %d", len(out.Samples), len(in.Samples))
	}
	for i := range in.Samples {
		if !approx(out.Samples[i], in.Samples[i]) {
			t.Fatalf("sample %d = %v, want %v", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestDecodeWAVMono16k(t *testing.T) {
	tests := []struct {
		name     string
		rate     int
		channels int
		frames   int
	}{
		{"44.1k stereo over several blocks", 44100, 2, 3*decodeBlockFrames + 7},
		{"48k stereo", 48000, 2, 4800},
		{"8k mono upsample", 8000, 1, 1001},
		{"16k stereo same rate", 16000, 2, 1600},
		{"single frame", 22050, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := PCM{SampleRate: tt.rate, Channels: tt.channels, Samples: make([]float32, tt.frames*tt.channels)}
			for i := range in.Samples {
				in.Samples[i] = float32(math.Sin(float64(i) / 7))
			}
			data, err := WAVBytes(in)
			if err != nil {
				t.Fatalf("WAVBytes() error = %v", err)
			}

			full, err := DecodeWAV(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeWAV() error = %v", err)
			}
			want := ToMono16k(full)

			got, info, err := DecodeWAVMono16k(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeWAVMono16k() error = %v", err)
			}
			if info.SampleRate != tt.rate || info.Channels != tt.channels {
				t.Errorf("info = %+v, want %d Hz %d ch", info, tt.rate, tt.channels)
			}
			if got.SampleRate != TargetSampleRate || got.Channels != 1 {
				t.Fatalf("got %d ch @ %d Hz, want mono @ 16000", got.Channels, got.SampleRate)
			}
			if len(got.Samples) != len(want.Samples) {
				t.Fatalf("len = %d, want %d", len(got.Samples), len(want.Samples))
			}
			for i := range want.Samples {
				if !approx(got.Samples[i], want.Samples[i]) {
					t.Fatalf("sample %d = %v, want %v", i, got.Samples[i], want.Samples[i])
				}
			}
		})
	}
}

func TestDecodeWAVMono16kInvalid(t *testing.T) {
	_, _, err := DecodeWAVMono16k(bytes.NewReader([]byte("definitely not a wav file at all")))
	if !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("DecodeWAVMono16k() error = %v, want ErrInvalidWAV", err)
	}
}

func TestBase64WAV(t *testing.T) {
	encoded, err := Base64WAV(PCM{SampleRate: TargetSampleRate, Channels: 1, Samples: []float32{0}})
	if err != nil {
		t.Fatalf("Base64WAV() error = %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("not valid base64: %v", err)
	}
	if string(raw[:4]) != "RIFF" || len(raw) != 46 {
		t.Errorf("decoded payload = %q... (%d bytes), want RIFF header and 46 bytes", raw[:4], len(raw))
	}
}

func TestEncodeWAVInvalidRate(t *testing.T) {
	if _, err := WAVBytes(PCM{Channels: 1, Samples: []float32{0}}); err == nil {
		t.Error("WAVBytes() should reject a zero sample rate")
	}
}
