package audio

// Resample converts a track to the given sample rate using linear
// interpolation between neighbouring frames, channel by channel.
func Resample(p PCM, rate int) PCM {
	if rate <= 0 || p.SampleRate <= 0 || p.SampleRate == rate {
		return p
	}

	channels := p.Channels
	if channels <= 0 {
		channels = 1
	}
	frames := len(p.Samples) / channels
	outFrames := int(int64(frames) * int64(rate) / int64(p.SampleRate))
	out := make([]float32, outFrames*channels)

	ratio := float64(p.SampleRate) / float64(rate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))

		next := idx + 1
		if next >= frames {
			next = frames - 1
		}
		for ch := 0; ch < channels; ch++ {
			a := p.Samples[idx*channels+ch]
			b := p.Samples[next*channels+ch]
			out[i*channels+ch] = a + (b-a)*frac
		}
	}

	return PCM{SampleRate: rate, Channels: channels, Samples: out}
}

// monoResampler applies the same interpolation as Resample to a stream of
// mono frames, so a track never has to be held at its source rate.
type monoResampler struct {
	from, to int
	ratio    float64
	seen     int
	last     float32
	next     int
	out      []float32
}

func newMonoResampler(from, to, frameHint int) *monoResampler {
	r := &monoResampler{from: from, to: to, ratio: float64(from) / float64(to)}
	if frameHint > 0 {
		r.out = make([]float32, 0, int(int64(frameHint)*int64(to)/int64(from))+1)
	}
	return r
}

func (r *monoResampler) push(x float32) {
	if r.seen > 0 {
		// every output frame between the previous input frame and this one
		for {
			pos := float64(r.next) * r.ratio
			idx := int(pos)
			if idx != r.seen-1 {
				break
			}
			frac := float32(pos - float64(idx))
			r.out = append(r.out, r.last+(x-r.last)*frac)
			r.next++
		}
	}
	r.last = x
	r.seen++
}

// finish pads the tail with the last frame, as Resample clamps there, and
// trims to the frame count Resample would produce.
func (r *monoResampler) finish() []float32 {
	outFrames := int(int64(r.seen) * int64(r.to) / int64(r.from))
	for len(r.out) < outFrames {
		r.out = append(r.out, r.last)
	}
	return r.out[:outFrames]
}
