// Package screenshot turns raw capture bytes into payloads that fit through
// the LLM content channel. Both constraints matter: a high-resolution
// capture can blow the byte budget even after dimension capping, and a noisy
// low-resolution one can still fail at moderate JPEG quality.
package screenshot

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // capture collaborators hand the compressor PNG bytes
	"math"

	"github.com/disintegration/imaging"

	"github.com/mj1618/device-cli/internal/logging"
)

const (
	// MIMEJPEG and MIMEPNG are the two encodings the compressor emits.
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"

	qualityStep  = 15
	qualityFloor = 20
	// maxEncodeAttempts counts the initial encode plus quality-reduction
	// retries; the terminal geometric shrink happens after these.
	maxEncodeAttempts = 5
	// terminalQuality and shrinkMargin govern the final best-effort step.
	// The 0.9 margin compensates for encoder size variance.
	terminalQuality = 50
	shrinkMargin    = 0.9
)

// Options configures one compression pass. All fields have defaults; a zero
// MaxSizeBytes disables the bounded-size loop and performs a single
// resize+encode pass.
type Options struct {
	MaxWidth     int
	MaxHeight    int
	Quality      int
	MaxSizeBytes int
}

// DefaultOptions is the canonical bounded budget: 800x1400, quality 70,
// 1 MiB ceiling.
func DefaultOptions() Options {
	return Options{MaxWidth: 800, MaxHeight: 1400, Quality: 70, MaxSizeBytes: 1 << 20}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = d.MaxHeight
	}
	if o.Quality < 1 || o.Quality > 100 {
		o.Quality = d.Quality
	}
	if o.MaxSizeBytes < 0 {
		o.MaxSizeBytes = 0
	}
	return o
}

// Result is an encoded screenshot payload. Width and Height are logical
// (DPI-independent) units. Oversize is set when the terminal best-effort
// step still exceeded the byte budget, so callers can detect a blown budget
// without re-measuring.
type Result struct {
	Data        []byte  `json:"-"`
	MIMEType    string  `json:"mimeType"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ScaleFactor float64 `json:"scaleFactor"`
	Oversize    bool    `json:"oversize,omitempty"`
}

// Uncompressed wraps raw capture bytes as a pass-through PNG result.
func Uncompressed(raw []byte, width, height int, scale float64) *Result {
	if scale <= 0 {
		scale = 1
	}
	return &Result{Data: raw, MIMEType: MIMEPNG, Width: width, Height: height, ScaleFactor: scale}
}

// Compress resizes and re-encodes raw capture bytes to fit the configured
// dimension and byte budgets. It never fails hard: when the input cannot be
// decoded or JPEG encoding errors, the original bytes come back unchanged
// with the lossless mime type and the condition is logged.
//
// With a byte budget, encoding retries at quality-15 steps (floor 20, at
// most 5 encodes), then performs one final geometric shrink scaled by
// sqrt(budget/lastSize)*0.9 at fixed quality 50. That terminal result is
// returned even if still over budget, so the whole pipeline always
// terminates within a fixed number of steps.
func Compress(raw []byte, opts Options) *Result {
	log := logging.Component("screenshot")
	opts = opts.withDefaults()

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Warn().Err(err).Msg("decode failed, returning original bytes")
		return Uncompressed(raw, 0, 0, 1)
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	targetW, targetH := fitDimensions(srcW, srcH, opts.MaxWidth, opts.MaxHeight)
	if targetW != srcW || targetH != srcH {
		img = imaging.Resize(img, targetW, targetH, imaging.Lanczos)
	}

	quality := opts.Quality
	data, err := encodeJPEG(img, quality)
	if err != nil {
		log.Warn().Err(err).Msg("jpeg encode failed, returning original bytes")
		return Uncompressed(raw, srcW, srcH, 1)
	}

	if opts.MaxSizeBytes == 0 || len(data) <= opts.MaxSizeBytes {
		return &Result{Data: data, MIMEType: MIMEJPEG, Width: targetW, Height: targetH, ScaleFactor: 1}
	}

	for attempt := 1; attempt < maxEncodeAttempts && len(data) > opts.MaxSizeBytes; attempt++ {
		quality -= qualityStep
		if quality < qualityFloor {
			quality = qualityFloor
		}
		data, err = encodeJPEG(img, quality)
		if err != nil {
			log.Warn().Err(err).Msg("jpeg encode failed, returning original bytes")
			return Uncompressed(raw, srcW, srcH, 1)
		}
		log.Debug().Int("attempt", attempt+1).Int("quality", quality).
			Int("bytes", len(data)).Msg("retrying under byte budget")
	}

	if len(data) <= opts.MaxSizeBytes {
		return &Result{Data: data, MIMEType: MIMEJPEG, Width: targetW, Height: targetH, ScaleFactor: 1}
	}

	// Quality reduction exhausted: one geometric shrink, then stop.
	shrink := math.Sqrt(float64(opts.MaxSizeBytes)/float64(len(data))) * shrinkMargin
	finalW := int(math.Round(float64(targetW) * shrink))
	finalH := int(math.Round(float64(targetH) * shrink))
	if finalW < 1 {
		finalW = 1
	}
	if finalH < 1 {
		finalH = 1
	}
	img = imaging.Resize(img, finalW, finalH, imaging.Lanczos)
	data, err = encodeJPEG(img, terminalQuality)
	if err != nil {
		log.Warn().Err(err).Msg("jpeg encode failed, returning original bytes")
		return Uncompressed(raw, srcW, srcH, 1)
	}

	oversize := len(data) > opts.MaxSizeBytes
	if oversize {
		log.Warn().Int("bytes", len(data)).Int("budget", opts.MaxSizeBytes).
			Msg("best-effort result still exceeds byte budget")
	}
	return &Result{Data: data, MIMEType: MIMEJPEG, Width: finalW, Height: finalH, ScaleFactor: 1, Oversize: oversize}
}

// fitDimensions scales (w, h) down to fit within (maxW, maxH) preserving
// aspect ratio, rounding to the nearest pixel. Images already within bounds
// keep their dimensions.
func fitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	tw := int(math.Round(float64(w) * scale))
	th := int(math.Round(float64(h) * scale))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
