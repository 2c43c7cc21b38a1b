// Package collab implements the external collaborator contracts of
// spec §6.1: the HTTP client, the GPU decode/destroy/draw primitives,
// and the disk/clock primitives. Everything else in this module treats
// these as narrow interfaces so the engine logic stays independent of
// ebiten and the network.
package collab

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is the GPU-resident handle for a decoded tile image. In this
// implementation it is exactly an *ebiten.Image (SPEC_FULL.md AMBIENT
// STACK): decode_texture, destroy_texture and draw_textured_quad are
// all expressed directly in terms of ebiten's API below.
type Texture = *ebiten.Image

// HTTPGetBinary implements http_get_binary(url) -> Bytes|Error: a
// blocking GET returning the full body on 2xx. Grounded on the
// teacher's downloadTileImage in map.go, minus the image decode (kept
// separate here as DecodeTexture per the spec's 6.1 contract split).
func HTTPGetBinary(client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// HTTPStatusError reports a non-2xx tile-server response.
type HTTPStatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *HTTPStatusError) Error() string {
	return "tile fetch " + e.URL + ": " + e.Status
}

// DecodeTexture implements decode_texture(bytes) -> Texture|Error: turns
// encoded PNG/JPEG bytes into a GPU-ready ebiten.Image. May fail on
// corrupt input, matching the "permanent decode failure" error kind of
// spec §7.
func DecodeTexture(data []byte) (Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

// DestroyTexture implements destroy_texture(Texture): releases GPU
// memory. Idempotent — calling Deallocate on an already-freed image is
// safe, and a nil texture is a no-op.
func DestroyTexture(t Texture) {
	if t == nil {
		return
	}
	t.Deallocate()
}

// DrawTexturedQuad implements draw_textured_quad(tex, src, dst, canvas, alpha):
// draws the src sub-rectangle (in source pixels) of tex scaled into the
// dst rectangle (in destination pixels) of screen.
func DrawTexturedQuad(screen *ebiten.Image, tex Texture, srcX, srcY, srcW, srcH float64, dstX, dstY, dstW, dstH float64, alpha float64) {
	if tex == nil {
		return
	}
	bounds := tex.Bounds()
	fullW, fullH := float64(bounds.Dx()), float64(bounds.Dy())
	if srcW <= 0 {
		srcW = fullW
	}
	if srcH <= 0 {
		srcH = fullH
	}

	sub := tex
	if srcX != 0 || srcY != 0 || srcW != fullW || srcH != fullH {
		rect := bounds
		rect.Min.X += int(srcX)
		rect.Min.Y += int(srcY)
		rect.Max.X = rect.Min.X + int(srcW)
		rect.Max.Y = rect.Min.Y + int(srcH)
		sub = tex.SubImage(rect).(*ebiten.Image)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dstW/srcW, dstH/srcH)
	op.GeoM.Translate(dstX, dstY)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(sub, op)
}

// TextureSize returns the pixel dimensions of a decoded texture, used by
// the renderer to convert sub-region fractions into source pixel rects
// for parent-fallback drawing.
func TextureSize(t Texture) (w, h int) {
	if t == nil {
		return 0, 0
	}
	b := t.Bounds()
	return b.Dx(), b.Dy()
}

// FileExists implements file_exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile implements read_file.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile implements write_file, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DeleteFile implements delete_file. Missing files are not an error —
// eviction deletes are fire-and-forget per spec §4.F step 5.
func DeleteFile(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// NowMS implements now_ms: a monotonic millisecond clock used for LRU
// timestamps in the disk cache index (the in-memory tile cache uses the
// orchestrator's frame counter τ instead, per spec §4.C). Values count
// milliseconds since the process started, read from Go's monotonic clock.
func NowMS() uint64 {
	return uint64(time.Since(clockStart).Milliseconds())
}

var clockStart = time.Now()
