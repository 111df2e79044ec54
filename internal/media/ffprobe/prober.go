package ffprobe

import (
	"context"
	"fmt"

	"ingest/internal/services"
	"ingest/internal/shots"
)

// Prober resolves clip bounds and start timecode with ffprobe.
type Prober struct {
	Binary string
}

// Probe returns the decodable frame range of path (first frame 0) and its
// embedded start timecode, if any.
func (p Prober) Probe(ctx context.Context, path string) (shots.ClipBounds, string, error) {
	result, err := Inspect(ctx, p.Binary, path)
	if err != nil {
		return shots.ClipBounds{}, "", services.Wrap(services.ErrExternalTool, "probe", "ffprobe", path, err)
	}
	frames := result.FrameCount()
	if frames <= 0 {
		return shots.ClipBounds{}, "", services.Wrap(services.ErrValidation, "probe", "frame count", fmt.Sprintf("%s reports no video frames", path), nil)
	}
	return shots.ClipBounds{First: 0, Last: frames - 1}, result.Timecode(), nil
}
