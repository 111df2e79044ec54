// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual video/audio/data stream properties
//   - Format: container-level metadata (duration, size, tags)
//   - Prober: resolves the decodable frame range and start timecode of a clip
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
