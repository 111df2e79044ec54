// Package edl reads CMX3600 edit decision lists and turns their events into
// session footage and shots.
//
// Each event's reel name is matched against file names below a footage base
// directory (`<reel>.*`). The matching clip is imported into the session once,
// and every event becomes a shot numbered event × multiplier whose source
// in/out timecodes are rebased onto the clip's own start timecode.
package edl
