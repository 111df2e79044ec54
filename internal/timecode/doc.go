// Package timecode converts SMPTE timecode strings to and from frame numbers.
//
// Non-drop timecode (HH:MM:SS:FF) is supported for every rate returned by
// ParseRate. Drop-frame timecode (HH:MM:SS;FF) is accepted only for the
// 29.97 and 59.94 NTSC rates.
package timecode
