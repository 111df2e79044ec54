package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid marks malformed timecode or rate strings.
var ErrInvalid = errors.New("invalid timecode")

// Rate describes a supported frame rate.
type Rate struct {
	Name string
	// Base is the nominal integer frame count per timecode second.
	Base int
	// DropFrames is the number of frame numbers skipped each minute when
	// drop-frame counting applies (zero when it never does).
	DropFrames int
}

var rates = map[string]Rate{
	"23.976": {Name: "23.976", Base: 24},
	"23.98":  {Name: "23.98", Base: 24},
	"24":     {Name: "24", Base: 24},
	"25":     {Name: "25", Base: 25},
	"29.97":  {Name: "29.97", Base: 30, DropFrames: 2},
	"30":     {Name: "30", Base: 30},
	"48":     {Name: "48", Base: 48},
	"50":     {Name: "50", Base: 50},
	"59.94":  {Name: "59.94", Base: 60, DropFrames: 4},
	"60":     {Name: "60", Base: 60},
}

// Rates lists the supported rate names in ascending order.
func Rates() []string {
	return []string{"23.976", "23.98", "24", "25", "29.97", "30", "48", "50", "59.94", "60"}
}

// ParseRate resolves a rate name such as "24" or "29.97".
func ParseRate(value string) (Rate, error) {
	name := strings.TrimSpace(value)
	if strings.HasSuffix(name, ".0") {
		name = strings.TrimSuffix(name, ".0")
	}
	rate, ok := rates[name]
	if !ok {
		return Rate{}, fmt.Errorf("%w: unsupported frame rate %q (supported: %s)", ErrInvalid, value, strings.Join(Rates(), ", "))
	}
	return rate, nil
}

// Parse converts a timecode string to a zero-based frame number at the named rate.
func Parse(tc, rate string) (int, error) {
	r, err := ParseRate(rate)
	if err != nil {
		return 0, err
	}
	return r.Frames(tc)
}

// Frames converts a timecode string to a zero-based frame number. A ';' or
// ',' separator selects drop-frame counting.
func (r Rate) Frames(tc string) (int, error) {
	return r.FramesDrop(tc, false)
}

// FramesDrop is Frames with drop-frame counting forced on when drop is set,
// as for an EDL declaring "FCM: DROP FRAME" with colon-separated timecodes.
func (r Rate) FramesDrop(tc string, drop bool) (int, error) {
	value := strings.TrimSpace(tc)
	drop = drop || strings.ContainsAny(value, ";,")
	fields := strings.FieldsFunc(value, func(c rune) bool {
		return c == ':' || c == ';' || c == ',' || c == '.'
	})
	if len(fields) != 4 {
		return 0, fmt.Errorf("%w: %q is not HH:MM:SS:FF", ErrInvalid, tc)
	}
	parts := make([]int, 4)
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q has a non-numeric field", ErrInvalid, tc)
		}
		parts[i] = n
	}
	hh, mm, ss, ff := parts[0], parts[1], parts[2], parts[3]
	if mm > 59 || ss > 59 || ff >= r.Base {
		return 0, fmt.Errorf("%w: %q out of range for %s fps", ErrInvalid, tc, r.Name)
	}

	frames := (hh*3600+mm*60+ss)*r.Base + ff
	if !drop {
		return frames, nil
	}
	if r.DropFrames == 0 {
		return 0, fmt.Errorf("%w: drop-frame timecode %q requires 29.97 or 59.94 fps, got %s", ErrInvalid, tc, r.Name)
	}
	if ss == 0 && mm%10 != 0 && ff < r.DropFrames {
		return 0, fmt.Errorf("%w: frame %q does not exist in drop-frame counting", ErrInvalid, tc)
	}
	totalMinutes := hh*60 + mm
	return frames - r.DropFrames*(totalMinutes-totalMinutes/10), nil
}

// Format renders a frame number as non-drop timecode.
func (r Rate) Format(frames int) string {
	sign := ""
	if frames < 0 {
		sign = "-"
		frames = -frames
	}
	ff := frames % r.Base
	totalSeconds := frames / r.Base
	ss := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	mm := totalMinutes % 60
	hh := totalMinutes / 60
	return fmt.Sprintf("%s%02d:%02d:%02d:%02d", sign, hh, mm, ss, ff)
}
