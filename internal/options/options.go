package options

import (
	"fmt"
	"slices"
	"strings"

	"ingest/internal/services"
)

// DownscaleFactors are the selectable primary downscale factors.
var DownscaleFactors = []float64{0.75, 0.66, 0.5, 0.33, 0.25}

// ProxyScales are the selectable proxy scale factors.
var ProxyScales = []float64{1.0, 0.75, 0.5, 0.25}

// ProxyFormat identifies a proxy image format.
type ProxyFormat string

const (
	ProxyJPEG  ProxyFormat = "jpeg"
	ProxyPNG   ProxyFormat = "png"
	ProxyTarga ProxyFormat = "targa"
	ProxyTIFF  ProxyFormat = "tiff"
)

// ProxyFormats lists the selectable proxy formats in menu order.
var ProxyFormats = []ProxyFormat{ProxyJPEG, ProxyPNG, ProxyTarga, ProxyTIFF}

// Extension returns the file extension written for the format.
func (f ProxyFormat) Extension() string {
	if f == ProxyTarga {
		return "tga"
	}
	return string(f)
}

// Valid reports whether f is one of ProxyFormats.
func (f ProxyFormat) Valid() bool {
	return slices.Contains(ProxyFormats, f)
}

// ParseProxyFormat accepts a format name or its extension, case-insensitively.
func ParseProxyFormat(value string) (ProxyFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jpeg", "jpg":
		return ProxyJPEG, nil
	case "png":
		return ProxyPNG, nil
	case "targa", "tga":
		return ProxyTarga, nil
	case "tiff", "tif":
		return ProxyTIFF, nil
	}
	return "", services.Wrap(services.ErrValidation, "options", "proxy format", fmt.Sprintf("unsupported format %q", value), nil)
}

// Downscale configures the primary output downscale.
type Downscale struct {
	Enabled bool    `toml:"enabled" json:"enabled"`
	Factor  float64 `toml:"factor" json:"factor"`
}

// Proxy configures the secondary proxy rendition.
type Proxy struct {
	Enabled       bool        `toml:"enabled" json:"enabled"`
	Format        ProxyFormat `toml:"format" json:"format"`
	Scale         float64     `toml:"scale" json:"scale"`
	SubdirEnabled bool        `toml:"subdir_enabled" json:"subdir_enabled"`
	Subdir        string      `toml:"subdir" json:"subdir"`
	SuffixEnabled bool        `toml:"suffix_enabled" json:"suffix_enabled"`
	Suffix        string      `toml:"suffix" json:"suffix"`
}

// Global holds the session-wide render options.
type Global struct {
	Downscale          Downscale `toml:"downscale" json:"downscale"`
	Proxy              Proxy     `toml:"proxy" json:"proxy"`
	ColorspaceOverride bool      `toml:"colorspace_override" json:"colorspace_override"`
	// Command runs once per shot with {SHOT}, {START} and {END} substituted.
	Command string `toml:"command" json:"command"`
}

// Default returns the options a fresh session starts with.
func Default() Global {
	return Global{
		Downscale: Downscale{Factor: DownscaleFactors[0]},
		Proxy:     Proxy{Format: ProxyFormats[0], Scale: ProxyScales[0]},
	}
}

// Normalize fills zero values left by partial decoding with defaults.
func (g *Global) Normalize() {
	if g.Downscale.Factor == 0 {
		g.Downscale.Factor = DownscaleFactors[0]
	}
	if g.Proxy.Scale == 0 {
		g.Proxy.Scale = ProxyScales[0]
	}
	if strings.TrimSpace(string(g.Proxy.Format)) == "" {
		g.Proxy.Format = ProxyFormats[0]
	} else if f, err := ParseProxyFormat(string(g.Proxy.Format)); err == nil {
		g.Proxy.Format = f
	}
}

// Validate rejects values outside the fixed option sets.
func (g Global) Validate() error {
	if !slices.Contains(DownscaleFactors, g.Downscale.Factor) {
		return services.Wrap(services.ErrValidation, "options", "downscale", fmt.Sprintf("factor %v not in %v", g.Downscale.Factor, DownscaleFactors), nil)
	}
	if !slices.Contains(ProxyScales, g.Proxy.Scale) {
		return services.Wrap(services.ErrValidation, "options", "proxy", fmt.Sprintf("scale %v not in %v", g.Proxy.Scale, ProxyScales), nil)
	}
	if !g.Proxy.Format.Valid() {
		return services.Wrap(services.ErrValidation, "options", "proxy", fmt.Sprintf("format %q not in %v", g.Proxy.Format, ProxyFormats), nil)
	}
	return nil
}

// ProxySubdir returns the subdirectory proxies are redirected into, or "".
func (g Global) ProxySubdir() string {
	if !g.Proxy.SubdirEnabled {
		return ""
	}
	return g.Proxy.Subdir
}

// ProxySuffix returns the suffix appended to proxy base names, or "".
func (g Global) ProxySuffix() string {
	if !g.Proxy.SuffixEnabled {
		return ""
	}
	return g.Proxy.Suffix
}
