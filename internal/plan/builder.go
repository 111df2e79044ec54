package plan

import (
	"strconv"
	"strings"

	"ingest/internal/mapping"
	"ingest/internal/options"
	"ingest/internal/session"
	"ingest/internal/shots"
	"ingest/internal/textutil"
)

// Command template placeholders.
const (
	TokenShot  = mapping.ShotToken
	TokenStart = "{START}"
	TokenEnd   = "{END}"
)

// BuildConfig carries the render settings that do not live in the session.
type BuildConfig struct {
	// PrimaryExtension is forced onto every mapped output ("exr").
	PrimaryExtension string
	// Colorspace is applied to decodes when the session requests the override.
	Colorspace string
	// Only restricts planning to these footage paths when non-empty.
	Only []string
}

// Build produces the render plan for sess.
func Build(sess *session.Session, cfg BuildConfig) (*Plan, error) {
	mapper, err := mapping.Compile(sess.Mappings())
	if err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(cfg.PrimaryExtension)), ".")
	if ext == "" {
		ext = "exr"
	}
	opts := sess.Options()
	metadata := sess.Metadata()
	shared := []Stage{{
		Kind:     StageMetadata,
		Metadata: metadata,
		Script:   session.MetadataScript(metadata),
	}}
	primaryChain := withScale(shared, opts.Downscale.Enabled, opts.Downscale.Factor)
	proxyChain := withScale(shared, opts.Proxy.Scale != 1.0, opts.Proxy.Scale)

	only := make(map[string]struct{}, len(cfg.Only))
	for _, p := range cfg.Only {
		only[textutil.NormalizePath(p)] = struct{}{}
	}

	p := &Plan{}
	for _, item := range sess.Footage() {
		if len(only) > 0 {
			if _, ok := only[item.Path]; !ok {
				continue
			}
		}

		match, ok := mapper.Captures(item.Path)
		if !ok {
			p.Skipped = append(p.Skipped, Skipped{Footage: item.Path, Reason: ReasonNoMapping})
			continue
		}
		template := mapping.NormalizeOutput(match.Output, ext)
		defs := sess.Shots(item.Path)

		decode := Decode{Path: item.Path, Clip: item.Clip}
		if opts.ColorspaceOverride && len(defs) > 0 {
			decode.Colorspace = cfg.Colorspace
		}
		p.Footage = append(p.Footage, FootagePlan{Decode: decode, Template: template, Rule: match.Index})

		for _, def := range defs {
			rng := shots.Resolve(def, item.Clip)
			output := SubstituteShot(template, def.Number)

			if cmd := strings.TrimSpace(opts.Command); cmd != "" {
				p.Hooks = append(p.Hooks, Hook{
					Footage: item.Path,
					Shot:    def.Number,
					Command: ExpandCommand(opts.Command, def),
				})
			}

			if rng.Empty() {
				p.Skipped = append(p.Skipped, Skipped{Footage: item.Path, Shot: def.Number, Reason: ReasonEmptyRange})
				continue
			}

			p.Jobs = append(p.Jobs, Job{
				Kind:      KindPrimary,
				Footage:   item.Path,
				Shot:      def.Number,
				Output:    output,
				Format:    ext,
				Start:     rng.Start,
				End:       rng.End,
				Increment: rng.Increment,
				Chain:     cloneChain(primaryChain),
				Metadata:  MetadataAllExceptInput,
				HalfFloat: ext == "exr",
			})

			if opts.Proxy.Enabled {
				p.Jobs = append(p.Jobs, Job{
					Kind:      KindProxy,
					Footage:   item.Path,
					Shot:      def.Number,
					Output:    ProxyPath(output, opts),
					Format:    string(opts.Proxy.Format),
					Start:     rng.Start,
					End:       rng.End,
					Increment: rng.Increment,
					Chain:     cloneChain(proxyChain),
					Metadata:  MetadataDefault,
				})
			}
		}
	}
	return p, nil
}

func withScale(base []Stage, enabled bool, factor float64) []Stage {
	chain := cloneChain(base)
	if enabled {
		chain = append(chain, Stage{Kind: StageScale, Scale: factor})
	}
	return chain
}

func cloneChain(chain []Stage) []Stage {
	return append([]Stage(nil), chain...)
}

// SubstituteShot replaces every {SHOT} in template with the shot number.
func SubstituteShot(template string, shot int) string {
	return strings.ReplaceAll(template, TokenShot, strconv.Itoa(shot))
}

// ExpandCommand fills a per-shot command template with the shot number and
// its unclamped start and end frames.
func ExpandCommand(template string, def shots.Definition) string {
	return strings.NewReplacer(
		TokenShot, strconv.Itoa(def.Number),
		TokenStart, strconv.Itoa(def.Start),
		TokenEnd, strconv.Itoa(def.End),
	).Replace(template)
}

// ProxyPath derives the proxy output from a primary output path: same
// directory (or a subdirectory of it), same base name plus the optional
// suffix, and the proxy format's extension.
func ProxyPath(primary string, g options.Global) string {
	dir, file := splitPath(primary)
	base := file
	if dot := strings.LastIndex(file, "."); dot > 0 {
		base = file[:dot]
	}
	if g.Proxy.SubdirEnabled {
		if sub := strings.TrimLeft(g.ProxySubdir(), "/"); sub != "" {
			dir += sub
			if !strings.HasSuffix(dir, "/") {
				dir += "/"
			}
		}
	}
	return dir + base + g.ProxySuffix() + "." + g.Proxy.Format.Extension()
}

func splitPath(path string) (string, string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx+1], path[idx+1:]
}
