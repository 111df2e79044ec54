package options

import "ingest/internal/shots"

// ImportMode selects how footage enters a session.
type ImportMode string

const (
	ImportManual ImportMode = "manual"
	ImportEDL    ImportMode = "edl"
)

// PanelState is the non-option input state that affects field enablement.
type PanelState struct {
	Mode ImportMode
	// FootageDirExists reports whether the EDL footage base directory exists.
	FootageDirExists bool
	// Selected is the number of selected footage items.
	Selected int
}

// FieldState reports which inputs are enabled (or visible, for the import
// mode controls).
type FieldState struct {
	DownscaleFactor bool `json:"downscale_factor"`

	ProxyFormat       bool `json:"proxy_format"`
	ProxyScale        bool `json:"proxy_scale"`
	ProxySubdirToggle bool `json:"proxy_subdir_toggle"`
	ProxySubdir       bool `json:"proxy_subdir"`
	ProxySuffixToggle bool `json:"proxy_suffix_toggle"`
	ProxySuffix       bool `json:"proxy_suffix"`

	FootageDirVisible bool `json:"footage_dir_visible"`
	EDLImportVisible  bool `json:"edl_import_visible"`
	EDLImportEnabled  bool `json:"edl_import_enabled"`
	FrameRateVisible  bool `json:"frame_rate_visible"`
	FootageAddVisible bool `json:"footage_add_visible"`
	RemoveFootage     bool `json:"remove_footage"`
	AddShot           bool `json:"add_shot"`
}

// Fields projects options and panel state onto field enablement.
func Fields(g Global, p PanelState) FieldState {
	proxy := g.Proxy.Enabled
	edl := p.Mode == ImportEDL
	return FieldState{
		DownscaleFactor: g.Downscale.Enabled,

		ProxyFormat:       proxy,
		ProxyScale:        proxy,
		ProxySubdirToggle: proxy,
		ProxySubdir:       proxy && g.Proxy.SubdirEnabled,
		ProxySuffixToggle: proxy,
		ProxySuffix:       proxy && g.Proxy.SuffixEnabled,

		FootageDirVisible: edl,
		EDLImportVisible:  edl,
		EDLImportEnabled:  edl && p.FootageDirExists,
		FrameRateVisible:  edl,
		FootageAddVisible: !edl,
		RemoveFootage:     p.Selected > 0,
		AddShot:           p.Selected == 1,
	}
}

// HandleLengthEnabled reports whether the handle length input of a shot row is editable.
func HandleLengthEnabled(def shots.Definition) bool {
	return def.Handles
}
