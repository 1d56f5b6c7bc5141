package profile

// Profile defines conversion parameters for a batch build.
type Profile struct {
	Name      string
	Formats   []string // output formats in priority order
	MaxWidth  int      // downscale bound, 0 = keep size
	MaxHeight int      // downscale bound, 0 = keep size
	Level     int      // post-compression level 1-100, 0 = default
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:    "default",
		Formats: []string{"qoi"},
	},
	"archive": {
		Name:    "archive",
		Formats: []string{"qoi", "qoi.zst"},
		Level:   90,
	},
	"preview": {
		Name:      "preview",
		Formats:   []string{"qoi"},
		MaxWidth:  640,
		MaxHeight: 640,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles.
func Names() []string {
	return []string{"default", "archive", "preview"}
}
