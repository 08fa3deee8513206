package profile

import "github.com/AnyUserName/dctstream/internal/quant"

// Profile bundles the encoding parameters for a batch run.
type Profile struct {
	Name      string
	Quality   int  // quantizer quality 1-100
	Subsample bool // 4:2:0 chroma downsampling
	Compress  bool // zstd-compress dump payloads
}

// Built-in profiles.
var profiles = map[string]Profile{
	"balanced": {
		Name:      "balanced",
		Quality:   75,
		Subsample: true,
		Compress:  true,
	},
	"quality": {
		Name:      "quality",
		Quality:   90,
		Subsample: false, // full chroma resolution
		Compress:  true,
	},
	"compact": {
		Name:      "compact",
		Quality:   35,
		Subsample: true,
		Compress:  true,
	},
}

// Get returns a profile by name. Falls back to balanced if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["balanced"]
	p.Name = name // preserve requested name
	return p
}

// Tables returns the quantization table pair scaled to the profile's
// quality.
func (p Profile) Tables() quant.Pair {
	return quant.TablesForQuality(p.Quality)
}
