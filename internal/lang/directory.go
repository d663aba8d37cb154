// Package lang holds the static language directory used for display names
// and routing defaults.
package lang

import (
	"sort"
	"strings"
)

const (
	// Reply is the canonical language every guest message is translated into.
	Reply = "en-IN"
	// Fallback is the host target when no guest is present in the room.
	Fallback = "hi-IN"
	// Default is assumed when a join omits its language.
	Default = "en-IN"
)

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var builtin = map[string]string{
	"en-IN": "English (India)",
	"en-US": "English (US)",
	"en-GB": "English (UK)",
	"hi-IN": "Hindi",
	"bn-IN": "Bengali",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
	"mr-IN": "Marathi",
	"gu-IN": "Gujarati",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"pa-IN": "Punjabi",
	"or-IN": "Odia",
	"ur-IN": "Urdu",
	"es-ES": "Spanish",
	"fr-FR": "French",
	"de-DE": "German",
	"it-IT": "Italian",
	"pt-BR": "Portuguese (Brazil)",
	"ru-RU": "Russian",
	"ar-SA": "Arabic",
	"ja-JP": "Japanese",
	"ko-KR": "Korean",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
}

// Directory maps language codes to display names and carries the
// routing defaults. It is immutable after construction.
type Directory struct {
	names    map[string]string
	reply    string
	fallback string
	def      string
}

// Option overrides one of the directory defaults.
type Option func(*Directory)

func WithReply(code string) Option {
	return func(d *Directory) {
		if code != "" {
			d.reply = code
		}
	}
}

func WithFallback(code string) Option {
	return func(d *Directory) {
		if code != "" {
			d.fallback = code
		}
	}
}

func WithDefault(code string) Option {
	return func(d *Directory) {
		if code != "" {
			d.def = code
		}
	}
}

func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		names:    builtin,
		reply:    Reply,
		fallback: Fallback,
		def:      Default,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Name returns the display name for code, or code itself when unknown.
func (d *Directory) Name(code string) string {
	if n, ok := d.Lookup(code); ok {
		return n
	}
	return code
}

// Lookup matches codes case-insensitively ("hi-in" == "hi-IN").
func (d *Directory) Lookup(code string) (string, bool) {
	if n, ok := d.names[code]; ok {
		return n, true
	}
	for c, n := range d.names {
		if strings.EqualFold(c, code) {
			return n, true
		}
	}
	return "", false
}

// Canonical returns the directory's spelling of code ("hi-in" -> "hi-IN").
// Unknown codes come back trimmed but otherwise unchanged.
func (d *Directory) Canonical(code string) string {
	code = strings.TrimSpace(code)
	if _, ok := d.names[code]; ok {
		return code
	}
	for c := range d.names {
		if strings.EqualFold(c, code) {
			return c
		}
	}
	return code
}

func (d *Directory) List() []Language {
	out := make([]Language, 0, len(d.names))
	for c, n := range d.names {
		out = append(out, Language{Code: c, Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (d *Directory) Reply() string    { return d.reply }
func (d *Directory) Fallback() string { return d.fallback }
func (d *Directory) Default() string  { return d.def }

// Base strips the region: "hi-IN" -> "hi". Chinese keeps its script
// variant since translation engines distinguish the two.
func Base(code string) string {
	if strings.EqualFold(code, "zh-CN") || strings.EqualFold(code, "zh-TW") {
		return code
	}
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}
