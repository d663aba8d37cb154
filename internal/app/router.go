package app

import (
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
)

// RouteInput is everything routing needs, captured fresh per message.
type RouteInput struct {
	Kind    domain.MessageKind
	Speaker domain.Binding
	// Language and TargetLanguage are the optional per-message overrides.
	Language       string
	TargetLanguage string
	// Peers are the room's bindings in join order. The speaker may be
	// included and is skipped.
	Peers []domain.Binding
}

type Route struct {
	Source string
	Target string
}

// Same reports whether translation can be skipped. Codes compare
// case-insensitively.
func (r Route) Same() bool { return strings.EqualFold(r.Source, r.Target) }

// ResolveRoute picks the source and target language for one message.
func ResolveRoute(dir *lang.Directory, in RouteInput) Route {
	return Route{
		Source: dir.Canonical(resolveSource(dir, in)),
		Target: dir.Canonical(resolveTarget(dir, in)),
	}
}

func resolveSource(dir *lang.Directory, in RouteInput) string {
	if in.Kind == domain.KindAudio {
		return in.Speaker.Language
	}
	if in.Language != "" {
		return in.Language
	}
	if in.Speaker.Role.OutwardFacing() {
		return in.Speaker.Language
	}
	return dir.Reply()
}

func resolveTarget(dir *lang.Directory, in RouteInput) string {
	if in.TargetLanguage != "" {
		return in.TargetLanguage
	}
	if in.Speaker.Role.OutwardFacing() {
		return dir.Reply()
	}
	for _, p := range in.Peers {
		if p.Conn == in.Speaker.Conn {
			continue
		}
		if p.Role.OutwardFacing() && p.Language != "" {
			return p.Language
		}
	}
	return dir.Fallback()
}
