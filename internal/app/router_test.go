package app

import (
	"testing"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
	"github.com/stretchr/testify/require"
)

var (
	host  = domain.Binding{Conn: "a", Room: "r1", Role: domain.RoleHost, Language: "en-IN"}
	guest = domain.Binding{Conn: "b", Room: "r1", Role: domain.RoleGuest, Language: "hi-IN"}
)

func TestResolveRoute(t *testing.T) {
	dir := lang.NewDirectory()

	tests := []struct {
		name string
		in   RouteInput
		want Route
	}{
		{
			name: "guest text goes to reply language",
			in:   RouteInput{Kind: domain.KindText, Speaker: guest, Peers: []domain.Binding{host, guest}},
			want: Route{Source: "hi-IN", Target: "en-IN"},
		},
		{
			name: "host text goes to first guest",
			in:   RouteInput{Kind: domain.KindText, Speaker: host, Peers: []domain.Binding{host, guest}},
			want: Route{Source: "en-IN", Target: "hi-IN"},
		},
		{
			name: "host alone falls back",
			in:   RouteInput{Kind: domain.KindText, Speaker: host, Peers: []domain.Binding{host}},
			want: Route{Source: "en-IN", Target: "hi-IN"},
		},
		{
			name: "host picks first guest in join order",
			in: RouteInput{Kind: domain.KindText, Speaker: host, Peers: []domain.Binding{
				host,
				{Conn: "c", Role: domain.RoleGuest, Language: "ta-IN"},
				guest,
			}},
			want: Route{Source: "en-IN", Target: "ta-IN"},
		},
		{
			name: "host ignores other hosts",
			in: RouteInput{Kind: domain.KindText, Speaker: host, Peers: []domain.Binding{
				{Conn: "h2", Role: domain.RoleHost, Language: "fr-FR"},
				host,
			}},
			want: Route{Source: "en-IN", Target: "hi-IN"},
		},
		{
			name: "explicit target wins",
			in:   RouteInput{Kind: domain.KindText, Speaker: guest, TargetLanguage: "fr-FR"},
			want: Route{Source: "hi-IN", Target: "fr-FR"},
		},
		{
			name: "explicit text language",
			in:   RouteInput{Kind: domain.KindText, Speaker: host, Language: "mr-IN", Peers: []domain.Binding{guest}},
			want: Route{Source: "mr-IN", Target: "hi-IN"},
		},
		{
			name: "codes are canonicalized",
			in:   RouteInput{Kind: domain.KindText, Speaker: guest, TargetLanguage: "hi-in"},
			want: Route{Source: "hi-IN", Target: "hi-IN"},
		},
		{
			name: "audio source is the bound language",
			in:   RouteInput{Kind: domain.KindAudio, Speaker: host, Language: "mr-IN", Peers: []domain.Binding{guest}},
			want: Route{Source: "en-IN", Target: "hi-IN"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveRoute(dir, tt.in))
		})
	}
}

func TestRoute_Same(t *testing.T) {
	require.True(t, Route{Source: "en-IN", Target: "en-IN"}.Same())
	require.False(t, Route{Source: "en-IN", Target: "hi-IN"}.Same())
	require.True(t, Route{Source: "hi-IN", Target: "hi-in"}.Same())
}
