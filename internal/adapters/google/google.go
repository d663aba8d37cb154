// Package google adapts Google Cloud Speech-to-Text, Translation and
// Text-to-Speech to the relay's collaborator interfaces.
package google

import (
	"google.golang.org/api/option"
)

// Options configures every Google client in this package.
type Options struct {
	APIKey string
	// Endpoint overrides the service base URL, mainly for tests.
	Endpoint string
	// SpeechModel is the recognition model, e.g. "latest_short".
	SpeechModel string
	// Voice is the default TTS voice name; empty lets the service pick.
	Voice string
}

func (o Options) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if o.APIKey != "" {
		opts = append(opts, option.WithAPIKey(o.APIKey))
	}
	if o.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(o.Endpoint))
		if o.APIKey == "" {
			opts = append(opts, option.WithoutAuthentication())
		}
	}
	return opts
}
