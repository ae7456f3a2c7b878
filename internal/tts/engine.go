// Package tts wraps the locally installed speech engine. The engine is a
// stateful, serial resource: it is acquired once per synthesis stage and a
// single goroutine drives it line by line.
package tts

import "context"

// Voice is one speech voice installed on the host system.
type Voice struct {
	ID        string
	Name      string
	Gender    string // "male", "female" or ""
	Languages []string
}

// Profile binds a presenter to a voice with a fixed rate (words per minute)
// and volume, so the two presenters stay distinguishable even when the
// underlying voice is shared.
type Profile struct {
	VoiceID string
	Rate    int
	Volume  float64
}

// Engine is a local text-to-speech engine capable of enumerating system
// voices and rendering a single utterance to a WAV file. Implementations are
// not safe for concurrent use.
type Engine interface {
	Voices() ([]Voice, error)
	SynthesizeToFile(ctx context.Context, text, path string, profile Profile) error
}
