package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// EspeakEngine drives the espeak-ng binary (or a compatible one, configured
// via TTS_BINARY). Rendering and voice enumeration both shell out; nothing
// is cached between calls except the binary path.
type EspeakEngine struct {
	binary string
}

func NewEspeakEngine(binary string) (*EspeakEngine, error) {
	if binary == "" {
		binary = "espeak-ng"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("speech engine %q not found on PATH: %w", binary, err)
	}

	return &EspeakEngine{binary: path}, nil
}

// Voices parses the engine's voice listing. Lines that do not follow the
// tabular "Pty Language Age/Gender VoiceName File" format are skipped.
func (e *EspeakEngine) Voices() ([]Voice, error) {
	out, err := exec.Command(e.binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}

	return parseVoices(string(out)), nil
}

func parseVoices(listing string) []Voice {
	var voices []Voice

	lines := strings.Split(listing, "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		voices = append(voices, Voice{
			ID:        fields[1],
			Name:      strings.Join(fields[3:len(fields)-1], " "),
			Gender:    parseGender(fields[2]),
			Languages: []string{fields[1]},
		})
	}

	return voices
}

func parseGender(ageGender string) string {
	switch {
	case strings.Contains(strings.ToUpper(ageGender), "F"):
		return "female"
	case strings.Contains(strings.ToUpper(ageGender), "M"):
		return "male"
	default:
		return ""
	}
}

// SynthesizeToFile renders one utterance to a WAV file. Volume 1.0 maps to
// the engine's default amplitude of 100.
func (e *EspeakEngine) SynthesizeToFile(ctx context.Context, text, path string, profile Profile) error {
	args := []string{
		"-v", profile.VoiceID,
		"-s", strconv.Itoa(profile.Rate),
		"-a", strconv.Itoa(int(profile.Volume * 100)),
		"-w", path,
		"--", text,
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("synthesize: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return nil
}
