package tts

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"
)

// interClipPause keeps the stateful engine from tripping over itself when
// clips are rendered back to back.
const interClipPause = 500 * time.Millisecond

// Synthesizer renders an audio-ready script into one WAV clip per line.
type Synthesizer interface {
	GenerateSegments(ctx context.Context, script string) ([]models.AudioSegment, error)
}

type lineSynthesizer struct {
	engine            Engine
	presenter1        string
	presenter2        string
	explicitPrimary   string
	explicitSecondary string
	pause             time.Duration
	logger            *utils.Logger
}

func NewSynthesizer(engine Engine, presenter1, presenter2, primaryVoiceID, secondaryVoiceID string, logger *utils.Logger) Synthesizer {
	return &lineSynthesizer{
		engine:            engine,
		presenter1:        presenter1,
		presenter2:        presenter2,
		explicitPrimary:   primaryVoiceID,
		explicitSecondary: secondaryVoiceID,
		pause:             interClipPause,
		logger:            logger.WithStage("tts"),
	}
}

// GenerateSegments splits the script on line breaks, routes each non-empty
// line to a presenter profile and renders it to its own clip, named by line
// index. A failing line is skipped; producing zero clips fails the stage.
func (s *lineSynthesizer) GenerateSegments(ctx context.Context, script string) ([]models.AudioSegment, error) {
	voices, err := s.engine.Voices()
	if err != nil {
		return nil, fmt.Errorf("enumerate system voices: %w", err)
	}

	primary, secondary, err := ResolveProfiles(voices, s.explicitPrimary, s.explicitSecondary)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Voice profiles resolved",
		"primary_voice", primary.VoiceID,
		"secondary_voice", secondary.VoiceID,
		"available_voices", len(voices))

	var segments []models.AudioSegment

	lines := strings.Split(script, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		speaker, text := AssignLine(line, s.presenter1, s.presenter2)
		if text == "" {
			continue
		}

		profile := primary
		if speaker == SpeakerSecondary {
			profile = secondary
		}

		data, err := s.renderLine(ctx, text, profile)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("Skipping line that failed to synthesize", "line", i, "error", err)
			continue
		}

		segments = append(segments, models.AudioSegment{
			Filename: fmt.Sprintf("segment_%03d.wav", i),
			Data:     data,
		})
		s.logger.Info("Audio segment rendered", "line", i, "bytes", len(data))

		if s.pause > 0 && i < len(lines)-1 {
			time.Sleep(s.pause)
		}
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("no audio segments were generated")
	}

	return segments, nil
}

// renderLine synthesizes a single utterance through a scratch WAV file.
func (s *lineSynthesizer) renderLine(ctx context.Context, text string, profile Profile) ([]byte, error) {
	tmp, err := os.CreateTemp("", "podcast-segment-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer s.removeScratch(path)

	if err := s.engine.SynthesizeToFile(ctx, text, path, profile); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rendered clip: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("engine produced an empty clip")
	}

	return data, nil
}

func (s *lineSynthesizer) removeScratch(path string) {
	if err := os.Remove(path); err == nil || os.IsNotExist(err) {
		return
	}
	// The engine occasionally still holds the handle right after rendering.
	time.Sleep(100 * time.Millisecond)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove scratch clip", "path", path, "error", err)
	}
}
