package tts

import (
	"fmt"
	"strings"
)

// Fixed per-presenter deliveries. The secondary presenter speaks faster and
// slightly quieter so the two stay apart even on a shared voice.
const (
	primaryRate     = 160
	secondaryRate   = 190
	primaryVolume   = 1.0
	secondaryVolume = 0.9
)

var (
	languageTokens = []string{"brazil", "portuguese", "português", "pt-br"}

	primaryGenderTokens   = []string{"male", "masculino", "daniel"}
	secondaryGenderTokens = []string{"female", "feminino", "maria"}
)

// ResolveProfiles picks a voice for each presenter from the installed set.
// Resolution order per presenter: explicit ID, language+gender match, generic
// gender match, positional fallback (first voice for the primary presenter,
// second for the secondary). No installed voices at all is a hard failure.
func ResolveProfiles(voices []Voice, explicitPrimary, explicitSecondary string) (Profile, Profile, error) {
	primaryID, err := resolveVoiceID(voices, explicitPrimary, primaryGenderTokens, "male", 0)
	if err != nil {
		return Profile{}, Profile{}, err
	}

	secondaryID, err := resolveVoiceID(voices, explicitSecondary, secondaryGenderTokens, "female", 1)
	if err != nil {
		return Profile{}, Profile{}, err
	}

	primary := Profile{VoiceID: primaryID, Rate: primaryRate, Volume: primaryVolume}
	secondary := Profile{VoiceID: secondaryID, Rate: secondaryRate, Volume: secondaryVolume}
	return primary, secondary, nil
}

func resolveVoiceID(voices []Voice, explicit string, genderTokens []string, gender string, fallbackIndex int) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	// Target language and the expected gender or name token.
	for _, v := range voices {
		hay := voiceHaystack(v)
		if containsAny(hay, languageTokens) && containsAny(hay, genderTokens) {
			return v.ID, nil
		}
	}

	// Any voice with the right declared gender or name token.
	for _, v := range voices {
		if v.Gender == gender || containsAny(voiceHaystack(v), genderTokens) {
			return v.ID, nil
		}
	}

	if len(voices) == 0 {
		return "", fmt.Errorf("no text-to-speech voices installed on this system")
	}
	if fallbackIndex < len(voices) {
		return voices[fallbackIndex].ID, nil
	}
	return voices[0].ID, nil
}

func voiceHaystack(v Voice) string {
	return strings.ToLower(v.Name + " " + v.ID + " " + strings.Join(v.Languages, " "))
}

func containsAny(hay string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(hay, tok) {
			return true
		}
	}
	return false
}

// Speaker identifies which presenter's profile renders a line.
type Speaker int

const (
	SpeakerPrimary Speaker = iota + 1
	SpeakerSecondary
)

// AssignLine decides which presenter speaks a script line and returns the
// utterance with the speaker tag stripped. Untagged lines (intros, closings)
// default to the primary presenter.
func AssignLine(line, presenter1, presenter2 string) (Speaker, string) {
	if tag := presenter1 + ":"; strings.HasPrefix(line, tag) {
		return SpeakerPrimary, strings.TrimSpace(strings.TrimPrefix(line, tag))
	}
	if tag := presenter2 + ":"; strings.HasPrefix(line, tag) {
		return SpeakerSecondary, strings.TrimSpace(strings.TrimPrefix(line, tag))
	}
	return SpeakerPrimary, line
}
