package scriptwriter

import (
	"regexp"
	"strings"
)

// wordsPerMinute is the natural-speech average used to size segments.
const wordsPerMinute = 150

// fallbackTopic stands in for the whole document when the model returns no
// numbered topic list.
const fallbackTopic = "Discussão Completa do Material"

// topicsFooter marks the trailing topic summary appended to every script.
// The metrics stage strips it so it is never spoken.
const topicsFooter = "Principais tópicos abordados:"

var (
	numberedLine = regexp.MustCompile(`^\d+\.`)
	// Everything outside letters, digits, underscore, whitespace, comma,
	// period. \p{L}/\p{N} rather than \w so accented Portuguese survives.
	disallowedChar = regexp.MustCompile(`[^\p{L}\p{N}_\s,.]`)
	spaceRun       = regexp.MustCompile(`[ \t]+`)
)

// ParseTopics selects the lines of a model response that look like entries of
// a numbered list. Stray prose lines are dropped. The entries keep their
// "N." prefixes; they are the topic values used downstream.
func ParseTopics(raw string) []string {
	var topics []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && numberedLine.MatchString(line) {
			topics = append(topics, line)
		}
	}
	return topics
}

// ExcerptFor deterministically selects the source excerpt for one topic:
// a window around a literal title hit, the whole text for a lone topic,
// otherwise a fixed-size slice indexed by topic position. An empty result
// means the topic has no source material and should be skipped.
func ExcerptFor(text, topic string, index, topicCount int) string {
	if idx := strings.Index(text, topic); idx >= 0 {
		start := max(0, idx-500)
		end := min(len(text), idx+len(topic)+3500)
		return validChunk(text[start:end])
	}

	if topicCount == 1 {
		return text
	}

	const chunkSize = 4000
	start := index * chunkSize
	if start >= len(text) {
		return ""
	}
	end := min(len(text), start+chunkSize)
	return validChunk(text[start:end])
}

// validChunk scrubs the torn runes a byte-indexed window can leave at its edges.
func validChunk(chunk string) string {
	return strings.ToValidUTF8(chunk, "")
}

// CleanLine restricts a dialogue line to letters, digits, spaces, commas and
// periods, keeping a leading "Presenter:" tag intact so the audio stage can
// still route the line to the right voice.
func CleanLine(line string, presenters ...string) string {
	line = strings.TrimSpace(line)

	var prefix string
	for _, p := range presenters {
		if tag := p + ":"; strings.HasPrefix(line, tag) {
			prefix = tag + " "
			line = strings.TrimSpace(strings.TrimPrefix(line, tag))
			break
		}
	}

	line = disallowedChar.ReplaceAllString(line, "")
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	return prefix + line
}

// CleanSegment applies CleanLine to every line of a generated segment,
// preserving the line structure the synthesizer splits on.
func CleanSegment(segment string, presenters ...string) string {
	lines := strings.Split(segment, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if c := CleanLine(line, presenters...); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, "\n")
}
