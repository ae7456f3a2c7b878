// Package metrics derives the summary record attached to every podcast
// response and strips the topics footer out of the script so it is never
// spoken.
package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
)

const (
	// wordsPerMinute mirrors the pace the script generator targets.
	wordsPerMinute = 150

	// topicsNotFound is reported when the script carries no footer.
	topicsNotFound = "Não foi possível extrair os tópicos do roteiro."
)

var footerPattern = regexp.MustCompile(`(?is)Principais tópicos abordados:\s*(.*)$`)

// Calculate returns the audio-ready script (footer removed) and the metrics
// record for it. A script without a footer is returned unchanged with a
// sentinel topics value.
func Calculate(script, presenter1, presenter2 string) (string, *models.PodcastMetrics) {
	wordCount := len(strings.Fields(script))
	estimatedTime := fmt.Sprintf("%.2f minutos", float64(wordCount)/wordsPerMinute)

	topics := topicsNotFound
	audioScript := script

	if loc := footerPattern.FindStringSubmatchIndex(script); loc != nil {
		topics = strings.TrimSpace(script[loc[2]:loc[3]])
		audioScript = strings.TrimSpace(script[:loc[0]] + script[loc[1]:])
	}

	return audioScript, &models.PodcastMetrics{
		NumParticipants: 2,
		PresenterNames:  fmt.Sprintf("%s, %s", presenter1, presenter2),
		EstimatedTime:   estimatedTime,
		Topics:          topics,
	}
}
