package scriptwriter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/google/generative-ai-go/genai"
)

// Writer turns extracted document text (plus optional uploaded image
// references) into a two-presenter podcast script.
type Writer interface {
	GenerateScript(ctx context.Context, textContent string, images []models.UploadedFile) (string, error)
}

// contentModel is the slice of *genai.GenerativeModel the writer needs.
type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiWriter struct {
	model         contentModel
	presenter1    string
	presenter2    string
	targetMinutes int
	logger        *utils.Logger
}

func NewGeminiWriter(client *genai.Client, modelName, presenter1, presenter2 string, targetMinutes int, logger *utils.Logger) Writer {
	return &geminiWriter{
		model:         client.GenerativeModel(modelName),
		presenter1:    presenter1,
		presenter2:    presenter2,
		targetMinutes: targetMinutes,
		logger:        logger.WithStage("scriptwriter"),
	}
}

// GenerateScript runs the two-phase protocol: derive a numbered topic outline
// from an excerpt, then generate one dialogue segment per topic and append
// the topics footer. Any remote failure aborts the whole script.
func (w *geminiWriter) GenerateScript(ctx context.Context, textContent string, images []models.UploadedFile) (string, error) {
	topics, err := w.generateTopics(ctx, textContent)
	if err != nil {
		return "", err
	}

	wordsPerSegment := (w.targetMinutes * wordsPerMinute) / len(topics)
	w.logger.Info("Topic outline ready",
		"topic_count", len(topics),
		"words_per_segment", wordsPerSegment)

	var script strings.Builder

	for i, topic := range topics {
		chunk := ExcerptFor(textContent, topic, i, len(topics))
		if chunk == "" {
			w.logger.Warn("No source excerpt for topic, skipping", "topic", topic)
			continue
		}

		segment, err := w.generateSegment(ctx, topic, chunk, wordsPerSegment, images)
		if err != nil {
			return "", err
		}

		script.WriteString(CleanSegment(segment, w.presenter1, w.presenter2))
		script.WriteString("\n\n")
		w.logger.Info("Segment generated", "topic", topic, "position", i+1, "of", len(topics))
	}

	script.WriteString(topicsFooter)
	script.WriteString("\n")
	for i, topic := range topics {
		fmt.Fprintf(&script, "%d. %s\n", i+1, topic)
	}

	return script.String(), nil
}

func (w *geminiWriter) generateTopics(ctx context.Context, textContent string) ([]string, error) {
	excerpt := validChunk(textContent[:min(len(textContent), 8000)])

	prompt := fmt.Sprintf(
		"Com base no seguinte conteúdo do material de faculdade, liste os 5 a 10 tópicos principais "+
			"que seriam ideais para uma discussão em podcast. O podcast terá uma duração de aproximadamente %d minutos. "+
			"Formate como uma lista numerada de títulos de tópicos.\n\nConteúdo:\n%s",
		w.targetMinutes, excerpt)

	resp, err := w.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &utils.RemoteError{Op: "gemini.generate_content", Reason: utils.ReasonTopicsGeneration, Err: err}
	}

	topics := ParseTopics(responseText(resp))
	if len(topics) == 0 {
		w.logger.Warn("No numbered topics in model response, using single fallback topic")
		topics = []string{fallbackTopic}
	}

	return topics, nil
}

func (w *geminiWriter) generateSegment(ctx context.Context, topic, chunk string, wordsPerSegment int, images []models.UploadedFile) (string, error) {
	parts := []genai.Part{genai.Text(fmt.Sprintf(
		"Você é um roteirista de podcast profissional. "+
			"Crie um segmento de roteiro de podcast para uma discussão entre %s e %s "+
			"sobre o tópico '%s'. O segmento deve ser dinâmico, envolvente e educativo em português. "+
			"Tente manter este segmento com aproximadamente %d palavras. "+
			"Incorpore as informações do seguinte trecho de texto e, se relevante, as informações visuais "+
			"das imagens fornecidas. Explique a relevância das imagens para o tópico.\n\n"+
			"Trecho de texto:\n%s\n\n",
		w.presenter1, w.presenter2, topic, wordsPerSegment, chunk))}

	for _, img := range images {
		parts = append(parts,
			genai.FileData{MIMEType: "image/png", URI: img.URI},
			genai.Text(fmt.Sprintf(
				"\nPor favor, analise esta imagem (URI: %s) e incorpore suas informações "+
					"e insights na discussão do podcast, explicando o que ela representa "+
					"e como se relaciona com o tópico atual.\n", img.URI)))
	}

	parts = append(parts, genai.Text(fmt.Sprintf(
		"\nFormato do diálogo esperado (sem aspas ou marcadores de fala):"+
			"\n%s: [Fala do %s]"+
			"\n%s: [Fala do %s]"+
			"\nNão use aspas ou marcadores como 'Abre aspas', 'Fecha aspas'."+
			"\nMantenha as falas relativamente curtas para um fluxo natural."+
			"\nAs falas devem conter apenas letras, números, espaços, vírgulas e pontos. Não use outros caracteres especiais.",
		w.presenter1, w.presenter1, w.presenter2, w.presenter2)))

	resp, err := w.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &utils.RemoteError{Op: "gemini.generate_content", Reason: utils.ReasonSegmentGeneration, Err: err}
	}

	return responseText(resp), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
