package scriptwriter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/google/generative-ai-go/genai"
)

// fakeModel plays scripted responses back in call order and records every
// prompt it was given.
type fakeModel struct {
	responses []string
	errs      []error
	calls     [][]genai.Part
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, parts)
	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return textResponse(f.responses[i]), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func newTestWriter(model contentModel) *geminiWriter {
	return &geminiWriter{
		model:         model,
		presenter1:    "João",
		presenter2:    "Maria",
		targetMinutes: 10,
		logger:        utils.NewLogger("error"),
	}
}

func TestGenerateScript(t *testing.T) {
	model := &fakeModel{responses: []string{
		"1. Introdução\n2. Conclusão",
		"João: Olá!\nMaria: Oi!",
		"João: Fim.",
	}}
	w := newTestWriter(model)

	text := "1. Introdução ao tema com bastante contexto. 2. Conclusão do material."

	script, err := w.GenerateScript(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "João: Olá\nMaria: Oi\n\n" +
		"João: Fim.\n\n" +
		"Principais tópicos abordados:\n" +
		"1. 1. Introdução\n" +
		"2. 2. Conclusão\n"
	if script != want {
		t.Errorf("script = %q, want %q", script, want)
	}

	// One topics call plus one call per topic.
	if len(model.calls) != 3 {
		t.Errorf("model called %d times, want 3", len(model.calls))
	}
}

func TestGenerateScriptFallbackTopic(t *testing.T) {
	model := &fakeModel{responses: []string{
		"O modelo respondeu em prosa livre, sem lista.",
		"João: Vamos falar de tudo.",
	}}
	w := newTestWriter(model)

	script, err := w.GenerateScript(context.Background(), "conteúdo curto do documento", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(script, "1. Discussão Completa do Material") {
		t.Errorf("fallback topic missing from footer: %q", script)
	}
	if len(model.calls) != 2 {
		t.Errorf("model called %d times, want 2", len(model.calls))
	}
}

func TestGenerateScriptTopicsFailure(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("backend down")}}
	w := newTestWriter(model)

	_, err := w.GenerateScript(context.Background(), "conteúdo", nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	var rerr *utils.RemoteError
	if !errors.As(err, &rerr) || rerr.Reason != utils.ReasonTopicsGeneration {
		t.Errorf("error = %v, want a topics generation failure", err)
	}
}

func TestGenerateScriptSegmentFailureAborts(t *testing.T) {
	model := &fakeModel{
		responses: []string{"1. Único Tópico", ""},
		errs:      []error{nil, errors.New("backend down")},
	}
	w := newTestWriter(model)

	_, err := w.GenerateScript(context.Background(), "1. Único Tópico e o restante do texto", nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	var rerr *utils.RemoteError
	if !errors.As(err, &rerr) || rerr.Reason != utils.ReasonSegmentGeneration {
		t.Errorf("error = %v, want a segment generation failure", err)
	}
}

func TestGenerateScriptSendsImageReferences(t *testing.T) {
	model := &fakeModel{responses: []string{
		"1. Único Tópico",
		"João: Sobre a figura.",
	}}
	w := newTestWriter(model)

	images := []models.UploadedFile{{Name: "files/abc", URI: "https://files.example/abc", DisplayName: "podcast_image_0.png"}}

	if _, err := w.GenerateScript(context.Background(), "1. Único Tópico e o texto", images); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawFileData bool
	for _, part := range model.calls[1] {
		if fd, ok := part.(genai.FileData); ok {
			sawFileData = true
			if fd.URI != "https://files.example/abc" {
				t.Errorf("file data URI = %q", fd.URI)
			}
		}
	}
	if !sawFileData {
		t.Error("segment prompt carried no image reference")
	}
}
