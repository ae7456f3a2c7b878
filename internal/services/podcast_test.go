package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"
)

type fakeStore struct {
	uploads  int
	deletes  int
	uploaded []models.UploadedFile
}

func (f *fakeStore) UploadImages(_ context.Context, images []models.ExtractedImage) []models.UploadedFile {
	f.uploads++
	return f.uploaded
}

func (f *fakeStore) DeleteAll(_ context.Context, files []models.UploadedFile) {
	f.deletes++
}

type fakeWriter struct {
	script string
	err    error
	images []models.UploadedFile
}

func (f *fakeWriter) GenerateScript(_ context.Context, textContent string, images []models.UploadedFile) (string, error) {
	f.images = images
	return f.script, f.err
}

type fakeSynth struct {
	segments []models.AudioSegment
	err      error
	script   string
}

func (f *fakeSynth) GenerateSegments(_ context.Context, script string) ([]models.AudioSegment, error) {
	f.script = script
	return f.segments, f.err
}

func newTestService(extract func([]byte, *utils.Logger) (string, []models.ExtractedImage), store *fakeStore, writer *fakeWriter, synth *fakeSynth) *podcastService {
	return &podcastService{
		extract:    extract,
		images:     store,
		writer:     writer,
		synth:      synth,
		presenter1: "João",
		presenter2: "Maria",
		logger:     utils.NewLogger("error"),
	}
}

func extractFixed(text string, images []models.ExtractedImage) func([]byte, *utils.Logger) (string, []models.ExtractedImage) {
	return func([]byte, *utils.Logger) (string, []models.ExtractedImage) {
		return text, images
	}
}

func TestGeneratePodcast(t *testing.T) {
	store := &fakeStore{uploaded: []models.UploadedFile{{Name: "files/a", URI: "uri-a"}}}
	writer := &fakeWriter{script: "João: Olá\n\nPrincipais tópicos abordados:\n1. Tema"}
	synth := &fakeSynth{segments: []models.AudioSegment{{Filename: "segment_000.wav", Data: []byte("RIFF")}}}

	images := []models.ExtractedImage{{MIMEType: "image/png", Data: "aGk="}}
	svc := newTestService(extractFixed("texto do documento", images), store, writer, synth)

	resp, err := svc.GeneratePodcast(context.Background(), &models.GenerateRequest{File: []byte("%PDF"), Filename: "doc.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.ID == "" {
		t.Error("response carries no run ID")
	}
	if resp.Script != writer.script {
		t.Errorf("script = %q", resp.Script)
	}
	if len(resp.Segments) != 1 {
		t.Errorf("got %d segments, want 1", len(resp.Segments))
	}
	if resp.Metrics.Topics != "1. Tema" {
		t.Errorf("topics = %q", resp.Metrics.Topics)
	}

	// The synthesizer must not receive the topics footer.
	if synth.script != "João: Olá" {
		t.Errorf("synthesized script = %q", synth.script)
	}

	// The uploaded references reached the writer and were cleaned up after.
	if len(writer.images) != 1 || writer.images[0].Name != "files/a" {
		t.Errorf("writer images = %v", writer.images)
	}
	if store.deletes != 1 {
		t.Errorf("remote cleanup ran %d times, want 1", store.deletes)
	}
}

func TestGeneratePodcastNoContent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(extractFixed("", nil), store, &fakeWriter{}, &fakeSynth{})

	_, err := svc.GeneratePodcast(context.Background(), &models.GenerateRequest{File: []byte("x"), Filename: "doc.pdf"})

	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != 400 {
		t.Fatalf("error = %v, want a 400 AppError", err)
	}
	if store.uploads != 0 {
		t.Errorf("upload attempted for an empty document")
	}
}

func TestGeneratePodcastTextOnlyDegrade(t *testing.T) {
	// Extraction found images but none could be uploaded.
	store := &fakeStore{uploaded: nil}
	writer := &fakeWriter{script: "João: Olá"}
	synth := &fakeSynth{segments: []models.AudioSegment{{Filename: "segment_000.wav"}}}

	images := []models.ExtractedImage{{MIMEType: "image/png", Data: "aGk="}}
	svc := newTestService(extractFixed("texto", images), store, writer, synth)

	if _, err := svc.GeneratePodcast(context.Background(), &models.GenerateRequest{File: []byte("x"), Filename: "doc.pdf"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(writer.images) != 0 {
		t.Errorf("writer received image references after a failed upload: %v", writer.images)
	}
	if store.deletes != 0 {
		t.Errorf("cleanup ran with nothing uploaded")
	}
}

func TestGeneratePodcastScriptFailureStillCleansUp(t *testing.T) {
	store := &fakeStore{uploaded: []models.UploadedFile{{Name: "files/a"}}}
	writer := &fakeWriter{err: errors.New("backend down")}

	images := []models.ExtractedImage{{MIMEType: "image/png", Data: "aGk="}}
	svc := newTestService(extractFixed("texto", images), store, writer, &fakeSynth{})

	_, err := svc.GeneratePodcast(context.Background(), &models.GenerateRequest{File: []byte("x"), Filename: "doc.pdf"})

	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != 500 {
		t.Fatalf("error = %v, want a 500 AppError", err)
	}
	if store.deletes != 1 {
		t.Errorf("remote cleanup ran %d times after script failure, want 1", store.deletes)
	}
}

func TestGeneratePodcastSynthesisFailure(t *testing.T) {
	writer := &fakeWriter{script: "João: Olá"}
	synth := &fakeSynth{err: errors.New("no voices")}
	svc := newTestService(extractFixed("texto", nil), &fakeStore{}, writer, synth)

	_, err := svc.GeneratePodcast(context.Background(), &models.GenerateRequest{File: []byte("x"), Filename: "doc.pdf"})

	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != 500 {
		t.Fatalf("error = %v, want a 500 AppError", err)
	}
}
