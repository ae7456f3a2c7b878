package imagestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"testing"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/google/generative-ai-go/genai"
)

type fakeFileAPI struct {
	uploads   int
	failAfter int
	deleted   []string
}

func (f *fakeFileAPI) UploadFile(_ context.Context, _ string, r io.Reader, opts *genai.UploadFileOptions) (*genai.File, error) {
	if f.failAfter > 0 && f.uploads >= f.failAfter {
		return nil, fmt.Errorf("quota exceeded")
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f.uploads++
	name := fmt.Sprintf("files/upload-%d", f.uploads)
	return &genai.File{Name: name, URI: "https://files.example/" + name, DisplayName: opts.DisplayName}, nil
}

func (f *fakeFileAPI) DeleteFile(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func newTestStore(api fileAPI) *geminiStore {
	return &geminiStore{files: api, logger: utils.NewLogger("error")}
}

func pngImage(t *testing.T) models.ExtractedImage {
	t.Helper()
	return models.ExtractedImage{
		MIMEType: "image/png",
		Data:     base64.StdEncoding.EncodeToString([]byte("fake png bytes")),
	}
}

func TestUploadImages(t *testing.T) {
	api := &fakeFileAPI{}
	store := newTestStore(api)

	uploaded := store.UploadImages(context.Background(), []models.ExtractedImage{pngImage(t), pngImage(t)})

	if len(uploaded) != 2 {
		t.Fatalf("got %d uploads, want 2", len(uploaded))
	}
	if uploaded[0].DisplayName != "podcast_image_0.png" || uploaded[1].DisplayName != "podcast_image_1.png" {
		t.Errorf("display names = %q, %q", uploaded[0].DisplayName, uploaded[1].DisplayName)
	}
	if uploaded[0].Name != "files/upload-1" {
		t.Errorf("remote name = %q", uploaded[0].Name)
	}
}

func TestUploadImagesSkipsNonPNG(t *testing.T) {
	api := &fakeFileAPI{}
	store := newTestStore(api)

	images := []models.ExtractedImage{
		{MIMEType: "image/jpeg", Data: base64.StdEncoding.EncodeToString([]byte("jpeg"))},
		pngImage(t),
	}

	uploaded := store.UploadImages(context.Background(), images)

	if len(uploaded) != 1 {
		t.Fatalf("got %d uploads, want 1", len(uploaded))
	}
	// The display name index follows the source position, not the upload count.
	if uploaded[0].DisplayName != "podcast_image_1.png" {
		t.Errorf("display name = %q", uploaded[0].DisplayName)
	}
}

func TestUploadImagesRollsBackOnFailure(t *testing.T) {
	api := &fakeFileAPI{failAfter: 2}
	store := newTestStore(api)

	uploaded := store.UploadImages(context.Background(), []models.ExtractedImage{pngImage(t), pngImage(t), pngImage(t)})

	if uploaded != nil {
		t.Errorf("expected no references after rollback, got %v", uploaded)
	}
	if len(api.deleted) != 2 {
		t.Fatalf("deleted %d remote files during rollback, want 2", len(api.deleted))
	}
	if api.deleted[0] != "files/upload-1" || api.deleted[1] != "files/upload-2" {
		t.Errorf("rolled back %v", api.deleted)
	}
}

func TestDeleteAllEmptyIsNoOp(t *testing.T) {
	api := &fakeFileAPI{}
	store := newTestStore(api)

	store.DeleteAll(context.Background(), nil)

	if len(api.deleted) != 0 {
		t.Errorf("no-op delete touched the API: %v", api.deleted)
	}
}
