package imagestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/google/generative-ai-go/genai"
)

// Store pushes extracted images to the Gemini File API so that prompts can
// reference them, and deletes them again at the end of the run. The remote
// files are the only resource with an explicit cleanup obligation.
type Store interface {
	// UploadImages uploads every image and returns the remote references.
	// On any failure it rolls back: scratch files are removed, references
	// obtained so far are deleted remotely, and an empty list is returned so
	// the caller degrades to text-only script generation.
	UploadImages(ctx context.Context, images []models.ExtractedImage) []models.UploadedFile

	// DeleteAll removes the given remote files. It never fails the run:
	// per-file errors are logged and skipped. An empty list is a no-op.
	DeleteAll(ctx context.Context, files []models.UploadedFile)
}

// fileAPI is the slice of *genai.Client the store needs.
type fileAPI interface {
	UploadFile(ctx context.Context, name string, r io.Reader, opts *genai.UploadFileOptions) (*genai.File, error)
	DeleteFile(ctx context.Context, name string) error
}

type geminiStore struct {
	files  fileAPI
	logger *utils.Logger
}

func NewGeminiStore(client *genai.Client, logger *utils.Logger) Store {
	return &geminiStore{files: client, logger: logger.WithStage("imagestore")}
}

func (s *geminiStore) UploadImages(ctx context.Context, images []models.ExtractedImage) []models.UploadedFile {
	var uploaded []models.UploadedFile

	s.logger.Info("Uploading images to Gemini", "count", len(images))

	for i, img := range images {
		if img.MIMEType != "image/png" {
			continue
		}

		ref, err := s.uploadOne(ctx, img, i)
		if err != nil {
			s.logger.Error("Image upload failed, rolling back",
				"image_index", i,
				"uploaded_so_far", len(uploaded),
				"error", &utils.RemoteError{Op: "gemini.upload_file", Reason: utils.ReasonImageUpload, Err: err})
			s.DeleteAll(ctx, uploaded)
			return nil
		}

		uploaded = append(uploaded, ref)
		s.logger.Info("Image uploaded", "display_name", ref.DisplayName, "uri", ref.URI)
	}

	return uploaded
}

// uploadOne writes the image to a scratch file, submits it, and removes the
// scratch file before returning regardless of the submission outcome.
func (s *geminiStore) uploadOne(ctx context.Context, img models.ExtractedImage, index int) (models.UploadedFile, error) {
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("decode image payload: %w", err)
	}

	tmp, err := os.CreateTemp("", "podcast-image-*.png")
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("create scratch file: %w", err)
	}
	defer s.removeScratch(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return models.UploadedFile{}, fmt.Errorf("write scratch file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return models.UploadedFile{}, fmt.Errorf("rewind scratch file: %w", err)
	}

	displayName := fmt.Sprintf("podcast_image_%d.png", index)
	file, err := s.files.UploadFile(ctx, "", tmp, &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    img.MIMEType,
	})
	tmp.Close()
	if err != nil {
		return models.UploadedFile{}, err
	}

	return models.UploadedFile{
		Name:        file.Name,
		URI:         file.URI,
		DisplayName: displayName,
	}, nil
}

// removeScratch deletes a scratch file, retrying once after a short delay for
// transient locks (the synthesis engine on some hosts holds handles briefly).
func (s *geminiStore) removeScratch(path string) {
	if err := os.Remove(path); err == nil || os.IsNotExist(err) {
		return
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove scratch file", "path", path, "error", err)
	}
}

func (s *geminiStore) DeleteAll(ctx context.Context, files []models.UploadedFile) {
	if len(files) == 0 {
		return
	}

	s.logger.Info("Deleting uploaded Gemini files", "count", len(files))

	for _, f := range files {
		if err := s.files.DeleteFile(ctx, f.Name); err != nil {
			s.logger.Warn("Failed to delete uploaded file",
				"name", f.Name,
				"uri", f.URI,
				"error", &utils.RemoteError{Op: "gemini.delete_file", Reason: utils.ReasonFileDelete, Err: err})
		}
	}
}
