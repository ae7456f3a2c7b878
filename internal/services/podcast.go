package services

import (
	"context"
	"time"

	"github.com/mvcarvalho/pdf-podcast-api/internal/config"
	"github.com/mvcarvalho/pdf-podcast-api/internal/extractor"
	"github.com/mvcarvalho/pdf-podcast-api/internal/imagestore"
	"github.com/mvcarvalho/pdf-podcast-api/internal/metrics"
	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/scriptwriter"
	"github.com/mvcarvalho/pdf-podcast-api/internal/tts"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// PodcastService drives the pipeline: extract → upload images → script →
// metrics → audio. Stages run in strict sequence; the first stage that
// yields nothing short-circuits the run with a caller-visible message, and
// remote image references are always deleted before returning.
type PodcastService interface {
	GeneratePodcast(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error)
	Close() error
}

type podcastService struct {
	extract    func([]byte, *utils.Logger) (string, []models.ExtractedImage)
	images     imagestore.Store
	writer     scriptwriter.Writer
	synth      tts.Synthesizer
	presenter1 string
	presenter2 string
	client     *genai.Client
	logger     *utils.Logger
}

func NewService(cfg *config.Config, logger *utils.Logger) (PodcastService, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	engine, err := tts.NewEspeakEngine(cfg.TTSBinary)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &podcastService{
		extract: extractor.ExtractContent,
		images:  imagestore.NewGeminiStore(client, logger),
		writer: scriptwriter.NewGeminiWriter(client, cfg.GeminiModel,
			cfg.Presenter1Name, cfg.Presenter2Name, cfg.TargetDurationMinutes, logger),
		synth: tts.NewSynthesizer(engine, cfg.Presenter1Name, cfg.Presenter2Name,
			cfg.PrimaryVoiceID, cfg.SecondaryVoiceID, logger),
		presenter1: cfg.Presenter1Name,
		presenter2: cfg.Presenter2Name,
		client:     client,
		logger:     logger,
	}, nil
}

func (s *podcastService) Close() error {
	return s.client.Close()
}

func (s *podcastService) GeneratePodcast(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	runID := utils.GenerateID()
	logger := s.logger.With("run_id", runID, "filename", req.Filename)

	logger.Info("Starting podcast generation", "file_size", len(req.File))

	// Stage 1: content extraction.
	textContent, imageData := s.extract(req.File, logger)
	if textContent == "" && len(imageData) == 0 {
		logger.Warn("No content extracted from PDF")
		return nil, utils.NewBadRequestError("Não foi possível extrair nenhum conteúdo do PDF.")
	}

	// Stage 1b: image upload. An upload failure is not terminal; the script
	// degrades to text only. Whatever was uploaded is deleted before this
	// function returns, success or not, on a context detached from the
	// request so client cancellation cannot leak remote files.
	var uploadedImages []models.UploadedFile
	if len(imageData) > 0 {
		uploadedImages = s.images.UploadImages(ctx, imageData)
		if len(uploadedImages) == 0 {
			logger.Warn("No images uploaded, generating text-only script")
		}
	}
	defer func() {
		if len(uploadedImages) == 0 {
			return
		}
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		s.images.DeleteAll(cleanupCtx, uploadedImages)
	}()

	// Stage 2: script generation.
	script, err := s.writer.GenerateScript(ctx, textContent, uploadedImages)
	if err != nil {
		logger.Error("Script generation failed", "error", err)
		return nil, utils.NewInternalError("Não foi possível gerar o roteiro do podcast.")
	}

	// Stage 3: metrics, which also strips the topics footer from the text
	// handed to synthesis.
	audioScript, podcastMetrics := metrics.Calculate(script, s.presenter1, s.presenter2)
	logger.Info("Podcast metrics calculated",
		"estimated_time", podcastMetrics.EstimatedTime,
		"script_length", len(script))

	// Stage 4: audio synthesis.
	segments, err := s.synth.GenerateSegments(ctx, audioScript)
	if err != nil {
		logger.Error("Audio synthesis failed", "error", err)
		return nil, utils.NewInternalError("Ocorreu uma falha na geração dos arquivos de áudio do podcast.")
	}

	logger.Info("Podcast generated", "segment_count", len(segments))

	return &models.GenerateResponse{
		ID:       runID,
		Script:   script,
		Segments: segments,
		Metrics:  podcastMetrics,
	}, nil
}
