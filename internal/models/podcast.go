package models

// ExtractedImage is an embedded PDF image re-encoded to PNG and base64-encoded.
type ExtractedImage struct {
	MIMEType string
	Data     string
}

// UploadedFile is a reference to an image stored in the Gemini File API.
// Name is the remote identifier used for deletion; URI is embeddable in prompts.
type UploadedFile struct {
	Name        string
	URI         string
	DisplayName string
}

// AudioSegment is one synthesized WAV clip for a single script line.
type AudioSegment struct {
	Filename string
	Data     []byte
}

// PodcastMetrics summarizes a generated podcast. Field names follow the
// response metadata contract consumed by the frontend.
type PodcastMetrics struct {
	NumParticipants int    `json:"num_participants"`
	PresenterNames  string `json:"presenter_names"`
	EstimatedTime   string `json:"estimated_time"`
	Topics          string `json:"topics"`
}

// GenerateRequest is the parsed upload handed to the orchestrator.
type GenerateRequest struct {
	File     []byte
	Filename string
}

// GenerateResponse is the full outcome of one podcast run. Everything in it
// is request-scoped; nothing is persisted.
type GenerateResponse struct {
	ID       string
	Script   string
	Segments []AudioSegment
	Metrics  *PodcastMetrics
}
