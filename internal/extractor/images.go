package extractor

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"sort"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractImages locates every embedded image, re-encodes it to PNG and
// base64-encodes the result. Discovery order (page, then object number)
// is the index used for naming the scratch/upload files later.
func extractImages(data []byte, logger *utils.Logger) []models.ExtractedImage {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageImages, err := api.ExtractImagesRaw(bytes.NewReader(data), nil, conf)
	if err != nil {
		logger.Warn("Failed to extract images from PDF", "error", err)
		return nil
	}

	var images []models.ExtractedImage

	for _, byObjNr := range pageImages {
		// Map iteration order is random; sort for a stable image index.
		objNrs := make([]int, 0, len(byObjNr))
		for objNr := range byObjNr {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := byObjNr[objNr]

			encoded, err := reencodePNG(img)
			if err != nil {
				logger.Warn("Skipping undecodable embedded image",
					"page", img.PageNr, "obj", objNr, "error", err)
				continue
			}

			images = append(images, models.ExtractedImage{
				MIMEType: "image/png",
				Data:     encoded,
			})
		}
	}

	return images
}

func reencodePNG(img model.Image) (string, error) {
	raw, err := io.ReadAll(img)
	if err != nil {
		return "", err
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
