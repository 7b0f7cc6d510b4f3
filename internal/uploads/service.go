package uploads

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/tienditalabs/tiendita-backend/pkg/config"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type objectUploader interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (string, error)
}

// File is one image received from the admin panel.
type File struct {
	Filename string
	Data     []byte
}

// UploadedImage is the stored result for one input file.
type UploadedImage struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Service processes and stores product images.
type Service interface {
	UploadImages(ctx context.Context, files []File) ([]UploadedImage, error)
}

type service struct {
	storage objectUploader
	media   config.MediaConfig
	now     func() time.Time
}

// NewService builds the image upload service.
func NewService(storage objectUploader, media config.MediaConfig) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("object storage required")
	}
	return &service{storage: storage, media: media, now: time.Now}, nil
}

// UploadImages validates, normalizes and stores the batch. Every image is
// re-encoded as JPEG and downscaled to the configured width; originals are
// never stored as-is. The batch is all-or-nothing: a single bad file rejects
// the request before anything is uploaded.
func (s *service) UploadImages(ctx context.Context, files []File) ([]UploadedImage, error) {
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}
	if len(files) > s.media.MaxFiles {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("too many files: max %d per request", s.media.MaxFiles))
	}

	maxBytes := s.media.MaxUploadMB * 1024 * 1024
	processed := make([]image.Image, 0, len(files))
	var validationErrs error
	for _, file := range files {
		img, err := s.decodeFile(file, maxBytes)
		if err != nil {
			validationErrs = multierr.Append(validationErrs, err)
			continue
		}
		processed = append(processed, img)
	}
	if validationErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, validationErrs, "invalid upload")
	}

	results := make([]UploadedImage, 0, len(files))
	for i, img := range processed {
		resized := s.resize(img)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(s.media.ImageQuality)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode image")
		}

		object := s.objectName(files[i].Filename)
		url, err := s.storage.Upload(ctx, object, "image/jpeg", buf.Bytes())
		if err != nil {
			return nil, err
		}

		bounds := resized.Bounds()
		results = append(results, UploadedImage{
			Filename: files[i].Filename,
			URL:      url,
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
		})
	}
	return results, nil
}

func (s *service) decodeFile(file File, maxBytes int) (image.Image, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("%s: file is empty", file.Filename)
	}
	if maxBytes > 0 && len(file.Data) > maxBytes {
		return nil, fmt.Errorf("%s: exceeds %dMB limit", file.Filename, s.media.MaxUploadMB)
	}

	detected := mimetype.Detect(file.Data)
	if _, ok := allowedImageTypes[detected.String()]; !ok {
		return nil, fmt.Errorf("%s: unsupported type %s", file.Filename, detected.String())
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: not a decodable image", file.Filename)
	}
	return img, nil
}

func (s *service) resize(img image.Image) image.Image {
	if s.media.ImageMaxWidth <= 0 || img.Bounds().Dx() <= s.media.ImageMaxWidth {
		return img
	}
	return imaging.Resize(img, s.media.ImageMaxWidth, 0, imaging.Lanczos)
}

// objectName buckets uploads by month so the console stays browsable.
func (s *service) objectName(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("products/%s/%s-%s.jpg", s.now().UTC().Format("2006-01"), base, uuid.NewString())
}
