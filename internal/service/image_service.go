package service

import (
	"crypto/rand"
	"encoding/hex"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/pkg/config"

	"gorm.io/gorm"
)

// ImageService stores uploaded images under the public directory,
// re-encoded as JPEG so the stored format never depends on the client.
type ImageService struct {
	db       *gorm.DB
	baseDir  string
	maxBytes int64
}

func NewImageService(db *gorm.DB, cfg *config.UploadConfig) *ImageService {
	return &ImageService{db: db, baseDir: cfg.Dir, maxBytes: cfg.MaxBytes}
}

// UploadType selects the directory layout for a stored image.
type UploadType string

const (
	UploadQR       UploadType = "qr"
	UploadCategory UploadType = "category"
	UploadProduct  UploadType = "product"
)

type SaveImageInput struct {
	Type        UploadType
	CategoryKey string
	ProductSlug string
}

type SavedImage struct {
	URL          string `json:"url"`
	RelativePath string `json:"relativePath"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
}

// sanitizeSegment strips anything that could escape the upload root;
// an empty result falls back to the given default.
func sanitizeSegment(raw, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "-_")
	if out == "" {
		return fallback
	}
	return out
}

func randomSuffix() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "000000000000"
	}
	return hex.EncodeToString(buf)
}

func (s *ImageService) relativeDir(hotelSlug string, in SaveImageInput) string {
	root := sanitizeSegment(hotelSlug, "hotel")
	switch in.Type {
	case UploadQR:
		return path.Join(root, "qr")
	case UploadCategory:
		return path.Join(root, "categories", sanitizeSegment(in.CategoryKey, "general"))
	default:
		return path.Join(root, "products", sanitizeSegment(in.ProductSlug, "general"))
	}
}

// SaveImage decodes the upload, re-encodes it as JPEG and writes it
// under <hotel-slug>/<type-specific-path>/<name>-<random>.jpg.
func (s *ImageService) SaveImage(hotelID uint, file *multipart.FileHeader, in SaveImageInput) (*SavedImage, error) {
	var hotel model.Hotel
	if err := s.db.Select("id", "slug").First(&hotel, hotelID).Error; err != nil {
		return nil, apperror.NotFound("Hotel not found")
	}

	if file.Size > s.maxBytes {
		return nil, apperror.New(413, "Image exceeds the maximum allowed size")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.BadRequest("Only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	decoded, _, err := image.Decode(src)
	if err != nil {
		return nil, apperror.BadRequest("Unsupported or corrupted image")
	}

	base := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	name := sanitizeSegment(base, "image") + "-" + randomSuffix() + ".jpg"

	relDir := s.relativeDir(hotel.Slug, in)
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, err
	}

	absPath := filepath.Join(absDir, name)
	out, err := os.Create(absPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := jpeg.Encode(out, decoded, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}

	info, err := out.Stat()
	if err != nil {
		return nil, err
	}

	relPath := path.Join(relDir, name)
	return &SavedImage{
		URL:          "/uploads/" + relPath,
		RelativePath: relPath,
		Format:       "jpeg",
		Size:         info.Size(),
	}, nil
}
