package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // PNG decoding
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decoding from mobile cameras
)

const (
	photoMaxBytes = 150 * 1024
	photoMinBytes = 50 * 1024
	// photoMaxEdge caps the longest side of stored attendance photos.
	photoMaxEdge = 1280
)

var ErrFileForbidden = apperror.New(apperror.KindForbidden, "you are not allowed to view this file")

// Viewer is the caller asking for a stored file.
type Viewer struct {
	EmployeeID string
	// Lead is set for admins, supervisors and department heads, who may open
	// any attendance photo or report attachment.
	Lead bool
}

type FileService interface {
	// UploadAttendancePhoto normalizes a check-in/out photo to JPEG and stores it.
	UploadAttendancePhoto(ctx context.Context, employeeID string, at time.Time, kind string, file io.Reader, filename string) (string, error)

	// UploadReportAttachment stores a report attachment unchanged.
	UploadReportAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Open streams a stored file with its content type. Only the employee the
	// file belongs to and leads may open it.
	Open(ctx context.Context, path string, viewer Viewer) (io.ReadCloser, string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAttendancePhoto stores the photo under attendance/{employee}/{date}/{kind}-{unix}.jpg
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, employeeID string, at time.Time, kind string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, webp allowed")
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, photoMaxBytes, photoMinBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	newFilename := fmt.Sprintf("%s-%d.jpg", strings.ToLower(kind), at.Unix())
	key := path.Join("attendance", employeeID, at.Format("2006-01-02"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) UploadReportAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	newFilename := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().Unix(), ext)
	key := path.Join("reports", employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, key, contentTypeFor(ext))
	if err != nil {
		return "", fmt.Errorf("failed to upload report attachment: %w", err)
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

func (s *fileServiceImpl) Open(ctx context.Context, key string, viewer Viewer) (io.ReadCloser, string, error) {
	owner, err := ownerOf(key)
	if err != nil {
		return nil, "", err
	}
	if !viewer.Lead && owner != viewer.EmployeeID {
		return nil, "", ErrFileForbidden
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return rc, contentTypeFor(strings.ToLower(path.Ext(key))), nil
}

// ownerOf reads the employee id out of attendance/{employee}/... and
// reports/{employee}/... keys.
func ownerOf(key string) (string, error) {
	parts := strings.Split(path.Clean("/" + key)[1:], "/")
	if len(parts) < 3 || (parts[0] != "attendance" && parts[0] != "reports") || parts[1] == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", storage.ErrInvalidPath, key)
	}
	return parts[1], nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// compressImage re-encodes an image as JPEG, honouring EXIF orientation, and
// steps quality down (then size) until it lands within [minSize, maxSize].
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(buffer), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if b := img.Bounds(); b.Dx() > photoMaxEdge || b.Dy() > photoMaxEdge {
		img = imaging.Fit(img, photoMaxEdge, photoMaxEdge, imaging.Lanczos)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: shrink towards the middle of the range
	target := float64(maxSize+minSize) / 2
	ratio := math.Sqrt(target / float64(len(compressed)))
	b := img.Bounds()
	width := max(int(float64(b.Dx())*ratio), 320)
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	return encodeJPEG(resized, 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
