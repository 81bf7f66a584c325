package services

import (
	"bytes"
	"courier-server/utils/errors"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageService is the object-storage collaborator: upload a blob, get back a
// durable retrieval URL. Backed by GridFS.
type ImageService struct {
	store *Store
}

func NewImageService(store *Store) *ImageService {
	return &ImageService{store: store}
}

const maxImageSize = 10 << 20 // 10 MiB

// readBlob reads the whole blob, rejecting anything over max instead of
// storing a truncated copy.
func readBlob(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, errors.Wrap(err, "STORAGE_ERROR", "Failed to read image.", http.StatusInternalServerError)
	}
	if int64(len(data)) > max {
		return nil, errors.ErrImageTooLarge
	}
	return data, nil
}

// Upload stores the blob and returns its retrieval URL path.
func (s *ImageService) Upload(filename string, r io.Reader) (string, error) {
	data, err := readBlob(r, maxImageSize)
	if err != nil {
		return "", err
	}
	id, err := s.store.Images.UploadFromStream(filename, bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "STORAGE_ERROR", "Failed to upload image.", http.StatusInternalServerError)
	}
	return "/images/" + id.Hex(), nil
}

// Download streams the blob to w.
func (s *ImageService) Download(id string, w io.Writer) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.ErrNotFound
	}
	if _, err := s.store.Images.DownloadToStream(objID, w); err != nil {
		return errors.ErrNotFound
	}
	return nil
}
