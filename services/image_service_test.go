package services

import (
	"bytes"
	"strings"
	"testing"

	"courier-server/utils/errors"
)

func TestReadBlobRejectsOversizedBlob(t *testing.T) {
	_, err := readBlob(strings.NewReader("123456789"), 8)
	if err == nil {
		t.Fatal("expected an error for a blob over the limit")
	}
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		t.Fatalf("expected *errors.APIError, got %T", err)
	}
	if apiErr.Code != "IMAGE_TOO_LARGE" {
		t.Errorf("code = %q, want IMAGE_TOO_LARGE", apiErr.Code)
	}
}

func TestReadBlobKeepsBlobAtLimitIntact(t *testing.T) {
	data, err := readBlob(strings.NewReader("12345678"), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte("12345678")) {
		t.Errorf("data = %q, want the full input back", data)
	}
}
