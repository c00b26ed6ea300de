package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const DefaultMimeType = "image/png"

var ErrNotDataURI = errors.New("not a base64 data uri")

// Encode собирает data URI вида data:<mime>;base64,<payload>
func Encode(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Decode разбирает base64 data URI и возвращает MIME-тип и содержимое
func Decode(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURI
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrNotDataURI
	}

	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}

	return mimeType, data, nil
}
