// Package datauri converts between base64 data: URIs and raw media.
package datauri

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalid = errors.New("invalid data URI")

// Parse decodes a base64 data URI. When the declared type is missing or
// generic, the type is sniffed from the payload.
func Parse(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalid
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalid
	}

	params := strings.Split(meta, ";")
	if params[len(params)-1] != "base64" {
		return "", nil, ErrInvalid
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalid
	}

	mimeType = params[0]
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}
	return mimeType, data, nil
}

// Encode builds a base64 data URI. An empty mimeType is sniffed from data.
func Encode(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Extension returns a file extension (with dot) for data, sniffed from its content.
func Extension(data []byte) string {
	return mimetype.Detect(data).Extension()
}
