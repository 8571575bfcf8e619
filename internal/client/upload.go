package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TranscriptExt is the only accepted transcript extension.
const TranscriptExt = ".txt"

// Upload is one transcript ready to be sent.
type Upload struct {
	Filename string
	Content  []byte
}

// Size returns the content length in bytes.
func (u Upload) Size() int64 {
	return int64(len(u.Content))
}

// Validate checks the extension, size and encoding of the transcript.
func (u Upload) Validate(maxBytes int64) error {
	if err := validateName(u.Filename); err != nil {
		return err
	}
	if maxBytes > 0 && u.Size() > maxBytes {
		return TooLarge(maxBytes)
	}
	if len(u.Content) == 0 {
		return NewValidationError("file", "Transcript file is empty")
	}
	if !utf8.Valid(u.Content) {
		return NewValidationError("file", "Transcript must be UTF-8 encoded text")
	}
	return nil
}

// LoadUpload reads a transcript from disk. The size limit is checked before
// the file is read.
func LoadUpload(path string, maxBytes int64) (Upload, error) {
	name := filepath.Base(path)
	if err := validateName(name); err != nil {
		return Upload{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, NewTransportErrorWithCause(ErrTypeValidation, fmt.Sprintf("cannot read %s", name), err)
	}
	if info.IsDir() {
		return Upload{}, NewValidationError("file", fmt.Sprintf("%s is a directory", name))
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Upload{}, TooLarge(maxBytes)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- user-selected transcript
	if err != nil {
		return Upload{}, NewTransportErrorWithCause(ErrTypeValidation, fmt.Sprintf("cannot read %s", name), err)
	}

	up := Upload{Filename: name, Content: content}
	return up, up.Validate(maxBytes)
}

// ReadUpload reads a transcript from r, never buffering more than one byte
// past maxBytes.
func ReadUpload(filename string, r io.Reader, maxBytes int64) (Upload, error) {
	if err := validateName(filename); err != nil {
		return Upload{}, err
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return Upload{}, NewTransportErrorWithCause(ErrTypeValidation, "failed to read upload", err)
	}

	up := Upload{Filename: filepath.Base(filename), Content: content}
	return up, up.Validate(maxBytes)
}

func validateName(name string) error {
	if name == "" {
		return NewValidationError("file", "Please select a file")
	}
	if !strings.EqualFold(filepath.Ext(name), TranscriptExt) {
		return NewValidationError("file", "Please select a .txt file")
	}
	return nil
}

// TooLarge is the validation error for a transcript over maxBytes.
func TooLarge(maxBytes int64) error {
	return NewValidationError("file", fmt.Sprintf("Transcript exceeds the %d MB limit", maxBytes/(1024*1024)))
}
