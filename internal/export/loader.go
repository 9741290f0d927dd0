package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// conversationsFile is the record set inside a ChatGPT data export.
const conversationsFile = "conversations.json"

// Load reads the export at path and returns its raw conversation records.
// path may be the conversations.json itself, a directory containing it, or
// the .zip archive as downloaded.
func Load(path string) ([]RawConversation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat export: %w", err)
	}

	switch {
	case info.IsDir():
		return loadFile(filepath.Join(path, conversationsFile))
	case strings.EqualFold(filepath.Ext(path), ".zip"):
		return loadZip(path)
	default:
		return loadFile(path)
	}
}

func loadFile(path string) ([]RawConversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", conversationsFile, err)
	}
	defer f.Close()
	return decode(f)
}

func loadZip(path string) ([]RawConversation, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if filepath.Base(f.Name) != conversationsFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()
		return decode(rc)
	}
	return nil, fmt.Errorf("%s not found in archive %s", conversationsFile, path)
}

func decode(r io.Reader) ([]RawConversation, error) {
	var records []RawConversation
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", conversationsFile, err)
	}
	return records, nil
}
