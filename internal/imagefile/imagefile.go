// Package imagefile loads candidate images from disk and writes rendered
// classification results back out.
package imagefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// CandidateFile is an image chosen by the user and not yet classified.
type CandidateFile struct {
	Name      string
	Path      string
	MediaType string
	Size      int64
	Data      []byte
}

// ErrNotRegular is returned by Load for directories, devices, etc.
var ErrNotRegular = errors.New("not a regular file")

// Load reads path into a CandidateFile. The media type is the one a file
// picker would declare for the name, not sniffed from the content.
func Load(path string) (*CandidateFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("load image: empty path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("load image %s: %w", path, ErrNotRegular)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return &CandidateFile{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: MediaTypeFor(path),
		Size:      int64(len(data)),
		Data:      data,
	}, nil
}

// MediaTypeFor returns the declared media type for a file name, without
// parameters. Unknown extensions map to application/octet-stream.
func MediaTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".jfif":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case "":
		return "application/octet-stream"
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return "application/octet-stream"
	}
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// WriteResult writes a rendered result (or any value with json/yaml tags)
// to a file in the specified format.
// The format parameter can be "json", "yaml", or "auto" (default).
// If "auto", the format is determined from the file extension.
func WriteResult(model any, outputPath string, format string) error {
	ext := strings.ToLower(filepath.Ext(outputPath))

	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		if ext == ".yaml" || ext == ".yml" {
			actual = "yaml"
		} else {
			actual = "json"
		}
	case "json", "yaml":
		// ok
	default:
		return fmt.Errorf("unsupported result format: %q", format)
	}

	// Validate extension matches format
	switch actual {
	case "yaml":
		if ext != ".yaml" && ext != ".yml" {
			return fmt.Errorf("output path extension %q does not match format %q", ext, actual)
		}
	case "json":
		if ext != ".json" {
			return fmt.Errorf("output path extension %q does not match format %q", ext, actual)
		}
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if actual == "yaml" {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(model); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(model)
}
