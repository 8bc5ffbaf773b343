package inventory

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FetchProductImage downloads a remote product image once and stores it under
// savePath with a generated filename. Returns the stored path.
func FetchProductImage(url string, savePath string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("image url must not be empty")
	}

	if err := os.MkdirAll(savePath, 0o755); err != nil {
		return "", fmt.Errorf("image directory could not be created: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download failed: HTTP %d", resp.StatusCode)
	}

	ext := imageExtension(url, resp.Header.Get("Content-Type"))
	fileName := uuid.NewString() + ext
	filePath := filepath.Join(savePath, fileName)

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("image file could not be created: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("image could not be saved: %w", err)
	}

	return filePath, nil
}

func imageExtension(url, contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	}
	if ext := strings.ToLower(filepath.Ext(url)); ext == ".png" || ext == ".gif" || ext == ".webp" || ext == ".jpg" || ext == ".jpeg" {
		return ext
	}
	return ".jpg"
}
