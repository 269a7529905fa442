// Package uploader pushes screenshot files to a running extraction endpoint.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Accepted screenshot extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Options for creating Uploader.
type Options struct {
	Endpoint    string
	Concurrency int
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// Uploader posts every screenshot in a directory to the extract endpoint,
// a bounded number of files in flight at a time.
type Uploader struct {
	endpoint    string
	concurrency int
	client      *http.Client
	logger      zerolog.Logger
}

// New creates a new Uploader.
func New(opts Options) *Uploader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Uploader{
		endpoint:    opts.Endpoint,
		concurrency: opts.Concurrency,
		client:      &http.Client{Timeout: opts.Timeout},
		logger:      opts.Logger.With().Str("component", "uploader").Logger(),
	}
}

// FileResult is the outcome of one uploaded file.
type FileResult struct {
	Path    string
	Status  string
	Message string
	Stored  int
	Err     error
}

// Summary aggregates a whole directory upload.
type Summary struct {
	Files    int
	Uploaded int
	Stored   int
	Failed   int
	Results  []FileResult
}

// UploadDir uploads every image file directly inside dir, in name order.
// Per-file failures are recorded in the summary, not returned as errors.
func (u *Uploader) UploadDir(ctx context.Context, dir string) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	results := make([]FileResult, len(paths))
	sem := make(chan struct{}, u.concurrency)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = u.uploadFile(ctx, path)
		}(i, path)
	}
	wg.Wait()

	summary := &Summary{Files: len(paths), Results: results}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Uploaded++
		summary.Stored += r.Stored
	}
	return summary, nil
}

// batchResponse is the subset of the extract response the uploader reports.
type batchResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details []struct {
		Token string `json:"token"`
	} `json:"details"`
}

func (u *Uploader) uploadFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}

	image, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("read file: %w", err)
		return result
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		result.Err = fmt.Errorf("create form file: %w", err)
		return result
	}
	if _, err := part.Write(image); err != nil {
		result.Err = fmt.Errorf("write form file: %w", err)
		return result
	}
	if err := writer.Close(); err != nil {
		result.Err = fmt.Errorf("close form: %w", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		result.Err = fmt.Errorf("create request: %w", err)
		return result
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("upload: %w", err)
		return result
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Err = fmt.Errorf("read response: %w", err)
		return result
	}
	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
		return result
	}

	var batch batchResponse
	if err := json.Unmarshal(respBody, &batch); err != nil {
		result.Err = fmt.Errorf("unmarshal response: %w", err)
		return result
	}

	result.Status = batch.Status
	result.Message = batch.Message
	result.Stored = len(batch.Details)

	u.logger.Info().Str("file", filepath.Base(path)).Str("status", batch.Status).
		Int("stored", result.Stored).Msg("file uploaded")
	return result
}
