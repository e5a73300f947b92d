package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jayanta8509/storage-audio/pkg/log"
)

const (
	defaultServerURL   = "http://127.0.0.1:8072"
	defaultFileSize    = 1024
	defaultPassCount   = 5
	defaultParallel    = 8
	defaultHTTPTimeout = 2 * time.Minute

	httpRetryMax = 3
)

type config struct {
	serverURL   string
	fileSize    int
	passCount   int
	parallel    int
	httpTimeout time.Duration
}

type uploadResponse struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	Token            string  `json:"token"`
	SecureLink       string  `json:"secure_link"`
	BaseURLDetected  string  `json:"base_url_detected"`
	ExpiresAt        string  `json:"expires_at"`
	FileSize         int64   `json:"file_size"`
	OriginalFilename string  `json:"original_filename"`
	ExpiresInHours   float64 `json:"expires_in_hours"`
	ExpiresInMinutes float64 `json:"expires_in_minutes"`
}

type fileInfoResponse struct {
	Token     string `json:"token"`
	Category  string `json:"category"`
	FileSize  int64  `json:"file_size"`
	ExpiresAt string `json:"expires_at"`
}

// mediaClient wraps a retrying HTTP client for the service endpoints.
type mediaClient struct {
	baseURL    string
	httpClient *http.Client
}

func newMediaClient(baseURL string, timeout time.Duration) *mediaClient {
	retry := retryablehttp.NewClient()
	retry.RetryMax = httpRetryMax
	retry.HTTPClient.Timeout = timeout
	retry.Logger = nil

	return &mediaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: retry.StandardClient(),
	}
}

func (c *mediaClient) doRequest(ctx context.Context, method, url string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, fmt.Errorf("request returned %s: %s", resp.Status, string(respBody))
	}

	return respBody, nil
}

func (c *mediaClient) upload(ctx context.Context, endpoint, filename string, data []byte) (*uploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write multipart data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, c.baseURL+endpoint, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	var resp uploadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("parse upload response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("upload rejected: %s", resp.Message)
	}
	if resp.Token == "" || resp.SecureLink == "" {
		return nil, errors.New("upload response missing token or link")
	}
	return &resp, nil
}

func (c *mediaClient) fetchInfo(ctx context.Context, token string) (*fileInfoResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/files/"+token+"/info", nil, "")
	if err != nil {
		return nil, fmt.Errorf("fetch info failed: %w", err)
	}

	var info fileInfoResponse
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, fmt.Errorf("parse info response: %w", err)
	}
	return &info, nil
}

func (c *mediaClient) download(ctx context.Context, link string) ([]byte, error) {
	body, err := c.doRequest(ctx, http.MethodGet, link, nil, "")
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return body, nil
}

func (c *mediaClient) checkHealth(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/health", nil, "")
	return err
}

type tester struct {
	cfg    config
	client *mediaClient

	mu         sync.Mutex
	uploads    int
	downloads  int
	infos      int
	totalBytes int64
}

func (t *tester) record(uploaded, downloaded int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.uploads++
	t.downloads++
	t.infos++
	t.totalBytes += uploaded + downloaded
}

// performPass uploads a generated file, checks the info endpoint and verifies
// the downloaded bytes match what was sent.
func (t *tester) performPass(ctx context.Context, endpoint, filename string) error {
	data := make([]byte, t.cfg.fileSize)
	if _, err := rand.Read(data); err != nil {
		return fmt.Errorf("generate random data: %w", err)
	}

	resp, err := t.client.upload(ctx, endpoint, filename, data)
	if err != nil {
		return err
	}
	if resp.FileSize != int64(len(data)) {
		return fmt.Errorf("size mismatch: sent %d, reported %d", len(data), resp.FileSize)
	}
	if _, err := time.Parse(time.RFC3339, resp.ExpiresAt); err != nil {
		return fmt.Errorf("expires_at not RFC 3339: %q", resp.ExpiresAt)
	}

	info, err := t.client.fetchInfo(ctx, resp.Token)
	if err != nil {
		return err
	}
	if info.Token != resp.Token {
		return fmt.Errorf("info token mismatch: expected %s, got %s", resp.Token, info.Token)
	}
	if info.FileSize != int64(len(data)) {
		return fmt.Errorf("info size mismatch: expected %d, got %d", len(data), info.FileSize)
	}

	body, err := t.client.download(ctx, resp.SecureLink)
	if err != nil {
		return err
	}
	if !bytes.Equal(body, data) {
		return errors.New("downloaded data mismatch")
	}

	t.record(int64(len(data)), int64(len(body)))
	return nil
}

func (t *tester) runSequential(ctx context.Context) error {
	fmt.Printf("Step 1: Running %d sequential audio and image passes\n", t.cfg.passCount)
	for i := 1; i <= t.cfg.passCount; i++ {
		if err := t.performPass(ctx, "/upload-audio", fmt.Sprintf("media-test-%d.mp3", i)); err != nil {
			return fmt.Errorf("audio pass %d failed: %w", i, err)
		}
		if err := t.performPass(ctx, "/upload-image", fmt.Sprintf("media-test-%d.png", i)); err != nil {
			return fmt.Errorf("image pass %d failed: %w", i, err)
		}
	}
	fmt.Println("✓ Step 1 completed successfully")
	return nil
}

func (t *tester) runRejection(ctx context.Context) error {
	fmt.Println("Step 2: Verifying unsupported uploads are rejected")

	_, err := t.client.upload(ctx, "/upload-audio", "media-test.pdf", []byte("%PDF-1.4"))
	if err == nil {
		return errors.New("unsupported extension was accepted")
	}
	_, err = t.client.upload(ctx, "/upload-audio", "media-test.png", []byte("png bytes"))
	if err == nil {
		return errors.New("image on the audio endpoint was accepted")
	}

	fmt.Println("✓ Step 2 completed successfully")
	return nil
}

func (t *tester) runParallel(ctx context.Context) error {
	fmt.Printf("Step 3: Running %d parallel passes with colliding filenames\n", t.cfg.parallel)

	var wg sync.WaitGroup
	errCh := make(chan error, t.cfg.parallel)

	for i := 0; i < t.cfg.parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.performPass(ctx, "/upload-audio", "same-name.mp3"); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return fmt.Errorf("parallel pass failed: %w", err)
	}

	fmt.Println("✓ Step 3 completed successfully")
	return nil
}

func (t *tester) run(ctx context.Context) error {
	if err := t.client.checkHealth(ctx); err != nil {
		return fmt.Errorf("server not reachable at %s: %w", t.cfg.serverURL, err)
	}

	start := time.Now()
	if err := t.runSequential(ctx); err != nil {
		return err
	}
	if err := t.runRejection(ctx); err != nil {
		return err
	}
	if err := t.runParallel(ctx); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("\nUploads: %d  Downloads: %d  Info requests: %d\n", t.uploads, t.downloads, t.infos)
	fmt.Printf("Total bytes moved: %d in %.2fs\n", t.totalBytes, elapsed.Seconds())
	return nil
}

func main() {
	server := flag.String("server", defaultServerURL, "Media server base URL")
	size := flag.Int("size", defaultFileSize, "Test file size in bytes")
	passes := flag.Int("passes", defaultPassCount, "Number of sequential passes per category")
	parallel := flag.Int("parallel", defaultParallel, "Number of concurrent uploads in the parallel step")
	timeout := flag.Duration("http-timeout", defaultHTTPTimeout, "HTTP client timeout")
	flag.Parse()

	log.SetQuietMode()

	cfg := config{
		serverURL:   strings.TrimRight(*server, "/"),
		fileSize:    *size,
		passCount:   *passes,
		parallel:    *parallel,
		httpTimeout: *timeout,
	}
	if cfg.fileSize <= 0 {
		fmt.Fprintf(os.Stderr, "invalid file size: %d\n", cfg.fileSize)
		os.Exit(1)
	}

	tester := &tester{cfg: cfg, client: newMediaClient(cfg.serverURL, cfg.httpTimeout)}

	if err := tester.run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "media-test failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ All test scenarios completed successfully")
}
