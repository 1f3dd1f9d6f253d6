package recognizer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/korean-dog/receipt-recognizer/internal/pdftext"
	"github.com/korean-dog/receipt-recognizer/internal/scanning"
)

// Environment variables consulted when Config leaves a parameter empty.
const (
	EnvAPIURL      = "RECEIPT_RECOGNIZER_API_URL"
	EnvClientToken = "RECEIPT_RECOGNIZER_CLIENT_TOKEN"
)

// Config holds the connection parameters for a Client. It is copied at
// construction and never read again from the outside.
type Config struct {
	// APIURL is the recognition server base URL. Empty means local mode:
	// only searchable PDFs (and an injected Scanner, if any) can be handled.
	APIURL string
	// ClientToken authenticates requests to the server. Required whenever
	// APIURL is set.
	ClientToken string
	// Timeout bounds each request to the server. Defaults to 30 seconds.
	Timeout time.Duration
	// SkipTLSVerify disables TLS certificate verification.
	SkipTLSVerify bool
	// ProcessPDFLocally extracts PDF text locally instead of uploading the
	// file to the server.
	ProcessPDFLocally bool
}

// Processor is the local PDF extraction collaborator.
type Processor interface {
	IsSearchable(path string) bool
	Process(path string) (*pdftext.Extraction, error)
}

// pdfProcessor is the default Processor backed by the pdftext package.
type pdfProcessor struct{}

func (pdfProcessor) IsSearchable(path string) bool {
	return pdftext.IsSearchable(path)
}

func (pdfProcessor) Process(path string) (*pdftext.Extraction, error) {
	return pdftext.Process(path)
}

// Client recognizes transfer receipts, locally for searchable PDFs and via
// the recognition server for everything else.
type Client struct {
	cfg       Config
	http      *http.Client
	processor Processor
	scanner   scanning.Scanner
	logger    *slog.Logger
	localMode bool
}

// Option configures a Client.
type Option func(*Client)

// WithProcessor replaces the local PDF extraction collaborator.
func WithProcessor(p Processor) Option {
	return func(c *Client) { c.processor = p }
}

// WithScanner injects an external recognition capability used for non-PDF
// files when no server is configured.
func WithScanner(s scanning.Scanner) Option {
	return func(c *Client) { c.scanner = s }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client. Missing connection parameters fall back to the
// RECEIPT_RECOGNIZER_* environment variables; with no API URL at all the
// client runs in local mode. A configured URL without a token is a
// *ConfigError. Server version compatibility is checked once here, and a
// mismatch is only logged.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv(EnvAPIURL)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.ClientToken == "" {
		cfg.ClientToken = os.Getenv(EnvClientToken)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		cfg:       cfg,
		processor: pdfProcessor{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.APIURL == "" {
		c.localMode = true
		c.logger.Warn("no API URL configured, working in local mode (PDF processing only)")
		return c, nil
	}

	if cfg.ClientToken == "" {
		return nil, &ConfigError{Missing: "client token", Env: EnvClientToken}
	}

	transport := http.DefaultTransport
	if cfg.SkipTLSVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	c.http = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	c.checkConnection(context.Background())
	return c, nil
}

// checkConnection asks the server for its version and warns on
// incompatibility. Connection problems here are never fatal: the server may
// simply be down while local processing still works.
func (c *Client) checkConnection(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"/api/health", nil)
	if err != nil {
		c.logger.Warn("could not check server version", "error", err)
		return
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("could not check server version", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("could not check server version", "status", resp.StatusCode)
		return
	}

	var info struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.logger.Warn("could not check server version", "error", err)
		return
	}
	if info.Version == "" {
		info.Version = "0.0.0"
	}

	if err := CheckCompatibility(Version, info.Version); err != nil {
		c.logger.Warn("server version mismatch", "client", Version, "server", info.Version)
	}
}

// Recognize extracts the fields of a receipt file. Searchable PDFs are
// processed locally when local processing is enabled (or no server is
// configured); everything else goes to the server, or to the injected
// scanner in local mode. Local-path failures come back as a failure-flagged
// result, remote-path failures as typed errors.
func (c *Client) Recognize(ctx context.Context, path string) (Fields, error) {
	isPDF := strings.EqualFold(filepath.Ext(path), ".pdf")

	if isPDF && (c.cfg.ProcessPDFLocally || c.localMode) {
		return c.recognizeLocally(path), nil
	}

	if c.localMode {
		if c.scanner != nil {
			return c.recognizeWithScanner(ctx, path)
		}
		return nil, &ConfigError{Missing: "API URL", Env: EnvAPIURL}
	}

	return c.sendToAPI(ctx, path)
}

// recognizeLocally runs the PDF extraction path. It never returns an error:
// the heuristics are best-effort, so failures are reported as data.
func (c *Client) recognizeLocally(path string) Fields {
	if !c.processor.IsSearchable(path) {
		return Fields{
			"success":     false,
			"error":       "PDF contains a scanned image, OCR is required",
			"source_kind": "pdf",
			"is_scanned":  true,
		}
	}

	ex, err := c.processor.Process(path)
	if err != nil {
		c.logger.Error("local extraction failed", "path", path, "error", err)
		return Fields{
			"success":     false,
			"error":       err.Error(),
			"source_kind": "pdf",
		}
	}

	result := Fields{
		"success":     true,
		"source_kind": "pdf",
		"is_scanned":  false,
		"full_text":   ex.FullText,
		"extracted":   ex.Matches,
		"mapped":      MapExtraction(ex),
	}
	if ex.Bank != "" {
		result["bank"] = ex.Bank
	}
	return result
}

// recognizeWithScanner delegates to the injected external capability and
// standardizes its loosely-named output.
func (c *Client) recognizeWithScanner(ctx context.Context, path string) (Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	raw, err := c.scanner.Recognize(ctx, data, contentTypeFor(path))
	if err != nil {
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	result, err := Standardize(Fields(raw))
	if err != nil {
		return nil, err
	}
	result["source_kind"] = "scanner"
	return result, nil
}

// sendToAPI uploads the file to the recognition server and validates the
// returned fields.
func (c *Client) sendToAPI(ctx context.Context, path string) (Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", contentTypeFor(path))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	url := c.cfg.APIURL + "/api/" + APIVersion + "/recognize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Client-Token", c.cfg.ClientToken)
	req.Header.Set("X-Client-Version", Version)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("network error: %v", err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("reading response: %v", err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		message := "unknown error"
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	var payload struct {
		Data Fields `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid JSON response: %v", err), Err: err}
	}

	if err := Validate(payload.Data); err != nil {
		return nil, err
	}

	payload.Data["source_kind"] = "api"
	return payload.Data, nil
}

// contentTypeFor maps a file extension to the content type sent to the
// server, following the formats receipts arrive in from phones.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
