package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AadhishGIT/ChatApp/config"
)

// APIError is an application-level failure: the backend answered, but the
// response body carried an error field. Distinct from transport failures,
// which come back as ordinary wrapped errors.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client wraps the RAG backend API
type Client struct {
	baseURL    string
	askPath    string
	uploadPath string
	resetPath  string
	httpClient *http.Client
	log        *logrus.Entry
}

// New creates a backend client from configuration. Pass nil logger to
// discard client logs.
func New(cfg *config.Config, logger *logrus.Entry) *Client {
	baseURL := cfg.Backend.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Client{
		baseURL:    baseURL,
		askPath:    cfg.Backend.AskPath,
		uploadPath: cfg.Backend.UploadPath,
		resetPath:  cfg.Backend.ResetPath,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger,
	}
}

// askRequest is the ask endpoint payload
type askRequest struct {
	Question string   `json:"question"`
	Sources  []string `json:"sources"`
}

// askResponse is the ask endpoint reply
type askResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// uploadResponse is the upload endpoint reply
type uploadResponse struct {
	Error string `json:"error,omitempty"`
}

// resetResponse is the reset endpoint reply
type resetResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// healthResponse is the root endpoint reply
type healthResponse struct {
	Message string `json:"message"`
}

// Ask sends a question scoped to the given source documents and returns
// the answer text. An empty answer with nil error means the backend
// replied without an answer field; the caller chooses the fallback.
func (c *Client) Ask(ctx context.Context, question string, sources []string) (string, error) {
	if sources == nil {
		sources = []string{}
	}
	jsonData, err := json.Marshal(askRequest{Question: question, Sources: sources})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + c.askPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.WithFields(logrus.Fields{"sources": len(sources)}).Debug("asking backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("backend API error: %d - %s", resp.StatusCode, string(body))
	}

	var result askResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", &APIError{Message: result.Error}
	}

	return result.Answer, nil
}

// Upload sends a PDF as a multipart form. A nil return means the backend
// accepted and indexed the file.
func (c *Client) Upload(ctx context.Context, name string, content io.Reader) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	url := c.baseURL + c.uploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.WithField("file", name).Debug("uploading document")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return &APIError{Message: result.Error}
	}

	return nil
}

// Reset clears the backend knowledge base. Returns the server-supplied
// confirmation message, which may be empty.
func (c *Client) Reset(ctx context.Context) (string, error) {
	url := c.baseURL + c.resetPath
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debug("resetting knowledge base")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("backend API error: %d - %s", resp.StatusCode, string(body))
	}

	var result resetResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", &APIError{Message: result.Error}
	}

	return result.Message, nil
}

// Health probes the backend root route and returns its status message
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("backend API error: %d - %s", resp.StatusCode, string(body))
	}

	var result healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Message, nil
}
