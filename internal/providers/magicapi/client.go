// Package magicapi talks to the MagicAPI wan image-to-video service. Every
// call is a single request/response; retries are left to the caller.
package magicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lorastudio/internal/domain"
	"lorastudio/internal/infra"
)

const (
	DefaultUploadURL = "https://api.magicapi.dev/api/v1/magicapi/image-upload/upload"
	DefaultRunURL    = "https://prod.api.market/api/v1/magicapi/wan-text-to-image/image-to-video/run"
	DefaultStatusURL = "https://prod.api.market/api/v1/magicapi/wan-text-to-image/image-to-video/status"

	headerAPIKey = "x-magicapi-key"
	uploadField  = "filename"
)

var tracer = otel.Tracer("lorastudio/magicapi")

// CredentialSource supplies the API key at call time.
type CredentialSource interface {
	APIKey() string
}

// StaticKey is a CredentialSource with a fixed key.
type StaticKey string

func (k StaticKey) APIKey() string { return strings.TrimSpace(string(k)) }

// Options configures the MagicAPI client.
type Options struct {
	Credentials    CredentialSource
	UploadURL      string
	RunURL         string
	StatusURL      string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the MagicAPI upload, run and status endpoints.
type Client struct {
	creds      CredentialSource
	uploadURL  string
	runURL     string
	statusURL  string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if opts.Credentials == nil {
		return nil, errors.New("magicapi: credential source is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		creds:      opts.Credentials,
		uploadURL:  firstNonEmpty(opts.UploadURL, DefaultUploadURL),
		runURL:     firstNonEmpty(opts.RunURL, DefaultRunURL),
		statusURL:  strings.TrimRight(firstNonEmpty(opts.StatusURL, DefaultStatusURL), "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// RunURL returns the submit endpoint, used when rendering curl commands.
func (c *Client) RunURL() string {
	return c.runURL
}

func (c *Client) apiKey() (string, error) {
	key := strings.TrimSpace(c.creds.APIKey())
	if key == "" {
		return "", domain.ErrMissingAPIKey
	}
	return key, nil
}

// Upload sends the image as a multipart form and returns the hosted reference.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "magicapi_upload")
	defer span.End()
	span.SetAttributes(attribute.Int("magicapi.upload_bytes", len(data)))

	key, err := c.apiKey()
	if err != nil {
		return "", fail(span, err)
	}
	if len(data) == 0 {
		return "", fail(span, fmt.Errorf("%w: image is empty", domain.ErrUpload))
	}
	if strings.TrimSpace(filename) == "" {
		filename = "image.png"
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile(uploadField, path.Base(filename))
	if err != nil {
		return "", fail(span, fmt.Errorf("%w: build form: %v", domain.ErrUpload, err))
	}
	if _, err := part.Write(data); err != nil {
		return "", fail(span, fmt.Errorf("%w: build form: %v", domain.ErrUpload, err))
	}
	if err := form.Close(); err != nil {
		return "", fail(span, fmt.Errorf("%w: build form: %v", domain.ErrUpload, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fail(span, fmt.Errorf("%w: build request: %v", domain.ErrUpload, err))
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(headerAPIKey, key)

	status, raw, err := c.do(req)
	if err != nil {
		return "", fail(span, fmt.Errorf("%w: %v", domain.ErrUpload, err))
	}
	var decoded uploadResponse
	if err := json.Unmarshal(raw, &decoded); err != nil && status < 300 {
		return "", fail(span, fmt.Errorf("%w: decode response: %v", domain.ErrUpload, err))
	}
	if decoded.Error != "" {
		return "", fail(span, fmt.Errorf("%w: %s", domain.ErrUpload, decoded.Error))
	}
	if status >= 300 {
		return "", fail(span, fmt.Errorf("%w: status %d: %s", domain.ErrUpload, status, strings.TrimSpace(string(raw))))
	}
	imageURL := strings.TrimSpace(decoded.URL)
	if imageURL == "" {
		return "", fail(span, fmt.Errorf("%w: upload failed: response has no url", domain.ErrUpload))
	}

	c.logger.Debug().Str("url", imageURL).Int("bytes", len(data)).Msg("magicapi: image uploaded")
	return imageURL, nil
}

// SubmitJob merges req over the default parameter set and starts a remote job.
func (c *Client) SubmitJob(ctx context.Context, req domain.GenerationRequest) (domain.JobHandle, error) {
	ctx, span := tracer.Start(ctx, "magicapi_submit")
	defer span.End()

	key, err := c.apiKey()
	if err != nil {
		return domain.JobHandle{}, fail(span, err)
	}

	payload := submitRequest{Input: buildInput(req)}
	span.SetAttributes(
		attribute.String("magicapi.model", payload.Input.Model),
		attribute.Int("magicapi.frames", payload.Input.Frames),
		attribute.String("magicapi.resolution", payload.Input.Resolution),
	)
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.JobHandle{}, fail(span, fmt.Errorf("%w: encode request: %v", domain.ErrSubmission, err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.runURL, bytes.NewReader(body))
	if err != nil {
		return domain.JobHandle{}, fail(span, fmt.Errorf("%w: build request: %v", domain.ErrSubmission, err))
	}
	setJSONHeaders(httpReq, key)

	status, raw, err := c.do(httpReq)
	if err != nil {
		return domain.JobHandle{}, fail(span, fmt.Errorf("%w: %v", domain.ErrSubmission, err))
	}
	if status < 200 || status >= 300 {
		return domain.JobHandle{}, fail(span, fmt.Errorf("%w: video generation failed: %s", domain.ErrSubmission, strings.TrimSpace(string(raw))))
	}
	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.JobHandle{}, fail(span, fmt.Errorf("%w: decode response: %v", domain.ErrSubmission, err))
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return domain.JobHandle{}, fail(span, fmt.Errorf("%w: response has no job id", domain.ErrSubmission))
	}

	span.SetAttributes(attribute.String("magicapi.job_id", decoded.ID))
	c.logger.Info().
		Str("job_id", decoded.ID).
		Str("model", payload.Input.Model).
		Str("status", decoded.Status).
		Msg("magicapi: job submitted")
	return domain.JobHandle{ID: strings.TrimSpace(decoded.ID)}, nil
}

// PollStatus fetches the current status of a remote job.
func (c *Client) PollStatus(ctx context.Context, jobID string) (*domain.JobStatus, error) {
	ctx, span := tracer.Start(ctx, "magicapi_status")
	defer span.End()
	span.SetAttributes(attribute.String("magicapi.job_id", jobID))

	key, err := c.apiKey()
	if err != nil {
		return nil, fail(span, err)
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, fail(span, fmt.Errorf("%w: job id is required", domain.ErrPoll))
	}

	endpoint := c.statusURL + "/" + url.PathEscape(jobID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fail(span, fmt.Errorf("%w: build request: %v", domain.ErrPoll, err))
	}
	setJSONHeaders(httpReq, key)

	status, raw, err := c.do(httpReq)
	if err != nil {
		return nil, fail(span, fmt.Errorf("%w: %v", domain.ErrPoll, err))
	}
	if status < 200 || status >= 300 {
		return nil, fail(span, fmt.Errorf("%w: status check failed: %s", domain.ErrPoll, strings.TrimSpace(string(raw))))
	}
	var decoded statusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fail(span, fmt.Errorf("%w: decode response: %v", domain.ErrPoll, err))
	}

	result := decoded.toDomain()
	span.SetAttributes(attribute.String("magicapi.status", string(result.Status)))
	c.logger.Debug().
		Str("job_id", jobID).
		Str("status", string(result.Status)).
		Int("outputs", len(result.Output)).
		Msg("magicapi: status polled")
	return result, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func setJSONHeaders(req *http.Request, key string) {
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIKey, key)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
