// Package lifecycle drives one image-to-video generation at a time: image
// upload, job submission, status polling and the final history record.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lorastudio/internal/domain"
	"lorastudio/internal/infra"
)

const (
	DefaultPollInterval = 15 * time.Second
	DefaultMaxPollTicks = 40

	reasonNoOutput = "completed but no output found"
)

// Transport is the remote inference service as seen by the controller.
type Transport interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	SubmitJob(ctx context.Context, req domain.GenerationRequest) (domain.JobHandle, error)
	PollStatus(ctx context.Context, jobID string) (*domain.JobStatus, error)
}

// HistoryAppender records completed generations.
type HistoryAppender interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
}

// Options configures a Controller.
type Options struct {
	Transport    Transport
	History      HistoryAppender
	Logger       *infra.Logger
	PollInterval time.Duration
	MaxPollTicks int
	Now          func() time.Time
	// BaseContext bounds every poll task; cancelling it stops polling.
	BaseContext context.Context
}

// Snapshot is a copy of the controller state for presentation.
type Snapshot struct {
	State        domain.LifecycleState `json:"state"`
	Label        string                `json:"label"`
	ErrorKind    domain.ErrorKind      `json:"error_kind,omitempty"`
	Reason       string                `json:"reason,omitempty"`
	ImageURL     string                `json:"image_url,omitempty"`
	HasPreview   bool                  `json:"has_preview"`
	Prompt       string                `json:"prompt,omitempty"`
	JobID        string                `json:"job_id,omitempty"`
	RemoteStatus string                `json:"remote_status,omitempty"`
	Ticks        int                   `json:"ticks"`
	MaxTicks     int                   `json:"max_ticks"`
	VideoURL     string                `json:"video_url,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Controller owns the lifecycle state. It is safe for concurrent use; remote
// calls are made without holding the lock.
type Controller struct {
	transport Transport
	history   HistoryAppender
	logger    *infra.Logger
	interval  time.Duration
	maxTicks  int
	now       func() time.Time
	base      context.Context
	stop      context.CancelFunc
	title     cases.Caser

	mu           sync.Mutex
	state        domain.LifecycleState
	epoch        uint64
	imageURL     string
	preview      *Preview
	request      *domain.GenerationRequest
	jobID        string
	poll         *PollHandle
	remoteStatus string
	ticks        int
	videoURL     string
	errKind      domain.ErrorKind
	reason       string
	updatedAt    time.Time
}

// NewController validates opts and returns an Idle controller.
func NewController(opts Options) (*Controller, error) {
	if opts.Transport == nil {
		return nil, errors.New("lifecycle: transport is required")
	}
	if opts.History == nil {
		return nil, errors.New("lifecycle: history store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxTicks := opts.MaxPollTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxPollTicks
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	parent := opts.BaseContext
	if parent == nil {
		parent = context.Background()
	}
	base, stop := context.WithCancel(parent)

	return &Controller{
		transport: opts.Transport,
		history:   opts.History,
		logger:    logger,
		interval:  interval,
		maxTicks:  maxTicks,
		now:       now,
		base:      base,
		stop:      stop,
		title:     cases.Title(language.English),
		state:     domain.StateIdle,
		updatedAt: now(),
	}, nil
}

// PollInterval is the delay between status checks.
func (c *Controller) PollInterval() time.Duration {
	return c.interval
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:        c.state,
		Label:        c.title.String(strings.ReplaceAll(string(c.state), "_", " ")),
		ErrorKind:    c.errKind,
		Reason:       c.reason,
		ImageURL:     c.imageURL,
		HasPreview:   c.preview != nil,
		JobID:        c.jobID,
		RemoteStatus: c.remoteStatus,
		Ticks:        c.ticks,
		MaxTicks:     c.maxTicks,
		VideoURL:     c.videoURL,
		UpdatedAt:    c.updatedAt,
	}
	if c.request != nil {
		s.Prompt = c.request.Prompt
	}
	return s
}

// Preview returns a copy of the image currently previewed, if any.
func (c *Controller) Preview() (PreviewImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preview == nil {
		return PreviewImage{}, false
	}
	return c.preview.image(), true
}

// SelectImage replaces the current image and uploads it. It is refused while
// an upload or a generation is in flight.
func (c *Controller) SelectImage(ctx context.Context, filename, contentType string, data []byte) (Snapshot, error) {
	if len(data) == 0 {
		return c.Snapshot(), fmt.Errorf("%w: please select an image", domain.ErrValidation)
	}

	c.mu.Lock()
	if c.state == domain.StateUploading || c.state.InFlight() {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: state %s", domain.ErrBusy, snap.State)
	}
	c.resetLocked()
	c.preview = newPreview(filename, contentType, data)
	c.setStateLocked(domain.StateUploading)
	epoch := c.epoch
	c.mu.Unlock()

	c.logger.Debug().Str("filename", filename).Int("bytes", len(data)).Msg("lifecycle: uploading image")
	ref, err := c.transport.Upload(ctx, filename, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return c.snapshotLocked(), fmt.Errorf("%w: upload superseded", domain.ErrInvalidState)
	}
	if err != nil {
		c.releasePreviewLocked()
		c.failLocked(domain.StateError, err)
		c.logger.Warn().Err(err).Msg("lifecycle: upload failed")
		return c.snapshotLocked(), err
	}
	c.imageURL = ref
	c.setStateLocked(domain.StateUploaded)
	c.logger.Info().Str("image_url", ref).Msg("lifecycle: image uploaded")
	return c.snapshotLocked(), nil
}

// ClearImage returns to Idle from any state, cancelling any poll task and
// releasing the preview. Calling it while already Idle does nothing.
func (c *Controller) ClearImage() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateIdle && c.imageURL == "" && c.preview == nil && c.poll == nil {
		return c.snapshotLocked()
	}
	c.resetLocked()
	c.setStateLocked(domain.StateIdle)
	c.logger.Debug().Msg("lifecycle: image cleared")
	return c.snapshotLocked()
}

// RequestGeneration submits req for the uploaded image and starts polling.
// The image reference held by the controller overrides req.ImageURL.
func (c *Controller) RequestGeneration(ctx context.Context, req domain.GenerationRequest) (Snapshot, error) {
	if err := req.Validate(); err != nil {
		return c.Snapshot(), err
	}

	c.mu.Lock()
	switch {
	case c.state == domain.StateUploading || c.state.InFlight():
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: a generation is already running", domain.ErrBusy)
	case c.state != domain.StateUploaded:
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: upload an image first (state %s)", domain.ErrInvalidState, snap.State)
	}
	submitted := req.Clone()
	submitted.ImageURL = c.imageURL
	c.request = &submitted
	c.clearOutcomeLocked()
	c.setStateLocked(domain.StateSubmitting)
	epoch := c.epoch
	c.mu.Unlock()

	handle, err := c.transport.SubmitJob(ctx, submitted)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return c.snapshotLocked(), fmt.Errorf("%w: generation superseded", domain.ErrInvalidState)
	}
	if err != nil {
		c.failLocked(domain.StateError, err)
		c.logger.Warn().Err(err).Msg("lifecycle: submission failed")
		return c.snapshotLocked(), err
	}
	c.jobID = handle.ID
	c.remoteStatus = string(domain.RemoteInQueue)
	c.setStateLocked(domain.StateQueued)
	c.poll = c.startPolling(handle.ID, epoch)
	c.logger.Info().Str("job_id", handle.ID).Str("image_url", submitted.ImageURL).Msg("lifecycle: job queued")
	return c.snapshotLocked(), nil
}

// Wait blocks until the active poll task, if any, has finished.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	h := c.poll
	c.mu.Unlock()
	if h == nil {
		return nil
	}
	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels polling and releases the preview. The controller must not be
// used afterwards.
func (c *Controller) Close() {
	c.stop()
	c.mu.Lock()
	h := c.poll
	c.poll = nil
	c.epoch++
	c.releasePreviewLocked()
	c.mu.Unlock()
	if h != nil {
		h.Cancel()
		<-h.Done()
	}
}

// resetLocked cancels polling, bumps the epoch so in-flight results are
// dropped, and forgets everything tied to the previous image.
func (c *Controller) resetLocked() {
	c.stopPollLocked()
	c.epoch++
	c.releasePreviewLocked()
	c.imageURL = ""
	c.request = nil
	c.clearOutcomeLocked()
}

func (c *Controller) clearOutcomeLocked() {
	c.jobID = ""
	c.remoteStatus = ""
	c.ticks = 0
	c.videoURL = ""
	c.errKind = domain.ErrorKindNone
	c.reason = ""
}

func (c *Controller) stopPollLocked() {
	if c.poll != nil {
		c.poll.Cancel()
		c.poll = nil
	}
}

func (c *Controller) releasePreviewLocked() {
	if c.preview != nil {
		c.preview.release()
		c.preview = nil
	}
}

func (c *Controller) setStateLocked(state domain.LifecycleState) {
	c.state = state
	c.updatedAt = c.now()
}

func (c *Controller) failLocked(state domain.LifecycleState, err error) {
	c.errKind = domain.KindOf(err)
	c.reason = err.Error()
	c.setStateLocked(state)
}
