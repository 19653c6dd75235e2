package lifecycle

import (
	"context"
	"fmt"
	"time"

	"lorastudio/internal/domain"
)

// PollHandle controls one running poll task.
type PollHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the task after its current tick. It is safe to call more than once.
func (h *PollHandle) Cancel() {
	h.cancel()
}

// Done is closed once the task has exited.
func (h *PollHandle) Done() <-chan struct{} {
	return h.done
}

// startPolling launches the status loop for jobID. The task is bound to the
// controller's base context, not to the request that started it.
func (c *Controller) startPolling(jobID string, epoch uint64) *PollHandle {
	ctx, cancel := context.WithCancel(c.base)
	h := &PollHandle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer cancel()
		c.pollLoop(ctx, jobID, epoch)
	}()
	return h
}

func (c *Controller) pollLoop(ctx context.Context, jobID string, epoch uint64) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			c.logger.Debug().Str("job_id", jobID).Msg("lifecycle: polling cancelled")
			return
		case <-ticker.C:
		}
		if !c.tick(ctx, jobID, epoch, tick) {
			return
		}
	}
}

// tick performs one status check and applies it. It reports whether polling
// should continue.
func (c *Controller) tick(ctx context.Context, jobID string, epoch uint64, n int) bool {
	status, err := c.transport.PollStatus(ctx, jobID)
	if ctx.Err() != nil {
		return false
	}
	if err == nil && status == nil {
		err = fmt.Errorf("%w: empty status response", domain.ErrPoll)
	}
	if err == nil && status.Status == domain.RemoteCompleted {
		if video := status.FirstOutput(); video != "" {
			c.complete(ctx, jobID, epoch, n, video)
			return false
		}
	}

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return false
	}
	c.ticks = n

	terminal := true
	switch {
	case err != nil:
		c.failLocked(domain.StateError, err)
		c.logger.Warn().Err(err).Str("job_id", jobID).Int("tick", n).Msg("lifecycle: status check failed")
	case status.Status == domain.RemoteInQueue:
		c.remoteStatus = string(status.Status)
		c.setStateLocked(domain.StateQueued)
		terminal = false
	case status.Status == domain.RemoteInProgress:
		c.remoteStatus = string(status.Status)
		c.setStateLocked(domain.StateRunning)
		terminal = false
	case status.Status == domain.RemoteCompleted:
		c.remoteStatus = string(status.Status)
		c.failLocked(domain.StateFailed, fmt.Errorf("%w: %s", domain.ErrIncompleteResult, reasonNoOutput))
		c.reason = reasonNoOutput
	case status.Status == domain.RemoteFailed:
		c.remoteStatus = string(status.Status)
		c.errKind = domain.ErrorKindRemoteFailure
		c.reason = firstNonEmpty(status.Error, "video generation failed")
		c.setStateLocked(domain.StateFailed)
	default:
		// Unrecognized status: recorded for display, polling continues.
		c.remoteStatus = string(status.Status)
		c.updatedAt = c.now()
		terminal = false
		c.logger.Debug().Str("job_id", jobID).Str("status", string(status.Status)).Msg("lifecycle: unrecognized remote status")
	}

	if !terminal && n >= c.maxTicks {
		c.failLocked(domain.StateTimedOut, fmt.Errorf("%w: no result after %d status checks", domain.ErrTimeout, n))
		terminal = true
	}
	if terminal {
		c.finishLocked(jobID, n)
	}
	c.mu.Unlock()
	return !terminal
}

// complete records a finished generation in history and only then exposes
// Completed. The poll handle stays set until the append returns, so Close and
// Wait cover it.
func (c *Controller) complete(ctx context.Context, jobID string, epoch uint64, n int, video string) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.ticks = n
	c.remoteStatus = string(domain.RemoteCompleted)
	entry := domain.HistoryEntry{
		ImageURL:  c.imageURL,
		VideoURL:  video,
		CreatedAt: c.now(),
	}
	if c.request != nil {
		entry.Prompt = c.request.Prompt
	}
	c.mu.Unlock()

	if err := c.history.Append(context.WithoutCancel(ctx), entry); err != nil {
		c.logger.Error().Err(err).Str("job_id", jobID).Msg("lifecycle: append history failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return
	}
	c.videoURL = video
	c.setStateLocked(domain.StateCompleted)
	c.finishLocked(jobID, n)
}

func (c *Controller) finishLocked(jobID string, n int) {
	c.poll = nil
	c.logger.Info().
		Str("job_id", jobID).
		Str("state", string(c.state)).
		Int("ticks", n).
		Str("reason", c.reason).
		Msg("lifecycle: generation finished")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
