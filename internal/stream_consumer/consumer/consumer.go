// Package consumer pulls the chunked expense stream over HTTP and dispatches
// decoded events to a processor.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cashcog-expense-manager/internal/config"
	"github.com/cashcog-expense-manager/internal/metrics"
	"github.com/cashcog-expense-manager/internal/stream_consumer/decoder"
	"github.com/cashcog-expense-manager/internal/stream_consumer/processor"
)

const readChunkSize = 8192

// StreamConsumer maintains a long-lived HTTP connection to the event stream.
// The stream never ends by design, so any connection teardown is treated as a
// failure to recover from, not a completion.
type StreamConsumer struct {
	client        *http.Client
	url           string
	processor     processor.EventProcessor
	logger        *slog.Logger
	reconnectWait time.Duration

	// maxAttempts bounds the number of connection attempts; 0 means retry
	// forever. Only set to a non-zero value in tests.
	maxAttempts int
}

func NewStreamConsumer(cfg *config.StreamConfig, p processor.EventProcessor, logger *slog.Logger) *StreamConsumer {
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: cfg.ConnectTimeout,
			}).DialContext,
			ResponseHeaderTimeout: cfg.ReadTimeout,
		},
	}

	return &StreamConsumer{
		client:        client,
		url:           cfg.URL,
		processor:     p,
		logger:        logger,
		reconnectWait: cfg.ReconnectWait,
		maxAttempts:   cfg.MaxConnectAttempts,
	}
}

// Run consumes the stream until ctx is cancelled, reconnecting after every
// connection failure or teardown.
func (c *StreamConsumer) Run(ctx context.Context) error {
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.logger.Info("Connecting to expense stream", "url", c.url, "attempt", attempt)
		err := c.streamOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			lastErr = err
			c.logger.Error("Stream connection failed", "url", c.url, "error", err)
		} else {
			c.logger.Warn("Stream connection closed by server", "url", c.url)
		}

		if c.maxAttempts > 0 && attempt >= c.maxAttempts {
			if lastErr != nil {
				return fmt.Errorf("gave up after %d connection attempts: %w", attempt, lastErr)
			}
			return fmt.Errorf("gave up after %d connection attempts", attempt)
		}

		metrics.StreamReconnects.Inc()
		c.logger.Info("Reconnecting to expense stream", "wait", c.reconnectWait.String())
		select {
		case <-time.After(c.reconnectWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// streamOnce opens one connection and consumes it until it breaks. A nil
// return means the server closed the stream cleanly.
func (c *StreamConsumer) streamOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stream returned unexpected status %d", resp.StatusCode)
	}

	dec := decoder.New()
	chunk := make([]byte, readChunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			for _, doc := range dec.Feed(chunk[:n]) {
				metrics.EventsDecoded.Inc()
				if procErr := c.processor.Process(ctx, doc); procErr != nil {
					// One bad event never takes down the stream.
					c.logger.Error("Event processing failed",
						"expense_uuid", processor.EventKey(doc),
						"error", procErr,
					)
				}
			}
		}
		if readErr != nil {
			c.discardLeftover(dec)
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read stream body: %w", readErr)
		}
	}
}

func (c *StreamConsumer) discardLeftover(dec *decoder.Decoder) {
	if leftover := dec.Buffered(); len(leftover) > 0 {
		metrics.DecodeFailures.Inc()
		c.logger.Error("Discarding undecodable trailing bytes from closed stream",
			"bytes", len(leftover),
		)
	}
}
