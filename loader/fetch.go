package loader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/utils"
	"go.uber.org/zap"
)

// FetchOptions controls downloading the dataset over HTTP.
type FetchOptions struct {
	Timeout         time.Duration // per request (default: 30s)
	InitialInterval time.Duration // first retry delay (default: 500ms)
	MaxElapsedTime  time.Duration // retry budget (default: 1m)
}

// StatusError is returned for a non-200 response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "unexpected status code: " + http.StatusText(e.StatusCode)
}

func (o *FetchOptions) withDefaults() FetchOptions {
	out := FetchOptions{
		Timeout:         30 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		MaxElapsedTime:  time.Minute,
	}
	if o == nil {
		return out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.InitialInterval > 0 {
		out.InitialInterval = o.InitialInterval
	}
	if o.MaxElapsedTime > 0 {
		out.MaxElapsedTime = o.MaxElapsedTime
	}
	return out
}

// Fetch downloads the dataset CSV from url and parses it with LoadCSVFromReader.
// Network errors and 5xx responses are retried with exponential backoff, 4xx
// responses are not.
func Fetch(ctx context.Context, url string, opts *FetchOptions, csvOpts *CSVOptions) ([]model.Record, error) {
	logger := utils.GetLogger(ctx).With(zap.String("url", url))
	o := opts.withDefaults()

	client := &http.Client{Timeout: o.Timeout}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "Fetch NewRequest"))
		}

		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "Fetch Do")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{StatusCode: resp.StatusCode}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "Fetch ReadAll")
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.InitialInterval
	b.MaxElapsedTime = o.MaxElapsedTime

	notify := func(err error, next time.Duration) {
		logger.Warn("fetch dataset failed, retrying", zap.Error(err), zap.Duration("next", next))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		logger.Error("fetch dataset failed", zap.Error(err))
		return nil, errors.Wrap(err, "Fetch")
	}

	logger.Info("dataset downloaded", zap.Int("bytes", len(body)))
	return LoadCSVFromReader(ctx, bytes.NewReader(body), csvOpts)
}
