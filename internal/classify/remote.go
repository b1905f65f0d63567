package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/model"
	"github.com/siteseer/siteseer/internal/service"
)

// defaultHTTPTimeout backstops a hung prediction server even when the caller
// passes an unbounded context.
const defaultHTTPTimeout = 30 * time.Second

// predictResponse is the wire shape of the prediction endpoint's reply.
type predictResponse struct {
	Prediction model.ClassConfidenceMap `json:"prediction"`
}

// RemoteClassifier calls an HTTP prediction endpoint, passing the image's
// retrieval URL as the msg query parameter.
type RemoteClassifier struct {
	client     *http.Client
	logger     *slog.Logger
	endpoint   *url.URL
	classNames []string
}

func newRemoteClassifier(cfg Config, logger *slog.Logger) (*RemoteClassifier, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: remote classifier requires an endpoint", common.ErrMissingConfig)
	}
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint %q: %v", common.ErrInvalidConfig, cfg.Endpoint, err)
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &RemoteClassifier{
		endpoint:   endpoint,
		classNames: cfg.ClassNames,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Classify requests GET {endpoint}?msg={retrievalURL} and parses the
// prediction field of the JSON reply. Any non-200 status is a failure; no
// retry is attempted.
func (c *RemoteClassifier) Classify(ctx context.Context, img service.Image) (model.Confidences, error) {
	if img.RetrievalURL == "" {
		return nil, fmt.Errorf("%w: no retrieval URL for remote classification", common.ErrClassify)
	}

	// Merge msg into any query the configured endpoint already carries.
	reqURL := *c.endpoint
	query := reqURL.Query()
	query.Set("msg", img.RetrievalURL)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", common.ErrClassify, err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassify, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close prediction response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: prediction endpoint returned status %d", common.ErrClassify, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", common.ErrClassify, err)
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed prediction response: %v", common.ErrClassify, err)
	}
	if parsed.Prediction == nil {
		return nil, fmt.Errorf("%w: prediction response missing prediction field", common.ErrClassify)
	}

	c.logger.Debug("remote prediction complete",
		"classes", len(parsed.Prediction),
		"elapsed", time.Since(start))

	return parsed.Prediction.Ordered(c.classNames), nil
}

// Ready reports whether the classifier can accept requests. The remote
// variant is ready as soon as it is constructed.
func (c *RemoteClassifier) Ready() bool {
	return true
}

// RequiresUpload is true: the prediction server fetches the image by URL.
func (c *RemoteClassifier) RequiresUpload() bool {
	return true
}
