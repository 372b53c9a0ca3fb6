package utils

import (
	"context"
	"lms/metrics"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// VideoAsset is the part of a hosted video asset the app stores
type VideoAsset struct {
	ID         string
	PlaybackID string
}

// VideoProvider hosts and transcodes chapter videos
type VideoProvider interface {
	CreateAsset(ctx context.Context, inputURL string) (*VideoAsset, error)
	DeleteAsset(ctx context.Context, assetID string) error
}

// Video is the provider used by the chapter handlers. It is replaced in tests.
var Video VideoProvider

// MuxClient talks to the Mux Video REST API
type MuxClient struct {
	client *resty.Client
}

var _ VideoProvider = (*MuxClient)(nil)

func NewMuxClient(baseURL, tokenID, tokenSecret string) *MuxClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(tokenID, tokenSecret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(retryIdempotent)

	return &MuxClient{client: client}
}

// retryIdempotent retries failed deletes and reads. Asset creation is never
// retried since a repeated POST would ingest the video twice.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method == http.MethodPost {
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}

type muxAssetResponse struct {
	Data struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		PlaybackIDs []struct {
			ID     string `json:"id"`
			Policy string `json:"policy"`
		} `json:"playback_ids"`
	} `json:"data"`
}

// CreateAsset asks Mux to ingest the video at inputURL with a public playback policy
func (m *MuxClient) CreateAsset(ctx context.Context, inputURL string) (*VideoAsset, error) {
	var result muxAssetResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"input":           []map[string]string{{"url": inputURL}},
			"playback_policy": []string{"public"},
			"test":            false,
		}).
		SetResult(&result).
		Post("/video/v1/assets")
	if err != nil {
		metrics.VideoAssetOpsTotal.WithLabelValues("create", "error").Inc()
		return nil, errors.Wrap(err, "mux create asset")
	}
	if resp.IsError() {
		metrics.VideoAssetOpsTotal.WithLabelValues("create", "error").Inc()
		return nil, errors.Errorf("mux create asset: status %d: %s", resp.StatusCode(), resp.String())
	}

	asset := &VideoAsset{ID: result.Data.ID}
	if len(result.Data.PlaybackIDs) > 0 {
		asset.PlaybackID = result.Data.PlaybackIDs[0].ID
	}
	if asset.ID == "" {
		metrics.VideoAssetOpsTotal.WithLabelValues("create", "error").Inc()
		return nil, errors.New("mux create asset: empty asset id")
	}

	metrics.VideoAssetOpsTotal.WithLabelValues("create", "ok").Inc()
	return asset, nil
}

// DeleteAsset removes an asset. An asset that no longer exists counts as deleted.
func (m *MuxClient) DeleteAsset(ctx context.Context, assetID string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetPathParam("assetId", assetID).
		Delete("/video/v1/assets/{assetId}")
	if err != nil {
		metrics.VideoAssetOpsTotal.WithLabelValues("delete", "error").Inc()
		return errors.Wrap(err, "mux delete asset")
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		metrics.VideoAssetOpsTotal.WithLabelValues("delete", "error").Inc()
		return errors.Errorf("mux delete asset %s: status %d: %s", assetID, resp.StatusCode(), resp.String())
	}

	metrics.VideoAssetOpsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}
