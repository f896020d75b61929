package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"almastore-be/internal/logger"

	"go.uber.org/zap"
)

// Gateway submits one batch of messages in a single request.
type Gateway interface {
	Send(ctx context.Context, messages []Message) error
}

type expoGateway struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// NewExpoGateway talks to the Expo push API. accessToken is optional and
// only needed when enhanced push security is enabled on the project.
func NewExpoGateway(endpoint, accessToken string) Gateway {
	if endpoint == "" {
		logger.L().Warn("push gateway endpoint is empty")
	}

	return &expoGateway{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *expoGateway) Send(ctx context.Context, messages []Message) error {
	if g.endpoint == "" {
		return ErrNotConfigured
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.Int("batch_size", len(messages)),
	)

	jsonBody, err := json.Marshal(messages)
	if err != nil {
		log.Error("failed to marshal push batch", zap.Error(err))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		log.Error("failed creating push request", zap.Error(err))
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("push gateway request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read push gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("push gateway returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return fmt.Errorf("push gateway error: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
