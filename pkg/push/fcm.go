package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrUnregistered means the device token is no longer valid and should be forgotten
var ErrUnregistered = errors.New("push token unregistered")

const (
	defaultEndpoint = "https://fcm.googleapis.com"
	// MessagingScope is the OAuth2 scope FCM HTTP v1 requires
	MessagingScope = "https://www.googleapis.com/auth/firebase.messaging"
)

// FCMConfig Firebase Cloud Messaging settings
type FCMConfig struct {
	Endpoint  string // override for tests / emulators
	ProjectID string
	// TokenSource mints and refreshes access tokens. Takes precedence over AccessToken.
	TokenSource oauth2.TokenSource
	// AccessToken is a fixed bearer token, for emulators only
	AccessToken string
	Timeout     time.Duration
}

// FCMClient sends data messages through the FCM HTTP v1 API
type FCMClient struct {
	config     FCMConfig
	httpClient *http.Client
}

// NewFCMClient constructor
func NewFCMClient(cfg FCMConfig) *FCMClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	ts := cfg.TokenSource
	if ts == nil && cfg.AccessToken != "" {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	}
	if ts != nil {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, ts),
			Base:   http.DefaultTransport,
		}
	}
	return &FCMClient{config: cfg, httpClient: httpClient}
}

// NewFCMClientFromCredentials builds a client authenticated with a service account key.
// Access tokens are refreshed before they expire. ProjectID defaults to the key's project.
func NewFCMClientFromCredentials(ctx context.Context, credentialsJSON []byte, cfg FCMConfig) (*FCMClient, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, MessagingScope)
	if err != nil {
		return nil, fmt.Errorf("parse fcm credentials: %w", err)
	}
	if cfg.ProjectID == "" {
		cfg.ProjectID = creds.ProjectID
	}
	if cfg.ProjectID == "" {
		return nil, errors.New("fcm project id is required")
	}
	cfg.TokenSource = creds.TokenSource
	return NewFCMClient(cfg), nil
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token   string            `json:"token"`
	Data    map[string]string `json:"data"`
	Android *fcmAndroid       `json:"android,omitempty"`
}

type fcmAndroid struct {
	Priority string `json:"priority"`
}

type fcmErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			ErrorCode string `json:"errorCode"`
		} `json:"details"`
	} `json:"error"`
}

// Send delivers one data message to one device token
func (c *FCMClient) Send(ctx context.Context, token string, data map[string]string) error {
	sendURL := fmt.Sprintf("%s/v1/projects/%s/messages:send",
		strings.TrimRight(c.config.Endpoint, "/"), c.config.ProjectID)

	body, err := json.Marshal(&fcmRequest{Message: fcmMessage{
		Token:   token,
		Data:    data,
		Android: &fcmAndroid{Priority: "high"},
	}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return err
	}

	// only an explicit UNREGISTERED detail condemns the token; a bare 404 can mean a wrong project
	var errResp fcmErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err == nil {
		for _, d := range errResp.Error.Details {
			if d.ErrorCode == "UNREGISTERED" {
				return ErrUnregistered
			}
		}
		return fmt.Errorf("fcm send failed: %d %s - %s", resp.StatusCode, errResp.Error.Status, errResp.Error.Message)
	}
	return fmt.Errorf("fcm send failed: status %d", resp.StatusCode)
}
