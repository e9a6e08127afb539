// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/go-a2a/a2a-graph/a2a"
)

// PushConfig holds the webhook configuration for one task's push
// notifications.
type PushConfig struct {
	// URL is the webhook endpoint notified on task events.
	URL string `json:"url"`
}

// Validate ensures the PushConfig is valid.
func (c PushConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("push config URL cannot be empty")
	}
	return nil
}

// PushConfigStore defines the interface for managing per-task push
// notification configurations.
type PushConfigStore interface {
	// Set stores the push configuration for a task.
	Set(ctx context.Context, taskID string, config PushConfig) error

	// Get retrieves the push configuration for a task. The second return
	// value reports whether a configuration exists.
	Get(ctx context.Context, taskID string) (PushConfig, bool)

	// Delete removes the push configuration for a task.
	Delete(ctx context.Context, taskID string) error
}

// InMemoryPushConfigStore is a thread-safe in-memory PushConfigStore.
type InMemoryPushConfigStore struct {
	mu      sync.RWMutex
	configs map[string]PushConfig
}

var _ PushConfigStore = (*InMemoryPushConfigStore)(nil)

// NewInMemoryPushConfigStore creates an empty in-memory push config store.
func NewInMemoryPushConfigStore() *InMemoryPushConfigStore {
	return &InMemoryPushConfigStore{
		configs: make(map[string]PushConfig),
	}
}

// Set stores the push configuration for a task.
func (s *InMemoryPushConfigStore) Set(ctx context.Context, taskID string, config PushConfig) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if err := config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[taskID] = config
	return nil
}

// Get retrieves the push configuration for a task.
func (s *InMemoryPushConfigStore) Get(ctx context.Context, taskID string) (PushConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	config, ok := s.configs[taskID]
	return config, ok
}

// Delete removes the push configuration for a task.
func (s *InMemoryPushConfigStore) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.configs, taskID)
	return nil
}

// HTTPPushSender delivers task events to registered webhooks over HTTP.
// Each request carries a bearer token signed with the sender's shared secret
// so receivers can authenticate the origin.
type HTTPPushSender struct {
	client      *http.Client
	configStore PushConfigStore
	secret      []byte
	logger      *slog.Logger
}

// HTTPPushSenderConfig holds configuration for HTTPPushSender.
type HTTPPushSenderConfig struct {
	// Client is the HTTP client used for delivery. Defaults to a client
	// with a 30 second timeout.
	Client *http.Client

	// ConfigStore resolves the webhook for a task ID. Required.
	ConfigStore PushConfigStore

	// Secret is the HMAC key used to sign notification tokens. Required.
	Secret []byte

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewHTTPPushSender creates a new HTTP push notification sender.
func NewHTTPPushSender(config HTTPPushSenderConfig) (*HTTPPushSender, error) {
	if config.ConfigStore == nil {
		return nil, fmt.Errorf("push config store cannot be nil")
	}
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPPushSender{
		client:      client,
		configStore: config.ConfigStore,
		secret:      config.Secret,
		logger:      logger,
	}, nil
}

// SendEvent delivers a protocol event for the given task to its configured
// webhook. Tasks without a configuration are skipped silently.
func (s *HTTPPushSender) SendEvent(ctx context.Context, taskID string, event a2a.Event) error {
	config, ok := s.configStore.Get(ctx, taskID)
	if !ok {
		s.logger.DebugContext(ctx, "no push config for task, skipping notification", slog.String("task_id", taskID))
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal push notification payload: %w", err)
	}

	token, err := s.signToken(taskID, config.URL)
	if err != nil {
		return fmt.Errorf("failed to sign push notification token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver push notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push notification endpoint returned status %d", resp.StatusCode)
	}

	s.logger.InfoContext(ctx, "delivered push notification",
		slog.String("task_id", taskID),
		slog.String("event_kind", event.EventKind()),
	)
	return nil
}

// signToken builds a short-lived signed token identifying the task the
// notification belongs to.
func (s *HTTPPushSender) signToken(taskID, audience string) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(now.Add(5 * time.Minute)).
		Audience([]string{audience}).
		Claim("task_id", taskID).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// VerifyPushToken validates a push notification bearer token against the
// shared secret and returns the task ID it was issued for. Receivers use it
// to authenticate incoming notifications.
func VerifyPushToken(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse([]byte(tokenString), jwt.WithKey(jwa.HS256(), secret), jwt.WithValidate(true))
	if err != nil {
		return "", fmt.Errorf("failed to verify push token: %w", err)
	}

	var taskID string
	if err := token.Get("task_id", &taskID); err != nil {
		return "", fmt.Errorf("push token has no task_id claim: %w", err)
	}
	return taskID, nil
}
