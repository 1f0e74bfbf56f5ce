// Package telemetry reports anonymous command usage. Only the command
// path (e.g. "cchv stats") is recorded, never arguments: session files and
// project paths stay on the machine.
package telemetry

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"
	"github.com/spf13/cobra"
)

// PostHogAPIKey is set at build time for production builds.
var PostHogAPIKey = "phc_development_key"

// OptOutEnv disables telemetry when set to any non-empty value.
const OptOutEnv = "CCHV_TELEMETRY_OPTOUT"

// Client defines the telemetry interface.
type Client interface {
	TrackCommand(cmd *cobra.Command)
	Close()
}

type contextKey struct{}

// WithClient returns a new context with the telemetry client attached.
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// GetClient retrieves the telemetry client from context.
//
//nolint:ireturn // Returns interface for NoOp/PostHog polymorphism
func GetClient(ctx context.Context) Client {
	if client, ok := ctx.Value(contextKey{}).(Client); ok {
		return client
	}
	return &NoOpClient{}
}

// NoOpClient is a no-op implementation for when telemetry is disabled.
type NoOpClient struct{}

func (n *NoOpClient) TrackCommand(_ *cobra.Command) {}
func (n *NoOpClient) Close()                        {}

// PostHogClient is the real telemetry client.
type PostHogClient struct {
	client    posthog.Client
	machineID string
	version   string
	mu        sync.RWMutex
}

// NewClient creates a telemetry client. Disabled configuration, the
// opt-out environment variable, or any setup failure all yield the no-op
// client; telemetry never blocks the CLI.
//
//nolint:ireturn // Returns interface for NoOp/PostHog polymorphism
func NewClient(version string, enabled bool) Client {
	if !enabled || os.Getenv(OptOutEnv) != "" {
		return &NoOpClient{}
	}

	id, err := machineid.ProtectedID("cchv")
	if err != nil {
		return &NoOpClient{}
	}

	client, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:     "https://us.i.posthog.com",
		DisableGeoIP: posthog.Ptr(true),
		DefaultEventProperties: posthog.NewProperties().
			Set("cli_version", version).
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH),
	})
	if err != nil {
		return &NoOpClient{}
	}

	return &PostHogClient{
		client:    client,
		machineID: id,
		version:   version,
	}
}

// TrackCommand records that a command ran. Arguments and flags are not
// reported.
func (p *PostHogClient) TrackCommand(cmd *cobra.Command) {
	if cmd == nil || cmd.Hidden {
		return
	}

	p.mu.RLock()
	id := p.machineID
	c := p.client
	p.mu.RUnlock()

	if c == nil {
		return
	}

	//nolint:errcheck // Best-effort telemetry, failures should not affect CLI
	_ = c.Enqueue(posthog.Capture{
		DistinctId: id,
		Event:      "command_executed",
		Properties: posthog.NewProperties().
			Set("command", cmd.CommandPath()),
	})
}

// Close flushes pending events.
func (p *PostHogClient) Close() {
	p.mu.RLock()
	c := p.client
	p.mu.RUnlock()

	if c != nil {
		_ = c.Close()
	}
}
