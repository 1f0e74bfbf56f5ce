// Package provider abstracts the on-disk session archives of the supported
// coding agents (Claude Code, Codex, Gemini, Cursor) behind one interface,
// so listing and rendering code never cares which CLI produced a session.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// ErrUnknownProvider is returned when a name matches no registered provider.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrResumeUnsupported is returned when a provider cannot resume sessions.
var ErrResumeUnsupported = errors.New("provider does not support resuming sessions")

// ResumeType describes how a provider's CLI is re-entered.
type ResumeType string

const (
	// ResumeDirectFlag resumes with a session-id flag or argument.
	ResumeDirectFlag ResumeType = "direct-flag"
	// ResumeOpenInDirectory opens the tool in the session's directory.
	ResumeOpenInDirectory ResumeType = "open-in-directory"
	// ResumeInteractiveCommand starts the CLI and needs a command typed
	// inside it.
	ResumeInteractiveCommand ResumeType = "interactive-command"
)

// Capabilities describes what a provider's CLI supports.
type Capabilities struct {
	SupportsResume     bool       `json:"supportsResume"`
	CLIName            string     `json:"cliName"`
	ResumeTemplate     string     `json:"resumeCommandTemplate,omitempty"`
	ResumeType         ResumeType `json:"resumeType"`
	InteractiveCommand string     `json:"interactiveCommand,omitempty"`
}

// Provider reads one agent's session archive.
type Provider interface {
	// Name is the stable provider identifier ("claude-code", "codex", ...).
	Name() string
	// Detect locates the provider's data root, or errors when absent.
	Detect() (string, error)
	// Validate reports whether path is a usable data root for this provider.
	Validate(path string) bool
	// Projects lists the projects under the data root.
	Projects(ctx context.Context, root string) ([]session.Project, error)
	// Sessions lists the sessions of one project.
	Sessions(ctx context.Context, projectPath string) ([]session.Info, error)
	// Messages loads one session's messages.
	Messages(ctx context.Context, sessionPath string) ([]transcript.Message, error)
}

// capabilityTable mirrors the resume behavior of each agent CLI.
var capabilityTable = map[string]Capabilities{
	"claude-code": {
		SupportsResume: true,
		CLIName:        "claude",
		ResumeTemplate: "claude --resume {session_id}",
		ResumeType:     ResumeDirectFlag,
	},
	"codex": {
		SupportsResume: true,
		CLIName:        "codex",
		ResumeTemplate: "codex resume {session_id}",
		ResumeType:     ResumeDirectFlag,
	},
	"gemini": {
		SupportsResume:     true,
		CLIName:            "gemini",
		ResumeTemplate:     "gemini",
		ResumeType:         ResumeInteractiveCommand,
		InteractiveCommand: "/chat resume {session_id}",
	},
	"cursor": {
		SupportsResume: true,
		CLIName:        "cursor",
		ResumeTemplate: "cursor .",
		ResumeType:     ResumeOpenInDirectory,
	},
}

// CapabilitiesFor returns the capability record for a provider name.
func CapabilitiesFor(name string) (Capabilities, bool) {
	caps, ok := capabilityTable[name]
	return caps, ok
}

// ResumeCommand expands a provider's resume template for a session ID and
// returns the argv to launch. For interactive providers the returned hint
// is the command to type once the CLI is up.
func ResumeCommand(name, sessionID string) (argv []string, hint string, err error) {
	caps, ok := CapabilitiesFor(name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if !caps.SupportsResume {
		return nil, "", fmt.Errorf("%w: %s", ErrResumeUnsupported, name)
	}
	expanded := strings.ReplaceAll(caps.ResumeTemplate, "{session_id}", sessionID)
	argv = strings.Fields(expanded)
	if caps.ResumeType == ResumeInteractiveCommand {
		hint = strings.ReplaceAll(caps.InteractiveCommand, "{session_id}", sessionID)
	}
	return argv, hint, nil
}

// Registry holds the known providers.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry creates a registry with every built-in provider registered.
func NewRegistry() *Registry {
	r := &Registry{providers: map[string]Provider{}}
	r.Register(NewClaudeProvider())
	r.Register(NewCodexProvider())
	r.Register(NewGeminiProvider())
	r.Register(NewCursorProvider())
	return r
}

// Register adds a provider, keeping registration order for listings.
func (r *Registry) Register(p Provider) {
	if _, exists := r.providers[p.Name()]; !exists {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get returns a provider by name.
//
//nolint:ireturn // Callers need the polymorphic provider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names lists registered provider names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Detected returns the providers whose data roots exist on this machine.
func (r *Registry) Detected() []Provider {
	var out []Provider
	for _, name := range r.order {
		p := r.providers[name]
		if _, err := p.Detect(); err == nil {
			out = append(out, p)
		}
	}
	return out
}
