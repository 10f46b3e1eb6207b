// Package prompts serves the assistant guidance templates as MCP prompts.
package prompts

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed templates/*.md
var templates embed.FS

// SystemPrompt is prepended by Contextual.
const SystemPrompt = "lol-esports-system"

var ErrUnknownPrompt = errors.New("prompt not found")

type Prompt struct {
	Name        string
	Description string
}

var catalog = []Prompt{
	{SystemPrompt, "System prompt for a League of Legends esports assistant with tool usage guidelines"},
	{"lol-live-matches", "Handling live match queries and real-time updates"},
	{"lol-schedule", "Schedule queries and tournament planning"},
	{"lol-leagues", "League exploration and tournament discovery"},
	{"lol-match-analysis", "Detailed match analysis and VOD information"},
	{"lol-troubleshooting", "Handling errors and offering alternatives"},
	{"lol-user-engagement", "Making responses engaging"},
	{"lol-quick-start", "Onboarding users new to LoL esports"},
	{"lol-team-tracking", "Following a specific team"},
	{"lol-brackets-playoffs", "Tournament brackets and playoff formats"},
	{"lol-regional-comparison", "Comparing regions and viewing times"},
	{"lol-practical-examples", "Worked examples of tool combinations"},
	{"lol-advanced-usage", "Advanced patterns, caching behaviour and error recovery"},
}

// All lists every prompt in registration order.
func All() []Prompt { return append([]Prompt(nil), catalog...) }

// Text returns the template body for name.
func Text(name string) (string, error) {
	b, err := templates.ReadFile("templates/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	return strings.TrimSpace(string(b)), nil
}

// Contextual joins the system prompt with the topic prompt for name. An empty
// name returns the system prompt alone.
func Contextual(name string) (string, error) {
	sys, err := Text(SystemPrompt)
	if err != nil {
		return "", err
	}
	if name == "" || name == SystemPrompt {
		return sys, nil
	}
	topic, err := Text(name)
	if err != nil {
		return "", err
	}
	return sys + "\n\n" + topic, nil
}

// Register adds every prompt to s.
func Register(s *server.MCPServer) {
	for _, p := range catalog {
		s.AddPrompt(mcp.NewPrompt(p.Name, mcp.WithPromptDescription(p.Description)), handler(p.Name))
	}
}

func handler(name string) server.PromptHandlerFunc {
	return func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		body, err := Text(name)
		if err != nil {
			return nil, err
		}
		return mcp.NewGetPromptResult(
			"League of Legends esports prompt: "+name,
			[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(body))},
		), nil
	}
}
