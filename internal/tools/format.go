package tools

import (
	"slices"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/lol-esports-mcp/internal/esports"
)

// Languages accepted by the esports API.
var Languages = []string{
	"en-US", "es-ES", "fr-FR", "de-DE", "it-IT", "pt-BR",
	"ru-RU", "tr-TR", "ja-JP", "ko-KR", "zh-CN", "zh-TW",
}

// language reads the optional "language" argument, defaulting to en-US.
func language(tool string, req mcp.CallToolRequest) (string, error) {
	lang := req.GetString("language", esports.DefaultLanguage)
	if !slices.Contains(Languages, lang) {
		return "", InvalidInput(tool, "language", lang)
	}
	return lang, nil
}

// requiredString reads a required, non-blank string argument.
func requiredString(tool string, req mcp.CallToolRequest, name string) (string, error) {
	v, err := req.RequireString(name)
	if err != nil {
		return "", InvalidInput(tool, name, "missing")
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", InvalidInput(tool, name, "empty")
	}
	return v, nil
}

// formatDate renders a start time in UTC.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func stateLabel(state string) string {
	switch state {
	case esports.StateCompleted:
		return "✅ Completed"
	case esports.StateInProgress:
		return "🔴 In Progress"
	case esports.StateUnstarted:
		return "⏳ Not Started"
	case "":
		return "Unknown"
	default:
		return "📊 " + strings.ToUpper(state[:1]) + state[1:]
	}
}
