package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/pkg/llm"
)

// Route is the closed set of dispatch targets. The route set is fixed
// and small, so dispatch is a plain switch rather than a registry.
type Route string

const (
	RouteRecord  Route = "record"
	RouteStyle   Route = "style"
	RouteClarify Route = "clarify"
)

// Operation kinds a proposed action may carry.
const (
	OpGet       = "get"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpAttachTag = "attach_tag"
	OpDetachTag = "detach_tag"
	OpNone      = "none"
)

// Action is the structured operation the classifier extracts from a
// turn. Fields and Criteria carry raw user-named keys; resolution into
// canonical paths happens in the handlers, never in the classifier.
type Action struct {
	Operation   string                 `json:"operation"`
	ComponentId string                 `json:"component_id,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
	Criteria    map[string]interface{} `json:"criteria,omitempty"`
	TagName     string                 `json:"tag_name,omitempty"`
}

// Classifier is the natural-language front-end consumed by the
// dispatcher and handlers. Implementations must return exactly one route
// per classification call, and a nil action when no structured operation
// applies to the turn.
type Classifier interface {
	ClassifyRoute(ctx context.Context, history []Turn, text string) (Route, error)
	ProposeAction(ctx context.Context, history []Turn, text string, schemaName string) (*Action, error)
}

// LLMClassifier delegates classification to an LLM provider with
// deterministic temperature-0 prompts, parsing the model's JSON output
// and falling back to keyword heuristics when parsing fails.
type LLMClassifier struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

var _ Classifier = &LLMClassifier{}

func NewLLMClassifier(provider llm.LLMProvider, log logger.ILogger) *LLMClassifier {
	return &LLMClassifier{provider: provider, log: log}
}

func (c *LLMClassifier) ClassifyRoute(ctx context.Context, history []Turn, text string) (Route, error) {
	prompt := buildRoutePrompt(history, text)

	response, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.log.Warn("classifier", "route classification failed, using fallback", map[string]interface{}{"error": err.Error()})
		return fallbackRoute(text), nil
	}

	var parsed struct {
		Route string `json:"route"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		c.log.Warn("classifier", "route parse failed, using fallback", map[string]interface{}{"error": err.Error()})
		return fallbackRoute(text), nil
	}

	switch Route(parsed.Route) {
	case RouteRecord, RouteStyle, RouteClarify:
		return Route(parsed.Route), nil
	}
	return fallbackRoute(text), nil
}

func (c *LLMClassifier) ProposeAction(ctx context.Context, history []Turn, text string, schemaName string) (*Action, error) {
	prompt := buildActionPrompt(history, text, schemaName)

	response, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("propose action: %w", err)
	}

	var action Action
	if err := json.Unmarshal([]byte(extractJSON(response)), &action); err != nil {
		c.log.Warn("classifier", "action parse failed", map[string]interface{}{
			"error":    err.Error(),
			"response": truncate(response, 300),
		})
		return nil, nil
	}
	if action.Operation == "" || action.Operation == OpNone {
		return nil, nil
	}
	return &action, nil
}

func buildRoutePrompt(history []Turn, text string) string {
	var prompt strings.Builder
	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a router for a site-builder assistant. Classify the user's request into exactly one route.\n")
	prompt.WriteString("Routes:\n")
	prompt.WriteString("- record: view, create, update or delete a site component, or manage its tags\n")
	prompt.WriteString("- style: change the site-wide design (theme, fonts, header, footer, card styling)\n")
	prompt.WriteString("- clarify: the user is describing or narrowing down which component they mean, or asking to list components\n")
	prompt.WriteString("</system>\n\n")
	writeHistory(&prompt, history)
	prompt.WriteString(fmt.Sprintf("<request>%s</request>\n\n", text))
	prompt.WriteString("Respond with JSON only: {\"route\": \"record|style|clarify\"}\n")
	return prompt.String()
}

func buildActionPrompt(history []Turn, text string, schemaName string) string {
	var prompt strings.Builder
	prompt.WriteString("<system>\n")
	prompt.WriteString("You extract one structured action from the user's request. Do NOT answer the request.\n")
	switch schemaName {
	case "design":
		prompt.WriteString("Operations: get (view design), update (change design fields), none.\n")
		prompt.WriteString("Put every field the user wants to change into \"fields\" with the user's own wording as keys.\n")
	case "clarify":
		prompt.WriteString("The user is describing which component they mean. Extract their descriptive terms into \"criteria\" ")
		prompt.WriteString("with the user's own wording as keys (e.g. {\"title\": \"Home\"}). Use operation \"get\". ")
		prompt.WriteString("If they just want everything listed, leave criteria empty.\n")
	default:
		prompt.WriteString("Operations: get, update, delete, attach_tag, detach_tag, none.\n")
		prompt.WriteString("Put update values into \"fields\" with the user's own wording as keys. ")
		prompt.WriteString("Set component_id only when the user named a specific component id. ")
		prompt.WriteString("Set tag_name for tag operations.\n")
	}
	prompt.WriteString("</system>\n\n")
	writeHistory(&prompt, history)
	prompt.WriteString(fmt.Sprintf("<request>%s</request>\n\n", text))
	prompt.WriteString("Respond with JSON only: {\"operation\": \"...\", \"component_id\": \"...\", \"fields\": {}, \"criteria\": {}, \"tag_name\": \"...\"}\n")
	return prompt.String()
}

func writeHistory(prompt *strings.Builder, history []Turn) {
	if len(history) == 0 {
		return
	}
	prompt.WriteString("<conversation>\n")
	// Recent turns only; old context stops mattering for routing.
	start := 0
	if len(history) > 10 {
		start = len(history) - 10
	}
	for _, turn := range history[start:] {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", turn.Speaker, turn.Text))
	}
	prompt.WriteString("</conversation>\n\n")
}

// extractJSON strips markdown fences and surrounding prose from a model
// response, keeping the outermost JSON object.
func extractJSON(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		return cleaned[start : end+1]
	}
	return cleaned
}

// fallbackRoute is the deterministic keyword heuristic used when the
// model output is unavailable or unparseable.
func fallbackRoute(text string) Route {
	lowered := strings.ToLower(text)
	for _, keyword := range []string{"design", "style", "theme", "font", "header", "footer", "color"} {
		if strings.Contains(lowered, keyword) {
			return RouteStyle
		}
	}
	for _, keyword := range []string{"which", "show me", "list", "all components", "the one"} {
		if strings.Contains(lowered, keyword) {
			return RouteClarify
		}
	}
	return RouteRecord
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
