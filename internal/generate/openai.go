// Package generate adapts an OpenAI-compatible chat endpoint to the
// pipeline's ResponseGenerator interface. Works against OpenAI itself or
// any compatible server (Ollama, Groq, vLLM) via a base URL override.
package generate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cortezalberto/aulaguard/internal/model"
)

const defaultModel = "gpt-4o-mini"

// Generator calls a chat completion API, steering the reply with a system
// prompt derived from the selected pedagogical strategy.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the chat model name.
func WithModel(name string) Option {
	return func(g *Generator) { g.model = name }
}

// WithLogger sets the structured logger. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a Generator. baseURL may be empty for the OpenAI default.
func New(apiKey, baseURL string, opts ...Option) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	g := &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  defaultModel,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate produces the tutor reply for an allowed turn.
func (g *Generator) Generate(ctx context.Context, strat model.Strategy, prompt string, history []model.Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt(strat),
	})
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Role == "tutor" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}

	text := resp.Choices[0].Message.Content
	g.logger.Debug("response generated",
		zap.String("model", g.model),
		zap.String("response_type", string(strat.ResponseType)),
		zap.Int("chars", len(text)))
	return text, nil
}

// SystemPrompt renders the strategy into tutor instructions. The model
// only ever sees these constraints, never the governance internals.
func SystemPrompt(strat model.Strategy) string {
	var b strings.Builder
	b.WriteString("Eres un tutor de programación. Tu objetivo es que el estudiante piense por sí mismo.\n")

	switch strat.ResponseType {
	case model.SocraticQuestioning:
		b.WriteString("Responde únicamente con preguntas que guíen el razonamiento del estudiante. No des la respuesta.\n")
	case model.GuidedHints:
		b.WriteString("Da pistas concretas sobre el siguiente paso, sin resolver el problema completo.\n")
	case model.ConceptualExplanation:
		b.WriteString("Explica el concepto con claridad y un ejemplo pequeño, sin resolver la tarea del estudiante.\n")
	case model.ClarificationRequest:
		b.WriteString("Pide al estudiante que aclare qué intenta lograr y qué ha probado hasta ahora.\n")
	case model.Rejection:
		b.WriteString("Explica brevemente por qué no puedes ayudar con esta petición tal como está formulada.\n")
	}

	switch strat.HelpLevel {
	case model.HelpMinimal:
		b.WriteString("Nivel de ayuda: mínimo. Máxima brevedad.\n")
	case model.HelpLow:
		b.WriteString("Nivel de ayuda: bajo. Orienta sin desarrollar.\n")
	case model.HelpMedium:
		b.WriteString("Nivel de ayuda: medio.\n")
	case model.HelpHigh:
		b.WriteString("Nivel de ayuda: alto. Puedes desarrollar la explicación.\n")
	}

	if model.HasRestriction(strat.Restrictions, model.RestrictBlockCodeGeneration) {
		b.WriteString("Prohibido: no escribas código ejecutable en la respuesta.\n")
	}
	if model.HasRestriction(strat.Restrictions, model.RestrictRequireJustification) {
		b.WriteString("Pide siempre al estudiante que justifique su razonamiento.\n")
	}
	if model.HasRestriction(strat.Restrictions, model.RestrictIncreaseQuestionRatio) {
		b.WriteString("Incluye al menos dos preguntas en tu respuesta.\n")
	}
	for _, el := range strat.RequiredElements {
		switch el {
		case "counter_question":
			b.WriteString("Termina con una contrapregunta sobre el enfoque del estudiante.\n")
		case "next_step_hint":
			b.WriteString("Incluye una pista sobre el siguiente paso de depuración.\n")
		case "reasoning_prompt":
			b.WriteString("Pide al estudiante que explique por qué cree que su solución es correcta.\n")
		case "work_request":
			b.WriteString("Pide al estudiante que muestre lo que ha intentado antes de seguir.\n")
		}
	}
	return b.String()
}
