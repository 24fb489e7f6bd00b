package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Chat roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one prior message in a chat conversation.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Generator produces text from a prompt. Implementations are opaque: any
// error is a failed generation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat continues history with message under a system instruction.
	Chat(ctx context.Context, system string, history []ChatTurn, message string) (string, error)
}

// GenAIGenerator calls Gemini through google.golang.org/genai.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// GenAIConfig configures NewGenAIGenerator.
type GenAIConfig struct {
	APIKey   string
	Model    string
	VertexAI bool // use the Vertex AI backend; project and location come from the environment
}

// NewGenAIGenerator creates a Gemini-backed generator.
func NewGenAIGenerator(ctx context.Context, cfg GenAIConfig) (*GenAIGenerator, error) {
	if cfg.APIKey == "" && !cfg.VertexAI {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.VertexAI {
		clientCfg.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{client: client, model: cfg.Model}, nil
}

// Generate implements Generator.
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Chat implements Generator.
func (g *GenAIGenerator) Chat(ctx context.Context, system string, history []ChatTurn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
