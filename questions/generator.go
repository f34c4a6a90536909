// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/nixgames/trivia-rooms/models"
)

// Generator produces a question set for a room. Implementations must
// always resolve: on any upstream failure they substitute the fallback
// bank rather than return an error, so a room can never get stuck in
// the generating phase.
type Generator interface {
	Generate(ctx context.Context, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error)
}

const generateTimeout = 45 * time.Second

// OpenAIGenerator calls the OpenAI chat-completions API. With no API
// key it serves the fallback banks directly.
type OpenAIGenerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerator creates a generator against the given endpoint.
// baseURL defaults to the public OpenAI API when empty; apiKey may be
// empty, in which case every request is served from the fallback bank.
func NewOpenAIGenerator(apiKey, baseURL string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGenerator{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: generateTimeout},
	}
}

// Generate produces a question set for the request. The returned error
// is only ever a validation error (bad count, bad difficulty); model
// failures degrade to the fallback bank instead.
func (g *OpenAIGenerator) Generate(ctx context.Context, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	if err := validateCount(req.Count); err != nil {
		return nil, err
	}
	if !req.Difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", req.Difficulty)
	}
	mode := req.GameMode
	if mode == "" {
		mode = models.ModeStandard
	}
	model := req.AIModel
	if model == "" {
		model = models.DefaultAIModel
	}

	theme := req.Theme
	var generatedTheme string
	if mode == models.ModeCustom && req.ShouldGenerateTheme {
		generatedTheme = g.generateTheme(ctx, model)
		theme = generatedTheme
	}

	if g.apiKey == "" {
		slog.Info("no OpenAI key, serving fallback questions", "mode", mode, "count", req.Count)
		return &models.GenerateQuestionsResponse{
			Questions:      FallbackQuestions(mode, req.Count, req.PlayerNames),
			GeneratedTheme: generatedTheme,
		}, nil
	}

	parsed, err := g.fetchQuestions(ctx, model, buildPrompt(mode, theme, req.Difficulty, req.Count, req.PlayerNames))
	if err != nil {
		slog.Warn("question generation failed, serving fallback", "error", err, "mode", mode)
		return &models.GenerateQuestionsResponse{
			Questions:      FallbackQuestions(mode, req.Count, req.PlayerNames),
			GeneratedTheme: generatedTheme,
		}, nil
	}

	if len(parsed) > req.Count {
		parsed = parsed[:req.Count]
	}
	// Personality mode has no correct answer; zero the placeholder so
	// the documents stay comparable.
	if mode == models.ModePersonality {
		for i := range parsed {
			parsed[i].CorrectIndex = 0
		}
	}

	return &models.GenerateQuestionsResponse{Questions: parsed, GeneratedTheme: generatedTheme}, nil
}

// generateTheme asks the model for one surprise theme, falling back to
// the canned list.
func (g *OpenAIGenerator) generateTheme(ctx context.Context, model string) string {
	if g.apiKey == "" {
		return FallbackTheme()
	}

	content, err := g.chat(ctx, model, chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You create unique, creative, and fun trivia themes that players have never seen before."},
			{Role: "user", Content: "Generate ONE unique and creative trivia theme that would be fun for a party quiz game. " +
				"Make it quirky, unexpected, and engaging. Respond with ONLY the theme name, nothing else."},
		},
		Temperature: 1.0,
		MaxTokens:   50,
	})
	if err != nil || strings.TrimSpace(content) == "" {
		slog.Warn("theme generation failed, using fallback theme", "error", err)
		return FallbackTheme()
	}
	return strings.TrimSpace(content)
}

func (g *OpenAIGenerator) fetchQuestions(ctx context.Context, model, prompt string) ([]models.Question, error) {
	content, err := g.chat(ctx, model, chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You generate lively multiple-choice trivia. Answer ONLY with valid JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	var parsed []models.Question
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &parsed); err != nil {
		return nil, fmt.Errorf("model reply is not a question array: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	return parsed, nil
}

// OpenAI chat-completions wire types, the fields we use.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat performs one chat-completion call and returns the first
// choice's content.
func (g *OpenAIGenerator) chat(ctx context.Context, model string, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion: unexpected status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode chat completion: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

// buildPrompt assembles the per-mode user prompt.
func buildPrompt(mode models.GameMode, theme string, difficulty models.Difficulty, count int, playerNames []string) string {
	switch mode {
	case models.ModeEmoji:
		return fmt.Sprintf("Create %d %s emoji decoder questions. Each question should be a series of emojis (2-5 emojis) "+
			"that represent a famous movie, book, song, place, concept, or phrase. The choices should be text answers "+
			"where one is correct. Make the emojis creative and fun! "+
			"Respond with a JSON array where each item has {\"question\": string (ONLY emojis), \"choices\": [4 strings], \"correctIndex\": 0-3}. "+
			"Vary the categories (movies, places, concepts, songs, books, etc).", count, difficulty)
	case models.ModePersonality:
		players := playerNames
		if len(players) == 0 {
			players = []string{"Player 1", "Player 2", "Player 3", "Player 4"}
		}
		return fmt.Sprintf("Create %d fun \"most likely to\" or personality questions about these players: %s. "+
			"Each question should be about which player would do something or has a certain trait. "+
			"IMPORTANT: Do NOT include a correctIndex field - this is a popular vote game where players vote for their choice. "+
			"Respond with a JSON array where each item has {\"question\": string, \"choices\": [all player names as strings]}.",
			count, strings.Join(players, ", "))
	default:
		return fmt.Sprintf("Create %d %s trivia questions about %s. "+
			"Respond with a JSON array where each item has {\"question\": string, \"choices\": [4 strings], \"correctIndex\": 0-3}. "+
			"Keep text concise.", count, difficulty, theme)
	}
}

var codeFenceRegexp = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

// stripCodeFences removes a surrounding markdown code block from a
// model reply, if present.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	if m := codeFenceRegexp.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return content
}

// Static is a Generator with a fixed reply, for tests and offline use.
type Static struct {
	Questions      []models.Question
	GeneratedTheme string
	Err            error
}

func (s Static) Generate(ctx context.Context, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &models.GenerateQuestionsResponse{Questions: s.Questions, GeneratedTheme: s.GeneratedTheme}, nil
}
