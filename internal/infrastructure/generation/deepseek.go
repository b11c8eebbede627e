package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"listcraft/internal/application/listing/usecases"
	"listcraft/internal/domain/listing"
	"listcraft/internal/shared/config"
	"listcraft/internal/shared/logger"
)

// tone-specific system prompts. Unknown tones fall back to professional,
// though the use case validates the tone before we get here.
var systemPrompts = map[listing.Tone]string{
	listing.ToneProfessional: "You are a professional real estate copywriter. Generate compelling, " +
		"accurate, and professional property descriptions that highlight key features " +
		"and benefits. Use industry-standard terminology and maintain a professional tone.",
	listing.ToneLuxury: "You are a luxury real estate copywriter. Create elegant, sophisticated " +
		"descriptions that evoke exclusivity and prestige. Use rich, descriptive language " +
		"that appeals to high-end buyers. Emphasize luxury features, quality, and lifestyle.",
	listing.ToneFriendly: "You are a friendly and approachable real estate copywriter. Write warm, " +
		"inviting descriptions that make potential buyers feel at home. Use conversational " +
		"language while remaining informative and honest.",
	listing.ToneConcise: "You are a concise real estate copywriter. Create brief, punchy descriptions " +
		"that get straight to the point. Highlight only the most important features " +
		"in a clear, direct manner. Keep descriptions under 150 words.",
	listing.ToneDetailed: "You are a detailed real estate copywriter. Provide comprehensive, thorough " +
		"descriptions that cover all aspects of the property. Include specific details " +
		"about features, layout, and amenities. Paint a complete picture for buyers.",
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DeepSeekGenerator implements the text generator against the DeepSeek
// chat-completions API.
type DeepSeekGenerator struct {
	cfg        config.GenerationConfig
	httpClient *http.Client
	logger     logger.Interface
}

func NewDeepSeekGenerator(cfg config.GenerationConfig, log logger.Interface) *DeepSeekGenerator {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DeepSeekGenerator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

func (g *DeepSeekGenerator) GenerateDescription(ctx context.Context, req usecases.GenerationRequest) (string, error) {
	payload := chatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Tone)},
			{Role: "user", Content: buildPrompt(req)},
		},
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.Errorw("generation API returned an error",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("generation API returned no choices")
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("generation API returned an empty description")
	}
	return text, nil
}

func systemPrompt(tone listing.Tone) string {
	if prompt, ok := systemPrompts[tone]; ok {
		return prompt
	}
	return systemPrompts[listing.ToneProfessional]
}

func buildPrompt(req usecases.GenerationRequest) string {
	parts := []string{
		fmt.Sprintf("Generate a compelling property description for the following %s:", strings.ToLower(req.PropertyType)),
		"",
		fmt.Sprintf("**Property Type:** %s", req.PropertyType),
	}

	if req.Title != "" {
		parts = append(parts, fmt.Sprintf("**Listing Title:** %s", req.Title))
	}
	if req.Location != "" {
		parts = append(parts, fmt.Sprintf("**Location:** %s", req.Location))
	}
	if req.Bedrooms > 0 {
		parts = append(parts, fmt.Sprintf("**Bedrooms:** %d", req.Bedrooms))
	}
	if req.Bathrooms > 0 {
		parts = append(parts, fmt.Sprintf("**Bathrooms:** %d", req.Bathrooms))
	}
	if req.SquareFeet > 0 {
		parts = append(parts, fmt.Sprintf("**Square Footage:** %d sqft", req.SquareFeet))
	}
	if len(req.Features) > 0 {
		parts = append(parts, fmt.Sprintf("**Key Features:** %s", strings.Join(req.Features, ", ")))
	}

	parts = append(parts, "",
		"Create an SEO-optimized description that highlights the property's best features "+
			"and appeals to potential buyers. Focus on benefits and lifestyle. "+
			"Do not include a title or heading - just the description text.")

	return strings.Join(parts, "\n")
}
