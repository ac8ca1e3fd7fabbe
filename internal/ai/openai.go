package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITranslator translates batches through the OpenAI chat API, asking
// for strict JSON so no reply scraping is needed.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed translator.
func NewOpenAI(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{client: openai.NewClient(apiKey), model: model}
}

const openaiSystemPrompt = `You are a news assistant. For each numbered item, translate the title into English and write a short English summary.
Rules:
- Use ONLY the provided TITLE and SNIPPET.
- Do NOT invent facts.
- Keep each summary 1-2 sentences.
- Return strict JSON: {"items": [{"id": 1, "title_en": "...", "summary_en": "..."}]}`

type openaiBatchReply struct {
	Items []struct {
		ID        int    `json:"id"`
		TitleEN   string `json:"title_en"`
		SummaryEN string `json:"summary_en"`
	} `json:"items"`
}

func (o *OpenAITranslator) TranslateBatch(ctx context.Context, items []Item) (map[string]Translation, error) {
	if len(items) == 0 {
		return map[string]Translation{}, nil
	}

	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "ITEM %d\nTITLE: %s\nSNIPPET: %s\n\n",
			i+1,
			strings.TrimSpace(it.Title),
			truncateRunes(strings.TrimSpace(it.Snippet), maxSnippetRunes))
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var reply openaiBatchReply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		return nil, fmt.Errorf("unparseable OpenAI reply: %w", err)
	}

	out := make(map[string]Translation, len(reply.Items))
	for _, it := range reply.Items {
		if it.ID < 1 || it.ID > len(items) {
			continue
		}
		t := Translation{
			TitleEN:   strings.TrimSpace(it.TitleEN),
			SummaryEN: strings.TrimSpace(it.SummaryEN),
		}
		if t.TitleEN == "" || t.SummaryEN == "" {
			continue
		}
		out[items[it.ID-1].Link] = sanitizeTranslation(t)
	}
	return out, nil
}
