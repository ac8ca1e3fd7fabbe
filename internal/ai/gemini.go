package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiTranslator translates batches through the Gemini API.
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed translator.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiTranslator{client: client, model: model}, nil
}

// Close releases the underlying client.
func (g *GeminiTranslator) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *GeminiTranslator) TranslateBatch(ctx context.Context, items []Item) (map[string]Translation, error) {
	if len(items) == 0 {
		return map[string]Translation{}, nil
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(batchPrompt(items)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	parsed := parseLabeledResponse(text)

	out := make(map[string]Translation, len(parsed))
	for idx, t := range parsed {
		if idx < 1 || idx > len(items) {
			continue
		}
		if t.TitleEN == "" || t.SummaryEN == "" {
			continue
		}
		out[items[idx-1].Link] = sanitizeTranslation(t)
	}
	return out, nil
}

func batchPrompt(items []Item) string {
	var b strings.Builder
	b.WriteString(`You are a news assistant. For each item below, translate the title into English and write a 1-2 sentence English summary.
Rules:
- Use ONLY the provided TITLE and SNIPPET. Do NOT invent facts.
- Keep proper names of people, brands and organizations untranslated.
- No introductions, no disclaimers.
- Answer strictly in this format, one block per item:

ITEM <number>
TITLE_EN: <english title>
SUMMARY_EN: <english summary>

`)
	for i, it := range items {
		fmt.Fprintf(&b, "ITEM %d\n", i+1)
		if it.Source != "" {
			fmt.Fprintf(&b, "SOURCE: %s\n", it.Source)
		}
		fmt.Fprintf(&b, "TITLE: %s\n", strings.TrimSpace(it.Title))
		fmt.Fprintf(&b, "SNIPPET: %s\n\n", truncateRunes(strings.TrimSpace(it.Snippet), maxSnippetRunes))
	}
	return b.String()
}

var (
	itemLabel    = regexp.MustCompile(`(?i)^\s*\**\s*ITEM\s+(\d+)\s*\**\s*$`)
	titleLabel   = regexp.MustCompile(`(?i)^\s*\**\s*TITLE_EN\s*\**\s*:\s*`)
	summaryLabel = regexp.MustCompile(`(?i)^\s*\**\s*SUMMARY_EN\s*\**\s*:\s*`)
)

// parseLabeledResponse walks the reply line by line, tolerating markdown
// bold around labels and continuation lines after SUMMARY_EN.
func parseLabeledResponse(text string) map[int]Translation {
	out := make(map[int]Translation)
	current := 0
	section := ""

	flushable := func(idx int) Translation { return out[idx] }

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := itemLabel.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				current = n
				section = ""
			}
			continue
		}
		if current == 0 {
			continue
		}

		switch {
		case titleLabel.MatchString(line):
			t := flushable(current)
			t.TitleEN = strings.TrimSpace(titleLabel.ReplaceAllString(line, ""))
			out[current] = t
			section = "title"
		case summaryLabel.MatchString(line):
			t := flushable(current)
			t.SummaryEN = strings.TrimSpace(summaryLabel.ReplaceAllString(line, ""))
			out[current] = t
			section = "summary"
		case section == "summary":
			t := flushable(current)
			t.SummaryEN = strings.TrimSpace(t.SummaryEN + " " + line)
			out[current] = t
		}
	}
	return out
}
