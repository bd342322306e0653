package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	model            = "gpt-4o-mini"
	maxContentLength = 2000 // runes sent to the model per post
	maxSummaryLength = 100  // runes kept in a summary
)

// Annotation is the analysis result for one post.
type Annotation struct {
	Summary      string  `json:"summary"`
	HasSchedule  bool    `json:"hasSchedule"`
	ScheduleDate *string `json:"scheduleDate"`
}

// Analyzer generates post summaries and extracts event dates via OpenAI.
// It never fails outward: any API or parse error degrades to a default
// annotation built from the post title.
type Analyzer struct {
	client *openai.Client
}

func NewAnalyzer(apiKey string) *Analyzer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Analyzer{client: &client}
}

// Analyze summarizes a post and looks for a concrete event date.
func (a *Analyzer) Analyze(ctx context.Context, title, content, url string) Annotation {
	cleaned := Truncate(CleanContent(content), maxContentLength)

	response, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String("You are an expert at analyzing social media posts. Summarize concisely and accurately, and extract event dates."),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(buildPrompt(title, cleaned)),
					},
				},
			},
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(300),
	})
	if err != nil {
		slog.Warn("Post analysis failed", "title", Truncate(title, 40), "error", err)
		return fallbackAnnotation(title)
	}

	if len(response.Choices) == 0 {
		slog.Warn("Post analysis returned no choices", "title", Truncate(title, 40))
		return fallbackAnnotation(title)
	}

	var annotation Annotation
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &annotation); err != nil {
		slog.Warn("Post analysis response was not valid JSON", "title", Truncate(title, 40), "error", err)
		return fallbackAnnotation(title)
	}

	annotation.Summary = Truncate(annotation.Summary, maxSummaryLength)
	if !annotation.HasSchedule {
		annotation.ScheduleDate = nil
	}

	return annotation
}

func buildPrompt(title, content string) string {
	today := time.Now().Format("2006-01-02")

	return fmt.Sprintf(`Analyze the following post:

Title: %s
Content: %s

Return JSON in exactly this shape:
{
  "summary": "post summary (at most 100 characters, essentials only)",
  "hasSchedule": true or false,
  "scheduleDate": "YYYY-MM-DD" or null
}

Schedule detection rules:
- Concerts, fan meetings, performances, comebacks, album releases, broadcasts, live streams, events
- hasSchedule is true only when a concrete date is stated
- Today's date: %s
- Resolve relative expressions like "next week" into an absolute date
- "March 15" -> "%s-03-15" style dates, "12/25" -> "%s-12-25"
- When the date is vague or absent, hasSchedule: false`,
		title, content, today, today[:4], today[:4])
}

// fallbackAnnotation is the degraded default when analysis cannot complete:
// the truncated title stands in for the summary.
func fallbackAnnotation(title string) Annotation {
	return Annotation{
		Summary:     Truncate(title, maxSummaryLength),
		HasSchedule: false,
	}
}
