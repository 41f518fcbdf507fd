package llm

import (
	"fmt"
	"strings"

	"github.com/kalambet/dolater/internal/content"
)

const (
	maxContextItems = 10
	maxHistory      = 10
)

const promptHeader = `You are Genie, the DoLater assistant. You help users organize and take action on their saved content. You are good at:
1. **Content Analysis**: extracting key insights from articles, videos and resources
2. **Smart Summarization**: concise, actionable summaries of the most important points
3. **Action Planning**: turning content into step-by-step plans and achievable goals
4. **Personalized Recommendations**: next steps based on the user's interests and saves
5. **Content Organization**: categorizing and prioritizing saved items`

const promptGuidelines = `Guidelines:
- Be specific and actionable
- When summarizing, focus on key takeaways
- Create realistic, time-bound action plans
- Reference specific saved items when relevant
- Ask clarifying questions when needed
- Keep responses concise but complete`

// SystemPrompt describes the assistant and up to ten of the user's saves.
func SystemPrompt(items []content.Item) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\n")

	if len(items) == 0 {
		sb.WriteString("The user hasn't saved any content items yet.")
	} else {
		if len(items) > maxContextItems {
			items = items[:maxContextItems]
		}
		fmt.Fprintf(&sb, "User's saved content (%d items):\n", len(items))
		for _, it := range items {
			sb.WriteString(formatItem(it))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(promptGuidelines)
	return sb.String()
}

func formatItem(it content.Item) string {
	summary := it.Summary
	if summary == "" {
		summary = "No summary"
	}
	tags := "None"
	if len(it.Tags) > 0 {
		tags = strings.Join(it.Tags, ", ")
	}
	return fmt.Sprintf("\n- Title: %s\n- Category: %s\n- Summary: %s\n- URL: %s\n- Tags: %s\n",
		it.Title, it.Category, summary, it.URL, tags)
}
