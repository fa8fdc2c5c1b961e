package generation

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/quill/internal/prompts"
)

const responseFormat = `Respond with JSON only, in this shape:
{"title": "story title", "chapters": [{"title": "chapter title", "content": "chapter text in markdown"}]}`

// Instructions composes the system prompt for an output document: the
// writing task, its rules, moderation policy, length limits, and the
// expected response format. The output itself is sent as the user message.
func Instructions(out prompts.Output) string {
	var sb strings.Builder

	sb.WriteString("You are a fiction writer. Write the story described by the JSON prompt in the user message.\n")

	if out.Task != "" {
		fmt.Fprintf(&sb, "\nTask: %s\n", out.Task)
	}

	if len(out.Rules) > 0 {
		sb.WriteString("\nFollow these rules in order of priority:\n")
		for i, rule := range out.Rules {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
		}
	}

	story := out.StoryConfig
	if story.Genre != "" || story.Plot != "" || len(story.Specifics) > 0 {
		sb.WriteString("\nStory:\n")
		if story.Genre != "" {
			fmt.Fprintf(&sb, "- Genre: %s\n", story.Genre)
		}
		if story.Plot != "" {
			fmt.Fprintf(&sb, "- Plot: %s\n", story.Plot)
		}
		for _, s := range story.Specifics {
			fmt.Fprintf(&sb, "- Include: %s\n", s)
		}
	}

	sb.WriteString("\nContent policy:\n")
	sb.WriteString(policyLine("Vulgar content", out.Moderation.AllowVulgar))
	sb.WriteString(policyLine("Cussing", out.Moderation.AllowCussing))

	sb.WriteString("\nLimits:\n")
	limits := out.Limits
	switch {
	case limits.MaxWords > 0:
		fmt.Fprintf(&sb, "- Write between %d and %d words in total.\n", limits.MinWords, limits.MaxWords)
	case limits.MinWords > 0:
		fmt.Fprintf(&sb, "- Write at least %d words in total.\n", limits.MinWords)
	}
	if limits.MaxChapters > 0 {
		fmt.Fprintf(&sb, "- Use at most %d chapters.\n", limits.MaxChapters)
	}
	fmt.Fprintf(&sb, "- Uniqueness: %.2f on a 0 to 1 scale; higher values favor unconventional choices.\n", limits.Uniqueness)

	sb.WriteString("\n")
	sb.WriteString(responseFormat)

	return sb.String()
}

func policyLine(subject string, allowed bool) string {
	if allowed {
		return "- " + subject + " is allowed where the story calls for it.\n"
	}
	return "- " + subject + " is not allowed.\n"
}
