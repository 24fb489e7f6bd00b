package insights

import (
	"fmt"
	"strings"

	"SkillLog/internal/core/comments"
	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/profiles"
)

// NoMatch is the sentinel answer for candidates that do not fit a search.
const NoMatch = "NO_MATCH"

const chatSystemInstruction = "You are a friendly and expert learning assistant for the SkillLog app. " +
	"You help users understand programming concepts, debug code, and suggest learning resources. " +
	"Keep your answers concise, well-formatted with Markdown, and encouraging."

func reportPrompt(entries []*logs.LogEntry) string {
	var b strings.Builder
	b.WriteString(`You are an expert career coach and technical writer, specializing in summarizing a developer's learning journey for recruiters and hiring managers. Analyze the following learning logs and generate a concise, professional "Proof of Skill" report in Markdown format.

The report MUST include the following sections:
1.  **Executive Summary:** A 2-3 sentence overview of the user's recent learning trajectory and key areas of focus.
2.  **Core Competencies:** Analyze the tags and log content to identify and cluster 3-4 high-level skills. List them as bullet points.
3.  **Key Project Milestones:** Identify 2-3 log entries that represent significant accomplishments or project-based work. Pay special attention to logs that include a GitHub or Live URL. Quote or summarize them as evidence of practical application.
`)
	fmt.Fprintf(&b, "4.  **Learning Velocity:** Provide a simple metric based on the number of logs, like \"Logged %d sessions, demonstrating a consistent commitment to skill development.\"\n\n", len(entries))
	b.WriteString("Here are the logs:\n\n")

	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "Date: %s\nTags: %s\nLog: %s\nGitHub: %s\nLive URL: %s",
			e.CreatedAt.Format("2006-01-02"),
			strings.Join(e.Tags, ", "),
			e.Text,
			orNA(e.GitHubURL),
			orNA(e.LiveURL))
	}
	return b.String()
}

func searchPrompt(query string, dev *profiles.Profile, entries []*logs.LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a tech recruiter. A user is searching for a developer with skills in %q.\n", query)
	b.WriteString("Analyze this developer's profile and recent logs to see if they are a good match.\n")
	fmt.Fprintf(&b, "Provide a one-sentence \"Match Reason\" explaining why they are relevant to the search. If they are not a good match, respond with %q.\n\n", NoMatch)
	fmt.Fprintf(&b, "Developer: %s\nLogs:\n", dev.DisplayName)
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s\n", e.Text)
	}
	b.WriteString("\nMatch Reason:")
	return b.String()
}

func spotlightPrompt(dev *profiles.Profile, entries []*logs.LogEntry, recent []*comments.Comment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a talent scout for a top tech company. Analyze the following developer's activity and write a short, compelling \"Spotlight Summary\" (max %d words) for why they are a developer to watch. Focus on their skills, consistency, and community involvement.\n\n", maxSpotlightWords)
	fmt.Fprintf(&b, "Developer Name: %s\nReputation: %d\n\nRecent Logs:\n", dev.DisplayName, dev.Reputation)
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s (Tags: %s)\n", e.Text, strings.Join(e.Tags, ", "))
	}
	b.WriteString("\nRecent Comments:\n")
	for _, c := range recent {
		fmt.Fprintf(&b, "- %s\n", c.Content)
	}
	b.WriteString("\nSpotlight Summary:")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// truncateWords keeps at most n whitespace-separated words.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}
