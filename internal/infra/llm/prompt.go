package llm

import (
	"fmt"
	"strings"

	"github.com/vietddude/storyforge/internal/core/domain"
)

// Prompt builders for the wizard steps. These produce the user-facing
// prompt strings; the surrounding application decides when to call them.

const systemPrompt = "You are a writing assistant helping an author develop a novel. " +
	"Answer with the requested content only, no preamble."

// CharacterPrompt asks for a character profile fitting the project.
func CharacterPrompt(p *domain.Project, role string) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "Premise: %s\n", p.Description)
	}
	if len(p.Characters) > 0 {
		b.WriteString("Existing characters:\n")
		for _, c := range p.Characters {
			fmt.Fprintf(&b, "- %s (%s): %s\n", c.Name, c.Role, c.Description)
		}
	}
	fmt.Fprintf(&b, "\nCreate a new %s character: name, age, personality, background and their role in the story.", role)
	return Request{Prompt: b.String(), System: systemPrompt}
}

// SynopsisPrompt asks for a synopsis from the plot structure.
func SynopsisPrompt(p *domain.Project) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", p.Title)
	if plot := p.Plot; plot != nil {
		fmt.Fprintf(&b, "Genre: %s\nTheme: %s\nSetting: %s\nConflict: %s\nResolution: %s\n",
			plot.Genre, plot.Theme, plot.Setting, plot.Conflict, plot.Resolution)
		for _, act := range plot.Acts {
			fmt.Fprintf(&b, "Act %d (%s): %s\n", act.Order, act.Title, act.Description)
		}
	}
	b.WriteString("\nWrite a one-page synopsis of this story.")
	return Request{Prompt: b.String(), System: systemPrompt}
}

// ChapterPrompt asks for a chapter draft.
func ChapterPrompt(p *domain.Project, chapter *domain.Chapter) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", p.Title)
	if p.Synopsis != "" {
		fmt.Fprintf(&b, "Synopsis: %s\n", p.Synopsis)
	}
	fmt.Fprintf(&b, "\nDraft chapter %d, titled %q.", chapter.Order, chapter.Title)
	if chapter.Content != "" {
		fmt.Fprintf(&b, " Revise and continue from this existing draft:\n%s", chapter.Content)
	}
	return Request{Prompt: b.String(), System: systemPrompt}
}
