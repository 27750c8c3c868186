package remedy

import "github.com/tmc/langchaingo/llms"

// ContentPart is a piece of model-message content. It aliases langchaingo's
// type so suggestions drop straight into hosts that assemble their model
// calls with that library, without importing it at the call site.
type ContentPart interface {
	llms.ContentPart
}

// ContentParts renders the suggestion as model-message content, for hosts
// that splice guidance into the conversation as its own part rather than
// concatenating strings.
func (s *Suggestion) ContentParts() []ContentPart {
	return []ContentPart{llms.TextContent{Text: s.Text}}
}

// AppendToObservation splices the suggestion onto the end of an observation
// text, the way the guidance is surfaced in the agent's next turn. An empty
// observation returns the suggestion text alone.
func (s *Suggestion) AppendToObservation(observation string) string {
	if observation == "" {
		return s.Text
	}
	return observation + "\n\n" + s.Text
}
