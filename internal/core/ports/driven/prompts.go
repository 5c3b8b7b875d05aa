package driven

// Prompt names understood by PromptStore.
const (
	// PromptPersona opens the answer system prompt.
	PromptPersona = "persona"
)

// PromptStore loads user-editable prompt text.
type PromptStore interface {
	// Load returns the prompt for name, or the built-in default when
	// the user has not customised it.
	Load(name string) (string, error)
}
