package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. Templates are Go text/template sources; the
// data passed to each is documented alongside the name.
const (
	// PromptClassify selects an agreement category.
	// Data: .Text (document prefix), .Categories ([]string labels).
	PromptClassify = "classify"

	// PromptSummary renders a short or detailed summary request.
	// Data: .Text, .Template (domain.TemplateDescriptor), .Detailed, .MinWords, .MaxWords.
	PromptSummary = "summary"

	// PromptAnswer composes a grounded answer.
	// Data: .Context ([]string chunks), .History ([]string lines), .Query.
	PromptAnswer = "answer"

	// PromptChatName names a new session.
	// Data: .DocumentName, .Summary, .Query.
	PromptChatName = "chat_name"
)
