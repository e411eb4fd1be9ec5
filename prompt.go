package fmindex

// Step names passed to a Prompter.
const (
	TallyStepName = "tally step"
	SAStepName    = "sa step"
)

// Prompter supplies a configuration value that was not given to Encode.
// The index never reads from a terminal itself.
type Prompter interface {
	PromptStep(name string) (int, error)
}

// PromptFunc adapts an ordinary function to a Prompter.
type PromptFunc func(name string) (int, error)

func (f PromptFunc) PromptStep(name string) (int, error) {
	return f(name)
}
