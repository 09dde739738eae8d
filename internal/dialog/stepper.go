package dialog

// Phase of a two-step create flow.
type Phase int

const (
	SelectPrerequisite Phase = iota
	FillForm
)

// Stepper drives a create flow that first asks for a prerequisite (for example the department)
// and then shows the form. The phase is derived from the prerequisite and never persisted.
type Stepper struct {
	prerequisite string
}

// NewStepper starts in FillForm when the prerequisite is already known.
func NewStepper(prerequisite string) *Stepper {
	return &Stepper{prerequisite: prerequisite}
}

func (s *Stepper) Phase() Phase {
	if s.prerequisite == "" {
		return SelectPrerequisite
	}
	return FillForm
}

func (s *Stepper) Choose(value string) {
	s.prerequisite = value
}

// Back returns to the prerequisite step.
func (s *Stepper) Back() {
	s.prerequisite = ""
}

func (s *Stepper) Prerequisite() string {
	return s.prerequisite
}
