package mapper

// Processor is one step of the resolution pipeline. Process runs once per
// resolution, over every registered type in ancestor-first order.
type Processor interface {
	Name() string
	Process(s *State) error
}

// Stage identifies a built-in pipeline step that can be replaced.
type Stage int

const (
	// StageDiscovery enumerates and classifies members.
	StageDiscovery Stage = iota
	// StageAnnotations reads struct tags into the raw configuration.
	StageAnnotations
	// StageCore resolves identities, keys, columns and names.
	StageCore
)

func (s Stage) String() string {
	switch s {
	case StageDiscovery:
		return "discovery"
	case StageAnnotations:
		return "annotations"
	case StageCore:
		return "core"
	default:
		return "custom"
	}
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc struct {
	Label string
	Fn    func(s *State) error
}

// Name returns the label.
func (p *ProcessorFunc) Name() string {
	return p.Label
}

// Process calls the function.
func (p *ProcessorFunc) Process(s *State) error {
	return p.Fn(s)
}
