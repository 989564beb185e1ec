package provision

type Outcome int

const (
	AlreadyPresent Outcome = iota
	Installed
	Failed
	// Skipped marks targets whose condition does not hold on this host.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case AlreadyPresent:
		return "already present"
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}
