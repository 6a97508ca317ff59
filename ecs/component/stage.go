package component

// StagePhase is where the session is in the gate -> intro -> slides flow.
type StagePhase int

const (
	StageGate StagePhase = iota
	StageIntro
	StageNope
	StageSlides
)

func (p StagePhase) String() string {
	switch p {
	case StageGate:
		return "gate"
	case StageIntro:
		return "intro"
	case StageNope:
		return "nope"
	case StageSlides:
		return "slides"
	default:
		return "unknown"
	}
}

// Stage is the session singleton holding the current phase.
type Stage struct {
	Phase StagePhase
}

// StageAction is a button press.
type StageAction int

const (
	ActionConfirm StageAction = iota
	ActionDecline
	ActionStart
)

func (a StageAction) String() string {
	switch a {
	case ActionConfirm:
		return "confirm"
	case ActionDecline:
		return "decline"
	case ActionStart:
		return "start"
	default:
		return "unknown"
	}
}

// StageRequest is a one-shot request created by the UI; the stage system
// consumes and destroys it.
type StageRequest struct {
	Action StageAction
}

var StageComponent = NewComponent[Stage]()
var StageRequestComponent = NewComponent[StageRequest]()
