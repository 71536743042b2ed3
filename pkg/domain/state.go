package domain

// Phase is the position of the Interview Controller in its state machine.
type Phase string

const (
	PhaseIdle               Phase = "idle"                // Start not called yet
	PhaseAwaitingResponse   Phase = "awaiting_response"   // Request in flight
	PhasePresentingQuestion Phase = "presenting_question" // Control rendered, waiting for the user
	PhaseFailed             Phase = "failed"              // Transport error, retry allowed
	PhaseTerminal           Phase = "terminal"            // Absorbing
)
