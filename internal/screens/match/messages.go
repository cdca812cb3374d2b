package match

import "github.com/abhisek/swipematch/internal/delivery"

// heartsTickMsg spawns the next wave of hearts.
type heartsTickMsg struct{}

// deliveredMsg is sent when a delivery job has finished, successfully or not.
type deliveredMsg struct {
	Job     int
	Outcome delivery.Outcome
	Payload string
}

// jobFailedMsg is sent when the artifact could not be produced.
type jobFailedMsg struct {
	Job int
	Err error
}

// journalErrMsg reports a failed journal write.
type journalErrMsg struct {
	Err error
}
