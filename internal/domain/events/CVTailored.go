package events

var CVTailoredTopic = "CVTailoredEvent"

type CVTailored struct {
	ProfileID    int
	JobID        int
	TailoredCVID int
}
