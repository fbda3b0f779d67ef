package events

var MatchesComputedTopic = "MatchesComputedEvent"

type MatchesComputed struct {
	ProfileID int
	Total     int
	TopJobID  int
}
