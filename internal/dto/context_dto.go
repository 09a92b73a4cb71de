package dto

// TurnContextRequest carries per-turn overrides; zero values fall back to
// the configured defaults.
type TurnContextRequest struct {
	DayWindow        int  `query:"day_window"`
	MaxConversations int  `query:"max_conversations"`
	MaxMessages      int  `query:"max_messages"`
	MaxAskCandidates int  `query:"max_ask_candidates"`
	SkipPeopleToAsk  bool `query:"skip_people_to_ask"`
}

// TurnContextResponse is the single payload the turn orchestrator feeds
// into generation. Every part may be empty; assembly never fails a turn.
type TurnContextResponse struct {
	InstructionsBlock string                    `json:"instructions_block"`
	RecentMessages    []*ContextMessageResponse `json:"recent_messages"`
	PeopleToAsk       []*AskCandidateResponse   `json:"people_to_ask"`
}
