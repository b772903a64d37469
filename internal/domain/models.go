package domain

// Player represents a connected participant. Identity is connection-scoped
// and not persisted; position and color feed the avatar overlay.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// ScoreEntry is one leaderboard row keyed by player identity.
type ScoreEntry struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// Question models an MCQ question with a single correct option index.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// QuestionBank is the fixed, ordered list of questions for one game cycle.
type QuestionBank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// QuestionPrompt is the client-facing view of a question. The correct
// answer index is deliberately absent until the round ends.
type QuestionPrompt struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
}

// RoundResult is broadcast when a round's timer expires.
type RoundResult struct {
	Answer int          `json:"answer"`
	Scores []ScoreEntry `json:"scores"`
}

// WorldState is the avatar overlay snapshot.
type WorldState struct {
	Players   []Player `json:"players"`
	Timestamp int64    `json:"timestamp"`
}

// MovePayload is the inbound avatar movement message.
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}
