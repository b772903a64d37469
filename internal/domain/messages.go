package domain

// Wire message types shared between the gateway and clients. The trivia
// protocol keeps its original socket-style namespacing.
const (
	// server -> client
	MsgPlayers       = "players"
	MsgWorldState    = "gameState"
	MsgCurrentScores = "trivia:current_scores"
	MsgNewQuestion   = "trivia:new_question"
	MsgTimerUpdate   = "trivia:timer_update"
	MsgRoundEnd      = "trivia:round_end"
	MsgGameOver      = "trivia:game_over"

	// client -> server
	MsgJoin         = "player:join"
	MsgSubmitAnswer = "trivia:submit_answer"
	MsgStartGame    = "trivia:start"
	MsgMove         = "move"
)
