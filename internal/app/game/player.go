package game

// Player tracks one participant's progress within a room. Players are keyed by
// their display name, which is unique within the room and immutable once joined.
type Player struct {
	// Name is the display name, unique within the owning room.
	Name string `json:"name"`

	// Score is the reward earned for guessing the word, 0 until completed.
	Score int `json:"score"`

	// Attempts counts how many guesses the player has submitted.
	Attempts int `json:"attempts"`

	// IsOwner marks the room creator. Exactly one player per room owns it.
	IsOwner bool `json:"isOwner"`

	// Completed becomes true once the player has guessed the word exactly.
	Completed bool `json:"completed"`
}
