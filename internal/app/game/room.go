package game

import (
	"slices"
	"unicode/utf8"

	"termoarena/internal/app/words"
	"termoarena/internal/pkg/errs"
)

const (
	// AttemptCap is the number of guesses after which a player's leaderboard is
	// surfaced. It is a signal only; further guesses are never blocked.
	AttemptCap = 6

	// scoreBase is the reward for guessing the word on the first attempt.
	scoreBase = 100

	// scoreStep is how much each additional attempt costs.
	scoreStep = 10

	// scoreFloor is the minimum reward for a completed player.
	scoreFloor = 10
)

// State identifies where a room is in its lifecycle.
type State int

const (
	// StateLobby is the initial state: players may join, nobody may guess.
	StateLobby State = iota

	// StateInProgress means the owner has started the game and guesses are accepted.
	StateInProgress

	// StateFinished means every player has completed. Terminal.
	StateFinished
)

// String returns the wire-friendly name of the state.
func (s State) String() string {
	switch s {
	case StateLobby:
		return "LOBBY"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateFinished:
		return "FINISHED"
	}
	return "UNKNOWN"
}

// Room is one isolated game session: a fixed secret word plus the players
// guessing it. The zero value is not usable; construct with NewRoom.
//
// Room performs no locking of its own. The session layer holds one mutex per
// room for the duration of each transition.
type Room struct {
	// Code is the unique alphanumeric identifier players use to join.
	Code string

	target  string
	state   State
	players map[string]*Player
	order   []string
}

// NewRoom creates a room in the lobby state with the creator as its sole
// player and owner. The target word is fixed at creation and never re-rolled.
func NewRoom(code, targetWord, ownerName string) *Room {
	r := &Room{
		Code:    code,
		target:  words.Normalize(targetWord),
		state:   StateLobby,
		players: make(map[string]*Player),
		order:   []string{ownerName},
	}
	r.players[ownerName] = &Player{Name: ownerName, IsOwner: true}
	return r
}

// Join adds a new non-owner player. Valid only in the lobby; the display name
// must be free. On error the room is left unchanged.
func (r *Room) Join(name string) *errs.CustomError {
	if r.state != StateLobby {
		return errs.NewError(errs.ErrRoomNotJoinable)
	}
	if _, exists := r.players[name]; exists {
		return errs.NewError(errs.ErrDuplicateName)
	}

	r.players[name] = &Player{Name: name}
	r.order = append(r.order, name)
	return nil
}

// Start transitions the room from lobby to play. Only the owner may start.
// The target word was already chosen at creation. Returns the target word so
// the caller can announce it.
func (r *Room) Start(requesterName string) (string, *errs.CustomError) {
	requester, exists := r.players[requesterName]
	if !exists || !requester.IsOwner {
		return "", errs.NewError(errs.ErrNotOwner)
	}
	if r.state != StateLobby {
		return "", errs.NewError(errs.ErrGameAlreadyStarted)
	}

	r.state = StateInProgress
	return r.target, nil
}

// GuessOutcome describes the full effect of one processed guess.
type GuessOutcome struct {
	// PlayerName is the guessing player.
	PlayerName string

	// Guess is the normalized guess text.
	Guess string

	// Tags is the per-letter feedback, one tag per guess position.
	Tags []Tag

	// Correct is true when the guess matched the target word exactly.
	Correct bool

	// Attempts is the player's attempt count after this guess.
	Attempts int

	// Score is the player's score after this guess (0 unless completed).
	Score int

	// Completed reports whether the player has now guessed the word.
	Completed bool

	// RoomFinished is true when this guess completed the last open player.
	RoomFinished bool

	// AttemptCapReached is true once the player has used AttemptCap guesses.
	AttemptCapReached bool
}

// SubmitGuess processes one guess for the named player: increments the attempt
// counter, evaluates per-letter feedback, and on an exact match marks the
// player completed with score max(scoreBase-(attempts-1)*scoreStep, scoreFloor).
// When the last open player completes, the room transitions to FINISHED.
//
// Valid only while the room is in progress. Validation failures are
// all-or-nothing: a rejected guess does not touch the attempt counter.
func (r *Room) SubmitGuess(name, guessText string) (*GuessOutcome, *errs.CustomError) {
	if r.state != StateInProgress {
		return nil, errs.NewError(errs.ErrGameNotStarted)
	}

	player, exists := r.players[name]
	if !exists {
		return nil, errs.NewError(errs.ErrUnknownPlayer)
	}

	guess := words.Normalize(guessText)
	if utf8.RuneCountInString(guess) != words.WordLength {
		return nil, errs.NewError(errs.ErrWordLength)
	}

	tags, evalErr := Evaluate(guess, r.target)
	if evalErr != nil {
		return nil, evalErr
	}

	player.Attempts++

	correct := guess == r.target
	if correct {
		player.Completed = true
		player.Score = max(scoreBase-(player.Attempts-1)*scoreStep, scoreFloor)

		if r.allCompleted() {
			r.state = StateFinished
		}
	}

	return &GuessOutcome{
		PlayerName:        name,
		Guess:             guess,
		Tags:              tags,
		Correct:           correct,
		Attempts:          player.Attempts,
		Score:             player.Score,
		Completed:         player.Completed,
		RoomFinished:      r.state == StateFinished,
		AttemptCapReached: player.Attempts >= AttemptCap,
	}, nil
}

func (r *Room) allCompleted() bool {
	for _, p := range r.players {
		if !p.Completed {
			return false
		}
	}
	return true
}

// State returns the room's current lifecycle state.
func (r *Room) State() State {
	return r.state
}

// TargetWord returns the secret word fixed at room creation.
func (r *Room) TargetWord() string {
	return r.target
}

// Players returns copies of all players in join order.
func (r *Room) Players() []Player {
	out := make([]Player, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.players[name])
	}
	return out
}

// LeaderboardEntry is one ranked row of the final standings.
type LeaderboardEntry struct {
	PlayerName string `json:"playerName"`
	Attempts   int    `json:"attempts"`
	Score      int    `json:"score"`
}

// Leaderboard returns all players ranked by descending score, ties broken by
// ascending attempts.
func (r *Room) Leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(r.order))
	for _, name := range r.order {
		p := r.players[name]
		entries = append(entries, LeaderboardEntry{
			PlayerName: p.Name,
			Attempts:   p.Attempts,
			Score:      p.Score,
		})
	}

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.Attempts - b.Attempts
	})

	return entries
}

// Snapshot is a read-only view of a room suitable for status queries and
// lobby broadcasts.
type Snapshot struct {
	Code     string   `json:"code"`
	State    string   `json:"state"`
	Started  bool     `json:"started"`
	Finished bool     `json:"finished"`
	Players  []Player `json:"players"`
}

// Snapshot captures the room's externally visible state. The target word is
// deliberately not included.
func (r *Room) Snapshot() Snapshot {
	return Snapshot{
		Code:     r.Code,
		State:    r.state.String(),
		Started:  r.state != StateLobby,
		Finished: r.state == StateFinished,
		Players:  r.Players(),
	}
}
