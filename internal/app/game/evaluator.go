/*
Package game contains the core rules of a multiplayer word-guessing session:
per-letter guess evaluation, player progress, and the room state machine.

The package is transport-agnostic and performs no synchronization of its own;
callers are expected to serialize access to a Room (see the session package).
*/
package game

import (
	"termoarena/internal/app/words"
	"termoarena/internal/pkg/errs"
)

// Tag is the per-letter feedback for a guess against the target word.
type Tag string

const (
	// TagExact marks a letter in the correct position.
	TagExact Tag = "EXACT"

	// TagPresent marks a letter that occurs elsewhere in the target.
	TagPresent Tag = "PRESENT"

	// TagAbsent marks a letter that does not occur in the target.
	TagAbsent Tag = "ABSENT"
)

// Evaluate scores a guess against the target word, returning one tag per guess
// position, in guess order. Both inputs must already be normalized (uppercase)
// and exactly words.WordLength runes long, otherwise a validation error is returned.
//
// PRESENT does not account for letter multiplicity: a guess with repeated
// letters can collect more PRESENT tags than the target actually contains that
// letter. The feedback is advisory only; completion is decided solely by exact
// word equality in Room.SubmitGuess.
func Evaluate(guess, target string) ([]Tag, *errs.CustomError) {
	guessRunes := []rune(guess)
	targetRunes := []rune(target)

	if len(guessRunes) != words.WordLength || len(targetRunes) != words.WordLength {
		return nil, errs.NewError(errs.ErrWordLength)
	}

	inTarget := make(map[rune]struct{}, len(targetRunes))
	for _, r := range targetRunes {
		inTarget[r] = struct{}{}
	}

	tags := make([]Tag, len(guessRunes))
	for i, r := range guessRunes {
		switch {
		case r == targetRunes[i]:
			tags[i] = TagExact
		default:
			if _, ok := inTarget[r]; ok {
				tags[i] = TagPresent
			} else {
				tags[i] = TagAbsent
			}
		}
	}

	return tags, nil
}
