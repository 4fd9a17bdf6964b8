/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrMalformedMessage indicates that an inbound WebSocket message could not be
	// parsed into one of the known event shapes.
	ErrMalformedMessage = 1008
)

// 2xxx: Room and Game Business Logic Errors
const (
	// ErrRoomNotFound indicates that the attempted room code for operation does not exist.
	ErrRoomNotFound = 2103

	// ErrRoomNotJoinable indicates that the room being joined has already started or finished.
	ErrRoomNotJoinable = 2105

	// ErrDuplicateName indicates that the requested display name is already taken in the room.
	ErrDuplicateName = 2106

	// ErrNotOwner indicates that a player other than the room owner attempted an owner-only operation.
	ErrNotOwner = 2107

	// ErrUnknownPlayer indicates that the named player is not a member of the room.
	ErrUnknownPlayer = 2108

	// ErrGameNotStarted indicates that a guess was submitted while the room was not in play.
	ErrGameNotStarted = 2109

	// ErrGameAlreadyStarted indicates that a start was requested on a room that has already left the lobby.
	ErrGameAlreadyStarted = 2110

	// ErrWordLength indicates that a word or guess is not exactly five letters long.
	ErrWordLength = 2301
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
