/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrMalformedMessage:  {Code: ErrMalformedMessage, Message: "Message could not be understood.", Status: http.StatusBadRequest},

	// 2xxx: Room and Game Business Logic Errors
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrRoomNotJoinable:    {Code: ErrRoomNotJoinable, Message: "This room can no longer be joined.", Status: http.StatusConflict},
	ErrDuplicateName:      {Code: ErrDuplicateName, Message: "That name is already taken in this room.", Status: http.StatusConflict},
	ErrNotOwner:           {Code: ErrNotOwner, Message: "Only the room owner can start the game.", Status: http.StatusForbidden},
	ErrUnknownPlayer:      {Code: ErrUnknownPlayer, Message: "You are not a player in this room.", Status: http.StatusForbidden},
	ErrGameNotStarted:     {Code: ErrGameNotStarted, Message: "The game has not started yet.", Status: http.StatusConflict},
	ErrGameAlreadyStarted: {Code: ErrGameAlreadyStarted, Message: "The game has already started.", Status: http.StatusConflict},
	ErrWordLength:         {Code: ErrWordLength, Message: "The word must be exactly 5 letters.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
