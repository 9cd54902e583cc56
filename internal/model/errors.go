package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session is full")
	ErrAlreadyInGame   = errors.New("connection already belongs to a session")
	ErrNotHost         = errors.New("connection is not the session host")
	ErrNotAuthorized   = errors.New("connection is not a player in this session")
	ErrGameOver        = errors.New("session has finished")

	// Buzzer errors
	ErrNoActiveQuestion = errors.New("no question is active")
	ErrBuzzerNotLocked  = errors.New("buzzer is already open or claimed")
	ErrBuzzerNotOpen    = errors.New("buzzer is not open")
	ErrBuzzerNotClaimed = errors.New("buzzer has not been claimed")

	// Question bank errors
	ErrQuestionSourceMalformed = errors.New("question source is malformed")
	ErrNoQuestionsLoaded       = errors.New("no questions loaded")
)
