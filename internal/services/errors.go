package services

import "errors"

var (
	// ErrChatNotStarted: a conversational turn was attempted before any
	// context was started.
	ErrChatNotStarted = errors.New("chat context not started")

	// ErrStaleChatContext: the handle passed to Send has been superseded by a
	// newer StartMentorChat/StartTopicChat call.
	ErrStaleChatContext = errors.New("chat context is stale")

	// ErrNoWorkspace: a graph operation was attempted with no roadmap
	// checked out.
	ErrNoWorkspace = errors.New("no roadmap checked out")

	// ErrNoProfile: the operation needs an onboarded profile.
	ErrNoProfile = errors.New("profile not found")

	// ErrNoCompletedNodes: portfolio assembly needs at least one completed
	// node before any model call is made.
	ErrNoCompletedNodes = errors.New("no completed nodes")

	// ErrBadModelJSON: the model returned text that does not decode into the
	// expected structured shape.
	ErrBadModelJSON = errors.New("model returned malformed JSON")
)
