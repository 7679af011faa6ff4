package teams

import "errors"

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrInvalidRange       = errors.New("invalid billable hours bound")
	ErrInvalidCredentials = errors.New("invalid team credentials")
)
