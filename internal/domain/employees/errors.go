package employees

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrTeamNotFound     = errors.New("referenced team does not exist")
)
