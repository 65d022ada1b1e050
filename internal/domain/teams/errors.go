package teams

import "errors"

var (
	ErrTechNotFound   = errors.New("tech not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("team member not found")
)
