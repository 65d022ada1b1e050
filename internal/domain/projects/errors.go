package projects

import "errors"

var (
	ErrManagerNotFound = errors.New("project manager not found")
	ErrStateNotFound   = errors.New("project state not found")
	ErrProjectNotFound = errors.New("project not found")
)
