package service

import "errors"

var (
	ErrSessionNotJoinable = errors.New("session is not accepting players")
	ErrSessionFull        = errors.New("session is full")
	ErrRoleTaken          = errors.New("role is already taken")
	ErrAlreadyJoined      = errors.New("player already joined this session")
	ErrPlayerNotFound     = errors.New("player is not part of this session")
	ErrNotHost            = errors.New("only the host can perform this action")
	ErrNotAllReady        = errors.New("not all players are ready")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrInvalidRole        = errors.New("invalid role")
)
