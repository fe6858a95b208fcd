package game_constants

import "time"

// Board coordinates are limited to [-BoardHalfSpan, BoardHalfSpan] on both axes
const BoardHalfSpan = 12

const MeeplesPerPlayer = 7
const PlayersPerMatch = 2

const SessionTimeout = 60 * time.Second
const InviteTimeout = 120 * time.Second

// Chat constants
const (
	MaxChatMessages  = 160 // ring capacity
	LobbyChatWindow  = 90  // messages returned by a lobby snapshot
	MaxChatUserText  = 220
	MaxChatStoredLen = 240
)

const MaxNameLength = 28
const DefaultPlayerName = "Player"

// Session token entropy in bytes, before base64url encoding
const TokenBytes = 24
