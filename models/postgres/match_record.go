package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'MatchRecord' is the archived result of a concluded match. It is written
 * once the match finishes or is aborted and never read back into live state.
 */
type MatchRecord struct {
	ID        string `gorm:"primaryKey;size:50;not null"`
	Status    string `gorm:"size:20;not null;index:idx_match_records_status"`
	LastEvent string `gorm:"size:255"`

	Player1ID   string `gorm:"column:player1_id;size:50;index:idx_match_records_player1"`
	Player1Name string `gorm:"size:50"`
	Score1      int    `gorm:"default:0"`
	Player2ID   string `gorm:"column:player2_id;size:50;index:idx_match_records_player2"`
	Player2Name string `gorm:"size:50"`
	Score2      int    `gorm:"default:0"`

	Tiles      int            `gorm:"default:0"` // placed tiles, start tile included
	TurnIndex  int            `gorm:"default:0"`
	Board      datatypes.JSON `gorm:"type:jsonb"`
	ScoredKeys datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt  time.Time
	FinishedAt *time.Time
	ArchivedAt time.Time `gorm:"autoUpdateTime"`
}

// Winner returns the winning user id, or "" for a draw.
func (r MatchRecord) Winner() string {
	switch {
	case r.Score1 > r.Score2:
		return r.Player1ID
	case r.Score2 > r.Score1:
		return r.Player2ID
	}
	return ""
}
