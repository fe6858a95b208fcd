package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"Meeple/errs"
	"Meeple/models/postgres"
	"Meeple/services/match"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncManager copies concluded matches from memory into PostgreSQL
type SyncManager struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB, log *zap.Logger) *SyncManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncManager{db: db, log: log}
}

// ArchiveMatch upserts the final state of a concluded match
func (sm *SyncManager) ArchiveMatch(ctx context.Context, v match.View) error {
	record, err := recordFromView(v)
	if err != nil {
		return err
	}

	err = sm.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("error archiving match %s: %w", v.ID, err)
	}
	sm.log.Debug("match archived", zap.String("match_id", v.ID), zap.String("status", record.Status))
	return nil
}

// FindMatch loads an archived match by id
func (sm *SyncManager) FindMatch(ctx context.Context, id string) (*postgres.MatchRecord, error) {
	var record postgres.MatchRecord
	err := sm.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Match not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("error loading match %s: %w", id, err)
	}
	return &record, nil
}

// RecentMatches lists the latest archived matches a user played in
func (sm *SyncManager) RecentMatches(ctx context.Context, userID string, limit int) ([]postgres.MatchRecord, error) {
	var records []postgres.MatchRecord
	err := sm.db.WithContext(ctx).
		Where("player1_id = ? OR player2_id = ?", userID, userID).
		Order("finished_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing matches for %s: %w", userID, err)
	}
	return records, nil
}

func recordFromView(v match.View) (postgres.MatchRecord, error) {
	board, err := json.Marshal(v.Board)
	if err != nil {
		return postgres.MatchRecord{}, fmt.Errorf("error marshaling board: %w", err)
	}
	keys, err := json.Marshal(v.ScoredKeys)
	if err != nil {
		return postgres.MatchRecord{}, fmt.Errorf("error marshaling scored keys: %w", err)
	}

	record := postgres.MatchRecord{
		ID:         v.ID,
		Status:     string(v.Status),
		LastEvent:  v.LastEvent,
		Tiles:      len(v.Board),
		TurnIndex:  v.TurnIndex,
		Board:      datatypes.JSON(board),
		ScoredKeys: datatypes.JSON(keys),
		CreatedAt:  v.CreatedAt,
		FinishedAt: v.FinishedAt,
	}
	for _, p := range v.Players {
		switch p.Player {
		case 1:
			record.Player1ID, record.Player1Name, record.Score1 = p.UserID, p.Name, p.Score
		case 2:
			record.Player2ID, record.Player2Name, record.Score2 = p.UserID, p.Name, p.Score
		}
	}
	return record, nil
}
