package services

import (
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/internal/utils"
	"github.com/mfreitas/chatterline/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const auditRetentionDays = 30

// MaintenanceScheduler runs periodic housekeeping: blanking stored
// refresh tokens that no longer verify, and pruning old audit entries.
type MaintenanceScheduler struct {
	db            *gorm.DB
	cronScheduler *cron.Cron
}

func NewMaintenanceScheduler(db *gorm.DB) *MaintenanceScheduler {
	return &MaintenanceScheduler{db: db}
}

func (s *MaintenanceScheduler) Start() {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc("@hourly", s.run); err != nil {
		logger.Error().Err(err).Msg("failed to schedule maintenance job")
		return
	}

	s.cronScheduler.Start()

	// Run once at startup so a long-stopped instance catches up.
	go s.run()

	logger.Info().Msg("maintenance scheduler started")
}

func (s *MaintenanceScheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *MaintenanceScheduler) run() {
	cleared, err := s.CleanupExpiredRefreshTokens()
	if err != nil {
		logger.Error().Err(err).Msg("refresh token cleanup failed")
	} else if cleared > 0 {
		logger.Info().Int("cleared", cleared).Msg("expired refresh tokens cleared")
	}

	deleted, err := NewAuditService(s.db).CleanupOld(auditRetentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("audit log cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("old audit entries pruned")
	}
}

// CleanupExpiredRefreshTokens blanks every stored refresh token that
// fails verification (expired or signed with a retired secret). Users
// with a cleared token fall back to a normal login.
func (s *MaintenanceScheduler) CleanupExpiredRefreshTokens() (int, error) {
	var users []models.User
	if err := s.db.Where("refresh_token <> ''").Find(&users).Error; err != nil {
		return 0, err
	}

	cleared := 0
	for i := range users {
		if _, err := utils.ParseRefreshToken(users[i].RefreshToken); err == nil {
			continue
		}
		if err := s.db.Model(&users[i]).Update("refresh_token", "").Error; err != nil {
			return cleared, err
		}
		cleared++
	}
	return cleared, nil
}
