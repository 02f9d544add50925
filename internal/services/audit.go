package services

import (
	"time"

	"github.com/mfreitas/chatterline/internal/models"
	"gorm.io/gorm"
)

var auditDB *gorm.DB

// InitAuditLogger wires the package-level audit writer. Writes are
// best-effort; a failed insert never fails the request that caused it.
func InitAuditLogger(db *gorm.DB) {
	auditDB = db
}

func AuditInfo(action, message string, userID *uint, ip, userAgent string) {
	writeAudit("info", action, message, userID, ip, userAgent)
}

func AuditWarning(action, message string, userID *uint, ip, userAgent string) {
	writeAudit("warning", action, message, userID, ip, userAgent)
}

func writeAudit(level, action, message string, userID *uint, ip, userAgent string) {
	if auditDB == nil {
		return
	}

	entry := &models.AuditLog{
		Level:     level,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	auditDB.Create(entry)
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Level    string `form:"level"`
	Action   string `form:"action"`
}

type AuditListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.AuditLog `json:"items"`
}

func (s *AuditService) List(req *AuditListRequest) (*AuditListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	var logs []models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&logs).Error; err != nil {
		return nil, err
	}

	return &AuditListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

// CleanupOld deletes audit entries older than retentionDays.
func (s *AuditService) CleanupOld(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
