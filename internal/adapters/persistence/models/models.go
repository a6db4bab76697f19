package models

import (
	"strings"
	"time"

	"careerhub-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Users
// ============================================================

// User represents users table
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FirstName    string      `gorm:"size:50;not null" json:"first_name"`
	LastName     string      `gorm:"size:50;not null" json:"last_name"`
	Email        string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone        string      `gorm:"size:20" json:"phone"`
	Password     string      `gorm:"size:255;not null" json:"-"`
	Role         domain.Role `gorm:"size:20;default:'jobseeker'" json:"role"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	ReferralCode *string     `gorm:"uniqueIndex;size:16" json:"referral_code,omitempty"`
	ReferredBy   *string     `gorm:"size:16" json:"referred_by,omitempty"`
	Points       int         `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserResponse DTO
type UserResponse struct {
	ID           uint        `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Role         domain.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	ReferralCode string      `json:"referral_code,omitempty"`
	ReferredBy   string      `json:"referred_by,omitempty"`
	Points       int         `json:"points"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
	if u.ReferralCode != nil {
		resp.ReferralCode = *u.ReferralCode
	}
	if u.ReferredBy != nil {
		resp.ReferredBy = *u.ReferredBy
	}
	return resp
}

// ============================================================
// Courses
// ============================================================

// Course represents courses table. A course owns its modules.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Description  string    `gorm:"size:500;not null" json:"description"`
	Category     string    `gorm:"size:30;index;not null" json:"category"`
	Level        string    `gorm:"size:20;default:'Beginner'" json:"level"`
	Price        float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Thumbnail    string    `gorm:"size:255" json:"thumbnail"`
	Duration     string    `gorm:"size:30" json:"duration"`
	InstructorID uint      `gorm:"index;not null" json:"instructor_id"`
	Modules      []Module  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// HasModule reports whether moduleID is one of the course's current modules
func (c *Course) HasModule(moduleID uint) bool {
	for _, m := range c.Modules {
		if m.ID == moduleID {
			return true
		}
	}
	return false
}

// Module represents course_modules table
type Module struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	CourseID  uint              `gorm:"index;not null" json:"course_id"`
	Title     string            `gorm:"size:100;not null" json:"title"`
	Type      domain.ModuleType `gorm:"size:20;not null" json:"type"`
	URL       string            `gorm:"size:500" json:"url,omitempty"`
	Position  int               `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Module) TableName() string {
	return "course_modules"
}

// ============================================================
// Progress
// ============================================================

// Progress represents progresses table, one row per (user, course)
type Progress struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	UserID           uint              `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID         uint              `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	ModulesCompleted []CompletedModule `gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE" json:"modules_completed"`
	LastAccessedAt   time.Time         `json:"last_accessed_at"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Progress) TableName() string {
	return "progresses"
}

// CompletedModuleIDs returns the set of completed module ids
func (p *Progress) CompletedModuleIDs() map[uint]struct{} {
	ids := make(map[uint]struct{}, len(p.ModulesCompleted))
	for _, m := range p.ModulesCompleted {
		ids[m.ModuleID] = struct{}{}
	}
	return ids
}

// CompletedModule represents progress_modules table; (progress, module) is unique
type CompletedModule struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ProgressID  uint      `gorm:"not null;uniqueIndex:idx_progress_module" json:"-"`
	ModuleID    uint      `gorm:"not null;uniqueIndex:idx_progress_module" json:"module_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

func (CompletedModule) TableName() string {
	return "progress_modules"
}

// ============================================================
// Certificates
// ============================================================

// Certificate represents certificates table, one row per (user, course)
type Certificate struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"user_id"`
	CourseID       uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"course_id"`
	CertificateID  string    `gorm:"size:32;not null;uniqueIndex" json:"certificate_id"`
	CertificateURL string    `gorm:"size:255;not null" json:"certificate_url"`
	IssuedAt       time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// ============================================================
// Referrals
// ============================================================

// Referral represents referrals table, one row per referred user
type Referral struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	ReferrerID     uint                  `gorm:"index;not null" json:"referrer_id"`
	ReferredUserID uint                  `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	ReferralCode   string                `gorm:"size:16;index;not null" json:"referral_code"`
	Status         domain.ReferralStatus `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	ApprovedAt     *time.Time            `json:"approved_at,omitempty"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Course{},
		&Module{},
		&Progress{},
		&CompletedModule{},
		&Certificate{},
		&Referral{},
	)
}
