package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleJobseeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// CanAuthorCourses reports whether the role may create courses
func (r Role) CanAuthorCourses() bool {
	return r == RoleEmployer || r == RoleAdmin
}

// ModuleType is the kind of content a course module holds
type ModuleType string

const (
	ModuleVideo      ModuleType = "Video"
	ModuleArticle    ModuleType = "Article"
	ModuleQuiz       ModuleType = "Quiz"
	ModuleAssignment ModuleType = "Assignment"
)

// IsValid reports whether t is one of the known module types
func (t ModuleType) IsValid() bool {
	switch t {
	case ModuleVideo, ModuleArticle, ModuleQuiz, ModuleAssignment:
		return true
	}
	return false
}

// RequiresURL reports whether modules of this type must carry a content URL
func (t ModuleType) RequiresURL() bool {
	return t == ModuleVideo || t == ModuleArticle
}

// ReferralStatus is the approval state of a referral
type ReferralStatus string

const (
	ReferralPending  ReferralStatus = "pending"
	ReferralApproved ReferralStatus = "approved"
	ReferralRejected ReferralStatus = "rejected"
)

// ParseReferralStatus validates a raw status value
func ParseReferralStatus(s string) (ReferralStatus, error) {
	switch status := ReferralStatus(s); status {
	case ReferralPending, ReferralApproved, ReferralRejected:
		return status, nil
	}
	return "", ErrInvalidStatus
}

// CertificateVerification is the public view of a certificate
type CertificateVerification struct {
	CertificateID string    `json:"certificate_id"`
	RecipientName string    `json:"recipient_name"`
	CourseName    string    `json:"course_name"`
	IssuedAt      time.Time `json:"issued_at"`
}

// CourseProgressSummary summarizes a user's progress on one course
type CourseProgressSummary struct {
	ProgressID           uint      `json:"progress_id"`
	CourseID             uint      `json:"course_id"`
	CourseTitle          string    `json:"course_title"`
	Thumbnail            string    `json:"thumbnail"`
	TotalModules         int       `json:"total_modules"`
	CompletedModules     int       `json:"completed_modules"`
	CompletionPercentage float64   `json:"completion_percentage"`
	LastAccessedAt       time.Time `json:"last_accessed_at"`
}
