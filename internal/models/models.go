package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "ADMIN"
	RoleUser     = "USER"
	RoleEmployer = "EMPLOYER"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleEmployer:
		return true
	}
	return false
}

type User struct {
	UID            uuid.UUID `gorm:"type:uuid;primaryKey"        json:"uid"`
	Username       string    `gorm:"not null"                    json:"username"`
	Email          string    `gorm:"unique;not null"             json:"email_address"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword string    `gorm:"not null"                    json:"-"`
	PhoneNumber    string    `json:"phone_number"`
	Gender         string    `json:"gender"`
	IsVerified     bool      `gorm:"default:false"               json:"is_verified"`
	Role           string    `gorm:"not null;default:USER"       json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	JobTypeFullTime = "FULL_TIME"
	JobTypePartTime = "PART_TIME"
	JobTypeContract = "CONTRACT"

	WorkModeOnSite = "ON_SITE"
	WorkModeRemote = "REMOTE"
	WorkModeHybrid = "HYBRID"
)

type Job struct {
	UID         uuid.UUID `gorm:"type:uuid;primaryKey"            json:"uid"`
	Title       string    `gorm:"not null"                        json:"title"`
	Description string    `gorm:"type:text;not null"              json:"description"`
	Location    string    `json:"location"`
	JobType     string    `gorm:"not null;default:FULL_TIME"      json:"job_type"`
	WorkMode    string    `gorm:"not null;default:ON_SITE"        json:"work_mode"`
	Salary      string    `json:"salary"`
	IsActive    bool      `gorm:"default:false"                   json:"is_active"`
	EmployerUID uuid.UUID `gorm:"type:uuid;index;not null"        json:"employer_uid"`
	CreatedAt   time.Time `json:"created_at"`
}

type Application struct {
	UID         uuid.UUID `gorm:"type:uuid;primaryKey"                           json:"uid"`
	JobUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_job_seeker"   json:"job_uid"`
	UserUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_job_seeker"   json:"user_uid"`
	CoverLetter string    `gorm:"type:text;not null"                             json:"cover_letter"`
	CreatedAt   time.Time `json:"created_at"`
}
