package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/utils"
)

// UserRole represents the role a user plays in pricing workflows
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleFleetManager UserRole = "fleet_manager"
	RoleManager      UserRole = "manager"
	RoleOwner        UserRole = "owner"
)

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleFleetManager, RoleManager, RoleOwner:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for UserRole
func (r *UserRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into UserRole", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for UserRole
func (r UserRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid UserRole: %s", r)
	}
	return string(r), nil
}

// OwnershipMode controls what an owner link permits on a yacht
type OwnershipMode string

const (
	OwnershipModeActive   OwnershipMode = "active"
	OwnershipModeViewOnly OwnershipMode = "view_only"
	OwnershipModeHidden   OwnershipMode = "hidden"
)

// String returns the string representation of the mode
func (m OwnershipMode) String() string {
	return string(m)
}

// Valid checks if the ownership mode is valid
func (m OwnershipMode) Valid() bool {
	switch m {
	case OwnershipModeActive, OwnershipModeViewOnly, OwnershipModeHidden:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for OwnershipMode
func (m *OwnershipMode) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = OwnershipMode(v)
	case []byte:
		*m = OwnershipMode(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OwnershipMode", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for OwnershipMode
func (m OwnershipMode) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid OwnershipMode: %s", m)
	}
	return string(m), nil
}

// User represents an actor in the pricing workflows
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	OrgID     uint       `gorm:"not null;index:idx_users_org_id" json:"org_id"`
	Email     string     `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	Name      string     `gorm:"size:255" json:"name"`
	Role      UserRole   `gorm:"size:32;not null" json:"role"`
	IsActive  *bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	return nil
}

// YachtManager links a manager to a yacht they may price and submit for.
type YachtManager struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	YachtID   uint      `gorm:"not null;uniqueIndex:uk_yacht_managers_pair,priority:1" json:"yacht_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_yacht_managers_pair,priority:2" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Yacht *Yacht `gorm:"foreignKey:YachtID;references:ID" json:"yacht,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName returns the table name for the model
func (YachtManager) TableName() string {
	return "yacht_managers"
}

// YachtOwner links an owner to a yacht with an ownership mode. Only the
// active mode grants approval rights; view_only and hidden owners can look
// but never act.
type YachtOwner struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	YachtID   uint          `gorm:"not null;uniqueIndex:uk_yacht_owners_pair,priority:1" json:"yacht_id"`
	UserID    uint          `gorm:"not null;uniqueIndex:uk_yacht_owners_pair,priority:2" json:"user_id"`
	Mode      OwnershipMode `gorm:"size:32;not null;default:'active'" json:"mode"`
	CreatedAt time.Time     `json:"created_at"`

	Yacht *Yacht `gorm:"foreignKey:YachtID;references:ID" json:"yacht,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName returns the table name for the model
func (YachtOwner) TableName() string {
	return "yacht_owners"
}

// UserFilter represents filter criteria for users
type UserFilter struct {
	ID       *uint     `json:"id,omitempty"`
	OrgID    *uint     `json:"org_id,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Role     *UserRole `json:"role,omitempty"`
	IsActive *bool     `json:"is_active,omitempty"`
}
