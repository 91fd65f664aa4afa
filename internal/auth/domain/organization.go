package domain

import "time"

const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// Organization groups every user whose email shares the same domain
type Organization struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrganizationMember struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"uniqueIndex:idx_member_user_org;not null"`
	OrganizationID string    `json:"organization_id" gorm:"uniqueIndex:idx_member_user_org;not null"`
	Role           string    `json:"role"` // OWNER or MEMBER
	JoinedAt       time.Time `json:"joined_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
