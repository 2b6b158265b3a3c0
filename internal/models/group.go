package models

import "time"

const (
	RoleCreator = "creator"
	RoleAdmin   = "admin"
	RoleMember  = "member"

	MembershipPending = "pending"
	MembershipActive  = "active"
)

// Hard resource caps enforced at the store boundary, never in memory.
const (
	MaxGroupsFreeTier    = 1
	MaxGroupsPremiumTier = 10
	MaxGoalsPerGroup     = 20
	MaxMembersPerGroup   = 50
)

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	PublicID    string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	OwnerID     uint   `gorm:"not null;index"`
	InviteCode  string `gorm:"uniqueIndex;not null"`
	MemberCount int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

type Membership struct {
	ID        uint      `gorm:"primaryKey"`
	GroupID   uint      `gorm:"not null;uniqueIndex:uidx_group_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_group_user"`
	Role      string    `gorm:"not null;default:member"`
	Status    string    `gorm:"not null;default:pending"`
	JoinedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (membership *Membership) IsActive() bool {
	return membership.Status == MembershipActive
}

func (membership *Membership) CanManageGoals() bool {
	return membership.Status == MembershipActive &&
		(membership.Role == RoleCreator || membership.Role == RoleAdmin)
}

func GroupCapForTier(tier string) int {
	if tier == TierPremium {
		return MaxGroupsPremiumTier
	}
	return MaxGroupsFreeTier
}
