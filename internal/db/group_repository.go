package db

import (
	"errors"
	"time"

	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

type GroupRepository struct {
	database *gorm.DB
}

func NewGroupRepository(database *gorm.DB) *GroupRepository {
	return &GroupRepository{database: database}
}

func (repo *GroupRepository) FindByID(groupID uint) (models.Group, error) {
	var group models.Group
	if err := repo.database.First(&group, groupID).Error; err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (repo *GroupRepository) FindByInviteCode(code string) (models.Group, error) {
	var group models.Group
	if err := repo.database.Where("invite_code = ?", code).First(&group).Error; err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (repo *GroupRepository) MembershipFor(groupID uint, userID uint) (models.Membership, bool, error) {
	var membership models.Membership
	result := repo.database.
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Limit(1).
		Find(&membership)
	if result.Error != nil {
		return models.Membership{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Membership{}, false, nil
	}
	return membership, true, nil
}

func (repo *GroupRepository) ActiveMemberships(groupID uint) ([]models.Membership, error) {
	memberships := make([]models.Membership, 0)
	if err := repo.database.
		Where("group_id = ? AND status = ?", groupID, models.MembershipActive).
		Order("id ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (repo *GroupRepository) ListActiveGroupsForUser(userID uint) ([]models.Group, error) {
	groups := make([]models.Group, 0)
	if err := repo.database.
		Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("memberships.user_id = ? AND memberships.status = ?", userID, models.MembershipActive).
		Order("groups.id ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (repo *GroupRepository) CountActiveGroupsForUser(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Membership{}).
		Where("user_id = ? AND status = ?", userID, models.MembershipActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateGroupWithCreator creates the group, admits the creator membership
// against the caller's group cap, and appends the group_created event in one
// transaction. The cap check and the membership insert are one statement, so
// a concurrent burst of creations can never overshoot the cap: the (N+1)-th
// insert is simply not admitted and the whole transaction rolls back.
func (repo *GroupRepository) CreateGroupWithCreator(group *models.Group, cap int) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		group.MemberCount = 1
		if err := tx.Create(group).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}

		admitted, err := admitInsert(tx,
			"memberships",
			[]string{"group_id", "user_id", "role", "status", "joined_at", "created_at", "updated_at"},
			[]any{group.ID, group.OwnerID, models.RoleCreator, models.MembershipActive, now, now, now},
			activeGroupCountGuard(group.OwnerID, cap),
		)
		if err != nil {
			return err
		}
		if !admitted {
			return ErrCapExceeded
		}

		event := models.ActivityEvent{
			GroupID:   group.ID,
			ActorID:   &group.OwnerID,
			EventType: models.EventGroupCreated,
			CreatedAt: now,
		}
		return tx.Create(&event).Error
	})
}

// CreatePendingMembership admits a join request against the group member cap.
func (repo *GroupRepository) CreatePendingMembership(groupID uint, userID uint, memberCap int) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		admitted, err := admitInsert(tx,
			"memberships",
			[]string{"group_id", "user_id", "role", "status", "created_at", "updated_at"},
			[]any{groupID, userID, models.RoleMember, models.MembershipPending, now, now},
			groupMemberCountGuard(groupID, memberCap),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		if !admitted {
			return ErrCapExceeded
		}
		return nil
	})
}

// ActivateMembership flips a pending membership to active, bumps the
// denormalized member count, and appends the member_joined event atomically.
func (repo *GroupRepository) ActivateMembership(groupID uint, userID uint, approvedBy uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Membership{}).
			Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.MembershipPending).
			Updates(map[string]any{
				"status":    models.MembershipActive,
				"joined_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.Group{}).
			Where("id = ?", groupID).
			Update("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
			return err
		}

		event := models.ActivityEvent{
			GroupID:   groupID,
			ActorID:   &userID,
			EventType: models.EventMemberJoined,
			Metadata:  map[string]any{"approved_by": approvedBy},
			CreatedAt: now,
		}
		return tx.Create(&event).Error
	})
}

// RemoveMembership deletes the membership and, when it was active, decrements
// the member count and appends the member_left event.
func (repo *GroupRepository) RemoveMembership(groupID uint, userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var membership models.Membership
		err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Membership{}, membership.ID).Error; err != nil {
			return err
		}
		if !membership.IsActive() {
			return nil
		}

		if err := tx.Model(&models.Group{}).
			Where("id = ? AND member_count > 0", groupID).
			Update("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
			return err
		}

		event := models.ActivityEvent{
			GroupID:   groupID,
			ActorID:   &userID,
			EventType: models.EventMemberLeft,
			CreatedAt: time.Now(),
		}
		return tx.Create(&event).Error
	})
}

// IsRecordNotFound lets services branch on missing rows without importing gorm.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
