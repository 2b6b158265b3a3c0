package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
	"github.com/pursueapp/pursue/internal/security"
)

const (
	inviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxGroupNameLength = 80
)

type GroupStore interface {
	FindByID(groupID uint) (models.Group, error)
	FindByInviteCode(code string) (models.Group, error)
	MembershipFor(groupID uint, userID uint) (models.Membership, bool, error)
	ActiveMemberships(groupID uint) ([]models.Membership, error)
	ListActiveGroupsForUser(userID uint) ([]models.Group, error)
	CreateGroupWithCreator(group *models.Group, cap int) error
	CreatePendingMembership(groupID uint, userID uint, memberCap int) error
	ActivateMembership(groupID uint, userID uint, approvedBy uint) error
	RemoveMembership(groupID uint, userID uint) error
}

type GroupUserReader interface {
	FindByID(userID uint) (models.User, error)
}

// GroupService owns group lifecycle and membership transitions. Every hard
// cap goes through the store's atomic admit, never an in-memory counter:
// this process may not be the only one running.
type GroupService struct {
	groups GroupStore
	users  GroupUserReader
}

func NewGroupService(groups GroupStore, users GroupUserReader) *GroupService {
	return &GroupService{
		groups: groups,
		users:  users,
	}
}

// TryCreateGroup creates a group under the caller's tier cap. Under a burst
// of concurrent creations, exactly cap succeed and the rest get
// ErrLimitExceeded; the final active-group count never overshoots.
func (service *GroupService) TryCreateGroup(userID uint, name string) (models.Group, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > maxGroupNameLength {
		return models.Group{}, ErrTitleRequired
	}

	user, err := service.users.FindByID(userID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}

	inviteCode, err := security.RandomString(inviteCodeLength, inviteCodeAlphabet)
	if err != nil {
		return models.Group{}, err
	}

	group := models.Group{
		PublicID:   uuid.NewString(),
		Name:       trimmed,
		OwnerID:    userID,
		InviteCode: inviteCode,
	}
	cap := models.GroupCapForTier(user.Tier)
	if err := service.groups.CreateGroupWithCreator(&group, cap); err != nil {
		if errors.Is(err, db.ErrCapExceeded) {
			return models.Group{}, ErrLimitExceeded
		}
		if errors.Is(err, db.ErrDuplicate) {
			// Invite-code collision; vanishingly rare with a 32^8 space.
			return models.Group{}, err
		}
		return models.Group{}, err
	}
	return group, nil
}

// JoinByInviteCode files a pending membership, admitted against the group's
// member cap.
func (service *GroupService) JoinByInviteCode(userID uint, code string) (models.Group, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return models.Group{}, ErrNotFound
	}

	group, err := service.groups.FindByInviteCode(trimmed)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	if group.ArchivedAt != nil {
		return models.Group{}, ErrNotFound
	}

	if err := service.groups.CreatePendingMembership(group.ID, userID, models.MaxMembersPerGroup); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicate):
			return models.Group{}, ErrDuplicateEntry
		case errors.Is(err, db.ErrCapExceeded):
			return models.Group{}, ErrLimitExceeded
		}
		return models.Group{}, err
	}
	return group, nil
}

// ApproveMember activates a pending membership. Only admins and the creator
// may approve.
func (service *GroupService) ApproveMember(groupID uint, targetUserID uint, callerID uint) error {
	callerMembership, found, err := service.groups.MembershipFor(groupID, callerID)
	if err != nil {
		return err
	}
	if err := RequireGoalManager(callerMembership, found); err != nil {
		return err
	}

	if err := service.groups.ActivateMembership(groupID, targetUserID, callerID); err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// LeaveGroup removes the caller's own membership. The creator cannot leave
// their own group; archiving it is the way out.
func (service *GroupService) LeaveGroup(groupID uint, userID uint) error {
	membership, found, err := service.groups.MembershipFor(groupID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if membership.Role == models.RoleCreator {
		return ErrForbidden
	}

	if err := service.groups.RemoveMembership(groupID, userID); err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListGroups returns the caller's active groups.
func (service *GroupService) ListGroups(userID uint) ([]models.Group, error) {
	return service.groups.ListActiveGroupsForUser(userID)
}

// GetGroup returns a group visible to its members, pending included so an
// applicant can see what they applied to.
func (service *GroupService) GetGroup(groupID uint, callerID uint) (models.Group, error) {
	_, found, err := service.groups.MembershipFor(groupID, callerID)
	if err != nil {
		return models.Group{}, err
	}
	if !found {
		return models.Group{}, ErrForbidden
	}

	group, err := service.groups.FindByID(groupID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return group, nil
}
