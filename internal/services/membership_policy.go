package services

import "github.com/pursueapp/pursue/internal/models"

// RequireActiveMember classifies a membership lookup into the caller-facing
// error kinds: absent means forbidden, pending means waiting on approval.
// Pending members are invisible to aggregation and may not act on the group.
func RequireActiveMember(membership models.Membership, found bool) error {
	if !found {
		return ErrForbidden
	}
	if membership.Status == models.MembershipPending {
		return ErrPendingApproval
	}
	return nil
}

// RequireGoalManager additionally demands the admin or creator role.
func RequireGoalManager(membership models.Membership, found bool) error {
	if err := RequireActiveMember(membership, found); err != nil {
		return err
	}
	if !membership.CanManageGoals() {
		return ErrForbidden
	}
	return nil
}
