package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CapGuard describes one hard resource cap: the count that must stay under
// Cap for an insert to be admitted. The count and the insert execute as a
// single statement, so concurrent callers race at the store and never observe
// a stale count the way a separate SELECT-then-INSERT would.
type CapGuard struct {
	CountQuery string
	CountArgs  []any
	Cap        int
}

// admitInsert performs the atomic admit(resource, owner, cap) operation:
// INSERT ... SELECT ... WHERE (count) < cap. It reports whether the row was
// admitted; zero rows affected means the cap is already reached.
func admitInsert(tx *gorm.DB, table string, columns []string, values []any, guard CapGuard) (bool, error) {
	if len(columns) != len(values) {
		return false, fmt.Errorf("admit insert into %s: %d columns, %d values", table, len(columns), len(values))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	statement := fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s WHERE (%s) < ?",
		table,
		strings.Join(columns, ", "),
		placeholders,
		guard.CountQuery,
	)

	args := make([]any, 0, len(values)+len(guard.CountArgs)+1)
	args = append(args, values...)
	args = append(args, guard.CountArgs...)
	args = append(args, guard.Cap)

	result := tx.Exec(statement, args...)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// activeGroupCountGuard caps how many active groups a user may belong to.
func activeGroupCountGuard(userID uint, cap int) CapGuard {
	return CapGuard{
		CountQuery: "SELECT COUNT(*) FROM memberships WHERE user_id = ? AND status = ?",
		CountArgs:  []any{userID, "active"},
		Cap:        cap,
	}
}

// groupMemberCountGuard caps memberships per group, pending included so a
// flood of join requests cannot overshoot the cap on approval.
func groupMemberCountGuard(groupID uint, cap int) CapGuard {
	return CapGuard{
		CountQuery: "SELECT COUNT(*) FROM memberships WHERE group_id = ?",
		CountArgs:  []any{groupID},
		Cap:        cap,
	}
}

// groupGoalCountGuard caps live goals per group.
func groupGoalCountGuard(groupID uint, cap int) CapGuard {
	return CapGuard{
		CountQuery: "SELECT COUNT(*) FROM goals WHERE group_id = ? AND deleted_at IS NULL AND archived_at IS NULL",
		CountArgs:  []any{groupID},
		Cap:        cap,
	}
}
