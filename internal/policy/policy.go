package policy

import "github.com/google/uuid"

// FullVisibility reports whether the principal sees every row regardless of
// assignment. Director always does. Operations does too unless the row is
// reserved for directors, which no row currently is.
func (p Principal) FullVisibility() bool {
	return p.Role == RoleDirector || p.Role == RoleOperations
}

// CanAccess decides row-level access. Precedence: Director, then Operations,
// then direct assignment. Unassigned rows are visible only to the full
// visibility tiers.
func CanAccess(p Principal, assignedTo uuid.UUID) bool {
	if p.Role == RoleDirector {
		return true
	}
	if p.Role == RoleOperations && !reservedForDirector(assignedTo) {
		return true
	}
	return assignedTo != uuid.Nil && assignedTo == p.ID
}

// VisibleRows filters rows down to those the principal may see. Filtering is
// silent: callers receive a smaller slice, never an error. Order is preserved.
func VisibleRows[T any](p Principal, rows []T, owner func(T) uuid.UUID) []T {
	if p.FullVisibility() {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if CanAccess(p, owner(row)) {
			out = append(out, row)
		}
	}
	return out
}

// reservedForDirector is the extension point for rows only directors may see.
func reservedForDirector(assignedTo uuid.UUID) bool {
	return false
}
