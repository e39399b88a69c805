package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type row struct {
	owner uuid.UUID
}

func TestCanAccessPrecedence(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	require.True(t, CanAccess(Principal{ID: stranger, Role: RoleDirector}, owner))
	require.True(t, CanAccess(Principal{ID: stranger, Role: RoleOperations}, owner))
	require.True(t, CanAccess(Principal{ID: owner, Role: RoleCollector}, owner))
	require.True(t, CanAccess(Principal{ID: owner, Role: RoleBiller}, owner))
	require.False(t, CanAccess(Principal{ID: stranger, Role: RoleCollector}, owner))
	require.False(t, CanAccess(Principal{ID: stranger, Role: RoleBiller}, owner))
}

func TestCanAccessUnassignedRows(t *testing.T) {
	require.True(t, CanAccess(Principal{ID: uuid.New(), Role: RoleDirector}, uuid.Nil))
	require.True(t, CanAccess(Principal{ID: uuid.New(), Role: RoleOperations}, uuid.Nil))
	require.False(t, CanAccess(Principal{ID: uuid.New(), Role: RoleCollector}, uuid.Nil))
}

func TestVisibleRowsPartitionsTheBook(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	rows := []row{{alice}, {bob}, {alice}, {uuid.Nil}}
	owner := func(r row) uuid.UUID { return r.owner }

	aliceRows := VisibleRows(Principal{ID: alice, Role: RoleCollector}, rows, owner)
	bobRows := VisibleRows(Principal{ID: bob, Role: RoleCollector}, rows, owner)
	allRows := VisibleRows(Principal{ID: uuid.New(), Role: RoleDirector}, rows, owner)

	require.Len(t, aliceRows, 2)
	require.Len(t, bobRows, 1)
	require.Len(t, allRows, len(rows))

	// Every assigned row is visible to exactly one non-privileged user.
	require.Equal(t, 3, len(aliceRows)+len(bobRows))
}

func TestVisibleRowsPreservesOrder(t *testing.T) {
	alice := uuid.New()
	rows := []row{{alice}, {uuid.New()}, {alice}}
	got := VisibleRows(Principal{ID: alice, Role: RoleBiller}, rows, func(r row) uuid.UUID { return r.owner })
	require.Equal(t, []row{rows[0], rows[2]}, got)
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		parsed, ok := ParseRole(string(r))
		require.True(t, ok)
		require.Equal(t, r, parsed)
	}
	_, ok := ParseRole("Admin")
	require.False(t, ok)
	require.False(t, Role("admin").Valid(), "roles are case sensitive")
}

func TestFullVisibility(t *testing.T) {
	require.True(t, Principal{Role: RoleDirector}.FullVisibility())
	require.True(t, Principal{Role: RoleOperations}.FullVisibility())
	require.False(t, Principal{Role: RoleCollector}.FullVisibility())
	require.False(t, Principal{Role: RoleBiller}.FullVisibility())
}
