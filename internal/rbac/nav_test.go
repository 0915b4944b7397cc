package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epes-hq/epes/internal/rbac"
)

func TestVisibleEntriesPreservesOrder(t *testing.T) {
	catalog := rbac.Catalog{"manager": {"users", "document"}}
	entries := []rbac.NavEntry{
		{Title: "Users", Capability: "users"},
		{Title: "Billing", Capability: "billing"},
		{Title: "Documents", Capability: "document"},
	}

	caps := catalog.EffectiveCapabilities([]string{"Manager"})
	visible := rbac.VisibleEntries(entries, caps)

	require.Len(t, visible, 2)
	assert.Equal(t, "Users", visible[0].Title)
	assert.Equal(t, "Documents", visible[1].Title)
}

func TestVisibleEntriesDenyByDefault(t *testing.T) {
	visible := rbac.VisibleEntries(rbac.DefaultNavEntries, nil)
	assert.Empty(t, visible)
}

func TestVisibleEntriesIdempotent(t *testing.T) {
	caps := rbac.DefaultCatalog.EffectiveCapabilities([]string{"employee"})

	first := rbac.VisibleEntries(rbac.DefaultNavEntries, caps)
	second := rbac.VisibleEntries(rbac.DefaultNavEntries, caps)
	assert.Equal(t, first, second)
}

func TestVisibleEntriesAdminSeesEverything(t *testing.T) {
	caps := rbac.DefaultCatalog.EffectiveCapabilities([]string{"admin"})
	visible := rbac.VisibleEntries(rbac.DefaultNavEntries, caps)
	assert.Equal(t, rbac.DefaultNavEntries, visible)
}
