package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epes-hq/epes/internal/rbac"
	_ "github.com/epes-hq/epes/testing"
)

func TestEffectiveCapabilitiesEmptyRoles(t *testing.T) {
	caps := rbac.DefaultCatalog.EffectiveCapabilities(nil)
	assert.Empty(t, caps)

	caps = rbac.DefaultCatalog.EffectiveCapabilities([]string{})
	assert.Empty(t, caps)
}

func TestEffectiveCapabilitiesCaseInsensitive(t *testing.T) {
	catalog := rbac.Catalog{"manager": {rbac.CapUsers, rbac.CapDocument}}

	caps := catalog.EffectiveCapabilities([]string{"Manager"})
	require.Len(t, caps, 2)
	assert.True(t, caps.Has(rbac.CapUsers))
	assert.True(t, caps.Has(rbac.CapDocument))
}

func TestEffectiveCapabilitiesUnknownRoleFailsClosed(t *testing.T) {
	caps := rbac.DefaultCatalog.EffectiveCapabilities([]string{"intern", "contractor"})
	assert.Empty(t, caps)
}

func TestEffectiveCapabilitiesUnionDeduplicates(t *testing.T) {
	catalog := rbac.Catalog{
		"a": {rbac.CapUsers, rbac.CapTasks},
		"b": {rbac.CapTasks, rbac.CapProjects},
	}

	caps := catalog.EffectiveCapabilities([]string{"a", "b", "a"})
	assert.Len(t, caps, 3)
	assert.True(t, caps.Has(rbac.CapUsers))
	assert.True(t, caps.Has(rbac.CapTasks))
	assert.True(t, caps.Has(rbac.CapProjects))
}

func TestNormalizeRoles(t *testing.T) {
	assert.Nil(t, rbac.NormalizeRoles(nil))
	assert.Nil(t, rbac.NormalizeRoles(""))
	assert.Equal(t, []string{"admin"}, rbac.NormalizeRoles("admin"))
	assert.Equal(t, []string{"admin", "manager"}, rbac.NormalizeRoles([]string{"admin", "manager"}))
	assert.Equal(t, []string{"admin"}, rbac.NormalizeRoles([]any{"admin", 42, ""}))
	assert.Nil(t, rbac.NormalizeRoles(42))
}
