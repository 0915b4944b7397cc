package reconcile_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epes-hq/epes/internal/console/client"
	"github.com/epes-hq/epes/internal/console/reconcile"
)

func TestRolePermissionsRoundTrip(t *testing.T) {
	var puts []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/protected/role-permissions/list":
			assert.Equal(t, "r1", r.URL.Query().Get("role_id"))
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"role": map[string]string{"id": "r1", "name": "Manager"},
				"actionType": []map[string]any{
					{"id": "a", "name": "Create User", "permission": false},
				},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/protected/role-permissions/update":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			puts = append(puts, body)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	adapter := reconcile.RolePermissions{Client: client.New(srv.URL)}
	sess := reconcile.NewSession(adapter, adapter)

	require.NoError(t, sess.Open(context.Background(), "tok", "r1"))
	assert.Equal(t, "Manager", sess.Subject().Name)

	require.NoError(t, sess.Toggle("a"))
	require.NoError(t, sess.Save(context.Background()))

	require.Len(t, puts, 1)
	assert.Equal(t, true, puts[0]["permission"])
	assert.Equal(t, "a", puts[0]["action_id"])
	assert.Equal(t, "r1", puts[0]["role_id"])
}

func TestUserRolesRoundTrip(t *testing.T) {
	var puts []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/protected/user/roles/list":
			assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user": map[string]string{"id": "u1", "first_name": "Bat"},
				"roles": []map[string]any{
					{"id": "r1", "name": "admin", "active": true},
					{"id": "r2", "name": "manager", "active": false},
				},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/protected/user/roles/update":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			puts = append(puts, body)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	adapter := reconcile.UserRoles{Client: client.New(srv.URL), ActorID: "admin-1"}
	sess := reconcile.NewSession(adapter, adapter)

	require.NoError(t, sess.Open(context.Background(), "tok", "u1"))
	items := sess.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Bat", sess.Subject().Name)

	require.NoError(t, sess.Save(context.Background()))
	require.Len(t, puts, 2)
	assert.Equal(t, true, puts[0]["active"])
	assert.Equal(t, "r1", puts[0]["role_id"])
	assert.Equal(t, "u1", puts[0]["user_id"])
	assert.Equal(t, "admin-1", puts[0]["created_by"])
	assert.Equal(t, "admin-1", puts[0]["updated_by"])
	assert.Equal(t, false, puts[1]["active"])
}
