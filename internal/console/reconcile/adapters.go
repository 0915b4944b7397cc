package reconcile

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/epes-hq/epes/internal/console/client"
)

// The two grant relations share one reconciler; only the wire field names
// differ, so each relation gets a thin adapter mapping backend payloads onto
// the generic Subject/Item pair.

// RolePermissions edits the role→action-type relation.
type RolePermissions struct {
	Client *client.Client
}

// Fetch loads the role and all action types annotated with permission flags.
func (a RolePermissions) Fetch(ctx context.Context, token, roleID string) (Subject, []Item, error) {
	params := url.Values{"role_id": {roleID}}
	data, err := a.Client.GET(ctx, "/protected/role-permissions/list", token, params)
	if err != nil {
		return Subject{}, nil, err
	}

	var payload struct {
		Role struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"role"`
		ActionTypes []struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			Permission bool   `json:"permission"`
		} `json:"actionType"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Subject{}, nil, err
	}

	items := make([]Item, 0, len(payload.ActionTypes))
	for _, at := range payload.ActionTypes {
		items = append(items, Item{ID: at.ID, Name: at.Name, Granted: at.Permission})
	}
	return Subject{ID: payload.Role.ID, Name: payload.Role.Name}, items, nil
}

// Update submits one action type's permission flag for the role.
func (a RolePermissions) Update(ctx context.Context, token, roleID string, item Item) error {
	body := map[string]any{
		"permission": item.Granted,
		"action_id":  item.ID,
		"role_id":    roleID,
	}
	_, err := a.Client.PUT(ctx, "/protected/role-permissions/update", token, body)
	return err
}

// UserRoles edits the user→role relation. ActorID stamps created_by and
// updated_by on each update.
type UserRoles struct {
	Client  *client.Client
	ActorID string
}

// Fetch loads the user and all roles annotated with active flags.
func (a UserRoles) Fetch(ctx context.Context, token, userID string) (Subject, []Item, error) {
	params := url.Values{"user_id": {userID}}
	data, err := a.Client.GET(ctx, "/protected/user/roles/list", token, params)
	if err != nil {
		return Subject{}, nil, err
	}

	var payload struct {
		User struct {
			ID        string `json:"id"`
			FirstName string `json:"first_name"`
		} `json:"user"`
		Roles []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Active bool   `json:"active"`
		} `json:"roles"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Subject{}, nil, err
	}

	items := make([]Item, 0, len(payload.Roles))
	for _, role := range payload.Roles {
		items = append(items, Item{ID: role.ID, Name: role.Name, Granted: role.Active})
	}
	return Subject{ID: payload.User.ID, Name: payload.User.FirstName}, items, nil
}

// Update submits one role's active flag for the user.
func (a UserRoles) Update(ctx context.Context, token, userID string, item Item) error {
	body := map[string]any{
		"active":     item.Granted,
		"role_id":    item.ID,
		"user_id":    userID,
		"created_by": a.ActorID,
		"updated_by": a.ActorID,
	}
	_, err := a.Client.PUT(ctx, "/protected/user/roles/update", token, body)
	return err
}
