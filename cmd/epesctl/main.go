// Command epesctl is the operator console for the EPES service. It signs in
// against the API, shows the navigation an account is entitled to, and edits
// the role→action-type and user→role grant matrices.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/epes-hq/epes/internal/console/client"
	"github.com/epes-hq/epes/internal/console/reconcile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, os.Args[2:])
	case "nav":
		err = runNav(ctx, os.Args[2:])
	case "role-perms":
		err = runRolePerms(ctx, os.Args[2:])
	case "user-roles":
		err = runUserRoles(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "epesctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: epesctl <command> [flags]

commands:
  login       sign in and print a bearer token
  nav         show the navigation entries the token's roles grant
  role-perms  edit which action types a role may perform
  user-roles  edit which roles a user holds

set EPES_URL to point at the service (default http://localhost:8080)
and EPES_TOKEN to skip passing -token on every call.`)
}

func baseURL(fs *flag.FlagSet) *string {
	def := os.Getenv("EPES_URL")
	if def == "" {
		def = "http://localhost:8080"
	}
	return fs.String("url", def, "service base URL")
}

func tokenFlag(fs *flag.FlagSet) *string {
	return fs.String("token", os.Getenv("EPES_TOKEN"), "bearer token")
}

func runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	url := baseURL(fs)
	loginID := fs.String("login-id", "", "login identifier")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *loginID == "" || *password == "" {
		return fmt.Errorf("login requires -login-id and -password")
	}

	payload, err := json.Marshal(map[string]string{"login_id": *loginID, "password": *password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(*url, "/")+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := &http.Client{Timeout: 30 * time.Second}
	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var result struct {
		Token     string    `json:"token"`
		LoginID   string    `json:"login_id"`
		Roles     []string  `json:"roles"`
		ExpiresAt time.Time `json:"expires_at"`
		Detail    string    `json:"detail"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		if result.Detail != "" {
			return fmt.Errorf("login failed: %s", result.Detail)
		}
		return fmt.Errorf("login failed: status %d", res.StatusCode)
	}

	fmt.Printf("signed in as %s (roles: %s), token expires %s\n",
		result.LoginID, strings.Join(result.Roles, ", "), result.ExpiresAt.Format(time.RFC3339))
	fmt.Println(result.Token)
	return nil
}

func runNav(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("nav", flag.ExitOnError)
	url := baseURL(fs)
	token := tokenFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := client.New(*url)
	data, err := c.GET(ctx, "/protected/navigation", *token, nil)
	if err != nil {
		return err
	}

	var payload struct {
		Navigation []struct {
			Title string `json:"title"`
			Route string `json:"route"`
		} `json:"navigation"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if len(payload.Navigation) == 0 {
		fmt.Println("no navigation entries for this account")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, entry := range payload.Navigation {
		fmt.Fprintf(w, "%s\t%s\n", entry.Title, entry.Route)
	}
	return w.Flush()
}

func runRolePerms(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("role-perms", flag.ExitOnError)
	url := baseURL(fs)
	token := tokenFlag(fs)
	roleID := fs.String("role", "", "role ID to edit")
	toggle := fs.String("toggle", "", "comma-separated action type IDs to flip")
	save := fs.Bool("save", false, "submit the edited matrix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	adapter := reconcile.RolePermissions{Client: client.New(*url)}
	return runEditor(ctx, adapter, adapter, *token, *roleID, *toggle, *save)
}

func runUserRoles(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-roles", flag.ExitOnError)
	url := baseURL(fs)
	token := tokenFlag(fs)
	userID := fs.String("user", "", "user ID to edit")
	actorID := fs.String("actor", "", "acting admin's user ID, stamped on updates")
	toggle := fs.String("toggle", "", "comma-separated role IDs to flip")
	save := fs.Bool("save", false, "submit the edited matrix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	adapter := reconcile.UserRoles{Client: client.New(*url), ActorID: *actorID}
	return runEditor(ctx, adapter, adapter, *token, *userID, *toggle, *save)
}

// runEditor drives one reconcile session: open, apply toggles, print the
// working matrix, and optionally save. Without -save the session is discarded
// untouched, which makes a plain invocation a safe way to inspect grants.
func runEditor(ctx context.Context, source reconcile.Source, sink reconcile.Sink, token, subjectID, toggle string, save bool) error {
	session := reconcile.NewSession(source, sink)
	defer session.Close()

	if err := session.Open(ctx, token, subjectID); err != nil {
		return err
	}

	if toggle != "" {
		for _, id := range strings.Split(toggle, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if err := session.Toggle(id); err != nil {
				return fmt.Errorf("toggle %s: %w", id, err)
			}
		}
	}

	subject := session.Subject()
	fmt.Printf("%s (%s)\n", subject.Name, subject.ID)
	if session.Empty() {
		fmt.Println("no grantable items")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, item := range session.Items() {
		mark := " "
		if item.Granted {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s]\t%s\t%s\n", mark, item.Name, item.ID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !save {
		if toggle != "" {
			fmt.Println("(dry run: pass -save to submit)")
		}
		return nil
	}
	if err := session.Save(ctx); err != nil {
		return err
	}
	fmt.Println("saved")
	return nil
}
