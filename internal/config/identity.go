package config

import (
	"fmt"
	"os"
	"regexp"

	gitconfig "github.com/go-git/go-git/v5/config"
)

// combinedEmail matches the devscripts convention of carrying both name and
// address in DEBEMAIL, e.g. "Ada Lindqvist <ada@example.org>"
var combinedEmail = regexp.MustCompile(`^(.*\S)\s+<(.*)>$`)

// Identity is the resolved author identity for new changelog entries
type Identity struct {
	Name  string
	Email string
}

// Author formats the identity the way it appears in a trailer line
func (i Identity) Author() string {
	return fmt.Sprintf("%s <%s>", i.Name, i.Email)
}

// IsComplete reports whether both name and email are known
func (i Identity) IsComplete() bool {
	return i.Name != "" && i.Email != ""
}

// ResolveIdentity resolves the author identity: explicit configuration wins,
// then the DEBFULLNAME/DEBEMAIL and NAME/EMAIL environment variables, then
// user.name/user.email from the global git configuration.
func (c *Config) ResolveIdentity() Identity {
	id := Identity{Name: c.Identity.Name, Email: c.Identity.Email}
	if id.IsComplete() {
		return id
	}

	envName, envEmail := envIdentity()
	if id.Name == "" {
		id.Name = envName
	}
	if id.Email == "" {
		id.Email = envEmail
	}
	if id.IsComplete() {
		return id
	}

	if gc, err := gitconfig.LoadConfig(gitconfig.GlobalScope); err == nil {
		if id.Name == "" {
			id.Name = gc.User.Name
		}
		if id.Email == "" {
			id.Email = gc.User.Email
		}
	}

	return id
}

// envIdentity reads the identity environment variables, preferring the
// Debian-specific pair over the generic one
func envIdentity() (name, email string) {
	name = os.Getenv("DEBFULLNAME")
	email = os.Getenv("DEBEMAIL")

	// DEBEMAIL may carry the combined form
	if m := combinedEmail.FindStringSubmatch(email); m != nil {
		if name == "" {
			name = m[1]
		}
		email = m[2]
	}

	if name == "" {
		name = os.Getenv("NAME")
	}
	if email == "" {
		email = os.Getenv("EMAIL")
	}
	return name, email
}
