// Package handlers holds the built-in commands. Each file adds its descriptors from init, and
// Register installs them all on a registry once their dependencies exist.
package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"GuildBot/core/database"
	"GuildBot/core/dispatch"
	"GuildBot/core/guilds"

	"golang.org/x/time/rate"
)

// Deps are the services built-in commands work against.
type Deps struct {
	DB         *database.DB
	Guilds     *guilds.Provider
	Registry   *dispatch.Registry
	Authorizer dispatch.PermissionAuthorizer
	// Pool may be nil when commands run inline.
	Pool          *dispatch.Pool
	DefaultPrefix string
	// Roll returns a number in [0, n).
	Roll func(n int) int
	// HTTP and AnimalAPI serve the random animal command. Zero values use the public API.
	HTTP      *http.Client
	AnimalAPI string
	// AnimalRate limits calls to the animal API across all guilds. Nil means unlimited.
	AnimalRate *rate.Limiter
}

type factory func(deps *Deps) []*dispatch.Descriptor

var factories []factory

func register(f factory) {
	factories = append(factories, f)
}

// Register adds every built-in command to deps.Registry.
func Register(deps *Deps) error {
	if deps.Roll == nil {
		deps.Roll = rand.Intn
	}
	for _, f := range factories {
		if err := deps.Registry.Register(f(deps)...); err != nil {
			return err
		}
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "enable", "enabled":
		return true, nil
	case "off", "no", "disable", "disabled":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q is not true or false", s)
	}
	return b, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
