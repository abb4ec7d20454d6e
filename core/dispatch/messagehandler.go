package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Module is a named group of commands that guilds can switch on and off.
type Module string

const (
	ModuleCore          Module = "core"
	ModuleManagement    Module = "management"
	ModuleInformational Module = "informational"
	ModuleFun           Module = "fun"
	ModuleModeration    Module = "moderation"
)

// Only public modules can be toggled by a guild; the rest are always on.
var publicModules = map[Module]bool{
	ModuleInformational: true,
	ModuleFun:           true,
	ModuleModeration:    true,
}

func (m Module) IsPublic() bool {
	return publicModules[m]
}

func (m Module) String() string {
	return string(m)
}

// Modules lists every known module in name order.
func Modules() []Module {
	mods := []Module{ModuleCore, ModuleManagement, ModuleInformational, ModuleFun, ModuleModeration}
	sort.Slice(mods, func(i, j int) bool { return mods[i] < mods[j] })
	return mods
}

// ParseModule resolves a module by case-insensitive name.
func ParseModule(name string) (Module, bool) {
	for _, m := range Modules() {
		if strings.EqualFold(string(m), name) {
			return m, true
		}
	}
	return "", false
}

// PermissionNode is the identifier the authorizer checks. Default nodes are granted to every member.
type PermissionNode struct {
	Node    string
	Default bool
}

func (p PermissionNode) String() string {
	return p.Node
}

type Kind int

const (
	KindMain Kind = iota
	KindSub
)

func (k Kind) String() string {
	if k == KindSub {
		return "Sub"
	}
	return ""
}

// Handler is a command body. A returned error or a panic is treated as a failed command.
type Handler func(member *discordgo.Member, ctx *Context) error

// Descriptor describes one command. Descriptors are registered once and shared read-only afterwards.
type Descriptor struct {
	Trigger    string
	Aliases    []string
	Help       string
	Usage      string
	Module     Module
	Permission PermissionNode
	// DeleteOnSuccess opts the command into deleting its trigger message when the guild allows it.
	DeleteOnSuccess bool
	// Restricted commands never reveal that they exist to members who may not run them.
	Restricted  bool
	SubCommands []*Descriptor
	Run         Handler

	kind   Kind
	parent *Descriptor
}

func (d *Descriptor) Kind() Kind {
	return d.kind
}

func (d *Descriptor) Parent() *Descriptor {
	return d.parent
}

func (d *Descriptor) Executable() bool {
	return d.Run != nil
}

func (d *Descriptor) HasSubCommands() bool {
	return len(d.SubCommands) > 0
}

// Path is the full trigger, e.g. "tag add".
func (d *Descriptor) Path() string {
	if d.parent == nil {
		return d.Trigger
	}
	return d.parent.Trigger + " " + d.Trigger
}

// subCommand returns the first immediate child whose trigger matches token.
func (d *Descriptor) subCommand(token string) *Descriptor {
	for _, sub := range d.SubCommands {
		if strings.EqualFold(sub.Trigger, token) {
			return sub
		}
	}
	return nil
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%sCommand(%s)", d.kind, d.Path())
}
