package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"GuildBot/core"

	"github.com/thoas/go-funk"
)

var (
	ErrDuplicateTrigger = errors.New("trigger already registered")
	ErrInvalidCommand   = errors.New("invalid command descriptor")
)

// Registry maps lower-cased triggers and aliases to main commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Descriptor
	ordered  []*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{commands: map[string]*Descriptor{}}
}

// Register adds main commands. Nothing is registered if any descriptor is rejected.
func (r *Registry) Register(descriptors ...*Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := map[string]*Descriptor{}
	for _, d := range descriptors {
		if err := validate(d); err != nil {
			return err
		}
		for _, key := range keys(d) {
			if _, taken := r.commands[key]; taken {
				return fmt.Errorf("%w: %q", ErrDuplicateTrigger, key)
			}
			if _, taken := pending[key]; taken {
				return fmt.Errorf("%w: %q", ErrDuplicateTrigger, key)
			}
			pending[key] = d
		}
	}

	for _, d := range descriptors {
		d.kind = KindMain
		d.parent = nil
		for _, sub := range d.SubCommands {
			sub.kind = KindSub
			sub.parent = d
		}
		r.ordered = append(r.ordered, d)
		if core.IsLogInfo() {
			core.LogInfoF("Registered command: %s (%d sub-commands, module %s)", d.Trigger, len(d.SubCommands), d.Module)
		}
	}
	for key, d := range pending {
		r.commands[key] = d
	}
	return nil
}

// MustRegister is Register for startup wiring, where a clash is a programming error.
func (r *Registry) MustRegister(descriptors ...*Descriptor) {
	if err := r.Register(descriptors...); err != nil {
		panic(err)
	}
}

// Resolve finds the main command for a trigger, ignoring case.
func (r *Registry) Resolve(trigger string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.commands[strings.ToLower(trigger)]
	return d, ok
}

// Commands returns the registered main commands in registration order.
func (r *Registry) Commands() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Descriptor(nil), r.ordered...)
}

// CommandsInModule filters Commands by module.
func (r *Registry) CommandsInModule(module Module) []*Descriptor {
	return funk.Filter(r.Commands(), func(d *Descriptor) bool {
		return d.Module == module
	}).([]*Descriptor)
}

func keys(d *Descriptor) []string {
	all := append([]string{d.Trigger}, d.Aliases...)
	return funk.UniqString(funk.Map(all, strings.ToLower).([]string))
}

func validate(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidCommand)
	}
	if strings.TrimSpace(d.Trigger) == "" || strings.ContainsAny(d.Trigger, " \t\n") {
		return fmt.Errorf("%w: bad trigger %q", ErrInvalidCommand, d.Trigger)
	}
	if !d.Executable() {
		return fmt.Errorf("%w: %s has no body", ErrInvalidCommand, d.Trigger)
	}
	// A restricted command must stay invisible, so it can't sit behind a module notice or an open child.
	if d.Restricted && d.Module.IsPublic() {
		return fmt.Errorf("%w: restricted %s in public module %s", ErrInvalidCommand, d.Trigger, d.Module)
	}
	seen := map[string]bool{}
	for _, sub := range d.SubCommands {
		if sub == nil || strings.TrimSpace(sub.Trigger) == "" || !sub.Executable() {
			return fmt.Errorf("%w: %s has an incomplete sub-command", ErrInvalidCommand, d.Trigger)
		}
		// Sub-commands are resolved one level deep only.
		if sub.HasSubCommands() {
			return fmt.Errorf("%w: %s %s declares nested sub-commands", ErrInvalidCommand, d.Trigger, sub.Trigger)
		}
		if d.Restricted && !sub.Restricted {
			return fmt.Errorf("%w: %s %s must be restricted like its parent", ErrInvalidCommand, d.Trigger, sub.Trigger)
		}
		key := strings.ToLower(sub.Trigger)
		if seen[key] {
			return fmt.Errorf("%w: %s %s", ErrDuplicateTrigger, d.Trigger, sub.Trigger)
		}
		seen[key] = true
	}
	return nil
}
