package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hako/durafmt"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
	"github.com/udisondev/smartregions/internal/trigger"
)

const regionsPerHint = 10

const smartRegionUsage = "/smartregion sub-commands:\n" +
	"add <region name> <cooldown> <command or file>\n" +
	"remove <region name>\n" +
	"check <region name>\n" +
	"list [page] [max distance]"

// SmartRegion handles /smartregion add|remove|check|list.
type SmartRegion struct {
	ctx      context.Context
	triggers Triggers
	regions  Regions
}

// NewSmartRegion creates the smartregion command handler. ctx is the server
// lifetime: add and remove stop waiting on storage once it is canceled.
func NewSmartRegion(ctx context.Context, triggers Triggers, regions Regions) *SmartRegion {
	return &SmartRegion{ctx: ctx, triggers: triggers, regions: regions}
}

func (c *SmartRegion) Names() []string           { return []string{"smartregion", "sr"} }
func (c *SmartRegion) RequiredAccessLevel() int32 { return 2 }
func (c *SmartRegion) AllowServer() bool          { return false }
func (c *SmartRegion) ManagesTriggers() bool      { return true }

func (c *SmartRegion) Handle(caller admin.Caller, args []string) error {
	if len(args) < 2 {
		caller.SendMessage(model.MessageInfo, smartRegionUsage)
		return nil
	}

	switch strings.ToLower(args[1]) {
	case "add":
		return c.add(caller, args[2:])
	case "remove", "del":
		return c.remove(caller, args[2:])
	case "check":
		return c.check(caller, args[2:])
	case "list":
		return c.list(caller, args[2:])
	default:
		caller.SendMessage(model.MessageInfo, smartRegionUsage)
		return nil
	}
}

func (c *SmartRegion) add(caller admin.Caller, args []string) error {
	const usage = "usage: /smartregion add <region name> <cooldown> <command or file>"
	if len(args) < 3 {
		return errors.New(usage)
	}

	name := args[0]
	cooldown, err := trigger.ParseCooldown(args[1])
	if err != nil {
		return fmt.Errorf("%w; %s", err, usage)
	}
	command := joinArgs(args[2:])

	err = c.triggers.Add(c.ctx, caller, name, cooldown, command)
	switch {
	case err == nil:
		caller.SendMessage(model.MessageSuccess, "Smart region added!")
		return nil
	case errors.Is(err, trigger.ErrUnknownRegion):
		caller.SendMessage(model.MessageInfo, c.regionHint())
		return fmt.Errorf("the region %s doesn't exist", name)
	case errors.Is(err, trigger.ErrDuplicateName):
		return fmt.Errorf("the smart region %s already exists! Type %sreplace to replace it", name, admin.Specifier)
	case errors.Is(err, trigger.ErrStorage):
		return fmt.Errorf("smart region added but could not be saved: %w", err)
	default:
		return err
	}
}

// regionHint lists the first page of known region names.
func (c *SmartRegion) regionHint() string {
	names := c.regions.Names()
	if len(names) == 0 {
		return "There are currently no regions defined."
	}
	pages := (len(names) + regionsPerHint - 1) / regionsPerHint
	shown := names[:min(regionsPerHint, len(names))]
	return fmt.Sprintf("Regions (1/%d): %s", pages, strings.Join(shown, ", "))
}

func (c *SmartRegion) remove(caller admin.Caller, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /smartregion remove <region name>")
	}

	err := c.triggers.Remove(c.ctx, caller, args[0])
	switch {
	case err == nil:
		caller.SendMessage(model.MessageSuccess, fmt.Sprintf("The smart region %s was removed!", args[0]))
		return nil
	case errors.Is(err, trigger.ErrNotFound):
		return errors.New("no such smart region exists")
	case errors.Is(err, trigger.ErrStorage):
		return fmt.Errorf("smart region removed but could not be deleted from storage: %w", err)
	default:
		return err
	}
}

func (c *SmartRegion) check(caller admin.Caller, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /smartregion check <region name>")
	}

	res, err := c.triggers.Check(caller, args[0])
	if errors.Is(err, trigger.ErrNotFound) {
		caller.SendMessage(model.MessageInfo, "That region doesn't have a command associated with it.")
		return nil
	}
	if err != nil {
		return err
	}

	source := "command"
	if res.FromFile {
		source = "script file"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The region %s has a cooldown of %s and uses the %s:",
		args[0], formatCooldown(res.Definition.CooldownDuration()), source)
	for _, line := range res.Lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	if res.Remaining > 0 {
		fmt.Fprintf(&b, "\nYou can trigger it again in %s.", formatCooldown(res.Remaining))
	}
	caller.SendMessage(model.MessageInfo, b.String())
	return nil
}

func (c *SmartRegion) list(caller admin.Caller, args []string) error {
	const usage = "usage: /smartregion list [page] [max distance]"

	page := 1
	if len(args) >= 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return errors.New(usage)
		}
		page = n
	}
	var maxDistance float64
	if len(args) >= 2 {
		d, err := strconv.ParseFloat(args[1], 64)
		if err != nil || d <= 0 {
			return errors.New(usage)
		}
		maxDistance = d
	}

	res := c.triggers.List(caller, page, maxDistance)
	caller.SendMessage(model.MessageInfo, fmt.Sprintf("Smart regions (%d):", res.Total))
	if len(res.Names) == 0 {
		if res.Total == 0 {
			caller.SendMessage(model.MessageInfo, "There are currently no smart regions.")
		} else {
			caller.SendMessage(model.MessageInfo, fmt.Sprintf("Page %d does not exist (%d pages).", res.Page, res.Pages))
		}
		return nil
	}

	caller.SendMessage(model.MessageInfo, strings.Join(res.Names, ", "))
	if res.Page < res.Pages {
		caller.SendMessage(model.MessageInfo,
			fmt.Sprintf("Type %ssmartregion list %d for more.", admin.Specifier, res.Page+1))
	}
	return nil
}

// formatCooldown renders d for chat output.
func formatCooldown(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}
	return durafmt.Parse(d).LimitFirstN(2).String()
}

// joinArgs rebuilds a command line from parsed arguments, quoting those that
// would not survive another SplitArgs pass as a single argument.
func joinArgs(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"\\") {
			a = admin.Quote(a)
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
