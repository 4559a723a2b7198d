// Package admin provides the host command interpreter: command registry,
// access levels and the callers commands run on behalf of.
package admin

// AccessLevel defines an access level with associated permissions.
// Level 0 = normal player, 1+ = GM, 100+ = full admin.
type AccessLevel struct {
	Level int32
	Name  string
	IsGM  bool
	// CanUseAdminCommands gates every command above level 0.
	CanUseAdminCommands bool
	// CanManageTriggers gates commands that change trigger definitions.
	CanManageTriggers bool
}

// Отсортированы по Level, GetAccessLevel ищет снизу вверх.
var accessLevels = []AccessLevel{
	{Level: 0, Name: "User"},
	{Level: 1, Name: "Moderator", IsGM: true, CanUseAdminCommands: true},
	{Level: 2, Name: "Game Master", IsGM: true, CanUseAdminCommands: true, CanManageTriggers: true},
	{Level: 100, Name: "Administrator", IsGM: true, CanUseAdminCommands: true, CanManageTriggers: true},
}

// GetAccessLevel returns the AccessLevel for a level value.
// Unknown levels inherit from the highest known level below them.
// Negative levels (banned) return nil.
func GetAccessLevel(level int32) *AccessLevel {
	if level < 0 {
		return nil
	}

	var best *AccessLevel
	for i := range accessLevels {
		if accessLevels[i].Level > level {
			break
		}
		best = &accessLevels[i]
	}
	return best
}
