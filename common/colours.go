package common

import "github.com/diamondburned/arikawa/v3/discord"

// Colours used in embeds.
const (
	ColourPurple discord.Color = 0x58539e
	ColourGreen  discord.Color = 0x43b581
	ColourRed    discord.Color = 0xf04747
	ColourOrange discord.Color = 0xfaa61a
)
