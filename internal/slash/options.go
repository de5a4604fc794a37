package slash

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// CommandData returns the application command payload of the interaction.
func (c *Context) CommandData() discordgo.ApplicationCommandInteractionData {
	return c.Interaction.ApplicationCommandData()
}

// StringOption extracts a required string option by name.
func (c *Context) StringOption(name string) (string, error) {
	for _, opt := range c.CommandData().Options {
		if opt.Name != name {
			continue
		}
		if opt.Type != discordgo.ApplicationCommandOptionString {
			return "", fmt.Errorf("option is not a string: [%s]", name)
		}
		return opt.StringValue(), nil
	}
	return "", fmt.Errorf("missing option: [%s]", name)
}

// AuthorID returns the invoking user's id, for guild and DM interactions.
func (c *Context) AuthorID() string {
	if c.Interaction.Member != nil && c.Interaction.Member.User != nil {
		return c.Interaction.Member.User.ID
	}
	if c.Interaction.User != nil {
		return c.Interaction.User.ID
	}
	return ""
}
