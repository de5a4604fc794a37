package commands

import "github.com/bwmarrin/discordgo"

const (
	PingCommand     = "ping"
	AnnounceCommand = "announce"
	MessageOption   = "message"

	ConfirmButtonID = "announce_confirm"
	CancelButtonID  = "announce_cancel"
)

var definitions = []*discordgo.ApplicationCommand{
	{
		Name:        PingCommand,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Check that the bot is alive",
	},
	{
		Name:        AnnounceCommand,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Post an announcement to this channel",
		Options:     []*discordgo.ApplicationCommandOption{messageOption},
	},
}

var messageOption = &discordgo.ApplicationCommandOption{
	Name:        MessageOption,
	Type:        discordgo.ApplicationCommandOptionString,
	Description: "The announcement text",
	Required:    true,
}

func confirmButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm",
					Style:    discordgo.SuccessButton,
					CustomID: ConfirmButtonID,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: CancelButtonID,
				},
			},
		},
	}
}
