package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/ability-forge/internal/services/converter"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Handler handles all Discord interactions
type Handler struct {
	converterService converter.Service
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ConverterService converter.Service
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	return &Handler{
		converterService: cfg.ConverterService,
	}
}

// RegisterCommands registers the slash commands with Discord
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "forge",
			Description: "Convert ability text into automation artifacts",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "convert",
					Description: "Convert a single ability description",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "text",
							Description: "The ability text",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Explicit ability name",
							Required:    false,
						},
					},
				},
				{
					Name:        "monster",
					Description: "Convert every action of a monster by its API key",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "key",
							Description: "Monster key, e.g. 'dire-wolf'",
							Required:    true,
						},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}
	return nil
}

// HandleInteraction routes incoming interactions
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "forge" || len(data.Options) == 0 {
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "convert":
		h.handleConvert(s, i, sub)
	case "monster":
		h.handleMonster(s, i, sub)
	}
}

func (h *Handler) handleConvert(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	var text, name string
	for _, opt := range sub.Options {
		switch opt.Name {
		case "text":
			text = opt.StringValue()
		case "name":
			name = opt.StringValue()
		}
	}

	result, err := h.converterService.Convert(context.Background(), &converter.Input{Text: text, Name: name})
	if err != nil {
		h.respondError(s, i, err)
		return
	}

	h.respondEmbeds(s, i, []*discordgo.MessageEmbed{resultEmbed(result)})
}

func (h *Handler) handleMonster(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	var key string
	for _, opt := range sub.Options {
		if opt.Name == "key" {
			key = opt.StringValue()
		}
	}

	results, err := h.converterService.ConvertMonster(context.Background(), key)
	if err != nil {
		h.respondError(s, i, err)
		return
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(results))
	for _, result := range results {
		embeds = append(embeds, resultEmbed(result))
		if len(embeds) == 10 {
			// Discord caps embeds per message
			break
		}
	}
	h.respondEmbeds(s, i, embeds)
}

func (h *Handler) respondEmbeds(s *discordgo.Session, i *discordgo.InteractionCreate, embeds []*discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: embeds},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

func (h *Handler) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, convErr error) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Conversion failed: %v", convErr),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

// resultEmbed summarizes one conversion result as a Discord embed
func resultEmbed(result *converter.Result) *discordgo.MessageEmbed {
	artifact := result.Artifact

	fields := []*discordgo.MessageEmbedField{
		{Name: "Item Type", Value: string(artifact.Item.Type), Inline: true},
		{Name: "Complexity", Value: fmt.Sprintf("Tier %d", artifact.Complexity), Inline: true},
		{Name: "Quality", Value: fmt.Sprintf("%.1f / 10", artifact.Quality), Inline: true},
	}

	if len(artifact.Item.Activities) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Activities",
			Value: activitySummary(artifact.Item.Activities),
		})
	}
	if len(artifact.Effects) > 0 {
		names := make([]string, 0, len(artifact.Effects))
		for _, e := range artifact.Effects {
			names = append(names, e.Name)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Effects",
			Value: strings.Join(names, "\n"),
		})
	}
	if len(artifact.Scripts) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Scripts",
			Value:  fmt.Sprintf("%d behavior scripts generated", len(artifact.Scripts)),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  result.Name,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Subsystems: " + strings.Join(artifact.Subsystems, ", "),
		},
	}
}

func activitySummary(activities []synthesis.Activity) string {
	lines := make([]string, 0, len(activities))
	for _, act := range activities {
		switch act.Kind {
		case synthesis.ActivityAttack:
			lines = append(lines, fmt.Sprintf("Attack +%d (%s)", act.AttackBonus, damageSummary(act.Damage)))
		case synthesis.ActivitySave:
			line := fmt.Sprintf("Save DC %d %s", act.Save.DC, strings.ToUpper(act.Save.Ability))
			if act.DamageMode == synthesis.DamageModeSuppressed {
				line += " (no damage, applies effects)"
			} else if len(act.Damage) > 0 {
				line += fmt.Sprintf(" (%s)", damageSummary(act.Damage))
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func damageSummary(parts []synthesis.DamagePart) string {
	if len(parts) == 0 {
		return "no damage"
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, fmt.Sprintf("%s %s", p.Formula, p.Type))
	}
	return strings.Join(out, " + ")
}
