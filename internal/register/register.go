// Package register pushes application command definitions to the platform.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/mattjoyce/runbot/internal/command"
)

// Creator is the subset of *discordgo.Session used for registration.
type Creator interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

// File is the on-disk command definition format.
type File struct {
	Commands []*discordgo.ApplicationCommand `json:"commands"`
}

// Result is the outcome for one command.
type Result struct {
	Name string
	ID   string
	Err  error
}

// DefaultCommands returns the definitions the bot handles.
func DefaultCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        command.NamePing,
			Type:        discordgo.ChatApplicationCommand,
			Description: "Replies with Pong!",
		},
		{
			Name:        command.NamePong,
			Type:        discordgo.ChatApplicationCommand,
			Description: "Replies with Ping!",
		},
		{
			Name: command.NameRun,
			Type: discordgo.MessageApplicationCommand,
		},
	}
}

// LoadFile reads command definitions from a JSON file.
func LoadFile(path string) ([]*discordgo.ApplicationCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read commands file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse commands file: %w", err)
	}
	if len(file.Commands) == 0 {
		return nil, fmt.Errorf("commands file %s defines no commands", path)
	}
	for i, cmd := range file.Commands {
		if cmd == nil || cmd.Name == "" {
			return nil, fmt.Errorf("commands[%d]: name is required", i)
		}
	}
	return file.Commands, nil
}

// Registrar creates commands for one application, optionally scoped to a guild.
type Registrar struct {
	creator Creator
	appID   string
	guildID string
	logger  *slog.Logger
}

// New creates a Registrar. An empty guildID registers global commands.
func New(creator Creator, appID, guildID string, logger *slog.Logger) *Registrar {
	return &Registrar{
		creator: creator,
		appID:   appID,
		guildID: guildID,
		logger:  logger,
	}
}

// Register creates every command, continuing past failures. The returned
// error joins all per-command failures.
func (r *Registrar) Register(ctx context.Context, cmds []*discordgo.ApplicationCommand) ([]Result, error) {
	results := make([]Result, 0, len(cmds))
	var errs []error

	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		created, err := r.creator.ApplicationCommandCreate(r.appID, r.guildID, cmd, discordgo.WithContext(ctx))
		if err != nil {
			r.logger.Error("command registration failed", "command", cmd.Name, "error", err)
			results = append(results, Result{Name: cmd.Name, Err: err})
			errs = append(errs, fmt.Errorf("register %q: %w", cmd.Name, err))
			continue
		}

		id := ""
		if created != nil {
			id = created.ID
		}
		r.logger.Info("command registered", "command", cmd.Name, "id", id, "guild_id", r.guildID)
		results = append(results, Result{Name: cmd.Name, ID: id})
	}

	return results, errors.Join(errs...)
}
