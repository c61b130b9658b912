package register

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/runbot/internal/command"
	"github.com/mattjoyce/runbot/internal/log"
)

type fakeCreator struct {
	calls  []string
	appID  string
	guild  string
	failOn map[string]error
}

func (f *fakeCreator) ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.calls = append(f.calls, cmd.Name)
	f.appID, f.guild = appID, guildID
	if err := f.failOn[cmd.Name]; err != nil {
		return nil, err
	}
	return &discordgo.ApplicationCommand{ID: "id-" + cmd.Name, Name: cmd.Name}, nil
}

func TestDefaultCommands(t *testing.T) {
	cmds := DefaultCommands()
	require.Len(t, cmds, 3)

	for _, cmd := range cmds {
		assert.NotEqual(t, command.KindUnrecognized, command.Classify(cmd.Name), cmd.Name)
	}
	assert.Equal(t, discordgo.MessageApplicationCommand, cmds[2].Type)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "commands.json")
		body := `{"commands":[{"name":"ping","type":1,"description":"Replies with Pong!"},{"name":"run","type":3}]}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))

		cmds, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, cmds, 2)
		assert.Equal(t, "ping", cmds[0].Name)
		assert.Equal(t, discordgo.ChatApplicationCommand, cmds[0].Type)
		assert.Equal(t, discordgo.MessageApplicationCommand, cmds[1].Type)
	})

	tests := map[string]string{
		"not json":     `commands: [ping]`,
		"no commands":  `{"commands":[]}`,
		"missing name": `{"commands":[{"type":1}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	creator := &fakeCreator{}
	r := New(creator, "app-1", "guild-1", log.Discard())

	results, err := r.Register(context.Background(), DefaultCommands())
	require.NoError(t, err)
	assert.Equal(t, []string{"ping", "pong", "run"}, creator.calls)
	assert.Equal(t, "app-1", creator.appID)
	assert.Equal(t, "guild-1", creator.guild)
	require.Len(t, results, 3)
	assert.Equal(t, "id-run", results[2].ID)
}

func TestRegister_ContinuesPastFailures(t *testing.T) {
	boom := errors.New("HTTP 403 Forbidden")
	creator := &fakeCreator{failOn: map[string]error{"pong": boom}}
	r := New(creator, "app-1", "", log.Discard())

	results, err := r.Register(context.Background(), DefaultCommands())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"pong"`)
	assert.Equal(t, []string{"ping", "pong", "run"}, creator.calls)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
}

func TestRegister_CancelledContext(t *testing.T) {
	creator := &fakeCreator{}
	r := New(creator, "app-1", "", log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Register(ctx, DefaultCommands())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, creator.calls)
}
