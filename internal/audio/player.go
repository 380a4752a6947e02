package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// playerCommand is one candidate command line; the file path is appended
type playerCommand struct {
	name string
	args []string
}

// linuxPlayers in order of preference. mpg321 first, it is what the
// appliance image ships.
var linuxPlayers = []playerCommand{
	{"mpg321", []string{"-q"}},
	{"mpg123", []string{"-q"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{"play", []string{"-q"}}, // SoX
	{"paplay", nil},
	{"aplay", []string{"-q"}},
}

// Player plays audio files through an external command and blocks until
// playback has finished
type Player struct {
	name     string
	args     []string
	logger   *zap.Logger
	lookPath func(string) (string, error)
}

// NewPlayer resolves the player command. An empty command picks the first
// installed player; otherwise command is split on whitespace and the file
// path is appended.
func NewPlayer(command string, logger *zap.Logger) (*Player, error) {
	return newPlayer(command, logger, exec.LookPath)
}

func newPlayer(command string, logger *zap.Logger, lookPath func(string) (string, error)) (*Player, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Player{logger: logger, lookPath: lookPath}

	if fields := strings.Fields(command); len(fields) > 0 {
		if _, err := lookPath(fields[0]); err != nil {
			return nil, fmt.Errorf("audio player %q not found: %w", fields[0], err)
		}
		p.name, p.args = fields[0], fields[1:]
		return p, nil
	}

	var candidates []playerCommand
	switch runtime.GOOS {
	case "darwin": // macOS
		candidates = []playerCommand{{"afplay", nil}}
	case "linux":
		candidates = linuxPlayers
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	for _, c := range candidates {
		if _, err := lookPath(c.name); err == nil {
			p.name, p.args = c.name, c.args
			return p, nil
		}
	}

	return nil, fmt.Errorf("no audio player found. Install mpg321, mpg123, ffplay, sox, paplay, or aplay")
}

// Command returns the resolved command line without the file path
func (p *Player) Command() string {
	return strings.TrimSpace(p.name + " " + strings.Join(p.args, " "))
}

// Play plays path and returns when the player exits. Cancelling ctx kills
// the player.
func (p *Player) Play(ctx context.Context, path string) error {
	args := append(append([]string(nil), p.args...), path)
	cmd := exec.CommandContext(ctx, p.name, args...)

	p.logger.Debug("Playing audio", zap.String("player", p.name), zap.String("path", path))

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s failed: %w\nOutput: %s", p.name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
