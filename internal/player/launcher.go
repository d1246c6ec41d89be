package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// LaunchOptions describes how a media file should be opened
type LaunchOptions struct {
	StartOffset time.Duration // resume position, 0 = from the beginning
	IPCSocket   string        // mpv IPC socket path, empty = no IPC
}

// Process is a launched player
type Process struct {
	Name string // registry name or configured command
	IPC  bool   // true when the player was told to open IPCSocket
	cmd  *exec.Cmd
}

// Wait blocks until the player exits
func (p *Process) Wait() error {
	if p == nil || p.cmd == nil {
		return nil
	}
	return p.cmd.Wait()
}

// Kill stops the player if it is still running
func (p *Process) Kill() error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// playerConfig defines how to pass a resume offset and an IPC socket to a player
type playerConfig struct {
	offsetFlag string            // e.g., "--start="
	ipcFlag    string            // e.g., "--input-ipc-server=", empty when the player has no mpv IPC
	platforms  map[string]string // platform -> executable
}

// players registry - the mpv family speaks the JSON IPC protocol
var players = map[string]playerConfig{
	"mpv": {
		offsetFlag: "--start=",
		ipcFlag:    "--input-ipc-server=",
		platforms:  map[string]string{"darwin": "mpv", "linux": "mpv", "windows": "mpv"},
	},
	"iina": {
		offsetFlag: "--mpv-start=",
		ipcFlag:    "--mpv-input-ipc-server=",
		platforms:  map[string]string{"darwin": "iina-cli"},
	},
	"celluloid": {
		offsetFlag: "--mpv-start=",
		ipcFlag:    "--mpv-input-ipc-server=",
		platforms:  map[string]string{"linux": "celluloid"},
	},
	"vlc": {
		offsetFlag: "--start-time=",
		platforms:  map[string]string{"darwin": "vlc", "linux": "vlc", "windows": "vlc"},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"mpv", "iina", "vlc"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"mpv", "vlc"},
}

// Launcher starts media files in an external player
type Launcher struct {
	command   string   // configured player command, empty to auto-detect
	args      []string // additional arguments for the player
	startFlag string   // offset flag prefix, e.g., "--start=" or "-ss "
	ipcFlag   string
	logger    *slog.Logger
}

// NewLauncher creates a Launcher, filling offset and IPC flags for known players
func NewLauncher(command string, args []string, startFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	l := &Launcher{
		command:   command,
		args:      args,
		startFlag: startFlag,
		logger:    logger,
	}

	if command != "" {
		if cfg, ok := players[playerName(command)]; ok {
			if l.startFlag == "" {
				l.startFlag = cfg.offsetFlag
				logger.Debug("auto-detected player offset flag", "player", playerName(command), "flag", l.startFlag)
			}
			l.ipcFlag = cfg.ipcFlag
		}
	}

	return l
}

// playerName reduces a command path to its registry key
func playerName(command string) string {
	base := filepath.Base(command)
	// Strip any extension (for Windows .exe)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// flagArgs renders a flag prefix and value; a prefix ending in a space
// ("-ss ") takes the value as a separate argument
func flagArgs(prefix, value string) []string {
	if strings.HasSuffix(prefix, " ") {
		return []string{strings.TrimSuffix(prefix, " "), value}
	}
	return []string{prefix + value}
}

// playerArgs builds the argument list placed before the media path
func playerArgs(base []string, startFlag, ipcFlag string, opts LaunchOptions) []string {
	args := append([]string{}, base...)
	if opts.StartOffset > 0 && startFlag != "" {
		args = append(args, flagArgs(startFlag, fmt.Sprintf("%.0f", opts.StartOffset.Seconds()))...)
	}
	if opts.IPCSocket != "" && ipcFlag != "" {
		args = append(args, flagArgs(ipcFlag, opts.IPCSocket)...)
	}
	return args
}

// Launch opens a media file in the configured player or the first detected candidate
func (l *Launcher) Launch(mediaPath string, opts LaunchOptions) (*Process, error) {
	// Tier 1: User configured a specific player
	if l.command != "" {
		if opts.StartOffset > 0 && l.startFlag == "" {
			l.logger.Warn("cannot set start offset - unknown player, configure start_flag in config",
				"command", l.command, "offset", opts.StartOffset)
		}
		if opts.IPCSocket != "" && l.ipcFlag == "" {
			l.logger.Warn("player has no mpv IPC support, chapters will not follow playback", "command", l.command)
		}

		args := playerArgs(l.args, l.startFlag, l.ipcFlag, opts)
		l.logger.Info("launching player", "command", l.command, "args", args, "media", mediaPath)
		return start(l.command, l.command, append(args, mediaPath), opts.IPCSocket != "" && l.ipcFlag != "")
	}

	// Tier 2: Try candidate chain
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"] // default
	}

	for _, name := range candidates {
		cfg := players[name]
		executable, ok := cfg.platforms[runtime.GOOS]
		if !ok {
			continue
		}
		if _, err := exec.LookPath(executable); err != nil {
			l.logger.Debug("player not available", "player", name, "error", err)
			continue
		}

		args := playerArgs(l.args, cfg.offsetFlag, cfg.ipcFlag, opts)
		l.logger.Info("launching detected player", "player", name, "args", args)
		return start(name, executable, append(args, mediaPath), opts.IPCSocket != "" && cfg.ipcFlag != "")
	}

	return nil, fmt.Errorf("no candidate players found")
}

func start(name, executable string, args []string, ipc bool) (*Process, error) {
	cmd := exec.Command(executable, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	return &Process{Name: name, IPC: ipc, cmd: cmd}, nil
}
