// Package tray provides a system tray indicator for robohand.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/robohand/internal/gesture"
	"github.com/ayusman/robohand/internal/session"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	status     string
	command    string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuStatus  *systray.MenuItem
	menuCommand *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		status:  statusLabel(session.Suspended),
		command: commandLabel(""),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the dashboard menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("robohand")
	systray.SetTooltip("robohand gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleLabel(t.enabled), "Toggle camera capture")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(t.status, "Session status")
	t.menuStatus.Disable()
	t.menuCommand = systray.AddMenuItem(t.command, "Current command")
	t.menuCommand.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit robohand")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleLabel(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleSettings handles the dashboard menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Broadcast updates the status and command items from a session output.
// Menu items are only touched when the text changes.
func (t *Tray) Broadcast(out session.Output) {
	status := statusLabel(out.Status)
	command := commandLabel(out.Command)

	t.mu.Lock()
	defer t.mu.Unlock()

	if status != t.status {
		t.status = status
		if t.menuStatus != nil {
			t.menuStatus.SetTitle(status)
		}
	}
	if command != t.command {
		t.command = command
		if t.menuCommand != nil {
			t.menuCommand.SetTitle(command)
		}
	}
}

// Status returns the status and command lines currently shown.
func (t *Tray) Status() (status, command string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status, t.command
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleLabel(enabled bool) string {
	if enabled {
		return "● Capture on"
	}
	return "○ Capture off"
}

func statusLabel(s session.State) string {
	if s == session.Active {
		return "Status: active"
	}
	return "Status: suspended"
}

// commandLabel shows the command's human label, or the waiting sentinel.
func commandLabel(name string) string {
	if cmd, err := gesture.ParseCommand(name); err == nil {
		return "Command: " + cmd.Label()
	}
	return "Command: " + session.Waiting
}
