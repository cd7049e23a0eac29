package client

import (
	"fmt"
	"time"

	"github.com/tomz197/ripples/internal/loop"
	"github.com/tomz197/ripples/internal/loop/config"
	"github.com/tomz197/ripples/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snapshot := c.handle.Snapshot()

	if c.state.GameState == GameStatePlaying && !c.state.isInactive {
		ctx := object.DrawContext{Canvas: c.canvas}
		for _, shape := range snapshot.Shapes {
			if err := shape.Draw(ctx); err != nil {
				return err
			}
		}
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snapshot *loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPopups(snapshot.Popups)
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	}
}

// drawText writes a text overlay and marks its cells dirty so the canvas
// repaints them once the text is gone.
func (c *Client) drawText(col, row int, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	if col < 1 {
		col = 1
	}
	n := object.Text{X: col, Y: row, Value: s}.Draw(c.chunkWriter)
	c.canvas.Invalidate(col, row, n)
}

// drawPopups draws the score awarded by recent bursts where they happened.
func (c *Client) drawPopups(popups []loop.Popup) {
	for _, p := range popups {
		label := fmt.Sprintf("+%d", p.Award)
		col, row := c.canvas.LogicalToTerminal(p.X, p.Y)
		col -= len(label) / 2
		if col+len(label) > c.canvas.TerminalWidth() {
			col = c.canvas.TerminalWidth() - len(label)
		}
		c.drawText(col, row, label)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *loop.Snapshot) {
	c.drawText(2, 1, fmt.Sprintf("Score: %-10d", snapshot.Score))

	chainText := "          "
	if snapshot.ChainActive && snapshot.Chain > 0 {
		chainText = fmt.Sprintf("Chain x%-3d", snapshot.Chain)
	}
	c.drawText(termWidth-len(chainText)-1, 1, chainText)

	hint := "click: ripple  r: restart  q: quit"
	if c.sound != nil {
		hint = "click: ripple  r: restart  m: mute  q: quit"
	}
	c.drawText(2, termHeight, hint)

	players := fmt.Sprintf("Players: %-4d", c.server.Players())
	c.drawText(termWidth-len(players)-1, termHeight, players)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		` ___ ___ ___ ___ _    ___ ___ `,
		`| _ \_ _| _ \ _ \ |  | __/ __|`,
		`|   /| ||  _/  _/ |__| _|\__ \`,
		`|_|_\___|_| |_| |____|___|___/`,
		`                              `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 7
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := "~ Ripple Ring Rhythm ~"
	cw.WriteAt(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteAt(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"Click  . . . . . Ripple",
		"R  . . . . . . . Restart",
		"M  . . . . . . . . Mute",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	help := "Catch the drifting dots on the edge of a ring. Quick bursts chain."
	cw.WriteAt(centerX-len(help)/2, controlsY+len(controlLines)+2, help)

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Click or press SPACE to Start  <<"
		cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controlLines)+4, prompt)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
