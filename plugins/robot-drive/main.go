// Package main provides a differential-drive plugin for robohand.
// It turns recognized commands into twist messages and optionally posts them
// to a robot's HTTP endpoint.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action    string          `json:"action"`
	Command   string          `json:"command"`
	SessionID string          `json:"session_id,omitempty"`
	Config    json.RawMessage `json:"config"`
	Params    json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is the per-binding drive configuration.
type Config struct {
	LinearSpeed  float64 `json:"linear_speed"`  // m/s
	AngularSpeed float64 `json:"angular_speed"` // rad/s
	TurnDuration float64 `json:"turn_duration"` // seconds, for turn-left/turn-right
	Endpoint     string  `json:"endpoint"`
}

// Twist is a velocity command held for Duration seconds. A zero Duration
// means hold until the next command.
type Twist struct {
	Command  string  `json:"command"`
	Linear   float64 `json:"linear"`
	Angular  float64 `json:"angular"`
	Duration float64 `json:"duration"`
}

var defaultConfig = Config{
	LinearSpeed:  0.2,
	AngularSpeed: 1.0,
	TurnDuration: 0.5,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg, err := parseConfig(req.Config)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	var twist Twist
	switch req.Action {
	case "drive":
		twist, err = twistFor(req.Command, cfg)
	case "stop":
		twist = Twist{Command: "stop"}
	default:
		err = fmt.Errorf("unknown action: %s", req.Action)
	}
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if cfg.Endpoint != "" {
		if err := send(cfg.Endpoint, twist); err != nil {
			writeErrorResponse(fmt.Sprintf("send twist: %v", err))
			return
		}
	}

	data, _ := json.Marshal(twist)
	writeSuccessResponse(data)
}

func parseConfig(raw json.RawMessage) (Config, error) {
	cfg := defaultConfig
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.LinearSpeed <= 0 || cfg.AngularSpeed <= 0 {
		return cfg, fmt.Errorf("invalid config: speeds must be positive")
	}
	return cfg, nil
}

// twistFor maps a command name to a twist. Positive angular is
// counter-clockwise (left).
func twistFor(command string, cfg Config) (Twist, error) {
	t := Twist{Command: command}
	switch command {
	case "advance":
		t.Linear = cfg.LinearSpeed
	case "stop":
	case "turn-left":
		t.Linear = cfg.LinearSpeed
		t.Angular = cfg.AngularSpeed
		t.Duration = cfg.TurnDuration
	case "turn-right":
		t.Linear = cfg.LinearSpeed
		t.Angular = -cfg.AngularSpeed
		t.Duration = cfg.TurnDuration
	case "rotate-90-left":
		t.Angular = cfg.AngularSpeed
		t.Duration = (math.Pi / 2) / cfg.AngularSpeed
	case "rotate-90-right":
		t.Angular = -cfg.AngularSpeed
		t.Duration = (math.Pi / 2) / cfg.AngularSpeed
	case "rotate-360-left":
		t.Angular = cfg.AngularSpeed
		t.Duration = (2 * math.Pi) / cfg.AngularSpeed
	case "rotate-360-right":
		t.Angular = -cfg.AngularSpeed
		t.Duration = (2 * math.Pi) / cfg.AngularSpeed
	default:
		return t, fmt.Errorf("unknown command: %q", command)
	}
	return t, nil
}

// send posts the twist as JSON to the robot endpoint.
func send(endpoint string, t Twist) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %s", resp.Status)
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}
