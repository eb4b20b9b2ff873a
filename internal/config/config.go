// Package config materializes viper settings into an explicit struct that is
// passed to components, so nothing below cmd/ reads global state.
package config

import "github.com/spf13/viper"

// ShellType selects the shell dialect for generated file-drop scripts.
type ShellType string

const (
	ShellPowerShell ShellType = "powershell"
	ShellBash       ShellType = "bash"
	ShellCmd        ShellType = "cmd"
)

// Anthropic holds the API settings for the optional LLM round trip.
type Anthropic struct {
	APIKey string
	Model  string
}

// Config holds the effective application configuration.
type Config struct {
	DataFile      string
	ExportsDir    string
	ImportsDir    string
	WorkDirectory string
	Shell         ShellType
	Anthropic     Anthropic
}

// FromViper builds a Config from the current viper state. Call once after
// viper initialization and pass the result around.
func FromViper() *Config {
	shell := ShellType(viper.GetString("shell_type"))
	switch shell {
	case ShellPowerShell, ShellBash, ShellCmd:
	default:
		shell = ShellPowerShell
	}

	return &Config{
		DataFile:      viper.GetString("data_file"),
		ExportsDir:    viper.GetString("exports_dir"),
		ImportsDir:    viper.GetString("imports_dir"),
		WorkDirectory: viper.GetString("work_directory"),
		Shell:         shell,
		Anthropic: Anthropic{
			APIKey: viper.GetString("anthropic.api_key"),
			Model:  viper.GetString("anthropic.model"),
		},
	}
}
