package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/config"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing tunewave configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and TUNEWAVE_* overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. The result must still validate.

Durations are milliseconds, except catalog.cache_ttl which is seconds.
player.extra_args takes a comma-separated list.

Examples:
  tunewave config set server.addr 0.0.0.0:5000
  tunewave config set catalog.redis_url redis://localhost:6379/0
  tunewave config set tail.auto_advance true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindList
)

// configKeys lists every settable key.
var configKeys = map[string]keyKind{
	"server.addr":            kindString,
	"server.stream_interval": kindInt,
	"player.binary":          kindString,
	"player.socket":          kindString,
	"player.ipc_timeout":     kindInt,
	"player.ready_timeout":   kindInt,
	"player.url_template":    kindString,
	"player.extra_args":      kindList,
	"player.stop_on_exit":    kindBool,
	"catalog.search_limit":   kindInt,
	"catalog.timeout":        kindInt,
	"catalog.redis_url":      kindString,
	"catalog.cache_ttl":      kindInt,
	"client.server":          kindString,
	"client.timeout":         kindInt,
	"client.search_timeout":  kindInt,
	"tail.interval":          kindInt,
	"tail.auto_advance":      kindBool,
	"tail.loading_window":    kindInt,
	"tui.theme":              kindString,
	"tui.refresh_interval":   kindInt,
	"log.level":              kindString,
	"log.file":               kindString,
	"log.format":             kindString,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if JSONOutput() {
		return printJSON(map[string]interface{}{"path": path, "exists": exists})
	}
	fmt.Println(path)
	if !exists && Verbose() {
		fmt.Fprintln(os.Stderr, "(file does not exist yet)")
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := existingConfigPath()
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfig(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Make sure mpv and yt-dlp are on your PATH")
	fmt.Println("  2. Run 'tunewave serve' and open another terminal")
	fmt.Println("  3. Run 'tunewave trending --pick' or 'tunewave ui'")
	return nil
}

// getConfigPath returns the --config flag, the config file in use, or
// where a new one would be created.
func getConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if p := config.Path(); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

func existingConfigPath() (string, error) {
	path, err := getConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", twerrors.WithSuggestion(
			fmt.Errorf("%w: %s", twerrors.ErrConfigNotFound, path),
			"Run 'tunewave config init' first",
		)
	}
	return path, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath, err := existingConfigPath()
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if _, err := toml.DecodeFile(configPath, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := setKey(raw, key, value); err != nil {
		return err
	}
	if err := checkRaw(raw); err != nil {
		return err
	}
	if err := writeConfig(configPath, raw); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setKey stores value under a "section.field" key in raw, converted to
// the key's type.
func setKey(raw map[string]interface{}, key, value string) error {
	typed, err := coerceValue(key, value)
	if err != nil {
		return err
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		raw[section] = sectionMap
	}
	sectionMap[field] = typed
	return nil
}

func coerceValue(key, value string) (interface{}, error) {
	kind, ok := configKeys[key]
	if !ok {
		return nil, twerrors.WithSuggestion(
			fmt.Errorf("unknown config key %q", key),
			"Valid keys: "+strings.Join(knownKeys(), ", "),
		)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false for %s", key)
		}
		return b, nil
	case kindList:
		var items []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}

func knownKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkRaw round-trips raw through Config so an invalid value is never
// written.
func checkRaw(raw map[string]interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}
	var c config.Config
	if _, err := toml.Decode(buf.String(), &c); err != nil {
		return fmt.Errorf("%w: %v", twerrors.ErrInvalidConfig, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", twerrors.ErrInvalidConfig, err)
	}
	return nil
}

func writeConfig(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# tunewave configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
