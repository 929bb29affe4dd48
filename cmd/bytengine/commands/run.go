package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marmos91/bytengine/internal/cli/output"
	"github.com/marmos91/bytengine/pkg/config"
	"github.com/marmos91/bytengine/pkg/engine"
)

var (
	runScript string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run [script-file]",
	Short: "Execute a BQL script",
	Long: `Execute a BQL script against a configured engine.

The script is read from the given file, or passed inline with --execute.
The engine is built from the configuration file: content store (memory or
badger), attachment bytestore (memory or disk), and a bootstrap admin user.

Listing-shaped results print as a table; use --output json or --output yaml
for the raw response envelope.

Examples:
  # Run a script file
  bytengine run setup.bql

  # Run an inline script
  bytengine run -e 'server.listdb'

  # Several commands in one script
  bytengine run -e '@docs database.newdir /reports; @docs database.listdir /'

  # Raw JSON output
  bytengine run -o json -e '@docs database.select "name" in /users'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runScript, "execute", "e", "", "Inline BQL script to execute")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "table", "Output format: table, json or yaml")
}

func runRun(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(runOutput)
	if err != nil {
		return err
	}

	script, err := loadScript(args)
	if err != nil {
		return err
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	eng, closeEngine, err := BuildEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	defer closeEngine() //nolint:errcheck

	ctx := cmd.Context()

	// The CLI runs in-process, so the bootstrap admin gets a throwaway
	// password that never leaves this invocation.
	password, err := generateSecret()
	if err != nil {
		return err
	}
	if err := eng.CreateAdminUser(ctx, cfg.Admin.Username, password); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	token, err := eng.Login(ctx, cfg.Admin.Username, password, 0)
	if err != nil {
		return err
	}
	defer eng.Logout(token)

	resp, err := eng.ExecuteScript(ctx, token, script)
	if err != nil {
		fmt.Println(resp.String())
		return fmt.Errorf("script failed: %w", err)
	}

	return renderResponse(resp, format)
}

// loadScript reads the script from the file argument or the --execute flag.
func loadScript(args []string) (string, error) {
	if runScript != "" {
		return runScript, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no script given: pass a script file or use --execute")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read script file: %w", err)
	}
	return string(data), nil
}

// loadRunConfig loads the configuration for the run command. An explicit
// --config path must exist; without one, missing files fall back to the
// in-memory defaults so scripts run out of the box.
func loadRunConfig() (*config.Config, error) {
	if path := GetConfigFile(); path != "" {
		return config.MustLoad(path)
	}
	return config.Load("")
}

// renderResponse prints a response. Table format renders name listings and
// flat objects as tables and falls back to JSON; json and yaml print the
// raw response envelope.
func renderResponse(resp engine.Response, format output.Format) error {
	switch format {
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, resp.Map())
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, resp.Map())
	}

	if names, ok := stringSlice(resp.Data); ok {
		table := output.NewTableData("NAME")
		for _, name := range names {
			table.AddRow(name)
		}
		return output.PrintTable(os.Stdout, table)
	}
	if pairs, ok := scalarPairs(resp.Data); ok {
		return output.SimpleTable(os.Stdout, pairs)
	}
	return output.PrintJSON(os.Stdout, resp.Map())
}

// scalarPairs reports whether a result value is a flat object of scalars,
// like the whoami or info result, and flattens it to sorted key-value pairs.
func scalarPairs(v any) ([][2]string, bool) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for k, val := range obj {
		switch val.(type) {
		case string, bool, float64, int, int64:
		default:
			return nil, false
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, fmt.Sprintf("%v", obj[k])})
	}
	return pairs, true
}

// stringSlice reports whether a result value is a plain list of names.
func stringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, len(list) > 0
	case []any:
		names := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			names = append(names, s)
		}
		return names, len(names) > 0
	default:
		return nil, false
	}
}
