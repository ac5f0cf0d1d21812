package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/urfave/cli.v1"

	"casc/internal/diag"
	"casc/internal/history"
	"casc/internal/lexer"
	"casc/internal/log"
	"casc/internal/object"
	"casc/internal/repl"
	"casc/internal/runtime"
	"casc/internal/text"
	"casc/internal/util"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	config   util.Configuration
	closeLog = func() {}
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file (default $CASC_HOME/config.toml when present)",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error, none",
	}
	logFileFlag = cli.StringFlag{
		Name:  "log-file",
		Usage: "Log file path (if not set, logs to stderr)",
	}
	colorFlag = cli.StringFlag{
		Name:  "color",
		Usage: "Colour diagnostics: auto, always, never",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "casc"
	app.Usage = "bilingual script lexer and bound program evaluator"
	app.Version = Version
	app.Flags = []cli.Flag{configFlag, logLevelFlag, logFileFlag, colorFlag}
	app.Before = setup
	app.After = func(*cli.Context) error {
		closeLog()
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "lex",
			Usage:     "Print the tokens of a source file",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "table", Usage: "print tokens as a table"},
				cli.BoolFlag{Name: "trivia", Usage: "include whitespace tokens"},
			},
			Action: lexFile,
		},
		{
			Name:      "run",
			Usage:     "Evaluate bound program files in one session",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "debug-bound", Usage: "write each bound program to FILE.bound.txt"},
			},
			Action: runFiles,
		},
		{
			Name:   "repl",
			Usage:  "Start the interactive console",
			Action: startRepl,
		},
		{
			Name:  "history",
			Usage: "List recorded evaluations",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "limit", Value: 20, Usage: "number of entries to show (0 for all)"},
			},
			Action: listHistory,
		},
		{
			Name:  "version",
			Usage: "Display version information",
			Action: func(*cli.Context) error {
				fmt.Printf("casc version 'v%s' %s %s\n", Version, BuildDate, Commit)
				return nil
			},
		},
	}
	return app
}

// setup loads the configuration, applies flag overrides and installs logging.
func setup(c *cli.Context) error {
	config = util.DefaultConfiguration()
	config.Version, config.BuildDate, config.Commit = Version, BuildDate, Commit

	path := c.GlobalString(configFlag.Name)
	if path == "" {
		if candidate := filepath.Join(util.Home(), "config.toml"); fileExists(candidate) {
			path = candidate
		}
	}
	if path != "" {
		if err := util.LoadConfiguration(path, &config); err != nil {
			return err
		}
	}

	if c.GlobalIsSet(logLevelFlag.Name) {
		config.Log.Level = c.GlobalString(logLevelFlag.Name)
	}
	if c.GlobalIsSet(logFileFlag.Name) {
		config.Log.File = c.GlobalString(logFileFlag.Name)
	}
	if c.GlobalIsSet(colorFlag.Name) {
		config.Diagnostics.Color = c.GlobalString(colorFlag.Name)
	}
	if _, err := diag.ParseColorMode(config.Diagnostics.Color); err != nil {
		return err
	}

	closer, err := log.Init(log.Options{Level: config.Log.Level, File: config.Log.File})
	if err != nil {
		return err
	}
	closeLog = closer
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func colorMode() diag.ColorMode {
	mode, _ := diag.ParseColorMode(config.Diagnostics.Color)
	return mode
}

func lexFile(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: casc lex FILE", 2)
	}
	path := c.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	src := text.NewFile(path, string(data))
	l := lexer.New(src)
	tokens := l.All()
	if !c.Bool("trivia") {
		tokens = repl.WithoutTrivia(tokens)
	}
	repl.WriteTokens(os.Stdout, tokens, c.Bool("table"), diag.UseColor(os.Stdout, colorMode()))

	if !l.Diagnostics().Empty() {
		diag.NewRenderer(os.Stderr, colorMode()).Render(src, l.Diagnostics())
		return cli.NewExitError("", 1)
	}
	return nil
}

// openHistory returns nil when history is disabled.
func openHistory(ctx context.Context, force bool) (*history.Store, error) {
	if !config.History.Enabled && !force {
		return nil, nil
	}
	if config.History.Driver == history.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(config.History.DSN), 0o755); err != nil {
			return nil, err
		}
	}
	store, err := history.Open(config.History.Driver, config.History.DSN)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func newRuntime(ctx context.Context) (*runtime.Runtime, func(), error) {
	rt := runtime.NewRuntime(config, os.Stdin, os.Stdout)
	store, err := openHistory(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return rt, func() {}, nil
	}
	rt.History = store
	return rt, func() { store.Close() }, nil
}

func runFiles(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.NewExitError("usage: casc run FILE...", 2)
	}
	config.DebugBound = c.Bool("debug-bound")

	ctx := context.Background()
	rt, done, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer done()

	var result object.Object
	for _, path := range c.Args() {
		result, err = rt.RunFile(ctx, path)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	if result != nil && result.Type() != object.NIL_OBJ {
		fmt.Println(result.Inspect())
	}
	return nil
}

func startRepl(c *cli.Context) error {
	ctx := context.Background()
	rt, done, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer done()

	historyPath := ""
	if err := os.MkdirAll(util.Home(), 0o755); err == nil {
		historyPath = filepath.Join(util.Home(), "repl_history")
	}
	fmt.Println("casc console. Type :help for commands.")
	return repl.Start(ctx, repl.NewSession(rt, os.Stdout, colorMode()), historyPath)
}

func listHistory(c *cli.Context) error {
	ctx := context.Background()
	store, err := openHistory(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, c.Int("limit"))
	if err != nil {
		return err
	}
	repl.WriteHistory(os.Stdout, entries)
	return nil
}
