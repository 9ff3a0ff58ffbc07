// Command snowsim runs one Snow-family consensus simulation from a YAML
// scenario file and writes the resulting table to disk.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/snowfam/simulator/output"
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/runner"
	"github.com/snowfam/simulator/settings"
	"github.com/snowfam/simulator/util/logging"
)

// errParquetUnsupported is returned when --format=parquet is requested.
// Parquet is listed as a candidate output format upstream, but no
// parquet-capable library appears anywhere this implementation draws its
// dependencies from.
var errParquetUnsupported = errors.New("parquet output is not supported by this build; use json or csv")

var mainHelpOptions = kong.HelpOptions{
	Compact: true,
	Summary: true,
}

var mainDefaultVars = kong.Vars{
	"log":       "",
	"log_level": "info",
	"format":    "json",
}

type mainFlags struct {
	Scenario string `name:"scenario" help:"scenario YAML file" type:"existingfile" required:""`
	Out      string `help:"output file path; defaults to stdout" default:""`
	Format   string `help:"output format: json or csv" default:"${format}" enum:"json,csv,parquet"`
	Long     bool   `help:"use long (tidy, one record per node/round) JSON records instead of the wide table"`
	Log      string `help:"log file path (default: stderr)" default:"${log}"`
	LogLevel string `help:"log level" default:"${log_level}"`
	Verbose  bool   `help:"verbose logging"`
}

func main() {
	flags := &mainFlags{}
	ctx := kong.Parse(
		flags,
		kong.Name("snowsim"),
		kong.Description("Snow-family Byzantine consensus simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(mainHelpOptions),
		mainDefaultVars,
	)

	if flags.Format == "parquet" {
		ctx.FatalIfErrorf(errParquetUnsupported)
	}

	log, err := setupLogging(flags)
	ctx.FatalIfErrorf(err)

	log.Log().Info().Str("scenario", flags.Scenario).Msg("loading scenario")

	scenario, err := settings.Load(flags.Scenario, log)
	ctx.FatalIfErrorf(err)

	table := runScenario(scenario, log)

	ctx.FatalIfErrorf(writeTable(flags, table))
}

func runScenario(s *settings.Scenario, log *logging.Logging) *output.Table {
	r := rng.New(*s.Seed)

	var backend runner.BackendConfig
	switch s.ConsensusSettings.Kind {
	case settings.ConsensusClaro:
		backend = runner.BackendConfig{Kind: runner.ClaroBackend, Claro: s.ConsensusSettings.ClaroConfiguration()}
	default:
		backend = runner.BackendConfig{Kind: runner.SnowballBackend, Snowball: s.ConsensusSettings.SnowballConfiguration()}
	}

	roleWeights := runner.RoleWeights{
		s.ByzantineSettings.Distribution.Honest,
		s.ByzantineSettings.Distribution.Infantile,
		s.ByzantineSettings.Distribution.Random,
		s.ByzantineSettings.Distribution.Omniscient,
	}
	opinionWeights := runner.OpinionWeights{s.Distribution.Yes, s.Distribution.No, s.Distribution.None}

	pop := runner.BuildPopulation(s.ByzantineSettings.TotalSize, roleWeights, opinionWeights, backend, r)
	run := runner.New(pop, s.SimulationStyle.Style(), r, s.Modifiers(), s.Wardens(), log)
	return run.Run()
}

func writeTable(flags *mainFlags, table *output.Table) error {
	w := os.Stdout
	if flags.Out != "" {
		f, err := os.Create(flags.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		return writeWith(flags, f, table)
	}
	return writeWith(flags, w, table)
}

func writeWith(flags *mainFlags, w *os.File, table *output.Table) error {
	var writer output.Writer
	switch flags.Format {
	case "csv":
		writer = output.CSVWriter{}
	default:
		writer = output.JSONWriter{Long: flags.Long}
	}
	return writer.WriteTable(w, table)
}

func setupLogging(flags *mainFlags) (*logging.Logging, error) {
	out := os.Stderr
	var f *os.File
	if flags.Log != "" {
		var err error
		f, err = os.OpenFile(flags.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	}

	level := zerolog.InfoLevel
	if flags.Verbose {
		level = zerolog.DebugLevel
	} else if l, err := zerolog.ParseLevel(flags.LogLevel); err == nil {
		level = l
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(level).With().Timestamp().Logger()
	return logging.New().SetLogger(zl), nil
}
