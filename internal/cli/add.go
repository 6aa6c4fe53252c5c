package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/bulkurl/internal/annex"
	"github.com/vvka-141/bulkurl/internal/config"
	"github.com/vvka-141/bulkurl/internal/logging"
	"github.com/vvka-141/bulkurl/internal/progress"
	"github.com/vvka-141/bulkurl/internal/services"
	"github.com/vvka-141/bulkurl/internal/ui"
	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

var addCmd = &cobra.Command{
	Use:   "add <url-file>",
	Short: "Add files from a list of URLs to a dataset",
	Long: `Add reads a record source and adds one file per row to the dataset,
registering each row's URL as the file's content.

The add command:
1. Reads the URL file (CSV with a header row, JSON list of objects, or a
   SQL query file for --input-type postgres)
2. Resolves the URL, file name, and metadata templates against every row
3. Verifies the resolved file names are pairwise distinct
4. Creates any subdatasets named by "//" boundaries in the file names
5. Registers the URLs with git-annex and attaches the metadata

Arguments:
  url-file    File containing the records. With --input-type postgres, a
              file containing the SQL query to run against --connection.

Configuration precedence: flags > environment (BULKURL_*, loaded from a
.env file when present) > bulkurl.yaml in the dataset directory.

Examples:
  # avatars.csv: who,ext,link
  bulkurl add avatars.csv --url-format '{link}' \
    --filename-format '{who}.{ext}' --fast

  # Place files in an "avatars" subdataset
  bulkurl add avatars.csv --url-format '{link}' \
    --filename-format 'avatars//{who}.{ext}'

  # Disambiguate repeated names and attach explicit metadata
  bulkurl add avatars.csv --url-format '{link}' \
    --filename-format '{who}-{_repindex}.{ext}' --meta 'handle={who}'

  # Report the planned work without touching the dataset
  bulkurl add avatars.csv --url-format '{link}' \
    --filename-format '{who}.{ext}' --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

type addFlagValues struct {
	dataset         string
	inputType       string
	urlFormat       string
	filenameFormat  string
	meta            []string
	excludeAutometa string
	missingValue    string
	ifExists        string
	message         string
	connection      string
	dryRun          bool
	fast            bool
	force           bool
}

var addFlags addFlagValues

func init() {
	rootCmd.AddCommand(addCmd)
	registerAddFlags(addCmd)
}

func registerAddFlags(addCmd *cobra.Command) {
	addCmd.Flags().StringVarP(&addFlags.dataset, "dataset", "d", ".",
		"Dataset directory that receives the files")
	addCmd.Flags().StringVarP(&addFlags.inputType, "input-type", "t", bulkurl.InputTypeExt,
		"How to read the url file: ext (decide by extension), csv, json, or postgres")
	addCmd.Flags().StringVar(&addFlags.urlFormat, "url-format", bulkurl.DefaultURLFormat,
		"Template resolving each row's URL, e.g. '{link}' or '{0}'")
	addCmd.Flags().StringVar(&addFlags.filenameFormat, "filename-format", bulkurl.DefaultFilenameFormat,
		"Template resolving each row's destination file name.\n"+
			"\"//\" marks subdataset boundaries; {_repindex} disambiguates repeats;\n"+
			"{_url_hostname}, {_urlN}, and {_url_basename} expose URL parts")
	addCmd.Flags().StringArrayVar(&addFlags.meta, "meta", nil,
		"Metadata template in 'field={placeholder}' form (repeatable)")
	addCmd.Flags().StringVar(&addFlags.excludeAutometa, "exclude-autometa", "",
		"Regexp excluding source fields from automatic metadata.\n"+
			"'*' or an empty value disables automatic metadata entirely")
	addCmd.Flags().StringVar(&addFlags.missingValue, "missing-value", "",
		"Substitute this value for empty fields during resolution")
	addCmd.Flags().StringVar(&addFlags.ifExists, "ifexists", "",
		"Policy for existing destinations: skip or overwrite.\n"+
			"By default the store itself arbitrates conflicting content")
	addCmd.Flags().StringVarP(&addFlags.message, "message", "m", "",
		"Commit message for the additions")
	addCmd.Flags().StringVar(&addFlags.connection, "connection", "",
		"PostgreSQL connection string for --input-type postgres.\n"+
			"Alternative: BULKURL_CONNECTION_STRING or DATABASE_URL environment variable")
	addCmd.Flags().BoolVarP(&addFlags.dryRun, "dry-run", "n", false,
		"Report planned subdatasets, downloads, and metadata; mutate nothing")
	addCmd.Flags().BoolVar(&addFlags.fast, "fast", false,
		"Register the URLs without downloading their content")
	addCmd.Flags().BoolVar(&addFlags.force, "force", false,
		"Bypass interactive approval for --ifexists overwrite")
}

func runAdd(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	// Optional .env next to the working directory; absence is fine.
	_ = godotenv.Load()

	cfg, err := resolveAddConfig(cmd, args[0], verbose)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var approver bulkurl.Approver
	if cfg.Force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	storeFactory := func(datasetPath string) (bulkurl.Store, error) {
		if err := os.MkdirAll(datasetPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create dataset directory: %w", err)
		}
		return annex.NewStore(logger), nil
	}

	ingester := services.NewIngester(storeFactory, approver, logger)

	plan, err := ingester.Plan(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.DryRun {
		ingester.Report(cfg, plan)
		return nil
	}

	mode := progress.DetectMode()
	metaTotal := 0
	for _, d := range plan.Descriptors {
		if len(d.MetaArgs) > 0 {
			metaTotal++
		}
	}
	urlReporter := progress.NewReporter("Adding URLs", len(plan.Descriptors), mode, os.Stdout, logger)
	metaReporter := progress.NewReporter("Adding metadata", metaTotal, mode, os.Stdout, logger)
	observe := func(o bulkurl.Outcome) {
		if o.Action == "addurl" {
			urlReporter.Observe(o)
		} else {
			metaReporter.Observe(o)
		}
	}

	outcomes, err := ingester.Apply(ctx, cfg, plan, observe)
	urlReporter.Finish()
	metaReporter.Finish()
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Status == bulkurl.StatusError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d operation(s) failed", failed, len(outcomes))
	}
	return nil
}

// resolveAddConfig layers flags over environment variables over the
// project config over defaults.
func resolveAddConfig(cmd *cobra.Command, urlFile string, verbose bool) (bulkurl.IngestConfig, error) {
	projectCfg, err := config.Load(addFlags.dataset)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return bulkurl.IngestConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
		}
		projectCfg = &config.ProjectConfig{}
	}

	pick := func(flagName, flagVal, envKey, cfgVal, def string) string {
		if cmd.Flags().Changed(flagName) {
			return flagVal
		}
		if envKey != "" {
			if v := os.Getenv(envKey); v != "" {
				return v
			}
		}
		if cfgVal != "" {
			return cfgVal
		}
		return def
	}

	cfg := bulkurl.IngestConfig{
		URLFile:     urlFile,
		DatasetPath: addFlags.dataset,
		InputType: pick("input-type", addFlags.inputType, "BULKURL_INPUT_TYPE",
			projectCfg.InputType, bulkurl.InputTypeExt),
		URLFormat: pick("url-format", addFlags.urlFormat, "",
			projectCfg.URLFormat, bulkurl.DefaultURLFormat),
		FilenameFormat: pick("filename-format", addFlags.filenameFormat, "",
			projectCfg.FilenameFormat, bulkurl.DefaultFilenameFormat),
		Meta:         addFlags.meta,
		MissingValue: pick("missing-value", addFlags.missingValue, "", projectCfg.MissingValue, ""),
		IfExists:     pick("ifexists", addFlags.ifExists, "", projectCfg.IfExists, bulkurl.IfExistsDefault),
		Message:      pick("message", addFlags.message, "", projectCfg.Message, ""),
		DryRun:       addFlags.dryRun,
		Fast:         addFlags.fast,
		Force:        addFlags.force,
		Verbose:      verbose,
	}

	if len(cfg.Meta) == 0 {
		cfg.Meta = projectCfg.Meta
	}

	switch {
	case cmd.Flags().Changed("exclude-autometa"):
		cfg.ExcludeAutometa = addFlags.excludeAutometa
		cfg.ExcludeAutometaSet = true
	case projectCfg.ExcludeAutometa != nil:
		cfg.ExcludeAutometa = *projectCfg.ExcludeAutometa
		cfg.ExcludeAutometaSet = true
	}

	cfg.Connection = pick("connection", addFlags.connection, "BULKURL_CONNECTION_STRING",
		projectCfg.Connection, "")
	if cfg.Connection == "" {
		cfg.Connection = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}
