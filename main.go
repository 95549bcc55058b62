package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kastheco/doist/config"
	sentrypkg "github.com/kastheco/doist/internal/sentry"
	"github.com/kastheco/doist/lists"
	"github.com/kastheco/doist/log"
	"github.com/kastheco/doist/prompt"
	"github.com/kastheco/doist/tasks"
	"github.com/kastheco/doist/todoist"
)

var (
	version = "0.3.0"

	projectFlag string
	filterFlag  string
	sortFlag    string
	labelsFlag  []string
	verboseFlag bool

	rootCmd = &cobra.Command{
		Use:          "doist",
		Short:        "doist - A Todoist client for batch-processing tasks from the command line.",
		SilenceUsage: true,
	}
)

// runContext bundles what every batch subcommand needs.
type runContext struct {
	cfg    *config.Config
	client *todoist.Client
	pr     prompt.Prompter
	flag   lists.Flag
	sort   tasks.SortOrder
}

// setup loads config, initializes logging and telemetry, and resolves the
// selector and sort flags. The returned teardown must be deferred.
func setup(cmd *cobra.Command, needFlag bool) (*runContext, func(), error) {
	cfg := config.LoadConfig()

	teardown := func() {
		sentrypkg.Flush()
		log.Close()
	}
	if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
		// Non-fatal: sentry failure should not prevent startup
		_ = err
	}
	log.Initialize(verboseFlag || cfg.Verbose)
	sentrypkg.SetContext(cmd.Name())

	rc := &runContext{
		cfg:    cfg,
		client: todoist.NewClient(),
		pr:     prompt.New(),
	}

	sort, err := tasks.ParseSortOrder(sortFlag)
	if err != nil {
		teardown()
		return nil, nil, err
	}
	rc.sort = sort

	if needFlag {
		rc.flag, err = resolveFlag(cfg)
		if err != nil {
			teardown()
			return nil, nil, err
		}
	}
	return rc, teardown, nil
}

// resolveFlag builds the selector from the --project/--filter flags,
// requiring exactly one of them.
func resolveFlag(cfg *config.Config) (lists.Flag, error) {
	switch {
	case projectFlag != "" && filterFlag != "":
		return nil, fmt.Errorf("--project and --filter are mutually exclusive")
	case projectFlag != "":
		project, err := cfg.ProjectByName(projectFlag)
		if err != nil {
			return nil, err
		}
		return lists.ProjectFlag{Project: project}, nil
	case filterFlag != "":
		return lists.FilterFlag{Query: filterFlag}, nil
	default:
		return nil, fmt.Errorf("one of --project or --filter is required")
	}
}

func batchCommand(use, short string, run func(*runContext) (string, error)) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, teardown, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer teardown()
			defer sentrypkg.RecoverPanic()

			result, err := run(rc)
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}
	c.Flags().StringVarP(&projectFlag, "project", "p", "", "Select tasks from this project")
	c.Flags().StringVarP(&filterFlag, "filter", "f", "", "Select tasks matching this filter query")
	c.Flags().StringVarP(&sortFlag, "sort", "s", "value", "Sort order: value, datetime or priority")
	return c
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Mirror log output to stderr")

	viewCmd := batchCommand("view", "List tasks for a project or filter",
		func(rc *runContext) (string, error) {
			return lists.View(rc.client, rc.cfg, rc.flag, rc.sort)
		})

	processCmd := batchCommand("process", "Complete tasks one at a time",
		func(rc *runContext) (string, error) {
			return lists.Process(rc.client, rc.cfg, rc.pr, rc.flag, rc.sort)
		})

	prioritizeCmd := batchCommand("prioritize", "Assign priorities to unprioritized tasks",
		func(rc *runContext) (string, error) {
			return lists.Prioritize(rc.client, rc.cfg, rc.pr, rc.flag, rc.sort)
		})

	timeboxCmd := batchCommand("timebox", "Assign durations to tasks without one",
		func(rc *runContext) (string, error) {
			return lists.Timebox(rc.client, rc.cfg, rc.pr, rc.flag, rc.sort)
		})

	labelCmd := batchCommand("label", "Apply labels to tasks",
		func(rc *runContext) (string, error) {
			if len(labelsFlag) == 0 {
				return "", fmt.Errorf("at least one --label is required")
			}
			return lists.Label(rc.client, rc.cfg, rc.pr, rc.flag, labelsFlag, rc.sort)
		})
	labelCmd.Flags().StringSliceVarP(&labelsFlag, "label", "l", nil,
		"Label to apply (repeatable; with several, each task prompts for one)")

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Quick-create one task per non-empty line of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, teardown, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer teardown()

			result, err := lists.Import(rc.client, rc.cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the cached project list used to resolve --project",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, teardown, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer teardown()

			ps, err := rc.client.Projects(rc.cfg)
			if err != nil {
				return err
			}
			rc.cfg.Projects = ps
			if err := rc.cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("Synced %d project(s)\n", len(ps))
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of doist",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("doist version %s\n", version)
		},
	}

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(prioritizeCmd)
	rootCmd.AddCommand(timeboxCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
