package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/russross/examtt/internal/config"
)

var (
	v          = config.New()
	configFile string
)

func main() {
	cmdExamtt := &cobra.Command{
		Use:   "examtt",
		Short: "Exam timetable generator",
		Long: "A tool to build exam timetables with no student sitting two exams at once\n" +
			"while keeping each student's exams spread out",
		SilenceUsage: true,
	}
	flags := cmdExamtt.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.Int64P("seed", "s", 1, "random seed for the instance and the search")
	flags.String("prefix", "timetable", "file name prefix (.sol suffix will be added)")
	flags.String("env", config.EnvDevelopment, "development or production logging")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.Int("exams", 100, "number of exams in the generated instance")
	flags.Int("slots", 20, "number of timeslots")
	flags.Int("students", 400, "number of students in the generated instance")
	flags.Int("per-student", 3, "exams each generated student sits")
	flags.Int("max-restarts", 1000, "greedy construction restarts before giving up")
	bind(v, map[string]string{
		"seed":                 "seed",
		"prefix":               "prefix",
		"env":                  "env",
		"log.level":            "log-level",
		"log.format":           "log-format",
		"instance.exams":       "exams",
		"instance.slots":       "slots",
		"instance.students":    "students",
		"instance.per_student": "per-student",
		"max_restarts":         "max-restarts",
	}, flags.Lookup)

	cmdGen := &cobra.Command{
		Use:   "gen",
		Short: "generate a timetable for the instance",
		Args:  cobra.NoArgs,
		RunE:  CommandGen,
	}
	cmdGen.Flags().IntP("workers", "w", 4, "number of concurrent workers")
	cmdGen.Flags().IntP("samples", "n", 16, "number of timetables to construct, keeping the best")
	bind(v, map[string]string{
		"workers": "workers",
		"samples": "samples",
	}, cmdGen.Flags().Lookup)
	cmdExamtt.AddCommand(cmdGen)

	cmdCheck := &cobra.Command{
		Use:   "check",
		Short: "check and display the current timetable",
		Args:  cobra.NoArgs,
		RunE:  CommandCheck,
	}
	cmdExamtt.AddCommand(cmdCheck)

	cmdOps := &cobra.Command{
		Use:   "ops",
		Short: "improve the current timetable with repeated operator rounds",
		Args:  cobra.NoArgs,
		RunE:  CommandOps,
	}
	cmdOps.Flags().StringP("operator", "o", "mutate", "operator to apply: mutate, swap, disrupt or crossover")
	cmdOps.Flags().IntP("rounds", "r", 1000, "number of rounds")
	cmdOps.Flags().Float64P("fraction", "f", 0.2, "fraction of slots exchanged by crossover")
	bind(v, map[string]string{
		"ops.operator": "operator",
		"ops.rounds":   "rounds",
		"ops.fraction": "fraction",
	}, cmdOps.Flags().Lookup)
	cmdExamtt.AddCommand(cmdOps)

	if err := cmdExamtt.Execute(); err != nil {
		os.Exit(1)
	}
}

// bind ties config keys to the flags that override them.
func bind(v *viper.Viper, keys map[string]string, lookup func(string) *pflag.Flag) {
	for key, name := range keys {
		if err := v.BindPFlag(key, lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}
