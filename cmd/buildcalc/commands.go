package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-WorkloadService/internal/calculator"
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

const appVersion = "0.3.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "buildcalc",
		Short:         "Workshop build calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       appVersion,
	}
	cmd.SetVersionTemplate("buildcalc v{{.Version}}\n")

	cmd.AddCommand(
		newDaysCmd(),
		newStartCmd(),
		newPlanCmd(),
	)

	return cmd
}

func newDaysCmd() *cobra.Command {
	var (
		hours float64
		crew  int
	)

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Convert labour hours into crew working days",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := calculator.WorkingDays(hours, crew)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "working days: %s\n", formatNumber(wd))
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Total labour hours")
	cmd.Flags().IntVar(&crew, "crew", domain.DefaultCrewSize, "Crew size")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		dateOut       string
		workingDays   float64
		weekends      bool
		plannedFinish bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Solve the start build date backward from a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := calculator.StartBuildDateString(workingDays, dateOut, weekends, plannedFinish)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "start build: %s\n", start)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateOut, "date-out", "", "Date out (or planned finish) YYYY-MM-DD")
	cmd.Flags().Float64Var(&workingDays, "working-days", 0, "Working days, half-day granularity")
	cmd.Flags().BoolVar(&weekends, "weekends", false, "Count Saturdays and Sundays as working days")
	cmd.Flags().BoolVar(&plannedFinish, "planned-finish", false, "Treat --date-out as the last working day")
	_ = cmd.MarkFlagRequired("date-out")
	_ = cmd.MarkFlagRequired("working-days")
	return cmd
}

// planFile is the input of the plan command. Without a catalog every item
// name counts as active.
type planFile struct {
	DateOut           types.Date        `json:"date_out"`
	PlannedFinishDate *types.Date       `json:"planned_finish_date,omitempty"`
	CrewSize          int               `json:"crew_size"`
	IncludeWeekends   bool              `json:"include_weekends"`
	Catalog           []string          `json:"catalog,omitempty"`
	Items             []domain.LineItem `json:"items"`
}

func newPlanCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Aggregate items from a JSON file and schedule the build",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readPlan(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runPlan(cmd.OutOrStdout(), in)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Plan JSON file, - for stdin")
	return cmd
}

func readPlan(path string, stdin io.Reader) (*planFile, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open plan: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in planFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if in.CrewSize == 0 {
		in.CrewSize = domain.DefaultCrewSize
	}
	return &in, nil
}

func runPlan(w io.Writer, in *planFile) error {
	catalog := domain.NewCatalog(in.Catalog...)
	if len(in.Catalog) == 0 {
		for _, it := range in.Items {
			catalog[it.Name] = struct{}{}
		}
	}

	res := calculator.Calculate(calculator.Input{
		Items:             in.Items,
		Catalog:           catalog,
		DateOut:           in.DateOut,
		PlannedFinishDate: in.PlannedFinishDate,
		CrewSize:          in.CrewSize,
		IncludeWeekends:   in.IncludeWeekends,
	})

	for _, it := range res.Items {
		fmt.Fprintf(w, "%-30s %8s h\n", it.Name, formatNumber(it.Hours))
	}
	fmt.Fprintf(w, "total hours: %s\n", formatNumber(res.TotalHours))
	fmt.Fprintf(w, "working days: %s\n", formatNumber(res.WorkingDays))
	fmt.Fprintf(w, "start build: %s\n", res.StartBuildDate)

	if !res.Valid() {
		for _, e := range res.Errors {
			fmt.Fprintf(w, "error: %v\n", e)
		}
		return calculator.ErrInvalidInput
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
