package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/warehouse/internal/scheduler"
	"github.com/wonny/warehouse/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Start the scheduler or run its jobs by hand.

Subcommands:
  start   - start the scheduler
  list    - registered jobs
  run     - run one job now
  status  - job statistics

Example:
  go run ./cmd/warehouse scheduler start
  go run ./cmd/warehouse scheduler run stock_reconcile`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Start the scheduler with every job registered.

Registered jobs:
- stock_reconcile: every 10 minutes
- forecast_run: daily at 07:00

Failed runs are not retried; they wait for the next tick.
Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Warehouse Scheduler ===")

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	stats := sched.GetJobStats()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %-16s %s\n", jobName, stats[jobName].Schedule)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.RunJob(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("job %s failed: %s", jobName, result.Error)
	}

	PrintSuccess(fmt.Sprintf("Job %s completed in %s", jobName, result.Duration))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	// history lives in the running scheduler; a fresh one only knows schedules
	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, jobName := range sched.GetAllJobs() {
		stat := stats[jobName]
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.NextRun != nil {
			fmt.Printf("   Next Run: %s\n", stat.NextRun.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*app, *scheduler.Scheduler, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log, scheduler.DefaultOptions())

	for _, job := range []scheduler.Job{
		jobs.NewStockReconcileJob(a.reconciler, a.log),
		jobs.NewForecastJob(a.orchestrator, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, err
		}
	}

	return a, sched, nil
}
