package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/greenburghlibrary/deskcheck/internal/config"
	"github.com/greenburghlibrary/deskcheck/pkg/clients/libcalclient"
	"github.com/greenburghlibrary/deskcheck/pkg/clients/libstafferclient"
	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
	"github.com/greenburghlibrary/deskcheck/pkg/core/services"
	"github.com/greenburghlibrary/deskcheck/pkg/server"
	"github.com/greenburghlibrary/deskcheck/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	creds    *config.Credentials
	staffing services.StaffingSource
	calendar services.CalendarSource
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deskcheck",
		Short: "Deskcheck CLI - Check desk schedules for conflicts and coverage",
		Long:  `A CLI tool for aggregating staff schedules, flagging double-bookings, and suggesting desk block coverage.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (test, prod, etc.); selects desk_config.<env>.yaml")

	// Add all commands
	rootCmd.AddCommand(conflictsCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(listStaffCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the upstream clients
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Load upstream credentials
	app.logger.Info("Loading upstream credentials")
	app.creds, err = config.LoadCredentials()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	app.logger.Debug("Credentials loaded successfully")

	// Initialize staffing client
	app.logger.Info("Initializing staffing client", zap.String("base_url", app.cfg.LibstafferBaseURL))
	app.staffing = libstafferclient.NewClient(app.ctx, app.cfg.LibstafferBaseURL,
		app.creds.LibstafferClientID, app.creds.LibstafferClientSecret)

	// Initialize calendar client
	app.logger.Info("Initializing calendar client", zap.String("base_url", app.cfg.LibcalBaseURL))
	app.calendar = libcalclient.NewClient(app.ctx, app.cfg.LibcalBaseURL,
		app.creds.LibcalClientID, app.creds.LibcalClientSecret)

	return nil
}

// parseStart reads the shared --start flag, defaulting to today
func parseStart(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("start")
	if raw == "" {
		return time.Now(), nil
	}
	start, err := time.ParseInLocation("2006-01-02", raw, app.cfg.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("start must be formatted YYYY-MM-DD: %w", err)
	}
	return start, nil
}

// Command definitions

func conflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Fetch all staff schedules and flag double-bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseStart(cmd)
			if err != nil {
				return err
			}

			result, err := services.AggregateConflicts(app.ctx, app.staffing, app.calendar, app.cfg, app.logger, start)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\nSchedule check: %s + %d days\n\n", result.From.Format("2006-01-02"), result.Days)

			names := make([]string, 0, len(result.Timelines))
			for name := range result.Timelines {
				names = append(names, name)
			}
			sort.Strings(names)

			conflicts := 0
			for _, name := range names {
				tl := result.Timelines[name]
				fmt.Printf("%s\n", name)
				if len(tl.Intervals) == 0 {
					fmt.Printf("  (nothing scheduled)\n\n")
					continue
				}
				for i, iv := range tl.Intervals {
					marker := " "
					if tl.HasConflict(i) {
						marker = "⚠"
						conflicts++
					}
					fmt.Printf("  %s %-12s %s – %s  %s\n",
						marker,
						iv.Kind,
						iv.Start.Format("Mon Jan 02 3:04 PM"),
						iv.End.Format("3:04 PM"),
						iv.Label,
					)
				}
				fmt.Println()
			}

			if conflicts > 0 {
				fmt.Printf("⚠  %d conflicting intervals found\n", conflicts)
			} else {
				fmt.Println("✓ No conflicts found")
			}
			if result.SkippedRecords > 0 {
				fmt.Printf("(%d malformed records skipped)\n", result.SkippedRecords)
			}

			return nil
		},
	}

	cmd.Flags().String("start", "", "Window start date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest eligible staff for each desk block in the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseStart(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")

			result, err := services.SuggestAssignments(app.ctx, app.staffing, app.calendar, app.cfg, app.logger, start, days)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\nCoverage suggestions: %s + %d days\n\n", result.From.Format("2006-01-02"), result.Days)

			for _, suggestion := range result.Suggestions {
				block := suggestion.Block
				fmt.Printf("%s %s  %s – %s\n",
					block.Weekday,
					block.Date.Format("2006-01-02"),
					block.Start().Format("3:04 PM"),
					block.End().Format("3:04 PM"),
				)

				if len(suggestion.AlreadyScheduled) > 0 {
					covered := make([]string, 0, len(suggestion.AlreadyScheduled))
					for _, person := range suggestion.AlreadyScheduled {
						covered = append(covered, person.Name)
					}
					fmt.Printf("  Already covered by: %s\n", strings.Join(covered, ", "))
				}

				for _, group := range suggestion.Groups {
					if group.GroupName == model.NoAvailabilityGroup {
						fmt.Printf("  ✗ %s\n", model.NoAvailabilityGroup)
						continue
					}
					fmt.Printf("  %s:\n", group.GroupName)
					for _, candidate := range group.Candidates {
						note := ""
						if candidate.AdjacencyNote != "" {
							note = fmt.Sprintf("  [%s]", candidate.AdjacencyNote)
						}
						fmt.Printf("    - %s (week: %d, day: %d)%s\n",
							candidate.Person.Name,
							candidate.WeeklyCount,
							candidate.DailyCount,
							note,
						)
					}
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().String("start", "", "Window start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Int("days", 0, "Window length in days (defaults to configured window)")

	return cmd
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Compare assignment strategies over the upcoming blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseStart(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")
			rawStrategies, _ := cmd.Flags().GetStringSlice("strategy")

			strategies := make([]model.Strategy, 0, len(rawStrategies))
			for _, raw := range rawStrategies {
				strategies = append(strategies, model.Strategy(raw))
			}

			result, err := services.SimulateAssignments(app.ctx, app.staffing, app.calendar, app.cfg, app.logger, strategies, start, days)
			if err != nil {
				return err
			}

			// Display results, one section per strategy in presentation order
			fmt.Printf("\nStrategy comparison: %s + %d days\n\n", result.From.Format("2006-01-02"), result.Days)

			for _, strategy := range model.Strategies() {
				run, ok := result.Assignments[strategy]
				if !ok {
					continue
				}

				filled := 0
				fmt.Printf("── %s ──\n", strategy)
				for _, assignment := range run {
					block := assignment.Block
					assignee := "(unfilled)"
					if assignment.Assignee != nil {
						assignee = assignment.Assignee.Name
						filled++
					}
					fmt.Printf("  %s %s  %s – %s  %s\n",
						block.Weekday,
						block.Date.Format("2006-01-02"),
						block.Start().Format("3:04 PM"),
						block.End().Format("3:04 PM"),
						assignee,
					)
				}
				fmt.Printf("  %d/%d blocks filled\n\n", filled, len(run))
			}

			return nil
		},
	}

	cmd.Flags().String("start", "", "Window start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Int("days", 0, "Window length in days (defaults to configured comparison window)")
	cmd.Flags().StringSlice("strategy", nil, "Strategies to run (rotation, random, roundrobin; defaults to all)")

	return cmd
}

func listStaffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listStaff",
		Short: "List configured staff and their group memberships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger.Info("listStaff command")

			groupsByMember := make(map[int][]string)
			for _, group := range app.cfg.Groups {
				for _, id := range group.Members {
					groupsByMember[id] = append(groupsByMember[id], group.Name)
				}
			}

			fmt.Printf("\nFound %d staff members:\n\n", len(app.cfg.Staff))
			for _, member := range app.cfg.Staff {
				groupInfo := ""
				if groups := groupsByMember[member.ID]; len(groups) > 0 {
					groupInfo = fmt.Sprintf(" [%s]", strings.Join(groups, ", "))
				}
				fmt.Printf("- %s (%d)%s\n", member.Name, member.ID, groupInfo)
			}
			fmt.Println()

			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")

			srv := server.New(app.cfg, app.staffing, app.calendar, app.logger)
			return srv.Run(port)
		},
	}

	cmd.Flags().String("port", "8000", "Port to listen on")

	return cmd
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-authenticating.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				// Parse command
				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				// Handle exit
				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				// Handle help
				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				// Execute command via Cobra
				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				// Get non-flag args after parsing flags
				cmdArgs = targetCmd.Flags().Args()

				// Validate args
				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				// Execute the RunE function directly
				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
					}
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	// Get command names and sort them
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	// Print each command with its short description
	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}
