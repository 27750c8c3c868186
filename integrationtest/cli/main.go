// Package main provides an interactive CLI for replaying trajectory
// scenarios and for driving a detector by hand, one diagnostic at a time.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rickchristie/remedy"
	"github.com/rickchristie/remedy/integrationtest/trajectory"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

type menuItem struct {
	name        string
	description string
	run         func(
		ctx context.Context,
		w io.Writer,
		config trajectory.RunConfig,
	) error
	isSession bool
}

func run() error {
	// Create log directory and file
	logDir := ".logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create log directory: %w", err)
	}

	logFile, err := os.Create(
		filepath.Join(logDir, "cli_trajectory.log"))
	if err != nil {
		return fmt.Errorf(
			"failed to create log file: %w", err)
	}
	defer logFile.Close()

	// Create readline instance for menu
	rl, err := readline.New(
		colorCyan +
			"Enter selection (or 'q' to quit): " +
			colorReset)
	if err != nil {
		return fmt.Errorf(
			"failed to create readline: %w", err)
	}
	defer rl.Close()

	// Build menu items
	var menuItems []menuItem
	for _, tc := range trajectory.GetTrajectoryTestCases() {
		menuItems = append(menuItems, menuItem{
			name:        tc.Name,
			description: tc.Description,
			run:         tc.Run,
		})
	}
	menuItems = append(menuItems, menuItem{
		name: "Interactive Session",
		description: "Feed diagnostics by hand and watch " +
			"classification and loop detection live",
		isSession: true,
	})

	// Print menu
	fmt.Printf("%s%sRecorded Trajectories:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 22),
		colorReset)

	sessionStart := 0
	for i, item := range menuItems {
		if item.isSession {
			sessionStart = i
			break
		}
		fmt.Printf("  %s%d.%s %s%s%s - %s\n",
			colorCyan, i+1, colorReset,
			colorWhite, item.name, colorReset,
			item.description)
	}

	fmt.Println()
	fmt.Printf("%s%sInteractive:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("-", 12),
		colorReset)
	for i := sessionStart; i < len(menuItems); i++ {
		item := menuItems[i]
		fmt.Printf("  %s%d.%s %s%s%s - %s\n",
			colorCyan, i+1, colorReset,
			colorWhite, item.name, colorReset,
			item.description)
	}
	fmt.Println()

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf(
					"\n%sGoodbye!%s\n",
					colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf(
				"failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			fmt.Printf(
				"%sGoodbye!%s\n",
				colorGreen, colorReset)
			return nil
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 ||
			num > len(menuItems) {
			fmt.Printf(
				"%sInvalid selection. "+
					"Please enter 1-%d.%s\n\n",
				colorRed, len(menuItems), colorReset)
			continue
		}

		ctx, cancel := context.WithCancel(
			context.Background())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(
			sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Printf(
				"\n%sReceived interrupt, "+
					"cancelling...%s\n",
				colorYellow, colorReset)
			cancel()
		}()

		item := menuItems[num-1]
		if item.isSession {
			err = runInteractiveSession(ctx, rl, logFile)
			if err != nil {
				fmt.Fprintf(os.Stderr,
					"%sError: %v%s\n",
					colorRed, err, colorReset)
			}
		} else {
			fmt.Printf("\n%sReplaying: %s%s\n\n",
				colorGreen, item.name, colorReset)
			err = item.run(ctx, os.Stdout,
				trajectory.RunConfig{LogWriter: logFile})
			if err != nil {
				fmt.Fprintf(os.Stderr,
					"%sError: %v%s\n",
					colorRed, err, colorReset)
			}
		}

		signal.Stop(sigCh)
		cancel()

		fmt.Printf("\n%s%s%s\n\n",
			colorDim,
			strings.Repeat("-", 60),
			colorReset)
	}
}

// locatedDiagnostic matches compiler-style "file:line: message" input.
var locatedDiagnostic = regexp.MustCompile(`^(\S+?):(\d+):\s*(.+)$`)

func runInteractiveSession(
	ctx context.Context,
	menuRL *readline.Instance,
	logw io.Writer,
) error {
	fmt.Println()
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 80),
		colorReset)
	fmt.Printf("%s%sINTERACTIVE SESSION%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 80),
		colorReset)
	fmt.Println()
	fmt.Printf(
		"%sType a raw diagnostic to record it. Prefix with "+
			"'file:line:' to attach a location:%s\n",
		colorWhite, colorReset)
	fmt.Printf(
		"%s  main.py:42: SyntaxError: invalid syntax%s\n",
		colorDim, colorReset)
	fmt.Printf(
		"%sCommands: stats, summary, loop, reset [instance], "+
			"help, exit%s\n",
		colorDim, colorReset)
	fmt.Println()

	repeat, err := promptInt(menuRL,
		"Repeat threshold (identical errors before a loop fires)",
		3, 2, 20)
	if err != nil {
		if err == readline.ErrInterrupt {
			return nil
		}
		return err
	}
	window, err := promptInt(menuRL,
		"Window (trailing events the heuristics examine)",
		5, 2, 50)
	if err != nil {
		if err == readline.ErrInterrupt {
			return nil
		}
		return err
	}

	rl, err := readline.New(
		colorCyan + colorBold + "diagnostic> " + colorReset)
	if err != nil {
		return fmt.Errorf(
			"failed to create readline: %w", err)
	}
	defer rl.Close()

	logger := slog.New(slog.NewTextHandler(logw,
		&slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture := trajectory.NewFixture()
	det := remedy.NewDetector(remedy.Config{
		RepeatThreshold: repeat,
		Window:          window,
	}).
		WithClassifier(fixture.Rules).
		WithTemplates(fixture.Templates).
		WithLogger(logger)
	det.Reset()

	fmt.Printf("\n%sDetector ready (threshold=%d, window=%d).%s\n\n",
		colorGreen, repeat, window, colorReset)

	for {
		select {
		case <-ctx.Done():
			fmt.Printf(
				"\n%sSession cancelled.%s\n",
				colorYellow, colorReset)
			return ctx.Err()
		default:
		}

		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf(
					"\n%sSession ended.%s\n",
					colorYellow, colorReset)
				return nil
			}
			return fmt.Errorf(
				"failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(input, " ")
		switch cmd {
		case "exit", "quit":
			fmt.Printf(
				"%sSession ended.%s\n",
				colorGreen, colorReset)
			return nil

		case "help":
			fmt.Printf(
				"%sType a diagnostic to record it, "+
					"optionally as 'file:line: message'.%s\n",
				colorDim, colorReset)
			fmt.Printf(
				"%sCommands: stats, summary, loop, "+
					"reset [instance], help, exit%s\n",
				colorDim, colorReset)

		case "stats":
			s := det.Stats()
			fmt.Printf(
				"%stotal=%d attempts=%d files=%d "+
					"most_common=%s streak=%d%s\n",
				colorDim,
				s.TotalErrors, s.RecoveryAttempts,
				s.DistinctFiles, s.MostCommonType,
				s.ConsecutiveSameType,
				colorReset)

		case "summary":
			fmt.Println(det.Summary())

		case "loop":
			if reason, ok := det.CurrentLoop(); ok {
				fmt.Printf(
					"%sactive loop: %s%s\n",
					colorRed, reason.String(), colorReset)
			} else {
				fmt.Printf(
					"%sno active loop%s\n",
					colorGreen, colorReset)
			}

		case "reset":
			instance := strings.TrimSpace(rest)
			if instance == "" {
				det.Reset()
				fmt.Printf(
					"%sdetector reset%s\n",
					colorGreen, colorReset)
			} else {
				det.ResetForInstance(instance)
				fmt.Printf(
					"%sdetector reset for %s%s\n",
					colorGreen, instance, colorReset)
			}

		default:
			recordDiagnostic(det, input)
		}
	}
}

// recordDiagnostic records one hand-typed diagnostic and prints what the
// detector made of it.
func recordDiagnostic(det *remedy.Detector, input string) {
	event := remedy.ErrorEvent{
		Message: input,
		Action:  "manual",
	}
	if m := locatedDiagnostic.FindStringSubmatch(input); m != nil {
		line, err := strconv.Atoi(m[2])
		if err == nil {
			event.File = m[1]
			event.Line = line
			event.Message = m[3]
		}
	}

	suggestion := det.Record(event)

	history := det.History()
	recorded := history[len(history)-1]
	fmt.Printf("%s#%d recorded as %s",
		colorDim, recorded.Sequence, recorded.Type)
	if loc := recorded.Location(); loc != "" {
		fmt.Printf(" at %s", loc)
	}
	fmt.Printf("%s\n", colorReset)

	if suggestion == nil {
		return
	}

	fmt.Println()
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("-", 60),
		colorReset)
	fmt.Printf("%s%s%s\n",
		colorRed, suggestion.Text, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("-", 60),
		colorReset)
	fmt.Println()
}

// promptInt prompts for an integer value with a default, minimum, and
// maximum.
func promptInt(
	rl *readline.Instance,
	label string,
	defaultVal, minVal, maxVal int,
) (int, error) {
	for {
		oldPrompt := rl.Config.Prompt
		prompt := fmt.Sprintf(
			"%s  %s [%d]: %s",
			colorCyan, label, defaultVal, colorReset)
		rl.SetPrompt(prompt)
		input, err := rl.Readline()
		rl.SetPrompt(oldPrompt)
		if err != nil {
			return 0, err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return defaultVal, nil
		}

		val, err := strconv.Atoi(input)
		if err != nil || val < minVal || val > maxVal {
			fmt.Printf(
				"%sEnter a number between %d "+
					"and %d.%s\n",
				colorRed, minVal, maxVal, colorReset)
			continue
		}
		return val, nil
	}
}
