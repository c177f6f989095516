package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zisync-go/zisync/internal/config"
)

// pauseMarkerName is the file whose presence in the data directory means
// the engine should run in background/paused mode (§4.2 device state).
const pauseMarkerName = "paused"

func newPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause [duration]",
		Short: "Pause the sync engine",
		Long: `Pause all refresh and sync activity. An optional duration argument
(e.g., "2h", "30m", "1d") schedules automatic resume after the interval.

Without a duration, the engine stays paused until "zisyncd resume" runs.
If a daemon is running, it receives a SIGHUP to pick up the change.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runPause,
		Args:        cobra.MaximumNArgs(1),
	}
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "resume",
		Short:       "Resume the sync engine after a pause",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runResume,
	}
}

func runPause(cmd *cobra.Command, args []string) error {
	path := pauseMarkerPath()

	var until time.Time
	if len(args) > 0 {
		d, err := parseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[0], err)
		}

		until = time.Now().Add(d)
	}

	if err := writePauseMarker(path, until); err != nil {
		return fmt.Errorf("pausing: %w", err)
	}

	if !until.IsZero() {
		fmt.Printf("Engine paused until %s\n", until.Format(time.RFC3339))
	} else {
		fmt.Println("Engine paused")
	}

	notifyDaemon()

	return nil
}

func runResume(_ *cobra.Command, _ []string) error {
	if err := os.Remove(pauseMarkerPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("resuming: %w", err)
	}

	fmt.Println("Engine resumed")
	notifyDaemon()

	return nil
}

// pauseMarkerPath returns the path to the pause marker file under the data
// directory.
func pauseMarkerPath() string {
	return filepath.Join(config.DefaultDataDir(), pauseMarkerName)
}

// writePauseMarker writes the optional resume deadline to the pause marker
// file. An empty until means "paused indefinitely".
func writePauseMarker(path string, until time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	body := ""
	if !until.IsZero() {
		body = until.Format(time.RFC3339)
	}

	return os.WriteFile(path, []byte(body), 0o600)
}

// notifyDaemon attempts to send SIGHUP to a running zisyncd. Non-fatal: if
// no daemon is running, prints a note instead.
func notifyDaemon() {
	pidPath := filepath.Join(config.DefaultDataDir(), pidFileName)

	if err := sendSIGHUP(pidPath); err != nil {
		fmt.Printf("Note: %v — the change takes effect on next engine start\n", err)
	} else {
		fmt.Println("Notified running engine to reload state")
	}
}

// hoursPerDay is used to convert day durations to hours.
const hoursPerDay = 24

// durationPattern matches durations like "30m", "2h", "1d", "1h30m".
var durationPattern = regexp.MustCompile(`^(\d+d)?(\d+h)?(\d+m)?(\d+s)?$`)

// parseDuration parses a human-friendly duration string. Supports Go duration
// syntax (e.g., "2h30m") plus a "d" suffix for days (converted to 24h).
func parseDuration(s string) (time.Duration, error) {
	// Try standard Go duration first.
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}

		return d, nil
	}

	// Try our extended format with "d" for days.
	if !durationPattern.MatchString(s) || s == "" {
		return 0, fmt.Errorf("expected format like 30m, 2h, 1d, or 1h30m")
	}

	var total time.Duration

	re := regexp.MustCompile(`(\d+)([dhms])`)
	for _, match := range re.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", match[1], err)
		}

		switch match[2] {
		case "d":
			total += time.Duration(n) * hoursPerDay * time.Hour
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		case "s":
			total += time.Duration(n) * time.Second
		}
	}

	if total <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}

	return total, nil
}
