// Package report parses report command flags and prints a stored session.
package report

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/louisbranch/llzcal/internal/calibration/metrics"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
	calreport "github.com/louisbranch/llzcal/internal/calibration/report"
	"github.com/louisbranch/llzcal/internal/calibration/store"
	entrypoint "github.com/louisbranch/llzcal/internal/platform/cmd"
	"github.com/louisbranch/llzcal/internal/services/calibration/storage"
	calibrationsqlite "github.com/louisbranch/llzcal/internal/services/calibration/storage/sqlite"
)

// listPageSize bounds one page of the session listing.
const listPageSize = 50

// Config holds report command configuration.
type Config struct {
	SessionID       string
	DBPath          string  `env:"DB_PATH"           envDefault:"data/calibration.db"`
	Locale          string  `env:"LOCALE"            envDefault:"en-US"`
	SectorHalfWidth float64 `env:"SECTOR_HALF_WIDTH" envDefault:"10"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.SessionID, "session", "", "Session to print (lists sessions when empty)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Number locale (en-US, pt-BR, de)")
	fs.Float64Var(&cfg.SectorHalfWidth, "sector-half-width", cfg.SectorHalfWidth, "DDM sector half-width in degrees")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SectorHalfWidth <= 0 {
		return Config{}, fmt.Errorf("sector half-width must be positive, got %v", cfg.SectorHalfWidth)
	}
	cfg.SessionID = strings.TrimSpace(cfg.SessionID)
	return cfg, nil
}

// Run prints the report to stdout.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceReport, func(ctx context.Context) error {
		return RunWithOutput(ctx, cfg, os.Stdout)
	})
}

// RunWithOutput prints the session report, or the session list when no
// session is selected, to out.
func RunWithOutput(ctx context.Context, cfg Config, out io.Writer) (err error) {
	if _, statErr := os.Stat(cfg.DBPath); statErr != nil {
		return fmt.Errorf("open calibration database %s: %w", cfg.DBPath, statErr)
	}
	sessions, err := calibrationsqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open calibration store: %w", err)
	}
	defer func() {
		if closeErr := sessions.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close calibration store: %w", closeErr)
		}
	}()

	if cfg.SessionID == "" {
		return listSessions(ctx, sessions, out)
	}
	return printSession(ctx, sessions, cfg, out)
}

func listSessions(ctx context.Context, sessions storage.SessionStore, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tStation\tUpdated"); err != nil {
		return err
	}
	token := ""
	for {
		page, err := sessions.ListSessions(ctx, listPageSize, token)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		for _, session := range page.Sessions {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", session.ID, session.Station, session.UpdatedAt.Format("2006-01-02 15:04")); err != nil {
				return err
			}
		}
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	return tw.Flush()
}

func printSession(ctx context.Context, sessions storage.SessionStore, cfg Config, out io.Writer) error {
	session, err := sessions.GetSession(ctx, cfg.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("session %s not found", cfg.SessionID)
		}
		return fmt.Errorf("get session: %w", err)
	}
	st, reset, err := store.Load(session.State)
	if err != nil {
		return fmt.Errorf("load session %s: %w", cfg.SessionID, err)
	}
	if len(reset) > 0 {
		names := make([]string, 0, len(reset))
		for _, slot := range reset {
			names = append(names, slot.String())
		}
		if _, err := fmt.Fprintf(out, "Warning: invalid sets were reset: %s\n\n", strings.Join(names, ", ")); err != nil {
			return err
		}
	}

	writer := calreport.New(calreport.ParseLocale(cfg.Locale))
	if err := writer.WriteMeta(out, st.Meta()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := writer.WriteTables(out, st); err != nil {
		return err
	}
	for _, tx := range reading.Transmitters() {
		present, err := st.Snapshot(tx, reading.StagePresent)
		if err != nil {
			return err
		}
		reference, err := st.Snapshot(tx, reading.StageReference)
		if err != nil {
			return err
		}
		m, err := metrics.Compute(present, reference, metrics.WithSectorHalfWidth(cfg.SectorHalfWidth))
		if err != nil {
			return fmt.Errorf("compute %s metrics: %w", tx, err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := writer.WriteSummary(out, tx, m); err != nil {
			return err
		}
	}
	return nil
}
