// Command pickem-admin runs operator tasks against the configured store.
//
//	pickem-admin refresh [-start YYYYMMDD -end YYYYMMDD]
//	pickem-admin result -game ID -home N -away N [-provisional]
//	pickem-admin leaderboard
//	pickem-admin award -user NAME
//	pickem-admin users
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"cfb-pickem/app"
	"cfb-pickem/config"
	"cfb-pickem/logging"
	"cfb-pickem/services"
)

const usage = `usage: pickem-admin <command> [flags]

commands:
  refresh      fetch the scoreboard and apply it (defaults to the coming weekend)
  result       record a game result
  leaderboard  print the standings
  award        re-evaluate badges for one user
  users        list participants and whether they registered
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		logging.Fatalf("Startup failed: %v", err)
	}
	defer a.Close()

	if err := run(ctx, a, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pickem-admin: %v\n", err)
		cancel()
		a.Close()
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, a *app.App, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "refresh":
		fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
		start := fs.String("start", "", "first day, YYYYMMDD")
		end := fs.String("end", "", "last day, YYYYMMDD (defaults to start)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var (
			report *services.RefreshReport
			err    error
		)
		if *start == "" {
			report, err = a.Loader.RefreshWeek(ctx)
		} else {
			rng, perr := parseRange(*start, *end)
			if perr != nil {
				return perr
			}
			report, err = a.Loader.Refresh(ctx, rng)
		}
		if err != nil {
			return err
		}
		return printJSON(out, report)

	case "result":
		fs := flag.NewFlagSet("result", flag.ContinueOnError)
		game := fs.String("game", "", "game id")
		home := fs.Int("home", -1, "home score")
		away := fs.Int("away", -1, "away score")
		provisional := fs.Bool("provisional", false, "record without finalizing")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *game == "" || *home < 0 || *away < 0 {
			return fmt.Errorf("%w: result needs -game, -home and -away", errUsage)
		}
		report, err := a.Loader.ApplyResult(ctx, *game, *home, *away, !*provisional)
		if err != nil {
			return err
		}
		return printJSON(out, report)

	case "leaderboard":
		entries, err := a.Board.Leaderboard(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%3d  %-24s %4d pts  (%d scored)\n", e.Rank, e.User, e.Points, e.Scored)
		}
		return nil

	case "award":
		fs := flag.NewFlagSet("award", flag.ContinueOnError)
		user := fs.String("user", "", "username")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *user == "" {
			return fmt.Errorf("%w: award needs -user", errUsage)
		}
		badges, err := a.Board.AwardForUser(ctx, *user, a.Clock())
		if err != nil {
			return err
		}
		return printJSON(out, map[string]interface{}{"user": *user, "awarded": badges})

	case "users":
		users, err := a.Store.Users.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			state := "predictions only"
			if u.HasPassword() {
				state = "registered"
			}
			fmt.Fprintf(out, "%-24s %-16s since %s\n", u.Username, state, u.CreatedAt.UTC().Format("2006-01-02"))
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", errUsage, cmd, usage)
	}
}

func parseRange(start, end string) (services.DateRange, error) {
	s, err := time.Parse("20060102", start)
	if err != nil {
		return services.DateRange{}, fmt.Errorf("invalid -start %q", start)
	}
	e := s
	if end != "" {
		if e, err = time.Parse("20060102", end); err != nil {
			return services.DateRange{}, fmt.Errorf("invalid -end %q", end)
		}
	}
	return services.DateRange{Start: s, End: e}, nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
