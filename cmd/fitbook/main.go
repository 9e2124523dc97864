package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kypgh/fitbook-client/internal/app"
	"github.com/kypgh/fitbook-client/internal/config"
	"github.com/kypgh/fitbook-client/internal/dto"
	"github.com/kypgh/fitbook-client/internal/token"
	"go.uber.org/zap"
)

const usage = `Usage: fitbook <command> [flags]

Commands:
  login          -email <email> -password <password>
  register       -email <email> -password <password> [-first <name>] [-last <name>]
  logout
  me
  brand          -brand <id>
  classes        [-page <n>]
  sessions       -class <id> [-page <n>]
  book           -session <id>
  bookings       [-page <n>]
  cancel         -booking <id>
  plans          [-page <n>]
  credit-plans   [-page <n>]
  subscriptions
  credits
  payments       [-page <n>]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	infra, err := app.NewInfrastructure(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}

	sdk := app.NewApp(infra, cfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	if cfg.Debug.MetricsAddr != "" {
		go serveMetrics(cfg.Debug.MetricsAddr, infra)
	}

	unsubscribe := sdk.Tokens().Subscribe(token.EventTokenExpired, func(ev token.Event) {
		fmt.Fprintf(os.Stderr, "session expired (%s), please log in again\n", ev.Reason)
	})
	defer unsubscribe()

	err = run(ctx, sdk, os.Args[1], os.Args[2:])

	if shutdownErr := sdk.Shutdown(context.Background()); shutdownErr != nil {
		infra.Logger().Warn("shutdown failed", zap.Error(shutdownErr))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, infra app.Infrastructure) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", infra.MetricsHandler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		infra.Logger().Warn("metrics listener failed", zap.Error(err))
	}
}

func run(ctx context.Context, sdk *app.App, command string, args []string) error {
	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(args)
		profile, err := sdk.Auth().Login(ctx, dto.LoginRequest{Email: *email, Password: *password})
		if err != nil {
			return err
		}
		return printJSON(profile)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		fs.Parse(args)
		profile, err := sdk.Auth().Register(ctx, dto.RegisterRequest{
			Email:     *email,
			Password:  *password,
			FirstName: *first,
			LastName:  *last,
		})
		if err != nil {
			return err
		}
		return printJSON(profile)

	case "logout":
		return sdk.Auth().Logout(ctx)

	case "me":
		profile, err := sdk.Auth().Profile(ctx)
		if err != nil {
			return err
		}
		return printJSON(profile)

	case "brand":
		fs := flag.NewFlagSet("brand", flag.ExitOnError)
		brandID := fs.String("brand", "", "brand id")
		fs.Parse(args)
		brand, err := sdk.Bookings().Brand(ctx, *brandID)
		if err != nil {
			return err
		}
		return printJSON(brand)

	case "classes":
		page := pageFlag("classes", args)
		result, err := sdk.Bookings().Classes(ctx, page)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "sessions":
		fs := flag.NewFlagSet("sessions", flag.ExitOnError)
		classID := fs.String("class", "", "class id")
		page := fs.Int("page", 1, "page number")
		fs.Parse(args)
		result, err := sdk.Bookings().Sessions(ctx, *classID, *page)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "book":
		fs := flag.NewFlagSet("book", flag.ExitOnError)
		sessionID := fs.String("session", "", "session id")
		fs.Parse(args)
		booking, err := sdk.Bookings().Book(ctx, *sessionID)
		if err != nil {
			return err
		}
		return printJSON(booking)

	case "bookings":
		page := pageFlag("bookings", args)
		result, err := sdk.Bookings().Bookings(ctx, page)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "cancel":
		fs := flag.NewFlagSet("cancel", flag.ExitOnError)
		bookingID := fs.String("booking", "", "booking id")
		fs.Parse(args)
		return sdk.Bookings().CancelBooking(ctx, *bookingID)

	case "plans":
		page := pageFlag("plans", args)
		result, err := sdk.Billing().SubscriptionPlans(ctx, page)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "credit-plans":
		page := pageFlag("credit-plans", args)
		result, err := sdk.Billing().CreditPlans(ctx, page)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "subscriptions":
		subs, err := sdk.Billing().Subscriptions(ctx)
		if err != nil {
			return err
		}
		return printJSON(subs)

	case "credits":
		balances, err := sdk.Billing().CreditBalances(ctx)
		if err != nil {
			return err
		}
		return printJSON(balances)

	case "payments":
		page := pageFlag("payments", args)
		result, err := sdk.Billing().Payments(ctx, page)
		if err != nil {
			return err
		}
		return printJSON(result)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func pageFlag(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	fs.Parse(args)
	return *page
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
