package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecommerce-storefront/internal/api"
	"ecommerce-storefront/internal/config"
	"ecommerce-storefront/internal/logger"
	"ecommerce-storefront/internal/session"
	"ecommerce-storefront/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(os.Stderr, "storefront", cfg.Common.LogLevel)

	// Session store: redis when configured, a local file otherwise.
	var store session.Store
	if cfg.Session.RedisAddr != "" {
		rs := session.NewRedisStore(cfg.Session.RedisAddr, cfg.Session.RedisNamespace, log)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(pingCtx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		cancel()
		defer rs.Close()
		store = rs
	} else {
		store = session.NewFileStore(cfg.Session.Path, log)
	}

	ctrl := ui.NewController(store, log)
	if err := ctrl.Start(); err != nil {
		log.Fatal().Err(err).Msg("load session failed")
	}

	client := api.NewClient(cfg.API.BaseURL, log)
	client.Token = ctrl.Token
	client.OnSessionExpired = ctrl.SessionExpired

	catalog := ui.NewCatalogScreen(client, ctrl, log)
	cart := ui.NewCartScreen(client, ctrl, log)
	auth := ui.NewAuthScreen(client, ctrl, log)

	if cfg.Metrics.Addr != "" {
		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics listener started")
			srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	app := &app{
		ctrl:    ctrl,
		client:  client,
		catalog: catalog,
		cart:    cart,
		auth:    auth,
		out:     os.Stdout,
	}
	app.run(context.Background(), bufio.NewScanner(os.Stdin))
}

type app struct {
	ctrl    *ui.Controller
	client  *api.Client
	catalog *ui.CatalogScreen
	cart    *ui.CartScreen
	auth    *ui.AuthScreen
	out     io.Writer
}

// run is the cooperative event loop: one command at a time, each running
// to completion before the next is read.
func (a *app) run(ctx context.Context, in *bufio.Scanner) {
	if a.ctrl.Authenticated() {
		a.catalog.Activate(ctx)
	}
	a.render()

	for {
		fmt.Fprint(a.out, "> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		a.dispatch(ctx, cmd, args, line)
		a.render()
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string, line string) {
	if !a.ctrl.Authenticated() {
		a.dispatchAuth(ctx, cmd, args)
		return
	}

	switch cmd {
	case "products":
		a.ctrl.SwitchView(ui.ViewProducts)
		a.catalog.Activate(ctx)
	case "refresh":
		a.catalog.Activate(ctx)
	case "cart":
		a.ctrl.SwitchView(ui.ViewCart)
	case "add":
		if id, ok := argInt(args, 0); ok {
			if err := a.catalog.Add(id); err != nil {
				fmt.Fprintln(a.out, err)
			}
		}
	case "qty":
		if id, ok := argInt(args, 0); ok {
			if q, ok := argInt(args, 1); ok {
				a.ctrl.UpdateQuantity(id, q)
			}
		}
	case "inc":
		if id, ok := argInt(args, 0); ok {
			a.cart.Increment(id)
		}
	case "dec":
		if id, ok := argInt(args, 0); ok {
			a.cart.Decrement(id)
		}
	case "rm":
		if id, ok := argInt(args, 0); ok {
			a.cart.Remove(id)
		}
	case "address":
		a.cart.SetAddress(strings.TrimSpace(strings.TrimPrefix(line, "address")))
	case "checkout":
		if rest := strings.TrimSpace(strings.TrimPrefix(line, "checkout")); rest != "" {
			a.cart.SetAddress(rest)
		}
		_ = a.cart.Checkout(ctx)
	case "orders":
		a.printOrders(ctx)
	case "order":
		if id, ok := argInt(args, 0); ok {
			a.printOrder(ctx, id)
		}
	case "whoami":
		a.printCurrentUser(ctx)
	case "logout":
		a.ctrl.Logout()
	case "help":
		fmt.Fprintln(a.out, "commands: products refresh cart add <id> qty <id> <n> inc <id> dec <id> rm <id> address <...> checkout [address] orders order <id> whoami logout quit")
	default:
		fmt.Fprintf(a.out, "unknown command %q, try 'help'\n", cmd)
	}
}

func (a *app) dispatchAuth(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "mode":
		if len(args) == 1 && args[0] == "register" {
			a.auth.SetMode(ui.ModeRegister)
		} else {
			a.auth.SetMode(ui.ModeLogin)
		}
	case "login":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "usage: login <username> <password>")
			return
		}
		if a.auth.Login(ctx, args[0], args[1]) == nil {
			a.catalog.Activate(ctx)
		}
	case "register":
		if len(args) < 3 {
			fmt.Fprintln(a.out, "usage: register <email> <username> <password> [full name]")
			return
		}
		fullName := strings.Join(args[3:], " ")
		if a.auth.Register(ctx, args[0], args[1], args[2], fullName) == nil {
			a.catalog.Activate(ctx)
		}
	default:
		fmt.Fprintln(a.out, "log in first: login <username> <password>  (or 'mode register')")
	}
}

func (a *app) printOrders(ctx context.Context) {
	orders, err := a.client.ListOrders(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load orders")
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders yet")
		return
	}
	for _, o := range orders {
		fmt.Fprintf(a.out, "order %d  $%.2f  %s  %s\n", o.ID, o.TotalAmount, o.Status, o.CreatedAt)
	}
}

func (a *app) printOrder(ctx context.Context, id int) {
	o, err := a.client.GetOrder(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to load order %d\n", id)
		return
	}
	fmt.Fprintf(a.out, "order %d  $%.2f  %s\n", o.ID, o.TotalAmount, o.Status)
	fmt.Fprintf(a.out, "  ship to: %s\n", o.ShippingAddress)
	for _, it := range o.Items {
		fmt.Fprintf(a.out, "  %s  $%.2f x %d\n", it.Name, it.Price, it.Quantity)
	}
}

func (a *app) printCurrentUser(ctx context.Context) {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load current user")
		return
	}
	fmt.Fprintf(a.out, "%s <%s>\n", user.Username, user.Email)
}

func (a *app) render() {
	fmt.Fprintln(a.out)
	switch a.ctrl.View() {
	case ui.ViewProducts:
		a.catalog.Render(a.out)
	case ui.ViewCart:
		a.cart.Render(a.out)
	default:
		a.auth.Render(a.out)
	}
}

func argInt(args []string, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, false
	}
	return n, true
}
