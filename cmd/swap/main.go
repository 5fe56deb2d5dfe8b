package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/swapbot/goswap/pkg/config"
	"github.com/swapbot/goswap/pkg/fixedfloat"
	"github.com/swapbot/goswap/pkg/logger"
	"github.com/swapbot/goswap/pkg/shutdown"
)

const pollInterval = 15 * time.Second

func usage() {
	fmt.Fprintln(os.Stderr, `usage: swap <command> [flags]

commands:
  ccies                                    list supported currencies
  price   -from X -to Y -amount N          quote a swap
  create  -from X -to Y -amount N -address A [-tag T] [-watch]
  status  -id ID -token TOKEN [-watch]     show (and follow) an order
  rates   [-type fixed|float]              print the public XML rate export`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	var (
		from    = fs.String("from", "", "currency to send, e.g. BTC")
		to      = fs.String("to", "", "currency to receive, e.g. ETH")
		amount  = fs.Float64("amount", 0, "amount on the \"from\" leg")
		address = fs.String("address", "", "destination address")
		tag     = fs.String("tag", "", "memo / destination tag, if the network needs one")
		id      = fs.String("id", "", "order id")
		token   = fs.String("token", "", "order token")
		kind    = fs.String("type", fixedfloat.TypeFloat, "order type: fixed or float")
		watch   = fs.Bool("watch", false, "poll the order until it reaches a terminal status")
		cfgPath = fs.String("config", "config.yaml", "config file path")
	)
	fs.Parse(os.Args[2:])

	// Load environment variables.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	config.SetConfigPath(*cfgPath)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, OutputFile: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	client, err := fixedfloat.NewClient(cfg.APIKey, cfg.APISecret)
	if err != nil {
		logger.Errorf("create client: %v", err)
		os.Exit(1)
	}
	if cfg.APIBaseURL != "" {
		client.BaseURL = cfg.APIBaseURL
	}
	if cfg.RatesBaseURL != "" {
		client.RatesURL = cfg.RatesBaseURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownMgr := shutdown.NewManager()
	shutdownMgr.OnShutdown(func(ctx context.Context, wg *sync.WaitGroup) {
		cancel()
	})

	// Stop watch loops cleanly on Ctrl+C.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("interrupt received, stopping")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		shutdownMgr.Shutdown(shutdownCtx)
	}()

	switch command {
	case "ccies":
		runCurrencies(ctx, client)
	case "price":
		runPrice(ctx, client, *from, *to, *amount, *kind)
	case "create":
		runCreate(ctx, client, fixedfloat.CreateOrderRequest{
			FromCcy:   *from,
			ToCcy:     *to,
			ToAddress: *address,
			Amount:    decimal.NewFromFloat(*amount),
			Type:      *kind,
			ExtraID:   *tag,
		}, *watch)
	case "status":
		runStatus(ctx, client, *id, *token, *watch)
	case "rates":
		runRates(ctx, client, *kind)
	default:
		usage()
	}
}

func runCurrencies(ctx context.Context, client *fixedfloat.Client) {
	ccies, err := client.Currencies(ctx)
	if err != nil {
		logger.Errorf("list currencies: %v", err)
		os.Exit(1)
	}
	for _, c := range ccies {
		dir := ""
		if c.Recv {
			dir += "recv"
		}
		if c.Send {
			if dir != "" {
				dir += "+"
			}
			dir += "send"
		}
		fmt.Printf("%-10s %-24s %s\n", c.Code, c.Name, dir)
	}
}

func runPrice(ctx context.Context, client *fixedfloat.Client, from, to string, amount float64, kind string) {
	result, err := client.GetPrice(ctx, fixedfloat.PriceRequest{
		FromCcy: from,
		ToCcy:   to,
		Amount:  decimal.NewFromFloat(amount),
		Type:    kind,
	})
	if err != nil {
		logger.Errorf("get price: %v", err)
		os.Exit(1)
	}
	fmt.Printf("%v %s -> %v %s\n",
		result.From.Amount.Float64(), result.From.Code,
		result.To.Amount.Float64(), result.To.Code)
	for _, msg := range result.Errors {
		logger.Warnf("quote warning: %s", msg)
	}
}

func runCreate(ctx context.Context, client *fixedfloat.Client, req fixedfloat.CreateOrderRequest, watch bool) {
	order, err := client.CreateOrder(ctx, req)
	if err != nil {
		logger.Errorf("create order: %v", err)
		os.Exit(1)
	}

	logger.WithField("order", order.ID()).Info("order created")
	printOrder(order)

	if watch {
		watchOrder(ctx, order)
	}
}

func runStatus(ctx context.Context, client *fixedfloat.Client, id, token string, watch bool) {
	order, err := client.GetOrder(ctx, id, token)
	if err != nil {
		logger.Errorf("get order: %v", err)
		os.Exit(1)
	}
	printOrder(order)

	if watch {
		watchOrder(ctx, order)
	}
}

func runRates(ctx context.Context, client *fixedfloat.Client, kind string) {
	xml, err := client.RatesXML(ctx, kind)
	if err != nil {
		logger.Errorf("rates export: %v", err)
		os.Exit(1)
	}
	fmt.Println(xml)
}

// watchOrder polls the order until it reaches a terminal status or the
// context is cancelled.
func watchOrder(ctx context.Context, order *fixedfloat.Order) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	last := order.Status()
	for !order.Status().Terminal() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := order.Refresh(ctx); err != nil {
			logger.Warnf("refresh failed: %v", err)
			continue
		}
		if order.Status() != last {
			last = order.Status()
			logger.WithField("order", order.ID()).Infof("status -> %s", last)
			printOrder(order)
		}
	}

	logger.WithField("order", order.ID()).Infof("final status: %s", order.Status())
	if order.Status() == fixedfloat.StatusEmergency {
		logger.Warn("order needs an emergency choice (EXCHANGE or REFUND)")
	}
}

func printOrder(order *fixedfloat.Order) {
	data := order.Data()
	fmt.Printf("order %s  [%s]\n", data.ID, data.Status)
	fmt.Printf("  send    %v %s -> %s\n", data.From.Amount.Float64(), data.From.Code, data.Address)
	fmt.Printf("  receive %v %s -> %s\n", data.To.Amount.Float64(), data.To.Code, data.ToAddress)
	if data.ExtraID != "" {
		fmt.Printf("  memo    %s\n", data.ExtraID)
	}
	if len(data.Extra) > 0 {
		if raw, ok := data.Extra["back"]; ok {
			var back string
			if json.Unmarshal(raw, &back) == nil && back != "" {
				fmt.Printf("  refund  %s\n", back)
			}
		}
	}
}
