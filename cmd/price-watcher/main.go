package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/swapbot/goswap/pkg/config"
	"github.com/swapbot/goswap/pkg/fixedfloat"
)

const (
	refreshInterval = 10 * time.Second
	historyDepth    = 8 // quotes kept on screen
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)
)

// quote is one observed price point.
type quote struct {
	At       time.Time
	FromAmt  float64
	ToAmt    float64
	Rate     float64
	Warnings []string
}

// model is the application state.
type model struct {
	client *fixedfloat.Client
	ctx    context.Context
	cancel context.CancelFunc

	fromCcy string
	toCcy   string
	amount  float64
	kind    string

	history []quote
	lastErr error
	fetches int
}

// tickMsg fires the next refresh.
type tickMsg time.Time

// quoteMsg carries a fresh price from the API.
type quoteMsg quote

// quoteErrMsg carries a failed fetch.
type quoteErrMsg struct{ err error }

func (m model) Init() tea.Cmd {
	return tea.Batch(
		fetchCmd(m),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd asks the exchange for a fresh quote.
func fetchCmd(m model) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, refreshInterval)
		defer cancel()

		result, err := m.client.GetPrice(ctx, fixedfloat.PriceRequest{
			FromCcy: m.fromCcy,
			ToCcy:   m.toCcy,
			Amount:  decimal.NewFromFloat(m.amount),
			Type:    m.kind,
		})
		if err != nil {
			return quoteErrMsg{err: err}
		}

		q := quote{
			At:       time.Now(),
			FromAmt:  result.From.Amount.Float64(),
			ToAmt:    result.To.Amount.Float64(),
			Warnings: result.Errors,
		}
		if q.FromAmt > 0 {
			q.Rate = q.ToAmt / q.FromAmt
		}
		return quoteMsg(q)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "r":
			return m, fetchCmd(m)
		}

	case tickMsg:
		return m, tea.Batch(tickCmd(), fetchCmd(m))

	case quoteMsg:
		m.lastErr = nil
		m.fetches++
		m.history = append(m.history, quote(msg))
		if len(m.history) > historyDepth {
			m.history = m.history[len(m.history)-historyDepth:]
		}

	case quoteErrMsg:
		m.lastErr = msg.err
		m.fetches++
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	pair := fmt.Sprintf(" %s -> %s  (%s, %v %s) ", m.fromCcy, m.toCcy, m.kind, m.amount, m.fromCcy)
	b.WriteString(headerStyle.Render(pair))
	b.WriteString("\n\n")

	if len(m.history) == 0 && m.lastErr == nil {
		b.WriteString(dimStyle.Render("waiting for first quote..."))
		b.WriteString("\n")
	}

	if len(m.history) > 0 {
		latest := m.history[len(m.history)-1]
		rate := fmt.Sprintf("1 %s = %.8f %s", m.fromCcy, latest.Rate, m.toCcy)
		recv := fmt.Sprintf("you receive %.8f %s", latest.ToAmt, m.toCcy)

		style := titleStyle
		if len(m.history) > 1 {
			prev := m.history[len(m.history)-2]
			if latest.Rate > prev.Rate {
				style = upStyle
			} else if latest.Rate < prev.Rate {
				style = downStyle
			}
		}

		b.WriteString(borderStyle.Render(
			titleStyle.Render(" current quote ") + "\n " +
				style.Render(rate) + "\n " +
				recv + " "))
		b.WriteString("\n\n")

		b.WriteString(titleStyle.Render("history"))
		b.WriteString("\n")
		for i := len(m.history) - 1; i >= 0; i-- {
			q := m.history[i]
			line := fmt.Sprintf("  %s  %.8f", q.At.Format("15:04:05"), q.Rate)
			b.WriteString(dimStyle.Render(line))
			b.WriteString("\n")
		}

		for _, w := range latest.Warnings {
			b.WriteString(downStyle.Render("  ! " + w))
			b.WriteString("\n")
		}
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("refresh every %s | %d fetches | r: refresh now | q: quit",
		refreshInterval, m.fetches)))
	b.WriteString("\n")

	return b.String()
}

func main() {
	var (
		from    = flag.String("from", "BTC", "currency to send")
		to      = flag.String("to", "ETH", "currency to receive")
		amount  = flag.Float64("amount", 0.1, "amount on the \"from\" leg")
		kind    = flag.String("type", fixedfloat.TypeFloat, "order type: fixed or float")
		cfgPath = flag.String("config", "config.yaml", "config file path")
	)
	flag.Parse()

	_ = godotenv.Load()

	config.SetConfigPath(*cfgPath)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	client, err := fixedfloat.NewClient(cfg.APIKey, cfg.APISecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create client: %v\n", err)
		os.Exit(1)
	}
	if cfg.APIBaseURL != "" {
		client.BaseURL = cfg.APIBaseURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := model{
		client:  client,
		ctx:     ctx,
		cancel:  cancel,
		fromCcy: strings.ToUpper(*from),
		toCcy:   strings.ToUpper(*to),
		amount:  *amount,
		kind:    *kind,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}
}
