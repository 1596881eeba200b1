// Package ui renders the console views. Views are thin: they call the
// backend client, keep a small cache guarded by a Loader, and write
// tabular output. All state they need arrives through the constructor.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/nextlevel/nl-console-go/internal/domain"
	"github.com/nextlevel/nl-console-go/internal/event"
	"github.com/nextlevel/nl-console-go/internal/infra/observability"
	"github.com/nextlevel/nl-console-go/internal/notify"
	"github.com/nextlevel/nl-console-go/internal/session"

	"go.uber.org/zap"
)

// Backend is the slice of the API client the views call.
type Backend interface {
	GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CreateCompany(ctx context.Context, nc domain.NewCompany) (*domain.Company, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, nt domain.NewTransaction) (*domain.Transaction, error)
	Chat(ctx context.Context, message string, level domain.DetailLevel) (string, error)
	Analyze(ctx context.Context, data any, level domain.DetailLevel) (*domain.AnalysisResult, error)
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
	ExportFinancialCSV(ctx context.Context) (*domain.Download, error)
}

// Console owns the views and their per-view fetch state.
type Console struct {
	out     io.Writer
	backend Backend
	store   *session.Store
	notify  *notify.Store
	bus     *event.Bus
	metrics *observability.Metrics
	logger  *zap.Logger

	summaryLoader Loader
	summaryMu     sync.Mutex
	summary       *domain.DashboardSummary
}

// NewConsole wires the views and subscribes the dashboard cache to
// transaction updates so a write from any view refreshes it.
func NewConsole(out io.Writer, backend Backend, store *session.Store, notifier *notify.Store, bus *event.Bus, metrics *observability.Metrics, logger *zap.Logger) *Console {
	c := &Console{
		out:     out,
		backend: backend,
		store:   store,
		notify:  notifier,
		bus:     bus,
		metrics: metrics,
		logger:  logger,
	}

	bus.Subscribe(event.TransactionsUpdated, func() {
		go c.refreshSummary(context.Background())
	})
	bus.Subscribe(event.SessionChanged, func() {
		c.dropSummary()
	})

	return c
}

// ============================================================
// Dashboard
// ============================================================

// Dashboard renders the KPI snapshot, fetching it when the cache is
// empty. A stale in-flight fetch never overwrites a newer one.
func (c *Console) Dashboard(ctx context.Context) error {
	if c.cachedSummary() == nil {
		if err := c.refreshSummary(ctx); err != nil {
			return err
		}
	}
	s := c.cachedSummary()
	if s == nil {
		fmt.Fprintln(c.out, "no dashboard data")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Revenue\t%.2f\n", s.Revenue)
	fmt.Fprintf(w, "Conversion\t%.1f%%\n", s.Conversion)
	fmt.Fprintf(w, "CAC\t%.2f\n", s.CAC)
	fmt.Fprintf(w, "Retention\t%.1f%%\n", s.Retention)
	w.Flush()

	if len(s.LineData) > 0 {
		fmt.Fprintln(c.out, "\nSales")
		w = tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		for _, p := range s.LineData {
			fmt.Fprintf(w, "%s\t%.2f\n", p.Name, p.Sales)
		}
		w.Flush()
	}
	if len(s.PieData) > 0 {
		fmt.Fprintln(c.out, "\nDistribution")
		w = tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		for _, p := range s.PieData {
			fmt.Fprintf(w, "%s\t%.2f\n", p.Name, p.Value)
		}
		w.Flush()
	}
	return nil
}

func (c *Console) cachedSummary() *domain.DashboardSummary {
	c.summaryMu.Lock()
	defer c.summaryMu.Unlock()
	return c.summary
}

func (c *Console) refreshSummary(ctx context.Context) error {
	gen := c.summaryLoader.Begin()
	summary, err := c.backend.GetDashboardSummary(ctx)
	if !c.summaryLoader.Finish(gen) {
		return nil
	}
	if err != nil {
		c.logger.Debug("dashboard refresh failed", zap.Error(err))
		return err
	}
	c.summaryMu.Lock()
	c.summary = summary
	c.summaryMu.Unlock()
	return nil
}

func (c *Console) dropSummary() {
	c.summaryLoader.Begin()
	c.summaryMu.Lock()
	c.summary = nil
	c.summaryMu.Unlock()
}

// ============================================================
// Companies
// ============================================================

// Companies lists companies, marking the active one.
func (c *Console) Companies(ctx context.Context) error {
	companies, err := c.backend.ListCompanies(ctx)
	if err != nil {
		return err
	}
	c.store.ReconcileCompanies(companies)

	if len(companies) == 0 {
		fmt.Fprintln(c.out, "no companies yet")
		return nil
	}

	active := c.store.ActiveCompanyID()
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tSECTOR\tSTATUS")
	for _, co := range companies {
		marker := ""
		if co.ID == active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, co.ID, co.Name, co.Sector, co.Status)
	}
	return w.Flush()
}

// CreateCompany creates a company and selects it when it is the first.
func (c *Console) CreateCompany(ctx context.Context, name, sector string) error {
	created, err := c.backend.CreateCompany(ctx, domain.NewCompany{Name: name, Sector: sector})
	if err != nil {
		c.notify.Notify(err.Error(), notify.KindError)
		return err
	}

	if c.store.ActiveCompanyID() == "" {
		c.store.SetActiveCompany(created.ID)
	}
	c.notify.Notify(fmt.Sprintf("company %q created", created.Name), notify.KindSuccess)
	return nil
}

// SelectCompany switches the active tenant.
func (c *Console) SelectCompany(id string) {
	c.store.SetActiveCompany(id)
	c.notify.Notify("active company changed", notify.KindInfo)
}

// ============================================================
// Transactions
// ============================================================

// Transactions lists transactions for the active company with per-day
// revenue/expense buckets below the listing.
func (c *Console) Transactions(ctx context.Context) error {
	txs, err := c.backend.ListTransactions(ctx)
	if err != nil {
		return err
	}

	if len(txs) == 0 {
		fmt.Fprintln(c.out, "no transactions")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n",
			tx.CreatedAt.Format("2006-01-02"), tx.Type, tx.Amount, tx.Description)
	}
	w.Flush()

	buckets := domain.BucketByDay(txs)
	fmt.Fprintln(c.out, "\nPer day")
	w = tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tREVENUE\tEXPENSE\tNET")
	for _, b := range buckets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			b.Day.Format("2006-01-02"), b.Revenue.StringFixed(2), b.Expense.StringFixed(2), b.Net().StringFixed(2))
	}
	return w.Flush()
}

// AddTransaction records a manual transaction and notifies on outcome.
func (c *Console) AddTransaction(ctx context.Context, txType string, amount float64, description string) error {
	_, err := c.backend.CreateTransaction(ctx, domain.NewTransaction{
		Type:        txType,
		Amount:      amount,
		Description: description,
		Manual:      true,
	})
	if err != nil {
		c.notify.Notify(err.Error(), notify.KindError)
		return err
	}
	c.notify.Notify("transaction recorded", notify.KindSuccess)
	c.bus.Publish(event.TransactionsUpdated)
	return nil
}

// ============================================================
// Assistant
// ============================================================

// Chat sends one message at the session's detail level and prints the
// assistant reply.
func (c *Console) Chat(ctx context.Context, message string) error {
	reply, err := c.backend.Chat(ctx, message, c.store.Snapshot().DetailLevel)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, reply)
	return nil
}

// Analyze runs the AI analysis over the current dashboard snapshot.
func (c *Console) Analyze(ctx context.Context) error {
	if c.cachedSummary() == nil {
		if err := c.refreshSummary(ctx); err != nil {
			return err
		}
	}

	result, err := c.backend.Analyze(ctx, c.cachedSummary(), c.store.Snapshot().DetailLevel)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, result.Text)
	return nil
}

// ============================================================
// Settings and profile
// ============================================================

// Profile renders the account view.
func (c *Console) Profile(ctx context.Context) error {
	p, err := c.backend.GetProfile(ctx)
	if err != nil {
		return err
	}

	snap := c.store.Snapshot()
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name\t%s\n", p.Name)
	fmt.Fprintf(w, "Email\t%s\n", p.Email)
	fmt.Fprintf(w, "Theme\t%s\n", snap.Theme)
	fmt.Fprintf(w, "Detail level\t%s\n", snap.DetailLevel)
	return w.Flush()
}

// SetTheme changes the theme preference, reporting sync failures as an
// error notification while keeping the rolled-back value.
func (c *Console) SetTheme(ctx context.Context, raw string) {
	if err := c.store.SetTheme(ctx, domain.ParseThemeMode(raw)); err != nil {
		c.notify.Notify("theme not synced: "+err.Error(), notify.KindError)
		return
	}
	c.notify.Notify("theme updated", notify.KindSuccess)
}

// SetDetailLevel changes the AI detail preference.
func (c *Console) SetDetailLevel(ctx context.Context, raw string) {
	if err := c.store.SetDetailLevel(ctx, domain.ParseDetailLevel(raw)); err != nil {
		c.notify.Notify("detail level not synced: "+err.Error(), notify.KindError)
		return
	}
	c.notify.Notify("detail level updated", notify.KindSuccess)
}

// ChangePassword runs the password change flow. The confirmation is
// checked locally; only the current and new passwords go on the wire.
func (c *Console) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		err := &domain.ErrValidation{Field: "confirmation", Message: "passwords do not match"}
		c.notify.Notify(err.Error(), notify.KindError)
		return err
	}

	err := c.backend.ChangePassword(ctx, domain.PasswordChange{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		c.notify.Notify(err.Error(), notify.KindError)
		return err
	}
	c.notify.Notify("password changed", notify.KindSuccess)
	return nil
}

// ============================================================
// Export
// ============================================================

// Export downloads the financial report into dir, keeping the
// server-suggested filename.
func (c *Console) Export(ctx context.Context, dir string) (string, error) {
	dl, err := c.backend.ExportFinancialCSV(ctx)
	if err != nil {
		c.notify.Notify(err.Error(), notify.KindError)
		return "", err
	}

	path := filepath.Join(dir, dl.Filename)
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return "", err
	}
	c.notify.Notify("report saved to "+path, notify.KindSuccess)
	return path, nil
}

// ============================================================
// Status views
// ============================================================

// Stats prints the client request counters.
func (c *Console) Stats() {
	stats := c.metrics.Snapshot()
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Requests\t%.0f\n", stats.Requests)
	fmt.Fprintf(w, "Failures\t%.0f\n", stats.Failures)
	fmt.Fprintf(w, "Failure rate\t%.1f%%\n", stats.FailureRate*100)
	w.Flush()
}

// Toasts prints the currently visible notifications.
func (c *Console) Toasts() {
	active := c.notify.Active()
	if len(active) == 0 {
		fmt.Fprintln(c.out, "no notifications")
		return
	}
	for _, n := range active {
		fmt.Fprintf(c.out, "[%s] %s\n", strings.ToUpper(n.Kind), n.Message)
	}
}

// Status prints a one-line session summary for the prompt.
func (c *Console) Status() string {
	snap := c.store.Snapshot()
	if !snap.IsAuthenticated() {
		return "logged out"
	}
	parts := []string{snap.Email}
	if snap.ActiveCompanyID != "" {
		parts = append(parts, "company "+snap.ActiveCompanyID)
	}
	return strings.Join(parts, ", ")
}
