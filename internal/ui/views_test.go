package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nextlevel/nl-console-go/internal/domain"
	"github.com/nextlevel/nl-console-go/internal/event"
	"github.com/nextlevel/nl-console-go/internal/infra/observability"
	"github.com/nextlevel/nl-console-go/internal/notify"
	"github.com/nextlevel/nl-console-go/internal/session"

	"go.uber.org/zap"
)

type stubBackend struct {
	summary      *domain.DashboardSummary
	summaryCalls int
	companies    []domain.Company
	created      []domain.NewTransaction
	createErr    error
	download     *domain.Download
	passwordErr  error
}

func (s *stubBackend) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	s.summaryCalls++
	if s.summary == nil {
		return nil, errors.New("no summary")
	}
	return s.summary, nil
}

func (s *stubBackend) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return s.companies, nil
}

func (s *stubBackend) CreateCompany(ctx context.Context, nc domain.NewCompany) (*domain.Company, error) {
	return &domain.Company{ID: "new-co", Name: nc.Name, Sector: nc.Sector}, nil
}

func (s *stubBackend) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return []domain.Transaction{}, nil
}

func (s *stubBackend) CreateTransaction(ctx context.Context, nt domain.NewTransaction) (*domain.Transaction, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, nt)
	return &domain.Transaction{ID: "t1", Type: nt.Type, Amount: nt.Amount}, nil
}

func (s *stubBackend) Chat(ctx context.Context, message string, level domain.DetailLevel) (string, error) {
	return "echo: " + message, nil
}

func (s *stubBackend) Analyze(ctx context.Context, data any, level domain.DetailLevel) (*domain.AnalysisResult, error) {
	return &domain.AnalysisResult{Text: "analysis done"}, nil
}

func (s *stubBackend) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	return &domain.UserProfile{Name: "Ana", Email: "ana@example.com"}, nil
}

func (s *stubBackend) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	return s.passwordErr
}

func (s *stubBackend) ExportFinancialCSV(ctx context.Context) (*domain.Download, error) {
	if s.download == nil {
		return nil, errors.New("no export")
	}
	return s.download, nil
}

type testConsole struct {
	console *Console
	backend *stubBackend
	store   *session.Store
	notify  *notify.Store
	bus     *event.Bus
	out     *bytes.Buffer
}

func newTestConsole(t *testing.T, backend *stubBackend) *testConsole {
	t.Helper()

	bus := event.NewBus()
	store := session.NewStore(session.NewMemoryStorage(), bus, zap.NewNop())
	notifier := notify.NewStore(time.Minute, observability.NewMetrics(), zap.NewNop())
	out := &bytes.Buffer{}

	console := NewConsole(out, backend, store, notifier, bus, observability.NewMetrics(), zap.NewNop())
	return &testConsole{console: console, backend: backend, store: store, notify: notifier, bus: bus, out: out}
}

func TestCompaniesMarksActiveSelection(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{
		companies: []domain.Company{
			{ID: "a", Name: "Acme", Sector: "tech", Status: "active"},
			{ID: "b", Name: "Beta", Sector: "retail", Status: "active"},
		},
	})
	tc.store.SetActiveCompany("b")

	if err := tc.console.Companies(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := tc.out.String()
	if !strings.Contains(output, "Beta") || !strings.Contains(output, "Acme") {
		t.Errorf("listing incomplete:\n%s", output)
	}
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Beta") && !strings.HasPrefix(line, "*") {
			t.Errorf("active company not marked:\n%s", output)
		}
	}
}

func TestCompaniesReconcilesVanishedSelection(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{
		companies: []domain.Company{{ID: "a", Name: "Acme"}},
	})
	tc.store.SetActiveCompany("gone")

	if err := tc.console.Companies(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tc.store.ActiveCompanyID(); got != "a" {
		t.Errorf("active company = %q, want fallback to a", got)
	}
}

func TestCreateCompanySelectsFirstCompany(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{})

	if err := tc.console.CreateCompany(context.Background(), "Acme", "tech"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tc.store.ActiveCompanyID(); got != "new-co" {
		t.Errorf("active company = %q, want the new company auto-selected", got)
	}
}

func TestCreateCompanyKeepsExistingSelection(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{})
	tc.store.SetActiveCompany("existing")

	if err := tc.console.CreateCompany(context.Background(), "Acme", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tc.store.ActiveCompanyID(); got != "existing" {
		t.Errorf("active company = %q, selection must not move", got)
	}
}

func TestAddTransactionBroadcastsUpdate(t *testing.T) {
	backend := &stubBackend{summary: &domain.DashboardSummary{Revenue: 1}}
	tc := newTestConsole(t, backend)

	updated := make(chan struct{}, 1)
	tc.bus.Subscribe(event.TransactionsUpdated, func() {
		select {
		case updated <- struct{}{}:
		default:
		}
	})

	err := tc.console.AddTransaction(context.Background(), domain.TransactionRevenue, 150.00, "big sale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-updated:
	default:
		t.Error("transactions-updated signal not published")
	}
	if len(backend.created) != 1 || backend.created[0].Amount != 150.00 {
		t.Errorf("created = %+v", backend.created)
	}
	if !backend.created[0].Manual {
		t.Error("console entries must be flagged manual")
	}
}

func TestAddTransactionFailureNotifies(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{createErr: errors.New("rejected")})

	if err := tc.console.AddTransaction(context.Background(), domain.TransactionRevenue, 10, "x"); err == nil {
		t.Fatal("expected the backend error to surface")
	}

	active := tc.notify.Active()
	if len(active) == 0 || active[len(active)-1].Kind != notify.KindError {
		t.Errorf("expected an error notification, got %+v", active)
	}
}

func TestDashboardCachesSummary(t *testing.T) {
	backend := &stubBackend{summary: &domain.DashboardSummary{
		Revenue:    1234.56,
		Conversion: 12.5,
		LineData:   []domain.LinePoint{{Name: "Jan", Sales: 100}},
	}}
	tc := newTestConsole(t, backend)

	if err := tc.console.Dashboard(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tc.console.Dashboard(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.summaryCalls != 1 {
		t.Errorf("summary fetched %d times, want 1 (cached)", backend.summaryCalls)
	}
	if !strings.Contains(tc.out.String(), "1234.56") {
		t.Errorf("revenue missing from output:\n%s", tc.out.String())
	}
}

func TestChangePasswordMismatchIsLocal(t *testing.T) {
	backend := &stubBackend{passwordErr: errors.New("must not be called")}
	tc := newTestConsole(t, backend)

	err := tc.console.ChangePassword(context.Background(), "old", "new", "different")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("error type = %T, want *domain.ErrValidation", err)
	}
}

func TestExportWritesFile(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{download: &domain.Download{
		Filename: "report.csv",
		Data:     []byte("a,b\n1,2\n"),
	}})

	dir := t.TempDir()
	path, err := tc.console.Export(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "report.csv") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export file unreadable: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestChatUsesSessionDetailLevel(t *testing.T) {
	tc := newTestConsole(t, &stubBackend{})

	if err := tc.console.Chat(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(tc.out.String(), "echo: hello") {
		t.Errorf("reply missing:\n%s", tc.out.String())
	}
}
