// Package domain defines the core entities of the Next Level console.
// These models mirror (not replace) server-side records: the backend owns
// every entity, the client holds fetched-on-demand copies.
package domain

import "time"

// ============================================================
// Preferences
// ============================================================

// DetailLevel controls how verbose AI responses should be.
type DetailLevel string

const (
	DetailLow    DetailLevel = "low"
	DetailMedium DetailLevel = "medium"
	DetailHigh   DetailLevel = "high"
)

// ParseDetailLevel returns the matching level, or the medium default
// for anything unrecognized (including the empty string).
func ParseDetailLevel(s string) DetailLevel {
	switch DetailLevel(s) {
	case DetailLow, DetailMedium, DetailHigh:
		return DetailLevel(s)
	}
	return DetailMedium
}

// ThemeMode is the UI color scheme preference.
type ThemeMode string

const (
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

// ParseThemeMode returns the matching mode, defaulting to dark.
func ParseThemeMode(s string) ThemeMode {
	switch ThemeMode(s) {
	case ThemeDark, ThemeLight:
		return ThemeMode(s)
	}
	return ThemeDark
}

// ============================================================
// Session
// ============================================================

// Session is the client-side view of who is logged in and which company
// scopes their requests. Token and ActiveCompanyID survive restarts;
// the rest is refreshed from the backend after login.
type Session struct {
	Token           string
	Username        string
	Email           string
	ActiveCompanyID string
	DetailLevel     DetailLevel
	Theme           ThemeMode
}

// IsAuthenticated holds the invariant isAuthenticated == (token != "").
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// ============================================================
// Companies
// ============================================================

// Company is a business entity owned by the logged-in user. The active
// company is the tenant that scopes all reads and writes.
type Company struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
	Status string `json:"status,omitempty"`
}

// NewCompany is the payload for creating a company.
type NewCompany struct {
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
}

// ============================================================
// Transactions
// ============================================================

// Transaction types as the backend spells them.
const (
	TransactionRevenue = "revenue"
	TransactionExpense = "expense"
)

// Transaction is a single financial record, append-only from the
// client's perspective.
type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // revenue, expense
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
	Category    string    `json:"category,omitempty"`
}

// NewTransaction is the payload for creating a transaction.
type NewTransaction struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Manual      bool    `json:"manual,omitempty"`
}

// ============================================================
// Dashboard
// ============================================================

// DashboardSummary is the read-only KPI snapshot for the active company.
// It is fetched fresh each time and replaced whole, never mutated.
type DashboardSummary struct {
	Revenue    float64     `json:"revenue"`
	Conversion float64     `json:"conversion"`
	CAC        float64     `json:"cac"`
	Retention  float64     `json:"retention"`
	LineData   []LinePoint `json:"lineData"`
	PieData    []PieSlice  `json:"pieData"`
}

// LinePoint is one x-axis entry of the sales line chart.
type LinePoint struct {
	Name  string  `json:"name"`
	Sales float64 `json:"Vendas"`
	Peaks float64 `json:"Picos,omitempty"`
}

// PieSlice is one sector of the distribution pie chart.
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ============================================================
// Profile
// ============================================================

// UserProfile mirrors the backend profile record. All fields are
// optional on the wire; empty values mean "unchanged" on PATCH.
type UserProfile struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	DetailLevel string `json:"detailLevel,omitempty"`
	Theme       string `json:"theme,omitempty"`
}

// PasswordChange is the payload for the password change endpoint.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ============================================================
// Auth
// ============================================================

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what the backend returns from a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ============================================================
// AI assistant
// ============================================================

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "ai"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalysisResult is the normalized response of the analyze endpoint.
// The backend may answer with {analysis}, {insight}, {message} or a
// bare string; Text holds whichever arrived.
type AnalysisResult struct {
	Text string `json:"text"`
}

// ============================================================
// File export
// ============================================================

// Download is a raw binary payload returned by export endpoints.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}
