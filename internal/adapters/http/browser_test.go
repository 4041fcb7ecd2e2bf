//go:build browser

package web

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"

	"receitas/internal/application/orchestrators"
)

// browserApp is the full middleware chain served over real HTTP, driven by Chromium.
type browserApp struct {
	BaseURL string
	Env     *testEnv
	Browser playwright.Browser
}

func newBrowserApp(t *testing.T) *browserApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	env := newTestEnv(t)
	h, err := NewMux(env.app.deps, Options{CSRFKey: []byte("0123456789abcdef0123456789abcdef")})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	// Hosted checkout sends the buyer straight back to the success page.
	env.upstream.mu.Lock()
	env.upstream.checkoutURL = srv.URL + "/checkout/success"
	env.upstream.mu.Unlock()

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &browserApp{BaseURL: srv.URL, Env: env, Browser: browser}
}

func (a *browserApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

func fill(t *testing.T, page playwright.Page, selector, value string) {
	t.Helper()
	if err := page.Locator(selector).Fill(value); err != nil {
		t.Fatalf("failed to fill %s: %v", selector, err)
	}
}

func click(t *testing.T, page playwright.Page, selector string) {
	t.Helper()
	if err := page.Locator(selector).First().Click(); err != nil {
		t.Fatalf("failed to click %s: %v", selector, err)
	}
}

func waitFor(t *testing.T, page playwright.Page, url string) {
	t.Helper()
	if err := page.WaitForURL(url, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("did not reach %s: %v", url, err)
	}
}

func heading(t *testing.T, page playwright.Page) string {
	t.Helper()
	text, err := page.Locator("main h1").First().TextContent()
	if err != nil {
		t.Fatalf("failed to read heading: %v", err)
	}
	return strings.TrimSpace(text)
}

// TestBrowser_UnpaidMemberBuysAccess walks login, offer and hosted checkout return.
func TestBrowser_UnpaidMemberBuysAccess(t *testing.T) {
	app := newBrowserApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	fill(t, page, "input[name=email]", "pendente@example.com")
	fill(t, page, "input[name=password]", "senha123")
	click(t, page, `form[action="/login"] button[type=submit]`)
	waitFor(t, page, app.BaseURL+"/#offer")

	// The member pays upstream while the hosted page is open.
	app.Env.upstream.mu.Lock()
	app.Env.upstream.accounts["pendente@example.com"] = fakeAccount{password: "senha123", hasPaid: true}
	app.Env.upstream.mu.Unlock()

	click(t, page, "form[data-checkout] button")
	waitFor(t, page, app.BaseURL+"/checkout/success")
	if got := heading(t, page); got != "Pagamento confirmado!" {
		t.Errorf("heading = %q", got)
	}
	body, _ := page.Locator("main").TextContent()
	if !strings.Contains(body, "acesso premium ja esta liberado") {
		t.Errorf("expected the unlocked message, got %q", body)
	}
}

// TestBrowser_AdminPanel signs in and toggles a user's payment.
func TestBrowser_AdminPanel(t *testing.T) {
	app := newBrowserApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/admin"); err != nil {
		t.Fatalf("failed to navigate to admin: %v", err)
	}
	fill(t, page, "input[name=username]", adminUser)
	fill(t, page, "input[name=password]", adminPass)
	click(t, page, `form[action="/admin/login"] button[type=submit]`)
	waitFor(t, page, app.BaseURL+"/admin?ok=login")

	content, _ := page.Locator("main").TextContent()
	if !strings.Contains(content, "Torta Premium") {
		t.Errorf("expected admin recipes in the panel")
	}

	click(t, page, `form[action="/admin/users/7/payment"] button`)
	waitFor(t, page, app.BaseURL+"/admin?ok=user_updated")
	app.Env.upstream.mu.Lock()
	updates := len(app.Env.upstream.userUpdates)
	app.Env.upstream.mu.Unlock()
	if updates != 1 {
		t.Errorf("expected one user update, got %d", updates)
	}
}

// TestBrowser_CheckoutFailureShowsMessage renders the error on the landing page.
func TestBrowser_CheckoutFailureShowsMessage(t *testing.T) {
	app := newBrowserApp(t)
	app.Env.upstream.mu.Lock()
	app.Env.upstream.checkoutURL = ""
	app.Env.upstream.mu.Unlock()
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	click(t, page, "form[data-checkout] button")
	if err := page.Locator(".flash.error").WaitFor(); err != nil {
		t.Fatalf("expected an error flash: %v", err)
	}
	text, _ := page.Locator(".flash.error").First().TextContent()
	if !strings.Contains(text, orchestrators.MsgCheckoutFailed) {
		t.Errorf("flash = %q", text)
	}
}
