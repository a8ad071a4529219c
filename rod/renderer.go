// Package rod renders JavaScript-heavy pages through Chrome, either a
// locally launched browser or the remote scraping browser service.
package rod

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/harvest"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// browserHost is the remote scraping browser CDP endpoint.
const browserHost = "brd.superproxy.io:9222"

// Ensure Renderer implements harvest.Renderer at compile time.
var _ harvest.Renderer = (*Renderer)(nil)

// Renderer retrieves rendered HTML from URLs using Chrome browser
// automation. Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // nil for remote browsers
}

// BrowserEndpoint builds the CDP websocket URL for the remote scraping
// browser, authenticated with the zone credentials.
func BrowserEndpoint(user, pass string) string {
	return fmt.Sprintf("wss://%s:%s@%s", url.QueryEscape(user), url.QueryEscape(pass), browserHost)
}

// NewRemoteRenderer connects to the remote scraping browser service.
// Close must be called when the Renderer is no longer needed.
func NewRemoteRenderer(user, pass string) (*Renderer, error) {
	if user == "" || pass == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "browser credentials required")
	}

	browser := rod.New().ControlURL(BrowserEndpoint(user, pass))
	if err := browser.Connect(); err != nil {
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "connecting to scraping browser: %v", err)
	}

	return &Renderer{browser: browser}, nil
}

// NewLocalRenderer launches a local headless Chrome. Close must be
// called when the Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewLocalRenderer() (*Renderer, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Renderer{browser: browser, launcher: l}, nil
}

// Render navigates to the URL and returns the rendered HTML.
func (r *Renderer) Render(ctx context.Context, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(target); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	err := r.browser.Close()
	if r.launcher != nil {
		r.launcher.Kill()
	}
	return err
}
