// Package browser drives a headless Chrome session for live form
// filling. It implements the page driver abstraction used by the fill
// and sections engines, so those engines stay testable against
// in-memory documents.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/apply-agent/internal/dom"
)

// Driver is a persistent headless browser session attached to one page.
// Unlike one-shot rendering, the session stays open across the whole
// fill pass so that writes and re-reads observe the same document.
type Driver struct {
	ctx     context.Context
	cancels []context.CancelFunc
	verbose bool
}

// New launches a headless browser and navigates to url. The returned
// driver must be closed to release the browser process.
func New(ctx context.Context, url string, timeout time.Duration, verbose bool) (*Driver, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)

	d := &Driver{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelTimeout, cancelBrowser, cancelAlloc},
		verbose: verbose,
	}

	if verbose {
		log.Printf("[BROWSER] Navigating to: %s", url)
	}
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to settle
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return d, nil
}

// Close shuts down the browser session.
func (d *Driver) Close() {
	for _, cancel := range d.cancels {
		cancel()
	}
}

// Page re-renders the live document and parses a fresh snapshot.
func (d *Driver) Page(ctx context.Context) (*dom.Page, error) {
	var html string
	if err := d.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return dom.Parse(html)
}

// Value reads the control's current value property.
func (d *Driver) Value(ctx context.Context, ref string) (string, error) {
	var value string
	script := fmt.Sprintf(`(() => { const el = document.querySelector(%s); return el ? String(el.value ?? "") : ""; })()`, jsString(ref))
	if err := d.run(ctx, chromedp.Evaluate(script, &value)); err != nil {
		return "", fmt.Errorf("failed to read value of %s: %w", ref, err)
	}
	return value, nil
}

// SetValue writes a text value through the native property setter and
// replays the focus, input, change, blur sequence. Assigning el.value
// directly is invisible to framework-managed inputs because they
// shadow the value property on the instance; the prototype descriptor
// setter bypasses that shadow.
func (d *Driver) SetValue(ctx context.Context, ref, value string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		const proto = el.tagName === 'TEXTAREA' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, 'value');
		el.focus();
		if (desc && desc.set) { desc.set.call(el, %s); } else { el.value = %s; }
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		el.blur();
		return true;
	})()`, jsString(ref), jsString(value), jsString(value))
	return d.evalOK(ctx, script, ref, "set value")
}

// SelectOption sets a select control to the option with the given
// value and replays input/change notifications.
func (d *Driver) SelectOption(ctx context.Context, ref, value string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.focus();
		el.value = %s;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		el.blur();
		return el.value === %s;
	})()`, jsString(ref), jsString(value), jsString(value))
	return d.evalOK(ctx, script, ref, "select option")
}

// Click triggers a clickable element.
func (d *Driver) Click(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.click();
		return true;
	})()`, jsString(ref))
	return d.evalOK(ctx, script, ref, "click")
}

// MarkValid clears stale error indicator state on the control after a
// programmatic write: error classes, aria-invalid, and any custom
// validity message.
func (d *Driver) MarkValid(ctx context.Context, ref string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		for (const cls of [...el.classList]) {
			if (/error|invalid/i.test(cls)) el.classList.remove(cls);
		}
		el.removeAttribute('aria-invalid');
		if (el.setCustomValidity) el.setCustomValidity('');
		return true;
	})()`, jsString(ref))
	return d.evalOK(ctx, script, ref, "mark valid")
}

// run executes actions on the session context while honoring the
// caller's cancellation. Deriving from the session context keeps the
// chromedp target values, so actions still resolve to this session.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	if ctx == nil {
		return chromedp.Run(d.ctx, actions...)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (d *Driver) evalOK(ctx context.Context, script, ref, what string) error {
	var ok bool
	if err := d.run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("failed to %s on %s: %w", what, ref, err)
	}
	if !ok {
		return fmt.Errorf("failed to %s: no element at %s", what, ref)
	}
	return nil
}

// jsString encodes a Go string as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
