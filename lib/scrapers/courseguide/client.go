package courseguide

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"time"

	"magnify-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/courseguide")

// RetryPolicy bounds the timeout-retry loop on fetches. The crawl is
// a batch job, so production leaves MaxAttempts at 0 (retry forever);
// tests inject small bounds.
type RetryPolicy struct {
	// 0 means unbounded
	MaxAttempts int
	Backoff     time.Duration
}

type Client struct {
	BaseUrl *url.URL
	Term    string
	Http    *resty.Client
	Retry   RetryPolicy
}

type ClientOptions struct {
	BaseUrl string
	// catalog term code, e.g. "w_22_2370"
	Term    string
	Timeout time.Duration
	Retry   RetryPolicy
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.Term == "" {
		return nil, fmt.Errorf("missing catalog term code")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 3
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/courseguide/http")

	return &Client{
		BaseUrl: baseUrl,
		Term:    opts.Term,
		Http:    client,
		Retry:   opts.Retry,
	}, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err)
}

// fetchDocument GETs a page and parses it. Timeouts are retried
// according to the client's RetryPolicy; any other transport error or
// non-2xx status propagates, since a page we cannot fetch at all
// means no meaningful crawl baseline.
func (c *Client) fetchDocument(ctx context.Context, link string) (*goquery.Document, error) {
	attempt := 0
	for {
		res, err := c.Http.R().SetContext(ctx).Get(link)
		if err == nil {
			if res.IsError() {
				return nil, fmt.Errorf("fetch %s: %s", link, res.Status())
			}
			return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
		}

		if !isTimeout(err) {
			return nil, fmt.Errorf("fetch %s: %w", link, err)
		}

		attempt++
		if c.Retry.MaxAttempts > 0 && attempt >= c.Retry.MaxAttempts {
			return nil, fmt.Errorf("fetch %s: %w", link, err)
		}
		slog.WarnContext(ctx, "request timed out, retrying", "url", link, "attempt", attempt)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Retry.Backoff):
		}
	}
}

// resolve turns the relative hrefs the course guide emits (relative
// to its /cg/ directory) into absolute links.
func (c *Client) resolve(href string) (string, error) {
	base, err := c.BaseUrl.Parse("/cg/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
