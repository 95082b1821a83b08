package gplay

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"playscope-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	random "github.com/mazen160/go-random"
)

const (
	DefaultLanguage = "en"
	DefaultCountry  = "us"
)

type Client struct {
	BaseUrl *url.URL
	http    *resty.Client

	lang    string
	country string

	throttle    time.Duration
	requestLock sync.Mutex
	lastRequest time.Time
}

type ClientOptions struct {
	// defaults to https://play.google.com
	BaseUrl string
	// default language/country applied when a query leaves them blank
	Language string
	Country  string
	// minimum delay between outgoing requests, a little jitter is
	// added on top. zero disables throttling.
	Throttle time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = "https://play.google.com"
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Country == "" {
		opts.Country = DefaultCountry
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, instrumentOutput)

	return &Client{
		BaseUrl:  baseUrl,
		http:     client,
		lang:     opts.Language,
		country:  opts.Country,
		throttle: opts.Throttle,
	}, nil
}

// wait spaces out requests so the frontend doesn't start serving 429s.
func (c *Client) wait(ctx context.Context) error {
	if c.throttle <= 0 {
		return nil
	}

	c.requestLock.Lock()
	defer c.requestLock.Unlock()

	jitterMs, err := random.IntRange(0, int(c.throttle/time.Millisecond)+1)
	if err != nil {
		jitterMs = 0
	}
	next := c.lastRequest.Add(c.throttle + time.Duration(jitterMs)*time.Millisecond)

	delay := time.Until(next)
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *Client) language(lang string) string {
	if lang == "" {
		return c.lang
	}
	return lang
}

func (c *Client) region(country string) string {
	if country == "" {
		return c.country
	}
	return country
}
