package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/limiter"
	"github.com/dreamerjackson/confextract/proxy"
	"go.uber.org/zap"
	"golang.org/x/text/transform"
)

type Fetcher interface {
	Get(ctx context.Context, req *Request) ([]byte, error)
}

// BrowserFetch fetches like a browser would: random user agent, optional
// cookie and proxy. Limit and WaitTime throttle consecutive requests.
type BrowserFetch struct {
	Timeout  time.Duration
	Proxy    proxy.ProxyFunc
	Limit    limiter.RateLimiter
	WaitTime time.Duration // upper bound of the random pause before a request
	Logger   *zap.Logger
}

func (b BrowserFetch) Get(ctx context.Context, request *Request) ([]byte, error) {
	if err := request.Check(); err != nil {
		return nil, err
	}

	if b.Limit != nil {
		if err := b.Limit.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if b.WaitTime > 0 {
		pause := time.Duration(rand.Int63n(int64(b.WaitTime)))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pause):
		}
	}

	client := &http.Client{
		Timeout: b.Timeout,
	}

	if b.Proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = b.Proxy
		client.Transport = transport
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	if len(request.Cookie) > 0 {
		req.Header.Set("Cookie", request.Cookie)
	}

	req.Header.Set("User-Agent", GenerateRandomUA())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if b.Logger != nil {
		b.Logger.Debug("fetched", zap.String("url", request.URL), zap.Int("status", resp.StatusCode))
	}

	return readBody(resp)
}

// readBody checks the status and decodes the body to utf-8.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := document.DeterminEncoding(bodyReader)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}
