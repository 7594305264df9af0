package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

var errEmptyProxy = errors.New("empty proxy urls")

type ProxyFunc func(*http.Request) (*url.URL, error)

type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     uint32
}

func (r *roundRobinSwitcher) GetProxy(pr *http.Request) (*url.URL, error) {
	if len(r.proxyURLs) == 0 {
		return nil, errEmptyProxy
	}
	index := atomic.AddUint32(&r.index, 1) - 1
	u := r.proxyURLs[index%uint32(len(r.proxyURLs))]
	return u, nil
}

// RoundRobinProxySwitcher returns a proxy function that hands out ProxyURLs
// in turn, one per request. Supported schemes are http, https and socks5;
// a URL without a scheme is taken as http.
func RoundRobinProxySwitcher(ProxyURLs ...string) (ProxyFunc, error) {
	if len(ProxyURLs) < 1 {
		return nil, errEmptyProxy
	}
	urls := make([]*url.URL, len(ProxyURLs))
	for i, u := range ProxyURLs {
		if !strings.Contains(u, "://") {
			u = "http://" + u
		}
		parsedU, err := url.Parse(u)
		if err != nil {
			return nil, err
		}
		switch parsedU.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", parsedU.Scheme)
		}
		if parsedU.Host == "" {
			return nil, fmt.Errorf("proxy %q has no host", ProxyURLs[i])
		}
		urls[i] = parsedU
	}
	return (&roundRobinSwitcher{urls, 0}).GetProxy, nil
}
