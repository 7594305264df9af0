package collect

import (
	"errors"
	"net/url"
)

// Request is one document to fetch.
type Request struct {
	URL    string
	Cookie string
}

func (r *Request) Check() error {
	if r.URL == "" {
		return errors.New("empty url")
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("unsupported url scheme " + u.Scheme)
	}

	return nil
}
