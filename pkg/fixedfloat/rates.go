package fixedfloat

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// RatesXML fetches the public rate export for "fixed" or "float" orders.
// The endpoint is unauthenticated and the XML document is returned
// verbatim; any other kind is rejected before dispatch.
func (c *Client) RatesXML(ctx context.Context, kind string) (string, error) {
	if kind != TypeFixed && kind != TypeFloat {
		return "", &ValidationError{
			Op:     "rates",
			Reason: fmt.Sprintf("invalid rates type %q (want %q or %q)", kind, TypeFixed, TypeFloat),
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/xml").
		Get(strings.TrimRight(c.RatesURL, "/") + "/" + kind + ".xml")
	if err != nil {
		return "", errors.Wrap(err, "rates request failed")
	}
	if resp.IsError() {
		return "", errors.Errorf("rates export: http %d", resp.StatusCode())
	}
	return string(resp.Body()), nil
}
