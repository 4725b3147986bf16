package backend

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

var numericPattern = regexp.MustCompile(`^\d+$`)

// Params holds query parameters before encoding.
type Params map[string]any

// Sanitize drops empty or nil values and coerces purely numeric strings
// to integers. The backend rejects numeric filters given as quoted
// strings, so callers forwarding raw form input must sanitize first.
func (p Params) Sanitize() Params {
	out := Params{}
	for k, v := range p {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s == "" {
				continue
			}
			if numericPattern.MatchString(s) {
				n, err := strconv.Atoi(s)
				if err == nil {
					out[k] = n
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

// Values encodes parameters for a query string.
func (p Params) Values() url.Values {
	vals := url.Values{}
	for k, v := range p {
		switch t := v.(type) {
		case string:
			vals.Set(k, t)
		case int:
			vals.Set(k, strconv.Itoa(t))
		case int64:
			vals.Set(k, strconv.FormatInt(t, 10))
		case bool:
			vals.Set(k, strconv.FormatBool(t))
		case float64:
			vals.Set(k, strconv.FormatFloat(t, 'f', -1, 64))
		default:
			vals.Set(k, fmt.Sprint(t))
		}
	}
	return vals
}
