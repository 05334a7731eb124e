package walletconnect

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// URI is a version 1 pairing URI: wc:{topic}@1?bridge={url}&key={hex}.
type URI struct {
	Topic  string
	Bridge string
	Key    []byte
}

func (u URI) String() string {
	q := url.Values{}
	q.Set("bridge", u.Bridge)
	q.Set("key", hex.EncodeToString(u.Key))
	return fmt.Sprintf("wc:%s@1?%s", u.Topic, q.Encode())
}

// ParseURI decodes a pairing URI.
func ParseURI(raw string) (URI, error) {
	rest, ok := strings.CutPrefix(raw, "wc:")
	if !ok {
		return URI{}, fmt.Errorf("not a walletconnect uri: %q", raw)
	}
	path, query, _ := strings.Cut(rest, "?")
	topic, version, _ := strings.Cut(path, "@")
	if topic == "" || version != "1" {
		return URI{}, fmt.Errorf("unsupported walletconnect uri %q", raw)
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return URI{}, fmt.Errorf("parse uri query: %w", err)
	}
	key, err := hex.DecodeString(q.Get("key"))
	if err != nil || len(key) != keySize {
		return URI{}, fmt.Errorf("invalid uri key")
	}
	if q.Get("bridge") == "" {
		return URI{}, fmt.Errorf("uri has no bridge")
	}
	return URI{Topic: topic, Bridge: q.Get("bridge"), Key: key}, nil
}

// socketURL maps the bridge's http(s) URL to its websocket endpoint.
func socketURL(bridge string) (string, error) {
	u, err := url.Parse(bridge)
	if err != nil {
		return "", fmt.Errorf("parse bridge url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported bridge scheme %q", u.Scheme)
	}
	return u.String(), nil
}
