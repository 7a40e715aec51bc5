package redis

import "strings"

const defaultNamespace = "hc"

// IdempotencyKey scopes a stored replay to route and caller.
func (c *Client) IdempotencyKey(scope, id string) string {
	return c.key("idempotency", scope, id)
}

func (c *Client) RateLimitKey(scope string) string {
	return c.key("rate_limit", scope)
}

// SlotKey names the key holding one catalog slot document.
func (c *Client) SlotKey(name string) string {
	return c.key("slot", name)
}

// AccessSessionKey names the refresh session bound to an access token id.
func (c *Client) AccessSessionKey(accessID string) string {
	return c.key("session", "access", accessID)
}

func (c *Client) key(parts ...string) string {
	ns := c.namespace
	if ns == "" {
		ns = defaultNamespace
	}
	out := make([]string, 0, len(parts)+1)
	out = append(out, ns)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ":")
}
