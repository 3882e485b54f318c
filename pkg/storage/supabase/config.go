package supabase

type Option func(*Client)

func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}
