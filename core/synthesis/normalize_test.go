package synthesis

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "markdown stripped",
			in:   "**Bold** and _italic_ with a [link](https://example.com)",
			want: "Bold and italic with a link",
		},
		{
			name: "signed percent with decimals",
			in:   "Bitcoin is +24.66% today",
			want: "Bitcoin is up 24 point six six percent today",
		},
		{
			name: "negative percent",
			in:   "down from the peak, -3.2%",
			want: "down from the peak, down 3 point two percent",
		},
		{
			name: "unsigned percent keeps no direction word",
			in:   "allocation is 5%",
			want: "allocation is 5 percent",
		},
		{
			name: "currency with cents",
			in:   "balance is $1,234.56",
			want: "balance is $1234 and 56 cents",
		},
		{
			name: "currency with zero cents",
			in:   "exactly $100.00",
			want: "exactly $100",
		},
		{
			name: "time shorthand",
			in:   "over the last 24h and 7d",
			want: "over the last 24 hours and 7 days",
		},
		{
			name: "singular time unit",
			in:   "in 1h",
			want: "in 1 hour",
		},
		{
			name: "ticker expansion",
			in:   "BTC and ETH are up",
			want: "Bitcoin and Ethereum are up",
		},
		{
			name: "acronym spelled out",
			in:   "RSI crossed 70",
			want: "R.S.I. crossed 70",
		},
		{
			name: "ticker not matched inside words",
			in:   "whether to rebalance",
			want: "whether to rebalance",
		},
		{
			name: "emoji removed",
			in:   "portfolio up \U0001F680",
			want: "portfolio up",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Normalize(c.in)
			if got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"**BTC** is +24.66% over 24h, balance $1,234.56",
		"RSI and MACD diverge, -0.5% in 1d",
		"plain text with no substitutions",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("normalization not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
