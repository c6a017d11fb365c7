package synthesis

import "testing"

func TestSelectTier(t *testing.T) {
	cases := []struct {
		name string
		in   SelectionInputs
		want Tier
	}{
		{
			name: "explicit premium preference wins",
			in:   SelectionInputs{Preference: TierPremium, Text: "hello"},
			want: TierPremium,
		},
		{
			name: "explicit local preference wins over importance",
			in:   SelectionInputs{Preference: TierLocal, Text: "your portfolio gained"},
			want: TierLocal,
		},
		{
			name: "first assistant turn gets premium",
			in:   SelectionInputs{FirstAssistantTurn: true, Text: "hi there"},
			want: TierPremium,
		},
		{
			name: "financial substance gets premium",
			in:   SelectionInputs{Text: "Your portfolio is up 3 percent"},
			want: TierPremium,
		},
		{
			name: "small talk stays local",
			in:   SelectionInputs{Text: "Sure, anything else?"},
			want: TierLocal,
		},
		{
			name: "marker match is case insensitive",
			in:   SelectionInputs{Text: "Total BALANCE unchanged"},
			want: TierPremium,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SelectTier(c.in); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}
