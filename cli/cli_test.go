package cli

import "testing"

func TestParseIdentifier(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"analytics", []string{"analytics"}},
		{"analytics.events", []string{"analytics", "events"}},
		{"a.b.c", []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		got := parseIdentifier(tc.input)
		if len(got) != len(tc.want) {
			t.Fatalf("parseIdentifier(%q) = %v, want %v", tc.input, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("parseIdentifier(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"namespace", "table"} {
		if !names[want] {
			t.Errorf("root command is missing the %q subcommand", want)
		}
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	configPath = ""
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig without a file should fall back to defaults: %v", err)
	}
	if cfg.Catalog.Store == "" {
		t.Error("default config should name a store")
	}
}
