package config

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/go-cmp/cmp"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		want    func(c *Config)
		wantErr bool
	}{
		{name: "defaults", env: nil, want: func(c *Config) {}},
		{
			name: "overrides",
			env: map[string]string{
				"CHESS_ADDR":            ":8080",
				"CHESS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
				"CHESS_CLOCK_SECONDS":   "300",
				"CHESS_MATCH_INTERVAL":  "250ms",
				"CHESS_LOG_LEVEL":       "DEBUG",
			},
			want: func(c *Config) {
				c.Addr = ":8080"
				c.AllowedOrigins = []string{"https://a.example", "https://b.example"}
				c.ClockTime = 5 * time.Minute
				c.MatchInterval = 250 * time.Millisecond
				c.LogLevel = log.LevelDebug
			},
		},
		{name: "bad clock", env: map[string]string{"CHESS_CLOCK_SECONDS": "ten"}, wantErr: true},
		{name: "zero clock", env: map[string]string{"CHESS_CLOCK_SECONDS": "0"}, wantErr: true},
		{name: "bad interval", env: map[string]string{"CHESS_MATCH_INTERVAL": "soon"}, wantErr: true},
		{name: "bad level", env: map[string]string{"CHESS_LOG_LEVEL": "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(envOf(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("load() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("load() error = %v", err)
			}
			want := Default()
			tt.want(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAllowOrigins(t *testing.T) {
	t.Parallel()

	c := Config{AllowedOrigins: []string{"http://a", "http://b"}}
	if got, want := c.AllowOrigins(), "http://a, http://b"; got != want {
		t.Errorf("AllowOrigins() = %q, want %q", got, want)
	}
}
