package database

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/common/config"
)

func TestDialectorForDrivers(t *testing.T) {
	cases := []struct {
		driver string
		name   string
	}{
		{driver: "postgres", name: "postgres"},
		{driver: "", name: "postgres"},
		{driver: "mysql", name: "mysql"},
	}
	for _, tc := range cases {
		d, err := dialectorFor(&config.Config{HGRACDriver: tc.driver, HGRACHost: "db", HGRACPort: "1"})
		if err != nil {
			t.Fatalf("driver %q: unexpected error %v", tc.driver, err)
		}
		if d.Name() != tc.name {
			t.Fatalf("driver %q: expected dialector %s, got %s", tc.driver, tc.name, d.Name())
		}
	}

	if _, err := dialectorFor(&config.Config{HGRACDriver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestCacheOptions(t *testing.T) {
	opts := cacheOptions(&config.Config{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	if opts.Addr != "cache:6380" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2, got %d", opts.DB)
	}
	if opts.ReadTimeout != cacheTimeout || opts.DialTimeout != cacheTimeout {
		t.Fatalf("expected cache timeouts, got dial=%s read=%s", opts.DialTimeout, opts.ReadTimeout)
	}
}
