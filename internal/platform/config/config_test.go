package config

import (
	"testing"
	"time"

	kit "pfascheck/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	mongo := New().Prefix("SERVICE_").Prefix("MONGO_")
	if got := mongo.key("URI"); got != "SERVICE_MONGO_URI" {
		t.Fatalf("key() = %q, want %q", got, "SERVICE_MONGO_URI")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_MONGO_")
	t.Setenv("SERVICE_MONGO_DB", "  pfas ")
	if got := c.MustString("DB"); got != "pfas" {
		t.Fatalf("MustString = %q, want %q", got, "pfas")
	}
	kit.MustPanic(t, func() { _ = c.MustString("COLLECTION_MISSING") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_CONNS", "  8 ")
	if got := c.MustInt("CONNS"); got != 8 {
		t.Fatalf("MustInt = %d, want %d", got, 8)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestMustDuration(t *testing.T) {
	c := New().Prefix("D_")
	t.Setenv("D_TTL", " 1h ")
	if got := c.MustDuration("TTL"); got != time.Hour {
		t.Fatalf("MustDuration = %v, want %v", got, time.Hour)
	}
	t.Setenv("D_BAD", "nope")
	kit.MustPanic(t, func() { _ = c.MustDuration("BAD") })
}

func TestRequireAndHas(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "x")
	t.Setenv("REQ_WS", "   ")
	c.Require("A")
	kit.MustPanic(t, func() { c.Require("A", "C") })
	kit.MustPanic(t, func() { c.Require("WS") })
	if !c.Has("A") || c.Has("WS") || c.Has("C") {
		t.Fatalf("Has mismatch")
	}
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "ZIP Codes"); got != "ZIP Codes" {
		t.Fatalf("MayString default = %q", got)
	}
	t.Setenv("S_FIELD", " zips ")
	if got := c.MayString("FIELD", "x"); got != "zips" {
		t.Fatalf("MayString value = %q", got)
	}
}

func TestMayIntAndBool(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("I_OK", " 7 ")
	t.Setenv("I_BAD", "x")
	if c.MayInt("OK", 0) != 7 || c.MayInt("BAD", 3) != 3 {
		t.Fatalf("MayInt mismatch")
	}
	t.Setenv("I_T", "true")
	if !c.MayBool("T", false) || c.MayBool("BAD", false) || !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool mismatch")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("DUR_")
	if got := c.MayDuration("MISS", time.Hour); got != time.Hour {
		t.Fatalf("MayDuration default expected")
	}
	t.Setenv("DUR_OK", "150ms")
	if got := c.MayDuration("OK", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration ok = %v", got)
	}
	t.Setenv("DUR_BAD", "nope")
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default expected")
	}
}

func TestMayBytes(t *testing.T) {
	c := New().Prefix("SZ_")
	cases := map[string]int64{
		"1024":   1024,
		"32MiB":  32 << 20,
		"2 KiB":  2048,
		"5MB":    5_000_000,
		"1GiB":   1 << 30,
		"100B":   100,
		"-4":     77,
		"lots":   77,
		"12XB":   77,
	}
	for in, want := range cases {
		t.Setenv("SZ_LIMIT", in)
		if got := c.MayBytes("LIMIT", 77); got != want {
			t.Fatalf("MayBytes(%q) = %d, want %d", in, got, want)
		}
	}
	if got := c.MayBytes("MISSING", 11); got != 11 {
		t.Fatalf("MayBytes default = %d", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	t.Setenv("CSV_VALS", " one, two , ,three ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	t.Setenv("CSV_EMPTY", " , ,")
	if got := c.MayCSV("EMPTY", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV all-empty -> default mismatch: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "mongo", "mongo", "pg"); got != "mongo" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_SRC", "PG")
	if got := c.MayEnum("SRC", "mongo", "mongo", "pg"); got != "pg" {
		t.Fatalf("MayEnum allowed value = %q", got)
	}
	if got := c.MayEnum("MISSING", "", "mongo"); got != "" {
		t.Fatalf("MayEnum empty def = %q", got)
	}
	t.Setenv("E_BAD", "redis")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "mongo", "mongo", "pg") })
}
