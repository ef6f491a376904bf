package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestCodeField_Codes(t *testing.T) {
	cases := []struct {
		name string
		in   CodeField
		want []string
	}{
		{"missing", Missing(), []string{}},
		{"list", List(" 02134", "2135", "", "nan", "99501.0"), []string{"02134", "02135", "99501"}},
		{"delimited", Delimited("02134; 10001 ;;NaN; "), []string{"02134", "10001"}},
		{"delimited single", Delimited("501"), []string{"00501"}},
		{"empty delimited", Delimited(""), []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.in.Codes(); !reflect.DeepEqual(got, c.want) {
				t.Fatalf("Codes() = %q want %q", got, c.want)
			}
		})
	}
}

func TestCodeField_Entries(t *testing.T) {
	if got := Delimited("a;b").Entries(); len(got) != 2 {
		t.Fatalf("Entries = %q", got)
	}
	if Missing().Entries() != nil {
		t.Fatalf("missing should have no entries")
	}
}

func TestZipSet(t *testing.T) {
	s := ZipSet{}
	s.Add("10001")
	s.Add("02134")
	s.Add("10001")
	if s.Len() != 2 || !s.Has("02134") || s.Has("2134") {
		t.Fatalf("unexpected set %v", s)
	}
	if got := s.Sorted(); !reflect.DeepEqual(got, []string{"02134", "10001"}) {
		t.Fatalf("Sorted = %q", got)
	}
	var nilSet ZipSet
	if nilSet.Has("02134") || nilSet.Len() != 0 {
		t.Fatalf("nil set should be empty")
	}
}

func TestSnapshot(t *testing.T) {
	ok := Snapshot{Codes: ZipSet{"02134": {}}}
	if ok.Degraded() || !ok.Contains("02134") || ok.Size() != 1 {
		t.Fatalf("unexpected snapshot state")
	}
	bad := Snapshot{Codes: ZipSet{}, Err: errors.New("timeout")}
	if !bad.Degraded() || bad.Contains("02134") {
		t.Fatalf("degraded snapshot should be empty and flagged")
	}
}
