package ident_test

import (
	"testing"

	"github.com/boolexpr/booleano-go/pkg/ident"
)

func TestFoldIsCaseInsensitive(t *testing.T) {
	if ident.Fold("AGE") != ident.Fold("age") {
		t.Fatal("expected Fold to case-fold ASCII identifiers identically")
	}
}

func TestFoldHandlesTurkishDottedCapitalI(t *testing.T) {
	if ident.Fold("İstanbul") != ident.Fold("istanbul") {
		t.Fatalf("got %q and %q, expected U+0130 to fold like a plain i", ident.Fold("İstanbul"), ident.Fold("istanbul"))
	}
}

func TestFoldAll(t *testing.T) {
	got := ident.FoldAll([]string{"Customer", "ORDERS"})
	want := []string{"customer", "orders"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLocaleZeroValueIsZero(t *testing.T) {
	var l ident.Locale
	if !l.IsZero() {
		t.Fatal("expected the zero value Locale to report IsZero")
	}
}

func TestParseLocaleIsNotZero(t *testing.T) {
	l, err := ident.ParseLocale("es-VE")
	if err != nil {
		t.Fatal(err)
	}
	if l.IsZero() {
		t.Fatal("did not expect a parsed locale to be zero")
	}
	if l.String() != "es-VE" {
		t.Fatalf("got %q, want %q", l.String(), "es-VE")
	}
}

func TestParseLocaleRejectsMalformedTag(t *testing.T) {
	if _, err := ident.ParseLocale("!!not-a-tag!!"); err == nil {
		t.Fatal("expected an error for a malformed BCP 47 tag")
	}
}

func TestMustLocalePanicsOnMalformedTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustLocale to panic on a malformed tag")
		}
	}()
	ident.MustLocale("!!not-a-tag!!")
}

func TestLocaleEqual(t *testing.T) {
	a := ident.MustLocale("en")
	b, err := ident.ParseLocale("en")
	if err != nil {
		t.Fatal(err)
	}
	c := ident.MustLocale("es")
	if !a.Equal(b) {
		t.Fatal("expected two locales parsed from the same tag to be Equal")
	}
	if a.Equal(c) {
		t.Fatal("did not expect locales for different tags to be Equal")
	}
}
