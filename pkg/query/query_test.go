package query

import (
	"strings"
	"testing"
)

func TestParseBillingCycle(t *testing.T) {
	tests := []struct {
		in    string
		want  BillingCycle
		valid bool
	}{
		{"monthly", CycleMonthly, true},
		{"quarterly", CycleQuarterly, true},
		{"semiannually", CycleSemiannually, true},
		{"annually", CycleAnnually, true},
		{"biennially", CycleBiennially, true},
		{"triennially", CycleTriennially, true},
		{"1m", CycleMonthly, true},
		{"3m", CycleQuarterly, true},
		{"6m", CycleSemiannually, true},
		{"1y", CycleAnnually, true},
		{"2y", CycleBiennially, true},
		{"3y", CycleTriennially, true},
		{" Monthly ", CycleMonthly, true},
		{"biweekly", "", false},
		{"", "", false},
		{"4y", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBillingCycle(tt.in)
			if ok != tt.valid {
				t.Fatalf("ParseBillingCycle(%q) valid = %v, want %v", tt.in, ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Errorf("ParseBillingCycle(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRegPeriod(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{"1", 1, true},
		{"10", 10, true},
		{"1y", 1, true},
		{"2Y", 2, true},
		{"0", 0, false},
		{"11", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseRegPeriod(tt.in)
		if ok != tt.valid || got != tt.want {
			t.Errorf("ParseRegPeriod(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.valid)
		}
	}
}

func TestSanitizeTLD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"com", "com"},
		{".com", "com"},
		{".c@m!", "cm"},
		{"co.uk", "couk"},
		{"xn--p1ai", "xn--p1ai"},
		{"...", ""},
		{"!!!", ""},
		{strings.Repeat("a", 40), strings.Repeat("a", 24)},
	}

	for _, tt := range tests {
		if got := SanitizeTLD(tt.in); got != tt.want {
			t.Errorf("SanitizeTLD(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProductQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       ProductQuery
		wantErr bool
	}{
		{"valid", ProductQuery{1, CycleMonthly, AttrPrice}, false},
		{"zero pid", ProductQuery{0, CycleMonthly, AttrPrice}, true},
		{"negative pid", ProductQuery{-3, CycleMonthly, AttrPrice}, true},
		{"bad cycle", ProductQuery{1, "biweekly", AttrPrice}, true},
		{"bad attribute", ProductQuery{1, CycleMonthly, "color"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDomainQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       DomainQuery
		wantErr bool
	}{
		{"valid", DomainQuery{"com", TypeRegister, 1}, false},
		{"max period", DomainQuery{"org", TypeRenew, 10}, false},
		{"empty tld", DomainQuery{"", TypeRegister, 1}, true},
		{"unsanitized tld", DomainQuery{".com", TypeRegister, 1}, true},
		{"bad type", DomainQuery{"com", "steal", 1}, true},
		{"period too low", DomainQuery{"com", TypeRegister, 0}, true},
		{"period too high", DomainQuery{"com", TypeRegister, 11}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFeedParams(t *testing.T) {
	p := ProductQuery{42, CycleAnnually, AttrPrice}
	params := p.FeedParams()
	if got := params.Get("pid"); got != "42" {
		t.Errorf("pid = %q, want 42", got)
	}
	if got := params.Get("billingcycle"); got != "annually" {
		t.Errorf("billingcycle = %q, want annually", got)
	}
	if got := params.Get("get"); got != "price" {
		t.Errorf("get = %q, want price", got)
	}

	d := DomainQuery{"com", TypeTransfer, 2}
	params = d.FeedParams()
	if got := params.Get("tld"); got != ".com" {
		t.Errorf("tld = %q, want .com", got)
	}
	if got := params.Get("format"); got != "1" {
		t.Errorf("format = %q, want 1", got)
	}

	if got := (AllDomainsQuery{}).FeedPath(); got != "/feeds/domainpricing.php" {
		t.Errorf("FeedPath() = %q", got)
	}
	if len((AllDomainsQuery{}).FeedParams()) != 0 {
		t.Error("AllDomainsQuery should have no params")
	}
}
