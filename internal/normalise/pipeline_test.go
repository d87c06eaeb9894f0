package normalise_test

import (
	"testing"

	"mudlark/internal/anonymise"
	"mudlark/internal/corrections"
	"mudlark/internal/normalise"
)

func defaultPipeline(t *testing.T, opts ...normalise.Option) *normalise.Pipeline {
	t.Helper()
	dict, err := corrections.Default()
	if err != nil {
		t.Fatalf("load default corrections: %v", err)
	}
	return normalise.New(dict, opts...)
}

func TestNormaliseText(t *testing.T) {
	p := defaultPipeline(t)
	tests := []struct {
		in   string
		want string
	}{
		{"pummp is Broken", "pump is broken"},
		{"UpperCase", "uppercase"},
		{"BROKEN", "broken"},
		{"Test Tube", "test tube"},
		{"test-tube", "test - tube"},
		{"word-hyphen-word", "word - hyphen - word"},
		{"test,tube", "test tube"},
		{"engine,pump,pipe", "engine pump pipe"},
		{"a/c leakin", "air conditioner leak"},
		{"accum boken", "accumulator broken"},
		{"conmon", "condition monitoring"},
		{"wtp reapair and repalce", "water treatment pump repair and replace"},
		{"gw innadequate", "gland water inadequate"},
		{"X/X", "x / x"},
		{"test/tube", "test / tube"},
		{"replace   pump", "replace pump"},
		{"  test     tube   and   test  ", "test tube and test"},
		{"enGiNe was broken", "engine is broken"},
		{"metal pipe was broken", "metal pipe is broken"},
		{"gw had innadequate", "gland water has inadequate"},
		{"glass", "glass"},
		{"slurries", "slurry"},
		{"boxes", "box"},
		{"pumps busted", "pump bust"},
		{"hopping hoping rolling", "hop hope roll"},
		{"brokenn seal", "broken seal"},
		{"leakkk valves", "leak valve"},
		{"replaced 2.5 kw motor.", "replace 2.5 kw motor ."},
		{"check ABX32ad", "check abx32ad"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := p.Normalise(tt.in)
			if got.Text != tt.want {
				t.Fatalf("Normalise(%q) = %q, want %q", tt.in, got.Text, tt.want)
			}
			if len(got.Substitutions) != 0 {
				t.Fatalf("unexpected substitutions without anonymisation: %+v", got.Substitutions)
			}
		})
	}
}

func TestNormaliseWithAnonymisation(t *testing.T) {
	p := defaultPipeline(t, normalise.WithAnonymisation(true))
	tests := []struct {
		in   string
		want string
	}{
		{"check ABX32ad and DDdkL204ddd", "check Asset1 and Asset2"},
		{"AB123 XYZ789", "Asset1 Asset2"},
		{"XY345Z", "Asset1"},
		{"nothing here", "nothing here"},
		{"ABC 124 pumps failed, ABC-124 tripped", "Asset1 pump fail Asset1 trip"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := p.Normalise(tt.in).Text; got != tt.want {
				t.Fatalf("Normalise(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrepareFinishAcrossRows(t *testing.T) {
	p := defaultPipeline(t, normalise.WithAnonymisation(true))
	rows := []string{"ABC 124 is broken", "ABC 123 has a problem", "ABC-124 is broken"}

	reg := anonymise.NewRegistry(anonymise.ModeDataset)
	prepared := make([]normalise.Prepared, len(rows))
	for i, row := range rows {
		prepared[i] = p.Prepare(row)
		for _, span := range prepared[i].Spans {
			reg.Observe(span.Key)
		}
	}
	reg.Seal(123)

	results := make([]normalise.Result, len(rows))
	for i := range rows {
		results[i] = p.Finish(prepared[i], reg)
	}

	first, second, third := results[0].Tokens[0], results[1].Tokens[0], results[2].Tokens[0]
	if first != third {
		t.Fatalf("surface variants labelled differently: %q vs %q", first, third)
	}
	if first == second {
		t.Fatalf("distinct identifiers share label %q", first)
	}
	if results[0].Text != first+" is broken" {
		t.Fatalf("unexpected text %q", results[0].Text)
	}
	if results[1].Text != second+" has a problem" {
		t.Fatalf("unexpected text %q", results[1].Text)
	}
	if len(results[2].Substitutions) != 1 || results[2].Substitutions[0].Span != "ABC - 124" {
		t.Fatalf("unexpected substitution log: %+v", results[2].Substitutions)
	}
}

func TestLowercaseIdentifiersAreFullyReplaced(t *testing.T) {
	p := defaultPipeline(t, normalise.WithAnonymisation(true))
	rows := []string{"ABC-124 broken", "abc-124 broken", "Abc 124 broken", "abc124 broken"}

	reg := anonymise.NewRegistry(anonymise.ModeDataset)
	prepared := make([]normalise.Prepared, len(rows))
	for i, row := range rows {
		prepared[i] = p.Prepare(row)
		for _, span := range prepared[i].Spans {
			reg.Observe(span.Key)
		}
	}
	reg.Seal(7)
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d keys, want 1", reg.Len())
	}

	for i := range rows {
		got := p.Finish(prepared[i], reg).Text
		if got != "Asset1 broken" {
			t.Fatalf("Finish(%q) = %q, want %q", rows[i], got, "Asset1 broken")
		}
	}
}

func TestCorrectionsShieldMorphology(t *testing.T) {
	dict := corrections.New([]corrections.Entry{{Wrong: "fltrs", Correct: "filters"}})
	p := normalise.New(dict)
	if got := p.Normalise("fltrs clogged").Text; got != "filters clog" {
		t.Fatalf("got %q, want corrected value to survive singularisation", got)
	}
	if got := p.Normalise("filters").Text; got != "filters" {
		t.Fatalf("got %q, want protected word unchanged", got)
	}
}

func TestCollapseRepeatsOption(t *testing.T) {
	p := normalise.New(nil, normalise.WithCollapseRepeats(false))
	if got := p.Normalise("brokenn").Text; got != "brokenn" {
		t.Fatalf("got %q with collapsing disabled", got)
	}
}

func TestSurfaceHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"cleanup commas", normalise.Cleanup, "a,b", "a b"},
		{"cleanup brackets", normalise.Cleanup, "seal(s) leak;", "seal ( s ) leak ;"},
		{"cleanup decimal", normalise.Cleanup, "1.5mm gap.", "1.5mm gap ."},
		{"collapse triple", normalise.CollapseRepeats, "nooooo", "noo"},
		{"collapse final", normalise.CollapseRepeats, "pumpp", "pump"},
		{"keep final ss", normalise.CollapseRepeats, "glass", "glass"},
		{"keep short", normalise.CollapseRepeats, "inn", "inn"},
		{"keep inner double", normalise.CollapseRepeats, "pummp", "pummp"},
		{"fold fullwidth", normalise.Fold, "ＡＢＣ１２４", "ABC124"},
		{"fold control", normalise.Fold, "pump\tbroken", "pump broken"},
		{"lower", normalise.Lower, "MiXeD", "mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
