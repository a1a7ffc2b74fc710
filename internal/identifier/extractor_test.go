package identifier

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtract_DelimitedCodes(t *testing.T) {
	e := New(Options{Uppercase: true}, testLogger())

	tests := []struct {
		in   string
		want string
	}{
		{"SNIS-829.mp4", "SNIS-829"},
		{"SNIS-829-C.mp4", "SNIS-829"},
		{"MEYD-594-C.mp4", "MEYD-594"},
		{"SSIS-001_C.mp4", "SSIS-001"},
		{"SSIS100-C.mp4", "SSIS100"},
		{"SDDE-625_uncensored_C.mp4", "SDDE-625"},
		{"rctd-460ch.mp4", "RCTD-460"},
		{"ADV-R0624-CD3.wmv", "ADV-R0624"},
		{"MD-123.ts", "MD-123"},
		{"abp-454_uc.mp4", "ABP-454"},
	}
	for _, tt := range tests {
		got, err := e.Extract(tt.in)
		if err != nil {
			t.Errorf("Extract(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Extract(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtract_Paths(t *testing.T) {
	e := New(Options{Uppercase: true}, testLogger())

	tests := []string{
		"/Users/guest/library/snis-829.mp4",
		`C:\Users\guest\snis-829.mp4`,
		"./snis-829.mp4",
		"snis-829.mp4",
	}
	for _, in := range tests {
		got, err := e.Extract(in)
		if err != nil {
			t.Fatalf("Extract(%q) error: %v", in, err)
		}
		if got != "SNIS-829" {
			t.Errorf("Extract(%q) = %q, want SNIS-829", in, got)
		}
	}
}

func TestExtract_SourceRules(t *testing.T) {
	e := New(Options{}, testLogger())

	tests := []struct {
		in   string
		want string
	}{
		{"Tokyo Hot n9001 FHD.mp4", "n9001"},
		{"TokyoHot-n1287-HD SP2006 .mp4", "n1287"},
		{"caribean-020317_001.nfo", "020317-001"},
		{"1pon-010121_001.mp4", "010121_001"},
		{"10mu-230101_01.mp4", "230101_01"},
		{"x-art.23.01.01.mp4", "x-art.23.01.01"},
		{"heyzo-1234.mp4", "HEYZO-1234"},
		{"XXX-AV   22061-CD5.iso", "xxx-av-22061"},
		{"heydouga-4017-233.mp4", "heydouga-4017-233"},
		{"mdbk-0008.mp4", "mdbk-0008"},
	}
	for _, tt := range tests {
		got, err := e.Extract(tt.in)
		if err != nil {
			t.Errorf("Extract(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Extract(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtract_SubtitledTitle(t *testing.T) {
	e := New(Options{}, testLogger())

	in := "[脸肿字幕组][PoRO]牝教師4～穢された教壇～ 「生意気ドジっ娘女教師・美結～高飛車ハメ堕ち2濁金」[720p][x264_aac].mp4"
	want := "牝教師4～穢された教壇～ 「生意気ドジっ娘女教師・美結～高飛車ハメ堕ち2濁金」"

	got, err := e.Extract(in)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtract_NoExtension(t *testing.T) {
	e := New(Options{Uppercase: true}, testLogger())

	got, err := e.Extract("SSNI-829")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got != "SSNI-829" {
		t.Errorf("Extract = %q, want SSNI-829", got)
	}
}

func TestExtract_Empty(t *testing.T) {
	e := New(Options{}, testLogger())

	if _, err := e.Extract(""); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestExtract_CustomPatternWins(t *testing.T) {
	e := New(Options{CustomPatterns: []string{`CUSTOM\d+`}}, testLogger())

	got, err := e.Extract("prefix CUSTOM42 SNIS-829.mp4")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got != "CUSTOM42" {
		t.Errorf("Extract = %q, want CUSTOM42", got)
	}
}

func TestExtract_MalformedCustomPatternSkipped(t *testing.T) {
	e := New(Options{
		CustomPatterns: []string{`([unclosed`},
		Uppercase:      true,
	}, testLogger())

	got, err := e.Extract("snis-829.mp4")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got != "SNIS-829" {
		t.Errorf("Extract = %q, want SNIS-829", got)
	}
}

func TestExtract_WesternDateCode(t *testing.T) {
	e := New(Options{}, testLogger())

	got, err := e.Extract("vixen.18.07.18.mp4")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got != "vixen.18.07.18" {
		t.Errorf("Extract = %q, want vixen.18.07.18", got)
	}
}

func TestEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ABC-123", "ABC-123", true},
		{"abc-123", "ABC-123", true},
		{"300ABC-123", "ABC-123", true},
		{"ABC-123", "300ABC-123", true},
		{"300MAAN-797", "MAAN-797", true},
		{"ABC-123", "XYZ-999", false},
		{"", "ABC-123", false},
		{"ABC-123", "", false},
		{"", "", false},
		// A short numeric prefix is part of the identifier, not noise.
		{"12ABC-123", "ABC-123", false},
	}
	for _, tt := range tests {
		if got := Equivalent(tt.a, tt.b); got != tt.want {
			t.Errorf("Equivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsUncensored(t *testing.T) {
	uncensored := []string{
		"1234-567",
		"123456_789",
		"CZ1234",
		"GEDO1234",
		"K1234",
		"N1234",
		"RED-1234",
		"SE1234",
		"HEYZO-1234",
		"XXX-AV-1234",
		"heydouga-1234-567",
		"x-art.23.01.01",
	}
	for _, n := range uncensored {
		if !IsUncensored(n, nil) {
			t.Errorf("IsUncensored(%q) = false, want true", n)
		}
	}

	censored := []string{"SSNI-829", "MEYD-594", "SDDE-625"}
	for _, n := range censored {
		if IsUncensored(n, nil) {
			t.Errorf("IsUncensored(%q) = true, want false", n)
		}
	}

	if !IsUncensored("MYSTUDIO-001", []string{"mystudio"}) {
		t.Error("expected configured prefix to classify as uncensored")
	}
}
