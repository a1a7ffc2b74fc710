package normalize

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sydlexius/avresolve/internal/mapping"
	"github.com/sydlexius/avresolve/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReplaceSpecials(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a\b`, "a∖b"},
		{"a/b", "a∕b"},
		{"a:b", "a꞉b"},
		{"a*b?", "a∗b？"},
		{`say "hi"`, "say ＂hi＂"},
		{"<tag>|x", "ᐸtagᐳǀx"},
		{"rock &amp; roll", "rock ＆ roll"},
		{"rock & roll", "rock ＆ roll"},
		{"&lsquo;quoted&rsquo;&hellip;", "‘quoted’…"},
		{"clean text", "clean text"},
	}
	for _, tt := range tests {
		if got := ReplaceSpecials(tt.in); got != tt.want {
			t.Errorf("ReplaceSpecials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceSpecials_Idempotent(t *testing.T) {
	in := `a\b/c:d*e?f"g<h>i|j & k`
	once := ReplaceSpecials(in)
	if twice := ReplaceSpecials(once); twice != once {
		t.Errorf("second pass changed output: %q vs %q", twice, once)
	}
}

type fakeTranslator struct {
	prefix string
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, text string) string {
	f.calls++
	return f.prefix + text
}

type fakeCache struct {
	entries map[string]string
	puts    int
	fail    bool
}

func (f *fakeCache) Get(_ context.Context, number string) (string, bool, error) {
	if f.fail {
		return "", false, errors.New("cache down")
	}
	title, ok := f.entries[number]
	return title, ok, nil
}

func (f *fakeCache) Put(_ context.Context, number, title string) error {
	if f.fail {
		return errors.New("cache down")
	}
	f.puts++
	f.entries[number] = title
	return nil
}

type fakeConverter struct {
	fail bool
}

func (f *fakeConverter) Convert(text string) (string, error) {
	if f.fail {
		return "", errors.New("converter down")
	}
	return "[cc]" + text, nil
}

func baseResult() *provider.Result {
	return &provider.Result{
		Title:   "title: with/specials",
		Number:  "abc-123",
		Cover:   "https://x/cover.jpg",
		Release: "2020/01/02",
		Year:    "2020",
		Actors:  []string{" actor one ", ""},
		Tags:    []string{"drama", "XXXX", "xxx", " "},
		Source:  provider.NameJavbus,
	}
}

func TestNormalize_BuildStage(t *testing.T) {
	n := New(Deps{}, Options{UppercaseNumber: true}, testLogger())

	rec, err := n.Normalize(context.Background(), baseResult())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if rec.Number != "ABC-123" {
		t.Errorf("Number = %q, want uppercased", rec.Number)
	}
	if rec.Title != "title꞉ with∕specials" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.OriginalTitle != rec.Title {
		t.Errorf("OriginalTitle = %q, want copy of title", rec.OriginalTitle)
	}
	if rec.Release != "2020-01-02" {
		t.Errorf("Release = %q", rec.Release)
	}
	if len(rec.Actors) != 1 || rec.Actors[0] != "actor one" {
		t.Errorf("Actors = %v", rec.Actors)
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "drama" {
		t.Errorf("Tags = %v, want placeholders dropped", rec.Tags)
	}
}

func TestFirstCover(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://x/s.jpg", "https://x/s.jpg"},
		{`"https://x/s.jpg",https://x/other.jpg`, "https://x/s.jpg"},
		{"'https://x/s.jpg'", "https://x/s.jpg"},
	}
	for _, tt := range tests {
		if got := firstCover(tt.in); got != tt.want {
			t.Errorf("firstCover(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_TitleUsesCacheBeforeEngine(t *testing.T) {
	translator := &fakeTranslator{prefix: "译:"}
	cache := &fakeCache{entries: map[string]string{"abc-123": "缓存标题"}}
	n := New(Deps{Translator: translator, TitleCache: cache},
		Options{TranslateFields: []string{"title"}}, testLogger())

	rec, err := n.Normalize(context.Background(), baseResult())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Title != "缓存标题" {
		t.Errorf("Title = %q, want cached", rec.Title)
	}
	if translator.calls != 0 {
		t.Errorf("engine called %d times, want 0", translator.calls)
	}
}

func TestNormalize_TitleTranslationStoredInCache(t *testing.T) {
	translator := &fakeTranslator{prefix: "译:"}
	cache := &fakeCache{entries: map[string]string{}}
	n := New(Deps{Translator: translator, TitleCache: cache},
		Options{TranslateFields: []string{"title", "outline"}}, testLogger())

	res := baseResult()
	res.Outline = "outline text"
	rec, err := n.Normalize(context.Background(), res)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !strings.HasPrefix(rec.Title, "译:") {
		t.Errorf("Title = %q, want translated", rec.Title)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
	if rec.Outline != "译:outline text" {
		t.Errorf("Outline = %q, want translated", rec.Outline)
	}
}

func TestNormalize_CacheFailureIsBestEffort(t *testing.T) {
	translator := &fakeTranslator{prefix: "译:"}
	n := New(Deps{Translator: translator, TitleCache: &fakeCache{fail: true}},
		Options{TranslateFields: []string{"title"}}, testLogger())

	rec, err := n.Normalize(context.Background(), baseResult())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !strings.HasPrefix(rec.Title, "译:") {
		t.Errorf("Title = %q, want translated despite cache failure", rec.Title)
	}
}

func TestNormalize_ActorMapping(t *testing.T) {
	actors := mapping.NewTable(map[string]string{"actor one": "演员一"})
	n := New(Deps{Actors: actors}, Options{}, testLogger())

	rec, err := n.Normalize(context.Background(), baseResult())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Actors[0] != "演员一" {
		t.Errorf("Actors = %v", rec.Actors)
	}
}

func TestNormalize_ActorConflictFailsRecord(t *testing.T) {
	actors := mapping.NewTable(map[string]string{
		"a": "X",
		"b": "Y",
	})
	n := New(Deps{Actors: actors}, Options{}, testLogger())

	res := baseResult()
	res.Actors = []string{"a(b)"}
	_, err := n.Normalize(context.Background(), res)

	var conflict *ErrActorConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ErrActorConflict", err)
	}
	if conflict.Raw != "a(b)" || conflict.Resolved != "X(Y)" {
		t.Errorf("conflict = %+v", conflict)
	}
}

func TestNormalize_InfoMapping(t *testing.T) {
	info := mapping.NewTable(map[string]string{
		"drama":      "剧情",
		"junk tag":   "删除",
		"old studio": "新厂牌",
	})
	n := New(Deps{Info: info}, Options{}, testLogger())

	res := baseResult()
	res.Tags = []string{"drama", "junk tag", "unmapped"}
	res.Studio = "old studio"
	rec, err := n.Normalize(context.Background(), res)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	wantTags := []string{"剧情", "unmapped"}
	if len(rec.Tags) != len(wantTags) || rec.Tags[0] != wantTags[0] || rec.Tags[1] != wantTags[1] {
		t.Errorf("Tags = %v, want %v", rec.Tags, wantTags)
	}
	if rec.Studio != "新厂牌" {
		t.Errorf("Studio = %q", rec.Studio)
	}
}

func TestNormalize_ConvertWithFallback(t *testing.T) {
	n := New(Deps{Converter: &fakeConverter{}},
		Options{ConvertFields: []string{"title", "tag"}}, testLogger())

	rec, err := n.Normalize(context.Background(), baseResult())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !strings.HasPrefix(rec.Title, "[cc]") {
		t.Errorf("Title = %q, want converted", rec.Title)
	}
	if !strings.HasPrefix(rec.Tags[0], "[cc]") {
		t.Errorf("Tags = %v, want converted", rec.Tags)
	}

	// Failure keeps the original text.
	n = New(Deps{Converter: &fakeConverter{fail: true}},
		Options{ConvertFields: []string{"title"}}, testLogger())
	rec, err = n.Normalize(context.Background(), baseResult())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if strings.HasPrefix(rec.Title, "[cc]") {
		t.Errorf("Title = %q, want original on converter failure", rec.Title)
	}
}

func TestDisplayActors(t *testing.T) {
	actors := []string{"Jane Doe", "John Roe"}
	if got := displayActors(actors, provider.NameJavbus); got != "JaneDoe,JohnRoe" {
		t.Errorf("displayActors = %q", got)
	}
	if got := displayActors(actors, provider.NamePissplay); got != "Jane Doe, John Roe" {
		t.Errorf("displayActors(pissplay) = %q", got)
	}
}

func TestNormalize_NamingRule(t *testing.T) {
	translator := &fakeTranslator{prefix: "译:"}
	n := New(Deps{Translator: translator},
		Options{
			UppercaseNumber: true,
			TranslateFields: []string{"title"},
			NamingRule:      "number+'-'+title",
		}, testLogger())

	res := baseResult()
	res.Title = "原题"
	rec, err := n.Normalize(context.Background(), res)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if rec.NamingRule != "ABC-123-译:原题" {
		t.Errorf("NamingRule = %q", rec.NamingRule)
	}
	if rec.OriginalNamingRule != "ABC-123-原题" {
		t.Errorf("OriginalNamingRule = %q", rec.OriginalNamingRule)
	}
}

func TestNormalize_NamingRuleWithActorList(t *testing.T) {
	n := New(Deps{}, Options{NamingRule: "number+' '+actor"}, testLogger())

	res := baseResult()
	res.Actors = []string{"演员一", "演员二"}
	rec, err := n.Normalize(context.Background(), res)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.NamingRule != "abc-123 演员一,演员二" {
		t.Errorf("NamingRule = %q", rec.NamingRule)
	}
}
