package provider

import (
	"context"
	"fmt"
)

// Name uniquely identifies a metadata source.
type Name string

// Known source names.
const (
	NameJavlibrary Name = "javlibrary"
	NameJavdb      Name = "javdb"
	NameJavbus     Name = "javbus"
	NameAirav      Name = "airav"
	NameFanza      Name = "fanza"
	NameXcity      Name = "xcity"
	NameJav321     Name = "jav321"
	NameMgstage    Name = "mgstage"
	NameFC2        Name = "fc2"
	NameAvsox      Name = "avsox"
	NameDlsite     Name = "dlsite"
	NameCarib      Name = "carib"
	NameMadou      Name = "madou"
	NameMsin       Name = "msin"
	NameAv123      Name = "av123"
	NameGetchu     Name = "getchu"
	NameGcolle     Name = "gcolle"
	NameJavday     Name = "javday"
	NamePissplay   Name = "pissplay"
	NameJavmenu    Name = "javmenu"
	NamePcolle     Name = "pcolle"
	NameCaribpr    Name = "caribpr"
	NameMadouji    Name = "madouji"
)

// AllNames returns every known source name in default priority order.
func AllNames() []Name {
	return []Name{
		NameJavlibrary, NameJavdb, NameJavbus, NameAirav, NameFanza,
		NameXcity, NameJav321, NameMgstage, NameFC2, NameAvsox,
		NameDlsite, NameCarib, NameMadou, NameMsin, NameAv123,
		NameGetchu, NameGcolle, NameJavday, NamePissplay, NameJavmenu,
		NamePcolle, NameCaribpr, NameMadouji,
	}
}

// Known reports whether n is a recognized source name.
func Known(n Name) bool {
	for _, k := range AllNames() {
		if k == n {
			return true
		}
	}
	return false
}

// Watermarked reports whether the source embeds a visible watermark in its
// cover images. Accepted results from such sources get their cover replaced
// from a later source when possible.
func (n Name) Watermarked() bool {
	return n == NameJavdb
}

// Result is the raw structured record a source returns for one query.
type Result struct {
	Title       string   `json:"title"`
	Number      string   `json:"number"`
	Cover       string   `json:"cover"`
	CoverSmall  string   `json:"cover_small"`
	Studio      string   `json:"studio"`
	Release     string   `json:"release"`
	Year        string   `json:"year"`
	Runtime     string   `json:"runtime"`
	Outline     string   `json:"outline"`
	Director    string   `json:"director"`
	Series      string   `json:"series"`
	Label       string   `json:"label"`
	Trailer     string   `json:"trailer"`
	Actors      []string `json:"actor"`
	Tags        []string `json:"tag"`
	ExtraFanart []string `json:"extrafanart"`
	Source      Name     `json:"source"`

	// AllowNumberChange lets a source return an identifier that differs
	// from the requested one, for catalogs with legitimate alternate
	// numbering.
	AllowNumberChange bool `json:"allow_number_change"`
	Uncensored        bool `json:"uncensored"`
}

// Acceptable reports whether the result satisfies the minimum contract for
// acceptance: a title, an identifier and at least one cover reference.
func (r *Result) Acceptable() bool {
	if r == nil {
		return false
	}
	if r.Title == "" || r.Title == "null" {
		return false
	}
	if r.Number == "" || r.Number == "null" {
		return false
	}
	cover := r.Cover != "" && r.Cover != "null"
	small := r.CoverSmall != "" && r.CoverSmall != "null"
	return cover || small
}

// Provider is the capability every metadata source adapter implements.
type Provider interface {
	// Name returns the unique source identifier.
	Name() Name

	// Scrape queries the source for one identifier. Implementations return
	// *ErrNotFound when the source has no record, *ErrQuery for transient
	// site failures, and any other error for unexpected conditions; the
	// caller advances to the next source in every failure case.
	Scrape(ctx context.Context, number string, rc *RequestContext) (*Result, error)
}

// ErrNotFound indicates the source has no record for the requested
// identifier. It is an expected outcome, not a failure.
type ErrNotFound struct {
	Source Name
	Number string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("source %s: %s not found", e.Source, e.Number)
}

// ErrQuery indicates a transient source failure (network, parse or
// site-specific). The orchestrator absorbs it and advances.
type ErrQuery struct {
	Source Name
	Cause  error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("source %s query failed: %v", e.Source, e.Cause)
}

func (e *ErrQuery) Unwrap() error { return e.Cause }
