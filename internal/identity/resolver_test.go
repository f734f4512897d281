// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

func testResolver(ts *httptest.Server) *Resolver {
	return &Resolver{
		Client: ts.Client(),
		Config: types.IdentityConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   5 * time.Second,
				UserAgent: "test/0.1",
			},
			MaxSynonyms: 10,
		},
		Logger: zap.NewNop(),
	}
}

// identityHandler serves the three lookup endpoints for a single fake
// compound.
func identityHandler(synonymStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/compound/name/aspirin/cids/"):
			fmt.Fprint(w, `{"IdentifierList":{"CID":[2244]}}`)
		case strings.Contains(r.URL.Path, "/compound/cid/2244/property/"):
			fmt.Fprint(w, `{"PropertyTable":{"Properties":[{
				"CID":2244,
				"Title":"Acetylsalicylic acid",
				"IUPACName":"2-acetyloxybenzoic acid",
				"MolecularFormula":"C9H8O4",
				"MolecularWeight":"180.16",
				"CanonicalSMILES":"CC(=O)OC1=CC=CC=C1C(=O)O",
				"InChIKey":"BSYNRYMUTXBXSQ-UHFFFAOYSA-N",
				"ExactMass":"180.04225873",
				"TPSA":63.6,
				"XLogP":1.2}]}}`)
		case strings.Contains(r.URL.Path, "/compound/cid/2244/synonyms/"):
			if synonymStatus != http.StatusOK {
				w.WriteHeader(synonymStatus)
				return
			}
			fmt.Fprint(w, `{"InformationList":{"Information":[{"CID":2244,
				"Synonym":["aspirin","ASA","2-Acetoxybenzoic acid","s1","s2","s3","s4","s5","s6","s7","s8","s9"]}]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestResolve(t *testing.T) {
	ts := httptest.NewServer(identityHandler(http.StatusOK))
	defer ts.Close()

	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	r := testResolver(ts)
	ident, err := r.Resolve(context.Background(), "aspirin")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if ident.CanonicalName != "Acetylsalicylic acid" {
		t.Errorf("CanonicalName = %q", ident.CanonicalName)
	}
	if ident.CompoundID != 2244 {
		t.Errorf("CompoundID = %d, want 2244", ident.CompoundID)
	}
	if ident.Formula != "C9H8O4" {
		t.Errorf("Formula = %q", ident.Formula)
	}
	if ident.MolecularWeight == nil || *ident.MolecularWeight != 180.16 {
		t.Errorf("MolecularWeight = %v, want 180.16", ident.MolecularWeight)
	}
	if ident.LogP == nil || *ident.LogP != 1.2 {
		t.Errorf("LogP = %v, want 1.2", ident.LogP)
	}
	if p := ident.Polarity(); p == nil || *p != -1.2 {
		t.Errorf("Polarity() = %v, want -1.2", p)
	}
	// Synonym list is capped at 10 of the 12 served.
	if len(ident.Synonyms) != 10 {
		t.Errorf("len(Synonyms) = %d, want 10", len(ident.Synonyms))
	}
	if ident.Synonyms[0] != "aspirin" {
		t.Errorf("Synonyms[0] = %q", ident.Synonyms[0])
	}
	if ident.IsUnknown() {
		t.Error("resolved identity reported as unknown")
	}
	if ident.ImageRef == "" {
		t.Error("ImageRef should be populated")
	}
}

func TestResolveNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	r := testResolver(ts)
	_, err := r.Resolve(context.Background(), "xyz123")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveSynonymFailureDegrades(t *testing.T) {
	ts := httptest.NewServer(identityHandler(http.StatusInternalServerError))
	defer ts.Close()

	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	r := testResolver(ts)
	ident, err := r.Resolve(context.Background(), "aspirin")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want success with empty synonyms", err)
	}
	if len(ident.Synonyms) != 0 {
		t.Errorf("len(Synonyms) = %d, want 0", len(ident.Synonyms))
	}
	if ident.CanonicalName != "Acetylsalicylic acid" {
		t.Errorf("CanonicalName = %q", ident.CanonicalName)
	}
}

func TestResolveUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer ts.Close()

	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	r := testResolver(ts)
	_, err := r.Resolve(context.Background(), "aspirin")
	if err == nil {
		t.Fatal("Resolve() should fail on malformed response")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("malformed response must not map to ErrNotFound")
	}
}

func TestResolveNormalizesBeforeLookup(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/cids/") {
			gotPath = r.URL.Path
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	r := testResolver(ts)
	r.Resolve(context.Background(), "α-Tocopherol (total)")

	if !strings.Contains(gotPath, "alpha-Tocopherol") {
		t.Errorf("lookup path = %q, want normalized term", gotPath)
	}
	if strings.Contains(gotPath, "total") {
		t.Errorf("lookup path = %q, qualifier should be stripped", gotPath)
	}
}
