// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity resolves free-text chemical names against the
// chemical-identity service: canonical name, synonyms, and property data.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/internal/httputil"
	"github.com/pdiddy/refmat-engine/internal/metrics"
	"github.com/pdiddy/refmat-engine/pkg/types"
)

// identityAPIBase is the identity service root. Declared as a var so tests
// can substitute an httptest server.
var identityAPIBase = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// ErrNotFound is returned when the service has no compound for the
// normalized term. Callers treat it as recoverable and proceed with the
// literal term.
var ErrNotFound = errors.New("identity: compound not found")

const defaultMaxSynonyms = 10

// Resolver wraps the identity service. It performs no retries of its own
// beyond the shared throttling backoff; callers decide how failures
// propagate.
type Resolver struct {
	Client *http.Client
	Config types.IdentityConfig
	Logger *zap.Logger
}

// Resolve normalizes term, looks up the compound id, then fetches the
// property bundle and a bounded synonym list. A synonym fetch failure
// degrades to an empty list with a warning; compound and property failures
// are returned to the caller.
func (r *Resolver) Resolve(ctx context.Context, term string) (types.ChemicalIdentity, error) {
	normalized := NormalizeTerm(term)
	if normalized == "" {
		return types.ChemicalIdentity{}, fmt.Errorf("identity: empty term after normalization of %q", term)
	}

	cid, err := r.lookupCompoundID(ctx, normalized)
	if err != nil {
		return types.ChemicalIdentity{}, err
	}

	ident, err := r.fetchProperties(ctx, cid)
	if err != nil {
		return types.ChemicalIdentity{}, err
	}

	synonyms, err := r.fetchSynonyms(ctx, cid)
	if err != nil {
		r.Logger.Warn("synonym fetch failed, continuing without synonyms",
			zap.Int64("compound_id", cid), zap.Error(err))
	}
	ident.Synonyms = synonyms
	ident.ImageRef = fmt.Sprintf("%s/compound/cid/%d/PNG", identityAPIBase, cid)

	return ident, nil
}

// lookupCompoundID maps a normalized name to the service's numeric
// compound id. HTTP 404 means the term is unknown (ErrNotFound).
func (r *Resolver) lookupCompoundID(ctx context.Context, normalized string) (int64, error) {
	reqURL := fmt.Sprintf("%s/compound/name/%s/cids/JSON", identityAPIBase, url.PathEscape(normalized))

	var body struct {
		IdentifierList struct {
			CID []int64 `json:"CID"`
		} `json:"IdentifierList"`
	}
	if err := r.getJSON(ctx, "lookup_cid", reqURL, &body); err != nil {
		return 0, err
	}
	if len(body.IdentifierList.CID) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, normalized)
	}
	return body.IdentifierList.CID[0], nil
}

const propertyFields = "Title,IUPACName,MolecularFormula,MolecularWeight,CanonicalSMILES,InChIKey,ExactMass,TPSA,XLogP"

// fetchProperties retrieves the property bundle for a compound id. The
// service serializes mass fields as strings and the computed fields as
// numbers; both are tolerated, and a missing field stays nil.
func (r *Resolver) fetchProperties(ctx context.Context, cid int64) (types.ChemicalIdentity, error) {
	reqURL := fmt.Sprintf("%s/compound/cid/%d/property/%s/JSON", identityAPIBase, cid, propertyFields)

	var body struct {
		PropertyTable struct {
			Properties []struct {
				Title           string   `json:"Title"`
				IUPACName       string   `json:"IUPACName"`
				Formula         string   `json:"MolecularFormula"`
				MolecularWeight string   `json:"MolecularWeight"`
				SMILES          string   `json:"CanonicalSMILES"`
				InChIKey        string   `json:"InChIKey"`
				ExactMass       string   `json:"ExactMass"`
				TPSA            *float64 `json:"TPSA"`
				XLogP           *float64 `json:"XLogP"`
			} `json:"Properties"`
		} `json:"PropertyTable"`
	}
	if err := r.getJSON(ctx, "fetch_properties", reqURL, &body); err != nil {
		return types.ChemicalIdentity{}, err
	}
	if len(body.PropertyTable.Properties) == 0 {
		return types.ChemicalIdentity{}, fmt.Errorf("identity: no properties for compound %d", cid)
	}

	p := body.PropertyTable.Properties[0]
	return types.ChemicalIdentity{
		CanonicalName:    p.Title,
		IUPACName:        p.IUPACName,
		Formula:          p.Formula,
		SMILES:           p.SMILES,
		InChIKey:         p.InChIKey,
		MolecularWeight:  parseOptionalFloat(p.MolecularWeight),
		ExactMass:        parseOptionalFloat(p.ExactMass),
		PolarSurfaceArea: p.TPSA,
		LogP:             p.XLogP,
		CompoundID:       cid,
	}, nil
}

// fetchSynonyms retrieves the synonym list, capped to MaxSynonyms to keep
// the repository fan-out bounded.
func (r *Resolver) fetchSynonyms(ctx context.Context, cid int64) ([]string, error) {
	reqURL := fmt.Sprintf("%s/compound/cid/%d/synonyms/JSON", identityAPIBase, cid)

	var body struct {
		InformationList struct {
			Information []struct {
				Synonym []string `json:"Synonym"`
			} `json:"Information"`
		} `json:"InformationList"`
	}
	if err := r.getJSON(ctx, "fetch_synonyms", reqURL, &body); err != nil {
		return nil, err
	}
	if len(body.InformationList.Information) == 0 {
		return nil, nil
	}

	max := r.Config.MaxSynonyms
	if max <= 0 {
		max = defaultMaxSynonyms
	}
	synonyms := body.InformationList.Information[0].Synonym
	if len(synonyms) > max {
		synonyms = synonyms[:max]
	}
	return synonyms, nil
}

// getJSON issues one GET against the identity service and decodes the JSON
// body into out. HTTP 404 maps to ErrNotFound.
func (r *Resolver) getJSON(ctx context.Context, operation, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.Config.UserAgent)
	if r.Config.ContactEmail != "" {
		req.Header.Set("From", r.Config.ContactEmail)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 0)
	if err != nil {
		metrics.ObserveRequest("identity", operation, time.Since(start).Seconds(), true)
		return fmt.Errorf("identity service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ObserveRequest("identity", operation, time.Since(start).Seconds(), false)
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveRequest("identity", operation, time.Since(start).Seconds(), true)
		return fmt.Errorf("identity service returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveRequest("identity", operation, time.Since(start).Seconds(), true)
		return fmt.Errorf("parsing identity response: %w", err)
	}
	metrics.ObserveRequest("identity", operation, time.Since(start).Seconds(), false)
	return nil
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
