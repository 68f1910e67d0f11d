// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source implements the catalog clients that fetch raw paper
// listings: Semantic Scholar, arXiv, and CORE. Each client is one typed
// mapping from the catalog's native response shape onto the canonical
// PaperRecord; the pipeline dispatches through the Client interface and
// never branches on source type.
package source

import (
	"context"
	"net/http"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Client fetches raw paper listings from one external catalog. Fetch returns
// the catalog's native items in the catalog's relevance order; an error means
// the source contributed nothing this run, not that the run must abort.
type Client interface {
	Name() types.Source
	Fetch(ctx context.Context, query string, limit int) ([]RawItem, error)
}

// RawItem is one source-native result awaiting normalization. Normalize maps
// the catalog's field names onto the canonical schema, substituting empty
// values for missing optional fields. ok is false when the item lacks a
// usable title, in which case the item is dropped and tallied as skipped.
type RawItem interface {
	Normalize() (rec types.PaperRecord, ok bool)
}

// Enabled builds the client list for the sources cfg turns on, in the fixed
// priority order Semantic Scholar, arXiv, CORE. The order determines which
// record is "first encountered" downstream, so it must be stable.
func Enabled(client *http.Client, cfg types.ScanConfig) []Client {
	var clients []Client
	if cfg.EnableSemanticScholar {
		clients = append(clients, NewSemanticScholar(client, cfg))
	}
	if cfg.EnableArxiv {
		clients = append(clients, NewArxiv(client, cfg))
	}
	if cfg.EnableCore {
		clients = append(clients, NewCore(client, cfg))
	}
	return clients
}
