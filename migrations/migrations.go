// Package migrations empaqueta el esquema SQL para aplicarlo al arrancar (DB_AUTO_MIGRATE=true).
package migrations

import "embed"

// FS contiene los archivos NNNN_*.sql en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
