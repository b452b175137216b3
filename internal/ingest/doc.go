// Package ingest reads a directory of recipe units and runs them through the
// normalizer.
//
// Supported encodings are chosen by file extension:
//
//	.json         encoding/json (numbers kept as json.Number)
//	.yaml, .yml   gopkg.in/yaml.v3
//	.cue          cuelang.org/go, evaluated and decoded to plain values
//
// Files are decoded on a bounded errgroup pool and normalized in sorted file
// name order, so the same directory always yields the same records in the
// same order. A file that fails to decode becomes a skip entry; only problems
// with the directory itself abort the run.
package ingest
